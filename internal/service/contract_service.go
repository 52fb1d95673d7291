package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/oplog"
	"github.com/transvia/fleet-office/internal/session"
)

const maxObservationsLength = 2000

type ContractRepository interface {
	Get(ctx context.Context, id int64) (*model.Contract, error)
	List(ctx context.Context) ([]model.Contract, error)
	Create(ctx context.Context, contract *model.Contract) error
	UpdateBasics(ctx context.Context, id int64, basics model.ContractBasics) error
	UpdateFreight(ctx context.Context, id int64, value decimal.Decimal) error
	UpdateObservations(ctx context.Context, id int64, observations *string) error
	Reject(ctx context.Context, id int64, reason string, at time.Time) error
	InsertStatusChange(ctx context.Context, change *model.ContractStatusChange) error
	GetDocuments(ctx context.Context, id int64) (model.ContractDocuments, error)
	ReplaceDocuments(ctx context.Context, id int64, docs model.ContractDocuments) error
}

// ContractService drives the multi-tab contract form. Each tab persists on its own.
type ContractService struct {
	repo          ContractRepository
	cancellations *CancellationService
	ops           operationRecorder
	log           zerolog.Logger
	now           func() time.Time
}

func NewContractService(repo ContractRepository, cancellations *CancellationService, ops oplog.Store, log zerolog.Logger) *ContractService {
	return &ContractService{
		repo:          repo,
		cancellations: cancellations,
		ops:           operationRecorder{store: ops, log: log, now: time.Now},
		log:           log,
		now:           time.Now,
	}
}

type ContractDetails struct {
	Contract  model.Contract          `json:"contrato"`
	Documents model.ContractDocuments `json:"documentos"`
	Tabs      []TabView               `json:"abas"`
}

func (s *ContractService) Get(ctx context.Context, id int64) (*ContractDetails, error) {
	contract, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	docs, err := s.repo.GetDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ContractDetails{Contract: *contract, Documents: docs, Tabs: ResolveTabs(contract.ID)}, nil
}

// List filters the contracts by a case-insensitive search term over id, route, client and status.
func (s *ContractService) List(ctx context.Context, search string) ([]model.Contract, error) {
	contracts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	term := normalizeSearch(search)
	result := make([]model.Contract, 0, len(contracts))
	for _, c := range contracts {
		if matchesSearch(term, strconv.FormatInt(c.ID, 10), c.Origem, c.Destino, c.Cliente, string(c.Status)) {
			result = append(result, c)
		}
	}
	return result, nil
}

type SaveDadosInput struct {
	ID             int64
	Origem         string
	Destino        string
	Cliente        string
	VeiculoID      *int64
	MotoristaID    *int64
	ProprietarioID *int64
	Status         model.ContractStatus
}

// SaveDados creates the contract when ID is zero and updates its basic data otherwise.
func (s *ContractService) SaveDados(ctx context.Context, input SaveDadosInput) (*model.Contract, error) {
	basics := model.ContractBasics{
		Origem:         strings.TrimSpace(input.Origem),
		Destino:        strings.TrimSpace(input.Destino),
		Cliente:        strings.TrimSpace(input.Cliente),
		VeiculoID:      input.VeiculoID,
		MotoristaID:    input.MotoristaID,
		ProprietarioID: input.ProprietarioID,
		Status:         input.Status,
	}
	switch {
	case basics.Origem == "":
		return nil, fieldError("origem", "informe a origem")
	case basics.Destino == "":
		return nil, fieldError("destino", "informe o destino")
	case basics.Cliente == "":
		return nil, fieldError("cliente", "informe o cliente")
	}
	if basics.Status != "" {
		if !basics.Status.Valid() {
			return nil, fieldError("status", "status inválido")
		}
		if basics.Status.Terminal() {
			return nil, fmt.Errorf("%w: use the cancelamento or rejeicao tab", ErrInvalidTransition)
		}
	}

	if input.ID <= 0 {
		if basics.Status == "" {
			basics.Status = model.ContractStatusPending
		}
		contract := &model.Contract{
			Origem:         basics.Origem,
			Destino:        basics.Destino,
			Cliente:        basics.Cliente,
			VeiculoID:      basics.VeiculoID,
			MotoristaID:    basics.MotoristaID,
			ProprietarioID: basics.ProprietarioID,
			Status:         basics.Status,
			ValorFrete:     decimal.Zero,
		}
		if err := s.repo.Create(ctx, contract); err != nil {
			s.ops.record(ctx, model.ModuleContracts, "criar", false)
			return nil, err
		}
		s.ops.record(ctx, model.ModuleContracts, "criar", true)
		return contract, nil
	}

	current, err := s.loadEditable(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if basics.Status == "" {
		basics.Status = current.Status
	}
	if err := s.repo.UpdateBasics(ctx, input.ID, basics); err != nil {
		s.ops.record(ctx, model.ModuleContracts, "editar dados", false)
		return nil, err
	}
	s.ops.record(ctx, model.ModuleContracts, "editar dados", true)
	return s.load(ctx, input.ID)
}

func (s *ContractService) SaveDocumentos(ctx context.Context, id int64, docs model.ContractDocuments) (*model.ContractDocuments, error) {
	if id <= 0 {
		return nil, ErrContractNotPersisted
	}
	for i, m := range docs.Manifests {
		if strings.TrimSpace(m.Numero) == "" {
			return nil, fieldError(fmt.Sprintf("manifestos[%d].numero", i), "informe o número do manifesto")
		}
	}
	for i, c := range docs.CTes {
		if strings.TrimSpace(c.Numero) == "" {
			return nil, fieldError(fmt.Sprintf("ctes[%d].numero", i), "informe o número do CT-e")
		}
	}
	for i, inv := range docs.Invoices {
		if strings.TrimSpace(inv.Numero) == "" {
			return nil, fieldError(fmt.Sprintf("notas_fiscais[%d].numero", i), "informe o número da nota fiscal")
		}
		if inv.Valor.IsNegative() {
			return nil, fieldError(fmt.Sprintf("notas_fiscais[%d].valor", i), "o valor da nota fiscal não pode ser negativo")
		}
	}
	if _, err := s.loadEditable(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceDocuments(ctx, id, docs); err != nil {
		s.ops.record(ctx, model.ModuleContracts, "editar documentos", false)
		return nil, err
	}
	s.ops.record(ctx, model.ModuleContracts, "editar documentos", true)

	saved, err := s.repo.GetDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *ContractService) SaveFrete(ctx context.Context, id int64, value decimal.Decimal) (*model.Contract, error) {
	if id <= 0 {
		return nil, ErrContractNotPersisted
	}
	if value.IsNegative() {
		return nil, fieldError("valor_frete", "o valor do frete não pode ser negativo")
	}
	if _, err := s.loadEditable(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFreight(ctx, id, value.Round(2)); err != nil {
		s.ops.record(ctx, model.ModuleContracts, "editar frete", false)
		return nil, err
	}
	s.ops.record(ctx, model.ModuleContracts, "editar frete", true)
	return s.load(ctx, id)
}

func (s *ContractService) SaveObservacoes(ctx context.Context, id int64, observations *string) (*model.Contract, error) {
	if id <= 0 {
		return nil, ErrContractNotPersisted
	}
	observations = trimOptional(observations)
	if observations != nil && utf8.RuneCountInString(*observations) > maxObservationsLength {
		return nil, fieldError("observacoes", "as observações devem ter no máximo 2000 caracteres")
	}
	if _, err := s.loadEditable(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateObservations(ctx, id, observations); err != nil {
		s.ops.record(ctx, model.ModuleContracts, "editar observacoes", false)
		return nil, err
	}
	s.ops.record(ctx, model.ModuleContracts, "editar observacoes", true)
	return s.load(ctx, id)
}

type CancelContractInput struct {
	ID      int64
	Reason  string
	Note    *string
	Session session.Context
}

// SaveCancelamento cancels a saved contract once. A second attempt fails with ErrConflict.
func (s *ContractService) SaveCancelamento(ctx context.Context, input CancelContractInput) (*CancelResult, error) {
	if input.ID <= 0 {
		return nil, ErrContractNotPersisted
	}
	if _, err := validateReason("motivo", input.Reason); err != nil {
		return nil, err
	}
	contract, err := s.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if contract.Status.Terminal() {
		return nil, fmt.Errorf("%w: contract is %s", ErrInvalidTransition, contract.Status)
	}

	return s.cancellations.CancelOnce(ctx, CancelInput{
		DocumentType: model.DocumentContract.String(),
		DocumentID:   input.ID,
		Reason:       input.Reason,
		Note:         input.Note,
		Session:      input.Session,
	})
}

type RejectContractInput struct {
	ID      int64
	Reason  string
	Session session.Context
}

type RejectResult struct {
	Contract        model.Contract `json:"contrato"`
	HistoryRecorded bool           `json:"historico_registrado"`
	Message         string         `json:"message"`
}

func (s *ContractService) SaveRejeicao(ctx context.Context, input RejectContractInput) (*RejectResult, error) {
	if input.ID <= 0 {
		return nil, ErrContractNotPersisted
	}
	reason, err := validateReason("motivo", input.Reason)
	if err != nil {
		return nil, err
	}
	contract, err := s.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if contract.Status.Terminal() {
		return nil, fmt.Errorf("%w: contract is %s", ErrInvalidTransition, contract.Status)
	}

	at := s.now()
	if err := s.repo.Reject(ctx, input.ID, reason, at); err != nil {
		s.ops.record(ctx, model.ModuleContracts, "rejeitar", false)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	result := &RejectResult{HistoryRecorded: true, Message: fmt.Sprintf("Contrato %d rejeitado", input.ID)}
	change := &model.ContractStatusChange{
		ID:          uuid.NewString(),
		ContratoID:  input.ID,
		StatusDe:    contract.Status,
		StatusPara:  model.ContractStatusRejected,
		Motivo:      reason,
		Responsavel: input.Session.UserName(),
		CreatedAt:   at,
	}
	if err := s.repo.InsertStatusChange(ctx, change); err != nil {
		s.log.Error().Err(err).Int64("contrato_id", input.ID).Msg("status history insert failed")
		result.HistoryRecorded = false
	}
	s.ops.record(ctx, model.ModuleContracts, "rejeitar", true)

	contract.Status = model.ContractStatusRejected
	contract.MotivoRejeicao = &reason
	contract.DataRejeicao = &at
	result.Contract = *contract
	return result, nil
}

func (s *ContractService) load(ctx context.Context, id int64) (*model.Contract, error) {
	contract, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contrato %d", ErrNotFound, id)
		}
		return nil, err
	}
	return contract, nil
}

// loadEditable refuses contracts that are already Cancelado or Rejeitado.
func (s *ContractService) loadEditable(ctx context.Context, id int64) (*model.Contract, error) {
	contract, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract.Status.Terminal() {
		return nil, fmt.Errorf("%w: contract is %s", ErrInvalidTransition, contract.Status)
	}
	return contract, nil
}
