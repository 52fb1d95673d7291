package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/oplog"
	"github.com/transvia/fleet-office/internal/session"
)

type ReceiptRepository interface {
	Get(ctx context.Context, id int64) (*model.Receipt, error)
	List(ctx context.Context) ([]model.Receipt, error)
	Create(ctx context.Context, receipt *model.Receipt) error
	MarkReceived(ctx context.Context, id int64, confirmation model.Receipt) error
}

type BalanceRepository interface {
	// FindByContract reports found=false when the contract has no balance to pay.
	FindByContract(ctx context.Context, contractID int64) (balance model.Balance, found bool, err error)
	Release(ctx context.Context, id int64, at time.Time) error
}

type ReceiptService struct {
	receipts ReceiptRepository
	balances BalanceRepository
	ops      operationRecorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewReceiptService(receipts ReceiptRepository, balances BalanceRepository, ops oplog.Store, log zerolog.Logger) *ReceiptService {
	return &ReceiptService{
		receipts: receipts,
		balances: balances,
		ops:      operationRecorder{store: ops, log: log, now: time.Now},
		log:      log,
		now:      time.Now,
	}
}

type CreateReceiptInput struct {
	ContratoID            int64
	DataEntregaMercadoria *time.Time
	Saldo                 decimal.Decimal
	Observacoes           *string
}

func (s *ReceiptService) Create(ctx context.Context, input CreateReceiptInput) (*model.Receipt, error) {
	if input.ContratoID <= 0 {
		return nil, fieldError("contrato_id", "informe o contrato do canhoto")
	}
	if input.Saldo.IsNegative() {
		return nil, fieldError("saldo", "o saldo não pode ser negativo")
	}
	receipt := &model.Receipt{
		ContratoID:            input.ContratoID,
		DataEntregaMercadoria: input.DataEntregaMercadoria,
		Saldo:                 input.Saldo.Round(2),
		Status:                model.ReceiptStatusPending,
		Observacoes:           trimOptional(input.Observacoes),
	}
	if err := s.receipts.Create(ctx, receipt); err != nil {
		s.ops.record(ctx, model.ModuleReceipts, "criar", false)
		return nil, err
	}
	s.ops.record(ctx, model.ModuleReceipts, "criar", true)
	return receipt, nil
}

func (s *ReceiptService) Get(ctx context.Context, id int64) (*model.Receipt, error) {
	receipt, err := s.receipts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: canhoto %d", ErrNotFound, id)
		}
		return nil, err
	}
	return receipt, nil
}

func (s *ReceiptService) List(ctx context.Context, search string) ([]model.Receipt, error) {
	receipts, err := s.receipts.List(ctx)
	if err != nil {
		return nil, err
	}
	term := normalizeSearch(search)
	result := make([]model.Receipt, 0, len(receipts))
	for _, r := range receipts {
		responsible := ""
		if r.Responsavel != nil {
			responsible = *r.Responsavel
		}
		if matchesSearch(term, strconv.FormatInt(r.ID, 10), strconv.FormatInt(r.ContratoID, 10), responsible, string(r.Status)) {
			result = append(result, r)
		}
	}
	return result, nil
}

type SubmitReceiptInput struct {
	ReceiptID                    int64
	Responsavel                  string
	DataRecebimento              *time.Time
	DataEntregaMercadoria        *time.Time
	DataRecebimentoControladoria *time.Time
	Observacoes                  *string
	Session                      session.Context
}

type SubmitReceiptResult struct {
	Receipt         model.Receipt `json:"canhoto"`
	BalanceReleased bool          `json:"saldo_liberado"`
	Message         string        `json:"message"`
}

// Submit confirms the receipt and, when it carries a positive balance, releases the contract's
// balance to pay. The release is a separate lookup and update; a failure there is only logged.
func (s *ReceiptService) Submit(ctx context.Context, input SubmitReceiptInput) (*SubmitReceiptResult, error) {
	responsible := strings.TrimSpace(input.Responsavel)
	switch {
	case responsible == "":
		return nil, fieldError("responsavel", "Informe o responsável pelo recebimento")
	case input.DataRecebimento == nil || input.DataRecebimento.IsZero():
		return nil, fieldError("data_recebimento", "Informe a data de recebimento do canhoto")
	case input.DataEntregaMercadoria == nil || input.DataEntregaMercadoria.IsZero():
		return nil, fieldError("data_entrega_mercadoria", "Informe a data de entrega da mercadoria")
	case input.DataRecebimentoControladoria == nil || input.DataRecebimentoControladoria.IsZero():
		return nil, fieldError("data_recebimento_controladoria", "Informe a data de recebimento pela controladoria")
	}

	receipt, err := s.Get(ctx, input.ReceiptID)
	if err != nil {
		return nil, err
	}

	receipt.Responsavel = &responsible
	receipt.DataRecebimento = input.DataRecebimento
	receipt.DataEntregaMercadoria = input.DataEntregaMercadoria
	receipt.DataRecebimentoControladoria = input.DataRecebimentoControladoria
	receipt.Status = model.ReceiptStatusReceived
	if note := trimOptional(input.Observacoes); note != nil {
		receipt.Observacoes = note
	}

	if err := s.receipts.MarkReceived(ctx, receipt.ID, *receipt); err != nil {
		s.ops.record(ctx, model.ModuleReceipts, "receber", false)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: canhoto %d", ErrNotFound, receipt.ID)
		}
		return nil, err
	}
	s.ops.record(ctx, model.ModuleReceipts, "receber", true)

	result := &SubmitReceiptResult{Receipt: *receipt, Message: "Canhoto recebido com sucesso"}
	if receipt.Saldo.IsPositive() {
		result.BalanceReleased = s.releaseBalance(ctx, receipt.ContratoID)
		if result.BalanceReleased {
			result.Message = "Canhoto recebido e saldo liberado para pagamento"
		}
	}
	return result, nil
}

func (s *ReceiptService) releaseBalance(ctx context.Context, contractID int64) bool {
	balance, found, err := s.balances.FindByContract(ctx, contractID)
	if err != nil {
		s.log.Error().Err(err).Int64("contrato_id", contractID).Msg("balance lookup failed")
		return false
	}
	if !found || balance.Status == model.BalanceStatusReleased {
		return false
	}

	if err := s.balances.Release(ctx, balance.ID, s.now()); err != nil {
		s.log.Error().Err(err).Int64("saldo_id", balance.ID).Int64("contrato_id", contractID).Msg("balance release failed")
		s.ops.record(ctx, model.ModuleReceipts, "liberar saldo", false)
		return false
	}
	s.ops.record(ctx, model.ModuleReceipts, "liberar saldo", true)
	return true
}
