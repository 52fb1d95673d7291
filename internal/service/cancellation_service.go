package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/oplog"
	"github.com/transvia/fleet-office/internal/session"
)

type CancellationRepository interface {
	// MarkCancelled returns gorm.ErrRecordNotFound when no row matched documentID.
	MarkCancelled(ctx context.Context, target model.DocumentTarget, documentID int64, fields model.CancellationFields) error
	// CurrentStatus returns gorm.ErrRecordNotFound when no row matched documentID.
	CurrentStatus(ctx context.Context, target model.DocumentTarget, documentID int64) (string, error)
	Insert(ctx context.Context, record *model.Cancellation) error
	Exists(ctx context.Context, documentType, documentNumber string) (bool, error)
	List(ctx context.Context) ([]model.Cancellation, error)
}

type CancellationService struct {
	repo CancellationRepository
	ops  operationRecorder
	log  zerolog.Logger
	now  func() time.Time
}

type CancelInput struct {
	DocumentType string
	DocumentID   int64
	Reason       string
	Note         *string
	Session      session.Context
}

type CancelResult struct {
	Record        model.Cancellation `json:"cancelamento"`
	AuditRecorded bool               `json:"auditoria_registrada"`
	Message       string             `json:"message"`
}

func NewCancellationService(repo CancellationRepository, ops oplog.Store, log zerolog.Logger) *CancellationService {
	return &CancellationService{
		repo: repo,
		ops:  operationRecorder{store: ops, log: log, now: time.Now},
		log:  log,
		now:  time.Now,
	}
}

// Cancel sets the document status to Cancelado and appends an audit row.
// It is not idempotent: use Exists first to avoid a second audit row for the same document.
func (s *CancellationService) Cancel(ctx context.Context, input CancelInput) (*CancelResult, error) {
	reason, err := validateReason("motivo", input.Reason)
	if err != nil {
		return nil, err
	}
	if input.DocumentID <= 0 {
		return nil, fieldError("documento_id", "informe o documento a cancelar")
	}

	docType, err := model.ParseDocumentType(input.DocumentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	target, err := docType.Target()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if len(target.FinalStatuses) > 0 {
		current, err := s.repo.CurrentStatus(ctx, target, input.DocumentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s %d", ErrNotFound, docType, input.DocumentID)
			}
			return nil, fmt.Errorf("read status of %s %d: %w", docType, input.DocumentID, err)
		}
		if target.IsFinal(current) {
			s.ops.record(ctx, model.ModuleCancellations, "cancelar "+docType.String(), false)
			return nil, fmt.Errorf("%w: %s %d is %s", ErrInvalidTransition, docType, input.DocumentID, current)
		}
	}

	at := s.now()
	note := trimOptional(input.Note)

	err = s.repo.MarkCancelled(ctx, target, input.DocumentID, model.CancellationFields{
		Reason: reason,
		Note:   note,
		At:     at,
	})
	if err != nil {
		s.ops.record(ctx, model.ModuleCancellations, "cancelar "+docType.String(), false)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s %d", ErrNotFound, docType, input.DocumentID)
		}
		return nil, fmt.Errorf("cancel %s %d: %w", docType, input.DocumentID, err)
	}

	record := model.Cancellation{
		ID:               uuid.NewString(),
		TipoDocumento:    docType.String(),
		NumeroDocumento:  strconv.FormatInt(input.DocumentID, 10),
		Motivo:           reason,
		Observacoes:      note,
		Responsavel:      input.Session.UserName(),
		DataCancelamento: at,
	}

	result := &CancelResult{Record: record, AuditRecorded: true, Message: fmt.Sprintf("Cancelamento de %s %d realizado com sucesso", docType, input.DocumentID)}
	if err := s.repo.Insert(ctx, &record); err != nil {
		// the document stays cancelled; the audit trail is left incomplete
		s.log.Error().
			Err(err).
			Str("tipo_documento", record.TipoDocumento).
			Str("numero_documento", record.NumeroDocumento).
			Msg("cancellation audit insert failed")
		result.AuditRecorded = false
		result.Message = fmt.Sprintf("%s %d cancelado, mas o registro de auditoria não foi gravado", docType, input.DocumentID)
	}

	s.ops.record(ctx, model.ModuleCancellations, "cancelar "+docType.String(), true)
	return result, nil
}

// Exists reports whether an audit row already exists for the document.
func (s *CancellationService) Exists(ctx context.Context, docType model.DocumentType, documentID int64) (bool, error) {
	return s.repo.Exists(ctx, docType.String(), strconv.FormatInt(documentID, 10))
}

// CancelOnce runs the existence pre-check before Cancel and returns ErrConflict for a known document.
func (s *CancellationService) CancelOnce(ctx context.Context, input CancelInput) (*CancelResult, error) {
	if _, err := validateReason("motivo", input.Reason); err != nil {
		return nil, err
	}
	docType, err := model.ParseDocumentType(input.DocumentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	exists, err := s.Exists(ctx, docType, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s %d já foi cancelado", ErrConflict, docType, input.DocumentID)
	}
	return s.Cancel(ctx, input)
}

type ListCancellationsInput struct {
	Search       string
	DocumentType string
}

func (s *CancellationService) List(ctx context.Context, input ListCancellationsInput) ([]model.Cancellation, error) {
	var typeFilter string
	if input.DocumentType != "" {
		docType, err := model.ParseDocumentType(input.DocumentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		typeFilter = docType.String()
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	term := normalizeSearch(input.Search)
	result := make([]model.Cancellation, 0, len(records))
	for _, record := range records {
		if typeFilter != "" && record.TipoDocumento != typeFilter {
			continue
		}
		note := ""
		if record.Observacoes != nil {
			note = *record.Observacoes
		}
		if !matchesSearch(term, record.TipoDocumento, record.NumeroDocumento, record.Motivo, record.Responsavel, note) {
			continue
		}
		result = append(result, record)
	}
	return result, nil
}
