package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/transvia/fleet-office/internal/model"
)

type CancellationRepository struct {
	db *gorm.DB
}

func NewCancellationRepository(db *gorm.DB) *CancellationRepository {
	return &CancellationRepository{db: db}
}

// CurrentStatus reads the status column of the target row.
func (r *CancellationRepository) CurrentStatus(ctx context.Context, target model.DocumentTarget, documentID int64) (string, error) {
	var row struct {
		Found  bool
		Status string
	}
	err := r.db.WithContext(ctx).
		Table(target.Table).
		Select("TRUE AS found, "+target.StatusField+" AS status").
		Where("id = ?", documentID).
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return "", err
	}
	if !row.Found {
		return "", gorm.ErrRecordNotFound
	}
	return row.Status, nil
}

// MarkCancelled writes the cancelled status and reason onto the row of the target table.
// Rows already in one of the target's final statuses are left untouched.
func (r *CancellationRepository) MarkCancelled(ctx context.Context, target model.DocumentTarget, documentID int64, fields model.CancellationFields) error {
	query := r.db.WithContext(ctx).
		Table(target.Table).
		Where("id = ?", documentID)
	if len(target.FinalStatuses) > 0 {
		query = query.Where(target.StatusField+" NOT IN ?", target.FinalStatuses)
	}
	result := query.Updates(map[string]interface{}{
		target.StatusField:        model.StatusCancelled,
		"motivo_cancelamento":     fields.Reason,
		"observacao_cancelamento": fields.Note,
		"data_cancelamento":       fields.At,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CancellationRepository) Insert(ctx context.Context, record *model.Cancellation) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO cancelamentos (
			id,
			tipo_documento,
			numero_documento,
			motivo,
			observacoes,
			responsavel,
			data_cancelamento
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.TipoDocumento,
		record.NumeroDocumento,
		record.Motivo,
		record.Observacoes,
		record.Responsavel,
		record.DataCancelamento,
	).Error
}

func (r *CancellationRepository) Exists(ctx context.Context, documentType, documentNumber string) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).Raw(`
		SELECT EXISTS (
			SELECT 1
			FROM cancelamentos
			WHERE tipo_documento = ? AND numero_documento = ?
		)
	`, documentType, documentNumber).Scan(&exists).Error
	return exists, err
}

func (r *CancellationRepository) List(ctx context.Context) ([]model.Cancellation, error) {
	var records []model.Cancellation
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tipo_documento,
			numero_documento,
			motivo,
			observacoes,
			responsavel,
			data_cancelamento
		FROM cancelamentos
		ORDER BY data_cancelamento DESC
	`).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
