package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/transvia/fleet-office/internal/model"
)

const receiptColumns = `
	id,
	contrato_id,
	responsavel,
	data_entrega_mercadoria,
	data_recebimento,
	data_recebimento_controladoria,
	saldo,
	status,
	observacoes,
	created_at,
	updated_at`

type ReceiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

func (r *ReceiptRepository) Get(ctx context.Context, id int64) (*model.Receipt, error) {
	var receipt model.Receipt
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+receiptColumns+`
		FROM canhotos
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&receipt).Error
	if err != nil {
		return nil, err
	}
	if receipt.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &receipt, nil
}

func (r *ReceiptRepository) List(ctx context.Context) ([]model.Receipt, error) {
	var receipts []model.Receipt
	err := r.db.WithContext(ctx).Raw(`
		SELECT ` + receiptColumns + `
		FROM canhotos
		ORDER BY created_at DESC, id DESC
	`).Scan(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

func (r *ReceiptRepository) Create(ctx context.Context, receipt *model.Receipt) error {
	return r.db.WithContext(ctx).Raw(`
		INSERT INTO canhotos (contrato_id, data_entrega_mercadoria, saldo, status, observacoes)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+receiptColumns,
		receipt.ContratoID,
		receipt.DataEntregaMercadoria,
		receipt.Saldo,
		receipt.Status,
		receipt.Observacoes,
	).Scan(receipt).Error
}

func (r *ReceiptRepository) MarkReceived(ctx context.Context, id int64, confirmation model.Receipt) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE canhotos
		SET
			responsavel = ?,
			data_recebimento = ?,
			data_entrega_mercadoria = ?,
			data_recebimento_controladoria = ?,
			status = ?,
			observacoes = ?,
			updated_at = NOW()
		WHERE id = ?
	`,
		confirmation.Responsavel,
		confirmation.DataRecebimento,
		confirmation.DataEntregaMercadoria,
		confirmation.DataRecebimentoControladoria,
		confirmation.Status,
		confirmation.Observacoes,
		id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// FindByContract returns the oldest balance of the contract that is not yet released.
func (r *BalanceRepository) FindByContract(ctx context.Context, contractID int64) (model.Balance, bool, error) {
	var balances []model.Balance
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, contrato_id, valor, status, liberado_em, created_at
		FROM saldos_pagar
		WHERE contrato_id = ? AND status <> ?
		ORDER BY id
	`, contractID, model.BalanceStatusReleased).Scan(&balances).Error
	if err != nil {
		return model.Balance{}, false, err
	}
	balance, found := oldestOpenBalance(balances)
	return balance, found, nil
}

func oldestOpenBalance(balances []model.Balance) (model.Balance, bool) {
	var oldest model.Balance
	found := false
	for _, b := range balances {
		if b.Status == model.BalanceStatusReleased {
			continue
		}
		if !found || b.ID < oldest.ID {
			oldest, found = b, true
		}
	}
	return oldest, found
}

func (r *BalanceRepository) Release(ctx context.Context, id int64, at time.Time) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE saldos_pagar
		SET status = ?, liberado_em = ?
		WHERE id = ?
	`, model.BalanceStatusReleased, at, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
