package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/transvia/fleet-office/internal/model"
)

const contractColumns = `
	id,
	origem,
	destino,
	cliente,
	veiculo_id,
	motorista_id,
	proprietario_id,
	status,
	valor_frete,
	observacoes,
	motivo_cancelamento,
	observacao_cancelamento,
	data_cancelamento,
	motivo_rejeicao,
	data_rejeicao,
	created_at,
	updated_at`

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Get(ctx context.Context, id int64) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+contractColumns+`
		FROM contratos
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&contract).Error
	if err != nil {
		return nil, err
	}
	if contract.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &contract, nil
}

func (r *ContractRepository) List(ctx context.Context) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT ` + contractColumns + `
		FROM contratos
		ORDER BY created_at DESC, id DESC
	`).Scan(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *ContractRepository) Create(ctx context.Context, contract *model.Contract) error {
	return r.db.WithContext(ctx).Raw(`
		INSERT INTO contratos (
			origem,
			destino,
			cliente,
			veiculo_id,
			motorista_id,
			proprietario_id,
			status,
			valor_frete
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+contractColumns,
		contract.Origem,
		contract.Destino,
		contract.Cliente,
		contract.VeiculoID,
		contract.MotoristaID,
		contract.ProprietarioID,
		contract.Status,
		contract.ValorFrete,
	).Scan(contract).Error
}

func (r *ContractRepository) UpdateBasics(ctx context.Context, id int64, basics model.ContractBasics) error {
	return r.exec(ctx, `
		UPDATE contratos
		SET
			origem = ?,
			destino = ?,
			cliente = ?,
			veiculo_id = ?,
			motorista_id = ?,
			proprietario_id = ?,
			status = ?,
			updated_at = NOW()
		WHERE id = ?
	`, basics.Origem, basics.Destino, basics.Cliente, basics.VeiculoID, basics.MotoristaID, basics.ProprietarioID, basics.Status, id)
}

func (r *ContractRepository) UpdateFreight(ctx context.Context, id int64, value decimal.Decimal) error {
	return r.exec(ctx, `
		UPDATE contratos
		SET valor_frete = ?, updated_at = NOW()
		WHERE id = ?
	`, value, id)
}

func (r *ContractRepository) UpdateObservations(ctx context.Context, id int64, observations *string) error {
	return r.exec(ctx, `
		UPDATE contratos
		SET observacoes = ?, updated_at = NOW()
		WHERE id = ?
	`, observations, id)
}

func (r *ContractRepository) Reject(ctx context.Context, id int64, reason string, at time.Time) error {
	return r.exec(ctx, `
		UPDATE contratos
		SET
			status = ?,
			motivo_rejeicao = ?,
			data_rejeicao = ?,
			updated_at = NOW()
		WHERE id = ?
	`, model.ContractStatusRejected, reason, at, id)
}

func (r *ContractRepository) InsertStatusChange(ctx context.Context, change *model.ContractStatusChange) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO contrato_status_historico (id, contrato_id, status_de, status_para, motivo, responsavel, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, change.ID, change.ContratoID, change.StatusDe, change.StatusPara, change.Motivo, change.Responsavel, change.CreatedAt).Error
}

func (r *ContractRepository) GetDocuments(ctx context.Context, id int64) (model.ContractDocuments, error) {
	docs := model.ContractDocuments{
		Manifests: []model.Manifest{},
		CTes:      []model.CTe{},
		Invoices:  []model.Invoice{},
	}
	db := r.db.WithContext(ctx)

	if err := db.Raw(`
		SELECT id, contrato_id, numero, status, created_at
		FROM manifestos
		WHERE contrato_id = ?
		ORDER BY id
	`, id).Scan(&docs.Manifests).Error; err != nil {
		return docs, err
	}
	if err := db.Raw(`
		SELECT id, contrato_id, numero, status, created_at
		FROM ctes
		WHERE contrato_id = ?
		ORDER BY id
	`, id).Scan(&docs.CTes).Error; err != nil {
		return docs, err
	}
	if err := db.Raw(`
		SELECT id, contrato_id, numero, valor, status, created_at
		FROM notas_fiscais
		WHERE contrato_id = ?
		ORDER BY id
	`, id).Scan(&docs.Invoices).Error; err != nil {
		return docs, err
	}
	return docs, nil
}

// ReplaceDocuments swaps the active documents of a contract in one transaction.
// Cancelled documents are kept so their history survives.
func (r *ContractRepository) ReplaceDocuments(ctx context.Context, id int64, docs model.ContractDocuments) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"manifestos", "ctes", "notas_fiscais"} {
			if err := tx.Exec(`DELETE FROM `+table+` WHERE contrato_id = ? AND status <> ?`, id, model.StatusCancelled).Error; err != nil {
				return err
			}
		}

		for _, m := range docs.Manifests {
			if err := tx.Exec(`
				INSERT INTO manifestos (contrato_id, numero, status)
				VALUES (?, ?, ?)
			`, id, m.Numero, model.DocumentStatusActive).Error; err != nil {
				return err
			}
		}
		for _, c := range docs.CTes {
			if err := tx.Exec(`
				INSERT INTO ctes (contrato_id, numero, status)
				VALUES (?, ?, ?)
			`, id, c.Numero, model.DocumentStatusActive).Error; err != nil {
				return err
			}
		}
		for _, inv := range docs.Invoices {
			if err := tx.Exec(`
				INSERT INTO notas_fiscais (contrato_id, numero, valor, status)
				VALUES (?, ?, ?, ?)
			`, id, inv.Numero, inv.Valor.Round(2), model.DocumentStatusActive).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ContractRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, args...)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
