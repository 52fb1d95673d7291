package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContractStatus string

const (
	ContractStatusPending   ContractStatus = "Pendente"
	ContractStatusInTransit ContractStatus = "Em trânsito"
	ContractStatusDone      ContractStatus = "Concluído"
	ContractStatusCancelled ContractStatus = "Cancelado"
	ContractStatusRejected  ContractStatus = "Rejeitado"
)

// Terminal reports whether no further status transition is allowed.
func (s ContractStatus) Terminal() bool {
	return s == ContractStatusCancelled || s == ContractStatusRejected
}

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusPending, ContractStatusInTransit, ContractStatusDone, ContractStatusCancelled, ContractStatusRejected:
		return true
	default:
		return false
	}
}

type Contract struct {
	ID                     int64           `gorm:"column:id;primaryKey" json:"id"`
	Origem                 string          `gorm:"column:origem" json:"origem"`
	Destino                string          `gorm:"column:destino" json:"destino"`
	Cliente                string          `gorm:"column:cliente" json:"cliente"`
	VeiculoID              *int64          `gorm:"column:veiculo_id" json:"veiculo_id,omitempty"`
	MotoristaID            *int64          `gorm:"column:motorista_id" json:"motorista_id,omitempty"`
	ProprietarioID         *int64          `gorm:"column:proprietario_id" json:"proprietario_id,omitempty"`
	Status                 ContractStatus  `gorm:"column:status" json:"status"`
	ValorFrete             decimal.Decimal `gorm:"column:valor_frete;type:numeric(15,2)" json:"valor_frete"`
	Observacoes            *string         `gorm:"column:observacoes" json:"observacoes,omitempty"`
	MotivoCancelamento     *string         `gorm:"column:motivo_cancelamento" json:"motivo_cancelamento,omitempty"`
	ObservacaoCancelamento *string         `gorm:"column:observacao_cancelamento" json:"observacao_cancelamento,omitempty"`
	DataCancelamento       *time.Time      `gorm:"column:data_cancelamento" json:"data_cancelamento,omitempty"`
	MotivoRejeicao         *string         `gorm:"column:motivo_rejeicao" json:"motivo_rejeicao,omitempty"`
	DataRejeicao           *time.Time      `gorm:"column:data_rejeicao" json:"data_rejeicao,omitempty"`
	CreatedAt              time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Contract) TableName() string { return "contratos" }

// Persisted reports whether the contract already has a backend row.
func (c *Contract) Persisted() bool {
	return c != nil && c.ID > 0
}

// ContractBasics is the slice of a contract edited on the dados tab.
type ContractBasics struct {
	Origem         string
	Destino        string
	Cliente        string
	VeiculoID      *int64
	MotoristaID    *int64
	ProprietarioID *int64
	Status         ContractStatus
}

type ContractStatusChange struct {
	ID          string         `gorm:"column:id;primaryKey" json:"id"`
	ContratoID  int64          `gorm:"column:contrato_id" json:"contrato_id"`
	StatusDe    ContractStatus `gorm:"column:status_de" json:"status_de"`
	StatusPara  ContractStatus `gorm:"column:status_para" json:"status_para"`
	Motivo      string         `gorm:"column:motivo" json:"motivo"`
	Responsavel string         `gorm:"column:responsavel" json:"responsavel"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (ContractStatusChange) TableName() string { return "contrato_status_historico" }
