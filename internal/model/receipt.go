package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReceiptStatus string

const (
	ReceiptStatusPending  ReceiptStatus = "Pendente"
	ReceiptStatusReceived ReceiptStatus = "Recebido"
)

// Receipt is a canhoto: proof that the goods of a contract were delivered.
type Receipt struct {
	ID                           int64           `gorm:"column:id;primaryKey" json:"id"`
	ContratoID                   int64           `gorm:"column:contrato_id" json:"contrato_id"`
	Responsavel                  *string         `gorm:"column:responsavel" json:"responsavel,omitempty"`
	DataEntregaMercadoria        *time.Time      `gorm:"column:data_entrega_mercadoria" json:"data_entrega_mercadoria,omitempty"`
	DataRecebimento              *time.Time      `gorm:"column:data_recebimento" json:"data_recebimento,omitempty"`
	DataRecebimentoControladoria *time.Time      `gorm:"column:data_recebimento_controladoria" json:"data_recebimento_controladoria,omitempty"`
	Saldo                        decimal.Decimal `gorm:"column:saldo;type:numeric(15,2)" json:"saldo"`
	Status                       ReceiptStatus   `gorm:"column:status" json:"status"`
	Observacoes                  *string         `gorm:"column:observacoes" json:"observacoes,omitempty"`
	CreatedAt                    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt                    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Receipt) TableName() string { return "canhotos" }

type BalanceStatus string

const (
	BalanceStatusPending  BalanceStatus = "Pendente"
	BalanceStatusReleased BalanceStatus = "Liberado para pagamento"
)

// Balance is the outstanding amount (saldo a pagar) owed to a carrier for a contract.
type Balance struct {
	ID         int64           `gorm:"column:id;primaryKey" json:"id"`
	ContratoID int64           `gorm:"column:contrato_id" json:"contrato_id"`
	Valor      decimal.Decimal `gorm:"column:valor;type:numeric(15,2)" json:"valor"`
	Status     BalanceStatus   `gorm:"column:status" json:"status"`
	LiberadoEm *time.Time      `gorm:"column:liberado_em" json:"liberado_em,omitempty"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Balance) TableName() string { return "saldos_pagar" }
