package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Vehicle struct {
	ID               int64     `gorm:"column:id;primaryKey" json:"id"`
	Placa            string    `gorm:"column:placa" json:"placa"`
	Modelo           string    `gorm:"column:modelo" json:"modelo"`
	Marca            string    `gorm:"column:marca" json:"marca"`
	Ano              int       `gorm:"column:ano" json:"ano"`
	Renavam          *string   `gorm:"column:renavam" json:"renavam,omitempty"`
	ProprietarioNome string    `gorm:"column:proprietario_nome" json:"proprietario_nome"`
	ProprietarioDoc  string    `gorm:"column:proprietario_documento" json:"proprietario_documento"`
	Status           string    `gorm:"column:status" json:"status"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Vehicle) TableName() string { return "veiculos" }

type Fueling struct {
	ID                     int64           `gorm:"column:id;primaryKey" json:"id"`
	VeiculoID              int64           `gorm:"column:veiculo_id" json:"veiculo_id"`
	Data                   time.Time       `gorm:"column:data" json:"data"`
	Litros                 decimal.Decimal `gorm:"column:litros;type:numeric(12,3)" json:"litros"`
	ValorTotal             decimal.Decimal `gorm:"column:valor_total;type:numeric(15,2)" json:"valor_total"`
	Km                     int64           `gorm:"column:km" json:"km"`
	Posto                  string          `gorm:"column:posto" json:"posto"`
	Status                 string          `gorm:"column:status" json:"status"`
	MotivoCancelamento     *string         `gorm:"column:motivo_cancelamento" json:"motivo_cancelamento,omitempty"`
	ObservacaoCancelamento *string         `gorm:"column:observacao_cancelamento" json:"observacao_cancelamento,omitempty"`
	DataCancelamento       *time.Time      `gorm:"column:data_cancelamento" json:"data_cancelamento,omitempty"`
	CreatedAt              time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Fueling) TableName() string { return "abastecimentos" }

// PricePerLiter is zero when no liters were recorded.
func (f Fueling) PricePerLiter() decimal.Decimal {
	if f.Litros.IsZero() {
		return decimal.Zero
	}
	return f.ValorTotal.DivRound(f.Litros, 3)
}

type MaintenanceKind string

const (
	MaintenancePreventive MaintenanceKind = "preventiva"
	MaintenanceCorrective MaintenanceKind = "corretiva"
)

type Maintenance struct {
	ID        int64           `gorm:"column:id;primaryKey" json:"id"`
	VeiculoID int64           `gorm:"column:veiculo_id" json:"veiculo_id"`
	Data      time.Time       `gorm:"column:data" json:"data"`
	Tipo      MaintenanceKind `gorm:"column:tipo" json:"tipo"`
	Descricao string          `gorm:"column:descricao" json:"descricao"`
	Valor     decimal.Decimal `gorm:"column:valor;type:numeric(15,2)" json:"valor"`
	Km        int64           `gorm:"column:km" json:"km"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Maintenance) TableName() string { return "manutencoes" }
