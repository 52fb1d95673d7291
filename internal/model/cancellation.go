package model

import "time"

const StatusCancelled = "Cancelado"

type Cancellation struct {
	ID               string    `gorm:"column:id;primaryKey" json:"id"`
	TipoDocumento    string    `gorm:"column:tipo_documento" json:"tipo_documento"`
	NumeroDocumento  string    `gorm:"column:numero_documento" json:"numero_documento"`
	Motivo           string    `gorm:"column:motivo" json:"motivo"`
	Observacoes      *string   `gorm:"column:observacoes" json:"observacoes,omitempty"`
	Responsavel      string    `gorm:"column:responsavel" json:"responsavel"`
	DataCancelamento time.Time `gorm:"column:data_cancelamento" json:"data_cancelamento"`
}

func (Cancellation) TableName() string { return "cancelamentos" }

// CancellationFields are written onto the cancelled row itself.
type CancellationFields struct {
	Reason string
	Note   *string
	At     time.Time
}
