package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DocumentType int

const (
	DocumentContract DocumentType = iota + 1
	DocumentInvoice
	DocumentFueling
	DocumentCTe
	DocumentManifest
)

// DocumentTypes lists every cancellable document type in display order.
var DocumentTypes = []DocumentType{
	DocumentContract,
	DocumentInvoice,
	DocumentFueling,
	DocumentCTe,
	DocumentManifest,
}

// DocumentTarget is the backend row a document type lives in.
type DocumentTarget struct {
	Table       string
	StatusField string
	// FinalStatuses are the statuses a row can no longer leave.
	FinalStatuses []string
}

func (t DocumentTarget) IsFinal(status string) bool {
	for _, final := range t.FinalStatuses {
		if final == status {
			return true
		}
	}
	return false
}

func (t DocumentType) String() string {
	switch t {
	case DocumentContract:
		return "Contrato"
	case DocumentInvoice:
		return "Nota Fiscal"
	case DocumentFueling:
		return "Abastecimento"
	case DocumentCTe:
		return "CT-e"
	case DocumentManifest:
		return "Manifesto"
	}
	return fmt.Sprintf("DocumentType(%d)", int(t))
}

// Target resolves the table and status column of the document type.
func (t DocumentType) Target() (DocumentTarget, error) {
	switch t {
	case DocumentContract:
		return DocumentTarget{
			Table:         "contratos",
			StatusField:   "status",
			FinalStatuses: []string{string(ContractStatusCancelled), string(ContractStatusRejected)},
		}, nil
	case DocumentInvoice:
		return DocumentTarget{Table: "notas_fiscais", StatusField: "status"}, nil
	case DocumentFueling:
		return DocumentTarget{Table: "abastecimentos", StatusField: "status"}, nil
	case DocumentCTe:
		return DocumentTarget{Table: "ctes", StatusField: "status"}, nil
	case DocumentManifest:
		return DocumentTarget{Table: "manifestos", StatusField: "status"}, nil
	}
	return DocumentTarget{}, fmt.Errorf("unsupported document type %d", int(t))
}

// ParseDocumentType accepts the display label ("Nota Fiscal", "CT-e", ...) case-insensitively.
func ParseDocumentType(raw string) (DocumentType, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	for _, t := range DocumentTypes {
		if strings.ToLower(t.String()) == value {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown document type %q: expected one of Contrato, Nota Fiscal, Abastecimento, CT-e, Manifesto", raw)
}

const DocumentStatusActive = "Ativo"

type Manifest struct {
	ID         int64     `gorm:"column:id;primaryKey" json:"id"`
	ContratoID int64     `gorm:"column:contrato_id" json:"contrato_id"`
	Numero     string    `gorm:"column:numero" json:"numero"`
	Status     string    `gorm:"column:status" json:"status"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Manifest) TableName() string { return "manifestos" }

type CTe struct {
	ID         int64     `gorm:"column:id;primaryKey" json:"id"`
	ContratoID int64     `gorm:"column:contrato_id" json:"contrato_id"`
	Numero     string    `gorm:"column:numero" json:"numero"`
	Status     string    `gorm:"column:status" json:"status"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CTe) TableName() string { return "ctes" }

type Invoice struct {
	ID         int64           `gorm:"column:id;primaryKey" json:"id"`
	ContratoID int64           `gorm:"column:contrato_id" json:"contrato_id"`
	Numero     string          `gorm:"column:numero" json:"numero"`
	Valor      decimal.Decimal `gorm:"column:valor;type:numeric(15,2)" json:"valor"`
	Status     string          `gorm:"column:status" json:"status"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Invoice) TableName() string { return "notas_fiscais" }

// ContractDocuments groups what the documentos tab edits.
type ContractDocuments struct {
	Manifests []Manifest `json:"manifestos"`
	CTes      []CTe      `json:"ctes"`
	Invoices  []Invoice  `json:"notas_fiscais"`
}

// InvoiceTotal sums every invoice value.
func (d ContractDocuments) InvoiceTotal() decimal.Decimal {
	total := decimal.Zero
	for _, inv := range d.Invoices {
		total = total.Add(inv.Valor)
	}
	return total
}
