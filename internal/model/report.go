package model

import "time"

// TabularReport is a printable table: a title, optional company header and rows of text cells.
type TabularReport struct {
	Title       string
	Subtitle    string
	CompanyName string
	LogoPath    string
	Headers     []string
	Widths      []float64
	Rows        [][]string
	GeneratedAt time.Time
}

// CancellationReportRow is one cancellation formatted for exports.
type CancellationReportRow struct {
	Tipo             string
	Numero           string
	DataCancelamento string
	Motivo           string
	Responsavel      string
	Observacoes      string
}
