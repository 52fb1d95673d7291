package service

import (
	"context"
	"strings"
	"time"

	"github.com/transvia/fleet-office/internal/format"
	"github.com/transvia/fleet-office/internal/model"
)

var cancellationColumns = []string{"Tipo", "Número", "Data Cancelamento", "Motivo", "Responsável", "Observações"}

type PDFRenderer interface {
	Generate(report model.TabularReport) ([]byte, error)
}

type WorkbookRenderer interface {
	Contracts(contracts []model.Contract, generatedAt time.Time) ([]byte, error)
}

type ReportBranding struct {
	CompanyName string
	LogoPath    string
}

type ExportService struct {
	cancellations *CancellationService
	contracts     *ContractService
	pdf           PDFRenderer
	workbook      WorkbookRenderer
	branding      ReportBranding
	now           func() time.Time
}

func NewExportService(cancellations *CancellationService, contracts *ContractService, pdf PDFRenderer, workbook WorkbookRenderer, branding ReportBranding) *ExportService {
	return &ExportService{
		cancellations: cancellations,
		contracts:     contracts,
		pdf:           pdf,
		workbook:      workbook,
		branding:      branding,
		now:           time.Now,
	}
}

// CancellationsCSV writes one header line and one line per cancellation.
// Fields are joined with commas and never quoted.
func (s *ExportService) CancellationsCSV(ctx context.Context, input ListCancellationsInput) ([]byte, error) {
	records, err := s.cancellations.List(ctx, input)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(strings.Join(cancellationColumns, ","))
	b.WriteByte('\n')
	for _, row := range cancellationRows(records) {
		b.WriteString(strings.Join(row.fields(), ","))
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

func (s *ExportService) CancellationsPDF(ctx context.Context, input ListCancellationsInput) ([]byte, error) {
	records, err := s.cancellations.List(ctx, input)
	if err != nil {
		return nil, err
	}
	report := model.TabularReport{
		Title:       "Relatório de Cancelamentos",
		CompanyName: s.branding.CompanyName,
		LogoPath:    s.branding.LogoPath,
		Headers:     cancellationColumns,
		Widths:      []float64{30, 25, 38, 85, 45, 50},
		GeneratedAt: s.now(),
	}
	if input.DocumentType != "" {
		report.Subtitle = "Tipo: " + input.DocumentType
	}
	for _, row := range cancellationRows(records) {
		report.Rows = append(report.Rows, row.fields())
	}
	return s.pdf.Generate(report)
}

func (s *ExportService) ContractsXLSX(ctx context.Context, search string) ([]byte, error) {
	contracts, err := s.contracts.List(ctx, search)
	if err != nil {
		return nil, err
	}
	return s.workbook.Contracts(contracts, s.now())
}

type cancellationRow model.CancellationReportRow

func (r cancellationRow) fields() []string {
	return []string{r.Tipo, r.Numero, r.DataCancelamento, r.Motivo, r.Responsavel, r.Observacoes}
}

func cancellationRows(records []model.Cancellation) []cancellationRow {
	rows := make([]cancellationRow, 0, len(records))
	for _, c := range records {
		rows = append(rows, cancellationRow{
			Tipo:             c.TipoDocumento,
			Numero:           c.NumeroDocumento,
			DataCancelamento: format.DateTime(c.DataCancelamento),
			Motivo:           c.Motivo,
			Responsavel:      c.Responsavel,
			Observacoes:      format.OptionalString(c.Observacoes),
		})
	}
	return rows
}
