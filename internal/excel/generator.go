package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/transvia/fleet-office/internal/format"
	"github.com/transvia/fleet-office/internal/model"
)

const maxSheetName = 31

var contractHeaders = []string{
	"Contrato",
	"Cliente",
	"Origem",
	"Destino",
	"Status",
	"Valor do frete",
	"Criado em",
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Contracts builds a workbook with a summary sheet and one sheet per contract status.
func (g *Generator) Contracts(contracts []model.Contract, generatedAt time.Time) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	summarySheet := "Resumo"
	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	groups, order := groupByStatus(contracts)
	if err := g.writeSummary(file, summarySheet, contracts, groups, order, generatedAt); err != nil {
		return nil, err
	}

	used := map[string]struct{}{summarySheet: {}}
	for _, status := range order {
		name := buildSheetName(string(status), used)
		used[name] = struct{}{}
		if _, err := file.NewSheet(name); err != nil {
			return nil, err
		}
		if err := g.writeDetail(file, name, groups[status]); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, all []model.Contract, groups map[model.ContractStatus][]model.Contract, order []model.ContractStatus, generatedAt time.Time) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Relatório de contratos")
	set("A2", "Emitido em")
	set("B2", format.DateTime(generatedAt))
	set("A3", "Total de contratos")
	set("B3", len(all))
	set("A4", "Valor total de frete")
	set("B4", format.Currency(sumFreight(all)))

	tableRow := 6
	set(fmt.Sprintf("A%d", tableRow), "Status")
	set(fmt.Sprintf("B%d", tableRow), "Quantidade")
	set(fmt.Sprintf("C%d", tableRow), "Valor de frete")
	for i, status := range order {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), string(status))
		set(fmt.Sprintf("B%d", row), len(groups[status]))
		set(fmt.Sprintf("C%d", row), format.Currency(sumFreight(groups[status])))
	}

	if err := boldRow(file, sheet, tableRow, 3); err != nil {
		return err
	}
	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "C", 20)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, contracts []model.Contract) error {
	for i, header := range contractHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		_ = file.SetCellValue(sheet, cell, header)
	}

	for i, c := range contracts {
		row := i + 2
		values := []interface{}{
			c.ID,
			c.Cliente,
			c.Origem,
			c.Destino,
			string(c.Status),
			format.Currency(c.ValorFrete),
			format.Date(c.CreatedAt),
		}
		if err := file.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
	}

	if err := boldRow(file, sheet, 1, len(contractHeaders)); err != nil {
		return err
	}
	_ = file.SetColWidth(sheet, "A", "A", 12)
	_ = file.SetColWidth(sheet, "B", "D", 30)
	_ = file.SetColWidth(sheet, "E", "G", 18)
	return nil
}

func boldRow(file *excelize.File, sheet string, row, columns int) error {
	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return err
	}
	return file.SetCellStyle(sheet, fmt.Sprintf("A%d", row), last, style)
}

// groupByStatus keeps the first-seen order of statuses.
func groupByStatus(contracts []model.Contract) (map[model.ContractStatus][]model.Contract, []model.ContractStatus) {
	groups := make(map[model.ContractStatus][]model.Contract)
	var order []model.ContractStatus
	for _, c := range contracts {
		if _, ok := groups[c.Status]; !ok {
			order = append(order, c.Status)
		}
		groups[c.Status] = append(groups[c.Status], c)
	}
	return groups, order
}

func sumFreight(contracts []model.Contract) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contracts {
		total = total.Add(c.ValorFrete)
	}
	return total
}

func buildSheetName(name string, used map[string]struct{}) string {
	base := sanitizeSheetName(name)
	if len([]rune(base)) > maxSheetName {
		base = string([]rune(base)[:maxSheetName])
	}

	candidate := base
	for counter := 2; ; counter++ {
		if _, exists := used[candidate]; !exists {
			return candidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := []rune(base)
		if len(trimmed)+len(suffix) > maxSheetName {
			trimmed = trimmed[:maxSheetName-len(suffix)]
		}
		candidate = string(trimmed) + suffix
	}
}

func sanitizeSheetName(value string) string {
	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return "Sem status"
	}
	return value
}
