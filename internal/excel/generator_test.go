package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/transvia/fleet-office/internal/model"
)

func TestContractsWorkbook(t *testing.T) {
	contracts := []model.Contract{
		{ID: 1, Cliente: "Agro Sul", Status: model.ContractStatusPending, ValorFrete: decimal.RequireFromString("1500.00")},
		{ID: 2, Cliente: "Mineração Norte", Status: model.ContractStatusCancelled, ValorFrete: decimal.RequireFromString("800.50")},
		{ID: 3, Cliente: "Agro Sul", Status: model.ContractStatusPending, ValorFrete: decimal.RequireFromString("200.00")},
	}

	data, err := NewGenerator().Contracts(contracts, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer file.Close()

	require.Equal(t, []string{"Resumo", "Pendente", "Cancelado"}, file.GetSheetList())

	total, err := file.GetCellValue("Resumo", "B3")
	require.NoError(t, err)
	require.Equal(t, "3", total)

	rows, err := file.GetRows("Pendente")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Contrato", rows[0][0])
	require.Equal(t, "R$ 1.500,00", rows[1][5])
}

func TestBuildSheetNameDeduplicates(t *testing.T) {
	used := map[string]struct{}{"Pendente": {}}
	require.Equal(t, "Pendente-2", buildSheetName("Pendente", used))
	require.Equal(t, "a-b", buildSheetName("a/b", used))
	require.Equal(t, "Sem status", buildSheetName("  ", used))
}
