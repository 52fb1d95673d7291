package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/oplog"
)

func newContractFixture(contracts ...model.Contract) (*ContractService, *mockContractRepo, *mockCancellationRepo) {
	repo := newMockContractRepo(contracts...)
	cancelRepo := &mockCancellationRepo{}
	ring := oplog.NewRing(20)
	cancellations := NewCancellationService(cancelRepo, ring, testLogger())
	return NewContractService(repo, cancellations, ring, testLogger()), repo, cancelRepo
}

func TestResolveTabPlaceholderForUnsavedContract(t *testing.T) {
	for _, tab := range []Tab{TabCancelamento, TabRejeicao} {
		view := ResolveTab(tab, 0)
		require.False(t, view.Accessible)
		require.True(t, view.Placeholder)
		require.Equal(t, []string{TabActionBackToDados}, view.Actions)
	}

	view := ResolveTab(TabCancelamento, 42)
	require.True(t, view.Accessible)
	require.Equal(t, []string{TabActionCancel}, view.Actions)

	view = ResolveTab(TabFrete, 0)
	require.True(t, view.Accessible)
	require.Equal(t, []string{TabActionSave}, view.Actions)
}

func TestResolveTabsKeepsOrder(t *testing.T) {
	views := ResolveTabs(0)
	require.Len(t, views, len(Tabs))
	for i, view := range views {
		require.Equal(t, Tabs[i], view.Tab)
	}
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab(" Rejeicao ")
	require.NoError(t, err)
	require.Equal(t, TabRejeicao, tab)

	_, err = ParseTab("pagamento")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSaveDadosCreatesPendingContract(t *testing.T) {
	svc, repo, _ := newContractFixture()

	contract, err := svc.SaveDados(context.Background(), SaveDadosInput{Origem: "Cuiabá", Destino: "Santos", Cliente: "Agro Sul"})

	require.NoError(t, err)
	require.True(t, contract.Persisted())
	require.Equal(t, model.ContractStatusPending, contract.Status)
	require.Contains(t, repo.contracts, contract.ID)
}

func TestSaveDadosValidation(t *testing.T) {
	svc, _, _ := newContractFixture()

	_, err := svc.SaveDados(context.Background(), SaveDadosInput{Origem: "Cuiabá", Cliente: "Agro Sul"})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "destino", validation.Field)

	_, err = svc.SaveDados(context.Background(), SaveDadosInput{Origem: "A", Destino: "B", Cliente: "C", Status: model.ContractStatusCancelled})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSaveDadosUpdatesExisting(t *testing.T) {
	svc, repo, _ := newContractFixture(model.Contract{ID: 7, Origem: "A", Destino: "B", Cliente: "C", Status: model.ContractStatusPending})

	contract, err := svc.SaveDados(context.Background(), SaveDadosInput{ID: 7, Origem: "Goiânia", Destino: "B", Cliente: "C", Status: model.ContractStatusInTransit})

	require.NoError(t, err)
	require.Equal(t, "Goiânia", contract.Origem)
	require.Equal(t, model.ContractStatusInTransit, repo.contracts[7].Status)
}

func TestSaveDadosRefusesFinishedContract(t *testing.T) {
	for _, status := range []model.ContractStatus{model.ContractStatusCancelled, model.ContractStatusRejected} {
		svc, repo, _ := newContractFixture(model.Contract{ID: 8, Origem: "A", Destino: "B", Cliente: "C", Status: status})
		updated := false
		repo.updateBasicsFn = func(id int64, basics model.ContractBasics) error {
			updated = true
			return nil
		}

		_, err := svc.SaveDados(context.Background(), SaveDadosInput{ID: 8, Origem: "Curitiba", Destino: "B", Cliente: "C"})

		require.ErrorIs(t, err, ErrInvalidTransition, string(status))
		require.False(t, updated)
		require.Equal(t, "A", repo.contracts[8].Origem)

		_, err = svc.SaveFrete(context.Background(), 8, decimal.NewFromInt(900))
		require.ErrorIs(t, err, ErrInvalidTransition)
		_, err = svc.SaveObservacoes(context.Background(), 8, nil)
		require.ErrorIs(t, err, ErrInvalidTransition)
		_, err = svc.SaveDocumentos(context.Background(), 8, model.ContractDocuments{})
		require.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestTabSavesRequirePersistedContract(t *testing.T) {
	svc, _, cancelRepo := newContractFixture()
	ctx := context.Background()

	_, err := svc.SaveDocumentos(ctx, 0, model.ContractDocuments{})
	require.ErrorIs(t, err, ErrContractNotPersisted)

	_, err = svc.SaveFrete(ctx, 0, decimal.NewFromInt(10))
	require.ErrorIs(t, err, ErrContractNotPersisted)

	_, err = svc.SaveObservacoes(ctx, 0, nil)
	require.ErrorIs(t, err, ErrContractNotPersisted)

	_, err = svc.SaveCancelamento(ctx, CancelContractInput{Reason: "Cliente desistiu", Session: testSession})
	require.ErrorIs(t, err, ErrContractNotPersisted)
	require.Empty(t, cancelRepo.markCalls)

	_, err = svc.SaveRejeicao(ctx, RejectContractInput{Reason: "Carga recusada", Session: testSession})
	require.ErrorIs(t, err, ErrContractNotPersisted)
}

func TestSaveDocumentosReplacesDocuments(t *testing.T) {
	svc, _, _ := newContractFixture(model.Contract{ID: 5, Status: model.ContractStatusPending})

	saved, err := svc.SaveDocumentos(context.Background(), 5, model.ContractDocuments{
		Manifests: []model.Manifest{{Numero: "MDF-1"}},
		Invoices: []model.Invoice{
			{Numero: "NF-10", Valor: decimal.RequireFromString("100.50")},
			{Numero: "NF-11", Valor: decimal.RequireFromString("49.50")},
		},
	})

	require.NoError(t, err)
	require.Len(t, saved.Manifests, 1)
	require.True(t, saved.InvoiceTotal().Equal(decimal.NewFromInt(150)))

	_, err = svc.SaveDocumentos(context.Background(), 5, model.ContractDocuments{CTes: []model.CTe{{Numero: " "}}})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "ctes[0].numero", validation.Field)
}

func TestSaveFreteRoundsAndRejectsNegative(t *testing.T) {
	svc, repo, _ := newContractFixture(model.Contract{ID: 5, Status: model.ContractStatusPending})

	_, err := svc.SaveFrete(context.Background(), 5, decimal.RequireFromString("-1"))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SaveFrete(context.Background(), 5, decimal.RequireFromString("1234.567"))
	require.NoError(t, err)
	require.Equal(t, "1234.57", repo.contracts[5].ValorFrete.StringFixed(2))
}

func TestSaveObservacoesLimit(t *testing.T) {
	svc, repo, _ := newContractFixture(model.Contract{ID: 5, Status: model.ContractStatusPending})

	tooLong := strings.Repeat("a", 2001)
	_, err := svc.SaveObservacoes(context.Background(), 5, &tooLong)
	require.ErrorIs(t, err, ErrInvalidInput)

	note := "  entregar pela manhã  "
	_, err = svc.SaveObservacoes(context.Background(), 5, &note)
	require.NoError(t, err)
	require.Equal(t, "entregar pela manhã", *repo.contracts[5].Observacoes)
}

func TestSaveCancelamentoRefusesTerminalContract(t *testing.T) {
	svc, _, cancelRepo := newContractFixture(model.Contract{ID: 8, Status: model.ContractStatusRejected})

	_, err := svc.SaveCancelamento(context.Background(), CancelContractInput{ID: 8, Reason: "Cliente desistiu", Session: testSession})

	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Empty(t, cancelRepo.markCalls)
}

func TestSaveRejeicaoWritesHistory(t *testing.T) {
	svc, repo, _ := newContractFixture(model.Contract{ID: 9, Status: model.ContractStatusInTransit})

	result, err := svc.SaveRejeicao(context.Background(), RejectContractInput{ID: 9, Reason: " Carga avariada ", Session: testSession})

	require.NoError(t, err)
	require.True(t, result.HistoryRecorded)
	require.Equal(t, model.ContractStatusRejected, result.Contract.Status)
	require.Equal(t, "Carga avariada", *repo.contracts[9].MotivoRejeicao)
	require.Len(t, repo.history, 1)
	require.Equal(t, model.ContractStatusInTransit, repo.history[0].StatusDe)
	require.Equal(t, "Ana Lima", repo.history[0].Responsavel)
}

func TestSaveRejeicaoHistoryFailureStillSucceeds(t *testing.T) {
	svc, repo, _ := newContractFixture(model.Contract{ID: 9, Status: model.ContractStatusPending})
	repo.historyErr = errors.New("insert failed")

	result, err := svc.SaveRejeicao(context.Background(), RejectContractInput{ID: 9, Reason: "Carga avariada", Session: testSession})

	require.NoError(t, err)
	require.False(t, result.HistoryRecorded)
	require.Equal(t, model.ContractStatusRejected, repo.contracts[9].Status)
}

func TestSaveRejeicaoReasonBounds(t *testing.T) {
	svc, repo, _ := newContractFixture(model.Contract{ID: 9, Status: model.ContractStatusPending})

	_, err := svc.SaveRejeicao(context.Background(), RejectContractInput{ID: 9, Reason: "ruim", Session: testSession})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, model.ContractStatusPending, repo.contracts[9].Status)
}

func TestContractGetAndList(t *testing.T) {
	svc, _, _ := newContractFixture(
		model.Contract{ID: 1, Cliente: "Agro Sul", Origem: "Cuiabá", Status: model.ContractStatusPending},
		model.Contract{ID: 2, Cliente: "Mineração Norte", Origem: "Belém", Status: model.ContractStatusDone},
	)

	details, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, details.Tabs, len(Tabs))

	_, err = svc.Get(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)

	found, err := svc.List(context.Background(), "belém")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, int64(2), found[0].ID)
}
