package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/oplog"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func completeSubmission() SubmitReceiptInput {
	return SubmitReceiptInput{
		ReceiptID:                    1,
		Responsavel:                  "Carlos Mendes",
		DataRecebimento:              datePtr(2024, 4, 2),
		DataEntregaMercadoria:        datePtr(2024, 4, 1),
		DataRecebimentoControladoria: datePtr(2024, 4, 3),
		Session:                      testSession,
	}
}

func newReceiptFixture(saldo string) (*ReceiptService, *mockReceiptRepo, *mockBalanceRepo) {
	receipts := &mockReceiptRepo{receipts: map[int64]*model.Receipt{
		1: {ID: 1, ContratoID: 123, Saldo: decimal.RequireFromString(saldo), Status: model.ReceiptStatusPending},
	}}
	balances := &mockBalanceRepo{}
	svc := NewReceiptService(receipts, balances, oplog.NewRing(10), testLogger())
	return svc, receipts, balances
}

func TestSubmitReportsFirstMissingField(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(in *SubmitReceiptInput)
		field   string
		message string
	}{
		{
			name: "everything missing",
			mutate: func(in *SubmitReceiptInput) {
				*in = SubmitReceiptInput{ReceiptID: 1}
			},
			field:   "responsavel",
			message: "Informe o responsável pelo recebimento",
		},
		{
			name: "blank responsible",
			mutate: func(in *SubmitReceiptInput) {
				in.Responsavel = "   "
			},
			field:   "responsavel",
			message: "Informe o responsável pelo recebimento",
		},
		{
			name: "receipt date and later fields missing",
			mutate: func(in *SubmitReceiptInput) {
				in.DataRecebimento = nil
				in.DataRecebimentoControladoria = nil
			},
			field:   "data_recebimento",
			message: "Informe a data de recebimento do canhoto",
		},
		{
			name: "delivery date missing",
			mutate: func(in *SubmitReceiptInput) {
				in.DataEntregaMercadoria = nil
			},
			field:   "data_entrega_mercadoria",
			message: "Informe a data de entrega da mercadoria",
		},
		{
			name: "controller date missing",
			mutate: func(in *SubmitReceiptInput) {
				in.DataRecebimentoControladoria = nil
			},
			field:   "data_recebimento_controladoria",
			message: "Informe a data de recebimento pela controladoria",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, receipts, balances := newReceiptFixture("100.00")
			input := completeSubmission()
			tc.mutate(&input)

			_, err := svc.Submit(context.Background(), input)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			require.Equal(t, tc.field, validation.Field)
			require.Equal(t, tc.message, validation.Message)
			require.False(t, receipts.getCalled)
			require.Empty(t, receipts.marked)
			require.Zero(t, balances.findCalls)
		})
	}
}

func TestSubmitReleasesPendingBalance(t *testing.T) {
	svc, receipts, balances := newReceiptFixture("350.75")
	balances.FindByContractFunc = func(ctx context.Context, contractID int64) (model.Balance, bool, error) {
		require.Equal(t, int64(123), contractID)
		return model.Balance{ID: 9, ContratoID: contractID, Status: model.BalanceStatusPending}, true, nil
	}

	result, err := svc.Submit(context.Background(), completeSubmission())

	require.NoError(t, err)
	require.True(t, result.BalanceReleased)
	require.Equal(t, []int64{9}, balances.released)
	require.Len(t, receipts.marked, 1)
	require.Equal(t, model.ReceiptStatusReceived, receipts.marked[0].Status)
	require.Equal(t, "Carlos Mendes", *receipts.marked[0].Responsavel)
}

func TestSubmitWithoutBalanceRecordCompletes(t *testing.T) {
	svc, receipts, balances := newReceiptFixture("350.75")

	result, err := svc.Submit(context.Background(), completeSubmission())

	require.NoError(t, err)
	require.False(t, result.BalanceReleased)
	require.Equal(t, 1, balances.findCalls)
	require.Empty(t, balances.released)
	require.Len(t, receipts.marked, 1)
}

func TestSubmitSkipsAlreadyReleasedBalance(t *testing.T) {
	svc, _, balances := newReceiptFixture("10.00")
	balances.FindByContractFunc = func(ctx context.Context, contractID int64) (model.Balance, bool, error) {
		return model.Balance{ID: 4, Status: model.BalanceStatusReleased}, true, nil
	}

	result, err := svc.Submit(context.Background(), completeSubmission())

	require.NoError(t, err)
	require.False(t, result.BalanceReleased)
	require.Empty(t, balances.released)
}

func TestSubmitNonPositiveBalanceSkipsLookup(t *testing.T) {
	for _, saldo := range []string{"0", "0.00"} {
		svc, _, balances := newReceiptFixture(saldo)

		result, err := svc.Submit(context.Background(), completeSubmission())

		require.NoError(t, err)
		require.False(t, result.BalanceReleased)
		require.Zero(t, balances.findCalls)
	}
}

func TestSubmitBalanceFailuresDoNotFailSubmission(t *testing.T) {
	svc, _, balances := newReceiptFixture("50.00")
	balances.FindByContractFunc = func(ctx context.Context, contractID int64) (model.Balance, bool, error) {
		return model.Balance{}, false, errors.New("timeout")
	}

	result, err := svc.Submit(context.Background(), completeSubmission())
	require.NoError(t, err)
	require.False(t, result.BalanceReleased)

	svc, _, balances = newReceiptFixture("50.00")
	balances.FindByContractFunc = func(ctx context.Context, contractID int64) (model.Balance, bool, error) {
		return model.Balance{ID: 2, Status: model.BalanceStatusPending}, true, nil
	}
	balances.releaseErr = errors.New("timeout")

	result, err = svc.Submit(context.Background(), completeSubmission())
	require.NoError(t, err)
	require.False(t, result.BalanceReleased)
}

func TestSubmitUnknownReceipt(t *testing.T) {
	svc, _, _ := newReceiptFixture("1.00")
	input := completeSubmission()
	input.ReceiptID = 404

	_, err := svc.Submit(context.Background(), input)
	require.ErrorIs(t, err, ErrNotFound)
}
