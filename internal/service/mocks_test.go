package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/oplog"
	"github.com/transvia/fleet-office/internal/session"
)

var testSession = session.New(uuid.MustParse("6f1d2c1e-8a55-4a0b-9d44-0a3b5e0c7a11"), "Ana Lima", "ana@transvia.com.br", false)

func testLogger() zerolog.Logger { return zerolog.Nop() }

// mockCancellationRepo records every call so tests can assert which writes happened.
type mockCancellationRepo struct {
	markCalls   []markCall
	inserted    []model.Cancellation
	existing    map[string]bool
	markErr     error
	insertErr   error
	records     []model.Cancellation
	existsCalls int
	onMark      func(call markCall)
	// statuses is keyed by "table/id"; absent rows read as Pendente.
	statuses    map[string]string
	statusCalls int
}

type markCall struct {
	target model.DocumentTarget
	id     int64
	fields model.CancellationFields
}

func (m *mockCancellationRepo) MarkCancelled(ctx context.Context, target model.DocumentTarget, documentID int64, fields model.CancellationFields) error {
	call := markCall{target: target, id: documentID, fields: fields}
	m.markCalls = append(m.markCalls, call)
	if m.markErr == nil && m.onMark != nil {
		m.onMark(call)
	}
	return m.markErr
}

func (m *mockCancellationRepo) CurrentStatus(ctx context.Context, target model.DocumentTarget, documentID int64) (string, error) {
	m.statusCalls++
	if status, ok := m.statuses[fmt.Sprintf("%s/%d", target.Table, documentID)]; ok {
		return status, nil
	}
	return string(model.ContractStatusPending), nil
}

func (m *mockCancellationRepo) Insert(ctx context.Context, record *model.Cancellation) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, *record)
	return nil
}

func (m *mockCancellationRepo) Exists(ctx context.Context, documentType, documentNumber string) (bool, error) {
	m.existsCalls++
	return m.existing[documentType+"/"+documentNumber], nil
}

func (m *mockCancellationRepo) List(ctx context.Context) ([]model.Cancellation, error) {
	return m.records, nil
}

type mockContractRepo struct {
	contracts      map[int64]*model.Contract
	nextID         int64
	docs           map[int64]model.ContractDocuments
	history        []model.ContractStatusChange
	historyErr     error
	updateBasicsFn func(id int64, basics model.ContractBasics) error
}

func newMockContractRepo(contracts ...model.Contract) *mockContractRepo {
	repo := &mockContractRepo{contracts: map[int64]*model.Contract{}, docs: map[int64]model.ContractDocuments{}, nextID: 100}
	for i := range contracts {
		c := contracts[i]
		repo.contracts[c.ID] = &c
	}
	return repo
}

func (m *mockContractRepo) Get(ctx context.Context, id int64) (*model.Contract, error) {
	c, ok := m.contracts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockContractRepo) List(ctx context.Context) ([]model.Contract, error) {
	var result []model.Contract
	for _, c := range m.contracts {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockContractRepo) Create(ctx context.Context, contract *model.Contract) error {
	m.nextID++
	contract.ID = m.nextID
	copied := *contract
	m.contracts[contract.ID] = &copied
	return nil
}

func (m *mockContractRepo) UpdateBasics(ctx context.Context, id int64, basics model.ContractBasics) error {
	if m.updateBasicsFn != nil {
		return m.updateBasicsFn(id, basics)
	}
	c, ok := m.contracts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Origem, c.Destino, c.Cliente, c.Status = basics.Origem, basics.Destino, basics.Cliente, basics.Status
	return nil
}

func (m *mockContractRepo) UpdateFreight(ctx context.Context, id int64, value decimal.Decimal) error {
	m.contracts[id].ValorFrete = value
	return nil
}

func (m *mockContractRepo) UpdateObservations(ctx context.Context, id int64, observations *string) error {
	m.contracts[id].Observacoes = observations
	return nil
}

func (m *mockContractRepo) Reject(ctx context.Context, id int64, reason string, at time.Time) error {
	c, ok := m.contracts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Status = model.ContractStatusRejected
	c.MotivoRejeicao = &reason
	c.DataRejeicao = &at
	return nil
}

func (m *mockContractRepo) InsertStatusChange(ctx context.Context, change *model.ContractStatusChange) error {
	if m.historyErr != nil {
		return m.historyErr
	}
	m.history = append(m.history, *change)
	return nil
}

func (m *mockContractRepo) GetDocuments(ctx context.Context, id int64) (model.ContractDocuments, error) {
	return m.docs[id], nil
}

func (m *mockContractRepo) ReplaceDocuments(ctx context.Context, id int64, docs model.ContractDocuments) error {
	m.docs[id] = docs
	return nil
}

type mockReceiptRepo struct {
	receipts  map[int64]*model.Receipt
	marked    []model.Receipt
	markErr   error
	getCalled bool
}

func (m *mockReceiptRepo) Get(ctx context.Context, id int64) (*model.Receipt, error) {
	m.getCalled = true
	r, ok := m.receipts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *mockReceiptRepo) List(ctx context.Context) ([]model.Receipt, error) {
	var result []model.Receipt
	for _, r := range m.receipts {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockReceiptRepo) Create(ctx context.Context, receipt *model.Receipt) error {
	receipt.ID = int64(len(m.receipts) + 1)
	return nil
}

func (m *mockReceiptRepo) MarkReceived(ctx context.Context, id int64, confirmation model.Receipt) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.marked = append(m.marked, confirmation)
	return nil
}

type mockBalanceRepo struct {
	FindByContractFunc func(ctx context.Context, contractID int64) (model.Balance, bool, error)
	releaseErr         error
	findCalls          int
	released           []int64
}

func (m *mockBalanceRepo) FindByContract(ctx context.Context, contractID int64) (model.Balance, bool, error) {
	m.findCalls++
	if m.FindByContractFunc != nil {
		return m.FindByContractFunc(ctx, contractID)
	}
	return model.Balance{}, false, nil
}

func (m *mockBalanceRepo) Release(ctx context.Context, id int64, at time.Time) error {
	if m.releaseErr != nil {
		return m.releaseErr
	}
	m.released = append(m.released, id)
	return nil
}

type mockPermissionRepo struct {
	grants    map[uuid.UUID][]model.PermissionGrant
	listCalls int
	listErr   error
}

func (m *mockPermissionRepo) ListGrants(ctx context.Context, userID uuid.UUID) ([]model.PermissionGrant, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.grants[userID], nil
}

func (m *mockPermissionRepo) ReplaceGrants(ctx context.Context, userID uuid.UUID, grants []model.PermissionGrant) error {
	if m.grants == nil {
		m.grants = map[uuid.UUID][]model.PermissionGrant{}
	}
	m.grants[userID] = grants
	return nil
}

// failingStore is an operation log that always errors.
type failingStore struct{}

func (failingStore) Record(ctx context.Context, entry oplog.Entry) error {
	return context.DeadlineExceeded
}

func (failingStore) List(ctx context.Context, limit int) ([]oplog.Entry, error) {
	return nil, context.DeadlineExceeded
}
