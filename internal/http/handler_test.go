package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/transvia/fleet-office/internal/auth"
	"github.com/transvia/fleet-office/internal/http/middleware"
	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/oplog"
	"github.com/transvia/fleet-office/internal/service"
)

const testSecret = "test-secret"

type memoryCancellations struct {
	cancelled map[string]bool
	statuses  map[string]string
	records   []model.Cancellation
}

func (m *memoryCancellations) CurrentStatus(ctx context.Context, target model.DocumentTarget, documentID int64) (string, error) {
	key := fmt.Sprintf("%s/%d", target.Table, documentID)
	if _, ok := m.cancelled[key]; !ok {
		return "", gorm.ErrRecordNotFound
	}
	if status, ok := m.statuses[key]; ok {
		return status, nil
	}
	return string(model.ContractStatusPending), nil
}

func (m *memoryCancellations) MarkCancelled(ctx context.Context, target model.DocumentTarget, documentID int64, fields model.CancellationFields) error {
	key := fmt.Sprintf("%s/%d", target.Table, documentID)
	if _, ok := m.cancelled[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.cancelled[key] = true
	return nil
}

func (m *memoryCancellations) Insert(ctx context.Context, record *model.Cancellation) error {
	m.records = append(m.records, *record)
	return nil
}

func (m *memoryCancellations) Exists(ctx context.Context, documentType, documentNumber string) (bool, error) {
	for _, r := range m.records {
		if r.TipoDocumento == documentType && r.NumeroDocumento == documentNumber {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryCancellations) List(ctx context.Context) ([]model.Cancellation, error) {
	return m.records, nil
}

type noGrants struct{}

func (noGrants) ListGrants(ctx context.Context, userID uuid.UUID) ([]model.PermissionGrant, error) {
	return nil, nil
}

func (noGrants) ReplaceGrants(ctx context.Context, userID uuid.UUID, grants []model.PermissionGrant) error {
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memoryCancellations, *oplog.Ring) {
	t.Helper()
	repo := &memoryCancellations{
		cancelled: map[string]bool{"notas_fiscais/77": false, "contratos/31": false},
		statuses:  map[string]string{"contratos/31": string(model.ContractStatusRejected)},
	}
	ring := oplog.NewRing(50)
	log := zerolog.Nop()

	cancellations := service.NewCancellationService(repo, ring, log)
	handler := NewHandler(Services{
		Cancellations: cancellations,
		Permissions:   service.NewPermissionService(noGrants{}),
		Exports:       service.NewExportService(cancellations, nil, nil, nil, service.ReportBranding{}),
		OpLog:         ring,
	}, log)
	router := NewRouter(handler, middleware.Auth(auth.NewParser(testSecret)), "test", nil, log)
	return router, repo, ring
}

func tokenFor(t *testing.T, admin bool) string {
	t.Helper()
	token, _, err := auth.NewIssuer(testSecret, time.Hour).Issue(model.User{ID: uuid.New(), Nome: "Ana Lima", AdminGeral: admin})
	require.NoError(t, err)
	return token
}

func do(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&payload).Encode(body)
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCancelDocumentEndpoint(t *testing.T) {
	router, repo, _ := newTestRouter(t)
	admin := tokenFor(t, true)
	body := map[string]interface{}{"tipo_documento": "Nota Fiscal", "documento_id": 77, "motivo": "Valor incorreto"}

	rec := do(router, http.MethodPost, "/cancelamentos", admin, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Message       string `json:"message"`
		AuditRecorded bool   `json:"auditoria_registrada"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Cancelamento de Nota Fiscal 77 realizado com sucesso", resp.Message)
	require.True(t, resp.AuditRecorded)
	require.True(t, repo.cancelled["notas_fiscais/77"])

	rec = do(router, http.MethodPost, "/cancelamentos", admin, body)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Len(t, repo.records, 1)
}

func TestCancelDocumentErrors(t *testing.T) {
	router, repo, _ := newTestRouter(t)
	admin := tokenFor(t, true)

	rec := do(router, http.MethodPost, "/cancelamentos", admin, map[string]interface{}{"tipo_documento": "Contrato", "documento_id": 1, "motivo": "abc"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"field":"motivo"`)

	rec = do(router, http.MethodPost, "/cancelamentos", admin, map[string]interface{}{"tipo_documento": "Boleto", "documento_id": 1, "motivo": "Emitido errado"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodPost, "/cancelamentos", admin, map[string]interface{}{"tipo_documento": "Contrato", "documento_id": 5, "motivo": "Emitido errado"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, repo.records)

	rec = do(router, http.MethodPost, "/cancelamentos", admin, map[string]interface{}{"tipo_documento": "Contrato", "documento_id": 31, "motivo": "Cliente desistiu"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.False(t, repo.cancelled["contratos/31"])
	require.Empty(t, repo.records)
}

func TestPermissionGateOnRoutes(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := do(router, http.MethodGet, "/cancelamentos", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(router, http.MethodGet, "/cancelamentos", tokenFor(t, false), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(router, http.MethodGet, "/me/permissoes/contratos", tokenFor(t, false), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"visualizar":false`)
}

func TestExportCSVEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)
	admin := tokenFor(t, true)
	do(router, http.MethodPost, "/cancelamentos", admin, map[string]interface{}{"tipo_documento": "Nota Fiscal", "documento_id": 77, "motivo": "Valor incorreto"})

	rec := do(router, http.MethodGet, "/cancelamentos/export.csv", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "cancelamentos_")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[1], "Nota Fiscal,77,"))
}

func TestLogsEndpoint(t *testing.T) {
	router, _, ring := newTestRouter(t)
	admin := tokenFor(t, true)
	require.NoError(t, ring.Record(context.Background(), oplog.Entry{Module: "contratos", Action: "criar", Timestamp: time.Now(), Success: true}))

	rec := do(router, http.MethodGet, "/logs?limit=1", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"module":"contratos"`)

	rec = do(router, http.MethodGet, "/logs?limit=x", admin, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveTabEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)
	admin := tokenFor(t, true)

	rec := do(router, http.MethodGet, "/contratos/novo/abas/cancelamento", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"placeholder":true`)
	require.Contains(t, rec.Body.String(), `"voltar_dados"`)

	rec = do(router, http.MethodGet, "/contratos/12/abas/xpto", admin, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
