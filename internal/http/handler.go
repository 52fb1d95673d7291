package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/transvia/fleet-office/internal/http/middleware"
	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/oplog"
	"github.com/transvia/fleet-office/internal/service"
)

type Services struct {
	Contracts     *service.ContractService
	Cancellations *service.CancellationService
	Receipts      *service.ReceiptService
	Permissions   *service.PermissionService
	Users         *service.UserService
	Fleet         *service.FleetService
	Exports       *service.ExportService
	OpLog         oplog.Store
}

type Handler struct {
	svc Services
	log zerolog.Logger
}

func NewHandler(svc Services, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.POST("/auth/login", h.login)

	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/me/permissoes/:modulo", h.myPermissions)

	can := func(module string, action model.Action) gin.HandlerFunc {
		return middleware.RequirePermission(h.svc.Permissions, module, action)
	}

	contracts := protected.Group("/contratos")
	contracts.GET("", can(model.ModuleContracts, model.ActionView), h.listContracts)
	contracts.GET("/export.xlsx", can(model.ModuleContracts, model.ActionView), h.exportContractsXLSX)
	contracts.POST("", can(model.ModuleContracts, model.ActionCreate), h.createContract)
	contracts.GET("/:id", can(model.ModuleContracts, model.ActionView), h.getContract)
	contracts.GET("/:id/abas/:aba", can(model.ModuleContracts, model.ActionView), h.resolveTab)
	contracts.PUT("/:id/dados", can(model.ModuleContracts, model.ActionEdit), h.saveDados)
	contracts.PUT("/:id/documentos", can(model.ModuleContracts, model.ActionEdit), h.saveDocumentos)
	contracts.PUT("/:id/frete", can(model.ModuleContracts, model.ActionEdit), h.saveFrete)
	contracts.PUT("/:id/observacoes", can(model.ModuleContracts, model.ActionEdit), h.saveObservacoes)
	contracts.POST("/:id/cancelamento", can(model.ModuleCancellations, model.ActionCreate), h.saveCancelamento)
	contracts.POST("/:id/rejeicao", can(model.ModuleContracts, model.ActionEdit), h.saveRejeicao)

	cancellations := protected.Group("/cancelamentos")
	cancellations.GET("", can(model.ModuleCancellations, model.ActionView), h.listCancellations)
	cancellations.GET("/export.csv", can(model.ModuleCancellations, model.ActionView), h.exportCancellationsCSV)
	cancellations.GET("/export.pdf", can(model.ModuleCancellations, model.ActionView), h.exportCancellationsPDF)
	cancellations.POST("", can(model.ModuleCancellations, model.ActionCreate), h.cancelDocument)

	receipts := protected.Group("/canhotos")
	receipts.GET("", can(model.ModuleReceipts, model.ActionView), h.listReceipts)
	receipts.POST("", can(model.ModuleReceipts, model.ActionCreate), h.createReceipt)
	receipts.GET("/:id", can(model.ModuleReceipts, model.ActionView), h.getReceipt)
	receipts.POST("/:id/recebimento", can(model.ModuleReceipts, model.ActionEdit), h.submitReceipt)

	users := protected.Group("/usuarios")
	users.GET("", can(model.ModuleUsers, model.ActionView), h.listUsers)
	users.POST("", can(model.ModuleUsers, model.ActionCreate), h.createUser)
	users.GET("/:id", can(model.ModuleUsers, model.ActionView), h.getUser)
	users.PUT("/:id", can(model.ModuleUsers, model.ActionEdit), h.updateUser)
	users.GET("/:id/permissoes", can(model.ModuleUsers, model.ActionView), h.listGrants)
	users.PUT("/:id/permissoes", can(model.ModuleUsers, model.ActionEdit), h.replaceGrants)

	vehicles := protected.Group("/veiculos")
	vehicles.GET("", can(model.ModuleVehicles, model.ActionView), h.listVehicles)
	vehicles.POST("", can(model.ModuleVehicles, model.ActionCreate), h.createVehicle)
	vehicles.GET("/:id", can(model.ModuleVehicles, model.ActionView), h.getVehicle)
	vehicles.PUT("/:id", can(model.ModuleVehicles, model.ActionEdit), h.updateVehicle)
	vehicles.DELETE("/:id", can(model.ModuleVehicles, model.ActionDelete), h.deleteVehicle)

	fuelings := protected.Group("/abastecimentos")
	fuelings.GET("", can(model.ModuleFueling, model.ActionView), h.listFuelings)
	fuelings.POST("", can(model.ModuleFueling, model.ActionCreate), h.createFueling)

	maintenance := protected.Group("/manutencoes")
	maintenance.GET("", can(model.ModuleMaintenance, model.ActionView), h.listMaintenance)
	maintenance.POST("", can(model.ModuleMaintenance, model.ActionCreate), h.createMaintenance)

	protected.GET("/logs", can(model.ModuleLogs, model.ActionView), h.listLogs)
}

func (h *Handler) myPermissions(c *gin.Context) {
	sess, ok := middleware.MustSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sessão ausente"})
		return
	}
	perms, err := h.svc.Permissions.Resolve(c.Request.Context(), sess, c.Param("modulo"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, perms)
}

func (h *Handler) listLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	entries, err := h.svc.OpLog.List(c.Request.Context(), limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message, "field": validation.Field})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "e-mail ou senha inválidos"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrContractNotPersisted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func sendFile(c *gin.Context, contentType, fileName string, content []byte) {
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, contentType, content)
}

// int64Param reads a numeric path parameter. "novo" and "0" both mean an unsaved record.
func int64Param(c *gin.Context, name string) (int64, bool) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "novo" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func optionalInt64Query(c *gin.Context, name string) (*int64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	return &value, true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
		"02/01/2006",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

// parseOptionalDate maps an absent value to nil and a malformed one to a field error.
func parseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := parseDate(*raw)
	if err != nil {
		return nil, &service.ValidationError{Field: field, Message: "data inválida"}
	}
	return &parsed, nil
}
