package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/transvia/fleet-office/internal/http/middleware"
	"github.com/transvia/fleet-office/internal/service"
)

type cancelDocumentRequest struct {
	TipoDocumento string  `json:"tipo_documento" binding:"required"`
	DocumentoID   int64   `json:"documento_id" binding:"required"`
	Motivo        string  `json:"motivo"`
	Observacoes   *string `json:"observacoes"`
}

func cancellationFilter(c *gin.Context) service.ListCancellationsInput {
	return service.ListCancellationsInput{Search: c.Query("q"), DocumentType: c.Query("tipo")}
}

func (h *Handler) listCancellations(c *gin.Context) {
	records, err := h.svc.Cancellations.List(c.Request.Context(), cancellationFilter(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

func (h *Handler) exportCancellationsCSV(c *gin.Context) {
	content, err := h.svc.Exports.CancellationsCSV(c.Request.Context(), cancellationFilter(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, "text/csv; charset=utf-8", fmt.Sprintf("cancelamentos_%s.csv", time.Now().Format("20060102")), content)
}

func (h *Handler) exportCancellationsPDF(c *gin.Context) {
	content, err := h.svc.Exports.CancellationsPDF(c.Request.Context(), cancellationFilter(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, "application/pdf", fmt.Sprintf("cancelamentos_%s.pdf", time.Now().Format("20060102")), content)
}

// cancelDocument cancels any supported document once. A repeated request for the same document gets 409.
func (h *Handler) cancelDocument(c *gin.Context) {
	sess, ok := middleware.MustSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sessão ausente"})
		return
	}
	var req cancelDocumentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Cancellations.CancelOnce(c.Request.Context(), service.CancelInput{
		DocumentType: req.TipoDocumento,
		DocumentID:   req.DocumentoID,
		Reason:       req.Motivo,
		Note:         req.Observacoes,
		Session:      sess,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
