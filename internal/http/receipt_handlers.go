package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/transvia/fleet-office/internal/http/middleware"
	"github.com/transvia/fleet-office/internal/service"
)

type createReceiptRequest struct {
	ContratoID            int64           `json:"contrato_id"`
	DataEntregaMercadoria *string         `json:"data_entrega_mercadoria"`
	Saldo                 decimal.Decimal `json:"saldo"`
	Observacoes           *string         `json:"observacoes"`
}

type submitReceiptRequest struct {
	Responsavel                  string  `json:"responsavel"`
	DataRecebimento              *string `json:"data_recebimento"`
	DataEntregaMercadoria        *string `json:"data_entrega_mercadoria"`
	DataRecebimentoControladoria *string `json:"data_recebimento_controladoria"`
	Observacoes                  *string `json:"observacoes"`
}

func (h *Handler) listReceipts(c *gin.Context) {
	receipts, err := h.svc.Receipts.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": receipts})
}

func (h *Handler) getReceipt(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	receipt, err := h.svc.Receipts.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": receipt})
}

func (h *Handler) createReceipt(c *gin.Context) {
	var req createReceiptRequest
	if !h.bindJSON(c, &req) {
		return
	}
	delivered, err := parseOptionalDate("data_entrega_mercadoria", req.DataEntregaMercadoria)
	if err != nil {
		h.handleError(c, err)
		return
	}

	receipt, err := h.svc.Receipts.Create(c.Request.Context(), service.CreateReceiptInput{
		ContratoID:            req.ContratoID,
		DataEntregaMercadoria: delivered,
		Saldo:                 req.Saldo,
		Observacoes:           req.Observacoes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": receipt})
}

func (h *Handler) submitReceipt(c *gin.Context) {
	sess, ok := middleware.MustSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sessão ausente"})
		return
	}
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req submitReceiptRequest
	if !h.bindJSON(c, &req) {
		return
	}

	received, err := parseOptionalDate("data_recebimento", req.DataRecebimento)
	if err != nil {
		h.handleError(c, err)
		return
	}
	delivered, err := parseOptionalDate("data_entrega_mercadoria", req.DataEntregaMercadoria)
	if err != nil {
		h.handleError(c, err)
		return
	}
	controlled, err := parseOptionalDate("data_recebimento_controladoria", req.DataRecebimentoControladoria)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.svc.Receipts.Submit(c.Request.Context(), service.SubmitReceiptInput{
		ReceiptID:                    id,
		Responsavel:                  req.Responsavel,
		DataRecebimento:              received,
		DataEntregaMercadoria:        delivered,
		DataRecebimentoControladoria: controlled,
		Observacoes:                  req.Observacoes,
		Session:                      sess,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
