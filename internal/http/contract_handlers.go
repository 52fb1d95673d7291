package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/transvia/fleet-office/internal/http/middleware"
	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type saveDadosRequest struct {
	Origem         string  `json:"origem"`
	Destino        string  `json:"destino"`
	Cliente        string  `json:"cliente"`
	VeiculoID      *int64  `json:"veiculo_id"`
	MotoristaID    *int64  `json:"motorista_id"`
	ProprietarioID *int64  `json:"proprietario_id"`
	Status         *string `json:"status"`
}

type documentNumber struct {
	Numero string `json:"numero"`
}

type invoiceRequest struct {
	Numero string          `json:"numero"`
	Valor  decimal.Decimal `json:"valor"`
}

type saveDocumentosRequest struct {
	Manifestos   []documentNumber `json:"manifestos"`
	CTes         []documentNumber `json:"ctes"`
	NotasFiscais []invoiceRequest `json:"notas_fiscais"`
}

type saveFreteRequest struct {
	ValorFrete decimal.Decimal `json:"valor_frete"`
}

type saveObservacoesRequest struct {
	Observacoes *string `json:"observacoes"`
}

type reasonRequest struct {
	Motivo      string  `json:"motivo"`
	Observacoes *string `json:"observacoes"`
}

func (h *Handler) listContracts(c *gin.Context) {
	contracts, err := h.svc.Contracts.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": contracts})
}

func (h *Handler) exportContractsXLSX(c *gin.Context) {
	content, err := h.svc.Exports.ContractsXLSX(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, xlsxContentType, fmt.Sprintf("contratos_%s.xlsx", time.Now().Format("20060102")), content)
}

func (h *Handler) getContract(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	details, err := h.svc.Contracts.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) resolveTab(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	tab, err := service.ParseTab(c.Param("aba"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ResolveTab(tab, id))
}

func (h *Handler) createContract(c *gin.Context) {
	h.writeDados(c, 0)
}

// saveDados creates the contract when the path id is 0 or "novo".
func (h *Handler) saveDados(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	h.writeDados(c, id)
}

func (h *Handler) writeDados(c *gin.Context, id int64) {
	var req saveDadosRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input := service.SaveDadosInput{
		ID:             id,
		Origem:         req.Origem,
		Destino:        req.Destino,
		Cliente:        req.Cliente,
		VeiculoID:      req.VeiculoID,
		MotoristaID:    req.MotoristaID,
		ProprietarioID: req.ProprietarioID,
	}
	if req.Status != nil {
		input.Status = model.ContractStatus(*req.Status)
	}

	contract, err := h.svc.Contracts.SaveDados(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"data": contract, "abas": service.ResolveTabs(contract.ID)})
}

func (h *Handler) saveDocumentos(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req saveDocumentosRequest
	if !h.bindJSON(c, &req) {
		return
	}

	docs := model.ContractDocuments{}
	for _, m := range req.Manifestos {
		docs.Manifests = append(docs.Manifests, model.Manifest{Numero: m.Numero})
	}
	for _, ct := range req.CTes {
		docs.CTes = append(docs.CTes, model.CTe{Numero: ct.Numero})
	}
	for _, inv := range req.NotasFiscais {
		docs.Invoices = append(docs.Invoices, model.Invoice{Numero: inv.Numero, Valor: inv.Valor})
	}

	saved, err := h.svc.Contracts.SaveDocumentos(c.Request.Context(), id, docs)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": saved, "total_notas_fiscais": saved.InvoiceTotal()})
}

func (h *Handler) saveFrete(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req saveFreteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	contract, err := h.svc.Contracts.SaveFrete(c.Request.Context(), id, req.ValorFrete)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": contract})
}

func (h *Handler) saveObservacoes(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req saveObservacoesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	contract, err := h.svc.Contracts.SaveObservacoes(c.Request.Context(), id, req.Observacoes)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": contract})
}

func (h *Handler) saveCancelamento(c *gin.Context) {
	sess, ok := middleware.MustSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sessão ausente"})
		return
	}
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req reasonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Contracts.SaveCancelamento(c.Request.Context(), service.CancelContractInput{
		ID:      id,
		Reason:  req.Motivo,
		Note:    req.Observacoes,
		Session: sess,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) saveRejeicao(c *gin.Context) {
	sess, ok := middleware.MustSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sessão ausente"})
		return
	}
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req reasonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Contracts.SaveRejeicao(c.Request.Context(), service.RejectContractInput{
		ID:      id,
		Reason:  req.Motivo,
		Session: sess,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
