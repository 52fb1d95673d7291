package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/service"
)

type vehicleRequest struct {
	Placa                 string  `json:"placa"`
	Modelo                string  `json:"modelo"`
	Marca                 string  `json:"marca"`
	Ano                   int     `json:"ano"`
	Renavam               *string `json:"renavam"`
	ProprietarioNome      string  `json:"proprietario_nome"`
	ProprietarioDocumento string  `json:"proprietario_documento"`
	Status                string  `json:"status"`
}

type fuelingRequest struct {
	VeiculoID  int64           `json:"veiculo_id"`
	Data       string          `json:"data"`
	Litros     decimal.Decimal `json:"litros"`
	ValorTotal decimal.Decimal `json:"valor_total"`
	Km         int64           `json:"km"`
	Posto      string          `json:"posto"`
}

type maintenanceRequest struct {
	VeiculoID int64           `json:"veiculo_id"`
	Data      string          `json:"data"`
	Tipo      string          `json:"tipo"`
	Descricao string          `json:"descricao"`
	Valor     decimal.Decimal `json:"valor"`
	Km        int64           `json:"km"`
}

func (r vehicleRequest) input(id int64) service.VehicleInput {
	return service.VehicleInput{
		ID:               id,
		Placa:            r.Placa,
		Modelo:           r.Modelo,
		Marca:            r.Marca,
		Ano:              r.Ano,
		Renavam:          r.Renavam,
		ProprietarioNome: r.ProprietarioNome,
		ProprietarioDoc:  r.ProprietarioDocumento,
		Status:           r.Status,
	}
}

func (h *Handler) listVehicles(c *gin.Context) {
	vehicles, err := h.svc.Fleet.ListVehicles(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vehicles})
}

func (h *Handler) getVehicle(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	vehicle, err := h.svc.Fleet.GetVehicle(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vehicle})
}

func (h *Handler) createVehicle(c *gin.Context) {
	var req vehicleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	vehicle, err := h.svc.Fleet.SaveVehicle(c.Request.Context(), req.input(0))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": vehicle})
}

func (h *Handler) updateVehicle(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req vehicleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	vehicle, err := h.svc.Fleet.SaveVehicle(c.Request.Context(), req.input(id))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vehicle})
}

func (h *Handler) deleteVehicle(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Fleet.DeleteVehicle(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listFuelings(c *gin.Context) {
	vehicleID, ok := optionalInt64Query(c, "veiculo_id")
	if !ok {
		return
	}
	fuelings, err := h.svc.Fleet.ListFuelings(c.Request.Context(), vehicleID, c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": fuelings})
}

func (h *Handler) createFueling(c *gin.Context) {
	var req fuelingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	date, err := parseDate(req.Data)
	if err != nil {
		h.handleError(c, &service.ValidationError{Field: "data", Message: "data inválida"})
		return
	}

	fueling, err := h.svc.Fleet.RegisterFueling(c.Request.Context(), service.FuelingInput{
		VeiculoID:  req.VeiculoID,
		Data:       date,
		Litros:     req.Litros,
		ValorTotal: req.ValorTotal,
		Km:         req.Km,
		Posto:      req.Posto,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": fueling, "preco_litro": fueling.PricePerLiter()})
}

func (h *Handler) listMaintenance(c *gin.Context) {
	vehicleID, ok := optionalInt64Query(c, "veiculo_id")
	if !ok {
		return
	}
	items, err := h.svc.Fleet.ListMaintenance(c.Request.Context(), vehicleID, c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *Handler) createMaintenance(c *gin.Context) {
	var req maintenanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	date, err := parseDate(req.Data)
	if err != nil {
		h.handleError(c, &service.ValidationError{Field: "data", Message: "data inválida"})
		return
	}

	maintenance, err := h.svc.Fleet.RegisterMaintenance(c.Request.Context(), service.MaintenanceInput{
		VeiculoID: req.VeiculoID,
		Data:      date,
		Tipo:      model.MaintenanceKind(req.Tipo),
		Descricao: req.Descricao,
		Valor:     req.Valor,
		Km:        req.Km,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": maintenance})
}
