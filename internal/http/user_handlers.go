package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/service"
)

type loginRequest struct {
	Email string `json:"email" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

type createUserRequest struct {
	Nome       string `json:"nome"`
	Email      string `json:"email"`
	Senha      string `json:"senha"`
	Status     string `json:"status"`
	AdminGeral bool   `json:"admin_geral"`
}

type updateUserRequest struct {
	Nome       *string `json:"nome"`
	Senha      *string `json:"senha"`
	Status     *string `json:"status"`
	AdminGeral *bool   `json:"admin_geral"`
}

type grantRequest struct {
	Modulo string `json:"modulo"`
	Acao   string `json:"acao"`
}

type replaceGrantsRequest struct {
	Permissoes []grantRequest `json:"permissoes"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.Users.Login(c.Request.Context(), req.Email, req.Senha)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.svc.Users.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	user, err := h.svc.Users.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.svc.Users.Create(c.Request.Context(), service.CreateUserInput{
		Nome:       req.Nome,
		Email:      req.Email,
		Senha:      req.Senha,
		Status:     model.UserStatus(strings.ToLower(strings.TrimSpace(req.Status))),
		AdminGeral: req.AdminGeral,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": user})
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input := service.UpdateUserInput{ID: id, Nome: req.Nome, Senha: req.Senha, AdminGeral: req.AdminGeral}
	if req.Status != nil {
		status := model.UserStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		input.Status = &status
	}

	user, err := h.svc.Users.Update(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (h *Handler) listGrants(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	grants, err := h.svc.Users.Grants(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": grants})
}

func (h *Handler) replaceGrants(c *gin.Context) {
	id, ok := uuidParam(c)
	if !ok {
		return
	}
	var req replaceGrantsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input := make([]service.GrantInput, 0, len(req.Permissoes))
	for _, g := range req.Permissoes {
		input = append(input, service.GrantInput{
			Module: g.Modulo,
			Action: model.Action(strings.ToLower(strings.TrimSpace(g.Acao))),
		})
	}

	grants, err := h.svc.Users.SetGrants(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": grants})
}

func uuidParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
