package handler

import (
	"net/http"

	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/service"

	"github.com/gin-gonic/gin"
)

type LojasHandler struct{ svc service.LojaService }

func NewLojasHandler(svc service.LojaService) *LojasHandler { return &LojasHandler{svc: svc} }

// Criar godoc
// @Summary Cadastra uma loja
// @Tags lojas
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.LojaRequest true "Loja"
// @Success 201 {object} dto.LojaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/lojas [post]
func (h *LojasHandler) Criar(c *gin.Context) {
	var req dto.LojaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), ator(c), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista as lojas da organização
// @Tags lojas
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.LojaResponse
// @Router /v1/lojas [get]
func (h *LojasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), ator(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LojasHandler) Obter(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obter(c.Request.Context(), ator(c), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LojasHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.LojaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), ator(c), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LojasHandler) Excluir(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), ator(c), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
