package handler

import (
	"net/http"

	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/service"

	"github.com/gin-gonic/gin"
)

type OrganizacoesHandler struct{ svc service.OrganizacaoService }

func NewOrganizacoesHandler(svc service.OrganizacaoService) *OrganizacoesHandler {
	return &OrganizacoesHandler{svc: svc}
}

// Criar godoc
// @Summary Cadastra uma organização (super_admin)
// @Tags organizacoes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.OrganizacaoRequest true "Organização"
// @Success 201 {object} dto.OrganizacaoResponse
// @Router /v1/organizacoes [post]
func (h *OrganizacoesHandler) Criar(c *gin.Context) {
	var req dto.OrganizacaoRequest
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

func (h *OrganizacoesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), ator(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrganizacoesHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.OrganizacaoRequest
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

// Excluir godoc
// @Summary Exclui uma organização sem lojas ou usuários vinculados
// @Tags organizacoes
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/organizacoes/{id} [delete]
func (h *OrganizacoesHandler) Excluir(c *gin.Context) {
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
