package handler

import (
	"net/http"

	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/service"

	"github.com/gin-gonic/gin"
)

type OcorrenciasHandler struct{ svc service.OcorrenciaService }

func NewOcorrenciasHandler(svc service.OcorrenciaService) *OcorrenciasHandler {
	return &OcorrenciasHandler{svc: svc}
}

// Criar godoc
// @Summary Relata um problema no fechamento
// @Tags ocorrencias
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CriarOcorrenciaRequest true "Ocorrência"
// @Success 201 {object} dto.OcorrenciaResponse
// @Router /v1/ocorrencias [post]
func (h *OcorrenciasHandler) Criar(c *gin.Context) {
	var req dto.CriarOcorrenciaRequest
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

func (h *OcorrenciasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), ator(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar godoc
// @Summary Edita ou resolve uma ocorrência
// @Tags ocorrencias
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param body body dto.AtualizarOcorrenciaRequest true "Campos"
// @Success 200 {object} dto.OcorrenciaResponse
// @Router /v1/ocorrencias/{id} [patch]
func (h *OcorrenciasHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AtualizarOcorrenciaRequest
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

func (h *OcorrenciasHandler) Excluir(c *gin.Context) {
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
