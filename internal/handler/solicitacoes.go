package handler

import (
	"net/http"

	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/service"

	"github.com/gin-gonic/gin"
)

type SolicitacoesHandler struct{ svc service.SolicitacaoService }

func NewSolicitacoesHandler(svc service.SolicitacaoService) *SolicitacoesHandler {
	return &SolicitacoesHandler{svc: svc}
}

// Criar godoc
// @Summary Solicita uma conta de acesso (público)
// @Tags solicitacoes
// @Accept json
// @Produce json
// @Param body body dto.CriarSolicitacaoRequest true "Solicitação"
// @Success 201 {object} dto.SolicitacaoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/solicitacoes [post]
func (h *SolicitacoesHandler) Criar(c *gin.Context) {
	var req dto.CriarSolicitacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista solicitações de conta
// @Tags solicitacoes
// @Security BearerAuth
// @Produce json
// @Param status query string false "pending, approved ou rejected"
// @Success 200 {array} dto.SolicitacaoResponse
// @Router /v1/solicitacoes [get]
func (h *SolicitacoesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), ator(c), c.Query("status"))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pendentes godoc
// @Summary Conta solicitações pendentes
// @Tags solicitacoes
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ContagemResponse
// @Router /v1/solicitacoes/pendentes [get]
func (h *SolicitacoesHandler) Pendentes(c *gin.Context) {
	n, err := h.svc.ContarPendentes(c.Request.Context(), ator(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ContagemResponse{Total: n})
}

// Revisar godoc
// @Summary Aprova ou rejeita uma solicitação
// @Tags solicitacoes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param body body dto.RevisarSolicitacaoRequest true "Decisão"
// @Success 200 {object} dto.SolicitacaoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/solicitacoes/{id} [patch]
func (h *SolicitacoesHandler) Revisar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.RevisarSolicitacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Revisar(c.Request.Context(), ator(c), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SolicitacoesHandler) Excluir(c *gin.Context) {
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
