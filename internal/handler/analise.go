package handler

import (
	"net/http"

	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/service"

	"github.com/gin-gonic/gin"
)

type AnaliseHandler struct{ svc service.AnaliseService }

func NewAnaliseHandler(svc service.AnaliseService) *AnaliseHandler {
	return &AnaliseHandler{svc: svc}
}

// Analisar godoc
// @Summary Pergunta ao assistente de análise sobre os fechamentos do mês
// @Tags analise
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.AnaliseRequest true "Pergunta"
// @Success 200 {object} dto.AnaliseResponse
// @Failure 502 {object} apierror.APIError
// @Failure 503 {object} apierror.APIError
// @Router /v1/analise [post]
func (h *AnaliseHandler) Analisar(c *gin.Context) {
	var req dto.AnaliseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Analisar(c.Request.Context(), ator(c), req.Pergunta)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
