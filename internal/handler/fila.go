package handler

import (
	"net/http"
	"strconv"

	"github.com/Yodaime/cash-flow-keeper/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// FilaHandler exposes the e-mail dead letter queue to super_admins.
type FilaHandler struct{ rdb *redis.Client }

func NewFilaHandler(rdb *redis.Client) *FilaHandler { return &FilaHandler{rdb: rdb} }

// Falhas godoc
// @Summary Lista e-mails que esgotaram as tentativas (super_admin)
// @Tags fila
// @Security BearerAuth
// @Produce json
// @Param limite query int false "Máximo de entradas (padrão 50)"
// @Success 200 {array} worker.FalhaJob
// @Router /v1/fila/falhas [get]
func (h *FilaHandler) Falhas(c *gin.Context) {
	limite, _ := strconv.ParseInt(c.Query("limite"), 10, 64)
	falhas, err := worker.ListarDLQ(c.Request.Context(), h.rdb, worker.QueueEmail, limite)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, falhas)
}

// Reenviar godoc
// @Summary Devolve os e-mails da fila de falhas para a fila de envio (super_admin)
// @Tags fila
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]int
// @Router /v1/fila/falhas/reenviar [post]
func (h *FilaHandler) Reenviar(c *gin.Context) {
	n, err := worker.ReenfileirarDLQ(c.Request.Context(), h.rdb, worker.QueueEmail)
	if err != nil {
		responderErro(c, err)
		return
	}
	log.Info().Int("reenfileirados", n).Str("por", ator(c).Email).Msg("dlq de e-mail reenfileirada")
	c.JSON(http.StatusOK, gin.H{"reenfileirados": n})
}
