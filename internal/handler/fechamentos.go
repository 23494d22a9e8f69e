package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/apierror"
	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/planilha"
	"github.com/Yodaime/cash-flow-keeper/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	mimeCSV  = "text/csv; charset=utf-8"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// maxUpload caps import files; a year of closings for dozens of stores is
	// far below this.
	maxUpload = 10 << 20
)

type FechamentosHandler struct{ svc service.FechamentoService }

func NewFechamentosHandler(svc service.FechamentoService) *FechamentosHandler {
	return &FechamentosHandler{svc: svc}
}

// Criar godoc
// @Summary Registra o fechamento de caixa de uma loja
// @Description A diferença e o status são calculados pelo servidor.
// @Tags fechamentos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CriarFechamentoRequest true "Fechamento"
// @Success 201 {object} dto.FechamentoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/fechamentos [post]
func (h *FechamentosHandler) Criar(c *gin.Context) {
	var req dto.CriarFechamentoRequest
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
// @Summary Lista fechamentos, mais recentes primeiro
// @Tags fechamentos
// @Security BearerAuth
// @Produce json
// @Param loja_id query string false "Loja"
// @Param data_inicio query string false "Data inicial (DD/MM/YYYY ou YYYY-MM-DD)"
// @Param data_fim query string false "Data final"
// @Param status query string false "ok, atencao, pendente ou aprovado"
// @Success 200 {array} dto.FechamentoResponse
// @Router /v1/fechamentos [get]
func (h *FechamentosHandler) Listar(c *gin.Context) {
	filtro, ok := bindFiltro(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), ator(c), filtro)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumo godoc
// @Summary Totais, sobras, faltas e taxa de precisão dos fechamentos filtrados
// @Tags fechamentos
// @Security BearerAuth
// @Produce json
// @Param loja_id query string false "Loja"
// @Param data_inicio query string false "Data inicial"
// @Param data_fim query string false "Data final"
// @Param status query string false "ok, atencao, pendente ou aprovado"
// @Success 200 {object} conciliacao.Resumo
// @Router /v1/fechamentos/resumo [get]
func (h *FechamentosHandler) Resumo(c *gin.Context) {
	filtro, ok := bindFiltro(c)
	if !ok {
		return
	}
	resp, err := h.svc.Resumo(c.Request.Context(), ator(c), filtro)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Evolucao godoc
// @Summary Esperado, contado e diferença somados por dia
// @Tags fechamentos
// @Security BearerAuth
// @Produce json
// @Param loja_id query string false "Loja"
// @Param data_inicio query string false "Data inicial"
// @Param data_fim query string false "Data final"
// @Param status query string false "ok, atencao, pendente ou aprovado"
// @Success 200 {array} conciliacao.PontoDiario
// @Router /v1/fechamentos/evolucao [get]
func (h *FechamentosHandler) Evolucao(c *gin.Context) {
	filtro, ok := bindFiltro(c)
	if !ok {
		return
	}
	resp, err := h.svc.Evolucao(c.Request.Context(), ator(c), filtro)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obter godoc
// @Summary Busca um fechamento
// @Tags fechamentos
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} dto.FechamentoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/fechamentos/{id} [get]
func (h *FechamentosHandler) Obter(c *gin.Context) {
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

// Atualizar godoc
// @Summary Edita um fechamento não aprovado
// @Tags fechamentos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param body body dto.AtualizarFechamentoRequest true "Campos"
// @Success 200 {object} dto.FechamentoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/fechamentos/{id} [put]
func (h *FechamentosHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AtualizarFechamentoRequest
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

// Aprovar godoc
// @Summary Aprova um fechamento
// @Description Aprovar de novo um fechamento aprovado não altera os dados de validação.
// @Tags fechamentos
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} dto.FechamentoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/fechamentos/{id}/aprovar [post]
func (h *FechamentosHandler) Aprovar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Aprovar(c.Request.Context(), ator(c), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Excluir godoc
// @Summary Exclui um fechamento
// @Tags fechamentos
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 204
// @Router /v1/fechamentos/{id} [delete]
func (h *FechamentosHandler) Excluir(c *gin.Context) {
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

// Importar godoc
// @Summary Importa fechamentos de uma planilha CSV ou XLSX
// @Description Linhas inválidas são relatadas em "erros" sem abortar as demais.
// @Tags fechamentos
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param arquivo formData file true "Planilha (.csv ou .xlsx)"
// @Success 200 {object} dto.ImportacaoResponse
// @Router /v1/fechamentos/importar [post]
func (h *FechamentosHandler) Importar(c *gin.Context) {
	arquivo, formato, ok := lerUpload(c)
	if !ok {
		return
	}
	resp, err := h.svc.Importar(c.Request.Context(), ator(c), bytes.NewReader(arquivo), formato)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar godoc
// @Summary Exporta os fechamentos filtrados
// @Tags fechamentos
// @Security BearerAuth
// @Produce text/csv
// @Param formato query string false "csv (padrão) ou xlsx"
// @Param loja_id query string false "Loja"
// @Param data_inicio query string false "Data inicial"
// @Param data_fim query string false "Data final"
// @Param status query string false "ok, atencao, pendente ou aprovado"
// @Success 200 {file} file
// @Router /v1/fechamentos/exportar [get]
func (h *FechamentosHandler) Exportar(c *gin.Context) {
	filtro, ok := bindFiltro(c)
	if !ok {
		return
	}
	formato := strings.ToLower(c.DefaultQuery("formato", service.FormatoCSV))
	if formato != service.FormatoCSV && formato != service.FormatoXLSX {
		c.JSON(http.StatusBadRequest, apierror.New("formato deve ser csv ou xlsx"))
		return
	}

	// Buffer first so a failure can still become a JSON error.
	var buf bytes.Buffer
	if err := h.svc.Exportar(c.Request.Context(), ator(c), filtro, formato, &buf); err != nil {
		responderErro(c, err)
		return
	}
	nome := fmt.Sprintf("fechamentos_%s.%s", time.Now().Format("2006-01-02"), formato)
	enviarArquivo(c, nome, formato, buf.Bytes())
}

// Modelo godoc
// @Summary Baixa o modelo CSV de importação
// @Tags fechamentos
// @Security BearerAuth
// @Produce text/csv
// @Success 200 {file} file
// @Router /v1/fechamentos/modelo [get]
func (h *FechamentosHandler) Modelo(c *gin.Context) {
	var buf bytes.Buffer
	if err := planilha.ModeloFechamentos(&buf); err != nil {
		responderErro(c, err)
		return
	}
	enviarArquivo(c, "modelo_fechamentos.csv", service.FormatoCSV, buf.Bytes())
}

func bindFiltro(c *gin.Context) (dto.FiltroFechamentos, bool) {
	var filtro dto.FiltroFechamentos
	if err := c.ShouldBindQuery(&filtro); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return filtro, false
	}
	return filtro, validar(c, &filtro)
}

// lerUpload reads the "arquivo" multipart field and picks the format from the
// file extension.
func lerUpload(c *gin.Context) ([]byte, string, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpload)
	fh, err := c.FormFile("arquivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Envie a planilha no campo \"arquivo\""))
		return nil, "", false
	}

	formato := service.FormatoCSV
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".xlsx":
		formato = service.FormatoXLSX
	case ".csv", ".txt", "":
	default:
		c.JSON(http.StatusBadRequest, apierror.New("Formato de arquivo não suportado, use .csv ou .xlsx"))
		return nil, "", false
	}

	f, err := fh.Open()
	if err != nil {
		responderErro(c, err)
		return nil, "", false
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		responderErro(c, err)
		return nil, "", false
	}
	return buf.Bytes(), formato, true
}

func enviarArquivo(c *gin.Context, nome, formato string, data []byte) {
	mime := mimeCSV
	if formato == service.FormatoXLSX {
		mime = mimeXLSX
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nome))
	c.Data(http.StatusOK, mime, data)
}
