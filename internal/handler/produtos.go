package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/apierror"
	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/planilha"
	"github.com/Yodaime/cash-flow-keeper/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProdutosHandler struct{ svc service.ProdutoService }

func NewProdutosHandler(svc service.ProdutoService) *ProdutosHandler {
	return &ProdutosHandler{svc: svc}
}

// Criar godoc
// @Summary Cadastra um produto no estoque de uma loja
// @Tags produtos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CriarProdutoRequest true "Produto"
// @Success 201 {object} dto.ProdutoResponse
// @Router /v1/produtos [post]
func (h *ProdutosHandler) Criar(c *gin.Context) {
	var req dto.CriarProdutoRequest
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
// @Summary Lista produtos com o valor total em estoque
// @Tags produtos
// @Security BearerAuth
// @Produce json
// @Param loja_id query string false "Loja"
// @Success 200 {array} dto.ProdutoResponse
// @Router /v1/produtos [get]
func (h *ProdutosHandler) Listar(c *gin.Context) {
	lojaID, ok := queryLoja(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), ator(c), lojaID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AtualizarProdutoRequest
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

func (h *ProdutosHandler) Excluir(c *gin.Context) {
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
// @Summary Importa estoque de um CSV
// @Description A coluna de loja aceita o código ou o nome da loja.
// @Tags produtos
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param arquivo formData file true "Planilha CSV"
// @Success 200 {object} dto.ImportacaoResponse
// @Router /v1/produtos/importar [post]
func (h *ProdutosHandler) Importar(c *gin.Context) {
	arquivo, formato, ok := lerUpload(c)
	if !ok {
		return
	}
	if formato != service.FormatoCSV {
		c.JSON(http.StatusBadRequest, apierror.New("Estoque só pode ser importado em CSV"))
		return
	}
	resp, err := h.svc.Importar(c.Request.Context(), ator(c), bytes.NewReader(arquivo))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar godoc
// @Summary Exporta o estoque em CSV
// @Tags produtos
// @Security BearerAuth
// @Produce text/csv
// @Param loja_id query string false "Loja"
// @Success 200 {file} file
// @Router /v1/produtos/exportar [get]
func (h *ProdutosHandler) Exportar(c *gin.Context) {
	lojaID, ok := queryLoja(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.Exportar(c.Request.Context(), ator(c), lojaID, &buf); err != nil {
		responderErro(c, err)
		return
	}
	nome := fmt.Sprintf("estoque_%s.csv", time.Now().Format("2006-01-02"))
	enviarArquivo(c, nome, service.FormatoCSV, buf.Bytes())
}

func (h *ProdutosHandler) Modelo(c *gin.Context) {
	var buf bytes.Buffer
	if err := planilha.ModeloProdutos(&buf); err != nil {
		responderErro(c, err)
		return
	}
	enviarArquivo(c, "modelo_estoque.csv", service.FormatoCSV, buf.Bytes())
}

func queryLoja(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("loja_id")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("loja_id inválido"))
		return nil, false
	}
	return &id, true
}
