package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CriarFechamentoRequest carries no difference or status: both are derived.
type CriarFechamentoRequest struct {
	LojaID        string          `json:"loja_id"        validate:"required,uuid"`
	Data          string          `json:"data"           validate:"required"` // DD/MM/YYYY or YYYY-MM-DD
	ValorInicial  decimal.Decimal `json:"valor_inicial"`
	ValorEsperado decimal.Decimal `json:"valor_esperado"`
	ValorContado  decimal.Decimal `json:"valor_contado"`
	Observacoes   *string         `json:"observacoes"    validate:"omitempty,max=1000"`
}

// AtualizarFechamentoRequest is a partial update; nil fields keep their value.
type AtualizarFechamentoRequest struct {
	LojaID        *string          `json:"loja_id"        validate:"omitempty,uuid"`
	Data          *string          `json:"data"`
	ValorInicial  *decimal.Decimal `json:"valor_inicial"`
	ValorEsperado *decimal.Decimal `json:"valor_esperado"`
	ValorContado  *decimal.Decimal `json:"valor_contado"`
	Observacoes   *string          `json:"observacoes"    validate:"omitempty,max=1000"`
}

// FiltroFechamentos maps the list query string.
type FiltroFechamentos struct {
	LojaID     string `form:"loja_id"     validate:"omitempty,uuid"`
	DataInicio string `form:"data_inicio"`
	DataFim    string `form:"data_fim"`
	Status     string `form:"status"      validate:"omitempty,oneof=ok atencao pendente aprovado"`
}

type AnaliseRequest struct {
	Pergunta string `json:"pergunta" validate:"required,min=3,max=2000"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type FechamentoResponse struct {
	ID              string          `json:"id"`
	Data            string          `json:"data"` // YYYY-MM-DD
	LojaID          string          `json:"loja_id"`
	LojaNome        string          `json:"loja_nome"`
	LojaCodigo      string          `json:"loja_codigo"`
	OrganizacaoID   *string         `json:"organizacao_id"`
	ValorInicial    decimal.Decimal `json:"valor_inicial"`
	ValorEsperado   decimal.Decimal `json:"valor_esperado"`
	ValorContado    decimal.Decimal `json:"valor_contado"`
	Diferenca       decimal.Decimal `json:"diferenca"`
	Status          string          `json:"status"`
	Observacoes     *string         `json:"observacoes"`
	CriadoPor       string          `json:"criado_por"`
	CriadoPorNome   string          `json:"criado_por_nome"`
	ValidadoPor     *string         `json:"validado_por"`
	ValidadoPorNome *string         `json:"validado_por_nome"`
	ValidadoEm      *string         `json:"validado_em"`
	CreatedAt       string          `json:"created_at"`
}

type ImportacaoResponse struct {
	Total      int      `json:"total"`
	Importados int      `json:"importados"`
	Erros      []string `json:"erros"`
}

type AnaliseResponse struct {
	Resposta string `json:"resposta"`
}
