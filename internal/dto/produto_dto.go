package dto

import "github.com/shopspring/decimal"

type CriarProdutoRequest struct {
	Nome          string          `json:"nome"           validate:"required,min=1,max=200"`
	Tipo          string          `json:"tipo"           validate:"required,min=1,max=100"`
	LojaID        string          `json:"loja_id"        validate:"required,uuid"`
	Quantidade    int             `json:"quantidade"     validate:"min=0"`
	ValorUnitario decimal.Decimal `json:"valor_unitario" validate:"min=0"`
}

type AtualizarProdutoRequest struct {
	Nome          *string          `json:"nome"           validate:"omitempty,min=1,max=200"`
	Tipo          *string          `json:"tipo"           validate:"omitempty,min=1,max=100"`
	LojaID        *string          `json:"loja_id"        validate:"omitempty,uuid"`
	Quantidade    *int             `json:"quantidade"     validate:"omitempty,min=0"`
	ValorUnitario *decimal.Decimal `json:"valor_unitario"`
}

type ProdutoResponse struct {
	ID            string          `json:"id"`
	Nome          string          `json:"nome"`
	Tipo          string          `json:"tipo"`
	LojaID        *string         `json:"loja_id"`
	LojaNome      *string         `json:"loja_nome"`
	LojaCodigo    *string         `json:"loja_codigo"`
	Quantidade    int             `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
}
