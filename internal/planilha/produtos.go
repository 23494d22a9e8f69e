package planilha

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Yodaime/cash-flow-keeper/internal/conciliacao"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LinhaProduto is one validated stock import row.
type LinhaProduto struct {
	Linha         int
	Nome          string
	Tipo          string
	Loja          string
	LojaID        uuid.UUID
	Quantidade    int
	ValorUnitario decimal.Decimal
}

// LinhaEstoque is one product as written to the stock export.
type LinhaEstoque struct {
	Nome          string
	Tipo          string
	Loja          string
	Quantidade    int
	ValorUnitario decimal.Decimal
}

var cabecalhoEstoque = []string{"Nome", "Tipo", "Loja", "Quantidade", "Valor Unitário", "Valor Total"}

var cabecalhoModeloEstoque = []string{"Nome", "Tipo", "Código Loja", "Quantidade", "Valor Unitário"}

// LerProdutos parses a stock CSV separated by ';' or ','. The store column may
// hold either the store code or its name; resolving it is up to the caller.
func LerProdutos(r io.Reader, resolver ResolverLoja) ([]LinhaProduto, []string, error) {
	_, regs, erros, err := lerCSV(r, 0)
	if err != nil {
		return nil, nil, err
	}

	var linhas []LinhaProduto
	for _, reg := range regs {
		c := reg.campos
		if len(c) < 5 {
			erros = append(erros, fmt.Sprintf("Linha %d: Número insuficiente de colunas", reg.linha))
			continue
		}
		nome, tipo, loja := c[0], c[1], c[2]
		if nome == "" || tipo == "" || loja == "" {
			if nome == "" {
				nome = "sem nome"
			}
			erros = append(erros, fmt.Sprintf("Linha %d: Dados obrigatórios vazios (%s)", reg.linha, nome))
			continue
		}

		var lojaID uuid.UUID
		if resolver != nil {
			id, err := resolver(loja)
			if errors.Is(err, ErrLojaAmbigua) {
				erros = append(erros, fmt.Sprintf("Linha %d: Loja %q ambígua", reg.linha, loja))
				continue
			}
			if err != nil {
				erros = append(erros, fmt.Sprintf("Linha %d: Loja %q não encontrada", reg.linha, loja))
				continue
			}
			lojaID = id
		}

		linhas = append(linhas, LinhaProduto{
			Linha:         reg.linha,
			Nome:          nome,
			Tipo:          tipo,
			Loja:          loja,
			LojaID:        lojaID,
			Quantidade:    quantidade(c[3]),
			ValorUnitario: conciliacao.ParseMoeda(c[4]),
		})
	}
	return linhas, erros, nil
}

// quantidade keeps only the digits of s; anything unparseable is zero.
func quantidade(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

// EscreverProdutos writes the stock export with the computed total per line.
func EscreverProdutos(w io.Writer, linhas []LinhaEstoque) error {
	rows := make([][]string, len(linhas))
	for i, l := range linhas {
		total := l.ValorUnitario.Mul(decimal.NewFromInt(int64(l.Quantidade)))
		rows[i] = []string{
			l.Nome,
			l.Tipo,
			l.Loja,
			strconv.Itoa(l.Quantidade),
			FormatarValorBR(l.ValorUnitario),
			FormatarValorBR(total),
		}
	}
	return escreverCSV(w, cabecalhoEstoque, rows)
}

// ModeloProdutos writes the stock import template.
func ModeloProdutos(w io.Writer) error {
	return escreverCSV(w, cabecalhoModeloEstoque, [][]string{
		{"Perfume Floral", "Perfume", "JC001", "10", "89,90"},
	})
}
