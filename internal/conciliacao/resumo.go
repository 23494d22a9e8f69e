package conciliacao

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Leitura is the minimum a closing must expose to be summarized.
type Leitura struct {
	Data      time.Time
	Esperado  decimal.Decimal
	Contado   decimal.Decimal
	Diferenca decimal.Decimal
	Status    Status
}

// Resumo aggregates a set of closings. It is also the payload handed to the
// analysis endpoint, hence the JSON names.
type Resumo struct {
	TotalEsperado  decimal.Decimal `json:"totalExpected"`
	TotalContado   decimal.Decimal `json:"totalCounted"`
	TotalDiferenca decimal.Decimal `json:"totalDifference"`
	Sobras         decimal.Decimal `json:"surplus"`
	Faltas         decimal.Decimal `json:"deficit"`
	QtdSobras      int             `json:"surplusCount"`
	QtdFaltas      int             `json:"deficitCount"`
	QtdOK          int             `json:"okCount"`
	QtdAtencao     int             `json:"attentionCount"`
	QtdPendente    int             `json:"pendingCount"`
	Total          int             `json:"totalClosings"`
	TaxaPrecisao   decimal.Decimal `json:"accuracyRate"`
}

// Resumir folds the readings into a Resumo. Approved closings count as ok.
// Faltas is reported as a positive amount.
func Resumir(leituras []Leitura) Resumo {
	r := Resumo{
		TotalEsperado:  decimal.Zero,
		TotalContado:   decimal.Zero,
		TotalDiferenca: decimal.Zero,
		Sobras:         decimal.Zero,
		Faltas:         decimal.Zero,
		TaxaPrecisao:   decimal.Zero,
	}
	for _, l := range leituras {
		r.TotalEsperado = r.TotalEsperado.Add(l.Esperado)
		r.TotalContado = r.TotalContado.Add(l.Contado)
		r.TotalDiferenca = r.TotalDiferenca.Add(l.Diferenca)

		switch {
		case l.Diferenca.IsPositive():
			r.Sobras = r.Sobras.Add(l.Diferenca)
			r.QtdSobras++
		case l.Diferenca.IsNegative():
			r.Faltas = r.Faltas.Add(l.Diferenca.Abs())
			r.QtdFaltas++
		}

		switch l.Status {
		case StatusOK, StatusAprovado:
			r.QtdOK++
		case StatusAtencao:
			r.QtdAtencao++
		case StatusPendente:
			r.QtdPendente++
		}
	}
	r.Total = len(leituras)
	if r.Total > 0 {
		r.TaxaPrecisao = decimal.NewFromInt(int64(r.QtdOK)).
			Div(decimal.NewFromInt(int64(r.Total))).
			Mul(decimal.NewFromInt(100)).
			Round(1)
	}
	return r
}

// PontoDiario is one day of the evolution series.
type PontoDiario struct {
	Data       string          `json:"date"` // YYYY-MM-DD
	Esperado   decimal.Decimal `json:"expected"`
	Contado    decimal.Decimal `json:"counted"`
	Diferenca  decimal.Decimal `json:"difference"`
	Quantidade int             `json:"closings"`
}

// SerieDiaria sums the readings per calendar day, oldest first. Days without
// closings are not filled in.
func SerieDiaria(leituras []Leitura) []PontoDiario {
	porDia := make(map[string]*PontoDiario)
	for _, l := range leituras {
		dia := l.Data.Format("2006-01-02")
		p, ok := porDia[dia]
		if !ok {
			p = &PontoDiario{Data: dia, Esperado: decimal.Zero, Contado: decimal.Zero, Diferenca: decimal.Zero}
			porDia[dia] = p
		}
		p.Esperado = p.Esperado.Add(l.Esperado)
		p.Contado = p.Contado.Add(l.Contado)
		p.Diferenca = p.Diferenca.Add(l.Diferenca)
		p.Quantidade++
	}
	out := make([]PontoDiario, 0, len(porDia))
	for _, p := range porDia {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Data < out[j].Data })
	return out
}
