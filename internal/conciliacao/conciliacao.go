// Package conciliacao holds the cash closing reconciliation rules: the signed
// difference between counted and expected cash, the status classification
// against a flat tolerance, and the approval state machine.
//
// Everything here is pure and synchronous. Persistence and identity live in the
// service layer.
package conciliacao

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a closing.
type Status string

const (
	StatusOK       Status = "ok"
	StatusAtencao  Status = "atencao"
	StatusPendente Status = "pendente"
	StatusAprovado Status = "aprovado"
)

// Valid reports whether s is one of the four known states.
func (s Status) Valid() bool {
	switch s {
	case StatusOK, StatusAtencao, StatusPendente, StatusAprovado:
		return true
	}
	return false
}

var (
	// ErrTransicaoInvalida is returned when approving a closing that was never classified.
	ErrTransicaoInvalida = errors.New("transição de status inválida")
	// ErrFechamentoAprovado is returned when trying to change values of an approved closing.
	ErrFechamentoAprovado = errors.New("fechamento já aprovado não pode ser alterado")
)

// ToleranciaPadrao is the default absolute tolerance in currency units.
var ToleranciaPadrao = decimal.RequireFromString("10.00")

// Motor classifies differences against a single configured tolerance.
type Motor struct {
	tolerancia decimal.Decimal
}

// NewMotor builds an engine for the given tolerance. Negative values are
// treated as their absolute value.
func NewMotor(tolerancia decimal.Decimal) *Motor {
	return &Motor{tolerancia: tolerancia.Abs()}
}

// Tolerancia returns the configured limit.
func (m *Motor) Tolerancia() decimal.Decimal { return m.tolerancia }

// Diferenca returns contado − esperado at currency precision.
// Positive means surplus, negative means shortfall.
func Diferenca(esperado, contado decimal.Decimal) decimal.Decimal {
	return contado.Sub(esperado).Round(2)
}

// Classificar maps a difference to ok or atencao.
// |diferenca| <= tolerância is ok regardless of sign.
func (m *Motor) Classificar(diferenca decimal.Decimal) Status {
	if diferenca.Abs().LessThanOrEqual(m.tolerancia) {
		return StatusOK
	}
	return StatusAtencao
}

// Conciliar computes the difference and its status in one step. Create, edit
// and bulk import all go through here.
func (m *Motor) Conciliar(esperado, contado decimal.Decimal) (decimal.Decimal, Status) {
	d := Diferenca(esperado, contado)
	return d, m.Classificar(d)
}

// PodeAprovar reports whether a closing in the given status may be approved.
// Approving an already approved closing is allowed and is a no-op.
func PodeAprovar(atual Status) error {
	switch atual {
	case StatusOK, StatusAtencao, StatusAprovado:
		return nil
	}
	return ErrTransicaoInvalida
}

// Aprovar applies the approve action to the current status.
//
//	ok, atencao -> aprovado (mudou = true)
//	aprovado    -> aprovado (mudou = false, no-op)
//	pendente    -> ErrTransicaoInvalida
func Aprovar(atual Status) (novo Status, mudou bool, err error) {
	if err := PodeAprovar(atual); err != nil {
		return atual, false, err
	}
	return StatusAprovado, atual != StatusAprovado, nil
}

// PodeEditar rejects value edits on approved closings; no transition leaves aprovado.
func PodeEditar(atual Status) error {
	if atual == StatusAprovado {
		return ErrFechamentoAprovado
	}
	return nil
}

// ParseMoeda parses a currency string leniently and falls back to zero.
// Accepts "1.234,56", "1234,56", "1234.56" and an optional "R$" prefix.
func ParseMoeda(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
