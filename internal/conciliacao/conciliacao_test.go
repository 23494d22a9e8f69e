package conciliacao

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDiferenca(t *testing.T) {
	cases := []struct {
		esperado, contado, want string
	}{
		{"15420.50", "15420.50", "0.00"},
		{"8950.00", "8920.00", "-30.00"},
		{"5670.00", "5675.00", "5.00"},
		{"0.10", "0.30", "0.20"},
		{"5000.00", "4980.50", "-19.50"},
	}
	for _, c := range cases {
		got := Diferenca(d(c.esperado), d(c.contado))
		assert.Equal(t, c.want, got.StringFixed(2), "%s -> %s", c.esperado, c.contado)
	}
}

func TestClassificar_Tolerancia(t *testing.T) {
	m := NewMotor(ToleranciaPadrao)

	assert.Equal(t, StatusOK, m.Classificar(d("0")))
	assert.Equal(t, StatusOK, m.Classificar(d("10.00")))
	assert.Equal(t, StatusOK, m.Classificar(d("-10.00")))
	assert.Equal(t, StatusOK, m.Classificar(d("9.99")))
	assert.Equal(t, StatusAtencao, m.Classificar(d("10.01")))
	assert.Equal(t, StatusAtencao, m.Classificar(d("-10.01")))
}

// Surplus and shortfall beyond tolerance classify the same way.
func TestClassificar_SobraEFaltaSimetricas(t *testing.T) {
	m := NewMotor(ToleranciaPadrao)

	assert.Equal(t, StatusAtencao, m.Classificar(d("250.00")))
	assert.Equal(t, StatusAtencao, m.Classificar(d("-250.00")))
}

func TestNewMotor_ToleranciaNegativa(t *testing.T) {
	m := NewMotor(d("-5"))
	assert.True(t, m.Tolerancia().Equal(d("5")))
	assert.Equal(t, StatusOK, m.Classificar(d("-5")))
}

func TestConciliar_Cenarios(t *testing.T) {
	m := NewMotor(ToleranciaPadrao)

	diff, st := m.Conciliar(d("15420.50"), d("15420.50"))
	assert.Equal(t, "0.00", diff.StringFixed(2))
	assert.Equal(t, StatusOK, st)

	diff, st = m.Conciliar(d("8950.00"), d("8920.00"))
	assert.Equal(t, "-30.00", diff.StringFixed(2))
	assert.Equal(t, StatusAtencao, st)

	diff, st = m.Conciliar(d("5670.00"), d("5675.00"))
	assert.Equal(t, "5.00", diff.StringFixed(2))
	assert.Equal(t, StatusOK, st)
}

func TestConciliar_Idempotente(t *testing.T) {
	m := NewMotor(ToleranciaPadrao)
	d1, s1 := m.Conciliar(d("1234.56"), d("1200.01"))
	for i := 0; i < 5; i++ {
		d2, s2 := m.Conciliar(d("1234.56"), d("1200.01"))
		assert.True(t, d1.Equal(d2))
		assert.Equal(t, s1, s2)
	}
}

func TestAprovar(t *testing.T) {
	novo, mudou, err := Aprovar(StatusOK)
	require.NoError(t, err)
	assert.True(t, mudou)
	assert.Equal(t, StatusAprovado, novo)

	novo, mudou, err = Aprovar(StatusAtencao)
	require.NoError(t, err)
	assert.True(t, mudou)
	assert.Equal(t, StatusAprovado, novo)

	novo, mudou, err = Aprovar(StatusAprovado)
	require.NoError(t, err)
	assert.False(t, mudou)
	assert.Equal(t, StatusAprovado, novo)

	novo, mudou, err = Aprovar(StatusPendente)
	assert.ErrorIs(t, err, ErrTransicaoInvalida)
	assert.False(t, mudou)
	assert.Equal(t, StatusPendente, novo)
}

func TestPodeAprovar(t *testing.T) {
	assert.NoError(t, PodeAprovar(StatusOK))
	assert.NoError(t, PodeAprovar(StatusAprovado))
	assert.ErrorIs(t, PodeAprovar(StatusPendente), ErrTransicaoInvalida)
	assert.ErrorIs(t, PodeAprovar(Status("x")), ErrTransicaoInvalida)
}

func TestPodeEditar(t *testing.T) {
	assert.NoError(t, PodeEditar(StatusOK))
	assert.NoError(t, PodeEditar(StatusAtencao))
	assert.NoError(t, PodeEditar(StatusPendente))
	assert.ErrorIs(t, PodeEditar(StatusAprovado), ErrFechamentoAprovado)
}

func TestParseMoeda(t *testing.T) {
	cases := map[string]string{
		"5000,00":     "5000.00",
		"1.234,56":    "1234.56",
		"R$ 1.234,56": "1234.56",
		"1234.56":     "1234.56",
		"-30,5":       "-30.50",
		"":            "0.00",
		"abc":         "0.00",
		"12,ab":       "0.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseMoeda(in).StringFixed(2), "input %q", in)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusOK, StatusAtencao, StatusPendente, StatusAprovado} {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("fechado").Valid())
}
