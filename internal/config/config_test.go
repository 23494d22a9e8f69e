package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LIMITE_TOLERANCIA", "")
	cfg, err := Load()
	require.NoError(t, err)

	tol, err := cfg.Tolerancia()
	require.NoError(t, err)
	assert.Equal(t, "10.00", tol.StringFixed(2))
	assert.Equal(t, 5*time.Minute, cfg.PerfilCacheTTL())
	assert.Equal(t, 30*time.Second, cfg.AnaliseTimeout())
}

func TestLoad_ToleranciaDoAmbiente(t *testing.T) {
	t.Setenv("LIMITE_TOLERANCIA", "2.50")
	cfg, err := Load()
	require.NoError(t, err)

	tol, err := cfg.Tolerancia()
	require.NoError(t, err)
	assert.Equal(t, "2.50", tol.StringFixed(2))
}

func TestTolerancia_Invalida(t *testing.T) {
	_, err := (&Config{LimiteTolerancia: "dez"}).Tolerancia()
	assert.Error(t, err)

	_, err = (&Config{LimiteTolerancia: "-1"}).Tolerancia()
	assert.Error(t, err)
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.False(t, (&Config{Env: "development"}).IsProduction())
}
