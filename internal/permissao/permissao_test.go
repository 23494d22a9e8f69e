package permissao

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNivel_Ordem(t *testing.T) {
	todos := Todos()
	for i := 1; i < len(todos); i++ {
		assert.Less(t, todos[i-1].Nivel(), todos[i].Nivel())
	}
	assert.Equal(t, 0, Papel("caixa").Nivel())
	assert.False(t, Papel("").Valido())
}

func TestPodeEditar(t *testing.T) {
	cases := []struct {
		ator, alvo Papel
		want       bool
	}{
		{Funcionaria, Funcionaria, false},
		{Gerente, Funcionaria, true},
		{Gerente, Gerente, true},
		{Gerente, Administrador, false},
		{Administrador, Gerente, true},
		{Administrador, SuperAdmin, false},
		{SuperAdmin, SuperAdmin, true},
		{SuperAdmin, Papel("desconhecido"), false},
		{Papel("desconhecido"), Funcionaria, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PodeEditar(c.ator, c.alvo), "%s -> %s", c.ator, c.alvo)
	}
}

func TestPodeExcluir(t *testing.T) {
	assert.False(t, PodeExcluir(Funcionaria))
	assert.False(t, PodeExcluir(Gerente))
	assert.True(t, PodeExcluir(Administrador))
	assert.True(t, PodeExcluir(SuperAdmin))
}

func TestPodeAprovar(t *testing.T) {
	assert.False(t, PodeAprovar(Funcionaria))
	assert.True(t, PodeAprovar(Gerente))
	assert.True(t, PodeAprovar(SuperAdmin))
}

func TestOrganizacoes_SoSuperAdmin(t *testing.T) {
	for _, p := range []Papel{Funcionaria, Gerente, Administrador} {
		assert.False(t, PodeGerenciarOrganizacoes(p), p)
		assert.False(t, PodeVerTodasOrganizacoes(p), p)
	}
	assert.True(t, PodeGerenciarOrganizacoes(SuperAdmin))
	assert.True(t, PodeVerTodasOrganizacoes(SuperAdmin))
}

func TestPodeGerenciarLojas(t *testing.T) {
	assert.False(t, PodeGerenciarLojas(Gerente))
	assert.True(t, PodeGerenciarLojas(Administrador))
	assert.True(t, PodeGerenciarProdutos(Administrador))
	assert.False(t, PodeGerenciarUsuarios(Gerente))
}
