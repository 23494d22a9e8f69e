package service

import (
	"context"
	"testing"
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/infra"
	"github.com/Yodaime/cash-flow-keeper/internal/model"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFechamento(t *testing.T, r *memFechamentos, l *model.Loja, data, esperado, contado, status string) {
	t.Helper()
	d, err := time.Parse("2006-01-02", data)
	require.NoError(t, err)
	e, c := dec(esperado), dec(contado)
	require.NoError(t, r.Create(context.Background(), &model.Fechamento{
		LojaID:        l.ID,
		OrganizacaoID: l.OrganizacaoID,
		Data:          d,
		ValorEsperado: e,
		ValorContado:  c,
		Diferenca:     c.Sub(e),
		Status:        status,
	}))
}

func TestAnalise_MesCorrenteDoTenant(t *testing.T) {
	lojas := newMemLojas()
	repo := newMemFechamentos(lojas)
	org := novaOrg()
	l := seedLoja(t, lojas, "JC001", org)
	outra := seedLoja(t, lojas, "JC001", novaOrg())

	seedFechamento(t, repo, l, "2024-12-02", "100.00", "100.00", "ok")
	seedFechamento(t, repo, l, "2024-12-15", "200.00", "180.00", "atencao")
	seedFechamento(t, repo, l, "2024-11-30", "999.00", "0.00", "atencao")     // previous month
	seedFechamento(t, repo, outra, "2024-12-10", "50.00", "60.00", "atencao") // other tenant

	cliente := &analisadorFake{resposta: "As faltas se concentram na segunda quinzena."}
	svc := NewAnaliseService(repo, cliente).(*analiseService)
	svc.agora = func() time.Time { return time.Date(2024, 12, 20, 15, 0, 0, 0, time.UTC) }

	resp, err := svc.Analisar(context.Background(), perfil(permissao.Gerente, org), "  Onde estão as faltas?  ")
	require.NoError(t, err)
	assert.Equal(t, cliente.resposta, resp.Resposta)
	assert.Equal(t, "Onde estão as faltas?", cliente.pergunta)

	assert.Equal(t, 2, cliente.stats.TotalClosings)
	assert.Equal(t, 1, cliente.stats.OkCount)
	assert.Equal(t, 1, cliente.stats.AttentionCount)
	assert.InDelta(t, 300.0, cliente.stats.TotalExpected, 0.001)
	assert.InDelta(t, -20.0, cliente.stats.TotalDifference, 0.001)
	assert.Equal(t, "50.0", cliente.stats.AccuracyRate)
}

func TestAnalise_Erros(t *testing.T) {
	ctx := context.Background()
	lojas := newMemLojas()
	cliente := &analisadorFake{err: infra.ErrAnaliseNaoConfigurada}
	svc := NewAnaliseService(newMemFechamentos(lojas), cliente)

	_, err := svc.Analisar(ctx, perfil(permissao.Funcionaria, nil), "?")
	assert.ErrorIs(t, err, ErrSemPermissao)
	assert.Empty(t, cliente.pergunta)

	_, err = svc.Analisar(ctx, perfil(permissao.Administrador, nil), "resumo")
	assert.ErrorIs(t, err, infra.ErrAnaliseNaoConfigurada)

	cliente.err = infra.ErrCircuitOpen
	_, err = svc.Analisar(ctx, perfil(permissao.Administrador, nil), "resumo")
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
}

func TestMesCorrente(t *testing.T) {
	inicio, fim := mesCorrente(time.Date(2024, 2, 10, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-02-01", inicio.Format("2006-01-02"))
	assert.Equal(t, "2024-02-29", fim.Format("2006-01-02"))
}
