package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Lojas ─────────────────────────────────────────────────────────────────────

func TestLoja_CRUD(t *testing.T) {
	ctx := context.Background()
	lojas := newMemLojas()
	svc := NewLojaService(lojas)
	org := novaOrg()
	admin := perfil(permissao.Administrador, org)

	l, err := svc.Criar(ctx, admin, dto.LojaRequest{Nome: "Jardim Central", Codigo: " jc001 "})
	require.NoError(t, err)
	assert.Equal(t, "JC001", l.Codigo)
	assert.Equal(t, org.String(), *l.OrganizacaoID)

	_, err = svc.Criar(ctx, admin, dto.LojaRequest{Nome: "Outra", Codigo: "JC001"})
	assert.ErrorIs(t, err, ErrConflito)

	// the same code is free in another tenant
	_, err = svc.Criar(ctx, perfil(permissao.Administrador, novaOrg()), dto.LojaRequest{Nome: "Outra", Codigo: "JC001"})
	assert.NoError(t, err)

	_, err = svc.Criar(ctx, perfil(permissao.Gerente, org), dto.LojaRequest{Nome: "X", Codigo: "X1"})
	assert.ErrorIs(t, err, ErrSemPermissao)

	id := uuid.MustParse(l.ID)
	unidade := "Centro"
	l, err = svc.Atualizar(ctx, admin, id, dto.LojaRequest{Nome: "Jardim Central II", Codigo: "JC001", Unidade: &unidade})
	require.NoError(t, err)
	assert.Equal(t, "Centro", *l.Unidade)

	// reads are open to every role of the tenant
	lista, err := svc.Listar(ctx, perfil(permissao.Funcionaria, org))
	require.NoError(t, err)
	assert.Len(t, lista, 1)

	_, err = svc.Obter(ctx, perfil(permissao.Funcionaria, novaOrg()), id)
	assert.ErrorIs(t, err, ErrNaoEncontrado)

	require.NoError(t, svc.Excluir(ctx, admin, id))
	_, err = svc.Obter(ctx, admin, id)
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestLoja_SuperAdminEscolheOrganizacao(t *testing.T) {
	ctx := context.Background()
	svc := NewLojaService(newMemLojas())
	org := novaOrg().String()

	l, err := svc.Criar(ctx, perfil(permissao.SuperAdmin, nil), dto.LojaRequest{Nome: "Loja", Codigo: "L1", OrganizacaoID: &org})
	require.NoError(t, err)
	assert.Equal(t, org, *l.OrganizacaoID)

	invalida := "nao-e-uuid"
	_, err = svc.Criar(ctx, perfil(permissao.SuperAdmin, nil), dto.LojaRequest{Nome: "Loja", Codigo: "L2", OrganizacaoID: &invalida})
	assert.ErrorIs(t, err, ErrEntradaInvalida)
}

// ── Organizações ──────────────────────────────────────────────────────────────

func TestOrganizacao_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := newMemOrganizacoes()
	svc := NewOrganizacaoService(repo)
	super := perfil(permissao.SuperAdmin, nil)

	o, err := svc.Criar(ctx, super, dto.OrganizacaoRequest{Nome: "Rede Aroma", Codigo: "aroma"})
	require.NoError(t, err)
	assert.Equal(t, "AROMA", o.Codigo)

	_, err = svc.Criar(ctx, super, dto.OrganizacaoRequest{Nome: "Dup", Codigo: "AROMA"})
	assert.ErrorIs(t, err, ErrConflito)

	_, err = svc.Criar(ctx, perfil(permissao.Administrador, nil), dto.OrganizacaoRequest{Nome: "X", Codigo: "X"})
	assert.ErrorIs(t, err, ErrSemPermissao)
	_, err = svc.Listar(ctx, perfil(permissao.Administrador, nil))
	assert.ErrorIs(t, err, ErrSemPermissao)

	id := uuid.MustParse(o.ID)
	o, err = svc.Atualizar(ctx, super, id, dto.OrganizacaoRequest{Nome: "Rede Aroma SA", Codigo: "AROMA"})
	require.NoError(t, err)
	assert.Equal(t, "Rede Aroma SA", o.Nome)

	repo.emUso[id] = true
	assert.ErrorIs(t, svc.Excluir(ctx, super, id), ErrConflito)
	repo.emUso[id] = false
	require.NoError(t, svc.Excluir(ctx, super, id))

	lista, err := svc.Listar(ctx, super)
	require.NoError(t, err)
	assert.Empty(t, lista)
}

// ── Produtos ──────────────────────────────────────────────────────────────────

func TestProduto_CRUDEValorTotal(t *testing.T) {
	ctx := context.Background()
	lojas := newMemLojas()
	svc := NewProdutoService(newMemProdutos(lojas), lojas)
	org := novaOrg()
	loja := seedLoja(t, lojas, "JC001", org)
	admin := perfil(permissao.Administrador, org)

	p, err := svc.Criar(ctx, admin, dto.CriarProdutoRequest{Nome: "Perfume Floral", Tipo: "Perfume", LojaID: loja.ID.String(), Quantidade: 10, ValorUnitario: dec("89.90")})
	require.NoError(t, err)
	assert.Equal(t, "899.00", p.ValorTotal.StringFixed(2))
	assert.Equal(t, "JC001", *p.LojaCodigo)

	qtd := 3
	p, err = svc.Atualizar(ctx, admin, uuid.MustParse(p.ID), dto.AtualizarProdutoRequest{Quantidade: &qtd})
	require.NoError(t, err)
	assert.Equal(t, "269.70", p.ValorTotal.StringFixed(2))

	_, err = svc.Listar(ctx, perfil(permissao.Gerente, org), nil)
	assert.ErrorIs(t, err, ErrSemPermissao)

	lista, err := svc.Listar(ctx, admin, &loja.ID)
	require.NoError(t, err)
	assert.Len(t, lista, 1)

	require.NoError(t, svc.Excluir(ctx, admin, uuid.MustParse(p.ID)))
}

func TestProduto_ImportarPorCodigoOuNome(t *testing.T) {
	ctx := context.Background()
	lojas := newMemLojas()
	svc := NewProdutoService(newMemProdutos(lojas), lojas)
	org := novaOrg()
	l := seedLoja(t, lojas, "JC001", org)
	l.Nome = "São José"
	require.NoError(t, lojas.Update(ctx, l))
	admin := perfil(permissao.Administrador, org)

	csv := "Nome,Tipo,Loja,Quantidade,Valor Unitário\n" +
		"Perfume Floral,Perfume,jc001,10,\"89,90\"\n" +
		"Sabonete,Higiene,sao jose,5,12.50\n" +
		"Creme,Higiene,Inexistente,1,1\n" +
		",Higiene,JC001,1,1\n"
	res, err := svc.Importar(ctx, admin, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Importados)
	assert.Len(t, res.Erros, 2)

	var buf bytes.Buffer
	require.NoError(t, svc.Exportar(ctx, admin, nil, &buf))
	out := buf.String()
	assert.Contains(t, out, "Perfume Floral")
	assert.Contains(t, out, "899,00")
	assert.Contains(t, out, "62,50")
}

func TestProduto_ImportarLojaAmbigua(t *testing.T) {
	ctx := context.Background()
	lojas := newMemLojas()
	produtos := newMemProdutos(lojas)
	svc := NewProdutoService(produtos, lojas)
	org := novaOrg()
	seedLoja(t, lojas, "JC001", org)
	seedLoja(t, lojas, "JC001", novaOrg())

	csv := "Nome,Tipo,Loja,Quantidade,Valor Unitário\nPerfume Floral,Perfume,JC001,10,1\n"
	res, err := svc.Importar(ctx, perfil(permissao.SuperAdmin, nil), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Importados)
	require.Len(t, res.Erros, 1)
	assert.Contains(t, res.Erros[0], "ambígua")

	res, err = svc.Importar(ctx, perfil(permissao.Administrador, org), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Importados)
}

// ── Ocorrências ───────────────────────────────────────────────────────────────

func TestOcorrencia_Fluxo(t *testing.T) {
	ctx := context.Background()
	lojas := newMemLojas()
	svc := NewOcorrenciaService(newMemOcorrencias(), lojas)
	org := novaOrg()
	loja := seedLoja(t, lojas, "JC001", org)
	lojaID := loja.ID.String()
	func_ := perfil(permissao.Funcionaria, org)

	o, err := svc.Criar(ctx, func_, dto.CriarOcorrenciaRequest{Descricao: "Troco faltando na gaveta", LojaID: &lojaID})
	require.NoError(t, err)
	assert.Equal(t, OcorrenciaPendente, o.Status)
	assert.Equal(t, func_.Nome, o.UsuarioNome)
	assert.Equal(t, "Loja JC001", *o.LojaNome)

	_, err = svc.Listar(ctx, func_)
	assert.ErrorIs(t, err, ErrSemPermissao)

	gerente := perfil(permissao.Gerente, org)
	lista, err := svc.Listar(ctx, gerente)
	require.NoError(t, err)
	require.Len(t, lista, 1)

	resolvida := OcorrenciaResolvida
	o, err = svc.Atualizar(ctx, gerente, uuid.MustParse(o.ID), dto.AtualizarOcorrenciaRequest{Status: &resolvida})
	require.NoError(t, err)
	assert.Equal(t, OcorrenciaResolvida, o.Status)

	invalido := "closed"
	_, err = svc.Atualizar(ctx, gerente, uuid.MustParse(o.ID), dto.AtualizarOcorrenciaRequest{Status: &invalido})
	assert.ErrorIs(t, err, ErrEntradaInvalida)

	assert.ErrorIs(t, svc.Excluir(ctx, gerente, uuid.MustParse(o.ID)), ErrSemPermissao)
	assert.NoError(t, svc.Excluir(ctx, perfil(permissao.Administrador, org), uuid.MustParse(o.ID)))
}

// ── Solicitações ──────────────────────────────────────────────────────────────

func TestSolicitacao_Fluxo(t *testing.T) {
	ctx := context.Background()
	emails := &filaEmails{}
	svc := NewSolicitacaoService(newMemSolicitacoes(), emails)
	admin := perfil(permissao.Administrador, novaOrg())

	s, err := svc.Criar(ctx, dto.CriarSolicitacaoRequest{Nome: "Carla", Email: "Carla@Mail.com"})
	require.NoError(t, err)
	assert.Equal(t, SolicitacaoPendente, s.Status)
	assert.Equal(t, "carla@mail.com", s.Email)

	n, err := svc.ContarPendentes(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.ContarPendentes(ctx, perfil(permissao.Gerente, nil))
	assert.ErrorIs(t, err, ErrSemPermissao)

	id := uuid.MustParse(s.ID)
	s, err = svc.Revisar(ctx, admin, id, dto.RevisarSolicitacaoRequest{Status: SolicitacaoAprovada})
	require.NoError(t, err)
	assert.Equal(t, SolicitacaoAprovada, s.Status)
	assert.Equal(t, admin.UsuarioID.String(), *s.RevisadoPor)
	assert.NotNil(t, s.RevisadoEm)

	require.Len(t, emails.jobs, 1)
	assert.Equal(t, []string{"carla@mail.com"}, emails.jobs[0].To)
	assert.Contains(t, emails.jobs[0].Subject, "aprovada")

	_, err = svc.Revisar(ctx, admin, id, dto.RevisarSolicitacaoRequest{Status: SolicitacaoRejeitada})
	assert.ErrorIs(t, err, ErrConflito)

	pendentes, err := svc.Listar(ctx, admin, SolicitacaoPendente)
	require.NoError(t, err)
	assert.Empty(t, pendentes)

	_, err = svc.Listar(ctx, admin, "talvez")
	assert.ErrorIs(t, err, ErrEntradaInvalida)

	require.NoError(t, svc.Excluir(ctx, admin, id))
	assert.ErrorIs(t, svc.Excluir(ctx, admin, id), ErrNaoEncontrado)
}
