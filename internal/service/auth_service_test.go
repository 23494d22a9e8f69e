package service

import (
	"context"
	"testing"
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/cache"
	"github.com/Yodaime/cash-flow-keeper/internal/config"
	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/model"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

type authFixture struct {
	svc      *authService
	usuarios *memUsuarios
	lojas    *memLojas
	perfis   *cache.MemoriaPerfilCache
	org      *uuid.UUID
}

func novoAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	usuarios := newMemUsuarios()
	lojas := newMemLojas()
	c := cache.NewMemoriaPerfilCache(time.Minute)
	cfg := &config.Config{JWTSecret: testSecret, JWTExpirationHours: 8, JWTRefreshHours: 24}
	svc := NewAuthService(usuarios, lojas, NewPerfilResolver(c, usuarios), cfg).(*authService)
	svc.custo = bcrypt.MinCost
	return &authFixture{svc: svc, usuarios: usuarios, lojas: lojas, perfis: c, org: novaOrg()}
}

func (fx *authFixture) seed(t *testing.T, email, senha string, p permissao.Papel, org *uuid.UUID) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{Nome: "Teste " + string(p), Email: email, PasswordHash: string(hash), Papel: string(p), OrganizacaoID: org, Ativo: true}
	require.NoError(t, fx.usuarios.Create(context.Background(), u))
	return u
}

func atorDe(u *model.Usuario) cache.Perfil { return perfilDe(u) }

func TestLogin(t *testing.T) {
	fx := novoAuthFixture(t)
	u := fx.seed(t, "ana@loja.com", "segredo1", permissao.Gerente, fx.org)

	resp, err := fx.svc.Login(context.Background(), dto.LoginRequest{Email: "ANA@loja.com", Password: "segredo1"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, u.ID.String(), resp.User.ID)
	assert.Equal(t, "gerente", resp.User.Papel)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims["user_id"])
	assert.Equal(t, "gerente", claims["papel"])
	assert.Equal(t, fx.org.String(), claims["organizacao_id"])
	assert.Equal(t, TokenAcesso, claims["tipo"])
}

func TestLogin_Falhas(t *testing.T) {
	fx := novoAuthFixture(t)
	u := fx.seed(t, "ana@loja.com", "segredo1", permissao.Gerente, fx.org)
	ctx := context.Background()

	_, err := fx.svc.Login(ctx, dto.LoginRequest{Email: "ana@loja.com", Password: "errada"})
	assert.ErrorIs(t, err, ErrCredenciais)

	_, err = fx.svc.Login(ctx, dto.LoginRequest{Email: "ninguem@loja.com", Password: "segredo1"})
	assert.ErrorIs(t, err, ErrCredenciais)

	require.NoError(t, fx.usuarios.Desativar(ctx, u.ID))
	_, err = fx.svc.Login(ctx, dto.LoginRequest{Email: "ana@loja.com", Password: "segredo1"})
	assert.ErrorIs(t, err, ErrCredenciais)
}

func TestRefresh(t *testing.T) {
	fx := novoAuthFixture(t)
	fx.seed(t, "ana@loja.com", "segredo1", permissao.Funcionaria, fx.org)
	ctx := context.Background()

	login, err := fx.svc.Login(ctx, dto.LoginRequest{Email: "ana@loja.com", Password: "segredo1"})
	require.NoError(t, err)

	resp, err := fx.svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	// an access token is not a refresh token
	_, err = fx.svc.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrCredenciais)

	_, err = fx.svc.Refresh(ctx, "lixo")
	assert.ErrorIs(t, err, ErrCredenciais)
}

func TestCriarUsuario(t *testing.T) {
	fx := novoAuthFixture(t)
	ctx := context.Background()
	admin := atorDe(fx.seed(t, "admin@loja.com", "segredo1", permissao.Administrador, fx.org))
	loja := seedLoja(t, fx.lojas, "JC001", fx.org)
	lojaID := loja.ID.String()

	resp, err := fx.svc.CriarUsuario(ctx, admin, dto.CriarUsuarioRequest{
		Nome: "Bia", Email: " Bia@Loja.com ", Password: "segredo1", Papel: "funcionaria", LojaID: &lojaID,
	})
	require.NoError(t, err)
	assert.Equal(t, "bia@loja.com", resp.Email)
	require.NotNil(t, resp.OrganizacaoID)
	assert.Equal(t, fx.org.String(), *resp.OrganizacaoID, "inherits the creator's organization")
	assert.Equal(t, &lojaID, resp.LojaID)

	_, err = fx.svc.CriarUsuario(ctx, admin, dto.CriarUsuarioRequest{Nome: "Bia 2", Email: "bia@loja.com", Password: "segredo1", Papel: "funcionaria"})
	assert.ErrorIs(t, err, ErrConflito)

	// cannot grant a role above its own
	_, err = fx.svc.CriarUsuario(ctx, admin, dto.CriarUsuarioRequest{Nome: "Root", Email: "root@loja.com", Password: "segredo1", Papel: "super_admin"})
	assert.ErrorIs(t, err, ErrSemPermissao)

	// cannot place users in another tenant
	outra := novaOrg().String()
	_, err = fx.svc.CriarUsuario(ctx, admin, dto.CriarUsuarioRequest{Nome: "Cris", Email: "cris@loja.com", Password: "segredo1", Papel: "gerente", OrganizacaoID: &outra})
	assert.ErrorIs(t, err, ErrSemPermissao)

	gerente := perfil(permissao.Gerente, fx.org)
	_, err = fx.svc.CriarUsuario(ctx, gerente, dto.CriarUsuarioRequest{Nome: "Dani", Email: "dani@loja.com", Password: "segredo1", Papel: "funcionaria"})
	assert.ErrorIs(t, err, ErrSemPermissao)

	// super_admin chooses the tenant
	super := perfil(permissao.SuperAdmin, nil)
	resp, err = fx.svc.CriarUsuario(ctx, super, dto.CriarUsuarioRequest{Nome: "Eva", Email: "eva@loja.com", Password: "segredo1", Papel: "administrador", OrganizacaoID: &outra})
	require.NoError(t, err)
	assert.Equal(t, outra, *resp.OrganizacaoID)
}

func TestAtualizarUsuario_InvalidaCache(t *testing.T) {
	fx := novoAuthFixture(t)
	ctx := context.Background()
	admin := atorDe(fx.seed(t, "admin@loja.com", "segredo1", permissao.Administrador, fx.org))
	alvo := fx.seed(t, "bia@loja.com", "segredo1", permissao.Funcionaria, fx.org)

	resolver := NewPerfilResolver(fx.perfis, fx.usuarios)
	p, err := resolver.Resolver(ctx, alvo.ID)
	require.NoError(t, err)
	assert.Equal(t, "funcionaria", p.Papel)

	resp, err := fx.svc.AtualizarUsuario(ctx, admin, alvo.ID, dto.AtualizarUsuarioRequest{Papel: "gerente"})
	require.NoError(t, err)
	assert.Equal(t, "gerente", resp.Papel)

	p, err = resolver.Resolver(ctx, alvo.ID)
	require.NoError(t, err)
	assert.Equal(t, "gerente", p.Papel)
}

func TestAtualizarUsuario_Regras(t *testing.T) {
	fx := novoAuthFixture(t)
	ctx := context.Background()
	gerente := atorDe(fx.seed(t, "ger@loja.com", "segredo1", permissao.Gerente, fx.org))
	admin := fx.seed(t, "admin@loja.com", "segredo1", permissao.Administrador, fx.org)
	func_ := fx.seed(t, "func@loja.com", "segredo1", permissao.Funcionaria, fx.org)

	_, err := fx.svc.AtualizarUsuario(ctx, gerente, admin.ID, dto.AtualizarUsuarioRequest{Nome: "Outro"})
	assert.ErrorIs(t, err, ErrSemPermissao, "gerente cannot edit an administrador")

	_, err = fx.svc.AtualizarUsuario(ctx, gerente, func_.ID, dto.AtualizarUsuarioRequest{Papel: "administrador"})
	assert.ErrorIs(t, err, ErrSemPermissao, "cannot promote above own role")

	outra := novaOrg().String()
	_, err = fx.svc.AtualizarUsuario(ctx, atorDe(admin), func_.ID, dto.AtualizarUsuarioRequest{OrganizacaoID: &outra})
	assert.ErrorIs(t, err, ErrSemPermissao)

	resp, err := fx.svc.AtualizarUsuario(ctx, gerente, func_.ID, dto.AtualizarUsuarioRequest{Nome: "Fátima"})
	require.NoError(t, err)
	assert.Equal(t, "Fátima", resp.Nome)

	_, err = fx.svc.AtualizarUsuario(ctx, perfil(permissao.Administrador, novaOrg()), func_.ID, dto.AtualizarUsuarioRequest{Nome: "X"})
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestRedefinirSenha(t *testing.T) {
	fx := novoAuthFixture(t)
	ctx := context.Background()
	admin := atorDe(fx.seed(t, "admin@loja.com", "segredo1", permissao.Administrador, fx.org))
	alvo := fx.seed(t, "bia@loja.com", "segredo1", permissao.Funcionaria, fx.org)

	assert.ErrorIs(t, fx.svc.RedefinirSenha(ctx, admin, alvo.ID, dto.RedefinirSenhaRequest{NovaSenha: "123"}), ErrEntradaInvalida)
	require.NoError(t, fx.svc.RedefinirSenha(ctx, admin, alvo.ID, dto.RedefinirSenhaRequest{NovaSenha: "novasenha"}))

	_, err := fx.svc.Login(ctx, dto.LoginRequest{Email: "bia@loja.com", Password: "novasenha"})
	assert.NoError(t, err)
	_, err = fx.svc.Login(ctx, dto.LoginRequest{Email: "bia@loja.com", Password: "segredo1"})
	assert.ErrorIs(t, err, ErrCredenciais)

	assert.ErrorIs(t, fx.svc.RedefinirSenha(ctx, perfil(permissao.Gerente, fx.org), alvo.ID, dto.RedefinirSenhaRequest{NovaSenha: "outrasenha"}), ErrSemPermissao)
}

func TestDesativarUsuario(t *testing.T) {
	fx := novoAuthFixture(t)
	ctx := context.Background()
	adminU := fx.seed(t, "admin@loja.com", "segredo1", permissao.Administrador, fx.org)
	admin := atorDe(adminU)
	alvo := fx.seed(t, "bia@loja.com", "segredo1", permissao.Funcionaria, fx.org)

	require.NoError(t, fx.perfis.Set(ctx, perfilDe(alvo)))
	require.NoError(t, fx.svc.DesativarUsuario(ctx, admin, alvo.ID))
	assert.False(t, fx.usuarios.rows[alvo.ID].Ativo)
	_, ok, _ := fx.perfis.Get(ctx, alvo.ID)
	assert.False(t, ok, "profile evicted")

	assert.ErrorIs(t, fx.svc.DesativarUsuario(ctx, admin, adminU.ID), ErrEntradaInvalida)
	assert.ErrorIs(t, fx.svc.DesativarUsuario(ctx, perfil(permissao.Gerente, fx.org), alvo.ID), ErrSemPermissao)
}

func TestListarUsuarios_PorTenant(t *testing.T) {
	fx := novoAuthFixture(t)
	ctx := context.Background()
	fx.seed(t, "a@loja.com", "segredo1", permissao.Funcionaria, fx.org)
	fx.seed(t, "b@loja.com", "segredo1", permissao.Gerente, fx.org)
	fx.seed(t, "c@outra.com", "segredo1", permissao.Gerente, novaOrg())

	us, err := fx.svc.ListarUsuarios(ctx, perfil(permissao.Gerente, fx.org))
	require.NoError(t, err)
	assert.Len(t, us, 2)

	us, err = fx.svc.ListarUsuarios(ctx, perfil(permissao.SuperAdmin, nil))
	require.NoError(t, err)
	assert.Len(t, us, 3)

	_, err = fx.svc.ListarUsuarios(ctx, perfil(permissao.Funcionaria, fx.org))
	assert.ErrorIs(t, err, ErrSemPermissao)
}
