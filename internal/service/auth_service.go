package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/cache"
	"github.com/Yodaime/cash-flow-keeper/internal/config"
	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/model"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"
	"github.com/Yodaime/cash-flow-keeper/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenAcesso  = "access"
	TokenRefresh = "refresh"
	CustoBcrypt  = 12
	SenhaMinima  = 6
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CriarUsuario(ctx context.Context, ator cache.Perfil, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error)
	AtualizarUsuario(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	RedefinirSenha(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.RedefinirSenhaRequest) error
	DesativarUsuario(ctx context.Context, ator cache.Perfil, id uuid.UUID) error
	ListarUsuarios(ctx context.Context, ator cache.Perfil) ([]dto.UsuarioResponse, error)
}

type authService struct {
	repo     repository.UsuarioRepository
	lojaRepo repository.LojaRepository
	perfis   PerfilResolver
	cfg      *config.Config
	custo    int
}

func NewAuthService(repo repository.UsuarioRepository, lojaRepo repository.LojaRepository, perfis PerfilResolver, cfg *config.Config) AuthService {
	return &authService{repo: repo, lojaRepo: lojaRepo, perfis: perfis, cfg: cfg, custo: CustoBcrypt}
}

// ── Login / Refresh ───────────────────────────────────────────────────────────

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, ErrCredenciais
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciais
	}
	if !user.Ativo {
		return nil, fmt.Errorf("%w: usuário inativo", ErrCredenciais)
	}
	return s.emitir(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: refresh token inválido ou expirado", ErrCredenciais)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["tipo"] != TokenRefresh {
		return nil, fmt.Errorf("%w: refresh token inválido", ErrCredenciais)
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("%w: token mal formado", ErrCredenciais)
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Ativo {
		return nil, fmt.Errorf("%w: usuário não encontrado ou inativo", ErrCredenciais)
	}
	return s.emitir(user)
}

func (s *authService) emitir(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.gerarToken(user, TokenAcesso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.gerarToken(user, TokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioResponse(user),
	}, nil
}

func (s *authService) gerarToken(user *model.Usuario, tipo string, duracao time.Duration) (string, error) {
	agora := time.Now()
	claims := jwt.MapClaims{
		"user_id":        user.ID.String(),
		"email":          user.Email,
		"papel":          user.Papel,
		"organizacao_id": idPtr(user.OrganizacaoID),
		"tipo":           tipo,
		"exp":            agora.Add(duracao).Unix(),
		"iat":            agora.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ── Gestão de usuários ────────────────────────────────────────────────────────

func (s *authService) CriarUsuario(ctx context.Context, ator cache.Perfil, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := exigir(permissao.PodeGerenciarUsuarios(papel(ator)), "criar usuários"); err != nil {
		return nil, err
	}
	if err := exigir(permissao.PodeEditar(papel(ator), permissao.Papel(req.Papel)), "atribuir papel "+req.Papel); err != nil {
		return nil, err
	}
	org, err := organizacaoAlvo(ator, req.OrganizacaoID)
	if err != nil {
		return nil, err
	}
	lojaID, err := s.lojaDoTenant(ctx, req.LojaID, org)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.custo)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Nome:          strings.TrimSpace(req.Nome),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:  string(hash),
		Papel:         req.Papel,
		OrganizacaoID: org,
		LojaID:        lojaID,
		Ativo:         true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, traduzir(err, "e-mail")
	}
	resp := usuarioResponse(user)
	return &resp, nil
}

func (s *authService) AtualizarUsuario(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.alvo(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	if err := exigir(permissao.PodeEditar(papel(ator), permissao.Papel(user.Papel)), "editar usuário"); err != nil {
		return nil, err
	}

	if req.Nome != "" {
		user.Nome = strings.TrimSpace(req.Nome)
	}
	if req.Papel != "" {
		if err := exigir(permissao.PodeEditar(papel(ator), permissao.Papel(req.Papel)), "atribuir papel "+req.Papel); err != nil {
			return nil, err
		}
		user.Papel = req.Papel
	}
	if req.OrganizacaoID != nil {
		if err := exigir(permissao.PodeGerenciarOrganizacoes(papel(ator)), "mover usuário de organização"); err != nil {
			return nil, err
		}
		org, err := parseIDPtr(req.OrganizacaoID, "organizacao_id")
		if err != nil {
			return nil, err
		}
		user.OrganizacaoID = org
	}
	if req.LojaID != nil {
		lojaID, err := s.lojaDoTenant(ctx, req.LojaID, user.OrganizacaoID)
		if err != nil {
			return nil, err
		}
		user.LojaID, user.Loja = lojaID, nil
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, traduzir(err, "usuário")
	}
	s.perfis.Invalidar(ctx, user.ID)
	resp := usuarioResponse(user)
	return &resp, nil
}

func (s *authService) RedefinirSenha(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.RedefinirSenhaRequest) error {
	if err := exigir(permissao.PodeGerenciarUsuarios(papel(ator)), "redefinir senha"); err != nil {
		return err
	}
	if len(req.NovaSenha) < SenhaMinima {
		return fmt.Errorf("%w: a senha deve ter pelo menos %d caracteres", ErrEntradaInvalida, SenhaMinima)
	}
	user, err := s.alvo(ctx, ator, id)
	if err != nil {
		return err
	}
	if err := exigir(permissao.PodeEditar(papel(ator), permissao.Papel(user.Papel)), "redefinir senha"); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NovaSenha), s.custo)
	if err != nil {
		return err
	}
	return traduzir(s.repo.UpdateSenha(ctx, user.ID, string(hash)), "usuário")
}

func (s *authService) DesativarUsuario(ctx context.Context, ator cache.Perfil, id uuid.UUID) error {
	if err := exigir(permissao.PodeExcluir(papel(ator)), "desativar usuário"); err != nil {
		return err
	}
	if id == ator.UsuarioID {
		return fmt.Errorf("%w: não é possível desativar o próprio usuário", ErrEntradaInvalida)
	}
	user, err := s.alvo(ctx, ator, id)
	if err != nil {
		return err
	}
	if err := exigir(permissao.PodeEditar(papel(ator), permissao.Papel(user.Papel)), "desativar usuário"); err != nil {
		return err
	}
	if err := s.repo.Desativar(ctx, user.ID); err != nil {
		return traduzir(err, "usuário")
	}
	s.perfis.Invalidar(ctx, user.ID)
	return nil
}

func (s *authService) ListarUsuarios(ctx context.Context, ator cache.Perfil) ([]dto.UsuarioResponse, error) {
	if err := exigir(permissao.PodeAprovar(papel(ator)), "listar usuários"); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx, escopoDe(ator))
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioResponse(&users[i])
	}
	return resp, nil
}

// alvo loads a user the actor is allowed to see.
func (s *authService) alvo(ctx context.Context, ator cache.Perfil, id uuid.UUID) (*model.Usuario, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traduzir(err, "usuário")
	}
	if !escopoDe(ator).Permite(user.OrganizacaoID) {
		return nil, fmt.Errorf("%w: usuário", ErrNaoEncontrado)
	}
	return user, nil
}

// lojaDoTenant validates an optional store reference against the user's tenant.
func (s *authService) lojaDoTenant(ctx context.Context, raw *string, org *uuid.UUID) (*uuid.UUID, error) {
	id, err := parseIDPtr(raw, "loja_id")
	if err != nil || id == nil {
		return nil, err
	}
	l, err := s.lojaRepo.FindByID(ctx, *id)
	if err != nil {
		return nil, traduzir(err, "loja")
	}
	if !repository.EscopoDe(org).Permite(l.OrganizacaoID) {
		return nil, fmt.Errorf("%w: loja de outra organização", ErrEntradaInvalida)
	}
	return &l.ID, nil
}

func usuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	r := dto.UsuarioResponse{
		ID:            u.ID.String(),
		Nome:          u.Nome,
		Email:         u.Email,
		Papel:         u.Papel,
		OrganizacaoID: idPtr(u.OrganizacaoID),
		LojaID:        idPtr(u.LojaID),
		Ativo:         u.Ativo,
	}
	if u.Loja != nil {
		r.LojaNome = strPtr(u.Loja.Nome)
	}
	return r
}
