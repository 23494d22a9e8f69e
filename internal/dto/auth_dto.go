package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CriarUsuarioRequest struct {
	Nome          string  `json:"nome"            validate:"required,min=2,max=100"`
	Email         string  `json:"email"           validate:"required,email"`
	Password      string  `json:"password"        validate:"required,min=6"`
	Papel         string  `json:"papel"           validate:"required,oneof=funcionaria gerente administrador super_admin"`
	OrganizacaoID *string `json:"organizacao_id"  validate:"omitempty,uuid"`
	LojaID        *string `json:"loja_id"         validate:"omitempty,uuid"`
}

type AtualizarUsuarioRequest struct {
	Nome          string  `json:"nome"           validate:"omitempty,min=2,max=100"`
	Papel         string  `json:"papel"          validate:"omitempty,oneof=funcionaria gerente administrador super_admin"`
	OrganizacaoID *string `json:"organizacao_id" validate:"omitempty,uuid"`
	LojaID        *string `json:"loja_id"        validate:"omitempty,uuid"`
}

type RedefinirSenhaRequest struct {
	NovaSenha string `json:"nova_senha" validate:"required,min=6"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID            string  `json:"id"`
	Nome          string  `json:"nome"`
	Email         string  `json:"email"`
	Papel         string  `json:"papel"`
	OrganizacaoID *string `json:"organizacao_id"`
	LojaID        *string `json:"loja_id"`
	LojaNome      *string `json:"loja_nome,omitempty"`
	Ativo         bool    `json:"ativo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}

// PerfilResponse is what GET /v1/me returns: the cached view of the caller.
type PerfilResponse struct {
	ID            string  `json:"id"`
	Nome          string  `json:"nome"`
	Email         string  `json:"email"`
	Papel         string  `json:"papel"`
	OrganizacaoID *string `json:"organizacao_id"`
}
