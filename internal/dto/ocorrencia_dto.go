package dto

type CriarOcorrenciaRequest struct {
	Descricao string  `json:"descricao" validate:"required,min=3,max=2000"`
	LojaID    *string `json:"loja_id"   validate:"omitempty,uuid"`
}

type AtualizarOcorrenciaRequest struct {
	Descricao *string `json:"descricao" validate:"omitempty,min=3,max=2000"`
	Status    *string `json:"status"    validate:"omitempty,oneof=pending resolved"`
}

type OcorrenciaResponse struct {
	ID           string  `json:"id"`
	Descricao    string  `json:"descricao"`
	Status       string  `json:"status"`
	UsuarioID    string  `json:"usuario_id"`
	UsuarioNome  string  `json:"usuario_nome"`
	UsuarioEmail string  `json:"usuario_email"`
	LojaID       *string `json:"loja_id"`
	LojaNome     *string `json:"loja_nome"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type CriarSolicitacaoRequest struct {
	Nome  string `json:"nome"  validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

type RevisarSolicitacaoRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type SolicitacaoResponse struct {
	ID          string  `json:"id"`
	Nome        string  `json:"nome"`
	Email       string  `json:"email"`
	Status      string  `json:"status"`
	RevisadoPor *string `json:"revisado_por"`
	RevisadoEm  *string `json:"revisado_em"`
	CreatedAt   string  `json:"created_at"`
}

type ContagemResponse struct {
	Total int64 `json:"total"`
}
