package dto

type LojaRequest struct {
	Nome          string  `json:"nome"           validate:"required,min=2,max=100"`
	Codigo        string  `json:"codigo"         validate:"required,min=1,max=30"`
	Unidade       *string `json:"unidade"        validate:"omitempty,max=100"`
	OrganizacaoID *string `json:"organizacao_id" validate:"omitempty,uuid"` // super_admin only
}

type LojaResponse struct {
	ID            string  `json:"id"`
	Nome          string  `json:"nome"`
	Codigo        string  `json:"codigo"`
	Unidade       *string `json:"unidade"`
	OrganizacaoID *string `json:"organizacao_id"`
	CreatedAt     string  `json:"created_at"`
}

type OrganizacaoRequest struct {
	Nome   string `json:"nome"   validate:"required,min=2,max=100"`
	Codigo string `json:"codigo" validate:"required,min=1,max=30"`
}

type OrganizacaoResponse struct {
	ID        string `json:"id"`
	Nome      string `json:"nome"`
	Codigo    string `json:"codigo"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
