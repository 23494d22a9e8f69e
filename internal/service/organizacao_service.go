package service

import (
	"context"
	"strings"
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/cache"
	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/model"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"
	"github.com/Yodaime/cash-flow-keeper/internal/repository"

	"github.com/google/uuid"
)

type OrganizacaoService interface {
	Criar(ctx context.Context, ator cache.Perfil, req dto.OrganizacaoRequest) (*dto.OrganizacaoResponse, error)
	Atualizar(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.OrganizacaoRequest) (*dto.OrganizacaoResponse, error)
	Excluir(ctx context.Context, ator cache.Perfil, id uuid.UUID) error
	Listar(ctx context.Context, ator cache.Perfil) ([]dto.OrganizacaoResponse, error)
}

type organizacaoService struct {
	repo repository.OrganizacaoRepository
}

func NewOrganizacaoService(repo repository.OrganizacaoRepository) OrganizacaoService {
	return &organizacaoService{repo: repo}
}

func (s *organizacaoService) Criar(ctx context.Context, ator cache.Perfil, req dto.OrganizacaoRequest) (*dto.OrganizacaoResponse, error) {
	if err := exigir(permissao.PodeGerenciarOrganizacoes(papel(ator)), "gerenciar organizações"); err != nil {
		return nil, err
	}
	o := &model.Organizacao{
		Nome:   strings.TrimSpace(req.Nome),
		Codigo: strings.ToUpper(strings.TrimSpace(req.Codigo)),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, traduzir(err, "código de organização")
	}
	resp := organizacaoResponse(o)
	return &resp, nil
}

func (s *organizacaoService) Atualizar(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.OrganizacaoRequest) (*dto.OrganizacaoResponse, error) {
	if err := exigir(permissao.PodeGerenciarOrganizacoes(papel(ator)), "gerenciar organizações"); err != nil {
		return nil, err
	}
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traduzir(err, "organização")
	}
	o.Nome = strings.TrimSpace(req.Nome)
	o.Codigo = strings.ToUpper(strings.TrimSpace(req.Codigo))
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, traduzir(err, "código de organização")
	}
	resp := organizacaoResponse(o)
	return &resp, nil
}

// Excluir fails with ErrConflito while stores or users still reference the tenant.
func (s *organizacaoService) Excluir(ctx context.Context, ator cache.Perfil, id uuid.UUID) error {
	if err := exigir(permissao.PodeGerenciarOrganizacoes(papel(ator)), "gerenciar organizações"); err != nil {
		return err
	}
	return traduzir(s.repo.Delete(ctx, id), "organização")
}

func (s *organizacaoService) Listar(ctx context.Context, ator cache.Perfil) ([]dto.OrganizacaoResponse, error) {
	if err := exigir(permissao.PodeVerTodasOrganizacoes(papel(ator)), "listar organizações"); err != nil {
		return nil, err
	}
	orgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrganizacaoResponse, len(orgs))
	for i := range orgs {
		out[i] = organizacaoResponse(&orgs[i])
	}
	return out, nil
}

func organizacaoResponse(o *model.Organizacao) dto.OrganizacaoResponse {
	return dto.OrganizacaoResponse{
		ID:        o.ID.String(),
		Nome:      o.Nome,
		Codigo:    o.Codigo,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
		UpdatedAt: o.UpdatedAt.Format(time.RFC3339),
	}
}
