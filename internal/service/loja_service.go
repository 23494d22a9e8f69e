package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/cache"
	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/model"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"
	"github.com/Yodaime/cash-flow-keeper/internal/repository"

	"github.com/google/uuid"
)

type LojaService interface {
	Criar(ctx context.Context, ator cache.Perfil, req dto.LojaRequest) (*dto.LojaResponse, error)
	Atualizar(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.LojaRequest) (*dto.LojaResponse, error)
	Excluir(ctx context.Context, ator cache.Perfil, id uuid.UUID) error
	Obter(ctx context.Context, ator cache.Perfil, id uuid.UUID) (*dto.LojaResponse, error)
	Listar(ctx context.Context, ator cache.Perfil) ([]dto.LojaResponse, error)
}

type lojaService struct {
	repo repository.LojaRepository
}

func NewLojaService(repo repository.LojaRepository) LojaService {
	return &lojaService{repo: repo}
}

func (s *lojaService) Criar(ctx context.Context, ator cache.Perfil, req dto.LojaRequest) (*dto.LojaResponse, error) {
	if err := exigir(permissao.PodeGerenciarLojas(papel(ator)), "gerenciar lojas"); err != nil {
		return nil, err
	}
	org, err := organizacaoAlvo(ator, req.OrganizacaoID)
	if err != nil {
		return nil, err
	}
	l := &model.Loja{
		OrganizacaoID: org,
		Nome:          strings.TrimSpace(req.Nome),
		Codigo:        strings.ToUpper(strings.TrimSpace(req.Codigo)),
		Unidade:       req.Unidade,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, traduzir(err, "código de loja")
	}
	resp := lojaResponse(l)
	return &resp, nil
}

func (s *lojaService) Atualizar(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.LojaRequest) (*dto.LojaResponse, error) {
	if err := exigir(permissao.PodeGerenciarLojas(papel(ator)), "gerenciar lojas"); err != nil {
		return nil, err
	}
	l, err := s.buscar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	if req.OrganizacaoID != nil {
		org, err := organizacaoAlvo(ator, req.OrganizacaoID)
		if err != nil {
			return nil, err
		}
		l.OrganizacaoID = org
	}
	l.Nome = strings.TrimSpace(req.Nome)
	l.Codigo = strings.ToUpper(strings.TrimSpace(req.Codigo))
	l.Unidade = req.Unidade
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, traduzir(err, "código de loja")
	}
	resp := lojaResponse(l)
	return &resp, nil
}

func (s *lojaService) Excluir(ctx context.Context, ator cache.Perfil, id uuid.UUID) error {
	if err := exigir(permissao.PodeGerenciarLojas(papel(ator)), "gerenciar lojas"); err != nil {
		return err
	}
	if _, err := s.buscar(ctx, ator, id); err != nil {
		return err
	}
	return traduzir(s.repo.Delete(ctx, id), "loja")
}

func (s *lojaService) Obter(ctx context.Context, ator cache.Perfil, id uuid.UUID) (*dto.LojaResponse, error) {
	l, err := s.buscar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	resp := lojaResponse(l)
	return &resp, nil
}

func (s *lojaService) Listar(ctx context.Context, ator cache.Perfil) ([]dto.LojaResponse, error) {
	ls, err := s.repo.List(ctx, escopoDe(ator))
	if err != nil {
		return nil, err
	}
	out := make([]dto.LojaResponse, len(ls))
	for i := range ls {
		out[i] = lojaResponse(&ls[i])
	}
	return out, nil
}

func (s *lojaService) buscar(ctx context.Context, ator cache.Perfil, id uuid.UUID) (*model.Loja, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traduzir(err, "loja")
	}
	if !escopoDe(ator).Permite(l.OrganizacaoID) {
		return nil, fmt.Errorf("%w: loja", ErrNaoEncontrado)
	}
	return l, nil
}

// organizacaoAlvo decides which tenant a new record belongs to. Only
// super_admin may name one; everyone else writes into their own.
func organizacaoAlvo(ator cache.Perfil, pedida *string) (*uuid.UUID, error) {
	if !permissao.PodeGerenciarOrganizacoes(papel(ator)) {
		if pedida != nil && *pedida != "" && (ator.OrganizacaoID == nil || *pedida != ator.OrganizacaoID.String()) {
			return nil, fmt.Errorf("%w: organização de outro tenant", ErrSemPermissao)
		}
		return ator.OrganizacaoID, nil
	}
	if pedida == nil || *pedida == "" {
		return ator.OrganizacaoID, nil
	}
	return parseIDPtr(pedida, "organizacao_id")
}

func lojaResponse(l *model.Loja) dto.LojaResponse {
	return dto.LojaResponse{
		ID:            l.ID.String(),
		Nome:          l.Nome,
		Codigo:        l.Codigo,
		Unidade:       l.Unidade,
		OrganizacaoID: idPtr(l.OrganizacaoID),
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
	}
}
