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

const (
	OcorrenciaPendente  = "pending"
	OcorrenciaResolvida = "resolved"
)

// OcorrenciaService handles problems staff report about a closing.
type OcorrenciaService interface {
	Criar(ctx context.Context, ator cache.Perfil, req dto.CriarOcorrenciaRequest) (*dto.OcorrenciaResponse, error)
	Atualizar(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.AtualizarOcorrenciaRequest) (*dto.OcorrenciaResponse, error)
	Excluir(ctx context.Context, ator cache.Perfil, id uuid.UUID) error
	Listar(ctx context.Context, ator cache.Perfil) ([]dto.OcorrenciaResponse, error)
}

type ocorrenciaService struct {
	repo     repository.OcorrenciaRepository
	lojaRepo repository.LojaRepository
}

func NewOcorrenciaService(repo repository.OcorrenciaRepository, lojaRepo repository.LojaRepository) OcorrenciaService {
	return &ocorrenciaService{repo: repo, lojaRepo: lojaRepo}
}

func (s *ocorrenciaService) Criar(ctx context.Context, ator cache.Perfil, req dto.CriarOcorrenciaRequest) (*dto.OcorrenciaResponse, error) {
	o := &model.OcorrenciaFechamento{
		UsuarioID:     ator.UsuarioID,
		OrganizacaoID: ator.OrganizacaoID,
		Descricao:     strings.TrimSpace(req.Descricao),
		Status:        OcorrenciaPendente,
	}
	lojaID, err := parseIDPtr(req.LojaID, "loja_id")
	if err != nil {
		return nil, err
	}
	if lojaID != nil {
		l, err := s.lojaRepo.FindByID(ctx, *lojaID)
		if err != nil {
			return nil, traduzir(err, "loja")
		}
		if !escopoDe(ator).Permite(l.OrganizacaoID) {
			return nil, fmt.Errorf("%w: loja", ErrNaoEncontrado)
		}
		o.LojaID, o.OrganizacaoID, o.Loja = &l.ID, l.OrganizacaoID, l
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, traduzir(err, "ocorrência")
	}
	o.Usuario = &model.Usuario{ID: ator.UsuarioID, Nome: ator.Nome, Email: ator.Email}
	resp := ocorrenciaResponse(o)
	return &resp, nil
}

func (s *ocorrenciaService) Atualizar(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.AtualizarOcorrenciaRequest) (*dto.OcorrenciaResponse, error) {
	if err := exigir(permissao.PodeAprovar(papel(ator)), "atualizar ocorrência"); err != nil {
		return nil, err
	}
	o, err := s.buscar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	if req.Descricao != nil {
		o.Descricao = strings.TrimSpace(*req.Descricao)
	}
	if req.Status != nil {
		if *req.Status != OcorrenciaPendente && *req.Status != OcorrenciaResolvida {
			return nil, fmt.Errorf("%w: status %q", ErrEntradaInvalida, *req.Status)
		}
		o.Status = *req.Status
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, traduzir(err, "ocorrência")
	}
	resp := ocorrenciaResponse(o)
	return &resp, nil
}

func (s *ocorrenciaService) Excluir(ctx context.Context, ator cache.Perfil, id uuid.UUID) error {
	if err := exigir(permissao.PodeExcluir(papel(ator)), "excluir ocorrência"); err != nil {
		return err
	}
	if _, err := s.buscar(ctx, ator, id); err != nil {
		return err
	}
	return traduzir(s.repo.Delete(ctx, id), "ocorrência")
}

func (s *ocorrenciaService) Listar(ctx context.Context, ator cache.Perfil) ([]dto.OcorrenciaResponse, error) {
	if err := exigir(permissao.PodeAprovar(papel(ator)), "listar ocorrências"); err != nil {
		return nil, err
	}
	ocs, err := s.repo.List(ctx, escopoDe(ator))
	if err != nil {
		return nil, err
	}
	out := make([]dto.OcorrenciaResponse, len(ocs))
	for i := range ocs {
		out[i] = ocorrenciaResponse(&ocs[i])
	}
	return out, nil
}

func (s *ocorrenciaService) buscar(ctx context.Context, ator cache.Perfil, id uuid.UUID) (*model.OcorrenciaFechamento, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traduzir(err, "ocorrência")
	}
	if !escopoDe(ator).Permite(o.OrganizacaoID) {
		return nil, fmt.Errorf("%w: ocorrência", ErrNaoEncontrado)
	}
	return o, nil
}

func ocorrenciaResponse(o *model.OcorrenciaFechamento) dto.OcorrenciaResponse {
	r := dto.OcorrenciaResponse{
		ID:        o.ID.String(),
		Descricao: o.Descricao,
		Status:    o.Status,
		UsuarioID: o.UsuarioID.String(),
		LojaID:    idPtr(o.LojaID),
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
		UpdatedAt: o.UpdatedAt.Format(time.RFC3339),
	}
	if o.Usuario != nil {
		r.UsuarioNome, r.UsuarioEmail = o.Usuario.Nome, o.Usuario.Email
	}
	if o.Loja != nil {
		r.LojaNome = strPtr(o.Loja.Nome)
	}
	return r
}
