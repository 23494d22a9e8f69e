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
	"github.com/Yodaime/cash-flow-keeper/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	SolicitacaoPendente  = "pending"
	SolicitacaoAprovada  = "approved"
	SolicitacaoRejeitada = "rejected"
)

// SolicitacaoService manages account requests from the public sign-up form.
// Approving a request does not create the user; an administrator does that
// separately with the role and store of their choice.
type SolicitacaoService interface {
	Criar(ctx context.Context, req dto.CriarSolicitacaoRequest) (*dto.SolicitacaoResponse, error)
	Listar(ctx context.Context, ator cache.Perfil, status string) ([]dto.SolicitacaoResponse, error)
	ContarPendentes(ctx context.Context, ator cache.Perfil) (int64, error)
	Revisar(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.RevisarSolicitacaoRequest) (*dto.SolicitacaoResponse, error)
	Excluir(ctx context.Context, ator cache.Perfil, id uuid.UUID) error
}

type solicitacaoService struct {
	repo   repository.SolicitacaoRepository
	emails EmailEnfileirador
	agora  func() time.Time
}

func NewSolicitacaoService(repo repository.SolicitacaoRepository, emails EmailEnfileirador) SolicitacaoService {
	return &solicitacaoService{repo: repo, emails: emails, agora: time.Now}
}

func (s *solicitacaoService) Criar(ctx context.Context, req dto.CriarSolicitacaoRequest) (*dto.SolicitacaoResponse, error) {
	sc := &model.SolicitacaoConta{
		Nome:   strings.TrimSpace(req.Nome),
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Status: SolicitacaoPendente,
	}
	if err := s.repo.Create(ctx, sc); err != nil {
		return nil, traduzir(err, "solicitação para este e-mail")
	}
	resp := solicitacaoResponse(sc)
	return &resp, nil
}

func (s *solicitacaoService) Listar(ctx context.Context, ator cache.Perfil, status string) ([]dto.SolicitacaoResponse, error) {
	if err := exigir(permissao.PodeGerenciarUsuarios(papel(ator)), "listar solicitações"); err != nil {
		return nil, err
	}
	switch status {
	case "", SolicitacaoPendente, SolicitacaoAprovada, SolicitacaoRejeitada:
	default:
		return nil, fmt.Errorf("%w: status %q", ErrEntradaInvalida, status)
	}
	ss, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SolicitacaoResponse, len(ss))
	for i := range ss {
		out[i] = solicitacaoResponse(&ss[i])
	}
	return out, nil
}

func (s *solicitacaoService) ContarPendentes(ctx context.Context, ator cache.Perfil) (int64, error) {
	if err := exigir(permissao.PodeGerenciarUsuarios(papel(ator)), "listar solicitações"); err != nil {
		return 0, err
	}
	return s.repo.ContarPendentes(ctx)
}

// Revisar stamps the reviewer and notifies the requester. A request that was
// already reviewed cannot change its outcome.
func (s *solicitacaoService) Revisar(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.RevisarSolicitacaoRequest) (*dto.SolicitacaoResponse, error) {
	if err := exigir(permissao.PodeGerenciarUsuarios(papel(ator)), "revisar solicitação"); err != nil {
		return nil, err
	}
	if req.Status != SolicitacaoAprovada && req.Status != SolicitacaoRejeitada {
		return nil, fmt.Errorf("%w: status %q", ErrEntradaInvalida, req.Status)
	}
	sc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traduzir(err, "solicitação")
	}
	if sc.Status != SolicitacaoPendente {
		return nil, fmt.Errorf("%w: solicitação já revisada", ErrConflito)
	}

	agora := s.agora()
	sc.Status = req.Status
	sc.RevisadoPorID = &ator.UsuarioID
	sc.RevisadoEm = &agora
	if err := s.repo.Update(ctx, sc); err != nil {
		return nil, traduzir(err, "solicitação")
	}
	s.notificar(ctx, sc)

	resp := solicitacaoResponse(sc)
	return &resp, nil
}

func (s *solicitacaoService) Excluir(ctx context.Context, ator cache.Perfil, id uuid.UUID) error {
	if err := exigir(permissao.PodeGerenciarUsuarios(papel(ator)), "excluir solicitação"); err != nil {
		return err
	}
	return traduzir(s.repo.Delete(ctx, id), "solicitação")
}

func (s *solicitacaoService) notificar(ctx context.Context, sc *model.SolicitacaoConta) {
	if s.emails == nil {
		return
	}
	assunto := "Sua solicitação de conta foi aprovada"
	corpo := fmt.Sprintf("Olá %s,\n\nSua solicitação de acesso foi aprovada. Você receberá os dados de acesso do administrador em breve.\n", sc.Nome)
	if sc.Status == SolicitacaoRejeitada {
		assunto = "Sua solicitação de conta não foi aprovada"
		corpo = fmt.Sprintf("Olá %s,\n\nSua solicitação de acesso não foi aprovada. Em caso de dúvida, procure o administrador da sua loja.\n", sc.Nome)
	}
	err := s.emails.EnqueueEmail(ctx, worker.EmailJobPayload{To: []string{sc.Email}, Subject: assunto, Body: corpo})
	if err != nil {
		log.Error().Err(err).Str("solicitacao_id", sc.ID.String()).Msg("falha ao enfileirar e-mail de solicitação")
	}
}

func solicitacaoResponse(sc *model.SolicitacaoConta) dto.SolicitacaoResponse {
	r := dto.SolicitacaoResponse{
		ID:          sc.ID.String(),
		Nome:        sc.Nome,
		Email:       sc.Email,
		Status:      sc.Status,
		RevisadoPor: idPtr(sc.RevisadoPorID),
		CreatedAt:   sc.CreatedAt.Format(time.RFC3339),
	}
	if sc.RevisadoEm != nil {
		r.RevisadoEm = strPtr(sc.RevisadoEm.Format(time.RFC3339))
	}
	return r
}
