package service

import (
	"context"
	"strings"
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/cache"
	"github.com/Yodaime/cash-flow-keeper/internal/conciliacao"
	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/infra"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"
	"github.com/Yodaime/cash-flow-keeper/internal/repository"
)

// Analisador is the remote analysis endpoint; *infra.AnaliseClient implements it.
type Analisador interface {
	Analisar(ctx context.Context, pergunta string, stats infra.EstatisticasAnalise) (string, error)
}

type AnaliseService interface {
	Analisar(ctx context.Context, ator cache.Perfil, pergunta string) (*dto.AnaliseResponse, error)
}

type analiseService struct {
	repo    repository.FechamentoRepository
	cliente Analisador
	agora   func() time.Time
}

func NewAnaliseService(repo repository.FechamentoRepository, cliente Analisador) AnaliseService {
	return &analiseService{repo: repo, cliente: cliente, agora: time.Now}
}

// Analisar summarizes the current month's closings visible to the actor and
// asks the endpoint about them. Errors from the client (including
// infra.ErrCircuitOpen and infra.ErrAnaliseNaoConfigurada) pass through.
func (s *analiseService) Analisar(ctx context.Context, ator cache.Perfil, pergunta string) (*dto.AnaliseResponse, error) {
	if err := exigir(permissao.PodeAprovar(papel(ator)), "consultar análise"); err != nil {
		return nil, err
	}
	inicio, fim := mesCorrente(s.agora())
	fs, err := s.repo.List(ctx, escopoDe(ator), repository.FiltroFechamento{Inicio: &inicio, Fim: &fim})
	if err != nil {
		return nil, err
	}
	resumo := conciliacao.Resumir(leituras(fs))

	resposta, err := s.cliente.Analisar(ctx, strings.TrimSpace(pergunta), infra.EstatisticasDe(resumo))
	if err != nil {
		return nil, err
	}
	return &dto.AnaliseResponse{Resposta: resposta}, nil
}

// mesCorrente returns the first and last calendar day of t's month.
func mesCorrente(t time.Time) (time.Time, time.Time) {
	inicio := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return inicio, inicio.AddDate(0, 1, -1)
}
