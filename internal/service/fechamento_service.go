package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/cache"
	"github.com/Yodaime/cash-flow-keeper/internal/conciliacao"
	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/model"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"
	"github.com/Yodaime/cash-flow-keeper/internal/planilha"
	"github.com/Yodaime/cash-flow-keeper/internal/repository"
	"github.com/Yodaime/cash-flow-keeper/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	FormatoCSV  = "csv"
	FormatoXLSX = "xlsx"
)

// EmailEnfileirador queues outgoing e-mail; *worker.Dispatcher implements it.
type EmailEnfileirador interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
}

type FechamentoService interface {
	Criar(ctx context.Context, ator cache.Perfil, req dto.CriarFechamentoRequest) (*dto.FechamentoResponse, error)
	Atualizar(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.AtualizarFechamentoRequest) (*dto.FechamentoResponse, error)
	Aprovar(ctx context.Context, ator cache.Perfil, id uuid.UUID) (*dto.FechamentoResponse, error)
	Excluir(ctx context.Context, ator cache.Perfil, id uuid.UUID) error
	Obter(ctx context.Context, ator cache.Perfil, id uuid.UUID) (*dto.FechamentoResponse, error)
	Listar(ctx context.Context, ator cache.Perfil, filtro dto.FiltroFechamentos) ([]dto.FechamentoResponse, error)
	Resumo(ctx context.Context, ator cache.Perfil, filtro dto.FiltroFechamentos) (*conciliacao.Resumo, error)
	Evolucao(ctx context.Context, ator cache.Perfil, filtro dto.FiltroFechamentos) ([]conciliacao.PontoDiario, error)
	Importar(ctx context.Context, ator cache.Perfil, r io.Reader, formato string) (*dto.ImportacaoResponse, error)
	Exportar(ctx context.Context, ator cache.Perfil, filtro dto.FiltroFechamentos, formato string, w io.Writer) error
}

type fechamentoService struct {
	repo        repository.FechamentoRepository
	lojaRepo    repository.LojaRepository
	motor       *conciliacao.Motor
	emails      EmailEnfileirador
	alertaEmail string
	agora       func() time.Time
}

// NewFechamentoService wires the closing workflow. emails may be nil, in which
// case discrepancy alerts are not sent.
func NewFechamentoService(
	repo repository.FechamentoRepository,
	lojaRepo repository.LojaRepository,
	motor *conciliacao.Motor,
	emails EmailEnfileirador,
	alertaEmail string,
) FechamentoService {
	return &fechamentoService{
		repo:        repo,
		lojaRepo:    lojaRepo,
		motor:       motor,
		emails:      emails,
		alertaEmail: alertaEmail,
		agora:       time.Now,
	}
}

// ── Criar ─────────────────────────────────────────────────────────────────────

func (s *fechamentoService) Criar(ctx context.Context, ator cache.Perfil, req dto.CriarFechamentoRequest) (*dto.FechamentoResponse, error) {
	lojaID, err := uuid.Parse(req.LojaID)
	if err != nil {
		return nil, fmt.Errorf("%w: loja_id", ErrEntradaInvalida)
	}
	loja, err := s.lojaVisivel(ctx, ator, lojaID)
	if err != nil {
		return nil, err
	}
	data, err := planilha.ParseData(req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntradaInvalida, err.Error())
	}
	inicial, esperado, contado := centavos(req.ValorInicial), centavos(req.ValorEsperado), centavos(req.ValorContado)
	if err := validarValores(inicial, esperado, contado); err != nil {
		return nil, err
	}

	dif, status := s.motor.Conciliar(esperado, contado)
	f := &model.Fechamento{
		LojaID:        loja.ID,
		OrganizacaoID: loja.OrganizacaoID,
		Data:          data,
		ValorInicial:  inicial,
		ValorEsperado: esperado,
		ValorContado:  contado,
		Diferenca:     dif,
		Status:        string(status),
		Observacoes:   req.Observacoes,
		CriadoPorID:   ator.UsuarioID,
		CriadoPorNome: ator.Nome,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, traduzir(err, "fechamento")
	}
	f.Loja = loja

	if status == conciliacao.StatusAtencao {
		s.alertar(ctx, []*model.Fechamento{f})
	}
	resp := fechamentoResponse(f)
	return &resp, nil
}

// ── Atualizar ─────────────────────────────────────────────────────────────────

func (s *fechamentoService) Atualizar(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.AtualizarFechamentoRequest) (*dto.FechamentoResponse, error) {
	if err := exigir(permissao.PodeAprovar(papel(ator)), "editar fechamento"); err != nil {
		return nil, err
	}
	f, err := s.buscar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	if err := conciliacao.PodeEditar(conciliacao.Status(f.Status)); err != nil {
		return nil, err
	}

	if req.LojaID != nil {
		lojaID, err := uuid.Parse(*req.LojaID)
		if err != nil {
			return nil, fmt.Errorf("%w: loja_id", ErrEntradaInvalida)
		}
		loja, err := s.lojaVisivel(ctx, ator, lojaID)
		if err != nil {
			return nil, err
		}
		f.LojaID, f.OrganizacaoID, f.Loja = loja.ID, loja.OrganizacaoID, loja
	}
	if req.Data != nil {
		data, err := planilha.ParseData(*req.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrEntradaInvalida, err.Error())
		}
		f.Data = data
	}
	if req.ValorInicial != nil {
		f.ValorInicial = centavos(*req.ValorInicial)
	}
	if req.ValorEsperado != nil {
		f.ValorEsperado = centavos(*req.ValorEsperado)
	}
	if req.ValorContado != nil {
		f.ValorContado = centavos(*req.ValorContado)
	}
	if req.Observacoes != nil {
		f.Observacoes = req.Observacoes
	}
	if err := validarValores(f.ValorInicial, f.ValorEsperado, f.ValorContado); err != nil {
		return nil, err
	}

	anterior := f.Status
	dif, status := s.motor.Conciliar(f.ValorEsperado, f.ValorContado)
	f.Diferenca, f.Status = dif, string(status)

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, traduzir(err, "fechamento")
	}
	if status == conciliacao.StatusAtencao && anterior != f.Status {
		s.alertar(ctx, []*model.Fechamento{f})
	}
	resp := fechamentoResponse(f)
	return &resp, nil
}

// ── Aprovar ───────────────────────────────────────────────────────────────────
// ok | atencao → aprovado, stamping the validator. Approving an approved
// closing returns it untouched so validado_em keeps the first approval.

func (s *fechamentoService) Aprovar(ctx context.Context, ator cache.Perfil, id uuid.UUID) (*dto.FechamentoResponse, error) {
	if err := exigir(permissao.PodeAprovar(papel(ator)), "aprovar fechamento"); err != nil {
		return nil, err
	}
	f, err := s.buscar(ctx, ator, id)
	if err != nil {
		return nil, err
	}

	novo, mudou, err := conciliacao.Aprovar(conciliacao.Status(f.Status))
	if err != nil {
		return nil, err
	}
	if mudou {
		agora := s.agora()
		f.Status = string(novo)
		f.ValidadoPorID = &ator.UsuarioID
		f.ValidadoPorNome = strPtr(ator.Nome)
		f.ValidadoEm = &agora
		if err := s.repo.Update(ctx, f); err != nil {
			return nil, traduzir(err, "fechamento")
		}
		log.Info().Str("fechamento_id", f.ID.String()).Str("validado_por", ator.UsuarioID.String()).Msg("fechamento aprovado")
	}
	resp := fechamentoResponse(f)
	return &resp, nil
}

// ── Excluir / Obter / Listar ─────────────────────────────────────────────────

func (s *fechamentoService) Excluir(ctx context.Context, ator cache.Perfil, id uuid.UUID) error {
	if err := exigir(permissao.PodeExcluir(papel(ator)), "excluir fechamento"); err != nil {
		return err
	}
	if _, err := s.buscar(ctx, ator, id); err != nil {
		return err
	}
	return traduzir(s.repo.Delete(ctx, id), "fechamento")
}

func (s *fechamentoService) Obter(ctx context.Context, ator cache.Perfil, id uuid.UUID) (*dto.FechamentoResponse, error) {
	f, err := s.buscar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	resp := fechamentoResponse(f)
	return &resp, nil
}

func (s *fechamentoService) Listar(ctx context.Context, ator cache.Perfil, filtro dto.FiltroFechamentos) ([]dto.FechamentoResponse, error) {
	fs, err := s.listar(ctx, ator, filtro)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FechamentoResponse, len(fs))
	for i := range fs {
		out[i] = fechamentoResponse(&fs[i])
	}
	return out, nil
}

func (s *fechamentoService) Resumo(ctx context.Context, ator cache.Perfil, filtro dto.FiltroFechamentos) (*conciliacao.Resumo, error) {
	fs, err := s.listar(ctx, ator, filtro)
	if err != nil {
		return nil, err
	}
	r := conciliacao.Resumir(leituras(fs))
	return &r, nil
}

func (s *fechamentoService) Evolucao(ctx context.Context, ator cache.Perfil, filtro dto.FiltroFechamentos) ([]conciliacao.PontoDiario, error) {
	fs, err := s.listar(ctx, ator, filtro)
	if err != nil {
		return nil, err
	}
	return conciliacao.SerieDiaria(leituras(fs)), nil
}

// ── Importar ──────────────────────────────────────────────────────────────────
// Store codes resolve within the actor's tenant. A code shared by stores of
// different organizations (super_admin) is reported per row, never guessed.
// Valid rows go in a single transaction; invalid rows are only reported.

func (s *fechamentoService) Importar(ctx context.Context, ator cache.Perfil, r io.Reader, formato string) (*dto.ImportacaoResponse, error) {
	if err := exigir(permissao.PodeAprovar(papel(ator)), "importar fechamentos"); err != nil {
		return nil, err
	}
	lojas, err := s.lojaRepo.List(ctx, escopoDe(ator))
	if err != nil {
		return nil, err
	}
	indice := planilha.NovoIndiceLojas()
	porID := make(map[uuid.UUID]*model.Loja, len(lojas))
	for i := range lojas {
		indice.Adicionar(lojas[i].ID, lojas[i].Codigo, "")
		porID[lojas[i].ID] = &lojas[i]
	}
	resolver := planilha.ResolverLoja(indice.PorCodigo)

	var (
		linhas []planilha.LinhaFechamento
		erros  []string
	)
	switch formato {
	case FormatoXLSX:
		linhas, erros, err = planilha.LerFechamentosXLSX(r, resolver)
	case FormatoCSV, "":
		linhas, erros, err = planilha.LerFechamentos(r, resolver)
	default:
		return nil, fmt.Errorf("%w: formato %q não suportado", ErrEntradaInvalida, formato)
	}
	if err != nil {
		if errors.Is(err, planilha.ErrArquivoVazio) {
			return nil, fmt.Errorf("%w: %s", ErrEntradaInvalida, err.Error())
		}
		return nil, err
	}

	novos := make([]model.Fechamento, 0, len(linhas))
	for _, l := range linhas {
		loja := porID[l.LojaID]
		esperado, contado := centavos(l.Esperado), centavos(l.Contado)
		dif, status := s.motor.Conciliar(esperado, contado)
		f := model.Fechamento{
			LojaID:        l.LojaID,
			OrganizacaoID: loja.OrganizacaoID,
			Data:          l.Data,
			ValorInicial:  decimal.Zero,
			ValorEsperado: esperado,
			ValorContado:  contado,
			Diferenca:     dif,
			Status:        string(status),
			CriadoPorID:   ator.UsuarioID,
			CriadoPorNome: ator.Nome,
		}
		if l.Observacoes != "" {
			f.Observacoes = strPtr(l.Observacoes)
		}
		novos = append(novos, f)
	}
	if err := s.repo.CreateEmLote(ctx, novos); err != nil {
		return nil, traduzir(err, "fechamento")
	}

	var alertas []*model.Fechamento
	for i := range novos {
		if novos[i].Status == string(conciliacao.StatusAtencao) {
			novos[i].Loja = porID[novos[i].LojaID]
			alertas = append(alertas, &novos[i])
		}
	}
	s.alertar(ctx, alertas)

	if erros == nil {
		erros = []string{}
	}
	log.Info().Int("importados", len(novos)).Int("erros", len(erros)).Msg("importação de fechamentos")
	return &dto.ImportacaoResponse{
		Total:      len(novos) + len(erros),
		Importados: len(novos),
		Erros:      erros,
	}, nil
}

// ── Exportar ──────────────────────────────────────────────────────────────────

func (s *fechamentoService) Exportar(ctx context.Context, ator cache.Perfil, filtro dto.FiltroFechamentos, formato string, w io.Writer) error {
	fs, err := s.listar(ctx, ator, filtro)
	if err != nil {
		return err
	}
	linhas := make([]planilha.LinhaExportacao, len(fs))
	for i, f := range fs {
		l := planilha.LinhaExportacao{
			Data:      f.Data,
			Esperado:  f.ValorEsperado,
			Contado:   f.ValorContado,
			Diferenca: f.Diferenca,
			Status:    f.Status,
		}
		if f.Loja != nil {
			l.CodigoLoja, l.NomeLoja = f.Loja.Codigo, f.Loja.Nome
		}
		if f.Observacoes != nil {
			l.Observacoes = *f.Observacoes
		}
		linhas[i] = l
	}

	switch formato {
	case FormatoXLSX:
		return planilha.FechamentosXLSX(w, linhas)
	case FormatoCSV, "":
		return planilha.EscreverFechamentos(w, linhas)
	}
	return fmt.Errorf("%w: formato %q não suportado", ErrEntradaInvalida, formato)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// buscar loads a closing and hides it when it belongs to another tenant.
func (s *fechamentoService) buscar(ctx context.Context, ator cache.Perfil, id uuid.UUID) (*model.Fechamento, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traduzir(err, "fechamento")
	}
	if !escopoDe(ator).Permite(f.OrganizacaoID) {
		return nil, fmt.Errorf("%w: fechamento", ErrNaoEncontrado)
	}
	return f, nil
}

func (s *fechamentoService) lojaVisivel(ctx context.Context, ator cache.Perfil, id uuid.UUID) (*model.Loja, error) {
	l, err := s.lojaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, traduzir(err, "loja")
	}
	if !escopoDe(ator).Permite(l.OrganizacaoID) {
		return nil, fmt.Errorf("%w: loja", ErrNaoEncontrado)
	}
	return l, nil
}

func (s *fechamentoService) listar(ctx context.Context, ator cache.Perfil, filtro dto.FiltroFechamentos) ([]model.Fechamento, error) {
	f, err := filtroRepo(filtro)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, escopoDe(ator), f)
}

func filtroRepo(filtro dto.FiltroFechamentos) (repository.FiltroFechamento, error) {
	var f repository.FiltroFechamento
	if filtro.LojaID != "" {
		id, err := uuid.Parse(filtro.LojaID)
		if err != nil {
			return f, fmt.Errorf("%w: loja_id", ErrEntradaInvalida)
		}
		f.LojaID = &id
	}
	if filtro.DataInicio != "" {
		d, err := planilha.ParseData(filtro.DataInicio)
		if err != nil {
			return f, fmt.Errorf("%w: data_inicio", ErrEntradaInvalida)
		}
		f.Inicio = &d
	}
	if filtro.DataFim != "" {
		d, err := planilha.ParseData(filtro.DataFim)
		if err != nil {
			return f, fmt.Errorf("%w: data_fim", ErrEntradaInvalida)
		}
		f.Fim = &d
	}
	if filtro.Status != "" {
		if !conciliacao.Status(filtro.Status).Valid() {
			return f, fmt.Errorf("%w: status", ErrEntradaInvalida)
		}
		f.Status = filtro.Status
	}
	return f, nil
}

// centavos rounds to the decimal(12,2) the columns store, so the difference
// and status are computed on the persisted amounts.
func centavos(v decimal.Decimal) decimal.Decimal { return v.Round(2) }

func validarValores(vs ...decimal.Decimal) error {
	for _, v := range vs {
		if v.IsNegative() {
			return fmt.Errorf("%w: valores não podem ser negativos", ErrEntradaInvalida)
		}
	}
	return nil
}

// alertar queues one e-mail listing every closing above tolerance. Failures
// are logged; the closing is already stored.
func (s *fechamentoService) alertar(ctx context.Context, fs []*model.Fechamento) {
	if len(fs) == 0 || s.emails == nil || s.alertaEmail == "" {
		return
	}
	var b strings.Builder
	b.WriteString("Fechamentos com diferença acima da tolerância de R$ ")
	b.WriteString(planilha.FormatarValorBR(s.motor.Tolerancia()))
	b.WriteString(":\n\n")
	for _, f := range fs {
		loja := f.LojaID.String()
		if f.Loja != nil {
			loja = f.Loja.Codigo + " - " + f.Loja.Nome
		}
		fmt.Fprintf(&b, "%s | %s | esperado R$ %s | contado R$ %s | diferença R$ %s\n",
			f.Data.Format("02/01/2006"), loja,
			planilha.FormatarValorBR(f.ValorEsperado),
			planilha.FormatarValorBR(f.ValorContado),
			planilha.FormatarValorBR(f.Diferenca))
	}

	assunto := "Alerta de diferença de caixa"
	if len(fs) > 1 {
		assunto = fmt.Sprintf("Alerta de diferença de caixa (%d fechamentos)", len(fs))
	}
	err := s.emails.EnqueueEmail(ctx, worker.EmailJobPayload{
		To:      destinatarios(s.alertaEmail),
		Subject: assunto,
		Body:    b.String(),
	})
	if err != nil {
		log.Error().Err(err).Msg("falha ao enfileirar alerta de diferença")
	}
}

func destinatarios(lista string) []string {
	var out []string
	for _, e := range strings.Split(lista, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func leituras(fs []model.Fechamento) []conciliacao.Leitura {
	out := make([]conciliacao.Leitura, len(fs))
	for i, f := range fs {
		out[i] = conciliacao.Leitura{
			Data:      f.Data,
			Esperado:  f.ValorEsperado,
			Contado:   f.ValorContado,
			Diferenca: f.Diferenca,
			Status:    conciliacao.Status(f.Status),
		}
	}
	return out
}

func fechamentoResponse(f *model.Fechamento) dto.FechamentoResponse {
	r := dto.FechamentoResponse{
		ID:              f.ID.String(),
		Data:            f.Data.Format("2006-01-02"),
		LojaID:          f.LojaID.String(),
		OrganizacaoID:   idPtr(f.OrganizacaoID),
		ValorInicial:    f.ValorInicial,
		ValorEsperado:   f.ValorEsperado,
		ValorContado:    f.ValorContado,
		Diferenca:       f.Diferenca,
		Status:          f.Status,
		Observacoes:     f.Observacoes,
		CriadoPor:       f.CriadoPorID.String(),
		CriadoPorNome:   f.CriadoPorNome,
		ValidadoPor:     idPtr(f.ValidadoPorID),
		ValidadoPorNome: f.ValidadoPorNome,
		CreatedAt:       f.CreatedAt.Format(time.RFC3339),
	}
	if f.Loja != nil {
		r.LojaNome, r.LojaCodigo = f.Loja.Nome, f.Loja.Codigo
	}
	if f.ValidadoEm != nil {
		r.ValidadoEm = strPtr(f.ValidadoEm.Format(time.RFC3339))
	}
	return r
}
