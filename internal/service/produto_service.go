package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Yodaime/cash-flow-keeper/internal/cache"
	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/model"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"
	"github.com/Yodaime/cash-flow-keeper/internal/planilha"
	"github.com/Yodaime/cash-flow-keeper/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type ProdutoService interface {
	Criar(ctx context.Context, ator cache.Perfil, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	Atualizar(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Excluir(ctx context.Context, ator cache.Perfil, id uuid.UUID) error
	Listar(ctx context.Context, ator cache.Perfil, lojaID *uuid.UUID) ([]dto.ProdutoResponse, error)
	Importar(ctx context.Context, ator cache.Perfil, r io.Reader) (*dto.ImportacaoResponse, error)
	Exportar(ctx context.Context, ator cache.Perfil, lojaID *uuid.UUID, w io.Writer) error
}

type produtoService struct {
	repo     repository.ProdutoRepository
	lojaRepo repository.LojaRepository
}

func NewProdutoService(repo repository.ProdutoRepository, lojaRepo repository.LojaRepository) ProdutoService {
	return &produtoService{repo: repo, lojaRepo: lojaRepo}
}

func (s *produtoService) Criar(ctx context.Context, ator cache.Perfil, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	if err := exigir(permissao.PodeGerenciarProdutos(papel(ator)), "gerenciar produtos"); err != nil {
		return nil, err
	}
	loja, err := s.loja(ctx, ator, req.LojaID)
	if err != nil {
		return nil, err
	}
	if req.ValorUnitario.IsNegative() {
		return nil, fmt.Errorf("%w: valor_unitario negativo", ErrEntradaInvalida)
	}
	p := &model.Produto{
		Nome:          strings.TrimSpace(req.Nome),
		Tipo:          strings.TrimSpace(req.Tipo),
		LojaID:        &loja.ID,
		OrganizacaoID: loja.OrganizacaoID,
		Quantidade:    req.Quantidade,
		ValorUnitario: req.ValorUnitario,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, traduzir(err, "produto")
	}
	p.Loja = loja
	resp := produtoResponse(p)
	return &resp, nil
}

func (s *produtoService) Atualizar(ctx context.Context, ator cache.Perfil, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	if err := exigir(permissao.PodeGerenciarProdutos(papel(ator)), "gerenciar produtos"); err != nil {
		return nil, err
	}
	p, err := s.buscar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	if req.Nome != nil {
		p.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.Tipo != nil {
		p.Tipo = strings.TrimSpace(*req.Tipo)
	}
	if req.LojaID != nil {
		loja, err := s.loja(ctx, ator, *req.LojaID)
		if err != nil {
			return nil, err
		}
		p.LojaID, p.OrganizacaoID, p.Loja = &loja.ID, loja.OrganizacaoID, loja
	}
	if req.Quantidade != nil {
		p.Quantidade = *req.Quantidade
	}
	if req.ValorUnitario != nil {
		if req.ValorUnitario.IsNegative() {
			return nil, fmt.Errorf("%w: valor_unitario negativo", ErrEntradaInvalida)
		}
		p.ValorUnitario = *req.ValorUnitario
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, traduzir(err, "produto")
	}
	resp := produtoResponse(p)
	return &resp, nil
}

func (s *produtoService) Excluir(ctx context.Context, ator cache.Perfil, id uuid.UUID) error {
	if err := exigir(permissao.PodeGerenciarProdutos(papel(ator)), "gerenciar produtos"); err != nil {
		return err
	}
	if _, err := s.buscar(ctx, ator, id); err != nil {
		return err
	}
	return traduzir(s.repo.Delete(ctx, id), "produto")
}

func (s *produtoService) Listar(ctx context.Context, ator cache.Perfil, lojaID *uuid.UUID) ([]dto.ProdutoResponse, error) {
	if err := exigir(permissao.PodeGerenciarProdutos(papel(ator)), "gerenciar produtos"); err != nil {
		return nil, err
	}
	ps, err := s.repo.List(ctx, escopoDe(ator), lojaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProdutoResponse, len(ps))
	for i := range ps {
		out[i] = produtoResponse(&ps[i])
	}
	return out, nil
}

// Importar accepts the store column as either code or name, matched without
// case or accents.
func (s *produtoService) Importar(ctx context.Context, ator cache.Perfil, r io.Reader) (*dto.ImportacaoResponse, error) {
	if err := exigir(permissao.PodeGerenciarProdutos(papel(ator)), "gerenciar produtos"); err != nil {
		return nil, err
	}
	lojas, err := s.lojaRepo.List(ctx, escopoDe(ator))
	if err != nil {
		return nil, err
	}
	indice := planilha.NovoIndiceLojas()
	porID := make(map[uuid.UUID]*model.Loja, len(lojas))
	for i := range lojas {
		indice.Adicionar(lojas[i].ID, lojas[i].Codigo, lojas[i].Nome)
		porID[lojas[i].ID] = &lojas[i]
	}

	linhas, erros, err := planilha.LerProdutos(r, indice.PorCodigoOuNome)
	if err != nil {
		if errors.Is(err, planilha.ErrArquivoVazio) {
			return nil, fmt.Errorf("%w: %s", ErrEntradaInvalida, err.Error())
		}
		return nil, err
	}

	novos := make([]model.Produto, 0, len(linhas))
	for _, l := range linhas {
		loja := porID[l.LojaID]
		novos = append(novos, model.Produto{
			Nome:          l.Nome,
			Tipo:          l.Tipo,
			LojaID:        &loja.ID,
			OrganizacaoID: loja.OrganizacaoID,
			Quantidade:    l.Quantidade,
			ValorUnitario: l.ValorUnitario,
		})
	}
	if err := s.repo.CreateEmLote(ctx, novos); err != nil {
		return nil, traduzir(err, "produto")
	}
	if erros == nil {
		erros = []string{}
	}
	log.Info().Int("importados", len(novos)).Int("erros", len(erros)).Msg("importação de estoque")
	return &dto.ImportacaoResponse{Total: len(novos) + len(erros), Importados: len(novos), Erros: erros}, nil
}

func (s *produtoService) Exportar(ctx context.Context, ator cache.Perfil, lojaID *uuid.UUID, w io.Writer) error {
	if err := exigir(permissao.PodeGerenciarProdutos(papel(ator)), "gerenciar produtos"); err != nil {
		return err
	}
	ps, err := s.repo.List(ctx, escopoDe(ator), lojaID)
	if err != nil {
		return err
	}
	linhas := make([]planilha.LinhaEstoque, len(ps))
	for i, p := range ps {
		l := planilha.LinhaEstoque{
			Nome:          p.Nome,
			Tipo:          p.Tipo,
			Quantidade:    p.Quantidade,
			ValorUnitario: p.ValorUnitario,
		}
		if p.Loja != nil {
			l.Loja = p.Loja.Nome
		}
		linhas[i] = l
	}
	return planilha.EscreverProdutos(w, linhas)
}

func (s *produtoService) buscar(ctx context.Context, ator cache.Perfil, id uuid.UUID) (*model.Produto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traduzir(err, "produto")
	}
	if !escopoDe(ator).Permite(p.OrganizacaoID) {
		return nil, fmt.Errorf("%w: produto", ErrNaoEncontrado)
	}
	return p, nil
}

func (s *produtoService) loja(ctx context.Context, ator cache.Perfil, raw string) (*model.Loja, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: loja_id", ErrEntradaInvalida)
	}
	l, err := s.lojaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, traduzir(err, "loja")
	}
	if !escopoDe(ator).Permite(l.OrganizacaoID) {
		return nil, fmt.Errorf("%w: loja", ErrNaoEncontrado)
	}
	return l, nil
}

func produtoResponse(p *model.Produto) dto.ProdutoResponse {
	r := dto.ProdutoResponse{
		ID:            p.ID.String(),
		Nome:          p.Nome,
		Tipo:          p.Tipo,
		LojaID:        idPtr(p.LojaID),
		Quantidade:    p.Quantidade,
		ValorUnitario: p.ValorUnitario,
		ValorTotal:    p.ValorUnitario.Mul(decimal.NewFromInt(int64(p.Quantidade))),
	}
	if p.Loja != nil {
		r.LojaNome, r.LojaCodigo = strPtr(p.Loja.Nome), strPtr(p.Loja.Codigo)
	}
	return r
}
