package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/cache"
	"github.com/Yodaime/cash-flow-keeper/internal/infra"
	"github.com/Yodaime/cash-flow-keeper/internal/model"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"
	"github.com/Yodaime/cash-flow-keeper/internal/repository"
	"github.com/Yodaime/cash-flow-keeper/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory repositories ────────────────────────────────────────────────────
// Rows are stored by value so callers only see changes after Update, like a
// real database.

var (
	_ repository.FechamentoRepository  = (*memFechamentos)(nil)
	_ repository.LojaRepository        = (*memLojas)(nil)
	_ repository.UsuarioRepository     = (*memUsuarios)(nil)
	_ repository.ProdutoRepository     = (*memProdutos)(nil)
	_ repository.OrganizacaoRepository = (*memOrganizacoes)(nil)
	_ repository.OcorrenciaRepository  = (*memOcorrencias)(nil)
	_ repository.SolicitacaoRepository = (*memSolicitacoes)(nil)
)

type memLojas struct{ rows map[uuid.UUID]model.Loja }

func newMemLojas() *memLojas { return &memLojas{rows: map[uuid.UUID]model.Loja{}} }

func (r *memLojas) Create(_ context.Context, l *model.Loja) error {
	for _, x := range r.rows {
		if x.Codigo == l.Codigo && sameOrg(x.OrganizacaoID, l.OrganizacaoID) {
			return gorm.ErrDuplicatedKey
		}
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	r.rows[l.ID] = *l
	return nil
}

func (r *memLojas) FindByID(_ context.Context, id uuid.UUID) (*model.Loja, error) {
	l, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (r *memLojas) List(_ context.Context, e repository.Escopo) ([]model.Loja, error) {
	var out []model.Loja
	for _, l := range r.rows {
		if e.Permite(l.OrganizacaoID) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r *memLojas) Update(_ context.Context, l *model.Loja) error {
	r.rows[l.ID] = *l
	return nil
}

func (r *memLojas) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, id)
	return nil
}

type memFechamentos struct {
	rows   map[uuid.UUID]model.Fechamento
	lojas  *memLojas
	falhar error
}

func newMemFechamentos(lojas *memLojas) *memFechamentos {
	return &memFechamentos{rows: map[uuid.UUID]model.Fechamento{}, lojas: lojas}
}

func (r *memFechamentos) Create(_ context.Context, f *model.Fechamento) error {
	if r.falhar != nil {
		return r.falhar
	}
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	c := *f
	c.Loja = nil
	r.rows[f.ID] = c
	return nil
}

func (r *memFechamentos) CreateEmLote(ctx context.Context, fs []model.Fechamento) error {
	if r.falhar != nil {
		return r.falhar
	}
	for i := range fs {
		if err := r.Create(ctx, &fs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *memFechamentos) comLoja(f model.Fechamento) model.Fechamento {
	if l, ok := r.lojas.rows[f.LojaID]; ok {
		f.Loja = &l
	}
	return f
}

func (r *memFechamentos) FindByID(_ context.Context, id uuid.UUID) (*model.Fechamento, error) {
	f, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	f = r.comLoja(f)
	return &f, nil
}

func (r *memFechamentos) List(_ context.Context, e repository.Escopo, filtro repository.FiltroFechamento) ([]model.Fechamento, error) {
	var out []model.Fechamento
	for _, f := range r.rows {
		if !e.Permite(f.OrganizacaoID) {
			continue
		}
		if filtro.LojaID != nil && f.LojaID != *filtro.LojaID {
			continue
		}
		if filtro.Inicio != nil && f.Data.Before(*filtro.Inicio) {
			continue
		}
		if filtro.Fim != nil && f.Data.After(*filtro.Fim) {
			continue
		}
		if filtro.Status != "" && f.Status != filtro.Status {
			continue
		}
		out = append(out, r.comLoja(f))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Data.Equal(out[j].Data) {
			return out[i].Data.After(out[j].Data)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memFechamentos) Update(_ context.Context, f *model.Fechamento) error {
	if _, ok := r.rows[f.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *f
	c.Loja = nil
	r.rows[f.ID] = c
	return nil
}

func (r *memFechamentos) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, id)
	return nil
}

type memUsuarios struct{ rows map[uuid.UUID]model.Usuario }

func newMemUsuarios() *memUsuarios { return &memUsuarios{rows: map[uuid.UUID]model.Usuario{}} }

func (r *memUsuarios) Create(_ context.Context, u *model.Usuario) error {
	for _, x := range r.rows {
		if strings.EqualFold(x.Email, u.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.rows[u.ID] = *u
	return nil
}

func (r *memUsuarios) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.rows {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUsuarios) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memUsuarios) List(_ context.Context, e repository.Escopo) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.rows {
		if e.Permite(u.OrganizacaoID) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r *memUsuarios) Update(_ context.Context, u *model.Usuario) error {
	r.rows[u.ID] = *u
	return nil
}

func (r *memUsuarios) UpdateSenha(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = hash
	r.rows[id] = u
	return nil
}

func (r *memUsuarios) Desativar(_ context.Context, id uuid.UUID) error {
	u, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Ativo = false
	r.rows[id] = u
	return nil
}

type memProdutos struct {
	rows  map[uuid.UUID]model.Produto
	lojas *memLojas
}

func newMemProdutos(lojas *memLojas) *memProdutos {
	return &memProdutos{rows: map[uuid.UUID]model.Produto{}, lojas: lojas}
}

func (r *memProdutos) Create(_ context.Context, p *model.Produto) error {
	p.ID = uuid.New()
	c := *p
	c.Loja = nil
	r.rows[p.ID] = c
	return nil
}

func (r *memProdutos) CreateEmLote(ctx context.Context, ps []model.Produto) error {
	for i := range ps {
		if err := r.Create(ctx, &ps[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *memProdutos) comLoja(p model.Produto) model.Produto {
	if p.LojaID != nil {
		if l, ok := r.lojas.rows[*p.LojaID]; ok {
			p.Loja = &l
		}
	}
	return p
}

func (r *memProdutos) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p = r.comLoja(p)
	return &p, nil
}

func (r *memProdutos) List(_ context.Context, e repository.Escopo, lojaID *uuid.UUID) ([]model.Produto, error) {
	var out []model.Produto
	for _, p := range r.rows {
		if !e.Permite(p.OrganizacaoID) {
			continue
		}
		if lojaID != nil && (p.LojaID == nil || *p.LojaID != *lojaID) {
			continue
		}
		out = append(out, r.comLoja(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r *memProdutos) Update(_ context.Context, p *model.Produto) error {
	c := *p
	c.Loja = nil
	r.rows[p.ID] = c
	return nil
}

func (r *memProdutos) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, id)
	return nil
}

type memOrganizacoes struct {
	rows  map[uuid.UUID]model.Organizacao
	emUso map[uuid.UUID]bool
}

func newMemOrganizacoes() *memOrganizacoes {
	return &memOrganizacoes{rows: map[uuid.UUID]model.Organizacao{}, emUso: map[uuid.UUID]bool{}}
}

func (r *memOrganizacoes) Create(_ context.Context, o *model.Organizacao) error {
	for _, x := range r.rows {
		if x.Codigo == o.Codigo {
			return gorm.ErrDuplicatedKey
		}
	}
	o.ID = uuid.New()
	r.rows[o.ID] = *o
	return nil
}

func (r *memOrganizacoes) FindByID(_ context.Context, id uuid.UUID) (*model.Organizacao, error) {
	o, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &o, nil
}

func (r *memOrganizacoes) List(_ context.Context) ([]model.Organizacao, error) {
	var out []model.Organizacao
	for _, o := range r.rows {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r *memOrganizacoes) Update(_ context.Context, o *model.Organizacao) error {
	r.rows[o.ID] = *o
	return nil
}

func (r *memOrganizacoes) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	if r.emUso[id] {
		return gorm.ErrForeignKeyViolated
	}
	delete(r.rows, id)
	return nil
}

type memOcorrencias struct{ rows map[uuid.UUID]model.OcorrenciaFechamento }

func newMemOcorrencias() *memOcorrencias {
	return &memOcorrencias{rows: map[uuid.UUID]model.OcorrenciaFechamento{}}
}

func (r *memOcorrencias) Create(_ context.Context, o *model.OcorrenciaFechamento) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	r.rows[o.ID] = *o
	return nil
}

func (r *memOcorrencias) FindByID(_ context.Context, id uuid.UUID) (*model.OcorrenciaFechamento, error) {
	o, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &o, nil
}

func (r *memOcorrencias) List(_ context.Context, e repository.Escopo) ([]model.OcorrenciaFechamento, error) {
	var out []model.OcorrenciaFechamento
	for _, o := range r.rows {
		if e.Permite(o.OrganizacaoID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOcorrencias) Update(_ context.Context, o *model.OcorrenciaFechamento) error {
	r.rows[o.ID] = *o
	return nil
}

func (r *memOcorrencias) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, id)
	return nil
}

type memSolicitacoes struct{ rows map[uuid.UUID]model.SolicitacaoConta }

func newMemSolicitacoes() *memSolicitacoes {
	return &memSolicitacoes{rows: map[uuid.UUID]model.SolicitacaoConta{}}
}

func (r *memSolicitacoes) Create(_ context.Context, s *model.SolicitacaoConta) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	r.rows[s.ID] = *s
	return nil
}

func (r *memSolicitacoes) FindByID(_ context.Context, id uuid.UUID) (*model.SolicitacaoConta, error) {
	s, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *memSolicitacoes) List(_ context.Context, status string) ([]model.SolicitacaoConta, error) {
	var out []model.SolicitacaoConta
	for _, s := range r.rows {
		if status == "" || s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSolicitacoes) ContarPendentes(_ context.Context) (int64, error) {
	var n int64
	for _, s := range r.rows {
		if s.Status == SolicitacaoPendente {
			n++
		}
	}
	return n, nil
}

func (r *memSolicitacoes) Update(_ context.Context, s *model.SolicitacaoConta) error {
	r.rows[s.ID] = *s
	return nil
}

func (r *memSolicitacoes) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, id)
	return nil
}

// ── Other doubles ─────────────────────────────────────────────────────────────

type filaEmails struct {
	jobs []worker.EmailJobPayload
	err  error
}

func (f *filaEmails) EnqueueEmail(_ context.Context, p worker.EmailJobPayload) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, p)
	return nil
}

type analisadorFake struct {
	pergunta string
	stats    infra.EstatisticasAnalise
	resposta string
	err      error
}

func (a *analisadorFake) Analisar(_ context.Context, pergunta string, stats infra.EstatisticasAnalise) (string, error) {
	a.pergunta, a.stats = pergunta, stats
	if a.err != nil {
		return "", a.err
	}
	return a.resposta, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func sameOrg(a, b *uuid.UUID) bool {
	return repository.EscopoDe(a).Permite(b)
}

func perfil(p permissao.Papel, org *uuid.UUID) cache.Perfil {
	return cache.Perfil{
		UsuarioID:     uuid.New(),
		Nome:          "Usuária " + string(p),
		Email:         string(p) + "@loja.com",
		Papel:         string(p),
		OrganizacaoID: org,
		Ativo:         true,
	}
}

func novaOrg() *uuid.UUID {
	id := uuid.New()
	return &id
}

func seedLoja(t *testing.T, r *memLojas, codigo string, org *uuid.UUID) *model.Loja {
	t.Helper()
	l := &model.Loja{Nome: "Loja " + codigo, Codigo: codigo, OrganizacaoID: org}
	if err := r.Create(context.Background(), l); err != nil {
		t.Fatalf("seed loja: %v", err)
	}
	return l
}
