package repository

import (
	"context"
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FiltroFechamento narrows a listing. Nil or empty fields are not applied; dates are inclusive.
type FiltroFechamento struct {
	LojaID *uuid.UUID
	Inicio *time.Time
	Fim    *time.Time
	Status string
}

type FechamentoRepository interface {
	Create(ctx context.Context, f *model.Fechamento) error
	// CreateEmLote inserts every row in a single transaction: all or nothing.
	CreateEmLote(ctx context.Context, fs []model.Fechamento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Fechamento, error)
	List(ctx context.Context, escopo Escopo, filtro FiltroFechamento) ([]model.Fechamento, error)
	Update(ctx context.Context, f *model.Fechamento) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type fechamentoRepo struct{ db *gorm.DB }

func NewFechamentoRepository(db *gorm.DB) FechamentoRepository { return &fechamentoRepo{db: db} }

func (r *fechamentoRepo) Create(ctx context.Context, f *model.Fechamento) error {
	return r.db.WithContext(ctx).Omit("Loja").Create(f).Error
}

func (r *fechamentoRepo) CreateEmLote(ctx context.Context, fs []model.Fechamento) error {
	if len(fs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Loja").CreateInBatches(&fs, 100).Error
	})
}

func (r *fechamentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Fechamento, error) {
	var f model.Fechamento
	err := r.db.WithContext(ctx).Preload("Loja").First(&f, "id = ?", id).Error
	return &f, err
}

func (r *fechamentoRepo) List(ctx context.Context, escopo Escopo, filtro FiltroFechamento) ([]model.Fechamento, error) {
	q := r.db.WithContext(ctx).Model(&model.Fechamento{}).Preload("Loja")
	q = escopo.aplicar(q, "organizacao_id")
	if filtro.LojaID != nil {
		q = q.Where("loja_id = ?", *filtro.LojaID)
	}
	if filtro.Inicio != nil {
		q = q.Where("data >= ?", filtro.Inicio.Format("2006-01-02"))
	}
	if filtro.Fim != nil {
		q = q.Where("data <= ?", filtro.Fim.Format("2006-01-02"))
	}
	if filtro.Status != "" {
		q = q.Where("status = ?", filtro.Status)
	}

	var fs []model.Fechamento
	err := q.Order("data DESC").Order("created_at DESC").Find(&fs).Error
	return fs, err
}

// Update overwrites the whole row: concurrent edits are last-write-wins.
func (r *fechamentoRepo) Update(ctx context.Context, f *model.Fechamento) error {
	return r.db.WithContext(ctx).Omit("Loja").Save(f).Error
}

func (r *fechamentoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Fechamento{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
