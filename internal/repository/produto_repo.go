package repository

import (
	"context"

	"github.com/Yodaime/cash-flow-keeper/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProdutoRepository interface {
	Create(ctx context.Context, p *model.Produto) error
	CreateEmLote(ctx context.Context, ps []model.Produto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	List(ctx context.Context, escopo Escopo, lojaID *uuid.UUID) ([]model.Produto, error)
	Update(ctx context.Context, p *model.Produto) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) Create(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Omit("Loja").Create(p).Error
}

func (r *produtoRepo) CreateEmLote(ctx context.Context, ps []model.Produto) error {
	if len(ps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Loja").CreateInBatches(&ps, 100).Error
	})
}

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).Preload("Loja").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *produtoRepo) List(ctx context.Context, escopo Escopo, lojaID *uuid.UUID) ([]model.Produto, error) {
	q := escopo.aplicar(r.db.WithContext(ctx).Preload("Loja"), "organizacao_id")
	if lojaID != nil {
		q = q.Where("loja_id = ?", *lojaID)
	}
	var ps []model.Produto
	err := q.Order("nome").Find(&ps).Error
	return ps, err
}

func (r *produtoRepo) Update(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Omit("Loja").Save(p).Error
}

func (r *produtoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Produto{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
