package repository

import (
	"context"

	"github.com/Yodaime/cash-flow-keeper/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LojaRepository interface {
	Create(ctx context.Context, l *model.Loja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Loja, error)
	List(ctx context.Context, escopo Escopo) ([]model.Loja, error)
	Update(ctx context.Context, l *model.Loja) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type lojaRepo struct{ db *gorm.DB }

func NewLojaRepository(db *gorm.DB) LojaRepository { return &lojaRepo{db: db} }

func (r *lojaRepo) Create(ctx context.Context, l *model.Loja) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *lojaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Loja, error) {
	var l model.Loja
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *lojaRepo) List(ctx context.Context, escopo Escopo) ([]model.Loja, error) {
	var ls []model.Loja
	err := escopo.aplicar(r.db.WithContext(ctx), "organizacao_id").Order("nome").Find(&ls).Error
	return ls, err
}

func (r *lojaRepo) Update(ctx context.Context, l *model.Loja) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *lojaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Loja{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
