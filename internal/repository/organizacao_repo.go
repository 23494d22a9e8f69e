package repository

import (
	"context"

	"github.com/Yodaime/cash-flow-keeper/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizacaoRepository interface {
	Create(ctx context.Context, o *model.Organizacao) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Organizacao, error)
	List(ctx context.Context) ([]model.Organizacao, error)
	Update(ctx context.Context, o *model.Organizacao) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type organizacaoRepo struct{ db *gorm.DB }

func NewOrganizacaoRepository(db *gorm.DB) OrganizacaoRepository {
	return &organizacaoRepo{db: db}
}

func (r *organizacaoRepo) Create(ctx context.Context, o *model.Organizacao) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *organizacaoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Organizacao, error) {
	var o model.Organizacao
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	return &o, err
}

func (r *organizacaoRepo) List(ctx context.Context) ([]model.Organizacao, error) {
	var orgs []model.Organizacao
	err := r.db.WithContext(ctx).Order("nome").Find(&orgs).Error
	return orgs, err
}

func (r *organizacaoRepo) Update(ctx context.Context, o *model.Organizacao) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *organizacaoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Organizacao{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
