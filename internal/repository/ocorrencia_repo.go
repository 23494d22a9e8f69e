package repository

import (
	"context"

	"github.com/Yodaime/cash-flow-keeper/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OcorrenciaRepository interface {
	Create(ctx context.Context, o *model.OcorrenciaFechamento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OcorrenciaFechamento, error)
	List(ctx context.Context, escopo Escopo) ([]model.OcorrenciaFechamento, error)
	Update(ctx context.Context, o *model.OcorrenciaFechamento) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ocorrenciaRepo struct{ db *gorm.DB }

func NewOcorrenciaRepository(db *gorm.DB) OcorrenciaRepository { return &ocorrenciaRepo{db: db} }

func (r *ocorrenciaRepo) Create(ctx context.Context, o *model.OcorrenciaFechamento) error {
	return r.db.WithContext(ctx).Omit("Usuario", "Loja").Create(o).Error
}

func (r *ocorrenciaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OcorrenciaFechamento, error) {
	var o model.OcorrenciaFechamento
	err := r.db.WithContext(ctx).Preload("Usuario").Preload("Loja").First(&o, "id = ?", id).Error
	return &o, err
}

func (r *ocorrenciaRepo) List(ctx context.Context, escopo Escopo) ([]model.OcorrenciaFechamento, error) {
	var ocs []model.OcorrenciaFechamento
	q := escopo.aplicar(r.db.WithContext(ctx).Preload("Usuario").Preload("Loja"), "organizacao_id")
	err := q.Order("created_at DESC").Find(&ocs).Error
	return ocs, err
}

func (r *ocorrenciaRepo) Update(ctx context.Context, o *model.OcorrenciaFechamento) error {
	return r.db.WithContext(ctx).Omit("Usuario", "Loja").Save(o).Error
}

func (r *ocorrenciaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.OcorrenciaFechamento{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
