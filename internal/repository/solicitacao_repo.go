package repository

import (
	"context"

	"github.com/Yodaime/cash-flow-keeper/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SolicitacaoRepository interface {
	Create(ctx context.Context, s *model.SolicitacaoConta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SolicitacaoConta, error)
	List(ctx context.Context, status string) ([]model.SolicitacaoConta, error)
	ContarPendentes(ctx context.Context) (int64, error)
	Update(ctx context.Context, s *model.SolicitacaoConta) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type solicitacaoRepo struct{ db *gorm.DB }

func NewSolicitacaoRepository(db *gorm.DB) SolicitacaoRepository { return &solicitacaoRepo{db: db} }

func (r *solicitacaoRepo) Create(ctx context.Context, s *model.SolicitacaoConta) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *solicitacaoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SolicitacaoConta, error) {
	var s model.SolicitacaoConta
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

// List returns requests newest first. An empty status returns all of them.
func (r *solicitacaoRepo) List(ctx context.Context, status string) ([]model.SolicitacaoConta, error) {
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var ss []model.SolicitacaoConta
	err := q.Order("created_at DESC").Find(&ss).Error
	return ss, err
}

func (r *solicitacaoRepo) ContarPendentes(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SolicitacaoConta{}).Where("status = ?", "pending").Count(&n).Error
	return n, err
}

func (r *solicitacaoRepo) Update(ctx context.Context, s *model.SolicitacaoConta) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *solicitacaoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.SolicitacaoConta{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
