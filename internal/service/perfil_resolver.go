package service

import (
	"context"

	"github.com/Yodaime/cash-flow-keeper/internal/cache"
	"github.com/Yodaime/cash-flow-keeper/internal/model"
	"github.com/Yodaime/cash-flow-keeper/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PerfilResolver returns the current profile of a user, reading through the
// profile cache. Cache backend failures degrade to a database read.
type PerfilResolver interface {
	Resolver(ctx context.Context, id uuid.UUID) (cache.Perfil, error)
	Invalidar(ctx context.Context, id uuid.UUID)
}

type perfilResolver struct {
	cache cache.PerfilCache
	repo  repository.UsuarioRepository
}

func NewPerfilResolver(c cache.PerfilCache, repo repository.UsuarioRepository) PerfilResolver {
	return &perfilResolver{cache: c, repo: repo}
}

func (r *perfilResolver) Resolver(ctx context.Context, id uuid.UUID) (cache.Perfil, error) {
	p, ok, err := r.cache.Get(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("usuario_id", id.String()).Msg("perfil cache: get failed")
	}
	if ok {
		return p, nil
	}

	u, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return cache.Perfil{}, traduzir(err, "usuário")
	}
	p = perfilDe(u)
	if err := r.cache.Set(ctx, p); err != nil {
		log.Warn().Err(err).Str("usuario_id", id.String()).Msg("perfil cache: set failed")
	}
	return p, nil
}

func (r *perfilResolver) Invalidar(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Invalidar(ctx, id); err != nil {
		log.Warn().Err(err).Str("usuario_id", id.String()).Msg("perfil cache: invalidate failed")
	}
}

func perfilDe(u *model.Usuario) cache.Perfil {
	return cache.Perfil{
		UsuarioID:     u.ID,
		Nome:          u.Nome,
		Email:         u.Email,
		Papel:         u.Papel,
		OrganizacaoID: u.OrganizacaoID,
		Ativo:         u.Ativo,
	}
}
