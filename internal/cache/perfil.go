// Package cache keeps a short-lived copy of user profiles (role, organization,
// active flag) so authorization does not hit the database on every request.
//
// Entries may be stale for up to the configured TTL. Profile updates call
// Invalidar so the acting instance sees the change immediately.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a profile stays cached when no TTL is configured.
const DefaultTTL = 5 * time.Minute

// Perfil is the cached view of a user.
type Perfil struct {
	UsuarioID     uuid.UUID  `json:"usuario_id"`
	Nome          string     `json:"nome"`
	Email         string     `json:"email"`
	Papel         string     `json:"papel"`
	OrganizacaoID *uuid.UUID `json:"organizacao_id,omitempty"`
	Ativo         bool       `json:"ativo"`
}

// PerfilCache is a TTL cache keyed by user id. Get reports a miss with ok=false
// and a nil error; errors are reserved for backend failures.
type PerfilCache interface {
	Get(ctx context.Context, id uuid.UUID) (p Perfil, ok bool, err error)
	Set(ctx context.Context, p Perfil) error
	Invalidar(ctx context.Context, id uuid.UUID) error
	Limpar(ctx context.Context) error
}

var (
	_ PerfilCache = (*MemoriaPerfilCache)(nil)
	_ PerfilCache = (*RedisPerfilCache)(nil)
)
