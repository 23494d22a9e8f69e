package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entrada struct {
	perfil Perfil
	expira time.Time
}

// MemoriaPerfilCache is the in-process implementation. Expired entries are
// evicted lazily on read.
type MemoriaPerfilCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	agora   func() time.Time
	entries map[uuid.UUID]entrada
}

// NewMemoriaPerfilCache builds an empty cache. ttl <= 0 falls back to DefaultTTL.
func NewMemoriaPerfilCache(ttl time.Duration) *MemoriaPerfilCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoriaPerfilCache{
		ttl:     ttl,
		agora:   time.Now,
		entries: make(map[uuid.UUID]entrada),
	}
}

// WithRelogio replaces the clock. Used by tests to move time forward.
func (c *MemoriaPerfilCache) WithRelogio(agora func() time.Time) *MemoriaPerfilCache {
	c.mu.Lock()
	c.agora = agora
	c.mu.Unlock()
	return c
}

func (c *MemoriaPerfilCache) Get(_ context.Context, id uuid.UUID) (Perfil, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return Perfil{}, false, nil
	}
	if !c.agora().Before(e.expira) {
		delete(c.entries, id)
		return Perfil{}, false, nil
	}
	return e.perfil, true, nil
}

func (c *MemoriaPerfilCache) Set(_ context.Context, p Perfil) error {
	c.mu.Lock()
	c.entries[p.UsuarioID] = entrada{perfil: p, expira: c.agora().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoriaPerfilCache) Invalidar(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
	return nil
}

func (c *MemoriaPerfilCache) Limpar(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[uuid.UUID]entrada)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoriaPerfilCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
