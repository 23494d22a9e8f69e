package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const prefixoPerfil = "perfil:"

// RedisPerfilCache shares cached profiles across server instances.
type RedisPerfilCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisPerfilCache wraps rdb. ttl <= 0 falls back to DefaultTTL.
func NewRedisPerfilCache(rdb *redis.Client, ttl time.Duration) *RedisPerfilCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisPerfilCache{rdb: rdb, ttl: ttl}
}

func chave(id uuid.UUID) string { return prefixoPerfil + id.String() }

func (c *RedisPerfilCache) Get(ctx context.Context, id uuid.UUID) (Perfil, bool, error) {
	raw, err := c.rdb.Get(ctx, chave(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Perfil{}, false, nil
	}
	if err != nil {
		return Perfil{}, false, fmt.Errorf("cache get: %w", err)
	}
	var p Perfil
	if err := json.Unmarshal(raw, &p); err != nil {
		// Corrupt entry: treat as a miss so the caller reloads it.
		_ = c.rdb.Del(ctx, chave(id)).Err()
		return Perfil{}, false, nil
	}
	return p, true, nil
}

func (c *RedisPerfilCache) Set(ctx context.Context, p Perfil) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, chave(p.UsuarioID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *RedisPerfilCache) Invalidar(ctx context.Context, id uuid.UUID) error {
	return c.rdb.Del(ctx, chave(id)).Err()
}

// Limpar removes every profile key. SCAN keeps it non-blocking on large keyspaces.
func (c *RedisPerfilCache) Limpar(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, prefixoPerfil+"*", 100).Iterator()
	var chaves []string
	for iter.Next(ctx) {
		chaves = append(chaves, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}
	if len(chaves) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, chaves...).Err()
}
