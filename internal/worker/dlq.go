package worker

// Jobs that exhausted their attempts land in dlq:{fila}. Entries keep the
// original payload so they can be listed and put back on their queue.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// FalhaJob is one dead letter entry.
type FalhaJob struct {
	Fila       string          `json:"fila"`
	Tipo       string          `json:"tipo"`
	Descricao  string          `json:"descricao,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	Motivo     string          `json:"motivo"`
	Tentativas int             `json:"tentativas"`
	FalhouEm   time.Time       `json:"falhou_em"`
}

// Descritor is implemented by processors that can summarize a payload for the
// dead letter listing.
type Descritor interface {
	Descrever(payload json.RawMessage) string
}

func (p *Pool) mandarParaDLQ(ctx context.Context, fila string, job Job, motivo string) {
	f := FalhaJob{
		Fila:       fila,
		Tipo:       job.Type,
		Payload:    job.Payload,
		Motivo:     motivo,
		Tentativas: job.Attempts,
		FalhouEm:   p.agora().UTC(),
	}
	if d, ok := p.processors[job.Type].(Descritor); ok {
		f.Descricao = d.Descrever(job.Payload)
	}

	data, err := json.Marshal(f)
	if err != nil {
		log.Error().Err(err).Str("fila", fila).Msg("dlq: marshal")
		return
	}
	key := DLQPrefix + fila
	if err := p.rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: push failed")
		return
	}
	log.Warn().
		Str("fila", fila).
		Str("tipo", job.Type).
		Str("descricao", f.Descricao).
		Str("motivo", motivo).
		Int("tentativas", job.Attempts).
		Msg("dlq: job movido para a fila de falhas")
}

// TamanhoDLQ returns the number of dead entries of a queue, reported by /health.
func TamanhoDLQ(ctx context.Context, rdb *redis.Client, fila string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+fila).Result()
}

// ListarDLQ returns up to limite entries, newest first. Unreadable entries
// are skipped.
func ListarDLQ(ctx context.Context, rdb *redis.Client, fila string, limite int64) ([]FalhaJob, error) {
	if limite <= 0 {
		limite = 50
	}
	raws, err := rdb.LRange(ctx, DLQPrefix+fila, 0, limite-1).Result()
	if err != nil {
		return nil, fmt.Errorf("dlq: listar %s: %w", fila, err)
	}
	out := make([]FalhaJob, 0, len(raws))
	for _, raw := range raws {
		var f FalhaJob
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			log.Warn().Err(err).Str("fila", fila).Msg("dlq: entrada ilegível")
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// ReenfileirarDLQ moves every dead entry back to its queue with the attempt
// counter reset, oldest first. Only the entries present at the start are
// moved, so jobs that fail again meanwhile stay dead. It returns how many jobs
// were moved.
func ReenfileirarDLQ(ctx context.Context, rdb *redis.Client, fila string) (int, error) {
	key := DLQPrefix + fila
	total, err := rdb.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("dlq: reenfileirar %s: %w", fila, err)
	}
	movidos := 0
	for i := int64(0); i < total; i++ {
		raw, err := rdb.RPop(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return movidos, fmt.Errorf("dlq: reenfileirar %s: %w", fila, err)
		}
		var f FalhaJob
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			log.Warn().Err(err).Str("fila", fila).Msg("dlq: entrada ilegível descartada")
			continue
		}
		if err := push(ctx, rdb, f.Fila, Job{Type: f.Tipo, Payload: f.Payload}); err != nil {
			// put it back so nothing is lost
			_ = rdb.RPush(ctx, key, raw).Err()
			return movidos, fmt.Errorf("dlq: reenfileirar %s: %w", fila, err)
		}
		movidos++
	}
	return movidos, nil
}
