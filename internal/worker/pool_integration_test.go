//go:build integration

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type procFalho struct{ chamadas int }

func (p *procFalho) Process(context.Context, json.RawMessage) error {
	p.chamadas++
	return errors.New("smtp fora do ar")
}

func novoRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	return redis.NewClient(opts)
}

func TestPool_RetentaEMandaParaDLQ(t *testing.T) {
	ctx := context.Background()
	rdb := novoRedis(t)

	proc := &procFalho{}
	pool := NewPool(rdb)
	pool.Register(QueueEmail, JobEmail, proc)

	d := NewDispatcher(rdb)
	require.NoError(t, d.EnqueueEmail(ctx, EmailJobPayload{To: []string{"a@b.com"}, Subject: "x"}))

	for i := 0; i < MaxAttempts; i++ {
		res, err := rdb.RPop(ctx, QueueEmail).Result()
		require.NoError(t, err, "attempt %d", i+1)
		pool.processJob(ctx, QueueEmail, res)
	}

	assert.Equal(t, MaxAttempts, proc.chamadas)
	assert.Equal(t, int64(0), rdb.LLen(ctx, QueueEmail).Val())

	n, err := TamanhoDLQ(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	falhas, err := ListarDLQ(ctx, rdb, QueueEmail, 10)
	require.NoError(t, err)
	require.Len(t, falhas, 1)
	assert.Equal(t, MaxAttempts, falhas[0].Tentativas)
	assert.Equal(t, "smtp fora do ar", falhas[0].Motivo)
	assert.Equal(t, QueueEmail, falhas[0].Fila)
	assert.Empty(t, falhas[0].Descricao) // procFalho does not describe payloads
}

func TestDLQ_DescreveEmailEReenfileira(t *testing.T) {
	ctx := context.Background()
	rdb := novoRedis(t)

	pool := NewPool(rdb)
	pool.Register(QueueEmail, JobEmail, NewEmailWorker(&fakeMailer{configurado: true, err: errors.New("connection refused")}))
	require.NoError(t, NewDispatcher(rdb).EnqueueEmail(ctx, EmailJobPayload{To: []string{"gerencia@loja.com"}, Subject: "Alerta JC001"}))

	for i := 0; i < MaxAttempts; i++ {
		res, err := rdb.RPop(ctx, QueueEmail).Result()
		require.NoError(t, err)
		pool.processJob(ctx, QueueEmail, res)
	}

	falhas, err := ListarDLQ(ctx, rdb, QueueEmail, 0)
	require.NoError(t, err)
	require.Len(t, falhas, 1)
	assert.Equal(t, `"Alerta JC001" para gerencia@loja.com`, falhas[0].Descricao)

	movidos, err := ReenfileirarDLQ(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.Equal(t, 1, movidos)
	assert.Equal(t, int64(0), rdb.LLen(ctx, DLQPrefix+QueueEmail).Val())

	var job Job
	require.NoError(t, json.Unmarshal([]byte(rdb.LIndex(ctx, QueueEmail, 0).Val()), &job))
	assert.Equal(t, JobEmail, job.Type)
	assert.Equal(t, 0, job.Attempts)
}

func TestDispatcher_RejeitaSemDestinatario(t *testing.T) {
	d := NewDispatcher(novoRedis(t))
	assert.Error(t, d.EnqueueEmail(context.Background(), EmailJobPayload{Subject: "x"}))
}
