package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window limiter ──────────────────────────────────────────────────────

type janela struct {
	count int
	fim   time.Time
}

// Limitador counts requests per key (the client IP) in fixed windows.
// Expired windows are purged while serving requests, at most once per
// purgeInterval.
type Limitador struct {
	mu       sync.Mutex
	entradas map[string]*janela
	limite   int
	duracao  time.Duration
	proxima  time.Time
	agora    func() time.Time
}

const purgeInterval = 5 * time.Minute

func NewLimitador(limite int, duracao time.Duration) *Limitador {
	return &Limitador{
		entradas: make(map[string]*janela),
		limite:   limite,
		duracao:  duracao,
		agora:    time.Now,
	}
}

// Permitir registers one hit for chave. It returns false once the window is
// exhausted, together with the time the window resets.
func (l *Limitador) Permitir(chave string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.agora()
	if now.After(l.proxima) {
		l.purgar(now)
		l.proxima = now.Add(purgeInterval)
	}

	e, ok := l.entradas[chave]
	if !ok || now.After(e.fim) {
		e = &janela{fim: now.Add(l.duracao)}
		l.entradas[chave] = e
	}
	e.count++
	return e.count <= l.limite, e.fim
}

func (l *Limitador) purgar(now time.Time) {
	removidas := 0
	for k, e := range l.entradas {
		if now.After(e.fim) {
			delete(l.entradas, k)
			removidas++
		}
	}
	if removidas > 0 {
		log.Debug().Int("purged", removidas).Int("remaining", len(l.entradas)).Msg("rate limiter purged")
	}
}

// ── Middlewares ───────────────────────────────────────────────────────────────

// RateLimiter returns a general-purpose per-IP limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return limitar(NewLimitador(limit, window), "Muitas requisições. Tente novamente em instantes.")
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return limitar(NewLimitador(20, time.Minute), "Muitas tentativas de login. Tente novamente em 1 minuto.")
}

func limitar(l *Limitador, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fim := l.Permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", fim.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}
