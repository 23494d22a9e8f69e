package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/conciliacao"
)

// ErrAnaliseNaoConfigurada is returned when ANALISE_URL is empty.
var ErrAnaliseNaoConfigurada = errors.New("analise: endpoint não configurado")

// ErrAnaliseRemota wraps failures reported by or on the way to the endpoint.
var ErrAnaliseRemota = errors.New("analise: falha no endpoint")

// EstatisticasAnalise is the numeric summary sent to the analysis endpoint.
// Amounts go out as JSON numbers.
type EstatisticasAnalise struct {
	TotalExpected   float64 `json:"totalExpected"`
	TotalCounted    float64 `json:"totalCounted"`
	TotalDifference float64 `json:"totalDifference"`
	Surplus         float64 `json:"surplus"`
	Deficit         float64 `json:"deficit"`
	SurplusCount    int     `json:"surplusCount"`
	DeficitCount    int     `json:"deficitCount"`
	OkCount         int     `json:"okCount"`
	AttentionCount  int     `json:"attentionCount"`
	PendingCount    int     `json:"pendingCount"`
	TotalClosings   int     `json:"totalClosings"`
	AccuracyRate    string  `json:"accuracyRate"` // one decimal, e.g. "66.7"
}

// EstatisticasDe converts a Resumo into the wire summary.
func EstatisticasDe(r conciliacao.Resumo) EstatisticasAnalise {
	return EstatisticasAnalise{
		TotalExpected:   r.TotalEsperado.InexactFloat64(),
		TotalCounted:    r.TotalContado.InexactFloat64(),
		TotalDifference: r.TotalDiferenca.InexactFloat64(),
		Surplus:         r.Sobras.InexactFloat64(),
		Deficit:         r.Faltas.InexactFloat64(),
		SurplusCount:    r.QtdSobras,
		DeficitCount:    r.QtdFaltas,
		OkCount:         r.QtdOK,
		AttentionCount:  r.QtdAtencao,
		PendingCount:    r.QtdPendente,
		TotalClosings:   r.Total,
		AccuracyRate:    r.TaxaPrecisao.StringFixed(1),
	}
}

type analiseRequest struct {
	Message string              `json:"message"`
	Stats   EstatisticasAnalise `json:"stats"`
}

type analiseResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// AnaliseClient posts aggregated closing statistics plus a free-text question
// to the analysis endpoint and returns its answer as plain text.
// Calls go through a circuit breaker so a failing endpoint fails fast.
type AnaliseClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewAnaliseClient(url, apiKey string, timeout time.Duration, cb *CircuitBreaker) *AnaliseClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if cb == nil {
		cb = NewCircuitBreaker(DefaultCBConfig())
	}
	return &AnaliseClient{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		cb:         cb,
	}
}

// Breaker exposes the circuit breaker state for health reporting.
func (c *AnaliseClient) Breaker() *CircuitBreaker { return c.cb }

// Analisar sends one question. No retries: a failure is reported to the caller.
func (c *AnaliseClient) Analisar(ctx context.Context, pergunta string, stats EstatisticasAnalise) (string, error) {
	if c.url == "" {
		return "", ErrAnaliseNaoConfigurada
	}
	var resposta string
	err := c.cb.ExecuteContext(ctx, func() error {
		var err error
		resposta, err = c.enviar(ctx, pergunta, stats)
		return err
	})
	return resposta, err
}

func (c *AnaliseClient) enviar(ctx context.Context, pergunta string, stats EstatisticasAnalise) (string, error) {
	body, err := json.Marshal(analiseRequest{Message: pergunta, Stats: stats})
	if err != nil {
		return "", fmt.Errorf("analise: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("analise: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: unreachable: %w", ErrAnaliseRemota, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrAnaliseRemota, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrAnaliseRemota, resp.StatusCode)
	}

	var result analiseResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrAnaliseRemota, err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrAnaliseRemota, result.Error)
	}
	return result.Response, nil
}
