package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	HTML    string   `json:"html,omitempty"`
}

// Mailer is the SMTP side of the worker; *infra.Mailer implements it.
type Mailer interface {
	Configurado() bool
	Enviar(to []string, subject, text, html string) error
}

// EmailWorker sends discrepancy alerts and account request notifications.
type EmailWorker struct {
	mailer Mailer
}

func NewEmailWorker(mailer Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends one message. Payload problems are logged and dropped since a
// retry cannot fix them; SMTP errors are returned so the pool retries.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if len(payload.To) == 0 {
		log.Warn().Msg("email_worker: no recipients, skipping")
		return nil
	}
	if !w.mailer.Configurado() {
		log.Warn().Str("subject", payload.Subject).Msg("email_worker: SMTP not configured, dropping message")
		return nil
	}

	if err := w.mailer.Enviar(payload.To, payload.Subject, payload.Body, payload.HTML); err != nil {
		return fmt.Errorf("email_worker: %w", err)
	}
	log.Info().Strs("to", payload.To).Str("subject", payload.Subject).Msg("email_worker: sent")
	return nil
}

// Descrever summarizes a payload for the dead letter listing.
func (w *EmailWorker) Descrever(raw json.RawMessage) string {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return fmt.Sprintf("%q para %s", payload.Subject, strings.Join(payload.To, ", "))
}

var errSemDestinatario = errors.New("email sem destinatário")

// Validate is used by producers before enqueueing.
func (p EmailJobPayload) Validate() error {
	if len(p.To) == 0 {
		return errSemDestinatario
	}
	return nil
}
