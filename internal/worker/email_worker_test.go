package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	configurado bool
	err         error
	enviados    []EmailJobPayload
}

func (m *fakeMailer) Configurado() bool { return m.configurado }

func (m *fakeMailer) Enviar(to []string, subject, text, html string) error {
	if m.err != nil {
		return m.err
	}
	m.enviados = append(m.enviados, EmailJobPayload{To: to, Subject: subject, Body: text, HTML: html})
	return nil
}

func payload(t *testing.T, p EmailJobPayload) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func TestEmailWorker_Envia(t *testing.T) {
	m := &fakeMailer{configurado: true}
	w := NewEmailWorker(m)

	err := w.Process(context.Background(), payload(t, EmailJobPayload{To: []string{"gerente@loja.com"}, Subject: "Alerta", Body: "Diferença"}))
	require.NoError(t, err)
	require.Len(t, m.enviados, 1)
	assert.Equal(t, "Alerta", m.enviados[0].Subject)
}

func TestEmailWorker_ErroSMTPRetorna(t *testing.T) {
	m := &fakeMailer{configurado: true, err: errors.New("connection refused")}
	w := NewEmailWorker(m)

	err := w.Process(context.Background(), payload(t, EmailJobPayload{To: []string{"a@b.com"}, Subject: "x"}))
	assert.Error(t, err)
}

func TestEmailWorker_DescartaSemRetry(t *testing.T) {
	m := &fakeMailer{configurado: true}
	w := NewEmailWorker(m)

	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{nope`)))
	assert.NoError(t, w.Process(context.Background(), payload(t, EmailJobPayload{Subject: "sem destinatário"})))

	m.configurado = false
	assert.NoError(t, w.Process(context.Background(), payload(t, EmailJobPayload{To: []string{"a@b.com"}})))
	assert.Empty(t, m.enviados)
}

func TestEmailJobPayload_Validate(t *testing.T) {
	assert.Error(t, EmailJobPayload{}.Validate())
	assert.NoError(t, EmailJobPayload{To: []string{"a@b.com"}}.Validate())
}

func TestEmailWorker_Descrever(t *testing.T) {
	w := NewEmailWorker(&fakeMailer{})
	d := w.Descrever(payload(t, EmailJobPayload{To: []string{"a@b.com", "c@d.com"}, Subject: "Alerta"}))
	assert.Equal(t, `"Alerta" para a@b.com, c@d.com`, d)
	assert.Empty(t, w.Descrever(json.RawMessage(`{`)))
}
