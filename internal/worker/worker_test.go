package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	to, subject, body string
	calls             int
	err               error
}

func (f *fakeSender) SendAlerta(to, subject, body string) error {
	f.calls++
	f.to, f.subject, f.body = to, subject, body
	return f.err
}

func alertaPayload(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(AlertaStockPayload{ProductoID: "p-1", Nombre: "Cuaderno", Stock: 2, StockMinimo: 5})
	require.NoError(t, err)
	return raw
}

func TestAlertaWorker_EnviaCorreo(t *testing.T) {
	s := &fakeSender{}
	w := NewAlertaWorker(s, "duena@mafer.com", "Variedades Mafer")

	require.NoError(t, w.Process(context.Background(), alertaPayload(t)))
	assert.Equal(t, 1, s.calls)
	assert.Equal(t, "duena@mafer.com", s.to)
	assert.Equal(t, "[Variedades Mafer] Stock bajo: Cuaderno", s.subject)
	assert.Contains(t, s.body, "2 unidad(es)")
}

func TestAlertaWorker_SinDestinatario(t *testing.T) {
	s := &fakeSender{}
	w := NewAlertaWorker(s, "", "Variedades Mafer")

	require.NoError(t, w.Process(context.Background(), alertaPayload(t)))
	assert.Zero(t, s.calls)
}

func TestAlertaWorker_ErrorDeEnvio(t *testing.T) {
	s := &fakeSender{err: errors.New("smtp down")}
	w := NewAlertaWorker(s, "duena@mafer.com", "Variedades Mafer")

	assert.EqualError(t, w.Process(context.Background(), alertaPayload(t)), "smtp down")
}

func TestAlertaWorker_PayloadInvalido(t *testing.T) {
	w := NewAlertaWorker(&fakeSender{}, "duena@mafer.com", "Variedades Mafer")
	err := w.Process(context.Background(), json.RawMessage(`{"stock":"muchos"}`))
	assert.ErrorIs(t, err, errPayloadInvalido)
}

func TestWithRetry(t *testing.T) {
	retryBaseDelay = time.Millisecond
	t.Cleanup(func() { retryBaseDelay = time.Second })

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), 3, func(int) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), 2, func(attempt int) error {
			calls++
			return errors.New("fallo " + string(rune('0'+attempt)))
		})
		assert.EqualError(t, err, "fallo 1")
		assert.Equal(t, 2, calls)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		retryBaseDelay = time.Hour
		defer func() { retryBaseDelay = time.Millisecond }()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := withRetry(ctx, 3, func(int) error { return errors.New("x") })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDispatcher_SinRedis(t *testing.T) {
	var nilDispatcher *Dispatcher
	assert.NoError(t, nilDispatcher.EnqueueAlertaStock(context.Background(), AlertaStockPayload{Nombre: "x"}))
	assert.NoError(t, NewDispatcher(nil).EnqueueAlertaStock(context.Background(), AlertaStockPayload{Nombre: "x"}))
}

func TestDeadLetters_SinRedis(t *testing.T) {
	ctx := context.Background()
	d := NewDeadLetters(nil)
	assert.NotPanics(t, func() {
		d.Push(ctx, QueueAlertas, Job{Type: JobAlertaStock, Payload: json.RawMessage(`{}`)}, "boom", 3)
	})
	n, err := d.Len(ctx, QueueAlertas)
	assert.NoError(t, err)
	assert.Zero(t, n)
	list, err := d.List(ctx, QueueAlertas, 10)
	assert.NoError(t, err)
	assert.Empty(t, list)
	moved, err := d.Requeue(ctx, QueueAlertas)
	assert.NoError(t, err)
	assert.Zero(t, moved)
}
