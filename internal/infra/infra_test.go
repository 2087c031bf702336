package infra

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/model"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTicketPDF(t *testing.T) {
	venta := &model.Venta{
		ID:     uuid.New(),
		Fecha:  time.Date(2026, 10, 17, 15, 30, 0, 0, time.UTC),
		Total:  decimal.NewFromInt(17500),
		Estado: model.EstadoCompletada,
		Items: []model.VentaItem{
			{Cantidad: 2, PrecioUnitario: decimal.NewFromInt(3500), Producto: &model.Producto{Nombre: "Cuaderno cuadriculado"}},
			{Cantidad: 1, PrecioUnitario: decimal.NewFromInt(10500), Producto: &model.Producto{Nombre: "Calculadora científica"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTicketPDF(&buf, venta, "Variedades Mafer", nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestCache_SinRedis(t *testing.T) {
	ctx := context.Background()
	for _, c := range []*Cache{nil, NewCache(nil, time.Minute)} {
		c.SetJSON(ctx, "k", map[string]int{"a": 1})
		var dst map[string]int
		assert.False(t, c.GetJSON(ctx, "k", &dst))
		assert.NotPanics(t, func() { c.Invalidate(ctx, "k") })
	}
}

// The alert worker sends through *Mailer.
var _ worker.AlertSender = (*Mailer)(nil)

func TestMailer_Enabled(t *testing.T) {
	var m *Mailer
	assert.False(t, m.Enabled())
	assert.False(t, (&Mailer{}).Enabled())
	assert.True(t, (&Mailer{host: "smtp.mafer.com"}).Enabled())
}
