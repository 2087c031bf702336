package worker

// alerta_worker.go
// Processes low-stock jobs from QueueAlertas and mails the shop owner.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AlertaStockPayload is the job body for JobAlertaStock.
type AlertaStockPayload struct {
	ProductoID  string `json:"producto_id"`
	Nombre      string `json:"nombre"`
	Stock       int    `json:"stock"`
	StockMinimo int    `json:"stock_minimo"`
}

// AlertSender is the mail capability the worker needs; *infra.Mailer
// satisfies it.
type AlertSender interface {
	SendAlerta(to, subject, body string) error
}

// AlertaWorker emails low-stock notifications to a fixed recipient.
type AlertaWorker struct {
	sender       AlertSender
	to           string
	businessName string
}

// NewAlertaWorker returns a worker that mails alerts to `to`. With an empty
// recipient alerts are only logged.
func NewAlertaWorker(sender AlertSender, to, businessName string) *AlertaWorker {
	return &AlertaWorker{sender: sender, to: to, businessName: businessName}
}

var errPayloadInvalido = errors.New("alerta_worker: invalid payload")

func (w *AlertaWorker) Process(_ context.Context, raw json.RawMessage) error {
	var p AlertaStockPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("%w: %v", errPayloadInvalido, err)
	}

	logger := log.With().Str("producto_id", p.ProductoID).Int("stock", p.Stock).Logger()
	if w.to == "" || w.sender == nil {
		logger.Warn().Str("producto", p.Nombre).Msg("alerta_worker: stock bajo (sin destinatario configurado)")
		return nil
	}

	subject := fmt.Sprintf("[%s] Stock bajo: %s", w.businessName, p.Nombre)
	body := fmt.Sprintf(
		"El producto %q quedó con %d unidad(es) en stock (mínimo configurado: %d).\nConviene reponerlo pronto.\n",
		p.Nombre, p.Stock, p.StockMinimo,
	)
	if err := w.sender.SendAlerta(w.to, subject, body); err != nil {
		logger.Error().Err(err).Msg("alerta_worker: failed to send email")
		return err
	}
	logger.Info().Str("to", w.to).Msg("alerta_worker: alert sent")
	return nil
}
