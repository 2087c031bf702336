package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kinds of entries in the history feed.
const (
	TipoVenta    = "venta"
	TipoServicio = "servicio"
	TipoEgreso   = "egreso"
)

// HistorialEntry is one row of GET /api/historial. Monto is signed: egresos
// are negative, ventas and servicios positive.
type HistorialEntry struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"tipo"`
	Fecha       time.Time       `json:"fecha"`
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"`
	Usuario     *string         `json:"usuario,omitempty"`
	Categoria   *string         `json:"categoria,omitempty"`
}
