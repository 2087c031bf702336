package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /api/ventas.
type VentaFilter struct {
	Fecha string `form:"fecha" validate:"omitempty,datetime=2006-01-02"` // YYYY-MM-DD; empty = all
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"productoId" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"   validate:"required,min=1"`
}

type CrearVentaRequest struct {
	Productos []ItemVentaRequest `json:"productos" validate:"required,min=1,dive"`
	Estado    string             `json:"estado"    validate:"omitempty,oneof=completada pendiente"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"productoId"`
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID        string              `json:"id"`
	Fecha     string              `json:"fecha"` // YYYY-MM-DD in the business time zone
	Hora      string              `json:"hora"`  // HH:MM
	Total     decimal.Decimal     `json:"total"`
	Estado    string              `json:"estado"`
	Vendedor  *string             `json:"vendedor"`
	Productos []ItemVentaResponse `json:"productos"`
}
