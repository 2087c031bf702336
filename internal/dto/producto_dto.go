package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductoRequest is used for both create and full update. Stock and
// StockMinimo are pointers so an update can leave them untouched.
type ProductoRequest struct {
	Nombre      string          `json:"nombre"      validate:"required,min=2,max=120"`
	Descripcion *string         `json:"descripcion" validate:"omitempty,max=500"`
	Precio      decimal.Decimal `json:"precio"      validate:"gte=0"`
	Stock       *int            `json:"stock"       validate:"omitempty,min=0"`
	StockMinimo *int            `json:"stockMinimo" validate:"omitempty,min=0"`
	CategoriaID string          `json:"categoriaId" validate:"required,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CategoriaRef struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type ProductoResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	StockMinimo int             `json:"stockMinimo"`
	StockBajo   bool            `json:"stockBajo"`
	CategoriaID string          `json:"categoriaId"`
	Categoria   *CategoriaRef   `json:"categoria"`
}

// MovimientoStockResponse is one row of GET /api/productos/:id/movimientos.
type MovimientoStockResponse struct {
	ID            string  `json:"id"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stockAnterior"`
	StockNuevo    int     `json:"stockNuevo"`
	Motivo        string  `json:"motivo"`
	ReferenciaID  *string `json:"referenciaId,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}
