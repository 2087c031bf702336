package dto

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CategoriaRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,min=2,max=100"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=255"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID                string  `json:"id"`
	Nombre            string  `json:"nombre"`
	Descripcion       *string `json:"descripcion"`
	CantidadProductos int64   `json:"cantidadProductos"`
	CreatedAt         string  `json:"createdAt"`
}
