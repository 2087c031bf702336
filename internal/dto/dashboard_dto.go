package dto

import "github.com/shopspring/decimal"

// PeriodoStats is the rollup of one calendar window.
type PeriodoStats struct {
	Ingresos       decimal.Decimal `json:"ingresos"`
	Egresos        decimal.Decimal `json:"egresos"`
	Balance        decimal.Decimal `json:"balance"`
	CantidadVentas int             `json:"cantidadVentas"`
}

type VentasStatsResponse struct {
	Diario  PeriodoStats `json:"diario"`
	Mensual PeriodoStats `json:"mensual"`
	Anual   PeriodoStats `json:"anual"`
}

type ProductoMasVendido struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	Precio       decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock"`
	Categoria    *CategoriaRef   `json:"categoria"`
	TotalVendido int             `json:"totalVendido"`
}
