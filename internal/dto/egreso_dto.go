package dto

import "github.com/shopspring/decimal"

type CategoriaEgresoRequest struct {
	Nombre string `json:"nombre" validate:"required,max=100"`
}

type CategoriaEgresoResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// EgresoRequest: Fecha accepts YYYY-MM-DD or RFC3339; empty means now.
type EgresoRequest struct {
	Descripcion       string          `json:"descripcion"       validate:"required,max=255"`
	Monto             decimal.Decimal `json:"monto"             validate:"gt=0"`
	ExpenseCategoryID string          `json:"expenseCategoryId" validate:"required,uuid"`
	Fecha             string          `json:"fecha"`
}

type EgresoResponse struct {
	ID                string          `json:"id"`
	Fecha             string          `json:"fecha"`
	Descripcion       string          `json:"descripcion"`
	Monto             decimal.Decimal `json:"monto"`
	Categoria         string          `json:"categoria"`
	ExpenseCategoryID string          `json:"expenseCategoryId"`
}
