package service

import (
	"github.com/Juan-GARCESS/Variedades-mafer/internal/apierror"

	"github.com/shopspring/decimal"
)

// montoPositivo rounds m to cents; amounts that round to zero or below are
// rejected since monto columns require > 0.
func montoPositivo(m decimal.Decimal) (decimal.Decimal, error) {
	r := m.Round(2)
	if !r.IsPositive() {
		return decimal.Zero, apierror.Invalid("El monto debe ser mayor a 0")
	}
	return r, nil
}
