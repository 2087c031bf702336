package dto

import "github.com/shopspring/decimal"

type TipoServicioRequest struct {
	Nombre string `json:"nombre" validate:"required,max=100"`
}

type TipoServicioResponse struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	CreatedAt string `json:"createdAt"`
}

// ServicioRequest: Fecha accepts YYYY-MM-DD or RFC3339; empty means now.
type ServicioRequest struct {
	Descripcion   string          `json:"descripcion"   validate:"required,max=255"`
	Monto         decimal.Decimal `json:"monto"         validate:"gt=0"`
	ServiceTypeID string          `json:"serviceTypeId" validate:"required,uuid"`
	Fecha         string          `json:"fecha"`
}

type ServicioResponse struct {
	ID            string                `json:"id"`
	Fecha         string                `json:"fecha"`
	Descripcion   string                `json:"descripcion"`
	Monto         decimal.Decimal       `json:"monto"`
	ServiceTypeID string                `json:"serviceTypeId"`
	ServiceType   *TipoServicioResponse `json:"serviceType"`
}
