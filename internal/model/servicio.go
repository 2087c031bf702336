package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoServicio labels additional services (photocopies, printing, lamination…).
type TipoServicio struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TipoServicio) TableName() string { return "tipos_servicio" }

// Servicio is non-inventory income.
type Servicio struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha          time.Time       `gorm:"not null;index"`
	Descripcion    string          `gorm:"not null"`
	Monto          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TipoServicioID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	TipoServicio *TipoServicio `gorm:"foreignKey:TipoServicioID"`
}

func (Servicio) TableName() string { return "servicios" }
