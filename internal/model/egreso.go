package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CategoriaEgreso struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

func (CategoriaEgreso) TableName() string { return "categorias_egreso" }

// Egreso is money going out of the shop (rent, utilities, supplies…).
type Egreso struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha             time.Time       `gorm:"not null;index"`
	Descripcion       string          `gorm:"not null"`
	Monto             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CategoriaEgresoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt         time.Time

	CategoriaEgreso *CategoriaEgreso `gorm:"foreignKey:CategoriaEgresoID"`
}

func (Egreso) TableName() string { return "egresos" }
