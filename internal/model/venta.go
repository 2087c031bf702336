package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EstadoCompletada = "completada"
	EstadoPendiente  = "pendiente"
)

// Venta is a sale header. Total is the sum of its items at creation time and
// is never recomputed from current product prices.
// Estado: "completada" | "pendiente"
type Venta struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha     time.Time       `gorm:"not null;index"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado    string          `gorm:"type:varchar(20);not null;default:'completada'"`
	UsuarioID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt time.Time

	Usuario *Usuario    `gorm:"foreignKey:UsuarioID"`
	Items   []VentaItem `gorm:"foreignKey:VentaID"`
}

// TableName pins the plural: GORM's inflector leaves "venta" as is.
func (Venta) TableName() string { return "ventas" }

// VentaItem is one product line of a Venta. PrecioUnitario is copied from the
// product when the sale is registered.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (VentaItem) TableName() string { return "venta_items" }

// Subtotal returns cantidad × precio_unitario.
func (i VentaItem) Subtotal() decimal.Decimal {
	return i.PrecioUnitario.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}
