package repository

import (
	"context"
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VentaFilter narrows List. Zero values mean no restriction; Hasta is exclusive.
type VentaFilter struct {
	UsuarioID *uuid.UUID
	Desde     *time.Time
	Hasta     *time.Time
}

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter VentaFilter) ([]model.Venta, error)
	// ListItems returns every sale line with its product; used by rankings.
	ListItems(ctx context.Context) ([]model.VentaItem, error)
	// DeleteTx removes the items and then the header; the returned count is
	// the number of header rows deleted.
	DeleteTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

// CreateTx inserts the header and its Items. Usuario and Items[].Producto
// must be nil so GORM does not upsert them.
func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items.Producto").
		Preload("Usuario").
		First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) List(ctx context.Context, filter VentaFilter) ([]model.Venta, error) {
	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.UsuarioID != nil {
		q = q.Where("usuario_id = ?", *filter.UsuarioID)
	}
	if filter.Desde != nil {
		q = q.Where("fecha >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		q = q.Where("fecha < ?", *filter.Hasta)
	}

	var ventas []model.Venta
	err := q.Preload("Items.Producto").
		Preload("Usuario").
		Order("fecha DESC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListItems(ctx context.Context) ([]model.VentaItem, error) {
	var items []model.VentaItem
	err := r.db.WithContext(ctx).Preload("Producto.Categoria").Find(&items).Error
	return items, err
}

func (r *ventaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	if err := tx.Where("venta_id = ?", id).Delete(&model.VentaItem{}).Error; err != nil {
		return 0, err
	}
	res := tx.Delete(&model.Venta{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
