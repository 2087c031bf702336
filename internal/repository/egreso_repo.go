package repository

import (
	"context"
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoriaEgresoRepository interface {
	Create(ctx context.Context, c *model.CategoriaEgreso) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CategoriaEgreso, error)
	List(ctx context.Context) ([]model.CategoriaEgreso, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	CountEgresos(ctx context.Context, id uuid.UUID) (int64, error)
}

type categoriaEgresoRepo struct{ db *gorm.DB }

func NewCategoriaEgresoRepository(db *gorm.DB) CategoriaEgresoRepository {
	return &categoriaEgresoRepo{db: db}
}

func (r *categoriaEgresoRepo) Create(ctx context.Context, c *model.CategoriaEgreso) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaEgresoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CategoriaEgreso, error) {
	var c model.CategoriaEgreso
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaEgresoRepo) List(ctx context.Context) ([]model.CategoriaEgreso, error) {
	var list []model.CategoriaEgreso
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&list).Error
	return list, err
}

func (r *categoriaEgresoRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.CategoriaEgreso{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *categoriaEgresoRepo) CountEgresos(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Egreso{}).Where("categoria_egreso_id = ?", id).Count(&n).Error
	return n, err
}

// ── Egresos ──────────────────────────────────────────────────────────────────

type EgresoRepository interface {
	Create(ctx context.Context, e *model.Egreso) error
	// List returns expenses newest first; a nil desde means all of them.
	List(ctx context.Context, desde *time.Time) ([]model.Egreso, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type egresoRepo struct{ db *gorm.DB }

func NewEgresoRepository(db *gorm.DB) EgresoRepository { return &egresoRepo{db: db} }

func (r *egresoRepo) Create(ctx context.Context, e *model.Egreso) error {
	return r.db.WithContext(ctx).Omit("CategoriaEgreso").Create(e).Error
}

func (r *egresoRepo) List(ctx context.Context, desde *time.Time) ([]model.Egreso, error) {
	q := r.db.WithContext(ctx).Preload("CategoriaEgreso")
	if desde != nil {
		q = q.Where("fecha >= ?", *desde)
	}
	var egresos []model.Egreso
	err := q.Order("fecha DESC").Find(&egresos).Error
	return egresos, err
}

func (r *egresoRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Egreso{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
