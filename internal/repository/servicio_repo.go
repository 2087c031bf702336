package repository

import (
	"context"
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TipoServicioRepository interface {
	Create(ctx context.Context, t *model.TipoServicio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TipoServicio, error)
	List(ctx context.Context) ([]model.TipoServicio, error)
	Update(ctx context.Context, t *model.TipoServicio) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	CountServicios(ctx context.Context, id uuid.UUID) (int64, error)
}

type tipoServicioRepo struct{ db *gorm.DB }

func NewTipoServicioRepository(db *gorm.DB) TipoServicioRepository {
	return &tipoServicioRepo{db: db}
}

func (r *tipoServicioRepo) Create(ctx context.Context, t *model.TipoServicio) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tipoServicioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TipoServicio, error) {
	var t model.TipoServicio
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tipoServicioRepo) List(ctx context.Context) ([]model.TipoServicio, error) {
	var tipos []model.TipoServicio
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&tipos).Error
	return tipos, err
}

func (r *tipoServicioRepo) Update(ctx context.Context, t *model.TipoServicio) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tipoServicioRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.TipoServicio{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *tipoServicioRepo) CountServicios(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Servicio{}).Where("tipo_servicio_id = ?", id).Count(&n).Error
	return n, err
}

// ── Servicios ────────────────────────────────────────────────────────────────

type ServicioRepository interface {
	Create(ctx context.Context, s *model.Servicio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Servicio, error)
	// List returns services newest first; a nil desde means all of them.
	List(ctx context.Context, desde *time.Time) ([]model.Servicio, error)
	Update(ctx context.Context, s *model.Servicio) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type servicioRepo struct{ db *gorm.DB }

func NewServicioRepository(db *gorm.DB) ServicioRepository { return &servicioRepo{db: db} }

func (r *servicioRepo) Create(ctx context.Context, s *model.Servicio) error {
	return r.db.WithContext(ctx).Omit("TipoServicio").Create(s).Error
}

func (r *servicioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Servicio, error) {
	var s model.Servicio
	if err := r.db.WithContext(ctx).Preload("TipoServicio").First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *servicioRepo) List(ctx context.Context, desde *time.Time) ([]model.Servicio, error) {
	q := r.db.WithContext(ctx).Preload("TipoServicio")
	if desde != nil {
		q = q.Where("fecha >= ?", *desde)
	}
	var servicios []model.Servicio
	err := q.Order("fecha DESC").Find(&servicios).Error
	return servicios, err
}

func (r *servicioRepo) Update(ctx context.Context, s *model.Servicio) error {
	return r.db.WithContext(ctx).Omit("TipoServicio").Save(s).Error
}

func (r *servicioRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Servicio{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
