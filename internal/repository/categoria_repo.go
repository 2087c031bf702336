package repository

import (
	"context"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaConConteo is a Categoria plus the number of products using it.
type CategoriaConConteo struct {
	model.Categoria
	CantidadProductos int64
}

// CategoriaRepository defines CRUD operations for Categoria.
type CategoriaRepository interface {
	Create(ctx context.Context, c *model.Categoria) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	ListConConteo(ctx context.Context) ([]CategoriaConConteo, error)
	Update(ctx context.Context, c *model.Categoria) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	CountProductos(ctx context.Context, id uuid.UUID) (int64, error)
}

type categoriaRepository struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepository{db: db}
}

func (r *categoriaRepository) Create(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListConConteo returns every category, newest first, with its product count.
func (r *categoriaRepository) ListConConteo(ctx context.Context) ([]CategoriaConConteo, error) {
	var list []CategoriaConConteo
	err := r.db.WithContext(ctx).
		Model(&model.Categoria{}).
		Select("categorias.*, COUNT(productos.id) AS cantidad_productos").
		Joins("LEFT JOIN productos ON productos.categoria_id = categorias.id").
		Group("categorias.id").
		Order("categorias.created_at DESC").
		Scan(&list).Error
	return list, err
}

func (r *categoriaRepository) Update(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoriaRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Categoria{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *categoriaRepository) CountProductos(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).Where("categoria_id = ?", id).Count(&n).Error
	return n, err
}
