package service

import (
	"context"
	"strings"
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/apierror"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/dto"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/infra"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/model"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/repository"

	"github.com/google/uuid"
)

type CategoriaService interface {
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	Crear(ctx context.Context, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) (*dto.MessageResponse, error)
}

type categoriaService struct {
	repo  repository.CategoriaRepository
	cache *infra.Cache
	loc   *time.Location
	now   func() time.Time
}

// NewCategoriaService wires the category CRUD. The cache is needed because the
// top-products widget shows category names.
func NewCategoriaService(repo repository.CategoriaRepository, cache *infra.Cache, loc *time.Location) CategoriaService {
	return &categoriaService{repo: repo, cache: cache, loc: loc, now: time.Now}
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.ListConConteo(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoriaResponse, len(list))
	for i := range list {
		resp[i] = categoriaToResponse(&list[i].Categoria, list[i].CantidadProductos)
	}
	return resp, nil
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	c := &model.Categoria{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := categoriaToResponse(c, 0)
	return &resp, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("Categoría no encontrada")
		}
		return nil, err
	}
	c.Nombre = strings.TrimSpace(req.Nombre)
	c.Descripcion = req.Descripcion
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	invalidarDashboard(ctx, s.cache, s.loc, s.now())

	n, err := s.repo.CountProductos(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := categoriaToResponse(c, n)
	return &resp, nil
}

// Eliminar refuses to remove a category still referenced by products.
func (s *categoriaService) Eliminar(ctx context.Context, id uuid.UUID) (*dto.MessageResponse, error) {
	n, err := s.repo.CountProductos(ctx, id)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apierror.Conflict("No se puede eliminar. Hay %d producto(s) usando esta categoría.", n)
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, apierror.NotFound("Categoría no encontrada")
	}
	return &dto.MessageResponse{Message: "Categoría eliminada exitosamente"}, nil
}

func categoriaToResponse(c *model.Categoria, cantidad int64) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:                c.ID.String(),
		Nombre:            c.Nombre,
		Descripcion:       c.Descripcion,
		CantidadProductos: cantidad,
		CreatedAt:         c.CreatedAt.UTC().Format(dto.DateTimeLayout),
	}
}
