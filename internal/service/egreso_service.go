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

// ── Categorías de egreso ─────────────────────────────────────────────────────

type CategoriaEgresoService interface {
	Listar(ctx context.Context) ([]dto.CategoriaEgresoResponse, error)
	Crear(ctx context.Context, req dto.CategoriaEgresoRequest) (*dto.CategoriaEgresoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) (*dto.MessageResponse, error)
}

type categoriaEgresoService struct {
	repo repository.CategoriaEgresoRepository
}

func NewCategoriaEgresoService(repo repository.CategoriaEgresoRepository) CategoriaEgresoService {
	return &categoriaEgresoService{repo: repo}
}

func (s *categoriaEgresoService) Listar(ctx context.Context) ([]dto.CategoriaEgresoResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoriaEgresoResponse, len(list))
	for i, c := range list {
		resp[i] = dto.CategoriaEgresoResponse{ID: c.ID.String(), Nombre: c.Nombre}
	}
	return resp, nil
}

func (s *categoriaEgresoService) Crear(ctx context.Context, req dto.CategoriaEgresoRequest) (*dto.CategoriaEgresoResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, apierror.Invalid("El nombre es requerido")
	}
	c := &model.CategoriaEgreso{Nombre: nombre}
	if err := s.repo.Create(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Conflict("Esta categoría ya existe")
		}
		return nil, err
	}
	return &dto.CategoriaEgresoResponse{ID: c.ID.String(), Nombre: c.Nombre}, nil
}

func (s *categoriaEgresoService) Eliminar(ctx context.Context, id uuid.UUID) (*dto.MessageResponse, error) {
	n, err := s.repo.CountEgresos(ctx, id)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apierror.Conflict("No se puede eliminar. Hay %d egreso(s) usando esta categoría", n)
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

// ── Egresos ──────────────────────────────────────────────────────────────────

type EgresoService interface {
	Listar(ctx context.Context) ([]dto.EgresoResponse, error)
	Crear(ctx context.Context, req dto.EgresoRequest) (*dto.EgresoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) (*dto.MessageResponse, error)
}

type egresoService struct {
	repo          repository.EgresoRepository
	categoriaRepo repository.CategoriaEgresoRepository
	cache         *infra.Cache
	loc           *time.Location
	now           func() time.Time
}

func NewEgresoService(
	repo repository.EgresoRepository,
	categoriaRepo repository.CategoriaEgresoRepository,
	cache *infra.Cache,
	loc *time.Location,
) EgresoService {
	if loc == nil {
		loc = time.UTC
	}
	return &egresoService{repo: repo, categoriaRepo: categoriaRepo, cache: cache, loc: loc, now: time.Now}
}

func (s *egresoService) Listar(ctx context.Context) ([]dto.EgresoResponse, error) {
	egresos, err := s.repo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.EgresoResponse, len(egresos))
	for i := range egresos {
		resp[i] = s.toResponse(&egresos[i])
	}
	return resp, nil
}

func (s *egresoService) Crear(ctx context.Context, req dto.EgresoRequest) (*dto.EgresoResponse, error) {
	catID, err := uuid.Parse(req.ExpenseCategoryID)
	if err != nil {
		return nil, apierror.Invalid("La categoría es requerida")
	}
	cat, err := s.categoriaRepo.FindByID(ctx, catID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.Invalid("La categoría seleccionada no existe")
		}
		return nil, err
	}
	monto, err := montoPositivo(req.Monto)
	if err != nil {
		return nil, err
	}
	fecha, err := parseFecha(req.Fecha, s.loc, s.now())
	if err != nil {
		return nil, err
	}

	e := &model.Egreso{
		Fecha:             fecha,
		Descripcion:       strings.TrimSpace(req.Descripcion),
		Monto:             monto,
		CategoriaEgresoID: cat.ID,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	e.CategoriaEgreso = cat
	invalidarDashboard(ctx, s.cache, s.loc, s.now())

	resp := s.toResponse(e)
	return &resp, nil
}

func (s *egresoService) Eliminar(ctx context.Context, id uuid.UUID) (*dto.MessageResponse, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apierror.NotFound("Egreso no encontrado")
	}
	invalidarDashboard(ctx, s.cache, s.loc, s.now())
	return &dto.MessageResponse{Message: "Gasto eliminado exitosamente"}, nil
}

func (s *egresoService) toResponse(e *model.Egreso) dto.EgresoResponse {
	resp := dto.EgresoResponse{
		ID:                e.ID.String(),
		Fecha:             e.Fecha.In(s.loc).Format(dto.DateLayout),
		Descripcion:       e.Descripcion,
		Monto:             e.Monto,
		ExpenseCategoryID: e.CategoriaEgresoID.String(),
	}
	if e.CategoriaEgreso != nil {
		resp.Categoria = e.CategoriaEgreso.Nombre
	}
	return resp
}
