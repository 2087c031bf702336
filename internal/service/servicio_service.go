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

// ── Tipos de servicio ────────────────────────────────────────────────────────

type TipoServicioService interface {
	Listar(ctx context.Context) ([]dto.TipoServicioResponse, error)
	Crear(ctx context.Context, req dto.TipoServicioRequest) (*dto.TipoServicioResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.TipoServicioRequest) (*dto.TipoServicioResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) (*dto.MessageResponse, error)
}

type tipoServicioService struct {
	repo repository.TipoServicioRepository
}

func NewTipoServicioService(repo repository.TipoServicioRepository) TipoServicioService {
	return &tipoServicioService{repo: repo}
}

func (s *tipoServicioService) Listar(ctx context.Context) ([]dto.TipoServicioResponse, error) {
	tipos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TipoServicioResponse, len(tipos))
	for i := range tipos {
		resp[i] = tipoServicioToResponse(&tipos[i])
	}
	return resp, nil
}

func (s *tipoServicioService) Crear(ctx context.Context, req dto.TipoServicioRequest) (*dto.TipoServicioResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, apierror.Invalid("El nombre es requerido")
	}
	t := &model.TipoServicio{Nombre: nombre}
	if err := s.repo.Create(ctx, t); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Conflict("Ya existe un tipo de servicio con ese nombre")
		}
		return nil, err
	}
	resp := tipoServicioToResponse(t)
	return &resp, nil
}

func (s *tipoServicioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.TipoServicioRequest) (*dto.TipoServicioResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, apierror.Invalid("El nombre es requerido")
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("Tipo de servicio no encontrado")
		}
		return nil, err
	}
	t.Nombre = nombre
	if err := s.repo.Update(ctx, t); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Conflict("Ya existe un tipo de servicio con ese nombre")
		}
		return nil, err
	}
	resp := tipoServicioToResponse(t)
	return &resp, nil
}

func (s *tipoServicioService) Eliminar(ctx context.Context, id uuid.UUID) (*dto.MessageResponse, error) {
	n, err := s.repo.CountServicios(ctx, id)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apierror.Conflict("No se puede eliminar. Hay %d servicio(s) usando este tipo", n)
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, apierror.NotFound("Tipo de servicio no encontrado")
	}
	return &dto.MessageResponse{Message: "Tipo de servicio eliminado exitosamente"}, nil
}

func tipoServicioToResponse(t *model.TipoServicio) dto.TipoServicioResponse {
	return dto.TipoServicioResponse{
		ID:        t.ID.String(),
		Nombre:    t.Nombre,
		CreatedAt: t.CreatedAt.UTC().Format(dto.DateTimeLayout),
	}
}

// ── Servicios ────────────────────────────────────────────────────────────────

type ServicioService interface {
	Listar(ctx context.Context) ([]dto.ServicioResponse, error)
	Crear(ctx context.Context, req dto.ServicioRequest) (*dto.ServicioResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ServicioRequest) (*dto.ServicioResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) (*dto.MessageResponse, error)
}

type servicioService struct {
	repo     repository.ServicioRepository
	tipoRepo repository.TipoServicioRepository
	cache    *infra.Cache
	loc      *time.Location
	now      func() time.Time
}

func NewServicioService(
	repo repository.ServicioRepository,
	tipoRepo repository.TipoServicioRepository,
	cache *infra.Cache,
	loc *time.Location,
) ServicioService {
	if loc == nil {
		loc = time.UTC
	}
	return &servicioService{repo: repo, tipoRepo: tipoRepo, cache: cache, loc: loc, now: time.Now}
}

func (s *servicioService) Listar(ctx context.Context) ([]dto.ServicioResponse, error) {
	servicios, err := s.repo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ServicioResponse, len(servicios))
	for i := range servicios {
		resp[i] = s.toResponse(&servicios[i])
	}
	return resp, nil
}

func (s *servicioService) Crear(ctx context.Context, req dto.ServicioRequest) (*dto.ServicioResponse, error) {
	sv := &model.Servicio{}
	if err := s.aplicar(ctx, sv, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sv); err != nil {
		return nil, err
	}
	invalidarDashboard(ctx, s.cache, s.loc, s.now())
	resp := s.toResponse(sv)
	return &resp, nil
}

func (s *servicioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ServicioRequest) (*dto.ServicioResponse, error) {
	sv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("Servicio no encontrado")
		}
		return nil, err
	}
	if err := s.aplicar(ctx, sv, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sv); err != nil {
		return nil, err
	}
	invalidarDashboard(ctx, s.cache, s.loc, s.now())
	resp := s.toResponse(sv)
	return &resp, nil
}

func (s *servicioService) Eliminar(ctx context.Context, id uuid.UUID) (*dto.MessageResponse, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apierror.NotFound("Servicio no encontrado")
	}
	invalidarDashboard(ctx, s.cache, s.loc, s.now())
	return &dto.MessageResponse{Message: "Servicio eliminado exitosamente"}, nil
}

// aplicar copies the request onto sv after resolving its type and date.
func (s *servicioService) aplicar(ctx context.Context, sv *model.Servicio, req dto.ServicioRequest) error {
	tipoID, err := uuid.Parse(req.ServiceTypeID)
	if err != nil {
		return apierror.Invalid("El tipo de servicio es requerido")
	}
	tipo, err := s.tipoRepo.FindByID(ctx, tipoID)
	if err != nil {
		if repository.IsNotFound(err) {
			return apierror.Invalid("El tipo de servicio no existe")
		}
		return err
	}
	monto, err := montoPositivo(req.Monto)
	if err != nil {
		return err
	}
	fecha, err := parseFecha(req.Fecha, s.loc, s.now())
	if err != nil {
		return err
	}
	sv.Descripcion = strings.TrimSpace(req.Descripcion)
	sv.Monto = monto
	sv.Fecha = fecha
	sv.TipoServicioID = tipo.ID
	sv.TipoServicio = tipo
	return nil
}

func (s *servicioService) toResponse(sv *model.Servicio) dto.ServicioResponse {
	resp := dto.ServicioResponse{
		ID:            sv.ID.String(),
		Fecha:         sv.Fecha.In(s.loc).Format(dto.DateLayout),
		Descripcion:   sv.Descripcion,
		Monto:         sv.Monto,
		ServiceTypeID: sv.TipoServicioID.String(),
	}
	if sv.TipoServicio != nil {
		t := tipoServicioToResponse(sv.TipoServicio)
		resp.ServiceType = &t
	}
	return resp
}
