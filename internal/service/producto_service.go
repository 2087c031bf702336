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
	"github.com/Juan-GARCESS/Variedades-mafer/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const stockMinimoDefault = 5

type ProductoService interface {
	Listar(ctx context.Context) ([]dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) (*dto.MessageResponse, error)
	Movimientos(ctx context.Context, id uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error)
}

type productoService struct {
	repo           repository.ProductoRepository
	categoriaRepo  repository.CategoriaRepository
	movimientoRepo repository.MovimientoStockRepository
	dispatcher     *worker.Dispatcher
	cache          *infra.Cache
	loc            *time.Location
}

func NewProductoService(
	repo repository.ProductoRepository,
	categoriaRepo repository.CategoriaRepository,
	movimientoRepo repository.MovimientoStockRepository,
	dispatcher *worker.Dispatcher,
	cache *infra.Cache,
	loc *time.Location,
) ProductoService {
	if loc == nil {
		loc = time.UTC
	}
	return &productoService{
		repo:           repo,
		categoriaRepo:  categoriaRepo,
		movimientoRepo: movimientoRepo,
		dispatcher:     dispatcher,
		cache:          cache,
		loc:            loc,
	}
}

func (s *productoService) Listar(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		resp[i] = productoToResponse(&productos[i])
	}
	return resp, nil
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	cat, err := s.categoria(ctx, req.CategoriaID)
	if err != nil {
		return nil, err
	}

	p := &model.Producto{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Precio:      req.Precio.Round(2),
		StockMinimo: stockMinimoDefault,
		CategoriaID: cat.ID,
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	p.Categoria = cat

	resp := productoToResponse(p)
	return &resp, nil
}

// Actualizar replaces the editable fields. A stock change is journaled as
// ajuste_manual in the same transaction.
func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	cat, err := s.categoria(ctx, req.CategoriaID)
	if err != nil {
		return nil, err
	}

	var p *model.Producto
	stockAnterior := 0
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		p, err = s.repo.FindByIDTx(tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("Producto %s no encontrado", id)
			}
			return err
		}
		stockAnterior = p.Stock

		p.Nombre = strings.TrimSpace(req.Nombre)
		p.Descripcion = req.Descripcion
		p.Precio = req.Precio.Round(2)
		p.CategoriaID = cat.ID
		if req.Stock != nil {
			p.Stock = *req.Stock
		}
		if req.StockMinimo != nil {
			p.StockMinimo = *req.StockMinimo
		}
		p.Categoria = nil
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}

		if p.Stock == stockAnterior {
			return nil
		}
		return s.movimientoRepo.CreateTx(tx, &model.MovimientoStock{
			ProductoID:    p.ID,
			Tipo:          model.MovimientoAjusteManual,
			Cantidad:      p.Stock - stockAnterior,
			StockAnterior: stockAnterior,
			StockNuevo:    p.Stock,
			Motivo:        "Edición de producto",
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	p.Categoria = cat

	invalidarDashboard(ctx, s.cache, s.loc, time.Now())
	if p.Stock != stockAnterior && p.StockBajo() {
		payload := worker.AlertaStockPayload{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			Stock:       p.Stock,
			StockMinimo: p.StockMinimo,
		}
		if err := s.dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
			log.Warn().Err(err).Str("producto_id", p.ID.String()).Msg("producto: no se pudo encolar alerta de stock")
		}
	}

	resp := productoToResponse(p)
	return &resp, nil
}

// Eliminar refuses to delete a product that appears in any sale, so the
// history keeps resolving its name.
func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) (*dto.MessageResponse, error) {
	n, err := s.repo.CountVentaItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apierror.Conflict("No se puede eliminar. El producto aparece en %d venta(s).", n)
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, apierror.NotFound("Producto %s no encontrado", id)
	}
	invalidarDashboard(ctx, s.cache, s.loc, time.Now())
	return &dto.MessageResponse{Message: "Producto eliminado exitosamente"}, nil
}

func (s *productoService) Movimientos(ctx context.Context, id uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error) {
	if _, err := s.buscar(ctx, id); err != nil {
		return nil, err
	}
	movs, err := s.movimientoRepo.ListByProducto(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoStockResponse, len(movs))
	for i, m := range movs {
		r := dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.In(s.loc).Format(dto.DateTimeLayout),
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			r.ReferenciaID = &ref
		}
		resp[i] = r
	}
	return resp, nil
}

func (s *productoService) buscar(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("Producto %s no encontrado", id)
		}
		return nil, err
	}
	return p, nil
}

func (s *productoService) categoria(ctx context.Context, raw string) (*model.Categoria, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apierror.Invalid("Categoría inválida")
	}
	cat, err := s.categoriaRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.Invalid("La categoría seleccionada no existe")
		}
		return nil, err
	}
	return cat, nil
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		Stock:       p.Stock,
		StockMinimo: p.StockMinimo,
		StockBajo:   p.StockBajo(),
		CategoriaID: p.CategoriaID.String(),
		Categoria:   categoriaRef(p.Categoria),
	}
}
