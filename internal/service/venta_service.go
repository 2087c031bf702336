package service

import (
	"context"
	"io"
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/apierror"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/dto"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/infra"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/model"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/repository"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Solicitante is the authenticated caller as carried by the session token.
type Solicitante struct {
	ID  uuid.UUID
	Rol string
}

func (s Solicitante) EsAdmin() bool { return s.Rol == model.RolAdmin }

type VentaService interface {
	Crear(ctx context.Context, vendedorID uuid.UUID, req dto.CrearVentaRequest) (*dto.VentaResponse, error)
	Eliminar(ctx context.Context, id, solicitanteID uuid.UUID) (*dto.MessageResponse, error)
	Listar(ctx context.Context, solicitante Solicitante, filter dto.VentaFilter) ([]dto.VentaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID, solicitante Solicitante) (*dto.VentaResponse, error)
	Ticket(ctx context.Context, id uuid.UUID, solicitante Solicitante, w io.Writer) error
}

type ventaService struct {
	repo           repository.VentaRepository
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
	usuarioRepo    repository.UsuarioRepository
	dispatcher     *worker.Dispatcher
	cache          *infra.Cache
	loc            *time.Location
	businessName   string
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoStockRepository,
	usuarioRepo repository.UsuarioRepository,
	dispatcher *worker.Dispatcher,
	cache *infra.Cache,
	loc *time.Location,
	businessName string,
) VentaService {
	if loc == nil {
		loc = time.UTC
	}
	return &ventaService{
		repo:           repo,
		productoRepo:   productoRepo,
		movimientoRepo: movimientoRepo,
		usuarioRepo:    usuarioRepo,
		dispatcher:     dispatcher,
		cache:          cache,
		loc:            loc,
		businessName:   businessName,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func stockInsuficiente(nombre string) error {
	return apierror.Invalid("Stock insuficiente para %s", nombre)
}

// ── Crear ─────────────────────────────────────────────────────────────────────
//   1. Resolve every product and check stock (pre-flight, outside TX)
//   2. BEGIN TX: insert venta + items, guarded stock decrement per line,
//      journal one movimiento per line
//   3. COMMIT
//   4. Invalidate dashboard cache, enqueue low-stock alerts

func (s *ventaService) Crear(ctx context.Context, vendedorID uuid.UUID, req dto.CrearVentaRequest) (*dto.VentaResponse, error) {
	if len(req.Productos) == 0 {
		return nil, apierror.Invalid("La venta debe incluir al menos un producto")
	}

	type linea struct {
		producto *model.Producto
		cantidad int
	}
	lineas := make([]linea, 0, len(req.Productos))
	pedido := make(map[uuid.UUID]int) // requested qty per product across lines
	total := decimal.Zero

	for _, item := range req.Productos {
		if item.Cantidad <= 0 {
			return nil, apierror.Invalid("La cantidad debe ser mayor a cero")
		}
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, apierror.NotFound("Producto %s no encontrado", item.ProductoID)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, apierror.NotFound("Producto %s no encontrado", item.ProductoID)
			}
			return nil, err
		}
		pedido[pid] += item.Cantidad
		if p.Stock < pedido[pid] {
			return nil, stockInsuficiente(p.Nombre)
		}
		total = total.Add(p.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad))))
		lineas = append(lineas, linea{producto: p, cantidad: item.Cantidad})
	}

	estado := req.Estado
	if estado == "" {
		estado = model.EstadoCompletada
	}

	venta := model.Venta{
		Fecha:  time.Now().UTC(),
		Total:  total,
		Estado: estado,
	}
	if vendedorID != uuid.Nil {
		vid := vendedorID
		venta.UsuarioID = &vid
	}
	for _, l := range lineas {
		venta.Items = append(venta.Items, model.VentaItem{
			ProductoID:     l.producto.ID,
			Cantidad:       l.cantidad,
			PrecioUnitario: l.producto.Precio,
		})
	}

	stockFinal := make(map[uuid.UUID]int)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			return err
		}
		for _, l := range lineas {
			nuevo, ok, err := s.productoRepo.DecrementStockTx(tx, l.producto.ID, l.cantidad)
			if err != nil {
				return err
			}
			if !ok {
				// Another sale consumed the stock after the pre-flight check.
				return stockInsuficiente(l.producto.Nombre)
			}
			ref := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    l.producto.ID,
				Tipo:          model.MovimientoVenta,
				Cantidad:      -l.cantidad,
				StockAnterior: nuevo + l.cantidad,
				StockNuevo:    nuevo,
				Motivo:        "Venta " + venta.ID.String()[:8],
				ReferenciaID:  &ref,
			}
			if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
				return err
			}
			stockFinal[l.producto.ID] = nuevo
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	invalidarDashboard(ctx, s.cache, s.loc, time.Now())

	// Low-stock alerts (best-effort; the sale is already committed)
	alertados := make(map[uuid.UUID]bool)
	for _, l := range lineas {
		p := l.producto
		stock, ok := stockFinal[p.ID]
		if !ok || alertados[p.ID] || stock > p.StockMinimo {
			continue
		}
		alertados[p.ID] = true
		payload := worker.AlertaStockPayload{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			Stock:       stock,
			StockMinimo: p.StockMinimo,
		}
		if err := s.dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
			log.Warn().Err(err).Str("producto_id", p.ID.String()).Msg("venta: no se pudo encolar alerta de stock")
		}
	}

	for i := range venta.Items {
		venta.Items[i].Producto = lineas[i].producto
	}
	resp := s.toResponse(&venta)
	return &resp, nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *ventaService) Eliminar(ctx context.Context, id, solicitanteID uuid.UUID) (*dto.MessageResponse, error) {
	solicitante, err := s.usuarioRepo.FindByID(ctx, solicitanteID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.Unauthorized("No autenticado")
		}
		return nil, err
	}
	if !solicitante.EsAdmin() {
		return nil, apierror.Forbidden("No autorizado")
	}

	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("Venta no encontrada")
		}
		return nil, err
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.repo.DeleteTx(tx, venta.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			// Deleted concurrently; restoring stock again would double count.
			return apierror.NotFound("Venta no encontrada")
		}
		for _, item := range venta.Items {
			nuevo, err := s.productoRepo.IncrementStockTx(tx, item.ProductoID, item.Cantidad)
			if err != nil {
				return err
			}
			ref := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    item.ProductoID,
				Tipo:          model.MovimientoAnulacion,
				Cantidad:      item.Cantidad,
				StockAnterior: nuevo - item.Cantidad,
				StockNuevo:    nuevo,
				Motivo:        "Eliminación venta " + venta.ID.String()[:8],
				ReferenciaID:  &ref,
			}
			if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	invalidarDashboard(ctx, s.cache, s.loc, time.Now())
	log.Info().Str("venta_id", venta.ID.String()).Str("usuario_id", solicitanteID.String()).Msg("venta eliminada")
	return &dto.MessageResponse{Message: "Venta eliminada exitosamente"}, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *ventaService) Listar(ctx context.Context, solicitante Solicitante, filter dto.VentaFilter) ([]dto.VentaResponse, error) {
	var f repository.VentaFilter
	if !solicitante.EsAdmin() {
		uid := solicitante.ID
		f.UsuarioID = &uid
	}
	if filter.Fecha != "" {
		dia, err := time.ParseInLocation(dto.DateLayout, filter.Fecha, s.loc)
		if err != nil {
			return nil, apierror.Invalid("Fecha inválida, use YYYY-MM-DD")
		}
		hasta := dia.AddDate(0, 0, 1)
		f.Desde, f.Hasta = &dia, &hasta
	}

	ventas, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.VentaResponse, len(ventas))
	for i := range ventas {
		resp[i] = s.toResponse(&ventas[i])
	}
	return resp, nil
}

func (s *ventaService) Obtener(ctx context.Context, id uuid.UUID, solicitante Solicitante) (*dto.VentaResponse, error) {
	venta, err := s.visible(ctx, id, solicitante)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(venta)
	return &resp, nil
}

// Ticket renders the sale receipt PDF into w.
func (s *ventaService) Ticket(ctx context.Context, id uuid.UUID, solicitante Solicitante, w io.Writer) error {
	venta, err := s.visible(ctx, id, solicitante)
	if err != nil {
		return err
	}
	return infra.WriteTicketPDF(w, venta, s.businessName, s.loc)
}

// visible loads a sale the caller may see: admins see every sale, everyone
// else only their own. Foreign sales are reported as not found.
func (s *ventaService) visible(ctx context.Context, id uuid.UUID, solicitante Solicitante) (*model.Venta, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("Venta no encontrada")
		}
		return nil, err
	}
	if !solicitante.EsAdmin() && (venta.UsuarioID == nil || *venta.UsuarioID != solicitante.ID) {
		return nil, apierror.NotFound("Venta no encontrada")
	}
	return venta, nil
}

func (s *ventaService) toResponse(v *model.Venta) dto.VentaResponse {
	local := v.Fecha.In(s.loc)
	resp := dto.VentaResponse{
		ID:        v.ID.String(),
		Fecha:     local.Format(dto.DateLayout),
		Hora:      local.Format("15:04"),
		Total:     v.Total,
		Estado:    v.Estado,
		Productos: make([]dto.ItemVentaResponse, 0, len(v.Items)),
	}
	if v.Usuario != nil {
		nombre := v.Usuario.Nombre
		resp.Vendedor = &nombre
	}
	for _, it := range v.Items {
		nombre := ""
		if it.Producto != nil {
			nombre = it.Producto.Nombre
		}
		resp.Productos = append(resp.Productos, dto.ItemVentaResponse{
			ProductoID:     it.ProductoID.String(),
			Nombre:         nombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal(),
		})
	}
	return resp
}
