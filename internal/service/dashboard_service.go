package service

import (
	"context"
	"sort"
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/dto"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/infra"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/model"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	cacheKeyStatsPrefix = "dashboard:ventas-stats:"
	cacheKeyTopProducts = "dashboard:productos-mas-vendidos"

	topProductosLimit = 4
)

// statsCacheKey is per local day so yesterday's "diario" is never served.
func statsCacheKey(now time.Time, loc *time.Location) string {
	return cacheKeyStatsPrefix + now.In(loc).Format(dto.DateLayout)
}

// invalidarDashboard drops every cached dashboard payload. Called after any
// mutation of ventas, servicios, egresos or product data shown in rankings.
func invalidarDashboard(ctx context.Context, cache *infra.Cache, loc *time.Location, now time.Time) {
	cache.Invalidate(ctx, statsCacheKey(now, loc), cacheKeyTopProducts)
}

type DashboardService interface {
	VentasStats(ctx context.Context) (*dto.VentasStatsResponse, error)
	ProductosMasVendidos(ctx context.Context) ([]dto.ProductoMasVendido, error)
}

type dashboardService struct {
	ventas    repository.VentaRepository
	servicios repository.ServicioRepository
	egresos   repository.EgresoRepository
	cache     *infra.Cache
	loc       *time.Location
	now       func() time.Time
}

// NewDashboardService builds the stats aggregator. now may be nil (time.Now).
func NewDashboardService(
	ventas repository.VentaRepository,
	servicios repository.ServicioRepository,
	egresos repository.EgresoRepository,
	cache *infra.Cache,
	loc *time.Location,
	now func() time.Time,
) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &dashboardService{ventas: ventas, servicios: servicios, egresos: egresos, cache: cache, loc: loc, now: now}
}

// VentasStats rolls up today, this month and this year, with calendar
// boundaries taken in the business time zone.
func (s *dashboardService) VentasStats(ctx context.Context) (*dto.VentasStatsResponse, error) {
	now := s.now().In(s.loc)
	key := statsCacheKey(now, s.loc)

	var cached dto.VentasStatsResponse
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	inicioAnio := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, s.loc)
	finAnio := inicioAnio.AddDate(1, 0, 0)

	ventas, err := s.ventas.List(ctx, repository.VentaFilter{Desde: &inicioAnio, Hasta: &finAnio})
	if err != nil {
		return nil, err
	}
	servicios, err := s.servicios.List(ctx, &inicioAnio)
	if err != nil {
		return nil, err
	}
	egresos, err := s.egresos.List(ctx, &inicioAnio)
	if err != nil {
		return nil, err
	}

	var acc [3]periodoAcc // 0 diario, 1 mensual, 2 anual
	for _, v := range ventas {
		for _, i := range s.ventanas(now, v.Fecha) {
			acc[i].ingresos = acc[i].ingresos.Add(v.Total)
			acc[i].cantidad++
		}
	}
	for _, sv := range servicios {
		for _, i := range s.ventanas(now, sv.Fecha) {
			acc[i].ingresos = acc[i].ingresos.Add(sv.Monto)
			acc[i].cantidad++
		}
	}
	for _, e := range egresos {
		for _, i := range s.ventanas(now, e.Fecha) {
			acc[i].egresos = acc[i].egresos.Add(e.Monto)
		}
	}

	resp := &dto.VentasStatsResponse{
		Diario:  acc[0].stats(),
		Mensual: acc[1].stats(),
		Anual:   acc[2].stats(),
	}
	s.cache.SetJSON(ctx, key, resp)
	return resp, nil
}

type periodoAcc struct {
	ingresos decimal.Decimal
	egresos  decimal.Decimal
	cantidad int
}

func (a periodoAcc) stats() dto.PeriodoStats {
	return dto.PeriodoStats{
		Ingresos:       a.ingresos,
		Egresos:        a.egresos,
		Balance:        a.ingresos.Sub(a.egresos),
		CantidadVentas: a.cantidad,
	}
}

// ventanas returns the indexes of the windows (day, month, year) that t
// falls into relative to now.
func (s *dashboardService) ventanas(now, t time.Time) []int {
	t = t.In(s.loc)
	if t.Year() != now.Year() {
		return nil
	}
	if t.Month() != now.Month() {
		return []int{2}
	}
	if t.Day() != now.Day() {
		return []int{1, 2}
	}
	return []int{0, 1, 2}
}

// ProductosMasVendidos folds every sale line into product → quantity sold
// and returns the top four, ties broken by product name.
func (s *dashboardService) ProductosMasVendidos(ctx context.Context) ([]dto.ProductoMasVendido, error) {
	var cached []dto.ProductoMasVendido
	if s.cache.GetJSON(ctx, cacheKeyTopProducts, &cached) {
		return cached, nil
	}

	items, err := s.ventas.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	type acumulado struct {
		producto *model.Producto
		total    int
	}
	porProducto := make(map[uuid.UUID]*acumulado)
	var orden []*acumulado
	for _, it := range items {
		if it.Producto == nil {
			continue
		}
		a, ok := porProducto[it.ProductoID]
		if !ok {
			a = &acumulado{producto: it.Producto}
			porProducto[it.ProductoID] = a
			orden = append(orden, a)
		}
		a.total += it.Cantidad
	}

	sort.SliceStable(orden, func(i, j int) bool {
		if orden[i].total != orden[j].total {
			return orden[i].total > orden[j].total
		}
		return orden[i].producto.Nombre < orden[j].producto.Nombre
	})
	if len(orden) > topProductosLimit {
		orden = orden[:topProductosLimit]
	}

	resp := make([]dto.ProductoMasVendido, 0, len(orden))
	for _, a := range orden {
		p := a.producto
		resp = append(resp, dto.ProductoMasVendido{
			ID:           p.ID.String(),
			Nombre:       p.Nombre,
			Precio:       p.Precio,
			Stock:        p.Stock,
			Categoria:    categoriaRef(p.Categoria),
			TotalVendido: a.total,
		})
	}
	s.cache.SetJSON(ctx, cacheKeyTopProducts, resp)
	return resp, nil
}

func categoriaRef(c *model.Categoria) *dto.CategoriaRef {
	if c == nil {
		return nil
	}
	return &dto.CategoriaRef{ID: c.ID.String(), Nombre: c.Nombre}
}
