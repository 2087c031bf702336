package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/dto"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/infra"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/repository"
)

const (
	sinAsignar   = "Sin asignar"
	sinCategoria = "Sin categoría"
)

type HistorialService interface {
	Listar(ctx context.Context) ([]dto.HistorialEntry, error)
	Exportar(ctx context.Context, w io.Writer) error
}

type historialService struct {
	ventas    repository.VentaRepository
	servicios repository.ServicioRepository
	egresos   repository.EgresoRepository
	loc       *time.Location
}

func NewHistorialService(
	ventas repository.VentaRepository,
	servicios repository.ServicioRepository,
	egresos repository.EgresoRepository,
	loc *time.Location,
) HistorialService {
	if loc == nil {
		loc = time.UTC
	}
	return &historialService{ventas: ventas, servicios: servicios, egresos: egresos, loc: loc}
}

// Listar merges ventas, servicios and egresos into one feed ordered by date,
// newest first. Entries with the same date keep source order.
func (s *historialService) Listar(ctx context.Context) ([]dto.HistorialEntry, error) {
	ventas, err := s.ventas.List(ctx, repository.VentaFilter{})
	if err != nil {
		return nil, fmt.Errorf("historial: ventas: %w", err)
	}
	servicios, err := s.servicios.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("historial: servicios: %w", err)
	}
	egresos, err := s.egresos.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("historial: egresos: %w", err)
	}

	feed := make([]dto.HistorialEntry, 0, len(ventas)+len(servicios)+len(egresos))

	for _, v := range ventas {
		partes := make([]string, 0, len(v.Items))
		for _, it := range v.Items {
			nombre := "Producto eliminado"
			if it.Producto != nil {
				nombre = it.Producto.Nombre
			}
			partes = append(partes, fmt.Sprintf("%s x%d", nombre, it.Cantidad))
		}
		usuario := sinAsignar
		if v.Usuario != nil {
			usuario = v.Usuario.Nombre
		}
		feed = append(feed, dto.HistorialEntry{
			ID:          v.ID.String(),
			Tipo:        dto.TipoVenta,
			Fecha:       v.Fecha.In(s.loc),
			Descripcion: strings.Join(partes, ", "),
			Monto:       v.Total,
			Usuario:     &usuario,
		})
	}

	for _, sv := range servicios {
		tipo := sinCategoria
		if sv.TipoServicio != nil {
			tipo = sv.TipoServicio.Nombre
		}
		feed = append(feed, dto.HistorialEntry{
			ID:          sv.ID.String(),
			Tipo:        dto.TipoServicio,
			Fecha:       sv.Fecha.In(s.loc),
			Descripcion: fmt.Sprintf("%s (%s)", sv.Descripcion, tipo),
			Monto:       sv.Monto,
			Categoria:   &tipo,
		})
	}

	for _, e := range egresos {
		categoria := sinCategoria
		if e.CategoriaEgreso != nil {
			categoria = e.CategoriaEgreso.Nombre
		}
		feed = append(feed, dto.HistorialEntry{
			ID:          e.ID.String(),
			Tipo:        dto.TipoEgreso,
			Fecha:       e.Fecha.In(s.loc),
			Descripcion: e.Descripcion,
			Monto:       e.Monto.Neg(),
			Categoria:   &categoria,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Fecha.After(feed[j].Fecha)
	})
	return feed, nil
}

// Exportar writes the same feed as an .xlsx workbook.
func (s *historialService) Exportar(ctx context.Context, w io.Writer) error {
	feed, err := s.Listar(ctx)
	if err != nil {
		return err
	}
	return infra.WriteHistorialXLSX(w, feed)
}
