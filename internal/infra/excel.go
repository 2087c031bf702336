package infra

import (
	"fmt"
	"io"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/dto"

	"github.com/xuri/excelize/v2"
)

const historialSheet = "Historial"

var historialHeader = []any{"Fecha", "Tipo", "Descripción", "Usuario", "Categoría", "Monto"}

// WriteHistorialXLSX writes the history feed as a single-sheet workbook: one
// header row followed by one row per entry, in the order given.
func WriteHistorialXLSX(w io.Writer, entries []dto.HistorialEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historialSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("xlsx: style: %w", err)
	}

	if err := f.SetSheetRow(historialSheet, "A1", &historialHeader); err != nil {
		return fmt.Errorf("xlsx: header: %w", err)
	}
	if err := f.SetCellStyle(historialSheet, "A1", "F1", bold); err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		monto, _ := e.Monto.Float64()
		row := []any{
			e.Fecha.Format("2006-01-02 15:04"),
			e.Tipo,
			e.Descripcion,
			deref(e.Usuario),
			deref(e.Categoria),
			monto,
		}
		if err := f.SetSheetRow(historialSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+2, err)
		}
	}

	if n := len(entries); n > 0 {
		last, _ := excelize.CoordinatesToCellName(6, n+1)
		if err := f.SetCellStyle(historialSheet, "F2", last, money); err != nil {
			return fmt.Errorf("xlsx: money style: %w", err)
		}
	}
	_ = f.SetColWidth(historialSheet, "A", "A", 18)
	_ = f.SetColWidth(historialSheet, "C", "C", 48)
	_ = f.SetColWidth(historialSheet, "D", "E", 20)
	_ = f.SetColWidth(historialSheet, "F", "F", 14)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
