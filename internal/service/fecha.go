package service

import (
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/apierror"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/dto"
)

// parseFecha reads a client supplied date. Empty means now. A bare
// YYYY-MM-DD is taken in loc: today's date keeps the current time, any other
// day starts at local midnight. RFC3339 is used as given.
func parseFecha(raw string, loc *time.Location, now time.Time) (time.Time, error) {
	if raw == "" {
		return now.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	dia, err := time.ParseInLocation(dto.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, apierror.Invalid("Fecha inválida, use YYYY-MM-DD")
	}
	if dia.Format(dto.DateLayout) == now.In(loc).Format(dto.DateLayout) {
		return now.UTC(), nil
	}
	return dia.UTC(), nil
}
