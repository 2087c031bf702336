// Package dto holds the request and response shapes of the HTTP API.
package dto

import "github.com/shopspring/decimal"

func init() {
	// Money goes out as JSON numbers (12.5) rather than strings ("12.5").
	decimal.MarshalJSONWithoutQuotes = true
}

// MessageResponse is the body of successful mutations that return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// Layouts used by every DTO carrying a date.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05Z07:00"
)
