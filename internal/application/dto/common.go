package dto

import "github.com/jhoicas/stock-ledger/internal/domain"

// Límites de paginación de los listados.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto y acota Limit a [1, MaxLimit].
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// InsufficientStockResponse error 400 de una salida sin stock suficiente.
type InsufficientStockResponse struct {
	Code              string `json:"code"`
	Message           string `json:"message"`
	ProductID         string `json:"product_id"`
	CurrentStock      int64  `json:"current_stock"`
	RequestedQuantity int64  `json:"requested_quantity"`
}
