package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementRequest body para POST /api/inventory-movements (despachador genérico).
// Quantity lleva signo solo para ADJUSTMENT.
type MovementRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity  int    `json:"quantity" validate:"required"`
	Reference string `json:"reference"`
	Note      string `json:"note"`
}

// StockChangeRequest body para los endpoints dedicados de entrada/salida.
type StockChangeRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Reference string `json:"reference"`
	Note      string `json:"note"`
}

// ProductSnapshot snapshot del producto embebido en respuestas de movimiento.
type ProductSnapshot struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// MovementResponse movimiento comprometido más snapshot del producto.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Type      string          `json:"type"`
	Quantity  int             `json:"quantity"`
	Reference string          `json:"reference,omitempty"`
	Note      string          `json:"note,omitempty"`
	CreatedBy string          `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
	Product   ProductSnapshot `json:"product"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Data []MovementResponse `json:"data"`
	Meta PaginationMeta     `json:"meta"`
}
