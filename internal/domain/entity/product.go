package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock es el contador de existencias; solo se muta vía movimientos de inventario
// (operaciones atómicas del repositorio) y nunca puede quedar negativo.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Stock       int
	CreatedBy   string // UserID del creador (dueño del producto)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
