package entity

import "time"

// Tipos de movimiento de inventario (value object conceptual).
const (
	MovementTypeIn     = "IN"         // entrada
	MovementTypeOut    = "OUT"        // salida
	MovementTypeAdjust = "ADJUSTMENT" // ajuste (auditoría)
)

// Movement representa un movimiento de inventario (entrada, salida o ajuste).
// Es inmutable una vez creado: el ledger es append-only y sirve de pista de auditoría.
type Movement struct {
	ID        string
	ProductID string
	Type      string // IN, OUT, ADJUSTMENT
	Quantity  int    // positivo para IN/OUT, con signo para ADJUSTMENT
	Reference string // factura, orden de compra/venta, nota de ajuste, etc.
	Note      string
	CreatedBy string // UserID
	CreatedAt time.Time
}

// MovementWithProduct movimiento más snapshot del producto al momento de la lectura.
// El snapshot es conveniencia de presentación, no se persiste junto al movimiento.
type MovementWithProduct struct {
	Movement Movement
	Product  Product
}
