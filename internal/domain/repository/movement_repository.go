package repository

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// MovementRepository puerto de persistencia para el ledger de movimientos.
// Solo inserta y lee: los movimientos nunca se actualizan ni se borran.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	// ListAll lista movimientos de todos los productos, más recientes primero,
	// con snapshot del producto.
	ListAll(limit, offset int) ([]*entity.MovementWithProduct, error)
	CountAll() (int, error)
	// ListByProduct lista el historial de un producto, más recientes primero.
	ListByProduct(productID string) ([]*entity.MovementWithProduct, error)
	// CountByProduct cuenta los movimientos de un producto (guard para borrado).
	CountByProduct(productID string) (int, error)
}
