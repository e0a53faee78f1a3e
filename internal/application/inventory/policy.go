package inventory

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// Actor identidad autenticada que solicita un movimiento.
type Actor struct {
	ID   string
	Role string
}

// CanMutateStock decide si el actor puede mutar el stock del producto para el tipo
// de movimiento dado. Función pura, sin acceso a datos.
//
// Reglas:
//   - IN / OUT: admin, o el dueño del producto (quien lo creó).
//   - ADJUSTMENT: solo admin. Los ajustes son correcciones de auditoría y no
//     pueden autoconcederse por un dueño sin privilegios.
func CanMutateStock(actor Actor, product *entity.Product, movementType string) bool {
	switch movementType {
	case entity.MovementTypeIn, entity.MovementTypeOut:
		return actor.Role == entity.RoleAdmin || actor.ID == product.CreatedBy
	case entity.MovementTypeAdjust:
		return actor.Role == entity.RoleAdmin
	}
	return false
}
