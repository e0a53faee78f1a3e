package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Matriz de autorización de movimientos: rol × propiedad × tipo.
// ──────────────────────────────────────────────────────────────────────────────

func TestCanMutateStock_Matriz(t *testing.T) {
	owner := inventory.Actor{ID: "user-1", Role: entity.RoleUser}
	other := inventory.Actor{ID: "user-2", Role: entity.RoleUser}
	admin := inventory.Actor{ID: "admin-1", Role: entity.RoleAdmin}

	product := &entity.Product{ID: "prod-1", CreatedBy: owner.ID}

	cases := []struct {
		name         string
		actor        inventory.Actor
		movementType string
		want         bool
	}{
		{"dueño puede IN", owner, entity.MovementTypeIn, true},
		{"dueño puede OUT", owner, entity.MovementTypeOut, true},
		{"dueño NO puede ADJUSTMENT", owner, entity.MovementTypeAdjust, false},
		{"otro usuario NO puede IN", other, entity.MovementTypeIn, false},
		{"otro usuario NO puede OUT", other, entity.MovementTypeOut, false},
		{"admin puede IN", admin, entity.MovementTypeIn, true},
		{"admin puede OUT", admin, entity.MovementTypeOut, true},
		{"admin puede ADJUSTMENT", admin, entity.MovementTypeAdjust, true},
		{"tipo desconocido niega incluso a admin", admin, "TRANSFER", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.CanMutateStock(tc.actor, product, tc.movementType)
			assert.Equal(t, tc.want, got)
		})
	}
}
