package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// Solo INSERT y SELECT: la tabla movements es append-only.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, product_id, type, quantity, reference, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	reference := (*string)(nil)
	if movement.Reference != "" {
		reference = &movement.Reference
	}
	note := (*string)(nil)
	if movement.Note != "" {
		note = &movement.Note
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		reference, note, movement.CreatedBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

const movementWithProductQuery = `
	SELECT m.id, m.product_id, m.type, m.quantity, m.reference, m.note, m.created_by, m.created_at,
	       p.id, p.name, p.description, p.price, p.stock, p.created_by, p.created_at, p.updated_at
	FROM movements m
	JOIN products p ON p.id = m.product_id`

// ListAll lista movimientos de todos los productos, más recientes primero, con
// snapshot del producto al momento de la lectura.
func (r *MovementRepo) ListAll(limit, offset int) ([]*entity.MovementWithProduct, error) {
	query := movementWithProductQuery + `
	ORDER BY m.created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// CountAll devuelve el total de movimientos del ledger.
func (r *MovementRepo) CountAll() (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM movements`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return total, nil
}

// ListByProduct lista el historial de un producto, más recientes primero.
// Apoyado en el índice (product_id, created_at).
func (r *MovementRepo) ListByProduct(productID string) ([]*entity.MovementWithProduct, error) {
	query := movementWithProductQuery + `
	WHERE m.product_id = $1
	ORDER BY m.created_at DESC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// CountByProduct cuenta los movimientos de un producto.
func (r *MovementRepo) CountByProduct(productID string) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM movements WHERE product_id = $1`, productID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count movements by product: %w", err)
	}
	return total, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.MovementWithProduct, error) {
	var list []*entity.MovementWithProduct
	for rows.Next() {
		var mp entity.MovementWithProduct
		var reference, note *string
		if err := rows.Scan(
			&mp.Movement.ID, &mp.Movement.ProductID, &mp.Movement.Type, &mp.Movement.Quantity,
			&reference, &note, &mp.Movement.CreatedBy, &mp.Movement.CreatedAt,
			&mp.Product.ID, &mp.Product.Name, &mp.Product.Description, &mp.Product.Price,
			&mp.Product.Stock, &mp.Product.CreatedBy, &mp.Product.CreatedAt, &mp.Product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if reference != nil {
			mp.Movement.Reference = *reference
		}
		if note != nil {
			mp.Movement.Note = *note
		}
		list = append(list, &mp)
	}
	return list, rows.Err()
}
