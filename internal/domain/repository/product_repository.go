package repository

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// ProductRepository puerto de persistencia para productos.
// Las tres operaciones de stock son atómicas a nivel de store: mutan el contador
// en una sola sentencia condicional y devuelven el producto ya actualizado.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Count() (int, error)
	Update(product *entity.Product) error
	Delete(id string) error

	// IncrementStock suma amount al stock y devuelve el producto actualizado.
	IncrementStock(id string, amount int) (*entity.Product, error)
	// ConditionalDecrementStock resta amount solo si stock >= amount al momento
	// del commit. Devuelve nil (sin error) si la guarda no se cumple: ninguna
	// fila afectada, el caller decide el error de dominio.
	ConditionalDecrementStock(id string, amount int) (*entity.Product, error)
	// AdjustStock aplica un delta con signo solo si stock + delta >= 0.
	// Devuelve nil si la guarda no se cumple.
	AdjustStock(id string, delta int) (*entity.Product, error)
}
