package inventory

import (
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// Paginación de listados de movimientos.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// QueryUseCase lado de lectura del ledger: historial global paginado e
// historial por producto.
type QueryUseCase struct {
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(movementRepo repository.MovementRepository, productRepo repository.ProductRepository) *QueryUseCase {
	return &QueryUseCase{movementRepo: movementRepo, productRepo: productRepo}
}

// ListMovements lista movimientos de todos los productos, más recientes primero,
// con snapshot del producto al momento de la lectura.
func (uc *QueryUseCase) ListMovements(page, limit int) (*dto.MovementListResponse, error) {
	page, limit = clampPage(page, limit)
	offset := (page - 1) * limit

	total, err := uc.movementRepo.CountAll()
	if err != nil {
		return nil, err
	}
	list, err := uc.movementRepo.ListAll(limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MovementResponse, 0, len(list))
	for _, mp := range list {
		items = append(items, *toMovementResponse(&mp.Movement, &mp.Product))
	}
	return &dto.MovementListResponse{
		Data: items,
		Meta: dto.PaginationMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages(total, limit),
		},
	}, nil
}

// GetProductHistory devuelve el historial de un producto, más recientes primero.
// Falla con ErrNotFound antes de consultar movimientos si el producto no existe.
func (uc *QueryUseCase) GetProductHistory(productID string) ([]dto.MovementResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movementRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, mp := range list {
		items = append(items, *toMovementResponse(&mp.Movement, &mp.Product))
	}
	return items, nil
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
