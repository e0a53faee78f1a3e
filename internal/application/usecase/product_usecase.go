package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// MaxInitialStock tope de stock inicial al crear un producto.
const MaxInitialStock = 9999

// ProductUseCase CRUD de productos. El stock solo se inicializa aquí; después
// se muta únicamente vía movimientos de inventario.
type ProductUseCase struct {
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	movementRepo repository.MovementRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, userRepo repository.UserRepository, movementRepo repository.MovementRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, userRepo: userRepo, movementRepo: movementRepo}
}

// Create crea un producto con stock inicial opcional (0..9999).
func (uc *ProductUseCase) Create(userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	stock := 0
	if in.Stock != nil {
		if *in.Stock < 0 || *in.Stock > MaxInitialStock {
			return nil, fmt.Errorf("%w: stock inicial fuera de rango [0, %d]: %d", domain.ErrInvalidInput, MaxInitialStock, *in.Stock)
		}
		stock = *in.Stock
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       stock,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return uc.toResponse(product, nil), nil
}

// GetByID obtiene un producto con los datos de su creador.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(product, nil), nil
}

// List lista productos con paginación page/limit y metadatos.
func (uc *ProductUseCase) List(page, limit int) (*dto.ProductListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	total, err := uc.productRepo.Count()
	if err != nil {
		return nil, err
	}
	list, err := uc.productRepo.List(limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	// Cache de creadores para no repetir lecturas en la misma página.
	users := map[string]*entity.User{}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *uc.toResponse(p, users))
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &dto.ProductListResponse{
		Data: items,
		Meta: dto.PaginationMeta{Total: total, Page: page, Limit: limit, TotalPages: totalPages},
	}, nil
}

// Update actualiza nombre, descripción y/o precio. Solo el dueño o un admin.
func (uc *ProductUseCase) Update(id, userID, role string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if role != entity.RoleAdmin && product.CreatedBy != userID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return uc.toResponse(product, nil), nil
}

// Delete elimina un producto sin historial. Un producto con movimientos no se
// puede borrar: el ledger es la pista de auditoría y quedaría huérfano.
func (uc *ProductUseCase) Delete(id, userID, role string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if role != entity.RoleAdmin && product.CreatedBy != userID {
		return domain.ErrForbidden
	}
	count, err := uc.movementRepo.CountByProduct(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: el producto tiene %d movimiento(s) de inventario registrados", domain.ErrInvalidInput, count)
	}
	return uc.productRepo.Delete(id)
}

// toResponse arma la respuesta con el creador embebido. users puede ser nil o un
// cache compartido entre llamadas (listados).
func (uc *ProductUseCase) toResponse(p *entity.Product, users map[string]*entity.User) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	var creator *entity.User
	if users != nil {
		creator = users[p.CreatedBy]
	}
	if creator == nil {
		creator, _ = uc.userRepo.GetByID(p.CreatedBy)
		if users != nil && creator != nil {
			users[p.CreatedBy] = creator
		}
	}
	if creator != nil {
		resp.User = &dto.UserInfo{ID: creator.ID, Username: creator.Username, Email: creator.Email}
	}
	return resp
}
