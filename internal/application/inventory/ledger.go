package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// LedgerUseCase registra movimientos de inventario (IN, OUT, ADJUSTMENT) de forma
// transaccional: el insert del movimiento y la mutación del contador de stock
// se comprometen juntos o no se comprometen. La resta de stock usa una sentencia
// condicional contra el contador vivo (stock >= cantidad al momento del commit),
// nunca una lectura previa en memoria.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, productRepo: productRepo}
}

// MovementInput entrada para un movimiento. Quantity lleva signo solo en ajustes.
type MovementInput struct {
	ProductID string
	Quantity  int
	Reference string
	Note      string
}

// Receive registra una entrada (IN): inserta el movimiento y suma la cantidad al
// stock en una sola transacción.
func (uc *LedgerUseCase) Receive(ctx context.Context, actor Actor, in MovementInput) (*dto.MovementResponse, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser positiva, recibido %d", domain.ErrInvalidInput, in.Quantity)
	}
	product, err := uc.loadProduct(in.ProductID)
	if err != nil {
		return nil, err
	}
	if !CanMutateStock(actor, product, entity.MovementTypeIn) {
		return nil, domain.ErrForbidden
	}

	var out *dto.MovementResponse
	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		mov := newMovement(in, entity.MovementTypeIn, in.Quantity, actor.ID)
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		updated, err := productRepo.IncrementStock(in.ProductID, in.Quantity)
		if err != nil {
			return err
		}
		if updated == nil {
			// El producto fue borrado entre la verificación previa y el commit.
			return domain.ErrNotFound
		}
		out = toMovementResponse(mov, updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Issue registra una salida (OUT). La resta es condicional: si otro commit
// concurrente ya consumió el stock restante, la guarda no se cumple, no se
// escribe ningún movimiento y la operación falla con ErrInsufficientStock.
func (uc *LedgerUseCase) Issue(ctx context.Context, actor Actor, in MovementInput) (*dto.MovementResponse, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser positiva, recibido %d", domain.ErrInvalidInput, in.Quantity)
	}
	product, err := uc.loadProduct(in.ProductID)
	if err != nil {
		return nil, err
	}
	if !CanMutateStock(actor, product, entity.MovementTypeOut) {
		return nil, domain.ErrForbidden
	}

	var out *dto.MovementResponse
	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		updated, err := productRepo.ConditionalDecrementStock(in.ProductID, in.Quantity)
		if err != nil {
			return err
		}
		if updated == nil {
			// Cero filas afectadas: el contador vivo ya no alcanza.
			return fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, product.Stock, in.Quantity)
		}
		mov := newMovement(in, entity.MovementTypeOut, in.Quantity, actor.ID)
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		out = toMovementResponse(mov, updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Adjust registra un ajuste (ADJUSTMENT) con delta con signo. El stock resultante
// debe quedar >= 0; la guarda se verifica en el store al momento del commit.
func (uc *LedgerUseCase) Adjust(ctx context.Context, actor Actor, in MovementInput) (*dto.MovementResponse, error) {
	product, err := uc.loadProduct(in.ProductID)
	if err != nil {
		return nil, err
	}
	if !CanMutateStock(actor, product, entity.MovementTypeAdjust) {
		return nil, domain.ErrForbidden
	}

	var out *dto.MovementResponse
	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		mov := newMovement(in, entity.MovementTypeAdjust, in.Quantity, actor.ID)
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		updated, err := productRepo.AdjustStock(in.ProductID, in.Quantity)
		if err != nil {
			return err
		}
		if updated == nil {
			return fmt.Errorf("%w: stock insuficiente para el ajuste, actual %d, delta %d", domain.ErrInvalidInput, product.Stock, in.Quantity)
		}
		out = toMovementResponse(mov, updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Dispatch enruta un request genérico a Receive, Issue o Adjust según el tipo.
// El manejo del tipo es exhaustivo: un tipo nuevo exige tocar este switch.
func (uc *LedgerUseCase) Dispatch(ctx context.Context, actor Actor, req dto.MovementRequest) (*dto.MovementResponse, error) {
	in := MovementInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Reference: req.Reference,
		Note:      req.Note,
	}
	switch req.Type {
	case entity.MovementTypeIn:
		return uc.Receive(ctx, actor, in)
	case entity.MovementTypeOut:
		return uc.Issue(ctx, actor, in)
	case entity.MovementTypeAdjust:
		return uc.Adjust(ctx, actor, in)
	}
	return nil, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, req.Type)
}

func (uc *LedgerUseCase) loadProduct(id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func newMovement(in MovementInput, movementType string, quantity int, actorID string) *entity.Movement {
	return &entity.Movement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Type:      movementType,
		Quantity:  quantity,
		Reference: in.Reference,
		Note:      in.Note,
		CreatedBy: actorID,
		CreatedAt: time.Now(),
	}
}

func toMovementResponse(mov *entity.Movement, product *entity.Product) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:        mov.ID,
		ProductID: mov.ProductID,
		Type:      mov.Type,
		Quantity:  mov.Quantity,
		Reference: mov.Reference,
		Note:      mov.Note,
		CreatedBy: mov.CreatedBy,
		CreatedAt: mov.CreatedAt,
		Product: dto.ProductSnapshot{
			ID:    product.ID,
			Name:  product.Name,
			Price: product.Price,
			Stock: product.Stock,
		},
	}
}
