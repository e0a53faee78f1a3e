package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain"
)

// InventoryHandler maneja los movimientos de inventario y sus consultas (protegido).
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
	query  *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, query *inventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, query: query}
}

// CreateMovement godoc
// @Summary      Registrar movimiento de inventario (solo ADMIN)
// @Description  Despachador genérico: enruta IN, OUT o ADJUSTMENT según el tipo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "productId, type, quantity, reference, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory-movements [post]
func (h *InventoryHandler) CreateMovement(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.ledger.Dispatch(c.Context(), actorFrom(c), in)
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddStock godoc
// @Summary      Entrada de stock (dueño del producto o ADMIN)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockChangeRequest  true  "productId, quantity, reference, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory-movements/in [post]
func (h *InventoryHandler) AddStock(c *fiber.Ctx) error {
	in, ok := parseStockChange(c)
	if !ok {
		return nil
	}
	out, err := h.ledger.Receive(c.Context(), actorFrom(c), in)
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveStock godoc
// @Summary      Salida de stock (dueño del producto o ADMIN)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockChangeRequest  true  "productId, quantity, reference, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory-movements/out [post]
func (h *InventoryHandler) RemoveStock(c *fiber.Ctx) error {
	in, ok := parseStockChange(c)
	if !ok {
		return nil
	}
	out, err := h.ledger.Issue(c.Context(), actorFrom(c), in)
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos con paginación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        page   query  int  false  "Página (desde 1)"         default(1)
// @Param        limit  query  int  false  "Ítems por página (1-100)" default(10)
// @Success      200    {object}  dto.MovementListResponse
// @Router       /api/inventory-movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	out, err := h.query.ListMovements(page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetProductHistory godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-movements/product/{productId} [get]
func (h *InventoryHandler) GetProductHistory(c *fiber.Ctx) error {
	out, err := h.query.GetProductHistory(c.Params("productId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

func actorFrom(c *fiber.Ctx) inventory.Actor {
	return inventory.Actor{ID: GetUserID(c), Role: GetRole(c)}
}

// parseStockChange parsea el body de los endpoints dedicados in/out.
// Si devuelve ok=false ya escribió la respuesta de error.
func parseStockChange(c *fiber.Ctx) (inventory.MovementInput, bool) {
	var in dto.StockChangeRequest
	if err := c.BodyParser(&in); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		return inventory.MovementInput{}, false
	}
	if in.ProductID == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "productId es requerido"})
		return inventory.MovementInput{}, false
	}
	return inventory.MovementInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Reference: in.Reference,
		Note:      in.Note,
	}, true
}

// movementError mapea los errores de dominio del motor de inventario a HTTP.
func movementError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo puedes mover inventario de tus propios productos"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto transaccional, reintente la operación completa"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
