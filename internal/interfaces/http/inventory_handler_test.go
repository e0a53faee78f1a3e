package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	apphttp "github.com/tu-usuario/stock-ledger/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs en memoria de los puertos del motor de inventario, lo mínimo para
// ejercitar los handlers de punta a punta (JWT → RBAC → caso de uso → JSON).
// ──────────────────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	mu      sync.Mutex
	product *entity.Product
}

func (r *stubProductRepo) Create(p *entity.Product) error { return nil }

func (r *stubProductRepo) GetByID(id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.product == nil || r.product.ID != id {
		return nil, nil
	}
	cp := *r.product
	return &cp, nil
}

func (r *stubProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *stubProductRepo) Count() (int, error)                               { return 0, nil }
func (r *stubProductRepo) Update(p *entity.Product) error                    { return nil }
func (r *stubProductRepo) Delete(id string) error                            { return nil }

func (r *stubProductRepo) IncrementStock(id string, amount int) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.product == nil || r.product.ID != id {
		return nil, nil
	}
	r.product.Stock += amount
	cp := *r.product
	return &cp, nil
}

func (r *stubProductRepo) ConditionalDecrementStock(id string, amount int) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.product == nil || r.product.ID != id || r.product.Stock < amount {
		return nil, nil
	}
	r.product.Stock -= amount
	cp := *r.product
	return &cp, nil
}

func (r *stubProductRepo) AdjustStock(id string, delta int) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.product == nil || r.product.ID != id || r.product.Stock+delta < 0 {
		return nil, nil
	}
	r.product.Stock += delta
	cp := *r.product
	return &cp, nil
}

type stubMovementRepo struct {
	mu        sync.Mutex
	products  *stubProductRepo
	movements []entity.Movement
}

func (r *stubMovementRepo) Create(m *entity.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListAll(limit, offset int) ([]*entity.MovementWithProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.MovementWithProduct
	for i := len(r.movements) - 1; i >= 0 && len(list) < limit; i-- {
		mp := &entity.MovementWithProduct{Movement: r.movements[i]}
		if p, _ := r.products.GetByID(r.movements[i].ProductID); p != nil {
			mp.Product = *p
		}
		list = append(list, mp)
	}
	return list, nil
}

func (r *stubMovementRepo) CountAll() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movements), nil
}

func (r *stubMovementRepo) ListByProduct(productID string) ([]*entity.MovementWithProduct, error) {
	return r.ListAll(len(r.movements)+1, 0)
}

func (r *stubMovementRepo) CountByProduct(productID string) (int, error) { return r.CountAll() }

type stubTxRunner struct {
	movements *stubMovementRepo
	products  *stubProductRepo
	// err simula una transacción abortada por el motor (p. ej. deadlock ya
	// traducido a domain.ErrConflict por la capa postgres).
	err error
}

func (r *stubTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	if r.err != nil {
		return r.err
	}
	staged := &stubMovementRepo{products: r.products}
	if err := fn(staged, r.products); err != nil {
		return err
	}
	for i := range staged.movements {
		_ = r.movements.Create(&staged.movements[i])
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

const stubProductID = "aaaaaaaa-0000-0000-0000-000000000001"

// buildMovementsApp arma la app Fiber con las rutas reales de movimientos sobre
// stubs, con un único producto de stock inicial dado.
func buildMovementsApp(stock int) (*fiber.App, *stubProductRepo) {
	products := &stubProductRepo{product: &entity.Product{
		ID:        stubProductID,
		Name:      "Disco SSD 1TB",
		Price:     decimal.NewFromInt(95),
		Stock:     stock,
		CreatedBy: testUserID,
	}}
	movements := &stubMovementRepo{products: products}
	ledger := inventory.NewLedgerUseCase(&stubTxRunner{movements: movements, products: products}, products)
	query := inventory.NewQueryUseCase(movements, products)

	app := fiber.New()
	authRequired := apphttp.AuthMiddleware(testJWTSecret)
	anyRole := apphttp.RequireRole(entity.RoleUser, entity.RoleAdmin)
	adminOnly := apphttp.RequireRole(entity.RoleAdmin)

	h := apphttp.NewInventoryHandler(ledger, query)
	grp := app.Group("/api/inventory-movements", authRequired)
	grp.Post("/", adminOnly, h.CreateMovement)
	grp.Post("/in", anyRole, h.AddStock)
	grp.Post("/out", anyRole, h.RemoveStock)
	grp.Get("/", anyRole, h.ListMovements)
	grp.Get("/product/:productId", anyRole, h.GetProductHistory)
	return app, products
}

func postJSON(t *testing.T, app *fiber.App, path, token string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAddStock_Retorna201ConStockActualizado(t *testing.T) {
	app, _ := buildMovementsApp(10)

	resp := postJSON(t, app, "/api/inventory-movements/in", tokenForRole(t, entity.RoleUser), fiber.Map{
		"productId": stubProductID,
		"quantity":  5,
		"reference": "PO-77",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "IN", body["type"])
	product := body["product"].(map[string]interface{})
	assert.Equal(t, float64(15), product["stock"], "la respuesta lleva el stock posterior al commit")
}

func TestRemoveStock_StockInsuficienteRetorna409(t *testing.T) {
	app, products := buildMovementsApp(3)

	resp := postJSON(t, app, "/api/inventory-movements/out", tokenForRole(t, entity.RoleUser), fiber.Map{
		"productId": stubProductID,
		"quantity":  5,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Contains(t, body["message"], "disponible 3")
	assert.Contains(t, body["message"], "solicitado 5")

	p, _ := products.GetByID(stubProductID)
	assert.Equal(t, 3, p.Stock, "el stock debe quedar intacto")
}

func TestRemoveStock_ProductoInexistenteRetorna404(t *testing.T) {
	app, _ := buildMovementsApp(3)

	resp := postJSON(t, app, "/api/inventory-movements/out", tokenForRole(t, entity.RoleUser), fiber.Map{
		"productId": "no-existe",
		"quantity":  1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateMovement_UsuarioSinRolAdminRetorna403(t *testing.T) {
	app, _ := buildMovementsApp(10)

	// El despachador genérico está restringido a ADMIN a nivel de ruta.
	resp := postJSON(t, app, "/api/inventory-movements", tokenForRole(t, entity.RoleUser), fiber.Map{
		"productId": stubProductID,
		"type":      "ADJUSTMENT",
		"quantity":  -2,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateMovement_TipoDesconocidoRetorna400(t *testing.T) {
	app, _ := buildMovementsApp(10)

	resp := postJSON(t, app, "/api/inventory-movements", tokenForRole(t, entity.RoleAdmin), fiber.Map{
		"productId": stubProductID,
		"type":      "TRANSFER",
		"quantity":  1,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestCreateMovement_AjusteNegativoComoAdmin(t *testing.T) {
	app, products := buildMovementsApp(10)

	resp := postJSON(t, app, "/api/inventory-movements", tokenForRole(t, entity.RoleAdmin), fiber.Map{
		"productId": stubProductID,
		"type":      "ADJUSTMENT",
		"quantity":  -4,
		"note":      "conteo físico",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	p, _ := products.GetByID(stubProductID)
	assert.Equal(t, 6, p.Stock)
}

// Una transacción abortada por el motor (deadlock / serialization failure,
// traducida a ErrConflict por la capa de persistencia) debe responder 409.
func TestRemoveStock_ConflictoTransaccionalRetorna409(t *testing.T) {
	products := &stubProductRepo{product: &entity.Product{
		ID:        stubProductID,
		Name:      "Disco SSD 1TB",
		Price:     decimal.NewFromInt(95),
		Stock:     10,
		CreatedBy: testUserID,
	}}
	tx := &stubTxRunner{
		movements: &stubMovementRepo{products: products},
		products:  products,
		err:       fmt.Errorf("%w: deadlock detected", domain.ErrConflict),
	}
	ledger := inventory.NewLedgerUseCase(tx, products)
	query := inventory.NewQueryUseCase(tx.movements, products)

	app := fiber.New()
	h := apphttp.NewInventoryHandler(ledger, query)
	app.Post("/api/inventory-movements/out", apphttp.AuthMiddleware(testJWTSecret), h.RemoveStock)

	resp := postJSON(t, app, "/api/inventory-movements/out", tokenForRole(t, entity.RoleUser), fiber.Map{
		"productId": stubProductID,
		"quantity":  1,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestListMovements_PaginacionEnRespuesta(t *testing.T) {
	app, _ := buildMovementsApp(100)
	token := tokenForRole(t, entity.RoleUser)

	for i := 0; i < 3; i++ {
		resp := postJSON(t, app, "/api/inventory-movements/in", token, fiber.Map{
			"productId": stubProductID,
			"quantity":  1,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	req := httptest.NewRequest(http.MethodGet, "/api/inventory-movements?page=1&limit=2", nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(3), meta["total"])
	assert.Equal(t, float64(2), meta["totalPages"])
	assert.Len(t, body["data"], 2)
}

func TestGetProductHistory_ProductoInexistenteRetorna404(t *testing.T) {
	app, _ := buildMovementsApp(10)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory-movements/product/no-existe", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleUser))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
