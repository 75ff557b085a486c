package route

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-ceramica/internal/adapter/repository/memory"
	"github.com/hugohenrick/erp-ceramica/internal/domain/user"
	"github.com/hugohenrick/erp-ceramica/internal/service"
	"github.com/hugohenrick/erp-ceramica/pkg/auth"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
	"github.com/shopspring/decimal"
)

type apiEnv struct {
	router  *gin.Engine
	admin   string
	cashier string
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	log := logger.Nop()
	jwtService, err := auth.NewJWTService("segredo-de-teste", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}

	authService := service.NewAuthService(store.Users(), jwtService, log)
	customers := service.NewCustomerService(store.Customers())
	tills := service.NewTillService(store.Tills(), store, time.UTC, log)
	catalog := service.NewCatalogService(store.Categories(), store.Products(), store, log)
	sales := service.NewSaleService(store.Sales(), store.Products(), store.Tills(), customers, store,
		service.ReceiptSettings{Currency: "PEN", TaxRate: decimal.RequireFromString("0.18")}, log)

	router := NewRouter(Controllers{
		Auth:     controller.NewAuthController(authService, log),
		Catalog:  controller.NewCatalogController(catalog, log),
		Customer: controller.NewCustomerController(customers, log),
		Till:     controller.NewTillController(tills, log),
		Sale:     controller.NewSaleController(sales, log),
	}, Options{JWTService: jwtService, Logger: log})

	ctx := context.Background()
	if _, err := authService.CreateUser(ctx, "admin", "Administrador", "admin123", user.RoleAdmin); err != nil {
		t.Fatalf("CreateUser(admin) error = %v", err)
	}
	if _, err := authService.CreateUser(ctx, "ana", "Ana", "caixa123", user.RoleCashier); err != nil {
		t.Fatalf("CreateUser(ana) error = %v", err)
	}

	env := &apiEnv{router: router}
	env.admin = env.login(t, "admin", "admin123")
	env.cashier = env.login(t, "ana", "caixa123")
	return env
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("json.Marshal() error = %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal(%s) error = %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", w.Code, want, w.Body.String())
	}
}

func (e *apiEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Username: username, Password: password})
	expectStatus(t, w, http.StatusOK)
	return decode[dto.LoginResponse](t, w).AccessToken
}

func (e *apiEnv) createProduct(t *testing.T, name, stock, price string) dto.ProductResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/products", e.admin, map[string]any{
		"name":          name,
		"category_name": "pisos",
		"stock":         stock,
		"price":         price,
		"unit":          "caja",
	})
	expectStatus(t, w, http.StatusCreated)
	return decode[dto.ProductResponse](t, w)
}

func TestHealthAndAuthentication(t *testing.T) {
	env := newAPIEnv(t)

	expectStatus(t, env.do(t, http.MethodGet, "/api/v1/health", "", nil), http.StatusOK)
	expectStatus(t, env.do(t, http.MethodGet, "/api/v1/sales", "", nil), http.StatusUnauthorized)
	expectStatus(t, env.do(t, http.MethodPost, "/api/v1/auth/login", "",
		dto.LoginRequest{Username: "admin", Password: "errada"}), http.StatusUnauthorized)

	w := env.do(t, http.MethodGet, "/api/v1/auth/me", env.cashier, nil)
	expectStatus(t, w, http.StatusOK)
	if me := decode[dto.UserResponse](t, w); me.Username != "ana" || me.Role != "cashier" {
		t.Fatalf("me = %+v", me)
	}

	w = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", dto.RefreshTokenRequest{Token: env.cashier})
	expectStatus(t, w, http.StatusOK)
	if decode[dto.RefreshTokenResponse](t, w).AccessToken == "" {
		t.Fatal("refresh sem token")
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	env := newAPIEnv(t)

	expectStatus(t, env.do(t, http.MethodPost, "/api/v1/categories", env.cashier, dto.CategoryRequest{Name: "x"}), http.StatusForbidden)
	expectStatus(t, env.do(t, http.MethodPost, "/api/v1/users", env.cashier, dto.UserRequest{
		Username: "joao", Name: "João", Password: "segredo", Role: "cashier",
	}), http.StatusForbidden)

	w := env.do(t, http.MethodPost, "/api/v1/users", env.admin, dto.UserRequest{
		Username: "joao", Name: "João", Password: "segredo", Role: "cashier",
	})
	expectStatus(t, w, http.StatusCreated)
	expectStatus(t, env.do(t, http.MethodPost, "/api/v1/users", env.admin, dto.UserRequest{
		Username: "joao", Name: "João", Password: "segredo", Role: "cashier",
	}), http.StatusConflict)
}

func TestSaleFlow(t *testing.T) {
	env := newAPIEnv(t)
	p := env.createProduct(t, "Porcelanato 60x60", "10", "5.00")
	if p.Category != "PISOS" || p.Unit != "box" {
		t.Fatalf("produto = %+v", p)
	}

	sale := map[string]any{
		"customer_name": "Maria",
		"document_type": "simple_receipt",
		"lines":         []map[string]any{{"product_id": p.ID, "quantity": "3"}},
	}

	// Sem caixa aberto a venda é rejeitada
	expectStatus(t, env.do(t, http.MethodPost, "/api/v1/sales", env.cashier, sale), http.StatusBadRequest)

	w := env.do(t, http.MethodPost, "/api/v1/tills", env.cashier, map[string]any{"opening_float": "100.00"})
	expectStatus(t, w, http.StatusCreated)
	till := decode[dto.TillResponse](t, w)
	if till.Operator != "Ana" || till.OpeningFloat != "100.00" {
		t.Fatalf("caixa = %+v", till)
	}
	expectStatus(t, env.do(t, http.MethodPost, "/api/v1/tills", env.cashier, map[string]any{"opening_float": "50"}), http.StatusConflict)

	w = env.do(t, http.MethodPost, "/api/v1/sales", env.cashier, sale)
	expectStatus(t, w, http.StatusCreated)
	created := decode[dto.SaleResponse](t, w)
	if created.Number != 1 || created.Total != "15.00" || len(created.Lines) != 1 {
		t.Fatalf("venda = %+v", created)
	}

	w = env.do(t, http.MethodGet, "/api/v1/tills/current", env.cashier, nil)
	expectStatus(t, w, http.StatusOK)
	if current := decode[dto.TillResponse](t, w); current.Total != "15.00" || current.ExpectedCash != "115.00" {
		t.Fatalf("caixa atual = %+v", current)
	}

	w = env.do(t, http.MethodGet, "/api/v1/products/"+p.ID, env.cashier, nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[dto.ProductResponse](t, w); got.Stock != "7.00" || got.Sold != "3.00" {
		t.Fatalf("produto após venda = %+v", got)
	}

	// Estoque insuficiente devolve 422 com o disponível
	sale["lines"] = []map[string]any{{"product_id": p.ID, "quantity": "20"}}
	w = env.do(t, http.MethodPost, "/api/v1/sales", env.cashier, sale)
	expectStatus(t, w, http.StatusUnprocessableEntity)
	if errResp := decode[dto.ErrorResponse](t, w); errResp.ProductID != p.ID || errResp.Available != "7.00" {
		t.Fatalf("erro de estoque = %+v", errResp)
	}

	w = env.do(t, http.MethodPut, "/api/v1/sales/"+created.ID+"/lines/"+created.Lines[0].ID, env.cashier,
		map[string]any{"quantity": "4"})
	expectStatus(t, w, http.StatusOK)
	if updated := decode[dto.SaleResponse](t, w); updated.Total != "20.00" {
		t.Fatalf("venda alterada = %+v", updated)
	}

	w = env.do(t, http.MethodGet, "/api/v1/sales/"+created.ID+"/receipt", env.cashier, nil)
	expectStatus(t, w, http.StatusOK)
	receipt := decode[service.Receipt](t, w)
	if receipt.DocumentLabel != "Nota de venda" || !receipt.Total.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("nota = %+v", receipt)
	}

	w = env.do(t, http.MethodGet, "/api/v1/sales?till_id="+till.ID, env.cashier, nil)
	expectStatus(t, w, http.StatusOK)
	if list := decode[dto.ListResponse[dto.SaleResponse]](t, w); len(list.Data) != 1 {
		t.Fatalf("vendas do caixa = %+v", list)
	}

	expectStatus(t, env.do(t, http.MethodDelete, "/api/v1/sales/"+created.ID, env.cashier, nil), http.StatusForbidden)
	expectStatus(t, env.do(t, http.MethodDelete, "/api/v1/sales/"+created.ID, env.admin, nil), http.StatusNoContent)
	expectStatus(t, env.do(t, http.MethodGet, "/api/v1/sales/"+created.ID, env.admin, nil), http.StatusNotFound)

	w = env.do(t, http.MethodPost, "/api/v1/tills/"+till.ID+"/close", env.cashier, map[string]any{"closing_float": "100"})
	expectStatus(t, w, http.StatusOK)
	if closed := decode[dto.TillResponse](t, w); closed.Open || closed.Total != "0.00" || closed.Difference == nil || *closed.Difference != "0.00" {
		t.Fatalf("caixa fechado = %+v", closed)
	}
	expectStatus(t, env.do(t, http.MethodGet, "/api/v1/tills/current", env.cashier, nil), http.StatusNotFound)
}

func TestCategoryDeleteConflict(t *testing.T) {
	env := newAPIEnv(t)
	p := env.createProduct(t, "Rejunte", "5", "2")

	expectStatus(t, env.do(t, http.MethodDelete, "/api/v1/categories/"+p.CategoryID, env.admin, nil), http.StatusConflict)
	expectStatus(t, env.do(t, http.MethodDelete, "/api/v1/products/"+p.ID, env.admin, nil), http.StatusNoContent)
	expectStatus(t, env.do(t, http.MethodDelete, "/api/v1/categories/"+p.CategoryID, env.admin, nil), http.StatusNoContent)
}

func TestClosePeriodValidation(t *testing.T) {
	env := newAPIEnv(t)

	expectStatus(t, env.do(t, http.MethodPost, "/api/v1/tills/close-period/day/2024-13-01", env.admin, nil), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPost, "/api/v1/tills/close-period/year/2024", env.admin, nil), http.StatusBadRequest)

	w := env.do(t, http.MethodPost, "/api/v1/tills/close-period/month/2024-03", env.admin, nil)
	expectStatus(t, w, http.StatusOK)
	if closed := decode[[]dto.TillResponse](t, w); len(closed) != 0 {
		t.Fatalf("fechados = %+v", closed)
	}
}

func TestCatalogImportExport(t *testing.T) {
	env := newAPIEnv(t)
	env.createProduct(t, "Antigo", "1", "1")

	csv := "Name,Brand,Category,Format,Price,Stock,Sold,Supplier\n" +
		"Gres 60x60,Celima,pisos,caja,39.90,120,0,\n" +
		"Rejunte,,,,1.50,40,0,\n"
	w := env.do(t, http.MethodPost, "/api/v1/catalog/import?default_category=acessorios", env.admin, csv)
	expectStatus(t, w, http.StatusOK)
	if got := decode[dto.ImportResponse](t, w); got.Created != 2 {
		t.Fatalf("importados = %+v", got)
	}

	w = env.do(t, http.MethodGet, "/api/v1/products?q=rejunte", env.cashier, nil)
	expectStatus(t, w, http.StatusOK)
	list := decode[dto.ListResponse[dto.ProductResponse]](t, w)
	if len(list.Data) != 1 || list.Data[0].Category != "ACESSORIOS" || list.Data[0].Unit != "unit" {
		t.Fatalf("produtos = %+v", list.Data)
	}

	w = env.do(t, http.MethodGet, "/api/v1/catalog/export", env.cashier, nil)
	expectStatus(t, w, http.StatusOK)
	body := w.Body.String()
	if !strings.HasPrefix(body, "Name,Brand,Category,Format,Price,Stock,Sold,Supplier\n") ||
		!strings.Contains(body, "Gres 60x60,Celima,PISOS,box,39.90,120.00,0.00,") ||
		strings.Contains(body, "Antigo") {
		t.Fatalf("exportação = %q", body)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "catalogo-") {
		t.Fatalf("Content-Disposition = %q", w.Header().Get("Content-Disposition"))
	}

	expectStatus(t, env.do(t, http.MethodPost, "/api/v1/catalog/import", env.cashier, csv), http.StatusForbidden)
}
