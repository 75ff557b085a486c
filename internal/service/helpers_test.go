package service

import (
	"context"
	"testing"
	"time"

	"github.com/hugohenrick/erp-ceramica/internal/adapter/repository/memory"
	"github.com/hugohenrick/erp-ceramica/internal/domain/catalog"
	"github.com/hugohenrick/erp-ceramica/internal/domain/sale"
	"github.com/hugohenrick/erp-ceramica/internal/domain/till"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
	"github.com/shopspring/decimal"
)

type testEnv struct {
	store     *memory.Store
	tills     *TillService
	sales     *SaleService
	catalog   *CatalogService
	customers *CustomerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()

	customers := NewCustomerService(store.Customers())
	return &testEnv{
		store:     store,
		tills:     NewTillService(store.Tills(), store, time.UTC, log),
		catalog:   NewCatalogService(store.Categories(), store.Products(), store, log),
		customers: customers,
		sales: NewSaleService(store.Sales(), store.Products(), store.Tills(), customers, store,
			ReceiptSettings{Currency: "USD", TaxRate: dec("0.18")}, log),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDec(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", what, got.StringFixed(2), want)
	}
}

func (e *testEnv) product(t *testing.T, name, stock, price string) *catalog.Product {
	t.Helper()
	p, err := e.catalog.CreateProduct(context.Background(), ProductRequest{
		Name:         name,
		CategoryName: "porcelanato",
		Stock:        dec(stock),
		Price:        dec(price),
		Unit:         catalog.UnitBox,
	})
	if err != nil {
		t.Fatalf("CreateProduct(%s) error = %v", name, err)
	}
	return p
}

func (e *testEnv) openTill(t *testing.T, float string) *till.Till {
	t.Helper()
	tl, err := e.tills.OpenTill(context.Background(), "ana", dec(float))
	if err != nil {
		t.Fatalf("OpenTill() error = %v", err)
	}
	return tl
}

func (e *testEnv) sell(t *testing.T, customer string, lines ...LineRequest) *sale.Sale {
	t.Helper()
	s, err := e.sales.RegisterSale(context.Background(), RegisterSaleInput{
		CustomerName: customer,
		DocumentType: sale.DocumentSimpleReceipt,
		Lines:        lines,
	})
	if err != nil {
		t.Fatalf("RegisterSale() error = %v", err)
	}
	return s
}

func line(productID, qty string) LineRequest {
	return LineRequest{ProductID: productID, Quantity: dec(qty)}
}

func (e *testEnv) stock(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	p, err := e.catalog.GetProduct(context.Background(), productID)
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	return p.Stock
}

func (e *testEnv) tillTotal(t *testing.T, tillID string) decimal.Decimal {
	t.Helper()
	tl, err := e.tills.GetTill(context.Background(), tillID)
	if err != nil {
		t.Fatalf("GetTill() error = %v", err)
	}
	return tl.Total
}

// assertLedger confere que o total de cada caixa é a soma das vendas atribuídas
// e que o total de cada venda é a soma dos seus itens
func (e *testEnv) assertLedger(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	tills, err := e.tills.ListTills(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListTills() error = %v", err)
	}
	for _, tl := range tills {
		sales, err := e.sales.ListSales(ctx, sale.Filter{TillID: tl.ID})
		if err != nil {
			t.Fatalf("ListSales() error = %v", err)
		}
		sum := decimal.Zero
		for _, s := range sales {
			full, err := e.sales.GetSale(ctx, s.ID)
			if err != nil {
				t.Fatalf("GetSale() error = %v", err)
			}
			exact := decimal.Zero
			for _, l := range full.Lines {
				exact = exact.Add(l.Quantity.Mul(l.UnitPrice))
			}
			if !full.Total.Equal(exact.Round(2)) {
				t.Fatalf("venda %d: total %s diferente da soma dos itens %s", full.Number, full.Total, exact)
			}
			sum = sum.Add(full.Total)
		}
		if !tl.Total.Equal(sum) {
			t.Fatalf("caixa %s: total %s diferente da soma das vendas %s", tl.ID, tl.Total, sum)
		}
	}
}
