package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/sale"
)

func TestRegisterSale(t *testing.T) {
	env := newTestEnv(t)
	tl := env.openTill(t, "100.00")
	p := env.product(t, "Gres 60x60", "10", "5.00")

	s := env.sell(t, "Maria", line(p.ID, "3"))

	if s.Number != 1 {
		t.Fatalf("Number = %d, want 1", s.Number)
	}
	assertDec(t, "total", s.Total, "15.00")
	assertDec(t, "stock", env.stock(t, p.ID), "7")
	assertDec(t, "till total", env.tillTotal(t, tl.ID), "15.00")
	if !s.BelongsTo(tl.ID) {
		t.Fatalf("venda deveria estar no caixa %s", tl.ID)
	}
	if len(s.Lines) != 1 || !s.Lines[0].UnitPrice.Equal(dec("5")) {
		t.Fatalf("itens inesperados: %+v", s.Lines)
	}

	got, err := env.catalog.GetProduct(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	assertDec(t, "sold", got.Sold, "3")
	env.assertLedger(t)
}

func TestSequentialSales(t *testing.T) {
	env := newTestEnv(t)
	tl := env.openTill(t, "100.00")
	p := env.product(t, "Gres 60x60", "10", "5.00")

	first := env.sell(t, "Maria", line(p.ID, "3"))
	second := env.sell(t, "João", line(p.ID, "4"))

	if first.Number != 1 || second.Number != 2 {
		t.Fatalf("números = %d, %d, want 1, 2", first.Number, second.Number)
	}
	assertDec(t, "second total", second.Total, "20.00")
	assertDec(t, "till total", env.tillTotal(t, tl.ID), "35.00")
	env.assertLedger(t)
}

func TestRegisterSaleFractionalQuantities(t *testing.T) {
	env := newTestEnv(t)
	tl := env.openTill(t, "0")
	p := env.product(t, "Rodapé", "10", "0.33")

	s := env.sell(t, "Maria", line(p.ID, "1.5"), line(p.ID, "1.5"))

	assertDec(t, "total", s.Total, "0.99")
	assertDec(t, "till total", env.tillTotal(t, tl.ID), "0.99")
	assertDec(t, "stock", env.stock(t, p.ID), "7")

	updated, err := env.sales.AddLine(context.Background(), s.ID, line(p.ID, "1.5"))
	if err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	// 4.5 x 0.33 = 1.485
	assertDec(t, "total after add", updated.Total, "1.49")
	assertDec(t, "till total after add", env.tillTotal(t, tl.ID), "1.49")
	env.assertLedger(t)
}

func TestConcurrentSalesDoNotOversell(t *testing.T) {
	env := newTestEnv(t)
	tl := env.openTill(t, "0")
	p := env.product(t, "Gres 60x60", "5", "1.00")

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		numbers   []int64
		shortages int
		failures  []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := env.sales.RegisterSale(context.Background(), RegisterSaleInput{
				CustomerName: "Cliente",
				DocumentType: sale.DocumentSimpleReceipt,
				Lines:        []LineRequest{line(p.ID, "1")},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				numbers = append(numbers, s.Number)
			case errors.Is(err, apperr.ErrInsufficientStock):
				shortages++
			default:
				failures = append(failures, err)
			}
		}()
	}
	wg.Wait()

	if len(failures) > 0 {
		t.Fatalf("erros inesperados: %v", failures)
	}
	if len(numbers) != 5 || shortages != attempts-5 {
		t.Fatalf("vendas = %d, sem estoque = %d, want 5 e %d", len(numbers), shortages, attempts-5)
	}
	seen := make(map[int64]bool, len(numbers))
	for _, n := range numbers {
		if n < 1 || n > 5 || seen[n] {
			t.Fatalf("números inesperados: %v", numbers)
		}
		seen[n] = true
	}
	assertDec(t, "stock", env.stock(t, p.ID), "0")
	assertDec(t, "till total", env.tillTotal(t, tl.ID), "5.00")
	env.assertLedger(t)
}

func TestSaleNumbersStrictlyIncrease(t *testing.T) {
	env := newTestEnv(t)
	env.openTill(t, "0")
	p := env.product(t, "Rejunte", "100", "1.50")

	var last int64
	for i := 0; i < 10; i++ {
		s := env.sell(t, "Cliente", line(p.ID, "1"))
		if s.Number != last+1 {
			t.Fatalf("número %d após %d", s.Number, last)
		}
		last = s.Number
	}
}

func TestRegisterSaleInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tl := env.openTill(t, "100.00")
	p := env.product(t, "Gres 60x60", "10", "5.00")
	env.sell(t, "Maria", line(p.ID, "3"))

	_, err := env.sales.RegisterSale(ctx, RegisterSaleInput{
		CustomerName: "João",
		DocumentType: sale.DocumentInvoice,
		Lines:        []LineRequest{line(p.ID, "20")},
	})
	var stockErr *apperr.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("RegisterSale() error = %v, want InsufficientStockError", err)
	}
	if stockErr.ProductID != p.ID {
		t.Fatalf("ProductID = %s, want %s", stockErr.ProductID, p.ID)
	}
	assertDec(t, "available", stockErr.Available, "7")
	assertDec(t, "stock", env.stock(t, p.ID), "7")
	assertDec(t, "till total", env.tillTotal(t, tl.ID), "15.00")

	sales, err := env.sales.ListSales(ctx, sale.Filter{})
	if err != nil {
		t.Fatalf("ListSales() error = %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("ListSales() = %d vendas, want 1", len(sales))
	}
	if _, err := env.customers.customers.FindByName(ctx, "João"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("cliente não deveria ter sido criado: %v", err)
	}
}

func TestRegisterSaleValidatesAllLinesBeforeWriting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.openTill(t, "0")
	a := env.product(t, "Gres 60x60", "10", "5.00")
	b := env.product(t, "Cerâmica 45x45", "2", "8.00")

	tests := []struct {
		name  string
		lines []LineRequest
	}{
		{"second product short", []LineRequest{line(a.ID, "4"), line(b.ID, "3")}},
		{"cumulative same product", []LineRequest{line(a.ID, "6"), line(b.ID, "1"), line(a.ID, "5")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.sales.RegisterSale(ctx, RegisterSaleInput{
				CustomerName: "Maria",
				DocumentType: sale.DocumentSimpleReceipt,
				Lines:        tt.lines,
			})
			if !errors.Is(err, apperr.ErrInsufficientStock) {
				t.Fatalf("RegisterSale() error = %v, want insufficient stock", err)
			}
			assertDec(t, "stock a", env.stock(t, a.ID), "10")
			assertDec(t, "stock b", env.stock(t, b.ID), "2")
		})
	}

	var stockErr *apperr.InsufficientStockError
	_, err := env.sales.RegisterSale(ctx, RegisterSaleInput{
		CustomerName: "Maria",
		DocumentType: sale.DocumentSimpleReceipt,
		Lines:        []LineRequest{line(a.ID, "6"), line(a.ID, "5")},
	})
	if !errors.As(err, &stockErr) {
		t.Fatalf("error = %v", err)
	}
	assertDec(t, "requested", stockErr.Requested, "11")

	sales, _ := env.sales.ListSales(ctx, sale.Filter{})
	if len(sales) != 0 {
		t.Fatalf("nenhuma venda deveria existir, got %d", len(sales))
	}
}

func TestRegisterSaleWithoutOpenTill(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "Gres 60x60", "10", "5.00")

	_, err := env.sales.RegisterSale(context.Background(), RegisterSaleInput{
		CustomerName: "Maria",
		DocumentType: sale.DocumentSimpleReceipt,
		Lines:        []LineRequest{line(p.ID, "1")},
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("RegisterSale() error = %v, want validation", err)
	}
	assertDec(t, "stock", env.stock(t, p.ID), "10")
}

func TestRegisterSaleInputValidation(t *testing.T) {
	env := newTestEnv(t)
	env.openTill(t, "0")
	p := env.product(t, "Gres 60x60", "10", "5.00")

	tests := []struct {
		name string
		in   RegisterSaleInput
		want error
	}{
		{"empty customer", RegisterSaleInput{DocumentType: sale.DocumentInvoice, Lines: []LineRequest{line(p.ID, "1")}}, apperr.ErrValidation},
		{"bad document", RegisterSaleInput{CustomerName: "M", DocumentType: "ticket", Lines: []LineRequest{line(p.ID, "1")}}, apperr.ErrValidation},
		{"no lines", RegisterSaleInput{CustomerName: "M", DocumentType: sale.DocumentInvoice}, apperr.ErrValidation},
		{"zero quantity", RegisterSaleInput{CustomerName: "M", DocumentType: sale.DocumentInvoice, Lines: []LineRequest{line(p.ID, "0")}}, apperr.ErrValidation},
		{"negative price", RegisterSaleInput{CustomerName: "M", DocumentType: sale.DocumentInvoice,
			Lines: []LineRequest{{ProductID: p.ID, Quantity: dec("1"), UnitPrice: decPtr("-1")}}}, apperr.ErrValidation},
		{"unknown product", RegisterSaleInput{CustomerName: "M", DocumentType: sale.DocumentInvoice, Lines: []LineRequest{line("nope", "1")}}, apperr.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.sales.RegisterSale(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("RegisterSale() error = %v, want %v", err, tt.want)
			}
		})
	}
	assertDec(t, "stock", env.stock(t, p.ID), "10")
}

func TestRegisterSaleResolvesCustomerAndPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.openTill(t, "0")
	p := env.product(t, "Gres 60x60", "10", "5.00")

	first := env.sell(t, "Maria Souza", line(p.ID, "1"))
	second := env.sell(t, "  Maria Souza ", LineRequest{ProductID: p.ID, Quantity: dec("2"), UnitPrice: decPtr("4.50")})

	if first.CustomerID != second.CustomerID {
		t.Fatalf("mesmo nome deveria reutilizar o cliente: %s != %s", first.CustomerID, second.CustomerID)
	}
	customers, err := env.customers.ListCustomers(ctx, "", 0, 0)
	if err != nil || len(customers) != 1 {
		t.Fatalf("ListCustomers() = %d, %v", len(customers), err)
	}
	assertDec(t, "second total", second.Total, "9.00")
}

func TestAddLine(t *testing.T) {
	env := newTestEnv(t)
	tl := env.openTill(t, "0")
	a := env.product(t, "Gres 60x60", "10", "5.00")
	b := env.product(t, "Rodapé", "20", "2.50")
	s := env.sell(t, "Maria", line(a.ID, "3"))

	updated, err := env.sales.AddLine(context.Background(), s.ID, line(b.ID, "4"))
	if err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	assertDec(t, "total", updated.Total, "25.00")
	assertDec(t, "stock b", env.stock(t, b.ID), "16")
	assertDec(t, "till total", env.tillTotal(t, tl.ID), "25.00")

	if _, err := env.sales.AddLine(context.Background(), s.ID, line(b.ID, "17")); !errors.Is(err, apperr.ErrInsufficientStock) {
		t.Fatalf("AddLine() sem estoque: error = %v", err)
	}
	assertDec(t, "stock b", env.stock(t, b.ID), "16")
	env.assertLedger(t)
}

func TestUpdateLineAdjustsStockAndLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tl := env.openTill(t, "0")
	p := env.product(t, "Gres 60x60", "10", "5.00")
	s := env.sell(t, "Maria", line(p.ID, "3"))
	lineID := s.Lines[0].ID

	updated, err := env.sales.UpdateLine(ctx, s.ID, lineID, UpdateLineInput{Quantity: dec("5")})
	if err != nil {
		t.Fatalf("UpdateLine() error = %v", err)
	}
	assertDec(t, "total", updated.Total, "25.00")
	assertDec(t, "stock", env.stock(t, p.ID), "5")
	assertDec(t, "till", env.tillTotal(t, tl.ID), "25.00")

	updated, err = env.sales.UpdateLine(ctx, s.ID, lineID, UpdateLineInput{Quantity: dec("2"), UnitPrice: decPtr("6.00")})
	if err != nil {
		t.Fatalf("UpdateLine() error = %v", err)
	}
	assertDec(t, "total", updated.Total, "12.00")
	assertDec(t, "stock", env.stock(t, p.ID), "8")
	assertDec(t, "till", env.tillTotal(t, tl.ID), "12.00")

	if _, err := env.sales.UpdateLine(ctx, s.ID, lineID, UpdateLineInput{Quantity: dec("11")}); !errors.Is(err, apperr.ErrInsufficientStock) {
		t.Fatalf("UpdateLine() além do estoque: error = %v", err)
	}
	assertDec(t, "stock", env.stock(t, p.ID), "8")
	assertDec(t, "till", env.tillTotal(t, tl.ID), "12.00")

	if _, err := env.sales.UpdateLine(ctx, s.ID, "nope", UpdateLineInput{Quantity: dec("1")}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("item inexistente: error = %v", err)
	}
	if _, err := env.sales.UpdateLine(ctx, s.ID, lineID, UpdateLineInput{Quantity: dec("0")}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("quantidade zero: error = %v", err)
	}
	env.assertLedger(t)
}

func TestRemoveLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tl := env.openTill(t, "0")
	a := env.product(t, "Gres 60x60", "10", "5.00")
	b := env.product(t, "Rodapé", "20", "2.50")
	s := env.sell(t, "Maria", line(a.ID, "3"), line(b.ID, "2"))
	assertDec(t, "till", env.tillTotal(t, tl.ID), "20.00")

	updated, err := env.sales.RemoveLine(ctx, s.ID, s.Lines[1].ID)
	if err != nil {
		t.Fatalf("RemoveLine() error = %v", err)
	}
	if len(updated.Lines) != 1 {
		t.Fatalf("itens = %d, want 1", len(updated.Lines))
	}
	assertDec(t, "total", updated.Total, "15.00")
	assertDec(t, "stock b", env.stock(t, b.ID), "20")
	assertDec(t, "till", env.tillTotal(t, tl.ID), "15.00")

	if _, err := env.sales.RemoveLine(ctx, s.ID, s.Lines[0].ID); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("remover último item: error = %v, want validation", err)
	}
	env.assertLedger(t)
}

func TestClosedTillKeepsHistoricalLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.openTill(t, "100.00")
	p := env.product(t, "Gres 60x60", "10", "5.00")
	s := env.sell(t, "Maria", line(p.ID, "3"))

	if _, err := env.tills.CloseTill(ctx, a.ID, dec("115.00")); err != nil {
		t.Fatalf("CloseTill() error = %v", err)
	}

	// Sem caixa aberto nada novo é atribuído
	_, err := env.sales.RegisterSale(ctx, RegisterSaleInput{
		CustomerName: "João", DocumentType: sale.DocumentInvoice, Lines: []LineRequest{line(p.ID, "1")},
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("RegisterSale() com caixa fechado: error = %v", err)
	}

	// Edições de vendas antigas ainda ajustam o caixa fechado
	if _, err := env.sales.UpdateLine(ctx, s.ID, s.Lines[0].ID, UpdateLineInput{Quantity: dec("2")}); err != nil {
		t.Fatalf("UpdateLine() error = %v", err)
	}
	assertDec(t, "closed till", env.tillTotal(t, a.ID), "10.00")

	// A venda não pode voltar para o caixa fechado
	if _, err := env.sales.AssignTill(ctx, s.ID, a.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("AssignTill() para caixa fechado: error = %v, want conflict", err)
	}
	env.assertLedger(t)
}

func TestAssignTillMovesTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.openTill(t, "0")
	p := env.product(t, "Gres 60x60", "10", "5.00")
	s := env.sell(t, "Maria", line(p.ID, "3"))
	env.sell(t, "João", line(p.ID, "1"))

	if _, err := env.tills.CloseTill(ctx, a.ID, dec("20")); err != nil {
		t.Fatalf("CloseTill() error = %v", err)
	}
	b := env.openTill(t, "50")

	moved, err := env.sales.AssignTill(ctx, s.ID, b.ID)
	if err != nil {
		t.Fatalf("AssignTill() error = %v", err)
	}
	if !moved.BelongsTo(b.ID) {
		t.Fatalf("venda deveria estar no caixa %s", b.ID)
	}
	assertDec(t, "till a", env.tillTotal(t, a.ID), "5.00")
	assertDec(t, "till b", env.tillTotal(t, b.ID), "15.00")

	if _, err := env.sales.AssignTill(ctx, s.ID, "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("caixa inexistente: error = %v", err)
	}
	if _, err := env.sales.AssignTill(ctx, "nope", b.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("venda inexistente: error = %v", err)
	}
	env.assertLedger(t)
}

func TestReconcileAttachesSaleWithoutTill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Gres 60x60", "10", "5.00")

	// Venda antiga, gravada sem caixa
	orphan := sale.NewSale("c1", "Maria", sale.DocumentSimpleReceipt)
	orphan.Number = 1
	l, err := sale.NewLine(orphan.ID, p.ID, p.Name, dec("2"), dec("5"))
	if err != nil {
		t.Fatalf("NewLine() error = %v", err)
	}
	orphan.Lines = append(orphan.Lines, l)
	orphan.Total = orphan.ComputeTotal()
	if err := env.store.Sales().Create(ctx, orphan); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tl := env.openTill(t, "0")
	updated, err := env.sales.UpdateLine(ctx, orphan.ID, l.ID, UpdateLineInput{Quantity: dec("3")})
	if err != nil {
		t.Fatalf("UpdateLine() error = %v", err)
	}
	if !updated.BelongsTo(tl.ID) {
		t.Fatalf("venda sem caixa deveria ser atribuída ao caixa aberto")
	}
	assertDec(t, "till", env.tillTotal(t, tl.ID), "15.00")
	env.assertLedger(t)
}

func TestDeleteSale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tl := env.openTill(t, "0")
	p := env.product(t, "Gres 60x60", "10", "5.00")
	first := env.sell(t, "Maria", line(p.ID, "3"))
	env.sell(t, "João", line(p.ID, "4"))

	if err := env.sales.DeleteSale(ctx, first.ID); err != nil {
		t.Fatalf("DeleteSale() error = %v", err)
	}
	assertDec(t, "stock", env.stock(t, p.ID), "6")
	assertDec(t, "till", env.tillTotal(t, tl.ID), "20.00")

	if _, err := env.sales.GetSale(ctx, first.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("GetSale() após exclusão: error = %v", err)
	}
	if err := env.sales.DeleteSale(ctx, first.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("DeleteSale() repetido: error = %v", err)
	}

	next := env.sell(t, "Ana", line(p.ID, "1"))
	if next.Number != 3 {
		t.Fatalf("Number = %d, want 3", next.Number)
	}
	env.assertLedger(t)
}

func TestListSalesByTill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.openTill(t, "0")
	p := env.product(t, "Gres 60x60", "10", "5.00")
	env.sell(t, "Maria", line(p.ID, "1"))
	env.sell(t, "João", line(p.ID, "1"))
	if _, err := env.tills.CloseTill(ctx, a.ID, dec("10")); err != nil {
		t.Fatalf("CloseTill() error = %v", err)
	}
	b := env.openTill(t, "0")
	env.sell(t, "Ana", line(p.ID, "1"))

	sales, err := env.sales.ListSales(ctx, sale.Filter{TillID: a.ID})
	if err != nil {
		t.Fatalf("ListSales() error = %v", err)
	}
	if len(sales) != 2 || sales[0].Number != 2 || sales[1].Number != 1 {
		t.Fatalf("ListSales(a) inesperado: %+v", sales)
	}

	sales, _ = env.sales.ListSales(ctx, sale.Filter{TillID: b.ID})
	if len(sales) != 1 || sales[0].Number != 3 {
		t.Fatalf("ListSales(b) inesperado: %+v", sales)
	}

	page, _ := env.sales.ListSales(ctx, sale.Filter{Limit: 1, Offset: 1})
	if len(page) != 1 || page[0].Number != 2 {
		t.Fatalf("paginação inesperada: %+v", page)
	}

	if _, err := env.sales.ListSales(ctx, sale.Filter{TillID: "nao-e-uuid"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("ListSales(till inválido) error = %v, want validation", err)
	}
}

func TestReceipt(t *testing.T) {
	env := newTestEnv(t)
	env.openTill(t, "0")
	p := env.product(t, "Gres 60x60", "10", "5.00")
	s := env.sell(t, "Maria", line(p.ID, "3"))

	r, err := env.sales.Receipt(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("Receipt() error = %v", err)
	}
	if r.Number != 1 || r.DocumentLabel != "Nota de venda" || r.CustomerName != "Maria" {
		t.Fatalf("cabeçalho inesperado: %+v", r)
	}
	if len(r.Lines) != 1 || r.Lines[0].SubtotalF != "$15.00" || r.Lines[0].UnitPriceF != "$5.00" {
		t.Fatalf("itens inesperados: %+v", r.Lines)
	}
	if r.TotalF != "$15.00" {
		t.Fatalf("TotalF = %q", r.TotalF)
	}
	assertDec(t, "net", r.NetAmount, "12.71")
	assertDec(t, "tax", r.TaxAmount, "2.29")
}

func TestSplitTax(t *testing.T) {
	tests := []struct {
		total, rate, net, tax string
	}{
		{"118.00", "0.18", "100.00", "18.00"},
		{"15.00", "0.18", "12.71", "2.29"},
		{"15.00", "0", "15.00", "0"},
	}
	for _, tt := range tests {
		net, tax := SplitTax(dec(tt.total), dec(tt.rate))
		assertDec(t, "net "+tt.total, net, tt.net)
		assertDec(t, "tax "+tt.total, tax, tt.tax)
	}
}
