package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/catalog"
	"github.com/hugohenrick/erp-ceramica/internal/domain/sale"
	"github.com/hugohenrick/erp-ceramica/internal/domain/till"
	"github.com/shopspring/decimal"
)

func seedProduct(t *testing.T, s *Store) *catalog.Product {
	t.Helper()
	ctx := context.Background()

	cat, err := catalog.NewCategory("porcelanato")
	if err != nil {
		t.Fatalf("NewCategory() error = %v", err)
	}
	if err := s.Categories().Create(ctx, cat); err != nil {
		t.Fatalf("Create(category) error = %v", err)
	}
	p, err := catalog.NewProduct(catalog.ProductInput{
		Name:       "Gres 60x60",
		CategoryID: cat.ID,
		Stock:      decimal.NewFromInt(10),
		Price:      decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("NewProduct() error = %v", err)
	}
	if err := s.Products().Create(ctx, p); err != nil {
		t.Fatalf("Create(product) error = %v", err)
	}
	return p
}

func TestWithinTransactionRollsBack(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		loaded, err := s.Products().FindByIDForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		if err := loaded.Withdraw(decimal.NewFromInt(3)); err != nil {
			return err
		}
		if err := s.Products().Update(ctx, loaded); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithinTransaction() error = %v, want boom", err)
	}

	got, err := s.Products().FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if !got.Stock.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("estoque = %s, want 10 após rollback", got.Stock)
	}
}

func TestWithinTransactionNested(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.WithinTransaction(ctx, func(ctx context.Context) error {
			tl, err := till.NewTill("ana", decimal.Zero)
			if err != nil {
				return err
			}
			return s.Tills().Create(ctx, tl)
		})
	})
	if err != nil {
		t.Fatalf("WithinTransaction() error = %v", err)
	}
	open, err := s.Tills().FindOpen(ctx)
	if err != nil || open == nil {
		t.Fatalf("FindOpen() = %v, %v", open, err)
	}
}

func TestSingleOpenTill(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first, _ := till.NewTill("ana", decimal.Zero)
	if err := s.Tills().Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, _ := till.NewTill("rui", decimal.Zero)
	if err := s.Tills().Create(ctx, second); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("segundo caixa aberto: error = %v, want conflict", err)
	}
}

func TestCategoryDeleteWithProducts(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s)
	ctx := context.Background()

	if err := s.Categories().Delete(ctx, p.CategoryID); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("Delete() error = %v, want conflict", err)
	}
	if _, err := s.Categories().FindByID(ctx, p.CategoryID); err != nil {
		t.Fatalf("categoria não deveria ter sido removida: %v", err)
	}
}

func TestProductDeleteKeepsSaleLines(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s)
	ctx := context.Background()

	sl := sale.NewSale("c1", "Maria", sale.DocumentSimpleReceipt)
	sl.Number = 1
	line, err := sale.NewLine(sl.ID, p.ID, p.Name, decimal.NewFromInt(1), p.Price)
	if err != nil {
		t.Fatalf("NewLine() error = %v", err)
	}
	sl.Lines = append(sl.Lines, line)
	if err := s.Sales().Create(ctx, sl); err != nil {
		t.Fatalf("Create(sale) error = %v", err)
	}

	if err := s.Products().Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete(product) error = %v", err)
	}
	got, err := s.Sales().FindByID(ctx, sl.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if len(got.Lines) != 1 || got.Lines[0].ProductID != nil || got.Lines[0].ProductName != p.Name {
		t.Fatalf("item inesperado após remover produto: %+v", got.Lines[0])
	}
}

func TestSaleNumbering(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := s.Sales().NextNumber(ctx)
		if err != nil {
			t.Fatalf("NextNumber() error = %v", err)
		}
		if n != want {
			t.Fatalf("NextNumber() = %d, want %d", n, want)
		}
		sl := sale.NewSale("c1", "Maria", sale.DocumentInvoice)
		sl.Number = n
		if err := s.Sales().Create(ctx, sl); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	dup := sale.NewSale("c1", "Maria", sale.DocumentInvoice)
	dup.Number = 2
	if err := s.Sales().Create(ctx, dup); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("número duplicado: error = %v, want conflict", err)
	}
}
