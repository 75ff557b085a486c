package catalog

import (
	"github.com/shopspring/decimal"
)

// DefaultCategoryName é usado quando a linha importada não informa categoria
const DefaultCategoryName = "GERAL"

// Row é uma linha da planilha de catálogo
type Row struct {
	Line     int // Número da linha na planilha, para mensagens de erro
	Name     string
	Brand    string
	Category string
	Format   string
	Price    decimal.Decimal
	Stock    decimal.Decimal
	Sold     decimal.Decimal
	Supplier string
}

// RowFromProduct converte um produto em linha de planilha
func RowFromProduct(p *Product) Row {
	return Row{
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		Format:   string(p.Unit),
		Price:    p.Price,
		Stock:    p.Stock,
		Sold:     p.Sold,
		Supplier: p.Supplier,
	}
}
