package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/pkg/money"
	"github.com/shopspring/decimal"
)

// Unit representa a unidade de medida de venda do produto
type Unit string

const (
	UnitBox         Unit = "box"  // Caixa
	UnitSquareMeter Unit = "m2"   // Metro quadrado
	UnitPiece       Unit = "unit" // Unidade
)

// ParseUnit converte o texto informado em uma unidade válida.
// Aceita também os rótulos usados nas planilhas antigas ("caja", "unidad").
func ParseUnit(s string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "box", "caja", "caixa":
		return UnitBox, true
	case "m2", "m²":
		return UnitSquareMeter, true
	case "unit", "unidad", "unidade":
		return UnitPiece, true
	}
	return "", false
}

// Category agrupa produtos. O nome é único e armazenado em maiúsculas.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeCategoryName padroniza o nome da categoria
func NormalizeCategoryName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NewCategory cria uma nova categoria
func NewCategory(name string) (*Category, error) {
	name = NormalizeCategoryName(name)
	if name == "" {
		return nil, apperr.Validation("name", "nome da categoria é obrigatório")
	}
	return &Category{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

// Product representa um item do catálogo
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	CategoryID string          `json:"category_id"`
	Category   string          `json:"category"` // Nome da categoria (somente leitura)
	Stock      decimal.Decimal `json:"stock"`
	Unit       Unit            `json:"unit"`
	Price      decimal.Decimal `json:"price"`
	Sold       decimal.Decimal `json:"sold"` // Quantidade vendida acumulada
	Supplier   string          `json:"supplier"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ProductInput reúne os campos editáveis de um produto
type ProductInput struct {
	Name       string
	Brand      string
	CategoryID string
	Stock      decimal.Decimal
	Unit       Unit
	Price      decimal.Decimal
	Sold       decimal.Decimal
	Supplier   string
}

// Validate normaliza os valores numéricos e verifica as regras do produto
func (in *ProductInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Supplier = strings.TrimSpace(in.Supplier)
	if in.Name == "" {
		return apperr.Validation("name", "nome do produto é obrigatório")
	}
	if in.CategoryID == "" {
		return apperr.Validation("category_id", "categoria é obrigatória")
	}
	if in.Unit == "" {
		in.Unit = UnitBox
	}
	if _, ok := ParseUnit(string(in.Unit)); !ok {
		return apperr.Validation("unit", "unidade de medida inválida")
	}
	in.Stock = money.Normalize(in.Stock)
	in.Price = money.Normalize(in.Price)
	in.Sold = money.Normalize(in.Sold)
	if in.Stock.IsNegative() {
		return apperr.Validation("stock", "estoque não pode ser negativo")
	}
	if in.Price.IsNegative() {
		return apperr.Validation("price", "preço não pode ser negativo")
	}
	if in.Sold.IsNegative() {
		return apperr.Validation("sold", "quantidade vendida não pode ser negativa")
	}
	return nil
}

// NewProduct cria um novo produto a partir dos dados informados
func NewProduct(in ProductInput) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Product{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Brand:      in.Brand,
		CategoryID: in.CategoryID,
		Stock:      in.Stock,
		Unit:       in.Unit,
		Price:      in.Price,
		Sold:       in.Sold,
		Supplier:   in.Supplier,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Apply atualiza o produto com os dados informados
func (p *Product) Apply(in ProductInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	p.Name = in.Name
	p.Brand = in.Brand
	p.CategoryID = in.CategoryID
	p.Stock = in.Stock
	p.Unit = in.Unit
	p.Price = in.Price
	p.Sold = in.Sold
	p.Supplier = in.Supplier
	p.UpdatedAt = time.Now()
	return nil
}

// HasStock verifica se há estoque para a quantidade pedida
func (p *Product) HasStock(qty decimal.Decimal) bool {
	return p.Stock.GreaterThanOrEqual(qty)
}

// Withdraw baixa o estoque e incrementa a quantidade vendida.
// Uma quantidade negativa devolve itens ao estoque.
func (p *Product) Withdraw(qty decimal.Decimal) error {
	stock := money.Normalize(p.Stock.Sub(qty))
	if stock.IsNegative() {
		return &apperr.InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   qty,
			Available:   p.Stock,
		}
	}
	p.Stock = stock
	p.Sold = money.Normalize(p.Sold.Add(qty))
	if p.Sold.IsNegative() {
		p.Sold = money.Zero
	}
	p.UpdatedAt = time.Now()
	return nil
}

// InventoryValue retorna o valor do estoque a preço de venda
func (p *Product) InventoryValue() decimal.Decimal {
	return money.Normalize(p.Price.Mul(p.Stock))
}
