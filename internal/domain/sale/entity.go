package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/pkg/money"
	"github.com/shopspring/decimal"
)

// DocumentType define o tipo de comprovante emitido na venda
type DocumentType string

const (
	DocumentSimpleReceipt DocumentType = "simple_receipt" // Nota de venda simples
	DocumentRetailReceipt DocumentType = "retail_receipt" // Boleta
	DocumentInvoice       DocumentType = "invoice"        // Fatura
)

// Valid verifica se o tipo de documento é conhecido
func (d DocumentType) Valid() bool {
	switch d {
	case DocumentSimpleReceipt, DocumentRetailReceipt, DocumentInvoice:
		return true
	}
	return false
}

// Sale representa uma venda registrada
type Sale struct {
	ID           string          `json:"id"`
	Number       int64           `json:"number"` // Sequencial, iniciando em 1
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	DocumentType DocumentType    `json:"document_type"`
	CreatedAt    time.Time       `json:"created_at"`
	Total        decimal.Decimal `json:"total"`
	TillID       *string         `json:"till_id,omitempty"`
	Lines        []*Line         `json:"lines"`
}

// Line representa um item da venda
type Line struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id"`
	ProductID   *string         `json:"product_id,omitempty"` // Nulo quando o produto saiu do catálogo
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// NewSale cria uma venda ainda sem itens e sem número
func NewSale(customerID, customerName string, doc DocumentType) *Sale {
	return &Sale{
		ID:           uuid.New().String(),
		CustomerID:   customerID,
		CustomerName: customerName,
		DocumentType: doc,
		CreatedAt:    time.Now(),
		Total:        money.Zero,
	}
}

// NewLine cria um item de venda validando quantidade e preço
func NewLine(saleID, productID, productName string, qty, unitPrice decimal.Decimal) (*Line, error) {
	l := &Line{
		ID:          uuid.New().String(),
		SaleID:      saleID,
		ProductName: productName,
	}
	if productID != "" {
		l.ProductID = &productID
	}
	if err := l.Set(qty, unitPrice); err != nil {
		return nil, err
	}
	return l, nil
}

// Set altera quantidade e preço do item
func (l *Line) Set(qty, unitPrice decimal.Decimal) error {
	qty = money.Normalize(qty)
	unitPrice = money.Normalize(unitPrice)
	if !qty.IsPositive() {
		return apperr.Validation("quantity", "quantidade deve ser maior que zero")
	}
	if unitPrice.IsNegative() {
		return apperr.Validation("unit_price", "preço unitário não pode ser negativo")
	}
	l.Quantity = qty
	l.UnitPrice = unitPrice
	return nil
}

// Subtotal retorna quantidade vezes preço unitário arredondado, para exibição
func (l *Line) Subtotal() decimal.Decimal {
	return money.Normalize(l.Quantity.Mul(l.UnitPrice))
}

// ComputeTotal soma quantidade vezes preço de todos os itens e arredonda uma única vez
func (s *Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	return money.Normalize(total)
}

// FindLine retorna o item pelo ID
func (s *Sale) FindLine(lineID string) (*Line, bool) {
	for _, l := range s.Lines {
		if l.ID == lineID {
			return l, true
		}
	}
	return nil, false
}

// BelongsTo verifica se a venda está atribuída ao caixa
func (s *Sale) BelongsTo(tillID string) bool {
	return s.TillID != nil && *s.TillID == tillID
}
