package service

import (
	"context"

	"github.com/hugohenrick/erp-ceramica/internal/domain/sale"
	"github.com/hugohenrick/erp-ceramica/pkg/money"
	"github.com/shopspring/decimal"
)

// ReceiptSettings configura a emissão de comprovantes
type ReceiptSettings struct {
	Currency string          // Código ISO 4217 usado na formatação
	TaxRate  decimal.Decimal // Alíquota única incluída nos preços (ex.: 0.18)
}

// ReceiptLine é um item do comprovante com valores formatados
type ReceiptLine struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	UnitPriceF  string          `json:"unit_price_formatted"`
	SubtotalF   string          `json:"subtotal_formatted"`
}

// Receipt é a nota de venda de uma venda registrada
type Receipt struct {
	SaleID        string          `json:"sale_id"`
	Number        int64           `json:"number"`
	DocumentLabel string          `json:"document_label"`
	CustomerName  string          `json:"customer_name"`
	IssuedAt      string          `json:"issued_at"`
	Currency      string          `json:"currency"`
	Lines         []ReceiptLine   `json:"lines"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	TotalF        string          `json:"total_formatted"`
}

var documentLabels = map[sale.DocumentType]string{
	sale.DocumentSimpleReceipt: "Nota de venda",
	sale.DocumentRetailReceipt: "Boleta",
	sale.DocumentInvoice:       "Fatura",
}

// SplitTax separa o imposto incluído no total: líquido = total / (1 + alíquota)
func SplitTax(total, rate decimal.Decimal) (net, tax decimal.Decimal) {
	if !rate.IsPositive() {
		return money.Normalize(total), money.Zero
	}
	net = money.Normalize(total.DivRound(decimal.NewFromInt(1).Add(rate), money.Scale+2))
	tax = money.Normalize(total.Sub(net))
	return net, tax
}

// BuildReceipt monta a nota de venda a partir da venda
func BuildReceipt(sl *sale.Sale, settings ReceiptSettings) *Receipt {
	currency := settings.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}

	r := &Receipt{
		SaleID:        sl.ID,
		Number:        sl.Number,
		DocumentLabel: documentLabels[sl.DocumentType],
		CustomerName:  sl.CustomerName,
		IssuedAt:      sl.CreatedAt.Format("02/01/2006 15:04"),
		Currency:      currency,
		Lines:         make([]ReceiptLine, 0, len(sl.Lines)),
	}
	for _, l := range sl.Lines {
		subtotal := l.Subtotal()
		r.Lines = append(r.Lines, ReceiptLine{
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    subtotal,
			UnitPriceF:  money.Format(l.UnitPrice, currency),
			SubtotalF:   money.Format(subtotal, currency),
		})
	}
	r.Total = sl.ComputeTotal()
	r.NetAmount, r.TaxAmount = SplitTax(r.Total, settings.TaxRate)
	r.TotalF = money.Format(r.Total, currency)
	return r
}

// Receipt gera a nota de venda de uma venda
func (s *SaleService) Receipt(ctx context.Context, saleID string) (*Receipt, error) {
	sl, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return BuildReceipt(sl, s.receipt), nil
}
