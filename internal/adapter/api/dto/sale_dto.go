package dto

import (
	"time"

	"github.com/hugohenrick/erp-ceramica/internal/domain/sale"
	"github.com/shopspring/decimal"
)

// SaleLineRequest representa um item pedido.
// Sem unit_price, o preço atual do produto é usado.
type SaleLineRequest struct {
	ProductID string           `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" swaggertype:"string" example:"3"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty" swaggertype:"string" example:"5.00"`
}

// SaleRequest representa os dados para registrar uma venda
type SaleRequest struct {
	CustomerName string            `json:"customer_name" binding:"required"`
	DocumentType string            `json:"document_type" binding:"required" example:"simple_receipt"`
	Lines        []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateSaleLineRequest representa a alteração de um item
type UpdateSaleLineRequest struct {
	Quantity  decimal.Decimal  `json:"quantity" swaggertype:"string" example:"2"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty" swaggertype:"string"`
}

// AssignTillRequest representa a troca do caixa de uma venda
type AssignTillRequest struct {
	TillID string `json:"till_id" binding:"required"`
}

// SaleLineResponse representa um item de venda
type SaleLineResponse struct {
	ID          string  `json:"id"`
	ProductID   *string `json:"product_id,omitempty"`
	ProductName string  `json:"product_name"`
	Quantity    string  `json:"quantity"`
	UnitPrice   string  `json:"unit_price"`
	Subtotal    string  `json:"subtotal"`
}

// SaleResponse representa a resposta com dados de uma venda
type SaleResponse struct {
	ID           string             `json:"id"`
	Number       int64              `json:"number"`
	CustomerID   string             `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	DocumentType string             `json:"document_type"`
	CreatedAt    time.Time          `json:"created_at"`
	Total        string             `json:"total"`
	TillID       *string            `json:"till_id,omitempty"`
	Lines        []SaleLineResponse `json:"lines,omitempty"`
}

// ToSaleResponse converte uma venda do domínio para DTO de resposta
func ToSaleResponse(s *sale.Sale) SaleResponse {
	resp := SaleResponse{
		ID:           s.ID,
		Number:       s.Number,
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
		DocumentType: string(s.DocumentType),
		CreatedAt:    s.CreatedAt,
		Total:        Amount(s.Total),
		TillID:       s.TillID,
	}
	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    Amount(l.Quantity),
			UnitPrice:   Amount(l.UnitPrice),
			Subtotal:    Amount(l.Subtotal()),
		})
	}
	return resp
}

// ToSaleResponses converte uma lista de vendas
func ToSaleResponses(sales []*sale.Sale) []SaleResponse {
	out := make([]SaleResponse, len(sales))
	for i, s := range sales {
		out[i] = ToSaleResponse(s)
	}
	return out
}
