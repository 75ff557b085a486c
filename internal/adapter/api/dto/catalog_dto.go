package dto

import (
	"time"

	"github.com/hugohenrick/erp-ceramica/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CategoryRequest representa os dados para criação de categoria
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryResponse representa a resposta com dados de uma categoria
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCategoryResponse converte uma categoria do domínio para DTO de resposta
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// ProductRequest representa os dados de um produto para criação ou atualização.
// Sem category_id, category_name é buscada ou criada.
type ProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	Brand        string          `json:"brand"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Stock        decimal.Decimal `json:"stock" swaggertype:"string" example:"120.00"`
	Unit         string          `json:"unit" example:"box"`
	Price        decimal.Decimal `json:"price" swaggertype:"string" example:"39.90"`
	Sold         decimal.Decimal `json:"sold" swaggertype:"string" example:"0"`
	Supplier     string          `json:"supplier"`
}

// ProductResponse representa a resposta com dados de um produto
type ProductResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Brand          string    `json:"brand"`
	CategoryID     string    `json:"category_id"`
	Category       string    `json:"category"`
	Stock          string    `json:"stock"`
	Unit           string    `json:"unit"`
	Price          string    `json:"price"`
	Sold           string    `json:"sold"`
	Supplier       string    `json:"supplier"`
	InventoryValue string    `json:"inventory_value"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToProductResponse converte um produto do domínio para DTO de resposta
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Brand:          p.Brand,
		CategoryID:     p.CategoryID,
		Category:       p.Category,
		Stock:          Amount(p.Stock),
		Unit:           string(p.Unit),
		Price:          Amount(p.Price),
		Sold:           Amount(p.Sold),
		Supplier:       p.Supplier,
		InventoryValue: Amount(p.InventoryValue()),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProductResponses converte uma lista de produtos
func ToProductResponses(products []*catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = ToProductResponse(p)
	}
	return out
}

// ImportResponse representa o resultado da importação de uma planilha
type ImportResponse struct {
	Created int `json:"created"`
}
