package dto

import (
	"time"

	"github.com/hugohenrick/erp-ceramica/internal/domain/customer"
)

// CustomerResponse representa a resposta com dados de um cliente
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCustomerResponse converte um cliente do domínio para DTO de resposta
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Document:  c.Document,
		CreatedAt: c.CreatedAt,
	}
}
