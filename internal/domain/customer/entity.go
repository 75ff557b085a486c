package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
)

// Customer representa um cliente da loja.
// O nome é a chave usada para localizar o cliente no registro de uma venda.
type Customer struct {
	ID        string    `json:"id"`       // ID do Cliente
	Name      string    `json:"name"`     // Nome/Razão Social
	Document  string    `json:"document"` // Documento (opcional)
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeName remove espaços das pontas do nome
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NewCustomer cria um novo cliente
func NewCustomer(name, document string) (*Customer, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, apperr.Validation("customer_name", "nome do cliente é obrigatório")
	}

	return &Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Document:  strings.TrimSpace(document),
		CreatedAt: time.Now(),
	}, nil
}
