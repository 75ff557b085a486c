package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/customer"
)

// CustomerService gerencia o cadastro de clientes
type CustomerService struct {
	customers customer.Repository
}

// NewCustomerService cria o serviço de clientes
func NewCustomerService(customers customer.Repository) *CustomerService {
	return &CustomerService{customers: customers}
}

// ResolveCustomer busca o cliente pelo nome exato e o cria se não existir.
// Deve receber o ctx da transação quando usado no registro de uma venda.
func (s *CustomerService) ResolveCustomer(ctx context.Context, name string) (*customer.Customer, error) {
	name = customer.NormalizeName(name)
	if name == "" {
		return nil, apperr.Validation("customer_name", "nome do cliente é obrigatório")
	}

	c, err := s.customers.FindByName(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("erro ao buscar cliente: %w", err)
	}

	c, err = customer.NewCustomer(name, "")
	if err != nil {
		return nil, err
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("erro ao criar cliente: %w", err)
	}
	return c, nil
}

// GetCustomer busca um cliente pelo ID
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*customer.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// ListCustomers lista clientes em ordem alfabética
func (s *CustomerService) ListCustomers(ctx context.Context, query string, limit, offset int) ([]*customer.Customer, error) {
	return s.customers.List(ctx, query, limit, offset)
}
