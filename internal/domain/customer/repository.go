package customer

import (
	"context"
)

// Repository define a interface para operações de repositório de clientes
type Repository interface {
	// Create cria um novo cliente
	Create(ctx context.Context, c *Customer) error

	// FindByID busca um cliente pelo ID
	FindByID(ctx context.Context, id string) (*Customer, error)

	// FindByName busca um cliente pelo nome exato
	FindByName(ctx context.Context, name string) (*Customer, error)

	// List lista clientes com paginação, filtrando pelo nome quando informado
	List(ctx context.Context, query string, limit, offset int) ([]*Customer, error)
}
