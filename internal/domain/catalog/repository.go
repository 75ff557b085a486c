package catalog

import (
	"context"
)

// ProductFilter define os filtros de listagem de produtos
type ProductFilter struct {
	Query      string // Busca parcial por nome ou marca
	CategoryID string
	Limit      int
	Offset     int
}

// CategoryRepository define a interface para operações de repositório de categorias
type CategoryRepository interface {
	// Create cria uma nova categoria
	Create(ctx context.Context, c *Category) error

	// FindByID busca uma categoria pelo ID
	FindByID(ctx context.Context, id string) (*Category, error)

	// FindByName busca uma categoria pelo nome normalizado
	FindByName(ctx context.Context, name string) (*Category, error)

	// List lista todas as categorias em ordem alfabética
	List(ctx context.Context) ([]*Category, error)

	// Delete remove uma categoria
	Delete(ctx context.Context, id string) error
}

// ProductRepository define a interface para operações de repositório de produtos
type ProductRepository interface {
	// Create cria um novo produto
	Create(ctx context.Context, p *Product) error

	// FindByID busca um produto pelo ID
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindByIDForUpdate busca um produto bloqueando a linha até o fim da transação
	FindByIDForUpdate(ctx context.Context, id string) (*Product, error)

	// List lista produtos aplicando o filtro, ordenados por nome
	List(ctx context.Context, f ProductFilter) ([]*Product, error)

	// Update atualiza os dados de um produto
	Update(ctx context.Context, p *Product) error

	// Delete remove um produto
	Delete(ctx context.Context, id string) error

	// DeleteAll remove todos os produtos do catálogo
	DeleteAll(ctx context.Context) error

	// CountByCategory conta os produtos que referenciam a categoria
	CountByCategory(ctx context.Context, categoryID string) (int, error)
}
