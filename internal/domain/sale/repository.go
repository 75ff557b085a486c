package sale

import (
	"context"
)

// Filter define os filtros de listagem de vendas
type Filter struct {
	TillID string
	Limit  int
	Offset int
}

// Repository define a interface para operações de repositório de vendas
type Repository interface {
	// NextNumber reserva o próximo número de venda dentro da transação corrente
	NextNumber(ctx context.Context) (int64, error)

	// Create grava a venda e seus itens
	Create(ctx context.Context, s *Sale) error

	// FindByID busca uma venda com seus itens
	FindByID(ctx context.Context, id string) (*Sale, error)

	// FindByIDForUpdate busca uma venda com seus itens bloqueando a linha
	FindByIDForUpdate(ctx context.Context, id string) (*Sale, error)

	// Update grava total e caixa da venda
	Update(ctx context.Context, s *Sale) error

	// CreateLine adiciona um item a uma venda existente
	CreateLine(ctx context.Context, l *Line) error

	// UpdateLine atualiza quantidade e preço de um item
	UpdateLine(ctx context.Context, l *Line) error

	// DeleteLine remove um item
	DeleteLine(ctx context.Context, lineID string) error

	// Delete remove a venda e seus itens
	Delete(ctx context.Context, id string) error

	// List lista vendas sem os itens, mais recentes primeiro
	List(ctx context.Context, f Filter) ([]*Sale, error)
}
