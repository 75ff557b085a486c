package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugohenrick/erp-ceramica/internal/domain/customer"
	"github.com/hugohenrick/erp-ceramica/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

// CustomerRepository implementa a interface customer.Repository
type CustomerRepository struct {
	db *database.PostgresDB
}

// NewCustomerRepository cria uma nova instância de CustomerRepository
func NewCustomerRepository(db *database.PostgresDB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

var _ customer.Repository = (*CustomerRepository)(nil)

// Create implementa customer.Repository.Create
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	_, err := r.db.Querier(ctx).Exec(ctx,
		`INSERT INTO customers (id, name, document, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Document, c.CreatedAt,
	)
	if err != nil {
		return writeError(err, "inserir cliente", fmt.Sprintf("cliente %s já existe", c.Name))
	}
	return nil
}

// FindByID implementa customer.Repository.FindByID
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	c := &customer.Customer{}
	err := r.db.Querier(ctx).QueryRow(ctx,
		`SELECT id, name, document, created_at FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Document, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "cliente", id)
	}
	return c, nil
}

// FindByName implementa customer.Repository.FindByName
func (r *CustomerRepository) FindByName(ctx context.Context, name string) (*customer.Customer, error) {
	c := &customer.Customer{}
	err := r.db.Querier(ctx).QueryRow(ctx,
		`SELECT id, name, document, created_at FROM customers WHERE name = $1`, name,
	).Scan(&c.ID, &c.Name, &c.Document, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "cliente", name)
	}
	return c, nil
}

// List implementa customer.Repository.List
func (r *CustomerRepository) List(ctx context.Context, query string, limit, offset int) ([]*customer.Customer, error) {
	lim, off := pageArgs(limit, offset)
	pattern := "%" + strings.TrimSpace(query) + "%"
	rows, err := r.db.Querier(ctx).Query(ctx, `
		SELECT id, name, document, created_at
		FROM customers
		WHERE name ILIKE $1
		ORDER BY name
		LIMIT $2 OFFSET $3`,
		pattern, lim, off,
	)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar clientes: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*customer.Customer, error) {
		c := &customer.Customer{}
		err := row.Scan(&c.ID, &c.Name, &c.Document, &c.CreatedAt)
		return c, err
	})
}
