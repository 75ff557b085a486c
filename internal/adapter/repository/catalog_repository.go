package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/catalog"
	"github.com/hugohenrick/erp-ceramica/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

// CategoryRepository implementa catalog.CategoryRepository usando PostgreSQL
type CategoryRepository struct {
	db *database.PostgresDB
}

// NewCategoryRepository cria uma nova instância de CategoryRepository
func NewCategoryRepository(db *database.PostgresDB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

var _ catalog.CategoryRepository = (*CategoryRepository)(nil)

// Create implementa catalog.CategoryRepository.Create
func (r *CategoryRepository) Create(ctx context.Context, c *catalog.Category) error {
	_, err := r.db.Querier(ctx).Exec(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.CreatedAt,
	)
	if err != nil {
		return writeError(err, "inserir categoria", fmt.Sprintf("categoria %s já existe", c.Name))
	}
	return nil
}

// FindByID implementa catalog.CategoryRepository.FindByID
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*catalog.Category, error) {
	c := &catalog.Category{}
	err := r.db.Querier(ctx).QueryRow(ctx,
		`SELECT id, name, created_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "categoria", id)
	}
	return c, nil
}

// FindByName implementa catalog.CategoryRepository.FindByName
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	c := &catalog.Category{}
	err := r.db.Querier(ctx).QueryRow(ctx,
		`SELECT id, name, created_at FROM categories WHERE name = $1`, name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "categoria", name)
	}
	return c, nil
}

// List implementa catalog.CategoryRepository.List
func (r *CategoryRepository) List(ctx context.Context) ([]*catalog.Category, error) {
	rows, err := r.db.Querier(ctx).Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar categorias: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*catalog.Category, error) {
		c := &catalog.Category{}
		err := row.Scan(&c.ID, &c.Name, &c.CreatedAt)
		return c, err
	})
}

// Delete implementa catalog.CategoryRepository.Delete
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Querier(ctx).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return apperr.Conflict("categoria possui produtos vinculados")
		}
		return writeError(err, "excluir categoria", "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("categoria", id)
	}
	return nil
}

// ProductRepository implementa catalog.ProductRepository usando PostgreSQL
type ProductRepository struct {
	db *database.PostgresDB
}

// NewProductRepository cria uma nova instância de ProductRepository
func NewProductRepository(db *database.PostgresDB) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ catalog.ProductRepository = (*ProductRepository)(nil)

const productColumns = `
	p.id, p.name, p.brand, p.category_id, c.name, p.stock, p.unit,
	p.price, p.sold, p.supplier, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*catalog.Product, error) {
	p := &catalog.Product{}
	var unit string
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Brand,
		&p.CategoryID,
		&p.Category,
		&p.Stock,
		&unit,
		&p.Price,
		&p.Sold,
		&p.Supplier,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Unit = catalog.Unit(unit)
	return p, nil
}

// Create implementa catalog.ProductRepository.Create
func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	_, err := r.db.Querier(ctx).Exec(ctx, `
		INSERT INTO products (
			id, name, brand, category_id, stock, unit, price, sold, supplier, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)`,
		p.ID,
		p.Name,
		p.Brand,
		p.CategoryID,
		p.Stock,
		string(p.Unit),
		p.Price,
		p.Sold,
		p.Supplier,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return apperr.NotFound("categoria", p.CategoryID)
		}
		return writeError(err, "inserir produto", "produto já existe")
	}
	return nil
}

func (r *ProductRepository) findOne(ctx context.Context, id, suffix string) (*catalog.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1` + suffix
	p, err := scanProduct(r.db.Querier(ctx).QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "produto", id)
	}
	return p, nil
}

// FindByID implementa catalog.ProductRepository.FindByID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	return r.findOne(ctx, id, "")
}

// FindByIDForUpdate implementa catalog.ProductRepository.FindByIDForUpdate
func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, id string) (*catalog.Product, error) {
	return r.findOne(ctx, id, " FOR UPDATE OF p")
}

// List implementa catalog.ProductRepository.List
func (r *ProductRepository) List(ctx context.Context, f catalog.ProductFilter) ([]*catalog.Product, error) {
	var (
		conditions []string
		args       []any
	)
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.brand ILIKE $%d)", len(args), len(args)))
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	limit, offset := pageArgs(f.Limit, f.Offset)
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY p.name, p.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar produtos: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*catalog.Product, error) {
		return scanProduct(row)
	})
}

// Update implementa catalog.ProductRepository.Update
func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	tag, err := r.db.Querier(ctx).Exec(ctx, `
		UPDATE products SET
			name = $2, brand = $3, category_id = $4, stock = $5, unit = $6,
			price = $7, sold = $8, supplier = $9, updated_at = $10
		WHERE id = $1`,
		p.ID,
		p.Name,
		p.Brand,
		p.CategoryID,
		p.Stock,
		string(p.Unit),
		p.Price,
		p.Sold,
		p.Supplier,
		p.UpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return apperr.NotFound("categoria", p.CategoryID)
		}
		return writeError(err, "atualizar produto", "produto já existe")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("produto", p.ID)
	}
	return nil
}

// Delete implementa catalog.ProductRepository.Delete.
// Os itens de venda mantêm o nome e perdem a referência (ON DELETE SET NULL).
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Querier(ctx).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return writeError(err, "excluir produto", "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("produto", id)
	}
	return nil
}

// DeleteAll implementa catalog.ProductRepository.DeleteAll
func (r *ProductRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Querier(ctx).Exec(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("falha ao limpar catálogo: %w", err)
	}
	return nil
}

// CountByCategory implementa catalog.ProductRepository.CountByCategory
func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.db.Querier(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("falha ao contar produtos: %w", err)
	}
	return count, nil
}
