package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/sale"
	"github.com/hugohenrick/erp-ceramica/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

// SaleRepository implementa sale.Repository usando PostgreSQL
type SaleRepository struct {
	db *database.PostgresDB
}

// NewSaleRepository cria uma nova instância de SaleRepository
func NewSaleRepository(db *database.PostgresDB) *SaleRepository {
	return &SaleRepository{db: db}
}

var _ sale.Repository = (*SaleRepository)(nil)

const saleColumns = `
	s.id, s.number, s.customer_id, c.name, s.document_type, s.created_at, s.total, s.till_id`

func scanSale(row pgx.Row) (*sale.Sale, error) {
	s := &sale.Sale{}
	var doc string
	err := row.Scan(
		&s.ID,
		&s.Number,
		&s.CustomerID,
		&s.CustomerName,
		&doc,
		&s.CreatedAt,
		&s.Total,
		&s.TillID,
	)
	if err != nil {
		return nil, err
	}
	s.DocumentType = sale.DocumentType(doc)
	return s, nil
}

// NextNumber implementa sale.Repository.NextNumber.
// O advisory lock vale até o fim da transação que grava a venda.
func (r *SaleRepository) NextNumber(ctx context.Context) (int64, error) {
	q := r.db.Querier(ctx)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lockSaleNumber); err != nil {
		return 0, fmt.Errorf("falha ao bloquear numeração de vendas: %w", err)
	}
	var next int64
	if err := q.QueryRow(ctx, `SELECT COALESCE(MAX(number), 0) + 1 FROM sales`).Scan(&next); err != nil {
		return 0, fmt.Errorf("falha ao obter próximo número de venda: %w", err)
	}
	return next, nil
}

// Create implementa sale.Repository.Create
func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	_, err := r.db.Querier(ctx).Exec(ctx, `
		INSERT INTO sales (
			id, number, customer_id, document_type, created_at, total, till_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)`,
		s.ID,
		s.Number,
		s.CustomerID,
		string(s.DocumentType),
		s.CreatedAt,
		s.Total,
		s.TillID,
	)
	if err != nil {
		return writeError(err, "inserir venda", fmt.Sprintf("número de venda %d já utilizado", s.Number))
	}

	for _, l := range s.Lines {
		if err := r.CreateLine(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *SaleRepository) findOne(ctx context.Context, id, suffix string) (*sale.Sale, error) {
	q := r.db.Querier(ctx)
	s, err := scanSale(q.QueryRow(ctx, `SELECT `+saleColumns+`
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.id = $1`+suffix, id))
	if err != nil {
		return nil, notFound(err, "venda", id)
	}

	rows, err := q.Query(ctx, `
		SELECT id, sale_id, product_id, product_name, quantity, unit_price
		FROM sale_lines
		WHERE sale_id = $1
		ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar itens da venda: %w", err)
	}
	s.Lines, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (*sale.Line, error) {
		l := &sale.Line{}
		err := row.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao ler itens da venda: %w", err)
	}
	return s, nil
}

// FindByID implementa sale.Repository.FindByID
func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	return r.findOne(ctx, id, "")
}

// FindByIDForUpdate implementa sale.Repository.FindByIDForUpdate
func (r *SaleRepository) FindByIDForUpdate(ctx context.Context, id string) (*sale.Sale, error) {
	return r.findOne(ctx, id, " FOR UPDATE OF s")
}

// Update implementa sale.Repository.Update
func (r *SaleRepository) Update(ctx context.Context, s *sale.Sale) error {
	tag, err := r.db.Querier(ctx).Exec(ctx,
		`UPDATE sales SET total = $2, till_id = $3 WHERE id = $1`,
		s.ID, s.Total, s.TillID,
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation && s.TillID != nil {
			return apperr.NotFound("caixa", *s.TillID)
		}
		return writeError(err, "atualizar venda", "venda em conflito")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("venda", s.ID)
	}
	return nil
}

// CreateLine implementa sale.Repository.CreateLine
func (r *SaleRepository) CreateLine(ctx context.Context, l *sale.Line) error {
	_, err := r.db.Querier(ctx).Exec(ctx, `
		INSERT INTO sale_lines (id, sale_id, product_id, product_name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.SaleID, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice,
	)
	if err != nil {
		return writeError(err, "inserir item de venda", "item de venda já existe")
	}
	return nil
}

// UpdateLine implementa sale.Repository.UpdateLine
func (r *SaleRepository) UpdateLine(ctx context.Context, l *sale.Line) error {
	tag, err := r.db.Querier(ctx).Exec(ctx,
		`UPDATE sale_lines SET quantity = $3, unit_price = $4 WHERE id = $1 AND sale_id = $2`,
		l.ID, l.SaleID, l.Quantity, l.UnitPrice,
	)
	if err != nil {
		return writeError(err, "atualizar item de venda", "item de venda em conflito")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("item de venda", l.ID)
	}
	return nil
}

// DeleteLine implementa sale.Repository.DeleteLine
func (r *SaleRepository) DeleteLine(ctx context.Context, lineID string) error {
	tag, err := r.db.Querier(ctx).Exec(ctx, `DELETE FROM sale_lines WHERE id = $1`, lineID)
	if err != nil {
		return writeError(err, "excluir item de venda", "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("item de venda", lineID)
	}
	return nil
}

// Delete implementa sale.Repository.Delete. Os itens saem em cascata.
func (r *SaleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Querier(ctx).Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return writeError(err, "excluir venda", "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("venda", id)
	}
	return nil
}

// List implementa sale.Repository.List
func (r *SaleRepository) List(ctx context.Context, f sale.Filter) ([]*sale.Sale, error) {
	lim, off := pageArgs(f.Limit, f.Offset)
	var tillID any
	if f.TillID != "" {
		tillID = f.TillID
	}
	rows, err := r.db.Querier(ctx).Query(ctx, `SELECT `+saleColumns+`
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE ($1::uuid IS NULL OR s.till_id = $1::uuid)
		ORDER BY s.number DESC
		LIMIT $2 OFFSET $3`,
		tillID, lim, off,
	)
	if err != nil {
		return nil, writeError(err, "listar vendas", "")
	}
	sales, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*sale.Sale, error) {
		return scanSale(row)
	})
	if err != nil {
		return nil, writeError(err, "listar vendas", "")
	}
	return sales, nil
}
