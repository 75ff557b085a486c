package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/till"
	"github.com/hugohenrick/erp-ceramica/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TillRepository implementa till.Repository usando PostgreSQL
type TillRepository struct {
	db *database.PostgresDB
}

// NewTillRepository cria uma nova instância de TillRepository
func NewTillRepository(db *database.PostgresDB) *TillRepository {
	return &TillRepository{db: db}
}

var _ till.Repository = (*TillRepository)(nil)

const tillColumns = `id, operator, opening_float, closing_float, open, opened_at, closed_at, total`

func scanTill(row pgx.Row) (*till.Till, error) {
	t := &till.Till{}
	var closing decimal.NullDecimal
	err := row.Scan(
		&t.ID,
		&t.Operator,
		&t.OpeningFloat,
		&closing,
		&t.Open,
		&t.OpenedAt,
		&t.ClosedAt,
		&t.Total,
	)
	if err != nil {
		return nil, err
	}
	if closing.Valid {
		t.ClosingFloat = &closing.Decimal
	}
	return t, nil
}

// Create implementa till.Repository.Create
func (r *TillRepository) Create(ctx context.Context, t *till.Till) error {
	_, err := r.db.Querier(ctx).Exec(ctx,
		`INSERT INTO tills (`+tillColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID,
		t.Operator,
		t.OpeningFloat,
		t.ClosingFloat,
		t.Open,
		t.OpenedAt,
		t.ClosedAt,
		t.Total,
	)
	if err != nil {
		return writeError(err, "inserir caixa", "já existe um caixa aberto")
	}
	return nil
}

// FindByID implementa till.Repository.FindByID
func (r *TillRepository) FindByID(ctx context.Context, id string) (*till.Till, error) {
	t, err := scanTill(r.db.Querier(ctx).QueryRow(ctx,
		`SELECT `+tillColumns+` FROM tills WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "caixa", id)
	}
	return t, nil
}

// FindByIDForUpdate implementa till.Repository.FindByIDForUpdate
func (r *TillRepository) FindByIDForUpdate(ctx context.Context, id string) (*till.Till, error) {
	t, err := scanTill(r.db.Querier(ctx).QueryRow(ctx,
		`SELECT `+tillColumns+` FROM tills WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err, "caixa", id)
	}
	return t, nil
}

func (r *TillRepository) findOpen(ctx context.Context, suffix string) (*till.Till, error) {
	t, err := scanTill(r.db.Querier(ctx).QueryRow(ctx,
		`SELECT `+tillColumns+` FROM tills WHERE open`+suffix))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("falha ao buscar caixa aberto: %w", err)
	}
	return t, nil
}

// FindOpen implementa till.Repository.FindOpen
func (r *TillRepository) FindOpen(ctx context.Context) (*till.Till, error) {
	return r.findOpen(ctx, "")
}

// FindOpenForUpdate implementa till.Repository.FindOpenForUpdate
func (r *TillRepository) FindOpenForUpdate(ctx context.Context) (*till.Till, error) {
	return r.findOpen(ctx, " FOR UPDATE")
}

// LockOpening implementa till.Repository.LockOpening com um advisory lock de transação
func (r *TillRepository) LockOpening(ctx context.Context) error {
	if _, err := r.db.Querier(ctx).Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lockTillOpening); err != nil {
		return fmt.Errorf("falha ao bloquear abertura de caixa: %w", err)
	}
	return nil
}

// Update implementa till.Repository.Update. O total só muda via AddToTotal.
func (r *TillRepository) Update(ctx context.Context, t *till.Till) error {
	tag, err := r.db.Querier(ctx).Exec(ctx, `
		UPDATE tills SET
			operator = $2, opening_float = $3, closing_float = $4, open = $5, closed_at = $6
		WHERE id = $1`,
		t.ID,
		t.Operator,
		t.OpeningFloat,
		t.ClosingFloat,
		t.Open,
		t.ClosedAt,
	)
	if err != nil {
		return writeError(err, "atualizar caixa", "já existe um caixa aberto")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("caixa", t.ID)
	}
	return nil
}

// AddToTotal implementa till.Repository.AddToTotal
func (r *TillRepository) AddToTotal(ctx context.Context, id string, delta decimal.Decimal) error {
	tag, err := r.db.Querier(ctx).Exec(ctx,
		`UPDATE tills SET total = ROUND(total + $2, 2) WHERE id = $1`, id, delta)
	if err != nil {
		return writeError(err, "atualizar total do caixa", "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("caixa", id)
	}
	return nil
}

// ListOpenBetween implementa till.Repository.ListOpenBetween
func (r *TillRepository) ListOpenBetween(ctx context.Context, from, to time.Time) ([]*till.Till, error) {
	rows, err := r.db.Querier(ctx).Query(ctx, `
		SELECT `+tillColumns+`
		FROM tills
		WHERE open AND opened_at >= $1 AND opened_at < $2
		ORDER BY opened_at
		FOR UPDATE`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar caixas abertos: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*till.Till, error) {
		return scanTill(row)
	})
}

// List implementa till.Repository.List
func (r *TillRepository) List(ctx context.Context, limit, offset int) ([]*till.Till, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.db.Querier(ctx).Query(ctx,
		`SELECT `+tillColumns+` FROM tills ORDER BY opened_at DESC LIMIT $1 OFFSET $2`, lim, off)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar caixas: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*till.Till, error) {
		return scanTill(row)
	})
}
