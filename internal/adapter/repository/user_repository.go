package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/user"
	"github.com/hugohenrick/erp-ceramica/internal/infrastructure/database"
)

// UserRepository implementa a interface user.Repository usando PostgreSQL
type UserRepository struct {
	db *database.PostgresDB
}

// NewUserRepository cria uma nova instância de UserRepository
func NewUserRepository(db *database.PostgresDB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.Repository = (*UserRepository)(nil)

const userColumns = `id, username, name, password, role, active, last_login_at, created_at, updated_at`

// Create implementa user.Repository.Create
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.Querier(ctx).Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID,
		u.Username,
		u.Name,
		u.Password,
		string(u.Role),
		u.Active,
		u.LastLoginAt,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		return writeError(err, "inserir usuário", fmt.Sprintf("usuário %s já existe", u.Username))
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, column, value string) (*user.User, error) {
	u := &user.User{}
	var role string
	err := r.db.Querier(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Name,
		&u.Password,
		&role,
		&u.Active,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, "usuário", value)
	}
	u.Role = user.Role(role)
	return u, nil
}

// FindByID implementa user.Repository.FindByID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, "id", id)
}

// FindByUsername implementa user.Repository.FindByUsername
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, "username", username)
}

// UpdateLastLogin implementa user.Repository.UpdateLastLogin
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	now := time.Now()
	tag, err := r.db.Querier(ctx).Exec(ctx,
		`UPDATE users SET last_login_at = $2, updated_at = $2 WHERE id = $1`, id, now)
	if err != nil {
		return writeError(err, "atualizar último login", "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("usuário", id)
	}
	return nil
}
