package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"golang.org/x/crypto/bcrypt"
)

// Role representa o papel/função do operador
type Role string

// Constantes para Role
const (
	RoleAdmin   Role = "admin"   // Administrador da loja
	RoleCashier Role = "cashier" // Operador de caixa
)

// User representa um operador do sistema
type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Password    string     `json:"-"` // O campo senha não é retornado nas respostas JSON
	Role        Role       `json:"role"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewUser cria um novo operador com a senha já convertida em hash
func NewUser(username, name, password string, role Role) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperr.Validation("username", "usuário é obrigatório")
	}
	if password == "" {
		return nil, apperr.Validation("password", "senha é obrigatória")
	}
	if role != RoleAdmin && role != RoleCashier {
		return nil, apperr.Validation("role", "papel inválido")
	}
	if strings.TrimSpace(name) == "" {
		name = username
	}

	now := time.Now()
	u := &User{
		ID:        uuid.New().String(),
		Username:  username,
		Name:      strings.TrimSpace(name),
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword configura a senha do usuário com hash
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifica se a senha fornecida é válida
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsAdmin verifica se o usuário é um administrador
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
