package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/user"
	"github.com/hugohenrick/erp-ceramica/pkg/auth"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
)

// ErrInvalidCredentials indica usuário ou senha incorretos
var ErrInvalidCredentials = errors.New("credenciais inválidas")

// ErrInactiveUser indica um operador desativado
var ErrInactiveUser = errors.New("usuário inativo")

// LoginResult é o resultado de uma autenticação bem-sucedida
type LoginResult struct {
	AccessToken string
	ExpiresIn   int64 // Segundos
	User        *user.User
}

// AuthService autentica operadores e emite tokens
type AuthService struct {
	users  user.Repository
	jwt    *auth.JWTService
	logger logger.Logger
}

// NewAuthService cria o serviço de autenticação
func NewAuthService(users user.Repository, jwtService *auth.JWTService, log logger.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwtService, logger: log}
}

// Login valida usuário e senha e retorna um token de acesso
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, apperr.Validation("", "usuário e senha são obrigatórios")
	}

	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}
	if !u.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	if !u.Active {
		return nil, ErrInactiveUser
	}

	token, err := s.jwt.GenerateToken(u)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar token: %w", err)
	}

	// Falha ao registrar o último login não impede a autenticação
	if err := s.users.UpdateLastLogin(ctx, u.ID); err != nil {
		s.logger.Warn("erro ao atualizar último login", "user_id", u.ID, "error", err)
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(s.jwt.Expiration().Seconds()),
		User:        u,
	}, nil
}

// RefreshToken renova um token de acesso, desde que o operador continue ativo
func (s *AuthService) RefreshToken(ctx context.Context, token string) (string, error) {
	refreshed, err := s.jwt.RefreshToken(token)
	if err != nil {
		return "", err
	}
	claims, err := s.jwt.ValidateToken(refreshed)
	if err != nil {
		return "", err
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", auth.ErrInvalidToken
		}
		return "", fmt.Errorf("erro ao buscar usuário: %w", err)
	}
	if !u.Active {
		return "", ErrInactiveUser
	}
	return refreshed, nil
}

// Me retorna o operador autenticado
func (s *AuthService) Me(ctx context.Context, userID string) (*user.User, error) {
	return s.users.FindByID(ctx, userID)
}

// CreateUser cadastra um novo operador
func (s *AuthService) CreateUser(ctx context.Context, username, name, password string, role user.Role) (*user.User, error) {
	u, err := user.NewUser(username, name, password, role)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("operador criado", "username", u.Username, "role", string(u.Role))
	return u, nil
}

// Bootstrap cria o administrador inicial quando ele ainda não existe.
// Erros são registrados no log e não interrompem a inicialização.
func (s *AuthService) Bootstrap(ctx context.Context, username, password string) {
	if strings.TrimSpace(username) == "" || password == "" {
		s.logger.Debug("administrador inicial não configurado")
		return
	}

	_, err := s.users.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err == nil {
		return
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		s.logger.Error("erro ao verificar administrador inicial", "error", err)
		return
	}

	u, err := user.NewUser(username, "Administrador", password, user.RoleAdmin)
	if err != nil {
		s.logger.Error("erro ao preparar administrador inicial", "error", err)
		return
	}
	if err := s.users.Create(ctx, u); err != nil {
		s.logger.Error("erro ao criar administrador inicial", "error", err)
		return
	}
	s.logger.Info("administrador inicial criado", "username", u.Username)
}
