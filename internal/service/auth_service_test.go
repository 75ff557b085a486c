package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hugohenrick/erp-ceramica/internal/adapter/repository/memory"
	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/user"
	"github.com/hugohenrick/erp-ceramica/pkg/auth"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
)

func newAuthService(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	jwtService, err := auth.NewJWTService("segredo", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}
	return NewAuthService(store.Users(), jwtService, logger.Nop()), store
}

func TestBootstrapAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	svc.Bootstrap(ctx, "Admin", "s3nha")
	svc.Bootstrap(ctx, "admin", "outra")

	res, err := svc.Login(ctx, "admin", "s3nha")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.AccessToken == "" || res.ExpiresIn != 3600 || res.User.Role != user.RoleAdmin {
		t.Fatalf("resultado inesperado: %+v", res)
	}

	me, err := svc.Me(ctx, res.User.ID)
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if me.LastLoginAt == nil {
		t.Fatalf("último login deveria ser registrado")
	}

	if _, err := svc.Login(ctx, "admin", "outra"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("senha errada: error = %v", err)
	}
	if _, err := svc.Login(ctx, "ninguem", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("usuário inexistente: error = %v", err)
	}
	if _, err := svc.Login(ctx, "", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("campos vazios: error = %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()

	u, err := user.NewUser("rui", "Rui", "s3nha", user.RoleCashier)
	if err != nil {
		t.Fatalf("NewUser() error = %v", err)
	}
	u.Active = false
	if err := store.Users().Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Login(ctx, "rui", "s3nha"); !errors.Is(err, ErrInactiveUser) {
		t.Fatalf("Login() error = %v, want ErrInactiveUser", err)
	}

	token, err := svc.jwt.GenerateToken(u)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if _, err := svc.RefreshToken(ctx, token); !errors.Is(err, ErrInactiveUser) {
		t.Fatalf("RefreshToken() error = %v, want ErrInactiveUser", err)
	}
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	svc.Bootstrap(ctx, "admin", "s3nha")

	res, err := svc.Login(ctx, "admin", "s3nha")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	refreshed, err := svc.RefreshToken(ctx, res.AccessToken)
	if err != nil || refreshed == "" {
		t.Fatalf("RefreshToken() = %q, %v", refreshed, err)
	}
	if _, err := svc.RefreshToken(ctx, "lixo"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("RefreshToken(lixo) error = %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, "Caixa1", "Caixa Um", "s3nha", user.RoleCashier)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if u.Username != "caixa1" || !u.CheckPassword("s3nha") {
		t.Fatalf("usuário inesperado: %+v", u)
	}
	if _, err := svc.CreateUser(ctx, "caixa1", "", "x", user.RoleCashier); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("usuário duplicado: error = %v", err)
	}
	if _, err := svc.CreateUser(ctx, "x", "", "x", "root"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("papel inválido: error = %v", err)
	}
}
