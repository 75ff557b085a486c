// Package repository implementa os repositórios de domínio sobre PostgreSQL.
// Todas as consultas usam a transação carregada no contexto quando houver.
package repository

import (
	"errors"
	"fmt"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos de erro do PostgreSQL tratados pelos repositórios
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
)

// Chaves de pg_advisory_xact_lock
const (
	lockTillOpening int64 = 7301
	lockSaleNumber  int64 = 7302
)

// pgErrorCode retorna o código SQLSTATE do erro ou vazio
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// notFound converte pgx.ErrNoRows em apperr.NotFoundError
func notFound(err error, entity, id string) error {
	if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgInvalidText {
		return apperr.NotFound(entity, id)
	}
	return fmt.Errorf("falha ao buscar %s: %w", entity, err)
}

// writeError traduz violações de restrição em erros de negócio
func writeError(err error, action, conflict string) error {
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return apperr.Conflict("%s", conflict)
	case pgForeignKeyViolation:
		return apperr.Conflict("%s: registro relacionado inexistente ou em uso", action)
	case pgInvalidText:
		return apperr.Validation("id", "identificador inválido")
	case pgCheckViolation:
		return apperr.Validation("", fmt.Sprintf("%s: valor fora das regras", action))
	}
	return fmt.Errorf("falha ao %s: %w", action, err)
}

// pageArgs converte limite zero em "sem limite"
func pageArgs(limit, offset int) (any, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return nil, offset
	}
	return limit, offset
}
