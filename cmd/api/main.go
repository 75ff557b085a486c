package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/hugohenrick/erp-ceramica/internal/config"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	if err := run(); err != nil {
		log.Fatalf("Erro: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appLogger := logger.NewLogger(cfg.LogDebug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Criar aplicação
	app, err := NewApp(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer app.Close()

	// Iniciar o servidor
	return app.Run(ctx)
}
