package main

import (
	"flag"
	"log"
	"os"

	"github.com/hugohenrick/erp-ceramica/internal/infrastructure/database"
	"github.com/hugohenrick/erp-ceramica/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	down := flag.Int("down", 0, "quantidade de migrações a reverter")
	flag.Parse()

	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL não configurada")
	}
	appLogger := logger.NewLogger(os.Getenv("LOG_DEBUG") == "true")

	if *down > 0 {
		if err := database.RollbackMigrations(databaseURL, *down, appLogger); err != nil {
			log.Fatalf("Erro ao reverter migrações: %v", err)
		}
		log.Println("Migrações revertidas com sucesso!")
		return
	}

	// Executar as migrações
	if err := database.RunMigrations(databaseURL, appLogger); err != nil {
		log.Fatalf("Erro ao executar migrações: %v", err)
	}

	log.Println("Migrações executadas com sucesso!")
}
