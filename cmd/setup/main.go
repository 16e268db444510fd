package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/TheFenixfx/barbertrack/internal/database"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("Starting database setup...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	dbpool, err := database.ConnectDB(dbURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer dbpool.Close()

	dbManager := database.NewPostgresDBManager(context.Background(), dbpool)

	fmt.Println("Creating debt_runs table...")
	if err := dbManager.CreateDebtRunsTable(); err != nil {
		log.Fatalf("Error creating debt_runs table: %v", err)
	}
	fmt.Println("debt_runs table created successfully.")

	fmt.Println("Creating debt_reports table...")
	if err := dbManager.CreateDebtReportsTable(); err != nil {
		log.Fatalf("Error creating debt_reports table: %v", err)
	}
	fmt.Println("debt_reports table created successfully.")

	fmt.Println("Database setup finished successfully.")
}
