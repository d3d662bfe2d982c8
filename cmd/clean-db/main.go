package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/duvan51/webpromedid/internal/config"
	"github.com/duvan51/webpromedid/internal/store/postgres"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	connStr := postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	}.DSN()
	if len(os.Args) > 1 {
		connStr = os.Args[1]
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	fmt.Println("Cleaning database...")

	// Drop all data (in reverse dependency order)
	tables := []string{
		"catalog_items",
		"pages",
		"tenants",
	}

	for _, table := range tables {
		_, err := db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			fmt.Printf("Warning: failed to truncate %s: %v\n", table, err)
		} else {
			fmt.Printf("✓ Cleared %s\n", table)
		}
	}

	// Re-insert the platform master tenant
	fmt.Println("\nRe-inserting master tenant...")
	_, err = db.ExecContext(ctx, `
		INSERT INTO tenants (id, name, slug, theme, config, status)
		VALUES ($1, $2, $3, 'default', '{}'::jsonb, 'active')
	`, uuid.Must(uuid.NewV7()).String(), "WebProMedid", cfg.Platform.MasterSlug)
	if err != nil {
		log.Fatalf("Failed to insert master tenant: %v", err)
	}
	fmt.Printf("✓ Created tenant: %s\n", cfg.Platform.MasterSlug)

	fmt.Println("\n✓✓✓ Database cleaned and reset successfully!")
}
