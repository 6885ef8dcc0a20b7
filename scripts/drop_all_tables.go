package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// Read environment to determine table prefix
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev" // Default to dev
	}

	prefix := os.Getenv("TABLE_PREFIX")
	if prefix == "" {
		prefix = env + "_"
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	// Drop all tables with environment-specific prefix, dependents first
	dropSQL := fmt.Sprintf(`
		DROP TABLE IF EXISTS %svotes CASCADE;
		DROP TABLE IF EXISTS %smessages CASCADE;
		DROP TABLE IF EXISTS %schats CASCADE;
		DROP TABLE IF EXISTS %ssuggestions CASCADE;
		DROP TABLE IF EXISTS %sdocument_annotations CASCADE;
		DROP TABLE IF EXISTS %sdocument_sections CASCADE;
		DROP TABLE IF EXISTS %sdocuments CASCADE;
	`, prefix, prefix, prefix, prefix, prefix, prefix, prefix)

	if _, err := db.Exec(dropSQL); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", prefix)
}
