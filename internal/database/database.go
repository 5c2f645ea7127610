package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"

	"clients_admin/internal/config"
	"clients_admin/pkg/utils"

	_ "github.com/lib/pq" // PostgreSQL driver
)

//go:embed schema.sql
var defaultSchema string

// InitDB opens the connection pool, verifies it and applies the schema.
func InitDB(cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	utils.LogInfo("Successfully connected to the database", map[string]interface{}{"host": cfg.Host, "db": cfg.DBName})

	if err := applySchema(db, cfg.SchemaPath); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// applySchema executes the schema file at schemaPath, or the built-in clients schema
// when no path is configured. The built-in schema is idempotent.
func applySchema(db *sql.DB, schemaPath string) error {
	content := defaultSchema
	if schemaPath != "" {
		raw, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
		}
		content = string(raw)
	}

	if _, err := db.Exec(content); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied", map[string]interface{}{"schema_path": schemaPath})
	return nil
}
