package db

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidSchemaName reports whether name can be interpolated into DDL and
// search_path statements as a bare identifier.
func ValidSchemaName(name string) bool {
	return schemaNamePattern.MatchString(name)
}

func searchPath(schema string) string {
	if schema == "public" {
		return "public"
	}
	return schema + ", public"
}

// EnsureSchema creates schema if it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	if !ValidSchemaName(schema) {
		return fmt.Errorf("invalid schema name: %q", schema)
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
		return fmt.Errorf("create schema %s: %w", schema, err)
	}
	return nil
}
