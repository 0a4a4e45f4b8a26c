package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
)

// schemaPaths are tried in order so migrations work whether the binary
// runs from the repo root, cmd/api or a package directory under test.
var schemaPaths = []string{
	"script/migration/schema.sql",
	"../script/migration/schema.sql",
	"../../script/migration/schema.sql",
	"../../../script/migration/schema.sql",
}

// RunMigrations executes schema.sql. Every statement is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	schemaPath := schemaPaths[0]
	for _, path := range schemaPaths {
		if _, err := os.Stat(path); err == nil {
			schemaPath = path
			break
		}
	}

	content, err := os.ReadFile(schemaPath)
	if err != nil {
		wd, _ := os.Getwd()
		return fmt.Errorf("failed to read migration file. Looking for '%s' (Current WD: %s): %w", schemaPath, wd, err)
	}

	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute schema.sql: %w", err)
	}
	return nil
}
