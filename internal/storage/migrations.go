package storage

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// RunMigrations executes all pending database migrations for the connection's dialect.
// Migrations are SQL files under migrations/<dialect>/, named with a numeric prefix.
func RunMigrations(db *DB) error {
	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	applied, err := getAppliedMigrations(db)
	if err != nil {
		return fmt.Errorf("getting applied migrations: %w", err)
	}

	migrations, err := getMigrationFiles(db.Dialect())
	if err != nil {
		return fmt.Errorf("reading migration files: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Name] {
			continue
		}

		slog.Info("applying migration", "name", m.Name, "dialect", db.Dialect())
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("applying migration %s: %w", m.Name, err)
		}
	}

	return nil
}

// PendingMigrations returns the names of migrations not yet applied.
func PendingMigrations(db *DB) ([]string, error) {
	if err := createMigrationsTable(db); err != nil {
		return nil, fmt.Errorf("creating migrations table: %w", err)
	}

	applied, err := getAppliedMigrations(db)
	if err != nil {
		return nil, err
	}

	migrations, err := getMigrationFiles(db.Dialect())
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, m := range migrations {
		if !applied[m.Name] {
			pending = append(pending, m.Name)
		}
	}
	return pending, nil
}

type migration struct {
	Name    string
	Content string
}

func createMigrationsTable(db *DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS _migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func getAppliedMigrations(db *DB) (map[string]bool, error) {
	var names []string
	if err := db.Select(&names, "SELECT name FROM _migrations"); err != nil {
		return nil, err
	}

	applied := make(map[string]bool, len(names))
	for _, name := range names {
		applied[name] = true
	}
	return applied, nil
}

func getMigrationFiles(dialect Dialect) ([]migration, error) {
	var migrations []migration

	root := path.Join("migrations", string(dialect))
	err := fs.WalkDir(migrationsFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(p, ".sql") {
			return nil
		}

		content, err := migrationsFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}

		migrations = append(migrations, migration{
			Name:    path.Base(p),
			Content: string(content),
		})

		return nil
	})

	if err != nil {
		return nil, err
	}

	// Numeric prefixes keep lexical order equal to apply order
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Name < migrations[j].Name
	})

	return migrations, nil
}

func applyMigration(db *DB, m migration) error {
	return db.Transaction(context.Background(), func(tx *sqlx.Tx) error {
		if _, err := tx.Exec(m.Content); err != nil {
			return fmt.Errorf("executing SQL: %w", err)
		}

		if _, err := tx.Exec(tx.Rebind("INSERT INTO _migrations (name) VALUES (?)"), m.Name); err != nil {
			return fmt.Errorf("recording migration: %w", err)
		}
		return nil
	})
}
