// Command migrate applies pending db/*.sql files to the Postgres store.
// Files run in name order; each file and its migrations row commit together.
// Usage: go run ./cmd/migrate [-dir db]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{3}-`)

func main() {
	dir := flag.String("dir", "db", "directory containing migration files")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DB_URL is not set")
		os.Exit(1)
	}

	ran, err := migrate(context.Background(), dbURL, *dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if ran == 0 {
		fmt.Println("No pending migrations.")
	} else {
		fmt.Printf("\n%d migration(s) applied.\n", ran)
	}
}

func migrate(ctx context.Context, dbURL, dir string) (int, error) {
	files, err := migrationFiles(dir)
	if err != nil {
		return 0, err
	}

	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return 0, fmt.Errorf("connect to database: %w", err)
	}
	defer conn.Close(ctx)

	applied, err := appliedMigrations(ctx, conn)
	if err != nil {
		return 0, err
	}

	ran := 0
	for _, f := range files {
		name := filepath.Base(f)
		if applied[name] {
			fmt.Printf("  skip: %s\n", name)
			continue
		}
		if err := applyOne(ctx, conn, f); err != nil {
			return ran, err
		}
		fmt.Printf("  applied: %s\n", name)
		ran++
	}
	return ran, nil
}

func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migration files found in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

// appliedMigrations reads the migrations table. A missing table means a
// fresh database, so nothing has been applied yet.
func appliedMigrations(ctx context.Context, conn *pgx.Conn) (map[string]bool, error) {
	applied := make(map[string]bool)
	var exists bool
	if err := conn.QueryRow(ctx, "SELECT to_regclass('migrations') IS NOT NULL").Scan(&exists); err != nil {
		return nil, fmt.Errorf("check migrations table: %w", err)
	}
	if !exists {
		return applied, nil
	}
	rows, err := conn.Query(ctx, "SELECT migration FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	for _, n := range names {
		applied[n] = true
	}
	return applied, nil
}

func applyOne(ctx context.Context, conn *pgx.Conn, path string) error {
	name := filepath.Base(path)
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s: %w", name, err)
	}
	defer tx.Rollback(ctx) // no-op after Commit

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO migrations (migration, description) VALUES ($1, $2)",
		name, describe(name)); err != nil {
		return fmt.Errorf("record %s: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}

// describe turns "2026-10-01-002-create-kv-store.sql" into "create kv store".
func describe(filename string) string {
	name := strings.TrimSuffix(filename, ".sql")
	name = datePrefix.ReplaceAllString(name, "")
	return strings.ReplaceAll(name, "-", " ")
}
