package database

import (
	"context"
	"path/filepath"
	"testing"
)

const testMigrationsPath = "../../migrations"

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "coach.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(testMigrationsPath); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	tables := []string{"users", "classrooms", "learners", "memberships", "content_nodes", "content_summary_logs"}
	for _, table := range tables {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// running again is a no-op
	if err := db.RunMigrations(testMigrationsPath); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
}

func TestRunMigrationsMissingDir(t *testing.T) {
	db, err := Initialize(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(t.TempDir()); err == nil {
		t.Fatal("expected error for directory without migrations")
	}
}

// TestWithTx tests commit and rollback through the transaction helper
func TestWithTx(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO classrooms (id, name, name_key) VALUES (?, ?, ?)", "c1", "Math", "math")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	err = db.WithTx(ctx, func(tx *Tx) error {
		// violates the name_key unique index, so nothing in this tx persists
		if _, err := tx.ExecContext(ctx, "INSERT INTO classrooms (id, name, name_key) VALUES (?, ?, ?)", "c2", "Science", "science"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "INSERT INTO classrooms (id, name, name_key) VALUES (?, ?, ?)", "c3", "MATH", "math")
		return err
	})
	if err == nil {
		t.Fatal("expected unique violation")
	}
	if !db.Dialect.IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM classrooms").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 classroom after rollback, got %d", count)
	}
}

func TestExecReturningID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	first, err := db.ExecReturningID(ctx, "INSERT INTO users (username, password_hash) VALUES (?, ?)", "coach1", "x")
	if err != nil {
		t.Fatalf("ExecReturningID failed: %v", err)
	}
	second, err := db.ExecReturningID(ctx, "INSERT INTO users (username, password_hash) VALUES (?, ?)", "coach2", "x")
	if err != nil {
		t.Fatalf("ExecReturningID failed: %v", err)
	}
	if second <= first {
		t.Errorf("expected increasing ids, got %d then %d", first, second)
	}
}
