package database

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "quizdesk_test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	// Skip if not in integration test mode
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	// Test that tables were created by migrations
	tables := []string{"users", "sessions", "categories", "questions", "quiz_attempts", "quiz_attempt_answers"}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		err := db.QueryRow(query, table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

// TestExecReturningID tests id generation through the dialect layer
func TestExecReturningID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	first, err := db.ExecReturningID(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		"alice", "pbkdf2_sha256$00$00")
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
	if first <= 0 {
		t.Errorf("Expected positive id, got %d", first)
	}

	second, err := db.ExecReturningID(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		"bob", "pbkdf2_sha256$00$00")
	if err != nil {
		t.Fatalf("Failed to insert second user: %v", err)
	}
	if second <= first {
		t.Errorf("Expected id greater than %d, got %d", first, second)
	}
}

// TestAttemptHistory tests the quiz history tables end to end
func TestAttemptHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	userID, err := db.ExecReturningID(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		"quizzer", "pbkdf2_sha256$00$00")
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}

	categoryID, err := db.ExecReturningID(
		"INSERT INTO categories (name) VALUES (?)", "Science")
	if err != nil {
		t.Fatalf("Failed to insert category: %v", err)
	}

	attemptID, err := db.ExecReturningID(
		"INSERT INTO quiz_attempts (user_id, category_id, total_questions, correct_count, answered_count) VALUES (?, ?, ?, ?, ?)",
		userID, categoryID, 2, 1, 2)
	if err != nil {
		t.Fatalf("Failed to insert attempt: %v", err)
	}

	_, err = db.Exec(
		"INSERT INTO quiz_attempt_answers (attempt_id, question_id, selected_letter, correct_letter, is_correct) VALUES (?, ?, ?, ?, ?)",
		attemptID, 1, "A", "A", true)
	if err != nil {
		t.Fatalf("Failed to insert answer: %v", err)
	}
	_, err = db.Exec(
		"INSERT INTO quiz_attempt_answers (attempt_id, question_id, selected_letter, correct_letter, is_correct) VALUES (?, ?, ?, ?, ?)",
		attemptID, 2, "B", "C", false)
	if err != nil {
		t.Fatalf("Failed to insert answer: %v", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM quiz_attempt_answers WHERE attempt_id = ?", attemptID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count answers: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 answer rows, got %d", count)
	}

	// Deleting an attempt cascades to its answers
	if _, err := db.Exec("DELETE FROM quiz_attempts WHERE id = ?", attemptID); err != nil {
		t.Fatalf("Failed to delete attempt: %v", err)
	}
	err = db.QueryRow("SELECT COUNT(*) FROM quiz_attempt_answers WHERE attempt_id = ?", attemptID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count answers after delete: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected answers to cascade on delete, got %d rows", count)
	}
}
