package service

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizdesk/internal/database"
)

func openBackupTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), name))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations("../../migrations"))
	return db
}

func TestBackupRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	source := openBackupTestDB(t, "source.db")

	userID, err := source.ExecReturningID(
		"INSERT INTO users (username, password_hash, is_admin) VALUES (?, ?, ?)",
		"alice", "pbkdf2_sha256$00$00", true)
	require.NoError(t, err)

	categoryID, err := source.ExecReturningID(
		"INSERT INTO categories (name, description) VALUES (?, ?)", "Science", "Basics")
	require.NoError(t, err)

	questionID, err := source.ExecReturningID(
		"INSERT INTO questions (category_id, question_text, correct_answer, option_a, option_b, option_c, option_d) VALUES (?, ?, ?, ?, ?, ?, ?)",
		categoryID, "What is H2O?", "A", "Water", "Salt", "Air", "Gold")
	require.NoError(t, err)

	attemptID, err := source.ExecReturningID(
		"INSERT INTO quiz_attempts (user_id, category_id, total_questions, correct_count, answered_count) VALUES (?, ?, ?, ?, ?)",
		userID, categoryID, 2, 1, 1)
	require.NoError(t, err)

	_, err = source.Exec(
		"INSERT INTO quiz_attempt_answers (attempt_id, question_id, selected_letter, correct_letter, is_correct) VALUES (?, ?, ?, ?, ?)",
		attemptID, questionID, "A", "A", true)
	require.NoError(t, err)
	_, err = source.Exec(
		"INSERT INTO quiz_attempt_answers (attempt_id, question_id, selected_letter, correct_letter, is_correct) VALUES (?, ?, ?, ?, ?)",
		attemptID, questionID, nil, "B", false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewBackupService(source).ExportToWriter(&buf))

	target := openBackupTestDB(t, "target.db")
	require.NoError(t, NewBackupService(target).ImportFromReader(&buf))

	var username string
	var isAdmin bool
	require.NoError(t, target.QueryRow(
		"SELECT username, is_admin FROM users WHERE id = ?", userID).Scan(&username, &isAdmin))
	assert.Equal(t, "alice", username)
	assert.True(t, isAdmin)

	var answerCount int
	require.NoError(t, target.QueryRow(
		"SELECT COUNT(*) FROM quiz_attempt_answers WHERE attempt_id = ?", attemptID).Scan(&answerCount))
	assert.Equal(t, 2, answerCount)

	var skipped int
	require.NoError(t, target.QueryRow(
		"SELECT COUNT(*) FROM quiz_attempt_answers WHERE attempt_id = ? AND selected_letter IS NULL", attemptID).Scan(&skipped))
	assert.Equal(t, 1, skipped)
}

func TestImportRollsBackOnFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openBackupTestDB(t, "import.db")

	// Duplicate user id violates the primary key on the second insert. The
	// surviving state must not contain the first user either.
	backup := BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Users: []UserBackup{
			{ID: 1, Username: "alice", PasswordHash: "pbkdf2_sha256$00$00", CreatedAt: time.Now()},
			{ID: 1, Username: "bob", PasswordHash: "pbkdf2_sha256$00$00", CreatedAt: time.Now()},
		},
	}

	payload, err := json.Marshal(&backup)
	require.NoError(t, err)

	err = NewBackupService(db).ImportFromReader(bytes.NewReader(payload))
	require.Error(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 0, count, "partial import must roll back")
}
