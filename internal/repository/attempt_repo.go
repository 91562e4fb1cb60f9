package repository

import (
	"database/sql"
	"fmt"

	"quizdesk/internal/database"
	"quizdesk/internal/models"
)

// AttemptRepository handles quiz history persistence. Attempt rows are
// insert-only; their answer rows cascade on delete at the schema level.
type AttemptRepository struct {
	db *database.DB
}

// NewAttemptRepository creates a new attempt repository
func NewAttemptRepository(db *database.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// CreateAttempt persists an attempt summary row and returns its generated id
func (r *AttemptRepository) CreateAttempt(userID, categoryID int64, totalQuestions, correctCount, answeredCount int) (int64, error) {
	query := `
		INSERT INTO quiz_attempts (user_id, category_id, total_questions, correct_count, answered_count)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, userID, categoryID, totalQuestions, correctCount, answeredCount)
	if err != nil {
		return 0, fmt.Errorf("failed to create attempt: %w", err)
	}
	return id, nil
}

// AddAttemptAnswer persists a single per-question answer row for an attempt
func (r *AttemptRepository) AddAttemptAnswer(attemptID, questionID int64, selectedLetter *string, correctLetter string, isCorrect bool) error {
	query := `
		INSERT INTO quiz_attempt_answers (attempt_id, question_id, selected_letter, correct_letter, is_correct)
		VALUES (?, ?, ?, ?, ?)
	`
	var selected sql.NullString
	if selectedLetter != nil {
		selected = sql.NullString{String: *selectedLetter, Valid: true}
	}

	if _, err := r.db.Exec(query, attemptID, questionID, selected, correctLetter, isCorrect); err != nil {
		return fmt.Errorf("failed to add attempt answer: %w", err)
	}
	return nil
}

// GetAttemptAnswers retrieves all answer rows for an attempt in insertion order
func (r *AttemptRepository) GetAttemptAnswers(attemptID int64) ([]models.AttemptAnswer, error) {
	query := `
		SELECT id, attempt_id, question_id, selected_letter, correct_letter, is_correct
		FROM quiz_attempt_answers
		WHERE attempt_id = ?
		ORDER BY id ASC
	`
	rows, err := r.db.Query(query, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempt answers: %w", err)
	}
	defer rows.Close()

	var answers []models.AttemptAnswer
	for rows.Next() {
		var a models.AttemptAnswer
		var selected sql.NullString
		if err := rows.Scan(&a.ID, &a.AttemptID, &a.QuestionID, &selected, &a.CorrectLetter, &a.IsCorrect); err != nil {
			return nil, fmt.Errorf("failed to scan attempt answer: %w", err)
		}
		if selected.Valid {
			letter := selected.String
			a.SelectedLetter = &letter
		}
		answers = append(answers, a)
	}

	return answers, rows.Err()
}

// GetRecentAttempts returns a user's most recent attempts joined with their
// category names
func (r *AttemptRepository) GetRecentAttempts(userID int64, limit int) ([]models.AttemptSummary, error) {
	query := `
		SELECT a.id, a.created_at, c.name, a.correct_count, a.total_questions
		FROM quiz_attempts a
		JOIN categories c ON c.id = a.category_id
		WHERE a.user_id = ?
		ORDER BY a.created_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.AttemptSummary
	for rows.Next() {
		var a models.AttemptSummary
		if err := rows.Scan(&a.ID, &a.CreatedAt, &a.CategoryName, &a.CorrectCount, &a.TotalQuestions); err != nil {
			return nil, fmt.Errorf("failed to scan attempt summary: %w", err)
		}
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}

// GetAttemptStats aggregates a user's quiz history. Percentages are whole
// numbers; attempts with zero questions are excluded from the percent
// calculations.
func (r *AttemptRepository) GetAttemptStats(userID int64) (*models.AttemptStats, error) {
	stats := &models.AttemptStats{}

	if err := r.db.QueryRow(
		"SELECT COUNT(*) FROM quiz_attempts WHERE user_id = ?", userID,
	).Scan(&stats.TotalAttempts); err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}

	var best sql.NullFloat64
	if err := r.db.QueryRow(`
		SELECT MAX(ROUND(correct_count * 100.0 / total_questions))
		FROM quiz_attempts
		WHERE user_id = ? AND total_questions > 0
	`, userID).Scan(&best); err != nil {
		return nil, fmt.Errorf("failed to get best percent: %w", err)
	}
	if best.Valid {
		stats.BestPercent = int(best.Float64)
	}

	var last sql.NullFloat64
	err := r.db.QueryRow(`
		SELECT ROUND(correct_count * 100.0 / total_questions)
		FROM quiz_attempts
		WHERE user_id = ? AND total_questions > 0
		ORDER BY created_at DESC
		LIMIT 1
	`, userID).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last percent: %w", err)
	}
	if last.Valid {
		stats.LastPercent = int(last.Float64)
	}

	return stats, nil
}
