package repository

import (
	"database/sql"
	"fmt"

	"quizdesk/internal/database"
	"quizdesk/internal/models"
)

// QuestionRepository handles database operations for the question bank
type QuestionRepository struct {
	db *database.DB
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *database.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

const questionColumns = `id, category_id, question_text, correct_answer,
	       option_a, option_b, option_c, option_d`

func scanQuestion(row interface {
	Scan(dest ...interface{}) error
}) (*models.Question, error) {
	q := &models.Question{}
	err := row.Scan(
		&q.ID,
		&q.CategoryID,
		&q.Text,
		&q.CorrectLetter,
		&q.OptionA,
		&q.OptionB,
		&q.OptionC,
		&q.OptionD,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetQuizQuestions returns a randomized subset of questions for a quiz run
func (r *QuestionRepository) GetQuizQuestions(categoryID int64, limit int) ([]models.Question, error) {
	if limit < 1 {
		limit = 1
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM questions
		WHERE category_id = ?
		ORDER BY %s
		LIMIT ?
	`, questionColumns, r.db.Dialect.RandomFunc())

	rows, err := r.db.Query(query, categoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz questions: %w", err)
	}
	defer rows.Close()

	return collectQuestions(rows)
}

func collectQuestions(rows *sql.Rows) ([]models.Question, error) {
	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// GetQuestionByID retrieves full question data by id
func (r *QuestionRepository) GetQuestionByID(id int64) (*models.Question, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM questions
		WHERE id = ?
	`, questionColumns)

	q, err := scanQuestion(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// ListQuestions returns lightweight question rows for the admin table,
// newest first
func (r *QuestionRepository) ListQuestions(limit int) ([]models.QuestionSummary, error) {
	query := `
		SELECT q.id, c.name, q.question_text, q.correct_answer
		FROM questions q
		JOIN categories c ON c.id = q.category_id
		ORDER BY q.id DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var summaries []models.QuestionSummary
	for rows.Next() {
		var s models.QuestionSummary
		if err := rows.Scan(&s.ID, &s.CategoryName, &s.Text, &s.CorrectLetter); err != nil {
			return nil, fmt.Errorf("failed to scan question summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// CreateQuestion inserts a question and returns its generated id
func (r *QuestionRepository) CreateQuestion(q *models.Question) (int64, error) {
	query := `
		INSERT INTO questions (category_id, question_text, correct_answer, option_a, option_b, option_c, option_d)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		q.CategoryID, q.Text, q.CorrectLetter, q.OptionA, q.OptionB, q.OptionC, q.OptionD)
	if err != nil {
		return 0, fmt.Errorf("failed to create question: %w", err)
	}
	return id, nil
}

// UpdateQuestion updates an existing question
func (r *QuestionRepository) UpdateQuestion(q *models.Question) error {
	query := `
		UPDATE questions
		SET category_id = ?,
		    question_text = ?,
		    correct_answer = ?,
		    option_a = ?,
		    option_b = ?,
		    option_c = ?,
		    option_d = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		q.CategoryID, q.Text, q.CorrectLetter, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.ID)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return nil
}

// DeleteQuestion deletes a question by id
func (r *QuestionRepository) DeleteQuestion(id int64) error {
	query := "DELETE FROM questions WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}
