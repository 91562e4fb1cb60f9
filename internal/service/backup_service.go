package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"quizdesk/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string           `json:"version"`
	ExportedAt   time.Time        `json:"exported_at"`
	DatabaseType string           `json:"database_type"`
	Users        []UserBackup     `json:"users"`
	Categories   []CategoryBackup `json:"categories"`
	Questions    []QuestionBackup `json:"questions"`
	Attempts     []AttemptBackup  `json:"attempts"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// CategoryBackup represents a category record for backup
type CategoryBackup struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// QuestionBackup represents a question record for backup
type QuestionBackup struct {
	ID            int64  `json:"id"`
	CategoryID    int64  `json:"category_id"`
	Text          string `json:"question_text"`
	CorrectLetter string `json:"correct_answer"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
}

// AttemptBackup represents a quiz attempt with its per-question answers
type AttemptBackup struct {
	ID             int64                 `json:"id"`
	UserID         int64                 `json:"user_id"`
	CategoryID     int64                 `json:"category_id"`
	TotalQuestions int                   `json:"total_questions"`
	CorrectCount   int                   `json:"correct_count"`
	AnsweredCount  int                   `json:"answered_count"`
	CreatedAt      time.Time             `json:"created_at"`
	Answers        []AttemptAnswerBackup `json:"answers"`
}

// AttemptAnswerBackup represents one answer row of an attempt
type AttemptAnswerBackup struct {
	QuestionID     int64   `json:"question_id"`
	SelectedLetter *string `json:"selected_letter"`
	CorrectLetter  string  `json:"correct_letter"`
	IsCorrect      bool    `json:"is_correct"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database as indented JSON
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportCategories(backup); err != nil {
		return fmt.Errorf("failed to export categories: %w", err)
	}
	if err := s.exportQuestions(backup); err != nil {
		return fmt.Errorf("failed to export questions: %w", err)
	}
	if err := s.exportAttempts(backup); err != nil {
		return fmt.Errorf("failed to export attempts: %w", err)
	}

	log.Printf("Exported: %d users, %d categories, %d questions, %d attempts",
		len(backup.Users), len(backup.Categories), len(backup.Questions), len(backup.Attempts))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader. The whole
// import runs in one transaction: a backup loads completely or not at all.
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}

	if err := importAll(tx, &backup); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

// importAll loads a decoded backup in order of dependencies
func importAll(tx database.DBTX, backup *BackupData) error {
	if err := importUsers(tx, backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := importCategories(tx, backup.Categories); err != nil {
		return fmt.Errorf("failed to import categories: %w", err)
	}
	if err := importQuestions(tx, backup.Questions); err != nil {
		return fmt.Errorf("failed to import questions: %w", err)
	}
	if err := importAttempts(tx, backup.Attempts); err != nil {
		return fmt.Errorf("failed to import attempts: %w", err)
	}
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := "SELECT id, username, password_hash, is_admin, created_at FROM users ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportCategories(backup *BackupData) error {
	query := "SELECT id, name, description FROM categories ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c CategoryBackup
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return err
		}
		backup.Categories = append(backup.Categories, c)
	}
	return rows.Err()
}

func (s *BackupService) exportQuestions(backup *BackupData) error {
	query := "SELECT id, category_id, question_text, correct_answer, option_a, option_b, option_c, option_d FROM questions ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var q QuestionBackup
		if err := rows.Scan(&q.ID, &q.CategoryID, &q.Text, &q.CorrectLetter, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD); err != nil {
			return err
		}
		backup.Questions = append(backup.Questions, q)
	}
	return rows.Err()
}

func (s *BackupService) exportAttempts(backup *BackupData) error {
	query := "SELECT id, user_id, category_id, total_questions, correct_count, answered_count, created_at FROM quiz_attempts ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a AttemptBackup
		if err := rows.Scan(&a.ID, &a.UserID, &a.CategoryID, &a.TotalQuestions, &a.CorrectCount, &a.AnsweredCount, &a.CreatedAt); err != nil {
			return err
		}

		answerQuery := "SELECT question_id, selected_letter, correct_letter, is_correct FROM quiz_attempt_answers WHERE attempt_id = ? ORDER BY id"
		answerRows, err := s.db.Query(answerQuery, a.ID)
		if err != nil {
			return err
		}

		for answerRows.Next() {
			var ans AttemptAnswerBackup
			var selected sql.NullString
			if err := answerRows.Scan(&ans.QuestionID, &selected, &ans.CorrectLetter, &ans.IsCorrect); err != nil {
				answerRows.Close()
				return err
			}
			if selected.Valid {
				ans.SelectedLetter = &selected.String
			}
			a.Answers = append(a.Answers, ans)
		}
		if err := answerRows.Err(); err != nil {
			answerRows.Close()
			return err
		}
		answerRows.Close()

		backup.Attempts = append(backup.Attempts, a)
	}
	return rows.Err()
}

func importUsers(tx database.DBTX, users []UserBackup) error {
	log.Printf("Importing %d users...", len(users))
	for _, u := range users {
		query := "INSERT INTO users (id, username, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?, ?)"
		_, err := tx.Exec(query, u.ID, u.Username, u.PasswordHash, u.IsAdmin, u.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
	}
	return nil
}

func importCategories(tx database.DBTX, categories []CategoryBackup) error {
	log.Printf("Importing %d categories...", len(categories))
	for _, c := range categories {
		query := "INSERT INTO categories (id, name, description) VALUES (?, ?, ?)"
		_, err := tx.Exec(query, c.ID, c.Name, c.Description)
		if err != nil {
			return fmt.Errorf("failed to import category %d: %w", c.ID, err)
		}
	}
	return nil
}

func importQuestions(tx database.DBTX, questions []QuestionBackup) error {
	log.Printf("Importing %d questions...", len(questions))
	for _, q := range questions {
		query := "INSERT INTO questions (id, category_id, question_text, correct_answer, option_a, option_b, option_c, option_d) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := tx.Exec(query, q.ID, q.CategoryID, q.Text, q.CorrectLetter, q.OptionA, q.OptionB, q.OptionC, q.OptionD)
		if err != nil {
			return fmt.Errorf("failed to import question %d: %w", q.ID, err)
		}
	}
	return nil
}

func importAttempts(tx database.DBTX, attempts []AttemptBackup) error {
	log.Printf("Importing %d attempts...", len(attempts))
	for _, a := range attempts {
		query := "INSERT INTO quiz_attempts (id, user_id, category_id, total_questions, correct_count, answered_count, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
		_, err := tx.Exec(query, a.ID, a.UserID, a.CategoryID, a.TotalQuestions, a.CorrectCount, a.AnsweredCount, a.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import attempt %d: %w", a.ID, err)
		}

		for _, ans := range a.Answers {
			var selected interface{}
			if ans.SelectedLetter != nil {
				selected = *ans.SelectedLetter
			}
			answerQuery := "INSERT INTO quiz_attempt_answers (attempt_id, question_id, selected_letter, correct_letter, is_correct) VALUES (?, ?, ?, ?, ?)"
			_, err := tx.Exec(answerQuery, a.ID, ans.QuestionID, selected, ans.CorrectLetter, ans.IsCorrect)
			if err != nil {
				return fmt.Errorf("failed to import answer for attempt %d, question %d: %w", a.ID, ans.QuestionID, err)
			}
		}
	}
	return nil
}
