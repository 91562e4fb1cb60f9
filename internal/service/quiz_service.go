package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"quizdesk/internal/models"
	"quizdesk/internal/repository"
)

var (
	// ErrNotRecorded signals that an attempt was skipped rather than
	// persisted, e.g. for an anonymous session. The score is still valid.
	ErrNotRecorded = errors.New("attempt not recorded")

	// ErrRecordingFailed signals that the attempt row itself could not be
	// written. The score is still valid and must still be shown.
	ErrRecordingFailed = errors.New("failed to record attempt")
)

// AttemptStore is the persistence collaborator for quiz history. Satisfied by
// *repository.AttemptRepository; tests substitute an in-memory fake.
type AttemptStore interface {
	CreateAttempt(userID, categoryID int64, totalQuestions, correctCount, answeredCount int) (int64, error)
	AddAttemptAnswer(attemptID, questionID int64, selectedLetter *string, correctLetter string, isCorrect bool) error
	GetRecentAttempts(userID int64, limit int) ([]models.AttemptSummary, error)
	GetAttemptStats(userID int64) (*models.AttemptStats, error)
	GetAttemptAnswers(attemptID int64) ([]models.AttemptAnswer, error)
}

// QuizService scores finished quiz sessions and persists the results
type QuizService struct {
	questionRepo *repository.QuestionRepository
	attempts     AttemptStore
}

// NewQuizService creates a new quiz service
func NewQuizService(questionRepo *repository.QuestionRepository, attempts AttemptStore) *QuizService {
	return &QuizService{
		questionRepo: questionRepo,
		attempts:     attempts,
	}
}

// StartQuiz fetches a randomized question set for a quiz run
func (s *QuizService) StartQuiz(categoryID int64, limit int) ([]models.Question, error) {
	questions, err := s.questionRepo.GetQuizQuestions(categoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz questions: %w", err)
	}
	return questions, nil
}

// Score reconciles the presented questions with the user's selections.
// Selections are compared case-insensitively with surrounding whitespace
// ignored; a selection outside A-D is simply wrong, an absent selection is
// unanswered. Selections for question ids not in the set are ignored. The
// breakdown preserves question order. Deterministic: identical inputs yield
// identical output.
func (s *QuizService) Score(questions []models.Question, selections map[int64]string) models.ScoredAttempt {
	scored := models.ScoredAttempt{
		TotalQuestions: len(questions),
		Breakdown:      make([]models.AnswerBreakdown, 0, len(questions)),
	}

	for _, q := range questions {
		entry := models.AnswerBreakdown{
			QuestionID:    q.ID,
			CorrectLetter: q.CorrectLetter,
		}

		if raw, ok := selections[q.ID]; ok {
			scored.AnsweredCount++

			selected := strings.ToUpper(strings.TrimSpace(raw))
			entry.SelectedLetter = &selected
			entry.IsCorrect = selected == strings.ToUpper(strings.TrimSpace(q.CorrectLetter))

			if entry.IsCorrect {
				scored.CorrectCount++
			}
		}

		scored.Breakdown = append(scored.Breakdown, entry)
	}

	return scored
}

// RecordAttempt persists a scored attempt: one attempt row, then one answer
// row per breakdown entry referencing the generated attempt id.
//
// Attempts for non-positive user or category ids, or with no questions, are
// skipped with ErrNotRecorded and the store is never touched. A failed
// attempt insert returns ErrRecordingFailed. Answer rows that fail to insert
// are logged and skipped; the attempt row stays and the returned id is
// unchanged.
func (s *QuizService) RecordAttempt(userID, categoryID int64, scored models.ScoredAttempt) (int64, error) {
	if userID <= 0 || categoryID <= 0 || scored.TotalQuestions <= 0 {
		return 0, ErrNotRecorded
	}

	attemptID, err := s.attempts.CreateAttempt(userID, categoryID,
		scored.TotalQuestions, scored.CorrectCount, scored.AnsweredCount)
	if err != nil {
		return 0, fmt.Errorf("%w (user=%d category=%d): %v", ErrRecordingFailed, userID, categoryID, err)
	}

	failed := 0
	for _, entry := range scored.Breakdown {
		err := s.attempts.AddAttemptAnswer(attemptID, entry.QuestionID,
			entry.SelectedLetter, entry.CorrectLetter, entry.IsCorrect)
		if err != nil {
			failed++
			log.Printf("Failed to record answer: attempt=%d question=%d: %v", attemptID, entry.QuestionID, err)
		}
	}

	if failed > 0 {
		log.Printf("Attempt %d recorded with %d of %d answer rows missing", attemptID, failed, len(scored.Breakdown))
	}

	return attemptID, nil
}

// RecentAttempts returns a user's most recent attempts for the dashboard
func (s *QuizService) RecentAttempts(userID int64, limit int) ([]models.AttemptSummary, error) {
	return s.attempts.GetRecentAttempts(userID, limit)
}

// Stats aggregates a user's quiz history for the dashboard
func (s *QuizService) Stats(userID int64) (*models.AttemptStats, error) {
	return s.attempts.GetAttemptStats(userID)
}

// AttemptAnswers retrieves the persisted per-question rows of an attempt
func (s *QuizService) AttemptAnswers(attemptID int64) ([]models.AttemptAnswer, error) {
	return s.attempts.GetAttemptAnswers(attemptID)
}
