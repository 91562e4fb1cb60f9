package models

import (
	"math"
	"time"
)

// Attempt is the record of one submitted quiz session. Created exactly once
// per submission and never mutated afterward.
type Attempt struct {
	ID             int64
	UserID         int64
	CategoryID     int64
	TotalQuestions int
	CorrectCount   int
	AnsweredCount  int
	CreatedAt      time.Time
}

// AttemptAnswer is one per-question row belonging to an attempt.
// SelectedLetter is nil when the question was skipped.
type AttemptAnswer struct {
	ID             int64
	AttemptID      int64
	QuestionID     int64
	SelectedLetter *string
	CorrectLetter  string
	IsCorrect      bool
}

// AnswerBreakdown is the per-question result detail within a scored attempt,
// in the same order the questions were presented.
type AnswerBreakdown struct {
	QuestionID     int64
	SelectedLetter *string
	CorrectLetter  string
	IsCorrect      bool
}

// ScoredAttempt is the outcome of scoring a finished quiz session
type ScoredAttempt struct {
	TotalQuestions int
	AnsweredCount  int
	CorrectCount   int
	Breakdown      []AnswerBreakdown
}

// Percentage returns the score as a whole percent, rounding halves away from
// zero. An empty attempt scores 0, not NaN.
func (s *ScoredAttempt) Percentage() int {
	if s.TotalQuestions == 0 {
		return 0
	}
	return int(math.Round(float64(s.CorrectCount) / float64(s.TotalQuestions) * 100))
}

// AttemptSummary is a recent-history row joined with its category name
type AttemptSummary struct {
	ID             int64
	CreatedAt      time.Time
	CategoryName   string
	CorrectCount   int
	TotalQuestions int
}

// AttemptStats aggregates a user's quiz history for the dashboard
type AttemptStats struct {
	TotalAttempts int
	BestPercent   int
	LastPercent   int
}
