package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizdesk/internal/models"
)

type fakeAttemptStore struct {
	nextID         int64
	attempts       []fakeAttempt
	answers        []fakeAnswer
	createErr      error
	answerErrAfter int // fail AddAttemptAnswer calls beyond this count; 0 disables
}

type fakeAttempt struct {
	id             int64
	userID         int64
	categoryID     int64
	totalQuestions int
	correctCount   int
	answeredCount  int
}

type fakeAnswer struct {
	attemptID      int64
	questionID     int64
	selectedLetter *string
	correctLetter  string
	isCorrect      bool
}

func (f *fakeAttemptStore) CreateAttempt(userID, categoryID int64, totalQuestions, correctCount, answeredCount int) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	f.attempts = append(f.attempts, fakeAttempt{
		id:             f.nextID,
		userID:         userID,
		categoryID:     categoryID,
		totalQuestions: totalQuestions,
		correctCount:   correctCount,
		answeredCount:  answeredCount,
	})
	return f.nextID, nil
}

func (f *fakeAttemptStore) AddAttemptAnswer(attemptID, questionID int64, selectedLetter *string, correctLetter string, isCorrect bool) error {
	if f.answerErrAfter > 0 && len(f.answers) >= f.answerErrAfter {
		return errors.New("disk full")
	}
	f.answers = append(f.answers, fakeAnswer{
		attemptID:      attemptID,
		questionID:     questionID,
		selectedLetter: selectedLetter,
		correctLetter:  correctLetter,
		isCorrect:      isCorrect,
	})
	return nil
}

func (f *fakeAttemptStore) GetRecentAttempts(userID int64, limit int) ([]models.AttemptSummary, error) {
	return nil, nil
}

func (f *fakeAttemptStore) GetAttemptStats(userID int64) (*models.AttemptStats, error) {
	return &models.AttemptStats{}, nil
}

func (f *fakeAttemptStore) GetAttemptAnswers(attemptID int64) ([]models.AttemptAnswer, error) {
	var answers []models.AttemptAnswer
	for i, a := range f.answers {
		if a.attemptID != attemptID {
			continue
		}
		answers = append(answers, models.AttemptAnswer{
			ID:             int64(i + 1),
			AttemptID:      a.attemptID,
			QuestionID:     a.questionID,
			SelectedLetter: a.selectedLetter,
			CorrectLetter:  a.correctLetter,
			IsCorrect:      a.isCorrect,
		})
	}
	return answers, nil
}

func fourQuestions() []models.Question {
	return []models.Question{
		{ID: 1, CategoryID: 1, Text: "q1", CorrectLetter: "A"},
		{ID: 2, CategoryID: 1, Text: "q2", CorrectLetter: "B"},
		{ID: 3, CategoryID: 1, Text: "q3", CorrectLetter: "C"},
		{ID: 4, CategoryID: 1, Text: "q4", CorrectLetter: "D"},
	}
}

func TestScore(t *testing.T) {
	svc := NewQuizService(nil, &fakeAttemptStore{})

	t.Run("mixed selections", func(t *testing.T) {
		// Exact match, case-insensitive match, wrong letter, and unanswered.
		scored := svc.Score(fourQuestions(), map[int64]string{
			1: "A",
			2: "b",
			3: "X",
		})

		assert.Equal(t, 4, scored.TotalQuestions)
		assert.Equal(t, 3, scored.AnsweredCount)
		assert.Equal(t, 2, scored.CorrectCount)
		assert.Equal(t, 50, scored.Percentage())

		require.Len(t, scored.Breakdown, 4)
		assert.True(t, scored.Breakdown[0].IsCorrect)
		assert.True(t, scored.Breakdown[1].IsCorrect)
		assert.False(t, scored.Breakdown[2].IsCorrect)
		assert.False(t, scored.Breakdown[3].IsCorrect)
		assert.Nil(t, scored.Breakdown[3].SelectedLetter)

		require.NotNil(t, scored.Breakdown[1].SelectedLetter)
		assert.Equal(t, "B", *scored.Breakdown[1].SelectedLetter)
	})

	t.Run("whitespace trimmed", func(t *testing.T) {
		scored := svc.Score(fourQuestions(), map[int64]string{1: "  a "})

		assert.Equal(t, 1, scored.CorrectCount)
		assert.Equal(t, 1, scored.AnsweredCount)
	})

	t.Run("unknown question ids ignored", func(t *testing.T) {
		scored := svc.Score(fourQuestions(), map[int64]string{1: "A", 99: "B"})

		assert.Equal(t, 1, scored.AnsweredCount)
		assert.Equal(t, 1, scored.CorrectCount)
		assert.Len(t, scored.Breakdown, 4)
	})

	t.Run("empty question set", func(t *testing.T) {
		scored := svc.Score(nil, map[int64]string{1: "A"})

		assert.Equal(t, 0, scored.TotalQuestions)
		assert.Equal(t, 0, scored.AnsweredCount)
		assert.Equal(t, 0, scored.CorrectCount)
		assert.Equal(t, 0, scored.Percentage())
		assert.Empty(t, scored.Breakdown)
	})

	t.Run("breakdown preserves question order", func(t *testing.T) {
		scored := svc.Score(fourQuestions(), map[int64]string{4: "D", 1: "A"})

		ids := make([]int64, 0, len(scored.Breakdown))
		for _, entry := range scored.Breakdown {
			ids = append(ids, entry.QuestionID)
		}
		assert.Equal(t, []int64{1, 2, 3, 4}, ids)
	})

	t.Run("deterministic", func(t *testing.T) {
		selections := map[int64]string{1: "A", 2: "b", 3: "X"}
		first := svc.Score(fourQuestions(), selections)
		second := svc.Score(fourQuestions(), selections)

		assert.Equal(t, first, second)
	})
}

func TestRecordAttempt(t *testing.T) {
	scoredFixture := func(svc *QuizService) models.ScoredAttempt {
		return svc.Score(fourQuestions(), map[int64]string{1: "A", 2: "b", 3: "X"})
	}

	t.Run("persists attempt and answer rows", func(t *testing.T) {
		store := &fakeAttemptStore{}
		svc := NewQuizService(nil, store)

		id, err := svc.RecordAttempt(7, 3, scoredFixture(svc))
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)

		require.Len(t, store.attempts, 1)
		attempt := store.attempts[0]
		assert.Equal(t, int64(7), attempt.userID)
		assert.Equal(t, int64(3), attempt.categoryID)
		assert.Equal(t, 4, attempt.totalQuestions)
		assert.Equal(t, 2, attempt.correctCount)
		assert.Equal(t, 3, attempt.answeredCount)

		require.Len(t, store.answers, 4)
		for _, answer := range store.answers {
			assert.Equal(t, id, answer.attemptID)
		}
		assert.Nil(t, store.answers[3].selectedLetter)
		require.NotNil(t, store.answers[1].selectedLetter)
		assert.Equal(t, "B", *store.answers[1].selectedLetter)
	})

	t.Run("skips anonymous user", func(t *testing.T) {
		store := &fakeAttemptStore{}
		svc := NewQuizService(nil, store)

		id, err := svc.RecordAttempt(0, 3, scoredFixture(svc))
		assert.ErrorIs(t, err, ErrNotRecorded)
		assert.Zero(t, id)
		assert.Empty(t, store.attempts)
		assert.Empty(t, store.answers)
	})

	t.Run("skips missing category", func(t *testing.T) {
		store := &fakeAttemptStore{}
		svc := NewQuizService(nil, store)

		id, err := svc.RecordAttempt(7, 0, scoredFixture(svc))
		assert.ErrorIs(t, err, ErrNotRecorded)
		assert.Zero(t, id)
		assert.Empty(t, store.attempts)
	})

	t.Run("skips empty attempt", func(t *testing.T) {
		store := &fakeAttemptStore{}
		svc := NewQuizService(nil, store)

		id, err := svc.RecordAttempt(7, 3, models.ScoredAttempt{})
		assert.ErrorIs(t, err, ErrNotRecorded)
		assert.Zero(t, id)
		assert.Empty(t, store.attempts)
	})

	t.Run("attempt insert failure", func(t *testing.T) {
		store := &fakeAttemptStore{createErr: errors.New("connection reset")}
		svc := NewQuizService(nil, store)

		id, err := svc.RecordAttempt(7, 3, scoredFixture(svc))
		assert.ErrorIs(t, err, ErrRecordingFailed)
		assert.Zero(t, id)
		assert.Empty(t, store.answers)
	})

	t.Run("recorded answers replay in breakdown order", func(t *testing.T) {
		store := &fakeAttemptStore{}
		svc := NewQuizService(nil, store)

		scored := scoredFixture(svc)
		id, err := svc.RecordAttempt(7, 3, scored)
		require.NoError(t, err)

		answers, err := svc.AttemptAnswers(id)
		require.NoError(t, err)
		require.Len(t, answers, len(scored.Breakdown))

		for i, answer := range answers {
			assert.Equal(t, id, answer.AttemptID)
			assert.Equal(t, scored.Breakdown[i].QuestionID, answer.QuestionID)
			assert.Equal(t, scored.Breakdown[i].SelectedLetter, answer.SelectedLetter)
			assert.Equal(t, scored.Breakdown[i].CorrectLetter, answer.CorrectLetter)
			assert.Equal(t, scored.Breakdown[i].IsCorrect, answer.IsCorrect)
		}
	})

	t.Run("answer insert failures keep the attempt", func(t *testing.T) {
		store := &fakeAttemptStore{answerErrAfter: 2}
		svc := NewQuizService(nil, store)

		id, err := svc.RecordAttempt(7, 3, scoredFixture(svc))
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)

		assert.Len(t, store.attempts, 1)
		assert.Len(t, store.answers, 2)
	})
}
