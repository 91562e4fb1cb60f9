package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"quizdesk/internal/models"
	"quizdesk/internal/repository"
	"quizdesk/internal/validation"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrCategoryInUse    = errors.New("category still has questions")
)

// QuestionService manages categories and questions for the admin screens
type QuestionService struct {
	categoryRepo *repository.CategoryRepository
	questionRepo *repository.QuestionRepository
}

// NewQuestionService creates a new question service
func NewQuestionService(categoryRepo *repository.CategoryRepository, questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{
		categoryRepo: categoryRepo,
		questionRepo: questionRepo,
	}
}

// ListCategories returns all categories ordered by name
func (s *QuestionService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.ListCategories()
}

// GetCategory retrieves a category by id
func (s *QuestionService) GetCategory(categoryID int64) (*models.Category, error) {
	category, err := s.categoryRepo.GetCategoryByID(categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// CreateCategory creates a new quiz category. Creating a category with an
// existing name returns the existing one.
func (s *QuestionService) CreateCategory(name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation.ValidationError{Field: "name", Message: "category name is required"}
	}

	existing, err := s.categoryRepo.GetCategoryByName(name)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	return s.categoryRepo.CreateCategory(name, description)
}

// DeleteCategory removes an empty category. Categories that still have
// questions are protected by ErrCategoryInUse.
func (s *QuestionService) DeleteCategory(categoryID int64) error {
	count, err := s.categoryRepo.CountQuestions(categoryID)
	if err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.categoryRepo.DeleteCategory(categoryID)
}

// CountQuestions returns the number of questions in a category
func (s *QuestionService) CountQuestions(categoryID int64) (int, error) {
	return s.categoryRepo.CountQuestions(categoryID)
}

// ListQuestions returns questions with their category names, newest first
func (s *QuestionService) ListQuestions(limit int) ([]models.QuestionSummary, error) {
	return s.questionRepo.ListQuestions(limit)
}

// GetQuestion retrieves a question by id
func (s *QuestionService) GetQuestion(questionID int64) (*models.Question, error) {
	question, err := s.questionRepo.GetQuestionByID(questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	return question, nil
}

// CreateQuestion validates and stores a new question, returning its id
func (s *QuestionService) CreateQuestion(q *models.Question) (int64, error) {
	if err := s.validateQuestion(q); err != nil {
		return 0, err
	}

	category, err := s.categoryRepo.GetCategoryByID(q.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to check category: %w", err)
	}
	if category == nil {
		return 0, ErrCategoryNotFound
	}

	return s.questionRepo.CreateQuestion(q)
}

// UpdateQuestion validates and saves changes to an existing question
func (s *QuestionService) UpdateQuestion(q *models.Question) error {
	if err := s.validateQuestion(q); err != nil {
		return err
	}

	existing, err := s.questionRepo.GetQuestionByID(q.ID)
	if err != nil {
		return fmt.Errorf("failed to get question: %w", err)
	}
	if existing == nil {
		return ErrQuestionNotFound
	}

	return s.questionRepo.UpdateQuestion(q)
}

// DeleteQuestion removes a question
func (s *QuestionService) DeleteQuestion(questionID int64) error {
	return s.questionRepo.DeleteQuestion(questionID)
}

func (s *QuestionService) validateQuestion(q *models.Question) error {
	if err := validation.ValidateQuestionText(q.Text); err != nil {
		return err
	}
	if err := validation.ValidateOptions(q.OptionA, q.OptionB, q.OptionC, q.OptionD); err != nil {
		return err
	}

	if err := validation.ValidateCorrectLetter(q.CorrectLetter); err != nil {
		return err
	}
	q.CorrectLetter = strings.ToUpper(strings.TrimSpace(q.CorrectLetter))
	q.Text = strings.TrimSpace(q.Text)

	return nil
}

// SeedDefaults creates the default categories and starter questions if the
// question bank is empty
func (s *QuestionService) SeedDefaults() error {
	for _, seed := range defaultSeeds {
		if err := s.seedCategory(seed); err != nil {
			return err
		}
	}
	return nil
}

type categorySeed struct {
	name        string
	description string
	questions   []models.Question
}

func (s *QuestionService) seedCategory(seed categorySeed) error {
	existing, err := s.categoryRepo.GetCategoryByName(seed.name)
	if err != nil {
		return fmt.Errorf("failed to check if %s category exists: %w", seed.name, err)
	}
	if existing != nil {
		log.Printf("Default category '%s' already exists, skipping seed", seed.name)
		return nil
	}

	log.Printf("Creating default category '%s'...", seed.name)

	category, err := s.categoryRepo.CreateCategory(seed.name, seed.description)
	if err != nil {
		return fmt.Errorf("failed to create %s category: %w", seed.name, err)
	}

	added := 0
	for i := range seed.questions {
		q := seed.questions[i]
		q.CategoryID = category.ID
		if _, err := s.questionRepo.CreateQuestion(&q); err != nil {
			log.Printf("Failed to seed question in %s: %v", seed.name, err)
			continue
		}
		added++
	}

	log.Printf("Seeded category '%s' with %d questions", seed.name, added)
	return nil
}

var defaultSeeds = []categorySeed{
	{
		name:        "General Knowledge",
		description: "A bit of everything",
		questions: []models.Question{
			{
				Text:          "What is the capital of France?",
				OptionA:       "Berlin",
				OptionB:       "Madrid",
				OptionC:       "Paris",
				OptionD:       "Rome",
				CorrectLetter: "C",
			},
			{
				Text:          "How many continents are there?",
				OptionA:       "Five",
				OptionB:       "Six",
				OptionC:       "Seven",
				OptionD:       "Eight",
				CorrectLetter: "C",
			},
			{
				Text:          "Which ocean is the largest?",
				OptionA:       "Atlantic",
				OptionB:       "Pacific",
				OptionC:       "Indian",
				OptionD:       "Arctic",
				CorrectLetter: "B",
			},
			{
				Text:          "What currency is used in Japan?",
				OptionA:       "Yuan",
				OptionB:       "Won",
				OptionC:       "Yen",
				OptionD:       "Ringgit",
				CorrectLetter: "C",
			},
		},
	},
	{
		name:        "Science",
		description: "Physics, chemistry and biology basics",
		questions: []models.Question{
			{
				Text:          "What planet is known as the Red Planet?",
				OptionA:       "Venus",
				OptionB:       "Mars",
				OptionC:       "Jupiter",
				OptionD:       "Saturn",
				CorrectLetter: "B",
			},
			{
				Text:          "What is the chemical symbol for water?",
				OptionA:       "O2",
				OptionB:       "CO2",
				OptionC:       "H2O",
				OptionD:       "NaCl",
				CorrectLetter: "C",
			},
			{
				Text:          "How many bones are in the adult human body?",
				OptionA:       "196",
				OptionB:       "206",
				OptionC:       "216",
				OptionD:       "226",
				CorrectLetter: "B",
			},
			{
				Text:          "What gas do plants absorb from the atmosphere?",
				OptionA:       "Oxygen",
				OptionB:       "Nitrogen",
				OptionC:       "Carbon dioxide",
				OptionD:       "Hydrogen",
				CorrectLetter: "C",
			},
		},
	},
	{
		name:        "History",
		description: "Events and people that shaped the world",
		questions: []models.Question{
			{
				Text:          "In which year did World War II end?",
				OptionA:       "1943",
				OptionB:       "1944",
				OptionC:       "1945",
				OptionD:       "1946",
				CorrectLetter: "C",
			},
			{
				Text:          "Who was the first President of the United States?",
				OptionA:       "Thomas Jefferson",
				OptionB:       "George Washington",
				OptionC:       "Abraham Lincoln",
				OptionD:       "John Adams",
				CorrectLetter: "B",
			},
			{
				Text:          "Which ancient civilization built the pyramids of Giza?",
				OptionA:       "The Romans",
				OptionB:       "The Greeks",
				OptionC:       "The Egyptians",
				OptionD:       "The Mayans",
				CorrectLetter: "C",
			},
			{
				Text:          "The Berlin Wall fell in which year?",
				OptionA:       "1987",
				OptionB:       "1989",
				OptionC:       "1991",
				OptionD:       "1993",
				CorrectLetter: "B",
			},
		},
	},
}
