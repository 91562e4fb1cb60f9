package repository

import (
	"database/sql"
	"fmt"

	"quizdesk/internal/database"
	"quizdesk/internal/models"
)

// CategoryRepository handles database operations for quiz categories
type CategoryRepository struct {
	db *database.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListCategories returns all categories ordered by name
func (r *CategoryRepository) ListCategories() ([]models.Category, error) {
	query := `
		SELECT id, name, description
		FROM categories
		ORDER BY name ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// GetCategoryByID retrieves a category by ID
func (r *CategoryRepository) GetCategoryByID(id int64) (*models.Category, error) {
	query := `
		SELECT id, name, description
		FROM categories
		WHERE id = ?
	`
	category := &models.Category{}
	err := r.db.QueryRow(query, id).Scan(&category.ID, &category.Name, &category.Description)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// GetCategoryByName retrieves a category by its unique name
func (r *CategoryRepository) GetCategoryByName(name string) (*models.Category, error) {
	query := `
		SELECT id, name, description
		FROM categories
		WHERE name = ?
	`
	category := &models.Category{}
	err := r.db.QueryRow(query, name).Scan(&category.ID, &category.Name, &category.Description)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// CreateCategory inserts a new category and returns it with its generated id
func (r *CategoryRepository) CreateCategory(name, description string) (*models.Category, error) {
	query := `
		INSERT INTO categories (name, description)
		VALUES (?, ?)
	`
	id, err := r.db.ExecReturningID(query, name, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &models.Category{ID: id, Name: name, Description: description}, nil
}

// DeleteCategory removes a category
func (r *CategoryRepository) DeleteCategory(id int64) error {
	query := "DELETE FROM categories WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// CountQuestions returns the number of questions in a category
func (r *CategoryRepository) CountQuestions(categoryID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM questions WHERE category_id = ?"
	if err := r.db.QueryRow(query, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}
