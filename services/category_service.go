package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sawaal/models"

	"gorm.io/gorm"
)

var (
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryNotFound     = errors.New("category not found")
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// Resolve finds a category by case-insensitive, whitespace-trimmed name.
func (s *CategoryService) Resolve(ctx context.Context, name string) (*models.Category, error) {
	normalized := normalizeCategoryName(name)
	if normalized == "" {
		return nil, ErrCategoryNameRequired
	}

	var category models.Category
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = ?", normalized).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve category %q: %w", normalized, err)
	}

	return &category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}

// Seed creates any missing category from the provider mapping. Safe to call on every start.
func (s *CategoryService) Seed(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range CategoryNames() {
			category := models.Category{Name: name}
			if err := tx.Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}
		}
		return nil
	})
}

func normalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
