package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/models"
)

// IngredientService exposes the read-only ingredient catalog.
type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// Search lists catalog entries, optionally filtered by a case-insensitive
// name substring, ordered by name.
func (s *IngredientService) Search(ctx context.Context, name string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Model(&models.Ingredient{})
	if name != "" {
		like := "%" + strings.ToLower(name) + "%"
		query = query.Where("LOWER(name) LIKE ?", like)
	}

	var ingredients []models.Ingredient
	if err := query.Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}
