// Package storage provides the GORM-backed implementations of the store
// interfaces consumed by the service layer.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/models"
	"github.com/foodgram-app/backend/internal/service"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var (
	_ service.ShoppingListStore = (*Store)(nil)
	_ service.ShortLinkStore    = (*Store)(nil)
)

// CartIngredients returns one row per ingredient-amount record across all
// recipes in the user's shopping cart, joined with the ingredient catalog.
func (s *Store) CartIngredients(ctx context.Context, userID uuid.UUID) ([]service.CartIngredientRow, error) {
	var rows []service.CartIngredientRow
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) RecipeExists(ctx context.Context, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreateShortLink(ctx context.Context, link *models.ShortLink) error {
	return s.db.WithContext(ctx).Create(link).Error
}

func (s *Store) GetShortLink(ctx context.Context, token string) (*models.ShortLink, error) {
	var link models.ShortLink
	err := s.db.WithContext(ctx).First(&link, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}
