package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

type fakeImageStorage struct {
	uploads int
}

func (f *fakeImageStorage) UploadBase64(_ context.Context, _ string, keyPrefix string) (string, error) {
	f.uploads++
	return fmt.Sprintf("https://cdn.test/%s/%d.png", keyPrefix, f.uploads), nil
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{
		ID:              uuid.New(),
		Name:            name,
		MeasurementUnit: unit,
	}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

func createTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, ingredients map[*models.Ingredient]int) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		ImageURL:    "https://cdn.test/recipes/seed.png",
		Text:        "Cook it.",
		CookingTime: 10,
	}
	require.NoError(t, db.Create(recipe).Error)
	for ing, amount := range ingredients {
		require.NoError(t, db.Create(&models.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipe.ID,
			IngredientID: ing.ID,
			Amount:       amount,
		}).Error)
	}
	return recipe
}
