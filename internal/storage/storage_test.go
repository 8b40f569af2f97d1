package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/models"
	"github.com/foodgram-app/backend/internal/service"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return New(db), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
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

func seedRecipe(t *testing.T, db *gorm.DB, author *models.User, name string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Cook it.",
		CookingTime: 10,
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

func seedRecipeIngredient(t *testing.T, db *gorm.DB, recipe *models.Recipe, name, unit string, amount int) {
	t.Helper()
	ing := &models.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	require.NoError(t, db.Create(&models.RecipeIngredient{
		ID:           uuid.New(),
		RecipeID:     recipe.ID,
		IngredientID: ing.ID,
		Amount:       amount,
	}).Error)
}

func TestCartIngredients(t *testing.T) {
	store, db := newTestStore(t)
	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")

	inCart := seedRecipe(t, db, author, "In Cart")
	seedRecipeIngredient(t, db, inCart, "salt", "g", 5)
	seedRecipeIngredient(t, db, inCart, "sugar", "g", 10)

	outside := seedRecipe(t, db, author, "Not In Cart")
	seedRecipeIngredient(t, db, outside, "flour", "g", 500)

	require.NoError(t, db.Create(&models.ShoppingCart{
		ID:       uuid.New(),
		UserID:   viewer.ID,
		RecipeID: inCart.ID,
	}).Error)

	rows, err := store.CartIngredients(context.Background(), viewer.ID)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	names := map[string]int{}
	for _, row := range rows {
		names[row.Name] = row.Amount
		assert.Equal(t, "g", row.MeasurementUnit)
	}
	assert.Equal(t, map[string]int{"salt": 5, "sugar": 10}, names)

	// A user with an empty cart gets no rows.
	rows, err = store.CartIngredients(context.Background(), author.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestShortLinkStore(t *testing.T) {
	store, db := newTestStore(t)
	author := seedUser(t, db, "author")
	recipe := seedRecipe(t, db, author, "Linked")

	exists, err := store.RecipeExists(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.RecipeExists(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)

	link := &models.ShortLink{Token: "abcDEF", RecipeID: recipe.ID}
	require.NoError(t, store.CreateShortLink(context.Background(), link))

	// The token is the primary key, a second insert must fail.
	dup := &models.ShortLink{Token: "abcDEF", RecipeID: recipe.ID}
	assert.Error(t, store.CreateShortLink(context.Background(), dup))

	got, err := store.GetShortLink(context.Background(), "abcDEF")
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, got.RecipeID)

	_, err = store.GetShortLink(context.Background(), "zzzzzz")
	assert.ErrorIs(t, err, service.ErrLinkNotFound)
}
