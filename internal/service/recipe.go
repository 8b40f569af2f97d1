package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/models"
	"github.com/foodgram-app/backend/internal/types"
)

// RecipeService handles recipe CRUD and favorite/cart membership.
type RecipeService struct {
	db     *gorm.DB
	images ImageStorage
}

func NewRecipeService(db *gorm.DB, images ImageStorage) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
	}
}

// validateRecipeInput runs every check before anything is persisted:
// positive cooking time, non-empty unique ingredient list with positive
// amounts, and a required image on create.
func validateRecipeInput(req *types.RecipeRequest, isCreate bool) error {
	if req.CookingTime <= 0 {
		return ErrInvalidCookingTime
	}
	if len(req.Ingredients) == 0 {
		return ErrNoIngredients
	}
	seen := make(map[uuid.UUID]struct{}, len(req.Ingredients))
	for _, item := range req.Ingredients {
		if _, dup := seen[item.ID]; dup {
			return ErrDuplicateIngredient
		}
		seen[item.ID] = struct{}{}
		if item.Amount <= 0 {
			return ErrInvalidAmount
		}
	}
	if isCreate && req.Image == "" {
		return ErrMissingImage
	}
	return nil
}

// checkIngredientsExist verifies every submitted ingredient id references a
// catalog entry.
func (s *RecipeService) checkIngredientsExist(ctx context.Context, items []types.IngredientAmount) error {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrIngredientNotFound
	}
	return nil
}

// CreateRecipe validates the request, uploads the image and creates the
// recipe together with its ingredient-amount rows in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	if err := validateRecipeInput(req, true); err != nil {
		return nil, err
	}
	if err := s.checkIngredientsExist(ctx, req.Ingredients); err != nil {
		return nil, err
	}

	imageURL, err := s.uploadImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        req.Name,
		ImageURL:    imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return createIngredientRows(tx, recipe.ID, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces the recipe fields and its whole ingredient set.
// The delete-all-then-recreate of ingredient rows runs in one transaction
// so a failure midway never leaves a partial list.
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID, userID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	if err := validateRecipeInput(req, false); err != nil {
		return nil, err
	}
	if err := s.checkIngredientsExist(ctx, req.Ingredients); err != nil {
		return nil, err
	}

	imageURL := recipe.ImageURL
	if req.Image != "" {
		imageURL, err = s.uploadImage(ctx, req.Image)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         req.Name,
			"image_url":    imageURL,
			"text":         req.Text,
			"cooking_time": req.CookingTime,
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return createIngredientRows(tx, recipeID, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipeID)
}

func (s *RecipeService) uploadImage(ctx context.Context, data string) (string, error) {
	if s.images == nil {
		return "", ErrImageStorageUnavailable
	}
	return s.images.UploadBase64(ctx, data, "recipes")
}

func createIngredientRows(tx *gorm.DB, recipeID uuid.UUID, items []types.IngredientAmount) error {
	rows := make([]models.RecipeIngredient, len(items))
	for i, item := range items {
		rows[i] = models.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		}
	}
	return tx.Create(&rows).Error
}

// DeleteRecipe removes a recipe and everything referencing it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID, userID uuid.UUID) error {
	recipe, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return ErrNotAuthor
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{
			&models.RecipeIngredient{},
			&models.Favorite{},
			&models.ShoppingCart{},
			&models.ShortLink{},
		} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(dependent).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipeID).Error
	})
}

// GetRecipe retrieves a recipe with its author and ingredient rows.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// RecipeFilter narrows the recipe listing. The membership filters apply
// only when ViewerID is set; they select recipes the viewer has favorited
// or put in their shopping cart.
type RecipeFilter struct {
	AuthorID       *uuid.UUID
	ViewerID       *uuid.UUID
	FavoritedOnly  bool
	InShoppingCart bool
}

// ListRecipes lists recipes newest first, narrowed by the filter, with
// page/limit offset pagination.
func (s *RecipeService) ListRecipes(ctx context.Context, filter RecipeFilter, page, limit int) ([]models.Recipe, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&models.Recipe{})
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.ViewerID != nil {
		if filter.FavoritedOnly {
			query = query.
				Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
				Where("favorites.user_id = ?", *filter.ViewerID)
		}
		if filter.InShoppingCart {
			query = query.
				Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
				Where("shopping_carts.user_id = ?", *filter.ViewerID)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := query.
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// MembershipFlags reports which of the given recipes the viewer has
// favorited and which are in their shopping cart.
func (s *RecipeService) MembershipFlags(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (favorited, inCart map[uuid.UUID]bool, err error) {
	favorited = make(map[uuid.UUID]bool)
	inCart = make(map[uuid.UUID]bool)
	if len(recipeIDs) == 0 {
		return favorited, inCart, nil
	}

	var favs []models.Favorite
	if err = s.db.WithContext(ctx).Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).Find(&favs).Error; err != nil {
		return nil, nil, err
	}
	for _, f := range favs {
		favorited[f.RecipeID] = true
	}

	var carts []models.ShoppingCart
	if err = s.db.WithContext(ctx).Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).Find(&carts).Error; err != nil {
		return nil, nil, err
	}
	for _, c := range carts {
		inCart[c.RecipeID] = true
	}
	return favorited, inCart, nil
}

// AddFavorite creates the membership row and returns the compact recipe
// summary. Adding twice is a conflict, not a no-op; the unique index is
// the guard under concurrent identical requests.
func (s *RecipeService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeSummary, error) {
	return s.addMembership(ctx, userID, recipeID, &models.Favorite{
		ID:       uuid.New(),
		UserID:   userID,
		RecipeID: recipeID,
	})
}

// RemoveFavorite deletes the membership row; removing when absent is a
// conflict, never a silent success.
func (s *RecipeService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeMembership(ctx, recipeID, s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{}))
}

// AddToShoppingCart queues a recipe for shopping-list aggregation.
func (s *RecipeService) AddToShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeSummary, error) {
	return s.addMembership(ctx, userID, recipeID, &models.ShoppingCart{
		ID:       uuid.New(),
		UserID:   userID,
		RecipeID: recipeID,
	})
}

// RemoveFromShoppingCart removes a recipe from the cart.
func (s *RecipeService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeMembership(ctx, recipeID, s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCart{}))
}

func (s *RecipeService) addMembership(ctx context.Context, userID, recipeID uuid.UUID, row interface{}) (*types.RecipeSummary, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyInList
		}
		return nil, err
	}

	return &types.RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

func (s *RecipeService) removeMembership(ctx context.Context, recipeID uuid.UUID, result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var recipe models.Recipe
		if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		return ErrNotInList
	}
	return nil
}
