package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram-app/backend/internal/middleware"
	"github.com/foodgram-app/backend/internal/models"
	"github.com/foodgram-app/backend/internal/service"
	"github.com/foodgram-app/backend/internal/types"
)

type RecipeHandler struct {
	recipeService       *service.RecipeService
	shoppingListService *service.ShoppingListService
	shortLinkService    *service.ShortLinkService
	authService         middleware.TokenValidator
	creationLimiter     *middleware.RateLimiter
	modificationLimiter *middleware.RateLimiter
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	shoppingListService *service.ShoppingListService,
	shortLinkService *service.ShortLinkService,
	authService middleware.TokenValidator,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		shoppingListService: shoppingListService,
		shortLinkService:    shortLinkService,
		authService:         authService,
	}
}

// WithRateLimiters attaches the Redis-backed rate limiters to the recipe
// mutation routes. A nil limiter disables limiting for that route.
func (h *RecipeHandler) WithRateLimiters(creation, modification *middleware.RateLimiter) *RecipeHandler {
	h.creationLimiter = creation
	h.modificationLimiter = modification
	return h
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)
	optionalAuth := middleware.OptionalAuthMiddleware(h.authService)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.ListRecipes)
		recipes.GET("/download_shopping_cart", auth, h.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, h.GetRecipe)
		recipes.GET("/:id/get-link", h.GetShortLink)
		recipes.POST("", h.withLimiter(auth, h.creationLimiter, h.CreateRecipe)...)
		recipes.PUT("/:id", h.withLimiter(auth, h.modificationLimiter, h.UpdateRecipe)...)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", auth, h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", auth, h.UnfavoriteRecipe)
		recipes.POST("/:id/shopping_cart", auth, h.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", auth, h.RemoveFromShoppingCart)
	}
}

func (h *RecipeHandler) withLimiter(auth gin.HandlerFunc, limiter *middleware.RateLimiter, handler gin.HandlerFunc) []gin.HandlerFunc {
	if limiter == nil {
		return []gin.HandlerFunc{auth, handler}
	}
	return []gin.HandlerFunc{auth, limiter.RateLimitMiddleware(), handler}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 10)

	var filter service.RecipeFilter
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &id
	}

	// Membership filters apply only to an authenticated viewer;
	// anonymous callers get them ignored.
	if viewerID, ok := currentUserID(c); ok {
		filter.ViewerID = &viewerID
		filter.FavoritedOnly = boolQuery(c, "is_favorited")
		filter.InShoppingCart = boolQuery(c, "is_in_shopping_cart")
	}

	recipes, total, err := h.recipeService.ListRecipes(c.Request.Context(), filter, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses, err := h.toRecipeResponses(c, recipes)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"recipes": responses,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), recipeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses, err := h.toRecipeResponses(c, []models.Recipe{*recipe})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses[0])
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses, err := h.toRecipeResponses(c, []models.Recipe{*recipe})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, responses[0])
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), recipeID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses, err := h.toRecipeResponses(c, []models.Recipe{*recipe})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses[0])
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), recipeID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart renders the aggregated shopping list as a
// plain-text attachment, one line per ingredient.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	items, err := h.shoppingListService.ShoppingList(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.RenderText(items)))
}

// GetShortLink mints a new short link for the recipe and returns its full
// URL.
func (h *RecipeHandler) GetShortLink(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	link, err := h.shortLinkService.Generate(c.Request.Context(), recipeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"short-link": h.shortLinkService.URL(link.Token)})
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.addMembership(c, h.recipeService.AddFavorite)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.removeMembership(c, h.recipeService.RemoveFavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addMembership(c, h.recipeService.AddToShoppingCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeMembership(c, h.recipeService.RemoveFromShoppingCart)
}

func (h *RecipeHandler) addMembership(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeSummary, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	summary, err := add(c.Request.Context(), userID, recipeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}

func (h *RecipeHandler) removeMembership(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	if err := remove(c.Request.Context(), userID, recipeID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// toRecipeResponses maps recipes onto their response shape, filling the
// viewer-specific favorite/cart flags when the caller is authenticated.
func (h *RecipeHandler) toRecipeResponses(c *gin.Context, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}

	if userID, ok := currentUserID(c); ok {
		ids := make([]uuid.UUID, len(recipes))
		for i := range recipes {
			ids[i] = recipes[i].ID
		}
		var err error
		favorited, inCart, err = h.recipeService.MembershipFlags(c.Request.Context(), userID, ids)
		if err != nil {
			return nil, err
		}
	}

	responses := make([]types.RecipeResponse, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		ingredients := make([]types.RecipeIngredientResponse, len(r.Ingredients))
		for j, row := range r.Ingredients {
			ingredients[j] = types.RecipeIngredientResponse{
				ID:              row.IngredientID,
				Name:            row.Ingredient.Name,
				MeasurementUnit: row.Ingredient.MeasurementUnit,
				Amount:          row.Amount,
			}
		}
		responses[i] = types.RecipeResponse{
			ID: r.ID,
			Author: types.UserResponse{
				ID:        r.Author.ID,
				Email:     r.Author.Email,
				Username:  r.Author.Username,
				FirstName: r.Author.FirstName,
				LastName:  r.Author.LastName,
				Avatar:    r.Author.AvatarURL,
			},
			Name:             r.Name,
			Image:            r.ImageURL,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
		}
	}
	return responses, nil
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func boolQuery(c *gin.Context, key string) bool {
	v := c.Query(key)
	return v == "1" || strings.EqualFold(v, "true")
}
