package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/service"
	"github.com/foodgram-app/backend/internal/storage"
)

type testImageStorage struct{}

func (testImageStorage) UploadBase64(_ context.Context, _ string, keyPrefix string) (string, error) {
	return fmt.Sprintf("https://cdn.test/%s/%s.png", keyPrefix, uuid.NewString()), nil
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	store := storage.New(db)
	images := testImageStorage{}

	authService := service.NewAuthService(db, "test-secret")
	userService := service.NewUserService(db, images)
	ingredientService := service.NewIngredientService(db)
	recipeService := service.NewRecipeService(db, images)
	shoppingListService := service.NewShoppingListService(store)
	shortLinkService := service.NewShortLinkService(store, "http://localhost:8080")

	router := gin.New()
	NewShortLinkHandler(shortLinkService).RegisterRoutes(router)

	v1 := router.Group("/api/v1")
	NewAuthHandler(authService).RegisterRoutes(v1)
	NewUserHandler(userService, authService).RegisterRoutes(v1)
	NewIngredientHandler(ingredientService).RegisterRoutes(v1)
	NewRecipeHandler(recipeService, shoppingListService, shortLinkService, authService).RegisterRoutes(v1)

	return &testEnv{router: router, db: db, auth: authService}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) registerUser(t *testing.T, username string) string {
	t.Helper()
	w := e.request(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}
