package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	token := env.registerUser(t, "alice")

	// Duplicate registration is rejected.
	w := env.request(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":      "alice@example.com",
		"username":   "alice",
		"first_name": "Test",
		"last_name":  "User",
		"password":   "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, "GET", "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	w = env.request(t, "GET", "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubscriptionEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	aliceToken := env.registerUser(t, "alice")
	env.registerUser(t, "bob")

	var bob struct {
		ID uuid.UUID
	}
	require.NoError(t, env.db.Table("users").Select("id").Where("username = ?", "bob").Scan(&bob).Error)
	bobID := bob.ID

	w := env.request(t, "POST", fmt.Sprintf("/api/v1/users/%s/subscribe", bobID), aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"username":"bob"`)
	assert.Contains(t, w.Body.String(), `"recipes_count":0`)

	w = env.request(t, "POST", fmt.Sprintf("/api/v1/users/%s/subscribe", bobID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, "GET", "/api/v1/users/subscriptions", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"bob"`)

	w = env.request(t, "DELETE", fmt.Sprintf("/api/v1/users/%s/subscribe", bobID), aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, "DELETE", fmt.Sprintf("/api/v1/users/%s/subscribe", bobID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, "POST", fmt.Sprintf("/api/v1/users/%s/subscribe", uuid.New()), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvatarEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "alice")

	w := env.request(t, "DELETE", "/api/v1/users/me/avatar", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, "PUT", "/api/v1/users/me/avatar", token, map[string]string{
		"avatar": testImage,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "https://cdn.test/avatars/")

	w = env.request(t, "DELETE", "/api/v1/users/me/avatar", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestIngredientSearch(t *testing.T) {
	env := setupTestEnv(t)
	seedIngredient(t, env, "sea salt", "g")
	seedIngredient(t, env, "sugar", "g")

	w := env.request(t, "GET", "/api/v1/ingredients?name=salt", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sea salt")
	assert.NotContains(t, w.Body.String(), "sugar")

	w = env.request(t, "GET", "/api/v1/ingredients", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sugar")
}
