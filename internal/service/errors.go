package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Sentinel errors returned by the service layer. Handlers map them onto
// HTTP status codes; everything else is treated as an internal fault.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrLinkNotFound       = errors.New("short link not found")

	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrAlreadyInList = errors.New("recipe is already in the list")
	ErrNotInList     = errors.New("recipe is not in the list")

	ErrSelfSubscription  = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrNotSubscribed     = errors.New("not subscribed")

	ErrNotAuthor = errors.New("only the author can modify the recipe")

	ErrEmptyShoppingList = errors.New("shopping cart yields no ingredients")

	ErrNoIngredients       = errors.New("recipe must have at least one ingredient")
	ErrDuplicateIngredient = errors.New("recipe ingredients must be unique")
	ErrInvalidAmount       = errors.New("ingredient amount must be a positive integer")
	ErrInvalidCookingTime  = errors.New("cooking time must be a positive integer")
	ErrMissingImage        = errors.New("recipe image is required")

	ErrNoAvatar = errors.New("no avatar is set")

	ErrImageStorageUnavailable = errors.New("image storage is not configured")
)

// isUniqueViolation reports whether err is a unique-constraint violation.
// GORM translates these for PostgreSQL; the string checks cover drivers
// that do not (in-memory SQLite in tests).
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
