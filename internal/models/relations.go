package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a recipe as favorited by a user, unique per pair.
type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_favorites_pair,unique" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_favorites_pair,unique" json:"recipe_id"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCart queues a recipe for shopping-list aggregation, unique per pair.
type ShoppingCart struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_shopping_carts_pair,unique" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_shopping_carts_pair,unique" json:"recipe_id"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// ShortLink maps a 6-letter token to a recipe. Tokens are never expired
// and several tokens may alias the same recipe.
type ShortLink struct {
	Token     string    `gorm:"size:6;primaryKey" json:"token"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
}

func (ShortLink) TableName() string {
	return "short_links"
}
