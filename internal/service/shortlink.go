package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/foodgram-app/backend/internal/models"
)

const (
	tokenLength   = 6
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Collisions on a 52^6 space are rare; a couple of retries on the
	// primary-key conflict is enough.
	maxTokenAttempts = 3
)

// ShortLinkStore persists token to recipe mappings.
type ShortLinkStore interface {
	RecipeExists(ctx context.Context, recipeID uuid.UUID) (bool, error)
	CreateShortLink(ctx context.Context, link *models.ShortLink) error
	GetShortLink(ctx context.Context, token string) (*models.ShortLink, error)
}

// ShortLinkService mints compact tokens for recipes and resolves them back.
type ShortLinkService struct {
	store   ShortLinkStore
	baseURL string
}

func NewShortLinkService(store ShortLinkStore, baseURL string) *ShortLinkService {
	return &ShortLinkService{
		store:   store,
		baseURL: baseURL,
	}
}

// Generate mints a new short link for an existing recipe. Every call
// produces a fresh token; prior tokens for the recipe stay valid.
func (s *ShortLinkService) Generate(ctx context.Context, recipeID uuid.UUID) (*models.ShortLink, error) {
	exists, err := s.store.RecipeExists(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check recipe: %w", err)
	}
	if !exists {
		return nil, ErrRecipeNotFound
	}

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := randomToken()
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}

		link := &models.ShortLink{
			Token:    token,
			RecipeID: recipeID,
		}
		err = s.store.CreateShortLink(ctx, link)
		if err == nil {
			return link, nil
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create short link: %w", err)
		}
	}

	return nil, fmt.Errorf("failed to create short link after %d attempts", maxTokenAttempts)
}

// URL returns the full resolvable short-link URL for a token.
func (s *ShortLinkService) URL(token string) string {
	return fmt.Sprintf("%s/s/%s", s.baseURL, token)
}

// Resolve looks up a token and returns the recipe it points to. Every
// lookup failure, a miss or a store fault alike, maps to ErrLinkNotFound.
func (s *ShortLinkService) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	if len(token) != tokenLength {
		return uuid.Nil, ErrLinkNotFound
	}
	link, err := s.store.GetShortLink(ctx, token)
	if err != nil {
		return uuid.Nil, ErrLinkNotFound
	}
	return link.RecipeID, nil
}

func randomToken() (string, error) {
	buf := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}
