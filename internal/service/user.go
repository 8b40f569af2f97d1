package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/internal/models"
	"github.com/foodgram-app/backend/internal/types"
)

// UserService handles avatars and user-to-user subscriptions.
type UserService struct {
	db     *gorm.DB
	images ImageStorage
}

func NewUserService(db *gorm.DB, images ImageStorage) *UserService {
	return &UserService{
		db:     db,
		images: images,
	}
}

// SetAvatar uploads a base64 avatar image and stores its URL on the user.
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, data string) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if s.images == nil {
		return "", ErrImageStorageUnavailable
	}
	url, err := s.images.UploadBase64(ctx, data, "avatars")
	if err != nil {
		return "", err
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("avatar_url", url).Error; err != nil {
		return "", err
	}
	return url, nil
}

// DeleteAvatar clears the user's avatar; deleting when none is set is an
// error.
func (s *UserService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.AvatarURL == "" {
		return ErrNoAvatar
	}
	return s.db.WithContext(ctx).Model(&user).Update("avatar_url", "").Error
}

// Subscribe creates a follower relation. Self-subscription and duplicate
// subscription are conflicts; the unique pair index guards races.
func (s *UserService) Subscribe(ctx context.Context, followerID, followedID uuid.UUID) (*types.SubscriptionUser, error) {
	if followerID == followedID {
		return nil, ErrSelfSubscription
	}

	var followed models.User
	if err := s.db.WithContext(ctx).First(&followed, "id = ?", followedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	sub := models.Subscription{
		ID:         uuid.New(),
		FollowerID: followerID,
		FollowedID: followedID,
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}

	return s.subscriptionUser(ctx, &followed)
}

// Unsubscribe removes a follower relation; removing when absent is an
// error, never a silent success.
func (s *UserService) Unsubscribe(ctx context.Context, followerID, followedID uuid.UUID) error {
	var followed models.User
	if err := s.db.WithContext(ctx).First(&followed, "id = ?", followedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotSubscribed
	}
	return nil
}

// Subscriptions lists the users the caller follows, with recipe counts,
// paginated.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, page, limit int) ([]types.SubscriptionUser, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var followed []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.followed_id = users.id").
		Where("subscriptions.follower_id = ?", userID).
		Order("users.username ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&followed).Error
	if err != nil {
		return nil, err
	}

	result := make([]types.SubscriptionUser, 0, len(followed))
	for i := range followed {
		su, err := s.subscriptionUser(ctx, &followed[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *su)
	}
	return result, nil
}

func (s *UserService) subscriptionUser(ctx context.Context, user *models.User) (*types.SubscriptionUser, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", user.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	return &types.SubscriptionUser{
		UserResponse: types.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Avatar:    user.AvatarURL,
		},
		RecipesCount: count,
	}, nil
}
