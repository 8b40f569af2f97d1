package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-app/backend/internal/models"
)

func TestSubscribe(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	salt := createTestIngredient(t, db, "salt", "g")
	createTestRecipe(t, db, bob, "Bob Dish", map[*models.Ingredient]int{salt: 1})
	svc := NewUserService(db, nil)

	sub, err := svc.Subscribe(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", sub.Username)
	assert.EqualValues(t, 1, sub.RecipesCount)

	_, err = svc.Subscribe(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	_, err = svc.Subscribe(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfSubscription)

	_, err = svc.Subscribe(context.Background(), alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnsubscribe(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	svc := NewUserService(db, nil)

	_, err := svc.Subscribe(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(context.Background(), alice.ID, bob.ID))

	err = svc.Unsubscribe(context.Background(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotSubscribed)

	err = svc.Unsubscribe(context.Background(), alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSubscriptionsList(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	svc := NewUserService(db, nil)

	_, err := svc.Subscribe(context.Background(), alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = svc.Subscribe(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	subs, err := svc.Subscriptions(context.Background(), alice.ID, 1, 10)
	require.NoError(t, err)

	require.Len(t, subs, 2)
	assert.Equal(t, "bob", subs[0].Username)
	assert.Equal(t, "carol", subs[1].Username)

	// The other direction is empty.
	subs, err = svc.Subscriptions(context.Background(), bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestAvatar(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	svc := NewUserService(db, &fakeImageStorage{})

	err := svc.DeleteAvatar(context.Background(), alice.ID)
	assert.ErrorIs(t, err, ErrNoAvatar)

	url, err := svc.SetAvatar(context.Background(), alice.ID, "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", alice.ID).Error)
	assert.Equal(t, url, user.AvatarURL)

	require.NoError(t, svc.DeleteAvatar(context.Background(), alice.ID))
	require.NoError(t, db.First(&user, "id = ?", alice.ID).Error)
	assert.Empty(t, user.AvatarURL)
}

func TestSetAvatarWithoutStorage(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	svc := NewUserService(db, nil)

	_, err := svc.SetAvatar(context.Background(), alice.ID, "data:image/png;base64,AAAA")
	assert.ErrorIs(t, err, ErrImageStorageUnavailable)
}
