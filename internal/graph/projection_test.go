package graph

import (
	"testing"
	"time"

	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProjectUserNullsCredential(t *testing.T) {
	eventID := primitive.NewObjectID()
	stored := users.User{
		ID:            primitive.NewObjectID(),
		Email:         "a@b.com",
		PasswordHash:  "$2a$12$secret",
		CreatedEvents: []primitive.ObjectID{eventID},
	}

	projected := projectUser(stored)

	require.Equal(t, stored.ID.Hex(), projected.ID)
	require.Equal(t, "a@b.com", projected.Email)
	require.Nil(t, projected.Password)
	require.Equal(t, []primitive.ObjectID{eventID}, projected.createdEventIDs)
}

func TestProjectEventFormatsDate(t *testing.T) {
	creator := primitive.NewObjectID()
	stored := events.Event{
		ID:          primitive.NewObjectID(),
		Title:       "T",
		Description: "D",
		Price:       9.99,
		Date:        time.Date(2024, 6, 15, 19, 30, 0, 0, time.FixedZone("UTC+2", 2*60*60)),
		Creator:     creator,
	}

	projected := projectEvent(stored)

	require.Equal(t, stored.ID.Hex(), projected.ID)
	require.Equal(t, "2024-06-15T17:30:00Z", projected.Date)
	require.Equal(t, 9.99, projected.Price)
	require.Equal(t, creator, projected.creatorID)
}

func TestConvertErrorCodes(t *testing.T) {
	require.Equal(t, CodeConflict, convertError(users.ErrEmailTaken).Code())
	require.Equal(t, CodeNotFound, convertError(users.ErrUserNotFound).Code())
	require.Equal(t, CodeNotFound, convertError(events.ErrCreatorNotFound).Code())
	require.Equal(t, CodeInvalidInput, convertError(events.ErrInvalidInput).Code())
	require.Equal(t, CodeStoreError, convertError(assertableErr("connection reset")).Code())
}

type assertableErr string

func (e assertableErr) Error() string { return string(e) }
