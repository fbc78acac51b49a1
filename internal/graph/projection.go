package graph

import (
	"time"

	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the response shape for a user. Password is part of the schema for
// compatibility with clients that select it, but projectUser never fills it:
// the credential is null on every read path, listings included.
type User struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Password *string `json:"password"`

	createdEventIDs []primitive.ObjectID
}

// Event is the response shape for an event. The creator sub-object is resolved
// lazily from creatorID by the Event.creator field resolver.
type Event struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Date        string  `json:"date"`

	creatorID primitive.ObjectID
}

// projectUser is the single sink shaping stored users for responses. Every
// field passed through is enumerated here; the credential is suppressed by
// construction.
func projectUser(u users.User) User {
	return User{
		ID:              u.ID.Hex(),
		Email:           u.Email,
		Password:        nil,
		createdEventIDs: u.CreatedEvents,
	}
}

// projectEvent shapes a stored event for responses. Dates render as RFC 3339
// in UTC.
func projectEvent(e events.Event) Event {
	return Event{
		ID:          e.ID.Hex(),
		Title:       e.Title,
		Description: e.Description,
		Price:       e.Price,
		Date:        e.Date.UTC().Format(time.RFC3339),
		creatorID:   e.Creator,
	}
}

func projectEvents(stored []events.Event) []Event {
	projected := make([]Event, 0, len(stored))
	for _, e := range stored {
		projected = append(projected, projectEvent(e))
	}
	return projected
}

func projectUsers(stored []users.User) []User {
	projected := make([]User, 0, len(stored))
	for _, u := range stored {
		projected = append(projected, projectUser(u))
	}
	return projected
}
