// Package memory provides deterministic in-memory repositories used by unit
// tests. It mirrors the mongo package's contract, including
// mongo.ErrNoDocuments for missing records and all-or-nothing WithTx.
package memory

import (
	"context"
	"sync"

	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store holds both collections behind one lock so WithTx can snapshot and
// restore them together.
type Store struct {
	mu         sync.Mutex
	users      map[primitive.ObjectID]users.User
	userOrder  []primitive.ObjectID
	events     map[primitive.ObjectID]events.Event
	eventOrder []primitive.ObjectID
}

func NewStore() *Store {
	return &Store{
		users:  make(map[primitive.ObjectID]users.User),
		events: make(map[primitive.ObjectID]events.Event),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }

// Events returns the event repository view of the store.
func (s *Store) Events() *EventRepository { return &EventRepository{store: s} }

// WithTx runs fn and rolls the store back to its prior state if fn fails.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	savedUsers := make(map[primitive.ObjectID]users.User, len(s.users))
	for id, u := range s.users {
		u.CreatedEvents = append([]primitive.ObjectID(nil), u.CreatedEvents...)
		savedUsers[id] = u
	}
	savedUserOrder := append([]primitive.ObjectID(nil), s.userOrder...)
	savedEvents := make(map[primitive.ObjectID]events.Event, len(s.events))
	for id, e := range s.events {
		savedEvents[id] = e
	}
	savedEventOrder := append([]primitive.ObjectID(nil), s.eventOrder...)
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.users = savedUsers
		s.userOrder = savedUserOrder
		s.events = savedEvents
		s.eventOrder = savedEventOrder
		s.mu.Unlock()
		return err
	}
	return nil
}

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Insert(ctx context.Context, user users.User) (primitive.ObjectID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user.ID = primitive.NewObjectID()
	r.store.users[user.ID] = user
	r.store.userOrder = append(r.store.userOrder, user.ID)
	return user.ID, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (users.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return users.User{}, mongo.ErrNoDocuments
	}
	return user, nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]users.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	found := []users.User{}
	for _, id := range ids {
		if user, ok := r.store.users[id]; ok {
			found = append(found, user)
		}
	}
	return found, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (users.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, id := range r.store.userOrder {
		if r.store.users[id].Email == email {
			return r.store.users[id], nil
		}
	}
	return users.User{}, mongo.ErrNoDocuments
}

func (r *UserRepository) FindAll(ctx context.Context) ([]users.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	found := make([]users.User, 0, len(r.store.userOrder))
	for _, id := range r.store.userOrder {
		found = append(found, r.store.users[id])
	}
	return found, nil
}

func (r *UserRepository) AppendCreatedEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.CreatedEvents = append(user.CreatedEvents, eventID)
	r.store.users[userID] = user
	return nil
}

type EventRepository struct {
	store *Store
}

func (r *EventRepository) Insert(ctx context.Context, event events.Event) (primitive.ObjectID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	event.ID = primitive.NewObjectID()
	r.store.events[event.ID] = event
	r.store.eventOrder = append(r.store.eventOrder, event.ID)
	return event.ID, nil
}

func (r *EventRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]events.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	found := []events.Event{}
	for _, id := range ids {
		if event, ok := r.store.events[id]; ok {
			found = append(found, event)
		}
	}
	return found, nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]events.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	found := make([]events.Event, 0, len(r.store.eventOrder))
	for _, id := range r.store.eventOrder {
		found = append(found, r.store.events[id])
	}
	return found, nil
}
