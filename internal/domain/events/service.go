package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventbook/server/internal/domain/users"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Error types for event domain operations
var (
	ErrEventNotFound   = errors.New("event not found")
	ErrCreatorNotFound = errors.New("creator user not found")
	ErrInvalidInput    = errors.New("invalid event input")
)

// Event is a stored event record. Creator holds the owning user's id; the user
// record carries the reverse createdEvents list, kept in step by Create.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Date        time.Time          `bson:"date"`
	Creator     primitive.ObjectID `bson:"creator"`
}

// Repository is the event collection access the service needs
type Repository interface {
	Insert(ctx context.Context, event Event) (primitive.ObjectID, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Event, error)
	FindAll(ctx context.Context) ([]Event, error)
}

// UserStore is the slice of the user repository the event service needs to
// verify the creator and maintain its createdEvents list.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (users.User, error)
	AppendCreatedEvent(ctx context.Context, userID, eventID primitive.ObjectID) error
}

// TxRunner runs fn atomically: either both event-collection and user-collection
// writes inside fn land, or neither does.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service handles event creation and listing
type Service struct {
	events   Repository
	users    UserStore
	tx       TxRunner
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewService creates a new event service instance
func NewService(events Repository, userStore UserStore, tx TxRunner, logger zerolog.Logger) *Service {
	return &Service{
		events:   events,
		users:    userStore,
		tx:       tx,
		validate: validator.New(),
		logger:   logger.With().Str("component", "events").Logger(),
	}
}

// CreateParams contains parameters for creating a new event. Creator is the
// caller-supplied identity of the owning user.
type CreateParams struct {
	Title       string             `validate:"required"`
	Description string             `validate:"required"`
	Price       float64            `validate:"gte=0"`
	Date        time.Time          `validate:"required"`
	Creator     primitive.ObjectID `validate:"required"`
}

// Create persists the event and appends its id to the creator's createdEvents
// list in one transaction. The creator lookup runs first, so a missing creator
// fails with ErrCreatorNotFound before any write happens.
func (s *Service) Create(ctx context.Context, params CreateParams) (Event, error) {
	if err := s.validate.Struct(params); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	event := Event{
		Title:       params.Title,
		Description: params.Description,
		Price:       params.Price,
		Date:        params.Date.UTC(),
		Creator:     params.Creator,
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, params.Creator); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrCreatorNotFound
			}
			return fmt.Errorf("failed to look up creator: %w", err)
		}

		id, err := s.events.Insert(ctx, event)
		if err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		event.ID = id

		if err := s.users.AppendCreatedEvent(ctx, params.Creator, id); err != nil {
			return fmt.Errorf("failed to link event to creator: %w", err)
		}
		return nil
	})
	if err != nil {
		return Event{}, err
	}

	s.logger.Info().
		Str("event_id", event.ID.Hex()).
		Str("creator_id", params.Creator.Hex()).
		Msg("event created")
	return event, nil
}

// List returns every stored event, in store order
func (s *Service) List(ctx context.Context) ([]Event, error) {
	all, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return all, nil
}

// GetByIDs returns the events matching ids. Unknown ids are skipped, matching
// store semantics for an $in query.
func (s *Service) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Event, error) {
	if len(ids) == 0 {
		return []Event{}, nil
	}
	found, err := s.events.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	return found, nil
}
