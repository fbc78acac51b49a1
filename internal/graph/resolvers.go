package graph

import (
	"fmt"
	"time"

	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
	"github.com/eventbook/server/internal/metrics"
	"github.com/eventbook/server/internal/telemetry"
	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resolver holds the services backing the query and mutation fields
type Resolver struct {
	users  *users.Service
	events *events.Service
	logger zerolog.Logger
}

// NewResolver creates the root resolver
func NewResolver(userSvc *users.Service, eventSvc *events.Service, logger zerolog.Logger) *Resolver {
	return &Resolver{
		users:  userSvc,
		events: eventSvc,
		logger: logger.With().Str("component", "graph").Logger(),
	}
}

// instrument wraps a resolver with a span, operation metrics, and the domain
// error to extensions.code mapping.
func (r *Resolver) instrument(operation string, resolve graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		ctx, span := telemetry.Tracer().Start(p.Context, operation)
		defer span.End()
		p.Context = ctx

		start := time.Now()
		result, err := resolve(p)
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
		}
		metrics.GraphQLOperationsTotal.WithLabelValues(operation, status).Inc()
		metrics.GraphQLOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

		if err != nil {
			coded := convertError(err)
			if coded.Code() == CodeStoreError {
				r.logger.Error().Err(err).Str("operation", operation).Msg("resolver failed")
			} else {
				r.logger.Warn().Err(err).Str("operation", operation).Msg("resolver rejected request")
			}
			return nil, coded
		}
		return result, nil
	}
}

func (r *Resolver) listEvents(p graphql.ResolveParams) (interface{}, error) {
	stored, err := r.events.List(p.Context)
	if err != nil {
		return nil, err
	}
	return projectEvents(stored), nil
}

func (r *Resolver) listUsers(p graphql.ResolveParams) (interface{}, error) {
	stored, err := r.users.List(p.Context)
	if err != nil {
		return nil, err
	}
	return projectUsers(stored), nil
}

func (r *Resolver) createEvent(p graphql.ResolveParams) (interface{}, error) {
	input, ok := p.Args["eventInput"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: eventInput is required", events.ErrInvalidInput)
	}
	creatorArg, _ := p.Args["creatorId"].(string)
	creator, err := primitive.ObjectIDFromHex(creatorArg)
	if err != nil {
		return nil, fmt.Errorf("%w: creatorId %q is not a valid id", events.ErrInvalidInput, creatorArg)
	}

	price, err := events.CoercePrice(input["price"])
	if err != nil {
		return nil, err
	}
	dateArg, _ := input["date"].(string)
	date, err := events.CoerceDate(dateArg)
	if err != nil {
		return nil, err
	}
	title, _ := input["title"].(string)
	description, _ := input["description"].(string)

	created, err := r.events.Create(p.Context, events.CreateParams{
		Title:       title,
		Description: description,
		Price:       price,
		Date:        date,
		Creator:     creator,
	})
	if err != nil {
		return nil, err
	}
	return projectEvent(created), nil
}

func (r *Resolver) createUser(p graphql.ResolveParams) (interface{}, error) {
	input, ok := p.Args["userInput"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: userInput is required", users.ErrInvalidInput)
	}
	email, _ := input["email"].(string)
	password, _ := input["password"].(string)

	created, err := r.users.Create(p.Context, users.CreateParams{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return projectUser(created), nil
}

// eventCreator expands an event's creator reference into a full user
// projection. A dangling reference is store corruption and fails the read.
func (r *Resolver) eventCreator(p graphql.ResolveParams) (interface{}, error) {
	event, ok := p.Source.(Event)
	if !ok {
		return nil, fmt.Errorf("unexpected source type %T for creator field", p.Source)
	}
	creator, err := r.users.GetByID(p.Context, event.creatorID)
	if err != nil {
		return nil, err
	}
	return projectUser(creator), nil
}

// userCreatedEvents expands a user's createdEvents references
func (r *Resolver) userCreatedEvents(p graphql.ResolveParams) (interface{}, error) {
	user, ok := p.Source.(User)
	if !ok {
		return nil, fmt.Errorf("unexpected source type %T for createdEvents field", p.Source)
	}
	stored, err := r.events.GetByIDs(p.Context, user.createdEventIDs)
	if err != nil {
		return nil, err
	}
	return projectEvents(stored), nil
}
