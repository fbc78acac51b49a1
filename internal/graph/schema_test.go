package graph

import (
	"context"
	"testing"
	"time"

	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
	"github.com/eventbook/server/internal/storage/memory"
	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func newSchema(t *testing.T) (graphql.Schema, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	userSvc := users.NewService(store.Users(), bcrypt.MinCost, zerolog.Nop())
	eventSvc := events.NewService(store.Events(), store.Users(), store, zerolog.Nop())
	schema, err := NewSchema(NewResolver(userSvc, eventSvc, zerolog.Nop()))
	require.NoError(t, err)
	return schema, store
}

func execute(t *testing.T, schema graphql.Schema, query string, variables map[string]interface{}) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        context.Background(),
	})
}

func errorCode(t *testing.T, result *graphql.Result) string {
	t.Helper()
	require.NotEmpty(t, result.Errors)
	code, ok := result.Errors[0].Extensions["code"].(string)
	require.True(t, ok, "error %q carries no code", result.Errors[0].Message)
	return code
}

func TestCreateUserSuppressesCredential(t *testing.T) {
	schema, store := newSchema(t)

	result := execute(t, schema, `mutation {
		createUser(userInput: {email: "a@b.com", password: "long enough pw"}) {
			id email password createdEvents { id }
		}
	}`, nil)

	require.Empty(t, result.Errors)
	created := result.Data.(map[string]interface{})["createUser"].(map[string]interface{})
	require.Equal(t, "a@b.com", created["email"])
	require.Nil(t, created["password"])
	require.NotEmpty(t, created["id"])
	require.Empty(t, created["createdEvents"])

	// the credential is stripped from the response only, not from the store
	stored, err := store.Users().FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, stored.PasswordHash)
	require.NotEqual(t, "long enough pw", stored.PasswordHash)
}

func TestCreateUserDuplicateEmailIsConflict(t *testing.T) {
	schema, _ := newSchema(t)
	mutation := `mutation {
		createUser(userInput: {email: "a@b.com", password: "long enough pw"}) { id }
	}`

	first := execute(t, schema, mutation, nil)
	require.Empty(t, first.Errors)

	second := execute(t, schema, mutation, nil)
	require.Equal(t, CodeConflict, errorCode(t, second))
	require.Contains(t, second.Errors[0].Message, "already exists")
}

func TestListUsersNeverExposesCredential(t *testing.T) {
	schema, _ := newSchema(t)

	created := execute(t, schema, `mutation {
		createUser(userInput: {email: "a@b.com", password: "long enough pw"}) { id }
	}`, nil)
	require.Empty(t, created.Errors)

	result := execute(t, schema, `{ users { id email password } }`, nil)

	require.Empty(t, result.Errors)
	listed := result.Data.(map[string]interface{})["users"].([]interface{})
	require.Len(t, listed, 1)
	user := listed[0].(map[string]interface{})
	require.Equal(t, "a@b.com", user["email"])
	require.Nil(t, user["password"])
}

func TestListEventsProjection(t *testing.T) {
	schema, store := newSchema(t)
	ctx := context.Background()

	creatorID, err := store.Users().Insert(ctx, users.User{
		Email:         "a@b.com",
		PasswordHash:  "$2a$04$notarealhash",
		CreatedEvents: []primitive.ObjectID{},
	})
	require.NoError(t, err)
	eventID, err := store.Events().Insert(ctx, events.Event{
		Title:       "T",
		Description: "D",
		Price:       9.99,
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Creator:     creatorID,
	})
	require.NoError(t, err)

	result := execute(t, schema, `{
		events { id title description price date creator { id email password } }
	}`, nil)

	require.Empty(t, result.Errors)
	listed := result.Data.(map[string]interface{})["events"].([]interface{})
	require.Len(t, listed, 1)
	event := listed[0].(map[string]interface{})
	require.Equal(t, eventID.Hex(), event["id"])
	require.Equal(t, "T", event["title"])
	require.Equal(t, "D", event["description"])
	require.Equal(t, 9.99, event["price"])
	require.Equal(t, "2024-01-01T00:00:00Z", event["date"])

	creator := event["creator"].(map[string]interface{})
	require.Equal(t, creatorID.Hex(), creator["id"])
	require.Equal(t, "a@b.com", creator["email"])
	require.Nil(t, creator["password"])
}

func TestCreateEventLinksCreator(t *testing.T) {
	schema, _ := newSchema(t)

	created := execute(t, schema, `mutation {
		createUser(userInput: {email: "a@b.com", password: "long enough pw"}) { id }
	}`, nil)
	require.Empty(t, created.Errors)
	creatorID := created.Data.(map[string]interface{})["createUser"].(map[string]interface{})["id"].(string)

	// price arrives as a numeric string and date as a bare date, both coerced
	mutated := execute(t, schema, `mutation($input: EventInput!, $creator: ID!) {
		createEvent(eventInput: $input, creatorId: $creator) {
			id price date creator { id email password }
		}
	}`, map[string]interface{}{
		"input": map[string]interface{}{
			"title":       "Concert",
			"description": "An evening of jazz",
			"price":       "9.99",
			"date":        "2024-01-01",
		},
		"creator": creatorID,
	})
	require.Empty(t, mutated.Errors)
	event := mutated.Data.(map[string]interface{})["createEvent"].(map[string]interface{})
	require.Equal(t, 9.99, event["price"])
	require.Equal(t, "2024-01-01T00:00:00Z", event["date"])
	require.Equal(t, creatorID, event["creator"].(map[string]interface{})["id"])

	// the reverse reference shows up on the creator
	queried := execute(t, schema, `{ users { id createdEvents { id } } }`, nil)
	require.Empty(t, queried.Errors)
	user := queried.Data.(map[string]interface{})["users"].([]interface{})[0].(map[string]interface{})
	createdEvents := user["createdEvents"].([]interface{})
	require.Len(t, createdEvents, 1)
	require.Equal(t, event["id"], createdEvents[0].(map[string]interface{})["id"])
}

func TestCreateEventUnknownCreatorIsNotFound(t *testing.T) {
	schema, store := newSchema(t)

	result := execute(t, schema, `mutation($input: EventInput!, $creator: ID!) {
		createEvent(eventInput: $input, creatorId: $creator) { id }
	}`, map[string]interface{}{
		"input": map[string]interface{}{
			"title":       "Concert",
			"description": "No such creator",
			"price":       1.0,
			"date":        "2024-01-01",
		},
		"creator": primitive.NewObjectID().Hex(),
	})

	require.Equal(t, CodeNotFound, errorCode(t, result))

	stored, err := store.Events().FindAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestCreateEventRejectsBadInput(t *testing.T) {
	schema, _ := newSchema(t)

	created := execute(t, schema, `mutation {
		createUser(userInput: {email: "a@b.com", password: "long enough pw"}) { id }
	}`, nil)
	require.Empty(t, created.Errors)
	creatorID := created.Data.(map[string]interface{})["createUser"].(map[string]interface{})["id"].(string)

	mutation := `mutation($input: EventInput!, $creator: ID!) {
		createEvent(eventInput: $input, creatorId: $creator) { id }
	}`

	badDate := execute(t, schema, mutation, map[string]interface{}{
		"input": map[string]interface{}{
			"title":       "Concert",
			"description": "Bad date",
			"price":       1.0,
			"date":        "whenever",
		},
		"creator": creatorID,
	})
	require.Equal(t, CodeInvalidInput, errorCode(t, badDate))

	badCreator := execute(t, schema, mutation, map[string]interface{}{
		"input": map[string]interface{}{
			"title":       "Concert",
			"description": "Bad creator id",
			"price":       1.0,
			"date":        "2024-01-01",
		},
		"creator": "not-a-hex-id",
	})
	require.Equal(t, CodeInvalidInput, errorCode(t, badCreator))
}

func TestDanglingCreatorFailsRead(t *testing.T) {
	schema, store := newSchema(t)

	// an event whose creator was never stored; expanding it is an error, not
	// a silent null
	_, err := store.Events().Insert(context.Background(), events.Event{
		Title:       "Orphan",
		Description: "No creator",
		Price:       0,
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Creator:     primitive.NewObjectID(),
	})
	require.NoError(t, err)

	result := execute(t, schema, `{ events { id creator { id } } }`, nil)

	require.Equal(t, CodeNotFound, errorCode(t, result))
}
