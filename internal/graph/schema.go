// Package graph defines the GraphQL schema and resolvers for the event
// management API: two queries (events, users) and two mutations (createEvent,
// createUser).
package graph

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
)

// NewSchema builds the executable schema around the resolver
func NewSchema(r *Resolver) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"email":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.Field{Type: graphql.String},
		},
	})

	eventType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Event",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"date":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"creator": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Resolve: r.instrument("Event.creator", r.eventCreator),
			},
		},
	})

	// Event and User reference each other; the list field is attached after
	// both objects exist.
	userType.AddFieldConfig("createdEvents", &graphql.Field{
		Type:    graphql.NewList(graphql.NewNonNull(eventType)),
		Resolve: r.instrument("User.createdEvents", r.userCreatedEvents),
	})

	eventInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "EventInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"price":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"date":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	userInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"events": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(eventType))),
				Resolve: r.instrument("events", r.listEvents),
			},
			"users": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Resolve: r.instrument("users", r.listUsers),
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootMutation",
		Fields: graphql.Fields{
			"createEvent": &graphql.Field{
				Type: eventType,
				Args: graphql.FieldConfigArgument{
					"eventInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(eventInputType)},
					"creatorId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.instrument("createEvent", r.createEvent),
			},
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"userInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userInputType)},
				},
				Resolve: r.instrument("createUser", r.createUser),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// NewHandler binds the schema to HTTP. Resolver errors stay in-band as GraphQL
// error entries; the response status is 200.
func NewHandler(schema *graphql.Schema, enableGraphiQL bool) http.Handler {
	return handler.New(&handler.Config{
		Schema:   schema,
		Pretty:   true,
		GraphiQL: enableGraphiQL,
	})
}
