// Package internal documents the event booking server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP routing and middleware
// - graph: GraphQL schema, resolvers, and response projection
// - domain: business logic for users and events
// - storage: MongoDB repositories and the in-memory test store
// - config, metrics, telemetry: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
