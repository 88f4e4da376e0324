package graphql

import (
	_ "embed"
)

//go:embed schema.graphqls
var schemaSDL string

// Schema returns the GraphQL schema served on /graphql.
func Schema() string {
	return schemaSDL
}
