// Package graphql provides the graphql capability: a read-only GraphQL view of
// the application's modules served on the http module.
package graphql

import (
	"context"
	"encoding/json"
	"net/http"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/labstack/echo/v4"

	"github.com/kendraSO/site/api"
	"github.com/kendraSO/site/core/module"
)

// Module provides the graphql capability.
type Module struct {
	host   module.Host
	schema *gql.Schema
}

// New returns the graphql module.
func New(host module.Host) *Module {
	return &Module{host: host}
}

func (m *Module) Provides() []module.Capability { return []module.Capability{module.CapGraphQL} }
func (m *Module) Depends() []module.Capability  { return []module.Capability{module.CapHTTP} }

// Init parses the schema and mounts /graphql on the http module.
func (m *Module) Init(_ context.Context) error {
	schema, err := NewSchema(m.host)
	if err != nil {
		return err
	}
	httpModule, err := module.Lookup[*api.Module](m.host, module.CapHTTP)
	if err != nil {
		return err
	}
	m.schema = schema
	lockExtensions()

	e := httpModule.Echo()
	e.POST("/graphql", echo.WrapHandler(&relay.Handler{Schema: schema}))
	e.GET("/graphql", m.get)
	m.host.Logger().Debug("graphql mounted", "path", "/graphql", "extensions", len(ExtensionNames()))
	return nil
}

// NewSchema parses the schema with a resolver bound to host.
func NewSchema(host module.Host) (*gql.Schema, error) {
	return gql.ParseSchema(Schema(), &rootResolver{host: host}, gql.UseFieldResolvers())
}

// Schema returns the parsed schema. It is nil before Init.
func (m *Module) Schema() *gql.Schema {
	return m.schema
}

// get serves GET /graphql?query=...&variables=... .
func (m *Module) get(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query")
	}
	var variables map[string]any
	if v := c.QueryParam("variables"); v != "" {
		if err := json.Unmarshal([]byte(v), &variables); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid variables")
		}
	}
	res := m.schema.Exec(c.Request().Context(), query, c.QueryParam("operationName"), variables)
	return c.JSON(http.StatusOK, res)
}
