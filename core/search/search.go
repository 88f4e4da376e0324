// Package search provides the search capability over elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/module"
)

// ErrDisabled is returned when no ELASTICSEARCH_ADDRESSES are configured.
var ErrDisabled = errors.New("search: elasticsearch not configured")

const defaultPageSize = 20

// Module provides the search capability.
type Module struct {
	host   module.Host
	client *elasticsearch.Client
	prefix string
}

// New returns the search module.
func New(host module.Host) *Module {
	return &Module{host: host}
}

func (m *Module) Provides() []module.Capability { return []module.Capability{module.CapSearch} }
func (m *Module) Depends() []module.Capability  { return []module.Capability{module.CapConfig} }

// Init builds the client. It does not contact the cluster; use Ping.
func (m *Module) Init(_ context.Context) error {
	cfgModule, err := module.Lookup[*config.Module](m.host, module.CapConfig)
	if err != nil {
		return err
	}
	cfg := cfgModule.Config()
	m.prefix = cfg.AppName
	if len(cfg.Search.Addresses) == 0 {
		m.host.Logger().Debug("search disabled")
		return nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Search.Addresses,
		Username:  cfg.Search.Username,
		Password:  cfg.Search.Password,
	})
	if err != nil {
		return fmt.Errorf("elasticsearch client: %w", err)
	}
	m.client = client
	m.host.Logger().Info("search configured", "addresses", cfg.Search.Addresses)
	return nil
}

// Enabled reports whether a client is configured.
func (m *Module) Enabled() bool {
	return m.client != nil
}

// Client returns the elasticsearch client, nil when disabled.
func (m *Module) Client() *elasticsearch.Client {
	return m.client
}

// Index returns the prefixed name of an index.
func (m *Module) Index(name string) string {
	return m.prefix + "_" + name
}

// Ping checks that the cluster answers.
func (m *Module) Ping(ctx context.Context) error {
	if m.client == nil {
		return ErrDisabled
	}
	res, err := m.client.Ping(m.client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}
	return nil
}

// Query is a full-text search over fields of one index.
type Query struct {
	Index    string
	Text     string
	Fields   []string
	Page     int
	PageSize int
}

// Result holds the matched documents of one page.
type Result struct {
	Total int
	Hits  []map[string]any
}

// Search runs a multi_match query against the prefixed index.
func (m *Module) Search(ctx context.Context, q Query) (*Result, error) {
	if m.client == nil {
		return nil, ErrDisabled
	}
	size := q.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	match := map[string]any{"query": q.Text}
	if len(q.Fields) > 0 {
		match["fields"] = q.Fields
	}
	body, err := json.Marshal(map[string]any{
		"from":  (page - 1) * size,
		"size":  size,
		"query": map[string]any{"multi_match": match},
	})
	if err != nil {
		return nil, err
	}

	res, err := m.client.Search(
		m.client.Search.WithContext(ctx),
		m.client.Search.WithIndex(m.Index(q.Index)),
		m.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, err
	}
	out := &Result{Total: esResp.Hits.Total.Value}
	for _, hit := range esResp.Hits.Hits {
		out.Hits = append(out.Hits, hit.Source)
	}
	return out, nil
}
