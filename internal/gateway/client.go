package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gatewaylabs/apimport/internal/operation"
	"github.com/gatewaylabs/apimport/internal/transport"
)

// Client talks to the gateway management plane. All writes are PUTs and are
// create-or-update: re-importing a function app overwrites the previous
// property, backend, and operations instead of erroring.
type Client struct {
	base string
	http *transport.Client
}

// NewClient creates a Client rooted at the gateway management plane's base
// URL.
func NewClient(baseURL string, t *transport.Client) *Client {
	return &Client{
		base: strings.TrimSuffix(baseURL, "/"),
		http: t,
	}
}

type page[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"nextLink,omitempty"`
}

// ListAPIs returns every API on the gateway, following pagination until
// exhausted.
func (c *Client) ListAPIs(ctx context.Context) ([]API, error) {
	var apis []API
	url := c.base + "/apis"
	for url != "" {
		var p page[API]
		if err := c.http.Do(ctx, http.MethodGet, url, nil, &p); err != nil {
			return nil, fmt.Errorf("listing apis: %w", err)
		}
		apis = append(apis, p.Value...)
		url = p.NextLink
	}
	return apis, nil
}

// PutProperty creates or updates a named value.
func (c *Client) PutProperty(ctx context.Context, name string, p Property) error {
	url := c.base + "/properties/" + name
	if err := c.http.Put(ctx, url, p, nil); err != nil {
		return fmt.Errorf("creating property %q: %w", name, err)
	}
	return nil
}

// PutBackend creates or updates a backend entity.
func (c *Client) PutBackend(ctx context.Context, id string, b Backend) error {
	url := c.base + "/backends/" + id
	if err := c.http.Put(ctx, url, b, nil); err != nil {
		return fmt.Errorf("creating backend %q: %w", id, err)
	}
	return nil
}

// PutOperation registers an operation against the gateway API.
func (c *Client) PutOperation(ctx context.Context, apiID string, def operation.Definition) error {
	url := c.base + apiID + "/operations/" + def.Name
	if err := c.http.Put(ctx, url, def, nil); err != nil {
		return fmt.Errorf("creating operation %q: %w", def.Name, err)
	}
	return nil
}

// PutOperationPolicy attaches a policy document to one operation.
func (c *Client) PutOperationPolicy(ctx context.Context, apiID, operationID, policyXML string) error {
	url := c.base + apiID + "/operations/" + operationID + "/policy"
	body := Policy{Format: "xml", Value: policyXML}
	if err := c.http.Put(ctx, url, body, nil); err != nil {
		return fmt.Errorf("creating policy for operation %q: %w", operationID, err)
	}
	return nil
}
