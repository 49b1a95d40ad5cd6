package funcapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gatewaylabs/apimport/internal/transport"
)

// Client talks to the function management plane.
type Client struct {
	base string
	http *transport.Client
}

// NewClient creates a Client rooted at the management plane's base URL.
func NewClient(baseURL string, t *transport.Client) *Client {
	return &Client{
		base: strings.TrimSuffix(baseURL, "/"),
		http: t,
	}
}

// page is the envelope the management plane wraps list results in. A
// non-empty nextLink points at the next page.
type page[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"nextLink,omitempty"`
}

// ListFunctionApps returns every function app visible to the client,
// following pagination until exhausted.
func (c *Client) ListFunctionApps(ctx context.Context) ([]FunctionApp, error) {
	apps, err := listAll[FunctionApp](ctx, c.http, c.base+"/functionApps")
	if err != nil {
		return nil, fmt.Errorf("listing function apps: %w", err)
	}
	return apps, nil
}

// ListFunctions returns the function app's full function list, following
// pagination until exhausted and concatenating pages in order.
func (c *Client) ListFunctions(ctx context.Context, functionAppID string) ([]FunctionEnvelope, error) {
	funcs, err := listAll[FunctionEnvelope](ctx, c.http, c.base+functionAppID+"/functions")
	if err != nil {
		return nil, fmt.Errorf("listing functions: %w", err)
	}
	return funcs, nil
}

// AdminToken obtains an admin-scoped access token for the function app.
func (c *Client) AdminToken(ctx context.Context, functionAppID string) (string, error) {
	var token string
	url := c.base + functionAppID + "/functions/admin/token"
	if err := c.http.Get(ctx, url, &token); err != nil {
		return "", fmt.Errorf("fetching admin token: %w", err)
	}
	return token, nil
}

// HostKeys reads the function app's host-level keys from its runtime admin
// endpoint.
func (c *Client) HostKeys(ctx context.Context, runtimeHost, bearer string) (HostKeys, error) {
	var keys HostKeys
	url := "https://" + runtimeHost + "/admin/host/keys"
	if err := c.http.Get(ctx, url, &keys, transport.WithBearer(bearer)); err != nil {
		return HostKeys{}, fmt.Errorf("fetching host keys: %w", err)
	}
	return keys, nil
}

// CreateHostKey mints a host key with the given name on the runtime admin
// endpoint and returns it.
func (c *Client) CreateHostKey(ctx context.Context, runtimeHost, keyName, bearer string) (HostKey, error) {
	var key HostKey
	url := "https://" + runtimeHost + "/admin/host/keys/" + keyName
	if err := c.http.Post(ctx, url, nil, &key, transport.WithBearer(bearer)); err != nil {
		return HostKey{}, fmt.Errorf("creating host key %q: %w", keyName, err)
	}
	return key, nil
}

// HostConfig fetches the host-level routing configuration. The URL is
// derived from a per-function config URL; a URL that does not contain
// exactly one /functions/ segment is an error.
func (c *Client) HostConfig(ctx context.Context, functionConfigURL, bearer string) (HostConfig, error) {
	url, err := HostConfigURL(functionConfigURL)
	if err != nil {
		return HostConfig{}, err
	}
	var cfg HostConfig
	if err := c.http.Get(ctx, url, &cfg, transport.WithBearer(bearer)); err != nil {
		return HostConfig{}, fmt.Errorf("fetching host config: %w", err)
	}
	return cfg, nil
}

func listAll[T any](ctx context.Context, client *transport.Client, url string) ([]T, error) {
	var all []T
	for url != "" {
		var p page[T]
		if err := client.Do(ctx, http.MethodGet, url, nil, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Value...)
		url = p.NextLink
	}
	return all, nil
}
