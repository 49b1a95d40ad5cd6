package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gatewaylabs/apimport/internal/funcapp"
	"github.com/gatewaylabs/apimport/internal/gateway"
	"github.com/gatewaylabs/apimport/internal/transport"
)

// scriptedPrompter answers prompts with pre-seeded choices, recording the
// titles it was asked.
type scriptedPrompter struct {
	selections map[string]string
	multi      map[string][]string
	asked      []string
}

func (p *scriptedPrompter) Select(title string, options []choice) (string, error) {
	p.asked = append(p.asked, title)
	return p.selections[title], nil
}

func (p *scriptedPrompter) MultiSelect(title string, options []choice) ([]string, error) {
	p.asked = append(p.asked, title)
	return p.multi[title], nil
}

func resetImportFlags(t *testing.T) {
	t.Helper()
	importApp, importAppName, importHost, importAPI = "", "", "", ""
	importTriggers = nil
	importManifest = ""
}

func newTestClients(t *testing.T, handler http.Handler) (*funcapp.Client, *gateway.Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tr := transport.New(transport.Options{})
	return funcapp.NewClient(srv.URL, tr), gateway.NewClient(srv.URL, tr)
}

func TestResolveRequestFromFlags(t *testing.T) {
	resetImportFlags(t)
	importApp = "/apps/orders"
	importHost = "orders.example.net"
	importAPI = "/apis/orders"
	importTriggers = []string{"HttpTrigger1"}

	p := &scriptedPrompter{}
	inspector, provisioner := newTestClients(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))

	req, err := resolveRequest(context.Background(), inspector, provisioner, p)
	require.NoError(t, err)
	require.Equal(t, "/apps/orders", req.FunctionAppID)
	require.Equal(t, "orders", req.FunctionAppName) // derived from the id
	require.Equal(t, []string{"HttpTrigger1"}, req.TriggerNames)
	require.Empty(t, p.asked, "fully specified flags should not prompt")
}

func TestResolveRequestRequiresHostWithApp(t *testing.T) {
	resetImportFlags(t)
	importApp = "/apps/orders"
	importAPI = "/apis/orders"
	importTriggers = []string{"HttpTrigger1"}

	inspector, provisioner := newTestClients(t, http.NotFoundHandler())
	_, err := resolveRequest(context.Background(), inspector, provisioner, &scriptedPrompter{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "--host")
}

func TestResolveRequestInteractive(t *testing.T) {
	resetImportFlags(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/functionApps", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"value": []funcapp.FunctionApp{
			{ID: "/apps/orders", Name: "orders", RuntimeHost: "orders.example.net"},
			{ID: "/apps/billing", Name: "billing", RuntimeHost: "billing.example.net"},
		}})
	})
	mux.HandleFunc("/apis", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"value": []gateway.API{
			{ID: "/apis/orders", Name: "orders", DisplayName: "Orders API"},
		}})
	})
	mux.HandleFunc("/apps/orders/functions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"value": []funcapp.FunctionEnvelope{
			{
				ID:   "/apps/orders/functions/HttpTrigger1",
				Name: "HttpTrigger1",
				Properties: funcapp.FunctionProperties{
					Config: funcapp.FunctionConfig{Bindings: []funcapp.Binding{
						{Type: "httpTrigger", Direction: "in", Name: "req"},
					}},
				},
			},
			{
				ID:   "/apps/orders/functions/TimerTick",
				Name: "TimerTick",
				Properties: funcapp.FunctionProperties{
					Config: funcapp.FunctionConfig{Bindings: []funcapp.Binding{
						{Type: "timerTrigger", Direction: "out", Name: "timer"},
					}},
				},
			},
		}})
	})

	inspector, provisioner := newTestClients(t, mux)
	p := &scriptedPrompter{
		selections: map[string]string{
			"Select a function app": "/apps/orders",
			"Select a target API":   "/apis/orders",
		},
		multi: map[string][]string{
			"Select triggers to import": {"HttpTrigger1"},
		},
	}

	req, err := resolveRequest(context.Background(), inspector, provisioner, p)
	require.NoError(t, err)
	require.Equal(t, "/apps/orders", req.FunctionAppID)
	require.Equal(t, "orders", req.FunctionAppName)
	require.Equal(t, "orders.example.net", req.RuntimeHost)
	require.Equal(t, "/apis/orders", req.APIID)
	require.Equal(t, []string{"HttpTrigger1"}, req.TriggerNames)
	require.Len(t, p.asked, 3)
}

func TestLastSegment(t *testing.T) {
	require.Equal(t, "orders", lastSegment("/apps/orders"))
	require.Equal(t, "orders", lastSegment("orders"))
	require.Equal(t, "", lastSegment("/apps/"))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "exactly", truncate("exactly", 7))
	require.Equal(t, "long...", truncate("longstring", 7))
}
