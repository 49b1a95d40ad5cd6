// Package funcapp is the client for the function management plane: it
// lists a function app's functions, reads their trigger bindings, and
// manages admin-scoped host keys.
package funcapp

import (
	"fmt"
	"strings"
)

// FunctionApp identifies one function app on the management plane.
type FunctionApp struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RuntimeHost string `json:"runtimeHost"`
}

// FunctionEnvelope is one function of a function app as returned by the
// management plane.
type FunctionEnvelope struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Properties FunctionProperties `json:"properties"`
}

// FunctionProperties carries the function's routing configuration and the
// URL of its per-function config document.
type FunctionProperties struct {
	Name       string         `json:"name"`
	ConfigHref string         `json:"config_href"`
	Config     FunctionConfig `json:"config"`
}

// FunctionConfig holds the function's bindings.
type FunctionConfig struct {
	Bindings []Binding `json:"bindings"`
}

// Binding is one input or output connection of a function. The inbound
// binding drives HTTP routing.
type Binding struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Direction string   `json:"direction,omitempty"`
	Route     string   `json:"route,omitempty"`
	Methods   []string `json:"methods,omitempty"`
	AuthLevel string   `json:"authLevel,omitempty"`
}

// InboundBinding returns the function's inbound binding: the first binding
// with no direction or direction "in". Returns nil when the function has
// none.
func (c FunctionConfig) InboundBinding() *Binding {
	for i := range c.Bindings {
		if c.Bindings[i].Direction == "" || c.Bindings[i].Direction == "in" {
			return &c.Bindings[i]
		}
	}
	return nil
}

// ShortName returns the function's bare name. The envelope name may be
// qualified as {app}/{function}; the properties name, when present, already
// is the bare form.
func (f FunctionEnvelope) ShortName() string {
	if f.Properties.Name != "" {
		return f.Properties.Name
	}
	if i := strings.LastIndex(f.Name, "/"); i >= 0 {
		return f.Name[i+1:]
	}
	return f.Name
}

// HostKey is one named access key of a function app.
type HostKey struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HostKeys is the key list returned by the runtime's admin endpoint.
type HostKeys struct {
	Keys []HostKey `json:"keys"`
}

// HostConfig is the host-level routing configuration. The HTTP section and
// its route prefix are both optional; an absent prefix and an explicitly
// empty one mean different things to the importer.
type HostConfig struct {
	HTTP *HTTPConfig `json:"http,omitempty"`
}

// HTTPConfig is the http section of the host config.
type HTTPConfig struct {
	RoutePrefix *string `json:"routePrefix,omitempty"`
}

// HostConfigURL derives the host-level config URL from a per-function
// config URL by replacing the trailing /functions/{name} segment with
// /functions/config.
func HostConfigURL(functionConfigURL string) (string, error) {
	parts := strings.Split(functionConfigURL, "/functions/")
	if len(parts) != 2 {
		return "", fmt.Errorf("unexpected function config URL %q: want exactly one /functions/ segment", functionConfigURL)
	}
	return parts[0] + "/functions/config", nil
}
