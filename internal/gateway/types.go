// Package gateway is the client for the API-management gateway's
// management plane: named-value properties, backends, operations, and
// operation policies.
package gateway

// API identifies one gateway API.
type API struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Path        string `json:"path,omitempty"`
}

// Property is a gateway named value. Secret properties hold credentials and
// are referenced elsewhere as {{name}}.
type Property struct {
	DisplayName string   `json:"displayName"`
	Value       string   `json:"value"`
	Secret      bool     `json:"secret"`
	Tags        []string `json:"tags,omitempty"`
}

// Backend describes the real network endpoint operations forward to.
type Backend struct {
	URL         string       `json:"url"`
	Protocol    string       `json:"protocol"`
	Description string       `json:"description,omitempty"`
	Credentials *Credentials `json:"credentials,omitempty"`
}

// Credentials is the credential material the gateway injects when calling
// the backend.
type Credentials struct {
	Query  map[string][]string `json:"query,omitempty"`
	Header map[string][]string `json:"header,omitempty"`
}

// Policy is an operation-scoped policy document.
type Policy struct {
	Format string `json:"format"`
	Value  string `json:"value"`
}
