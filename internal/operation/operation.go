// Package operation synthesizes gateway API operation definitions from
// function trigger bindings.
package operation

import (
	"encoding/binary"
	"encoding/hex"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gatewaylabs/apimport/internal/identifier"
	"github.com/gatewaylabs/apimport/internal/route"
)

// Definition is one gateway API operation, ready to be registered against
// the management plane.
type Definition struct {
	ID                 string            `json:"id,omitempty"`
	Name               string            `json:"name,omitempty"`
	DisplayName        string            `json:"displayName"`
	Method             string            `json:"method"`
	Description        string            `json:"description"`
	URLTemplate        string            `json:"urlTemplate"`
	TemplateParameters []route.Parameter `json:"templateParameters,omitempty"`
}

// IDGenerator produces fallback identifiers for operations created without
// a caller-supplied one. Injectable so tests can supply deterministic ids.
type IDGenerator func() string

// NewID generates a 24-hex-character token: a 4-byte wall-clock prefix
// followed by 8 bytes of non-cryptographic randomness.
func NewID() string {
	var buf [12]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(time.Now().Unix()))
	binary.BigEndian.PutUint64(buf[4:], rand.Uint64())
	return hex.EncodeToString(buf[:])
}

// New builds a Definition for the given API. When operationID is empty, ID
// and Name fall back to a generated token; when displayName is empty it
// falls back to the same token.
func New(apiID, operationID, displayName, method string, tmpl route.Template, gen IDGenerator) Definition {
	if gen == nil {
		gen = NewID
	}
	name := operationID
	if name == "" {
		name = gen()
	}
	if displayName == "" {
		displayName = name
	}
	return Definition{
		ID:                 apiID + "/operations/" + name,
		Name:               name,
		DisplayName:        displayName,
		Method:             method,
		URLTemplate:        tmpl.CleanTemplate,
		TemplateParameters: tmpl.Parameters,
	}
}

// Synthesize turns one trigger's routing configuration into operation
// definitions. A non-empty methods list fans out into one operation per
// HTTP method named {method}-{trigger}; otherwise a single POST operation
// named after the trigger is produced. All operations share the parsed
// route template.
func Synthesize(apiID, triggerName string, methods []string, routeTemplate string, gen IDGenerator) []Definition {
	tmpl := route.Parse(routeTemplate)

	if len(methods) == 0 {
		opID := identifier.Normalize(triggerName)
		return []Definition{New(apiID, opID, triggerName, http.MethodPost, tmpl, gen)}
	}

	defs := make([]Definition, 0, len(methods))
	for _, method := range methods {
		opID := identifier.Normalize(method + "-" + triggerName)
		defs = append(defs, New(apiID, opID, triggerName, strings.ToUpper(method), tmpl, gen))
	}
	return defs
}
