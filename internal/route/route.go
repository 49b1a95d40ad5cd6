// Package route parses attribute-routing templates of the form
// /orders/{id:int}/{*rest?} into a normalized URL template and a typed
// parameter list suitable for a gateway operation definition.
package route

import (
	"regexp"
	"strings"
)

// ParamType is the OpenAPI-style primitive type of a template parameter.
// The empty string means unconstrained.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
	TypeNone    ParamType = ""
)

// Parameter describes one parameter parsed from a route template segment.
type Parameter struct {
	Name         string    `json:"name"`
	Type         ParamType `json:"type,omitempty"`
	Required     bool      `json:"required"`
	DefaultValue string    `json:"defaultValue,omitempty"`
}

// Template is the result of parsing a route template. CleanTemplate keeps
// every literal character of the source verbatim with each parameter
// segment rewritten as {name}; Parameters holds the parsed specs in source
// order.
type Template struct {
	CleanTemplate string
	Parameters    []Parameter
}

// Parse scans template left to right, tracking brace depth so that only the
// outermost brace pair of a segment delimits a parameter. Malformed input
// never fails: unbalanced braces and empty {} bodies are carried through as
// literal text.
func Parse(template string) Template {
	var (
		out    strings.Builder
		params []Parameter
		depth  int
		start  int
		flush  int
	)

	for i, c := range template {
		switch c {
		case '{':
			if depth == 0 {
				out.WriteString(template[flush:i])
				flush = i
				start = i + 1
			}
			depth++
		case '}':
			if depth == 0 {
				// Stray close brace stays literal.
				continue
			}
			depth--
			if depth == 0 && start < i {
				p := parseParameter(template[start:i])
				out.WriteString("{" + p.Name + "}")
				params = append(params, p)
				flush = i + 1
			}
		}
	}
	out.WriteString(template[flush:])

	return Template{CleanTemplate: out.String(), Parameters: params}
}

// delimiters separate the parameter name from its constraint, default
// value, and optional marker.
var delimiters = regexp.MustCompile(`[:=?]`)

// parseParameter parses the text captured between one matched brace pair,
// braces excluded.
func parseParameter(raw string) Parameter {
	segments := delimiters.Split(raw, 3)

	// A leading * marks a catch-all parameter; it is stripped from the name
	// but changes nothing else.
	name := strings.TrimPrefix(segments[0], "*")

	p := Parameter{
		Name:     name,
		Required: !strings.HasSuffix(raw, "?"),
	}

	// The constraint token exists only when the first delimiter is a colon.
	if len(segments) > 1 && strings.HasPrefix(raw[len(segments[0]):], ":") {
		p.Type = constraintType(segments[1])
	}

	// The default value is the text between the first and second equals
	// sign, with a combined optional marker stripped.
	if parts := strings.SplitN(raw, "=", 3); len(parts) > 1 {
		p.DefaultValue = strings.TrimSuffix(parts[1], "?")
	}

	return p
}

// exactConstraints maps routing constraint tokens to parameter types.
var exactConstraints = map[string]ParamType{
	"alpha":    TypeString,
	"datetime": TypeString,
	"guid":     TypeString,
	"decimal":  TypeNumber,
	"float":    TypeNumber,
	"double":   TypeNumber,
	"int":      TypeInteger,
	"long":     TypeInteger,
	"bool":     TypeBoolean,
}

// constraintType maps a constraint token to a parameter type: exact match
// first, then a prefix match for parameterized constraints, otherwise
// unconstrained.
func constraintType(token string) ParamType {
	if t, ok := exactConstraints[token]; ok {
		return t
	}
	switch {
	case hasAnyPrefix(token, "length(", "maxlength(", "minlength(", "regex("):
		return TypeString
	case hasAnyPrefix(token, "min(", "max(", "range("):
		return TypeInteger
	}
	return TypeNone
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
