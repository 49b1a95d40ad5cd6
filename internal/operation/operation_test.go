package operation

import (
	"encoding/hex"
	"testing"

	"github.com/gatewaylabs/apimport/internal/route"
)

const apiID = "/apis/orders-api"

func TestSynthesizeMethodFanOut(t *testing.T) {
	defs := Synthesize(apiID, "HttpTrigger1", []string{"GET", "POST"}, "/orders/{id:int}", nil)

	if len(defs) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(defs))
	}

	if defs[0].Name != "get-httptrigger1" {
		t.Errorf("first operation id = %q, want %q", defs[0].Name, "get-httptrigger1")
	}
	if defs[1].Name != "post-httptrigger1" {
		t.Errorf("second operation id = %q, want %q", defs[1].Name, "post-httptrigger1")
	}
	if defs[0].Method != "GET" || defs[1].Method != "POST" {
		t.Errorf("methods = %q/%q", defs[0].Method, defs[1].Method)
	}

	for _, def := range defs {
		if def.URLTemplate != "/orders/{id}" {
			t.Errorf("urlTemplate = %q, want %q", def.URLTemplate, "/orders/{id}")
		}
		if len(def.TemplateParameters) != 1 || def.TemplateParameters[0].Type != route.TypeInteger {
			t.Errorf("templateParameters = %+v", def.TemplateParameters)
		}
		if def.DisplayName != "HttpTrigger1" {
			t.Errorf("displayName = %q", def.DisplayName)
		}
		if def.ID != apiID+"/operations/"+def.Name {
			t.Errorf("id = %q", def.ID)
		}
		if def.Description != "" {
			t.Errorf("description should be empty, got %q", def.Description)
		}
	}
}

func TestSynthesizeDefaultsToPost(t *testing.T) {
	defs := Synthesize(apiID, "QueueDrain", nil, "QueueDrain", nil)

	if len(defs) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(defs))
	}
	def := defs[0]
	if def.Method != "POST" {
		t.Errorf("method = %q, want POST", def.Method)
	}
	if def.Name != "queuedrain" {
		t.Errorf("name = %q, want queuedrain", def.Name)
	}
	if def.URLTemplate != "QueueDrain" {
		t.Errorf("urlTemplate = %q", def.URLTemplate)
	}
}

func TestSynthesizeLowercaseMethods(t *testing.T) {
	defs := Synthesize(apiID, "Hook", []string{"put"}, "/hook", nil)

	if defs[0].Method != "PUT" {
		t.Errorf("method = %q, want PUT", defs[0].Method)
	}
	if defs[0].Name != "put-hook" {
		t.Errorf("name = %q, want put-hook", defs[0].Name)
	}
}

func TestNewFallsBackToGeneratedID(t *testing.T) {
	gen := func() string { return "0123456789abcdef01234567" }
	def := New(apiID, "", "", "GET", route.Template{CleanTemplate: "/x"}, gen)

	if def.Name != "0123456789abcdef01234567" {
		t.Errorf("name = %q", def.Name)
	}
	if def.DisplayName != def.Name {
		t.Errorf("displayName should fall back to the generated token, got %q", def.DisplayName)
	}
	if def.ID != apiID+"/operations/0123456789abcdef01234567" {
		t.Errorf("id = %q", def.ID)
	}
}

func TestNewID(t *testing.T) {
	id := NewID()
	if len(id) != 24 {
		t.Fatalf("expected 24 hex characters, got %d (%q)", len(id), id)
	}
	if _, err := hex.DecodeString(id); err != nil {
		t.Errorf("id is not hex: %v", err)
	}
	if NewID() == id {
		t.Error("consecutive ids should differ")
	}
}
