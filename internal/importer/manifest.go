package importer

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes a batch of imports loaded from a YAML file, for
// running the importer non-interactively.
type Manifest struct {
	Imports []ManifestEntry `yaml:"imports"`
}

// ManifestEntry is one function-app-to-API import.
type ManifestEntry struct {
	FunctionAppID   string   `yaml:"function_app_id"`
	FunctionAppName string   `yaml:"function_app_name"`
	RuntimeHost     string   `yaml:"runtime_host"`
	APIID           string   `yaml:"api_id"`
	Triggers        []string `yaml:"triggers"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest structure.
func (m *Manifest) Validate() error {
	if len(m.Imports) == 0 {
		return errors.New("manifest: at least one import is required")
	}
	for i, e := range m.Imports {
		if e.FunctionAppID == "" {
			return fmt.Errorf("manifest: import %d: function_app_id is required", i)
		}
		if e.FunctionAppName == "" {
			return fmt.Errorf("manifest: import %d: function_app_name is required", i)
		}
		if e.RuntimeHost == "" {
			return fmt.Errorf("manifest: import %d: runtime_host is required", i)
		}
		if e.APIID == "" {
			return fmt.Errorf("manifest: import %d: api_id is required", i)
		}
	}
	return nil
}

// Request converts a manifest entry into an import request.
func (e ManifestEntry) Request() Request {
	return Request{
		FunctionAppID:   e.FunctionAppID,
		FunctionAppName: e.FunctionAppName,
		TriggerNames:    e.Triggers,
		APIID:           e.APIID,
		RuntimeHost:     e.RuntimeHost,
	}
}
