// Package importer sequences the import of one function app's HTTP
// triggers into one gateway API: list functions, synthesize operations,
// provision the backend credential, and register operations and policies.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog"

	"github.com/gatewaylabs/apimport/internal/funcapp"
	"github.com/gatewaylabs/apimport/internal/gateway"
	"github.com/gatewaylabs/apimport/internal/identifier"
	"github.com/gatewaylabs/apimport/internal/operation"
)

// State identifies the orchestrator's position within an import run.
type State string

const (
	StateIdle         State = "idle"
	StateListing      State = "listing"
	StateSynthesizing State = "synthesizing"
	StateProvisioning State = "provisioning"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// defaultRoutePrefix applies when the host config is missing an http
// section or leaves the prefix unset. An explicitly empty prefix stays
// empty.
const defaultRoutePrefix = "/api"

// propertyTags marks imported key properties so they can be told apart from
// hand-managed named values.
var propertyTags = []string{"key", "function", "auto"}

// Inspector is the function management plane surface the importer consumes.
type Inspector interface {
	ListFunctions(ctx context.Context, functionAppID string) ([]funcapp.FunctionEnvelope, error)
	AdminToken(ctx context.Context, functionAppID string) (string, error)
	HostKeys(ctx context.Context, runtimeHost, bearer string) (funcapp.HostKeys, error)
	CreateHostKey(ctx context.Context, runtimeHost, keyName, bearer string) (funcapp.HostKey, error)
	HostConfig(ctx context.Context, functionConfigURL, bearer string) (funcapp.HostConfig, error)
}

// Provisioner is the gateway management plane surface the importer consumes.
type Provisioner interface {
	PutProperty(ctx context.Context, name string, p gateway.Property) error
	PutBackend(ctx context.Context, id string, b gateway.Backend) error
	PutOperation(ctx context.Context, apiID string, def operation.Definition) error
	PutOperationPolicy(ctx context.Context, apiID, operationID, policyXML string) error
}

// Request identifies one function app to import into one gateway API.
type Request struct {
	FunctionAppID   string
	FunctionAppName string
	// TriggerNames selects which functions to import. Names containing glob
	// metacharacters are matched as patterns. Empty means nothing to
	// import: the run completes without touching either management plane.
	TriggerNames []string
	APIID        string
	RuntimeHost  string
}

// Result summarizes a finished run.
type Result struct {
	State      State
	Operations []operation.Definition
	BackendID  string
}

// Importer runs import requests against injected management-plane clients.
// Each run holds its own state; one Importer may serve concurrent runs.
type Importer struct {
	inspector   Inspector
	provisioner Provisioner
	newID       operation.IDGenerator
	log         zerolog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithIDGenerator overrides the fallback operation id generator.
func WithIDGenerator(gen operation.IDGenerator) Option {
	return func(im *Importer) { im.newID = gen }
}

// WithLogger sets the run logger.
func WithLogger(log zerolog.Logger) Option {
	return func(im *Importer) { im.log = log }
}

// New creates an Importer.
func New(inspector Inspector, provisioner Provisioner, opts ...Option) *Importer {
	im := &Importer{
		inspector:   inspector,
		provisioner: provisioner,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// run tracks one import's progress.
type run struct {
	state State
	log   zerolog.Logger
}

func (r *run) transition(s State) {
	r.log.Debug().Str("from", string(r.state)).Str("to", string(s)).Msg("import state")
	r.state = s
}

// Import executes one import run. The first collaborator failure aborts the
// run; gateway objects created before the failure are left in place.
func (im *Importer) Import(ctx context.Context, req Request) (*Result, error) {
	r := &run{
		state: StateIdle,
		log: im.log.With().
			Str("function_app", req.FunctionAppName).
			Str("api", req.APIID).
			Logger(),
	}

	result, err := im.execute(ctx, r, req)
	if err != nil {
		r.transition(StateFailed)
		return &Result{State: StateFailed}, err
	}
	return result, nil
}

func (im *Importer) execute(ctx context.Context, r *run, req Request) (*Result, error) {
	if len(req.TriggerNames) == 0 {
		r.transition(StateDone)
		r.log.Info().Msg("no triggers requested, nothing to import")
		return &Result{State: StateDone}, nil
	}

	r.transition(StateListing)
	matched, err := im.listMatching(ctx, req)
	if err != nil {
		return nil, err
	}

	r.transition(StateSynthesizing)
	ops, configHref := im.synthesize(req, matched)
	if len(ops) == 0 {
		r.transition(StateDone)
		r.log.Info().Msg("no matching trigger functions, nothing to import")
		return &Result{State: StateDone}, nil
	}
	r.log.Info().Int("operations", len(ops)).Msg("synthesized operations")

	r.transition(StateProvisioning)
	backendID, err := im.provision(ctx, r, req, ops, configHref)
	if err != nil {
		return nil, err
	}

	r.transition(StateDone)
	return &Result{State: StateDone, Operations: ops, BackendID: backendID}, nil
}

// listMatching fetches the app's full function list and keeps those whose
// name matches a requested trigger.
func (im *Importer) listMatching(ctx context.Context, req Request) ([]funcapp.FunctionEnvelope, error) {
	funcs, err := im.inspector.ListFunctions(ctx, req.FunctionAppID)
	if err != nil {
		return nil, fmt.Errorf("listing functions of %s: %w", req.FunctionAppName, err)
	}

	matchers := compileMatchers(req.TriggerNames)
	var matched []funcapp.FunctionEnvelope
	for _, fn := range funcs {
		if matchesAny(matchers, fn.ShortName()) {
			matched = append(matched, fn)
		}
	}
	return matched, nil
}

// synthesize turns each matched function's inbound binding into operation
// definitions and remembers the first function's config URL for the later
// host-config fetch.
func (im *Importer) synthesize(req Request, matched []funcapp.FunctionEnvelope) ([]operation.Definition, string) {
	var (
		ops        []operation.Definition
		configHref string
	)
	for _, fn := range matched {
		binding := fn.Properties.Config.InboundBinding()
		if binding == nil {
			continue
		}
		name := fn.ShortName()
		routeTemplate := binding.Route
		if routeTemplate == "" {
			routeTemplate = name
		}
		ops = append(ops, operation.Synthesize(req.APIID, name, binding.Methods, routeTemplate, im.newID)...)
		if configHref == "" {
			configHref = fn.Properties.ConfigHref
		}
	}
	return ops, configHref
}

func (im *Importer) provision(ctx context.Context, r *run, req Request, ops []operation.Definition, configHref string) (string, error) {
	token, err := im.inspector.AdminToken(ctx, req.FunctionAppID)
	if err != nil {
		return "", fmt.Errorf("obtaining admin token: %w", err)
	}

	keyName := "apim-" + apiName(req.APIID)
	key, err := im.ensureHostKey(ctx, req.RuntimeHost, keyName, token)
	if err != nil {
		return "", err
	}

	prefix, err := im.routePrefix(ctx, configHref, token)
	if err != nil {
		return "", err
	}

	propertyName := identifier.Normalize(req.FunctionAppName + "-key")
	err = im.provisioner.PutProperty(ctx, propertyName, gateway.Property{
		DisplayName: propertyName,
		Value:       key.Value,
		Secret:      true,
		Tags:        propertyTags,
	})
	if err != nil {
		return "", fmt.Errorf("storing function key: %w", err)
	}

	backendID := identifier.Normalize(req.FunctionAppName)
	err = im.provisioner.PutBackend(ctx, backendID, gateway.Backend{
		URL:      "https://" + req.RuntimeHost + prefix,
		Protocol: "http",
		Credentials: &gateway.Credentials{
			Query: map[string][]string{"code": {"{{" + propertyName + "}}"}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("creating backend: %w", err)
	}

	policy := gateway.BackendPolicy(backendID)
	for _, op := range ops {
		if err := im.provisioner.PutOperation(ctx, req.APIID, op); err != nil {
			return "", fmt.Errorf("registering operation %s: %w", op.Name, err)
		}
		if err := im.provisioner.PutOperationPolicy(ctx, req.APIID, op.Name, policy); err != nil {
			return "", fmt.Errorf("attaching policy to operation %s: %w", op.Name, err)
		}
		r.log.Info().Str("operation", op.Name).Str("method", op.Method).Msg("operation imported")
	}

	return backendID, nil
}

// ensureHostKey reuses an existing gateway-scoped host key or mints one.
func (im *Importer) ensureHostKey(ctx context.Context, runtimeHost, keyName, token string) (funcapp.HostKey, error) {
	keys, err := im.inspector.HostKeys(ctx, runtimeHost, token)
	if err != nil {
		return funcapp.HostKey{}, fmt.Errorf("fetching host keys: %w", err)
	}
	for _, k := range keys.Keys {
		if k.Name == keyName {
			return k, nil
		}
	}
	key, err := im.inspector.CreateHostKey(ctx, runtimeHost, keyName, token)
	if err != nil {
		return funcapp.HostKey{}, fmt.Errorf("creating host key: %w", err)
	}
	return key, nil
}

// routePrefix resolves the host-level route prefix: /api when the config
// has no http section or leaves the prefix unset, the empty string when the
// prefix is explicitly empty, otherwise the configured value with a single
// leading slash.
func (im *Importer) routePrefix(ctx context.Context, configHref, token string) (string, error) {
	cfg, err := im.inspector.HostConfig(ctx, configHref, token)
	if err != nil {
		return "", fmt.Errorf("resolving route prefix: %w", err)
	}
	if cfg.HTTP == nil || cfg.HTTP.RoutePrefix == nil {
		return defaultRoutePrefix, nil
	}
	prefix := *cfg.HTTP.RoutePrefix
	if prefix == "" {
		return "", nil
	}
	return "/" + strings.TrimPrefix(prefix, "/"), nil
}

// apiName is the last path segment of a gateway API id.
func apiName(apiID string) string {
	if i := strings.LastIndex(apiID, "/"); i >= 0 {
		return apiID[i+1:]
	}
	return apiID
}

// matcher is either an exact name or a compiled glob pattern.
type matcher struct {
	exact   string
	pattern glob.Glob
}

func compileMatchers(names []string) []matcher {
	matchers := make([]matcher, 0, len(names))
	for _, name := range names {
		if strings.ContainsAny(name, `*?[{`) {
			if g, err := glob.Compile(name); err == nil {
				matchers = append(matchers, matcher{pattern: g})
				continue
			}
		}
		matchers = append(matchers, matcher{exact: name})
	}
	return matchers
}

func matchesAny(matchers []matcher, name string) bool {
	for _, m := range matchers {
		if m.pattern != nil {
			if m.pattern.Match(name) {
				return true
			}
			continue
		}
		if m.exact == name {
			return true
		}
	}
	return false
}
