package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gatewaylabs/apimport/internal/config"
	"github.com/gatewaylabs/apimport/internal/funcapp"
	"github.com/gatewaylabs/apimport/internal/gateway"
	"github.com/gatewaylabs/apimport/internal/history"
	"github.com/gatewaylabs/apimport/internal/importer"
	"github.com/gatewaylabs/apimport/internal/transport"
)

var (
	importApp      string
	importAppName  string
	importHost     string
	importAPI      string
	importTriggers []string
	importManifest string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a function app's HTTP triggers into a gateway API",
	Long: `Import enumerates a function app's trigger functions, derives gateway
operations from their route templates, provisions a secret backend
credential, and registers each operation with a forwarding policy.

When --app or --api is omitted the command runs interactively, fetching
the available function apps and gateway APIs to choose from.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importApp, "app", "", "Function app id (e.g. /apps/orders)")
	importCmd.Flags().StringVar(&importAppName, "app-name", "", "Function app display name (defaults to the id's last segment)")
	importCmd.Flags().StringVar(&importHost, "host", "", "Function app runtime host (e.g. orders.example.net)")
	importCmd.Flags().StringVar(&importAPI, "api", "", "Target gateway API id (e.g. /apis/orders)")
	importCmd.Flags().StringArrayVar(&importTriggers, "trigger", nil, "Trigger name or glob pattern to import (repeatable)")
	importCmd.Flags().StringVar(&importManifest, "manifest", "", "YAML manifest for batch imports")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	inspector, provisioner := buildClients(cfg)
	im := importer.New(inspector, provisioner, importer.WithLogger(log.Logger))

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	if importManifest != "" {
		m, err := importer.LoadManifest(importManifest)
		if err != nil {
			return err
		}
		for _, entry := range m.Imports {
			if err := runOne(ctx, im, store, entry.Request()); err != nil {
				return err
			}
		}
		return nil
	}

	req, err := resolveRequest(ctx, inspector, provisioner, huhPrompter{})
	if err != nil {
		return err
	}
	return runOne(ctx, im, store, req)
}

// buildClients constructs the two management-plane clients from the
// configuration.
func buildClients(cfg *config.Config) (*funcapp.Client, *gateway.Client) {
	inspector := funcapp.NewClient(cfg.Functions.Endpoint, transport.New(transport.Options{
		Token:      cfg.Functions.Token,
		Timeout:    cfg.HTTP.Timeout,
		MaxRetries: cfg.HTTP.Retries,
		Logger:     log.Logger,
	}))
	provisioner := gateway.NewClient(cfg.Gateway.Endpoint, transport.New(transport.Options{
		Token:      cfg.Gateway.Token,
		Timeout:    cfg.HTTP.Timeout,
		MaxRetries: cfg.HTTP.Retries,
		Logger:     log.Logger,
	}))
	return inspector, provisioner
}

// resolveRequest builds the import request from flags, prompting for
// anything not supplied.
func resolveRequest(ctx context.Context, inspector *funcapp.Client, provisioner *gateway.Client, p prompter) (importer.Request, error) {
	req := importer.Request{
		FunctionAppID:   importApp,
		FunctionAppName: importAppName,
		RuntimeHost:     importHost,
		APIID:           importAPI,
		TriggerNames:    importTriggers,
	}

	if req.FunctionAppID == "" {
		app, err := selectFunctionApp(ctx, inspector, p)
		if err != nil {
			return importer.Request{}, err
		}
		req.FunctionAppID = app.ID
		req.FunctionAppName = app.Name
		req.RuntimeHost = app.RuntimeHost
	}

	if req.FunctionAppName == "" {
		req.FunctionAppName = lastSegment(req.FunctionAppID)
	}
	if req.RuntimeHost == "" {
		return importer.Request{}, fmt.Errorf("--host is required with --app")
	}

	if req.APIID == "" {
		apiID, err := selectAPI(ctx, provisioner, p)
		if err != nil {
			return importer.Request{}, err
		}
		req.APIID = apiID
	}

	if len(req.TriggerNames) == 0 {
		triggers, err := selectTriggers(ctx, inspector, req.FunctionAppID, p)
		if err != nil {
			return importer.Request{}, err
		}
		req.TriggerNames = triggers
	}

	return req, nil
}

func selectFunctionApp(ctx context.Context, inspector *funcapp.Client, p prompter) (funcapp.FunctionApp, error) {
	apps, err := inspector.ListFunctionApps(ctx)
	if err != nil {
		return funcapp.FunctionApp{}, err
	}
	if len(apps) == 0 {
		return funcapp.FunctionApp{}, fmt.Errorf("no function apps available")
	}

	options := make([]choice, len(apps))
	byID := make(map[string]funcapp.FunctionApp, len(apps))
	for i, app := range apps {
		options[i] = choice{Label: app.Name, Value: app.ID}
		byID[app.ID] = app
	}

	id, err := p.Select("Select a function app", options)
	if err != nil {
		return funcapp.FunctionApp{}, err
	}
	return byID[id], nil
}

func selectAPI(ctx context.Context, provisioner *gateway.Client, p prompter) (string, error) {
	apis, err := provisioner.ListAPIs(ctx)
	if err != nil {
		return "", err
	}
	if len(apis) == 0 {
		return "", fmt.Errorf("no APIs available on the gateway")
	}

	options := make([]choice, len(apis))
	for i, api := range apis {
		label := api.DisplayName
		if label == "" {
			label = api.Name
		}
		options[i] = choice{Label: label, Value: api.ID}
	}
	return p.Select("Select a target API", options)
}

func selectTriggers(ctx context.Context, inspector *funcapp.Client, appID string, p prompter) ([]string, error) {
	funcs, err := inspector.ListFunctions(ctx, appID)
	if err != nil {
		return nil, err
	}

	var options []choice
	for _, fn := range funcs {
		if fn.Properties.Config.InboundBinding() == nil {
			continue
		}
		name := fn.ShortName()
		options = append(options, choice{Label: name, Value: name})
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("function app has no trigger functions")
	}

	return p.MultiSelect("Select triggers to import", options)
}

func runOne(ctx context.Context, im *importer.Importer, store *history.Store, req importer.Request) error {
	started := time.Now()
	result, importErr := im.Import(ctx, req)

	rec := history.Record{
		FunctionApp: req.FunctionAppName,
		APIID:       req.APIID,
		Operations:  len(result.Operations),
		State:       string(result.State),
		StartedAt:   started,
		FinishedAt:  time.Now(),
	}
	if importErr != nil {
		rec.Error = importErr.Error()
	}
	if err := store.Append(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("failed to journal import run")
	}

	if importErr != nil {
		return importErr
	}

	if len(result.Operations) == 0 {
		fmt.Printf("Nothing to import from %s.\n", req.FunctionAppName)
		return nil
	}

	fmt.Printf("Imported %d operation(s) from %s into %s:\n", len(result.Operations), req.FunctionAppName, req.APIID)
	for _, op := range result.Operations {
		fmt.Printf("  %-7s %s  (%s)\n", op.Method, op.URLTemplate, op.Name)
	}
	fmt.Printf("Backend: %s\n", result.BackendID)
	return nil
}

func lastSegment(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
