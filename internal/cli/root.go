package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gatewaylabs/apimport/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "apimport",
	Short: "Import serverless function apps into an API-management gateway",
	Long: `apimport imports the HTTP-triggered functions of a serverless function
app into an API-management gateway as first-class API operations.

It enumerates the app's trigger functions, derives routable operations
from their bindings, provisions a secure backend credential for the app,
and registers the operations with a forwarding policy against the gateway.

Run interactively (pick a function app and a target API):
  apimport import

Or non-interactively:
  apimport import --app /apps/orders --app-name orders --host orders.example.net \
    --api /apis/orders --trigger HttpTrigger1 --trigger 'Orders*'

Batch imports from a manifest:
  apimport import --manifest import.yaml`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./apimport.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// loadConfig reads the configuration, honoring the --config flag.
func loadConfig() (*config.Config, error) {
	return config.Load(config.LoadOptions{ConfigFile: cfgFile})
}

// setupLogging configures zerolog based on verbosity.
func setupLogging() {
	// Pretty console output; management-plane tooling runs in a terminal.
	output := zerolog.ConsoleWriter{Out: os.Stderr}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// Version returns the version string.
func Version() string {
	return fmt.Sprintf("apimport version %s", "0.1.0-dev")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the apimport version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
