package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/autogeral/dashboard-sso/internal/access"
	"github.com/autogeral/dashboard-sso/internal/config"
)

// Version information (set via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Global flags
var (
	configFile string
	logLevel   string
	logFormat  string
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitConfig  = 3
)

var rootCmd = &cobra.Command{
	Use:   "dashboard-sso",
	Short: "Auto Geral dashboard SSO gateway",
	Long: `Authentication and page-access gateway for the Auto Geral
business-reporting dashboards.

The gateway drives the OAuth2 authorization code login against the
identity provider, enriches the identity with its business role from
the access directory, manages sessions, and gates which report pages
each role may reach.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the SSO gateway",
	Long: `Start the gateway HTTP server.

The server:
  - Presents the login page and drives the OAuth2 authorization code flow
  - Looks up the business role for each authenticated identity
  - Manages sessions and renders role-filtered navigation
  - Gates report page access by role`,
	RunE: runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  `Display version, commit hash, and build date.`,
	Run:   runVersion,
}

// overrideExitCode is set by subcommands (check-config) so main() can call
// os.Exit() after cobra finishes. This avoids calling os.Exit() inside RunE
// which would bypass deferred functions. -1 means "use default".
var overrideExitCode = -1

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate configuration and permission table",
	Long: `Load and validate the configuration file and the pages file
without starting the gateway.

Checks for:
  - Valid YAML syntax
  - Required fields present
  - Valid URLs
  - A well-formed permission table

Exit codes:
  0 = Configuration is valid
  3 = Configuration error`,
	RunE: runCheckConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "/etc/dashboard-sso/config.yaml",
		"Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (debug, info, warn, error) - overrides config file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Log format (json, text) - overrides config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkConfigCmd)
}

func main() {
	// Secrets like REDIRECT_URI may arrive via an env file in deployment.
	// A missing .env is fine; the environment itself still applies.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}

	if overrideExitCode >= 0 {
		os.Exit(overrideExitCode)
	}
}

// runServe starts the gateway
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override log settings from flags if provided
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	config.SetupLogging(&cfg.Log)

	slog.Info("starting dashboard SSO gateway",
		"version", version,
		"commit", commit,
		"build_date", buildDate,
		"config", configFile,
	)

	return serve(cmd.Context(), cfg)
}

// runVersion displays version information
func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("dashboard-sso version %s\n", version)
	fmt.Printf("  Commit:     %s\n", commit)
	fmt.Printf("  Build date: %s\n", buildDate)
	fmt.Printf("  Go version: %s\n", runtime.Version())
}

// runCheckConfig validates the configuration and the permission table
func runCheckConfig(cmd *cobra.Command, args []string) error {
	fmt.Printf("Checking configuration: %s\n\n", configFile)

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration validation failed:\n")
		fmt.Fprintf(os.Stderr, "   %v\n", err)
		overrideExitCode = ExitConfig
		return nil // exit code handled via overrideExitCode
	}

	table, err := access.Load(cfg.Pages.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Permission table validation failed:\n")
		fmt.Fprintf(os.Stderr, "   %v\n", err)
		overrideExitCode = ExitConfig
		return nil
	}

	fmt.Println("✅ Configuration is valid")
	fmt.Println()
	fmt.Println("Configuration summary:")
	fmt.Printf("  OAuth Issuer:    %s\n", cfg.OAuth.Issuer)
	fmt.Printf("  Client ID:       %s\n", cfg.OAuth.ClientID)
	fmt.Printf("  Redirect URI:    %s\n", cfg.OAuth.RedirectURI)
	fmt.Printf("  Scopes:          %v\n", cfg.OAuth.Scopes)
	fmt.Printf("  Directory table: %s\n", cfg.Directory.Table)
	fmt.Printf("  HTTP Listen:     %s\n", cfg.Listen.HTTP)
	fmt.Printf("  Session Timeout: %d seconds\n", cfg.Session.Timeout)
	fmt.Printf("  Pages file:      %s (%d pages)\n", cfg.Pages.File, len(table.Pages()))
	fmt.Printf("  Log Level:       %s\n", cfg.Log.Level)
	fmt.Printf("  Log Format:      %s\n", cfg.Log.Format)
	fmt.Printf("  TLS Enabled:     %v\n", cfg.TLS.Enabled)

	if cfg.OAuth.ClientSecret != "" {
		fmt.Println("\n  Client Secret:   [SET]")
	} else {
		fmt.Println("\n  Client Secret:   [NOT SET]")
	}

	fmt.Println("\n✅ Ready to start gateway")

	return nil
}
