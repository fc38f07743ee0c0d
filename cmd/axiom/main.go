package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"axiom/internal/config"
	"axiom/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	apiKey     string
	configPath string
	envFile    string

	// Loaded in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "axiom",
	Short: "AXIOM - an archive of objects, in the terminal",
	Long: `AXIOM is a luxury storefront for the terminal.

Browse the collection, read the journal, configure materials in the atelier,
secure pieces in your vault and confirm the acquisition with a sustained hold.

Run without arguments to open the storefront.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(envFile); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if apiKey != "" {
			cfg.Curator.APIKey = apiKey
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// The storefront owns the terminal, so only subcommands log to stderr.
		interactive := cmd == cmd.Root()
		return logging.Initialize(cfg.LogsDir(), cfg.Logging, verbose && !interactive)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Curator API key (or set GEMINI_API_KEY env)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before the config")

	askCmd.Flags().BoolVar(&askMember, "member", false, "Ask as an authenticated Elite Member")
	ledgerCmd.Flags().IntVarP(&ledgerLimit, "limit", "n", 20, "Number of manifests to show (0 = all)")
	journalCmd.Flags().IntVarP(&journalWidth, "width", "w", 80, "Wrap width for rendered articles")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEnvFile loads KEY=value pairs without overriding the real environment.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
