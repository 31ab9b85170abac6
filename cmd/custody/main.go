// Command custody runs the certificate custody service and its admin tasks.
package main

import (
	"fmt"
	"os"

	"github.com/aussiebroadwan/custody/internal/custody/app"
	"github.com/spf13/cobra"
)

func main() {
	// Environment first; flags on the subcommands override it.
	cfg := app.LoadConfig()

	rootCmd := &cobra.Command{
		Use:           "custody",
		Short:         "Certificate custody service",
		Version:       app.BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			flags := cmd.Flags()
			if flags.Changed("store-driver") && !flags.Changed("database-file") && os.Getenv("DATABASE_FILE") == "" {
				cfg.DatabaseFile = app.DefaultDatabaseFile(cfg.StoreDriver)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.StoreDriver, "store-driver", cfg.StoreDriver, "Store driver: json, sqlite, memory")
	rootCmd.PersistentFlags().StringVar(&cfg.DatabaseFile, "database-file", cfg.DatabaseFile, "JSON document or SQLite database path")
	rootCmd.PersistentFlags().StringVar(&cfg.PepperFile, "pepper-file", cfg.PepperFile, "Password pepper file")

	rootCmd.AddCommand(newServeCmd(&cfg))
	rootCmd.AddCommand(newSeedCmd(&cfg))
	rootCmd.AddCommand(newHashPasswordCmd(&cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newServeCmd(cfg *app.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(*cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}

	cmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	cmd.Flags().BoolVar(&cfg.SeedOnStart, "seed", cfg.SeedOnStart, "Seed the store on startup if it has no users")
	cmd.Flags().StringVar(&cfg.RosterFile, "roster", cfg.RosterFile, "YAML roster used with --seed")

	return cmd
}
