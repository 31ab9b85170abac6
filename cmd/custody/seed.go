package main

import (
	"fmt"

	"github.com/aussiebroadwan/custody/internal/custody/app"
	"github.com/spf13/cobra"
)

func newSeedCmd(cfg *app.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace users and certificates with a roster",
		Long: `Delete every user, catalog entry and certificate, then create the staff
accounts, the students, the certificate catalog and one not_present
certificate per student and catalog entry. Requests and the activity log are
kept, and ids continue from where they left off.

Without --roster the built-in roster is used. Stop the service first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := app.LoadRosterOrDefault(cfg.RosterFile)
			if err != nil {
				return err
			}

			sum, err := app.Seed(cmd.Context(), *cfg, roster)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d catalog entries, %d certificates\n",
				sum.Users, sum.Catalog, sum.Certificates)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.RosterFile, "roster", cfg.RosterFile, "YAML roster file")

	return cmd
}
