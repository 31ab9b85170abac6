package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/custody/internal/custody/app"
	"github.com/aussiebroadwan/custody/pkg/cryptox"
	"github.com/spf13/cobra"
)

func newHashPasswordCmd(cfg *app.Config) *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the stored hash for a password",
		Long: `Hash a password the way the service stores it, for editing a roster or a
document by hand. The password is read from the argument or the first line of
stdin. With --generate a random password is created and printed first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cryptox.SetPepperPath(cfg.PepperFile)

			var password string
			switch {
			case generate:
				p, err := cryptox.GeneratePassword()
				if err != nil {
					return err
				}
				password = p
				fmt.Fprintln(cmd.OutOrStdout(), password)
			case len(args) == 1:
				password = args[0]
			default:
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password is empty")
			}

			hash, err := cryptox.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "Generate a random password")

	return cmd
}
