package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keysift/keysift/internal/appupdate"
	"github.com/keysift/keysift/internal/version"
)

func newVersionCommand() *cobra.Command {
	var checkLatest bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "keysift "+version.String())

			if !checkLatest {
				return
			}
			result, err := appupdate.Check(cmd.Context(), appupdate.CheckOptions{
				CurrentVersion: version.Version,
			})
			switch {
			case err != nil:
				fmt.Fprintf(cmd.OutOrStdout(), "update check failed: %v\n", err)
			case result.UpdateAvailable:
				fmt.Fprintf(cmd.OutOrStdout(), "update available: %s (go install github.com/keysift/keysift/cmd/keysift@latest)\n", result.LatestVersion)
			case result.LatestVersion != "":
				fmt.Fprintln(cmd.OutOrStdout(), "up to date")
			}
		},
	}

	cmd.Flags().BoolVar(&checkLatest, "check-latest", false, "check GitHub for a newer release")
	return cmd
}
