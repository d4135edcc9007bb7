package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

func whoamiCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			snap := a.manager.Snapshot()
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Status string `json:"status"`
					User   any    `json:"user"`
				}{snap.Status.String(), snap.User})
			}

			if !snap.IsSignedIn() {
				info("Not signed in")
				return nil
			}
			success("Signed in")
			printUser(snap.User)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session as JSON")

	return cmd
}
