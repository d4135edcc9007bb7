package main

import (
	"github.com/spf13/cobra"
)

func logoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and revoke the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			if !a.manager.Snapshot().IsSignedIn() {
				info("Not signed in")
				return nil
			}

			_ = a.manager.SignOut(cmd.Context())
			success("Signed out")
			return nil
		},
	}
}
