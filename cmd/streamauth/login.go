package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/streamauth/pkg/session"
)

func loginCmd(flags *globalFlags) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with Twitch",
		Long: `Open the Twitch authorization page in your browser and wait for the
redirect. The session is stored and reused by later commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			if snap := a.manager.Snapshot(); snap.IsSignedIn() {
				success("Already signed in as %s", snap.User.DisplayName)
				return nil
			}

			if timeout <= 0 {
				timeout = a.cfg.LoginTimeout
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			info("Waiting for authorization in your browser...")
			if err := a.manager.SignIn(ctx); err != nil {
				if errors.Is(err, session.ErrStateMismatch) {
					return errors.New("authorization response did not match this request, try again")
				}
				return err
			}

			snap := a.manager.Snapshot()
			if !snap.IsSignedIn() {
				warn("Sign-in was cancelled")
				return nil
			}
			success("Signed in as %s", snap.User.DisplayName)
			return nil
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "How long to wait for the browser (default LOGIN_TIMEOUT)")

	return cmd
}
