package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/streamauth/pkg/session"
)

func watchCmd(flags *globalFlags) *cobra.Command {
	var login bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print session changes until interrupted",
		Long: `Subscribe to the session and print every state change. With --login a
sign-in is started once the subscription is running.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *flags)
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			sub := a.manager.Subscribe(ctx)
			defer func() { _ = sub.Close() }()

			if login {
				go func() {
					if err := a.manager.SignIn(ctx); err != nil {
						errorMsg("sign-in failed: %s", err)
					}
				}()
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				case snap, ok := <-sub.Receive():
					if !ok {
						return nil
					}
					printSnapshot(snap)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&login, "login", false, "Start a sign-in after subscribing")

	return cmd
}

func printSnapshot(snap session.Snapshot) {
	switch {
	case snap.IsSigningIn:
		info("signing in...")
	case snap.IsSigningOut:
		info("signing out...")
	case snap.IsSignedIn():
		success("signed in as %s", snap.User.DisplayName)
	default:
		warn("signed out")
	}
}
