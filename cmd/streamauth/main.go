package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errorMsg("%s", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "streamauth",
		Short: "Sign in to Twitch from the terminal",
		Long: `streamauth signs you in to Twitch with the OAuth2 implicit grant and keeps
the session on disk (or in Redis or MongoDB) so later runs stay signed in.

Configuration is read from the environment and from .env files:

  TWITCH_CLIENT_ID      application client id (required)
  OAUTH_REDIRECT_URL    redirect URI registered with Twitch (default: the
                        callback served on LAUNCHER_LISTEN_ADDR)
  OAUTH_SCOPES          comma separated scopes
  STORE_DRIVER          file, memory, redis or mongo
  LOG_LEVEL, LOG_FORMAT logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringSliceVar(&flags.envFiles, "env-file", nil, "Additional .env files to load")
	cmd.PersistentFlags().StringVar(&flags.envPrefix, "env-prefix", "", "Read prefixed variables, e.g. STAGING_ reads STAGING_TWITCH_CLIENT_ID")

	cmd.AddCommand(
		loginCmd(&flags),
		logoutCmd(&flags),
		whoamiCmd(&flags),
		watchCmd(&flags),
		versionCmd(),
	)

	return cmd
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
