// Package cli wires the cobra commands that drive the core services.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koshinokanbai330/oof-cli/internal/adapters/driven/config/file"
	"github.com/koshinokanbai330/oof-cli/internal/adapters/driven/storage/sqlite"
	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driving"
	"github.com/koshinokanbai330/oof-cli/internal/logger"
)

var (
	// Version is set by goreleaser ldflags.
	version = "dev"

	// Verbose enables debug logging.
	verbose bool

	// Services holds injected service implementations for CLI commands.
	submitService driving.SubmitService
	authService   AuthService
	configStore   *file.Store
)

// AuthService abstracts the authenticator for the auth commands.
type AuthService interface {
	Login(ctx context.Context, announce func(authURL string)) (string, error)
	Status(ctx context.Context) (*sqlite.Credential, error)
	Logout(ctx context.Context, account string) error
}

// Services holds configuration for CLI commands.
type Services struct {
	Submit driving.SubmitService
	Auth   AuthService
	Config *file.Store
}

// SetServices injects service implementations for CLI commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	submitService = s.Submit
	authService = s.Auth
	configStore = s.Config
}

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "oof",
	Short: "Announce an absence from one form",
	Long: `Oof turns one leave-request form into its three side effects: an all-day
calendar meeting for your colleagues, a scheduled mailbox auto-reply, and an
optionally filled travel-allowance workbook.

Sign in once with 'oof auth login', then use 'oof form' for the interactive
form or 'oof submit' with flags.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "oof", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")

	// Set verbose mode before any command executes.
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}
