package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Microsoft sign-in",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with a Microsoft account",
	Long: `Sign in through the browser. The printed URL opens the Microsoft sign-in
page; after consenting you are redirected back to this tool and the session
is stored locally.`,
	RunE: runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in account",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	RunE:  runAuthLogout,
}

func init() {
	authCmd.AddCommand(authLoginCmd, authStatusCmd, authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not initialised")
	}

	account, err := authService.Login(cmd.Context(), func(authURL string) {
		fmt.Fprintln(cmd.OutOrStdout(), "Open this URL in your browser to sign in:")
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), "  "+authURL)
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), "Waiting for the sign-in to complete…")
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✔ Signed in as %s\n", account)
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not initialised")
	}

	cred, err := authService.Status(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", cred.Account)
	if time.Until(cred.Expiry) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Access token valid until %s\n",
			cred.Expiry.Local().Format(time.RFC1123))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Access token expired, will refresh on next use")
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not initialised")
	}

	cred, err := authService.Status(cmd.Context())
	if err != nil {
		return err
	}
	if err := authService.Logout(cmd.Context(), cred.Account); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed out %s\n", cred.Account)
	return nil
}
