package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/spf13/cobra"
)

var errAborted = errors.New("aborted")

func newAccountCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newSignupCommand(ctx),
		newLoginCommand(ctx),
		newLogoutCommand(ctx),
		newMeCommand(ctx),
		newDeleteAccountCommand(ctx),
	}
}

// promptIfEmpty returns v, or asks for it when v is blank.
func promptIfEmpty(ctx *commandContext, cmd *cobra.Command, v, prompt string) (string, error) {
	if v = strings.TrimSpace(v); v != "" {
		return v, nil
	}
	return GetSimpleText(ctx.input(cmd), prompt, cmd.OutOrStdout())
}

func newSignupCommand(ctx *commandContext) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if username, err = promptIfEmpty(ctx, cmd, username, "Username"); err != nil {
				return err
			}
			if email, err = promptIfEmpty(ctx, cmd, email, "Email"); err != nil {
				return err
			}
			pw, err := GetPassword(ctx.input(cmd), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			if err := ctx.auth.Signup(cmd.Context(), username, email, string(pw)); err != nil {
				return fmt.Errorf("signup: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created, run login to start a session")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	return cmd
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and cache the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = promptIfEmpty(ctx, cmd, email, "Email"); err != nil {
				return err
			}
			pw, err := GetPassword(ctx.input(cmd), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			if err := ctx.auth.Login(cmd.Context(), email, string(pw)); err != nil {
				if errors.Is(err, common.ErrorUnauthorized) {
					return errors.New("login: invalid credentials")
				}
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the cached session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newMeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := ctx.auth.Me(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", u.ID)
			fmt.Fprintf(out, "Username: %s\n", u.Username)
			fmt.Fprintf(out, "Email:    %s\n", u.Email)
			fmt.Fprintf(out, "Created:  %s\n", formatTime(u.CreatedAt))
			return nil
		},
	}
}

func newDeleteAccountCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete the account and every transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				answer, err := GetSimpleText(ctx.input(cmd), "This removes all transcripts and audio. Type yes to confirm", cmd.OutOrStdout())
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "yes") {
					return errAborted
				}
			}
			if err := ctx.auth.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}
