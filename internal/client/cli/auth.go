package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vitapick/internal/client/models"
	"github.com/dmitrijs2005/vitapick/internal/client/services"
	"github.com/dmitrijs2005/vitapick/internal/common"
	"github.com/spf13/cobra"
)

// now is a test seam for the status command.
var now = time.Now

func newLoginCommand(o *rootOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")

	cmd.RunE = o.run(func(ctx context.Context, a *App, cmd *cobra.Command, _ []string) error {
		var err error
		if email == "" {
			if email, err = promptLine(o.in, a.out, "Email"); err != nil {
				return err
			}
		}

		password, err := promptPassword(a.out)
		if err != nil {
			return err
		}

		if err := a.auth.Login(ctx, email, password); err != nil {
			return fmt.Errorf("login unsuccessful: %w", err)
		}
		fmt.Fprintln(a.out, "Login successful")
		return nil
	})
	return cmd
}

func newLogoutCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the local session",
		Args:  cobra.NoArgs,
		RunE: o.run(func(ctx context.Context, a *App, _ *cobra.Command, _ []string) error {
			if err := a.auth.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		}),
	}
}

func newStatusCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: o.run(func(ctx context.Context, a *App, _ *cobra.Command, _ []string) error {
			claims, err := a.store.Claims(ctx)
			if errors.Is(err, common.ErrNoAccessToken) {
				fmt.Fprintln(a.out, "Not signed in")
				return nil
			}
			if err != nil {
				return err
			}

			_, hasRefresh := a.store.Refresh(ctx)
			fmt.Fprintf(a.out, "Signed in as %s\n", claims.Subject)
			switch {
			case claims.ExpiresAt.IsZero():
			case claims.Expired(now()):
				fmt.Fprintf(a.out, "Access token expired at %s\n", claims.ExpiresAt.Format(time.RFC3339))
			default:
				fmt.Fprintf(a.out, "Access token valid until %s\n", claims.ExpiresAt.Format(time.RFC3339))
			}
			fmt.Fprintf(a.out, "Refresh token stored: %t\n", hasRefresh)
			return nil
		}),
	}
}

func newSocialCallbackCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "social-callback <url-or-query>",
		Short: "Finish a social login from its redirect URL",
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(ctx context.Context, a *App, _ *cobra.Command, args []string) error {
			outcome, err := a.auth.SocialCallback(ctx, args[0])
			if err != nil {
				return err
			}

			switch outcome.Next {
			case services.DestinationSignup:
				fmt.Fprintln(a.out, "New account. Finish signing up with:")
				fmt.Fprintf(a.out, "  vitapick signup --token %s --email %q --nickname <name> --agree-terms\n", outcome.SignupToken, outcome.Email)
			default:
				fmt.Fprintln(a.out, "Login successful")
			}
			return nil
		}),
	}
}

func newSignupCommand(o *rootOptions) *cobra.Command {
	var req models.SocialSignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Complete a sign-up started by a social login",
		Args:  cobra.NoArgs,
	}
	f := cmd.Flags()
	f.StringVar(&req.SignupToken, "token", "", "signup token from the social callback")
	f.StringVar(&req.Email, "email", "", "account email")
	f.StringVar(&req.Nickname, "nickname", "", "display name")
	f.StringVar(&req.Gender, "gender", "", "gender (MALE or FEMALE)")
	f.StringVar(&req.BirthDate, "birth-date", "", "birth date, YYYY-MM-DD")
	f.BoolVar(&req.AgreeTerms, "agree-terms", false, "accept the terms of service")

	cmd.RunE = o.run(func(ctx context.Context, a *App, _ *cobra.Command, _ []string) error {
		if !req.AgreeTerms {
			return fmt.Errorf("%w: the terms of service must be accepted", common.ErrorValidation)
		}
		if err := a.auth.CompleteSocialSignup(ctx, req); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Welcome to vitapick!")
		return nil
	})
	return cmd
}
