// Package services contains application services for the vitapick client.
// This file defines the authentication service: password and social login,
// logout, and the push-token sync that follows every new session.
package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/vitapick/internal/client/client"
	"github.com/dmitrijs2005/vitapick/internal/client/models"
	"github.com/dmitrijs2005/vitapick/internal/common"
	"github.com/dmitrijs2005/vitapick/internal/logging"
)

// AuthService defines authentication operations for the front end.
//
// Contract:
//   - Login: exchange email and password for a session, then sync the push token silently.
//   - SocialCallback: finish a social login redirect (see SocialOutcome).
//   - CompleteSocialSignup: create the account for a first-time social user.
//   - Logout: drop the local session.
//   - Bootstrap: start-up hook; syncs the push token when a session exists.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	SocialCallback(ctx context.Context, callback string) (*SocialOutcome, error)
	CompleteSocialSignup(ctx context.Context, req models.SocialSignupRequest) error
	Logout(ctx context.Context) error
	Bootstrap(ctx context.Context) bool
}

// AuthAPI is the part of the REST API the auth service calls.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*client.TokenPair, error)
	SocialSignup(ctx context.Context, req models.SocialSignupRequest) (*client.TokenPair, error)
}

type SessionStore interface {
	Access(ctx context.Context) (string, bool)
	Save(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
}

type PushSyncer interface {
	SyncSilent(ctx context.Context) bool
}

// Destination is where the front end goes after a social callback.
type Destination string

const (
	DestinationHome   Destination = "home"
	DestinationSignup Destination = "signup"
)

// SocialOutcome is the result of a social login callback. For
// DestinationSignup, SignupToken and Email must be passed on to
// CompleteSocialSignup.
type SocialOutcome struct {
	Next        Destination
	SignupToken string
	Email       string
}

type authService struct {
	api   AuthAPI
	store SessionStore
	push  PushSyncer
	log   logging.Logger
}

func NewAuthService(api AuthAPI, store SessionStore, push PushSyncer, log logging.Logger) AuthService {
	return &authService{api: api, store: store, push: push, log: log.With("component", "auth")}
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	pair, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return a.startSession(ctx, pair.AccessToken, pair.RefreshToken)
}

// SocialCallback accepts the callback URL or its query string. A callback
// carrying an access token signs the user in directly; one carrying a
// signup token sends the user to finish signing up.
func (a *authService) SocialCallback(ctx context.Context, callback string) (*SocialOutcome, error) {
	q, err := parseCallback(callback)
	if err != nil {
		return nil, err
	}

	if msg := q.Get("error"); msg != "" {
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidCallback, msg)
	}

	if access := q.Get("accessToken"); access != "" {
		if err := a.startSession(ctx, access, q.Get("refreshToken")); err != nil {
			return nil, err
		}
		return &SocialOutcome{Next: DestinationHome}, nil
	}

	if signup := q.Get("signupToken"); signup != "" {
		return &SocialOutcome{Next: DestinationSignup, SignupToken: signup, Email: q.Get("email")}, nil
	}

	return nil, common.ErrInvalidCallback
}

func (a *authService) CompleteSocialSignup(ctx context.Context, req models.SocialSignupRequest) error {
	if req.SignupToken == "" || strings.TrimSpace(req.Nickname) == "" {
		return fmt.Errorf("%w: signup token and nickname are required", common.ErrorValidation)
	}

	pair, err := a.api.SocialSignup(ctx, req)
	if err != nil {
		return err
	}
	return a.startSession(ctx, pair.AccessToken, pair.RefreshToken)
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) Bootstrap(ctx context.Context) bool {
	if _, ok := a.store.Access(ctx); !ok {
		return false
	}
	return a.push.SyncSilent(ctx)
}

func (a *authService) startSession(ctx context.Context, access, refresh string) error {
	if access == "" {
		return fmt.Errorf("%w: response has no access token", common.ErrorValidation)
	}
	if err := a.store.Save(ctx, access, refresh); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	a.log.Info(ctx, "session started")
	a.push.SyncSilent(ctx)
	return nil
}

func parseCallback(callback string) (url.Values, error) {
	callback = strings.TrimSpace(callback)
	if strings.Contains(callback, "://") {
		u, err := url.Parse(callback)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidCallback, err)
		}
		return u.Query(), nil
	}

	q, err := url.ParseQuery(strings.TrimPrefix(callback, "?"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidCallback, err)
	}
	return q, nil
}
