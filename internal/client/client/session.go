package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/vitapick/internal/client/metrics"
	"github.com/dmitrijs2005/vitapick/internal/common"
)

// TokenPair is the result of the login and refresh endpoints.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// handleUnauthorized handles a 401 on cl and returns the access token to retry with.
func (c *Client) handleUnauthorized(ctx context.Context, cl *call, res *response) (string, error) {
	unauthorized := res.apiError()

	if cl.retry {
		return "", unauthorized
	}

	if routePath(cl.path) == common.RefreshPath {
		c.expireSession(ctx, "refresh endpoint rejected the refresh token")
		return "", fmt.Errorf("%w: %w", common.ErrSessionExpired, unauthorized)
	}

	_, hasRefresh := c.store.Refresh(ctx)
	current, hasAccess := c.store.Access(ctx)

	if !hasRefresh {
		// A session that vanished after this request was sent has already
		// been expired by whoever cleared it.
		if cl.sentToken == "" || current == cl.sentToken {
			c.expireSession(ctx, "no refresh token")
		}
		return "", fmt.Errorf("%w: %w", common.ErrSessionExpired, unauthorized)
	}

	// Another request already refreshed the session after this one was sent.
	if hasAccess && current != cl.sentToken {
		return current, nil
	}

	token, leader, err := c.gate.Do(ctx, c.refreshSession)
	if err != nil {
		return "", err
	}
	if !leader {
		c.log.Debug(ctx, "resumed after refresh", "path", routePath(cl.path))
	}
	return token, nil
}

// refreshSession exchanges the stored refresh token for a new access token.
// It runs as the gate leader; on failure it expires the session, which
// happens once per failed refresh however many requests were queued.
func (c *Client) refreshSession(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
	defer cancel()

	// The session was cleared, and the user redirected, between the 401 and
	// this refresh.
	refreshToken, ok := c.store.Refresh(ctx)
	if !ok {
		return "", fmt.Errorf("%w: %w", common.ErrSessionExpired, common.ErrNoRefreshToken)
	}

	pair, err := c.callRefresh(ctx, refreshToken)
	if err != nil {
		c.metrics.Refreshes.WithLabelValues(metrics.ResultFailure).Inc()
		c.expireSession(ctx, "token refresh failed", "error", err)
		return "", fmt.Errorf("%w: %w", common.ErrSessionExpired, err)
	}

	rotated := pair.RefreshToken
	if rotated == "" {
		rotated = refreshToken
	}
	// A failed write only costs a refresh after restart; the new token is
	// still handed to every waiting request.
	_ = c.store.Save(ctx, pair.AccessToken, rotated)

	c.metrics.Refreshes.WithLabelValues(metrics.ResultSuccess).Inc()
	c.log.Info(ctx, "session refreshed", "rotated", pair.RefreshToken != "")
	return pair.AccessToken, nil
}

func (c *Client) callRefresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	cl := &call{method: http.MethodPost, path: common.RefreshPath}
	b, err := jsonBody(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}
	cl.body = b

	res, err := c.execute(ctx, cl)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("refresh timed out after %s: %w", c.refreshTimeout, err)
		}
		return nil, err
	}

	var pair TokenPair
	if err := res.decode(&pair); err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, fmt.Errorf("%w: refresh response has no access token", common.ErrorValidation)
	}
	return &pair, nil
}

// expireSession clears the stored session and sends the user to login.
func (c *Client) expireSession(ctx context.Context, reason string, args ...any) {
	_ = c.store.Clear(ctx)
	c.metrics.LoginRedirects.Inc()
	c.log.Warn(ctx, "session expired, redirecting to login", append([]any{"reason", reason}, args...)...)
	c.redirector.RedirectToLogin(ctx)
}
