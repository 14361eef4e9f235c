package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/vitapick/internal/client/metrics"
	"github.com/dmitrijs2005/vitapick/internal/client/refresh"
	"github.com/dmitrijs2005/vitapick/internal/common"
	"github.com/dmitrijs2005/vitapick/internal/logging"
	"github.com/google/uuid"
)

const defaultRefreshTimeout = 10 * time.Second

// TokenStore is the session storage the client reads and updates.
type TokenStore interface {
	Access(ctx context.Context) (string, bool)
	Refresh(ctx context.Context) (string, bool)
	Save(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
}

// LoginRedirector sends the user back to the login entry point after an
// unrecoverable auth failure.
type LoginRedirector interface {
	RedirectToLogin(ctx context.Context)
}

// RedirectFunc adapts a function to LoginRedirector.
type RedirectFunc func(ctx context.Context)

func (f RedirectFunc) RedirectToLogin(ctx context.Context) { f(ctx) }

type Options struct {
	BaseURL string

	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client

	// RefreshTimeout bounds the refresh call. Defaults to 10s.
	RefreshTimeout time.Duration

	// PublicPrefixes defaults to common.PublicPathPrefixes.
	PublicPrefixes []string

	Logger     logging.Logger
	Metrics    *metrics.Metrics
	Redirector LoginRedirector
}

type Client struct {
	baseURL        string
	http           *http.Client
	store          TokenStore
	gate           *refresh.Gate
	refreshTimeout time.Duration
	publicPrefixes []string
	log            logging.Logger
	metrics        *metrics.Metrics
	redirector     LoginRedirector
}

func New(opts Options, store TokenStore) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base url %q", common.ErrorValidation, opts.BaseURL)
	}

	c := &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		http:           opts.HTTPClient,
		store:          store,
		gate:           refresh.NewGate(),
		refreshTimeout: opts.RefreshTimeout,
		publicPrefixes: opts.PublicPrefixes,
		log:            opts.Logger,
		metrics:        opts.Metrics,
		redirector:     opts.Redirector,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.refreshTimeout <= 0 {
		c.refreshTimeout = defaultRefreshTimeout
	}
	if c.publicPrefixes == nil {
		c.publicPrefixes = common.PublicPathPrefixes
	}
	if c.log == nil {
		c.log = logging.Nop()
	}
	c.log = c.log.With("component", "http")
	if c.metrics == nil {
		c.metrics = metrics.New(nil)
	}
	if c.redirector == nil {
		c.redirector = RedirectFunc(func(context.Context) {})
	}
	return c, nil
}

// call is one logical request. It may be sent twice: once as issued and
// once more, marked as a retry, after a token refresh.
type call struct {
	method string
	path   string
	body   []byte

	retry bool
	// token overrides the stored access token on a retry.
	token string
	// sentToken is the access token attached to the last attempt.
	sentToken string
}

// Do sends in (JSON-encoded, may be nil) to path and decodes the envelope
// result into out (may be nil). path may carry a query string.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	cl := &call{method: method, path: path}
	if in != nil {
		b, err := jsonBody(in)
		if err != nil {
			return err
		}
		cl.body = b
	}

	res, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	return res.decode(out)
}

// send executes cl and runs the 401 recovery protocol. A non-nil response
// may still be a failure status; decoding turns it into an error.
func (c *Client) send(ctx context.Context, cl *call) (*response, error) {
	for {
		res, err := c.execute(ctx, cl)
		if err != nil || res.status != http.StatusUnauthorized || !c.recoverable(cl.path) {
			return res, err
		}

		token, err := c.handleUnauthorized(ctx, cl, res)
		if err != nil {
			return nil, err
		}
		cl.retry, cl.token = true, token
		c.metrics.Retries.Inc()
	}
}

func (c *Client) execute(ctx context.Context, cl *call) (*response, error) {
	var body io.Reader
	if cl.body != nil {
		body = bytes.NewReader(cl.body)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(ctx, req, cl)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request done",
		"request_id", requestID, "method", cl.method, "path", routePath(cl.path),
		"status", resp.StatusCode, "retry", cl.retry)

	return &response{status: resp.StatusCode, body: b}, nil
}

// authorize applies the header rules: public paths and the refresh
// endpoint carry no Authorization; everything else carries the bearer token
// when there is one.
func (c *Client) authorize(ctx context.Context, req *http.Request, cl *call) {
	req.Header.Del(common.AuthorizationHeaderName)
	cl.sentToken = ""

	route := routePath(cl.path)
	if c.isPublic(route) || route == common.RefreshPath {
		return
	}

	token := cl.token
	if token == "" {
		token, _ = c.store.Access(ctx)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		cl.sentToken = token
	}
}

// recoverable reports whether a 401 on path goes through session recovery.
// Public routes and credential exchanges return their 401 as is; the
// refresh endpoint is recoverable so its 401 expires the session.
func (c *Client) recoverable(path string) bool {
	route := routePath(path)
	if c.isPublic(route) {
		return false
	}
	for _, p := range common.CredentialPaths {
		if route == p {
			return false
		}
	}
	return true
}

func (c *Client) isPublic(route string) bool {
	for _, p := range c.publicPrefixes {
		if strings.HasPrefix(route, p) {
			return true
		}
	}
	return false
}

// routePath strips the query string.
func routePath(path string) string {
	route, _, _ := strings.Cut(path, "?")
	return route
}

func jsonBody(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return b, nil
}
