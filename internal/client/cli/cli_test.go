package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vitapick/internal/client/client"
	"github.com/dmitrijs2005/vitapick/internal/client/models"
	"github.com/dmitrijs2005/vitapick/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, subject string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

// fakeAPI is an in-process vitapick backend.
type fakeAPI struct {
	mu            sync.Mutex
	loginAccess   string
	validAccess   string
	refreshAccess string
	refreshOK     bool
	refreshCalls  int
	upserts       []models.FCMTokenRequest
	likes         map[string]string
	searchAuth    []string
}

func (f *fakeAPI) reply(w http.ResponseWriter, status int, result any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(client.Envelope[any]{
		IsSuccess: status < 300,
		Code:      http.StatusText(status),
		Message:   http.StatusText(status),
		Result:    result,
	})
}

func (f *fakeAPI) protected(h func(r *http.Request) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		ok := r.Header.Get(common.AuthorizationHeaderName) == common.BearerPrefix+f.validAccess
		f.mu.Unlock()
		if !ok {
			f.reply(w, http.StatusUnauthorized, nil)
			return
		}
		f.reply(w, http.StatusOK, h(r))
	}
}

func (f *fakeAPI) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(common.LoginPath, func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			f.reply(w, http.StatusUnauthorized, nil)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.reply(w, http.StatusOK, client.TokenPair{AccessToken: f.loginAccess, RefreshToken: "refresh-1"})
	}).Methods(http.MethodPost)

	r.HandleFunc(common.RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.refreshCalls++
		if !f.refreshOK {
			f.reply(w, http.StatusUnauthorized, nil)
			return
		}
		f.validAccess = f.refreshAccess
		f.reply(w, http.StatusOK, client.TokenPair{AccessToken: f.refreshAccess})
	}).Methods(http.MethodPost)

	r.HandleFunc(common.MePath, f.protected(func(*http.Request) any {
		return models.User{ID: 1, Email: "kim@example.com", Nickname: "kim"}
	})).Methods(http.MethodGet)
	r.HandleFunc(common.NotificationSettingsMe, f.protected(func(*http.Request) any {
		return models.NotificationSettings{IntakeReminder: true, ReminderTime: "09:00"}
	})).Methods(http.MethodGet)
	r.HandleFunc(common.SupplementLikesMePath, f.protected(func(*http.Request) any {
		return []models.Supplement{{ID: 3, Name: "Magnesium", Liked: true}}
	})).Methods(http.MethodGet)
	r.HandleFunc(common.SupplementsPath+"/{id}/likes", f.protected(func(r *http.Request) any {
		f.mu.Lock()
		f.likes[mux.Vars(r)["id"]] = r.Method
		f.mu.Unlock()
		return nil
	})).Methods(http.MethodPost, http.MethodDelete)
	r.HandleFunc(common.FCMTokenPath, f.protected(func(r *http.Request) any {
		var req models.FCMTokenRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.upserts = append(f.upserts, req)
		f.mu.Unlock()
		return nil
	})).Methods(http.MethodPut)
	r.HandleFunc(common.SupplementSearchPath, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.searchAuth = append(f.searchAuth, r.Header.Get(common.AuthorizationHeaderName))
		f.mu.Unlock()
		f.reply(w, http.StatusOK, models.SupplementPage{
			Content:       []models.Supplement{{ID: 7, Name: "Vitamin " + r.URL.Query().Get("keyword"), Brand: "Acme"}},
			TotalElements: 1,
		})
	}).Methods(http.MethodGet)
	return r
}

type harness struct {
	t    *testing.T
	api  *fakeAPI
	db   string
	base string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	access := signedToken(t, "kim@example.com", time.Now().Add(time.Hour))
	f := &fakeAPI{
		loginAccess:   access,
		validAccess:   access,
		refreshAccess: signedToken(t, "kim@example.com", time.Now().Add(2*time.Hour)),
		refreshOK:     true,
		likes:         map[string]string{},
	}
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)

	// Keep the developer's environment out of the run.
	t.Setenv("VITAPICK_PUSH_DEVICE_TOKEN", "")
	t.Setenv("VITAPICK_LOG_LEVEL", "error")
	t.Setenv("VITAPICK_PUSH_ENABLED", "true")

	return &harness{t: t, api: f, db: filepath.Join(t.TempDir(), "session.db"), base: srv.URL}
}

// run executes one CLI invocation against the fake backend.
func (h *harness) run(stdin string, args ...string) (stdout, stderr string, err error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--base-url", h.base, "--db", h.db}, args...)
	err = Execute(context.Background(), full, strings.NewReader(stdin), &out, &errOut)
	return out.String(), errOut.String(), err
}

func (h *harness) login() {
	h.t.Helper()
	_, _, err := h.run("", "login", "--email", "kim@example.com")
	require.NoError(h.t, err)
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

func TestLoginStatusLogout(t *testing.T) {
	h := newHarness(t)
	stubPassword(t, "secret")

	out, _, err := h.run("kim@example.com\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Email: ")
	assert.Contains(t, out, "Login successful")

	out, _, err = h.run("", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as kim@example.com")
	assert.Contains(t, out, "Access token valid until")
	assert.Contains(t, out, "Refresh token stored: true")

	out, _, err = h.run("", "me")
	require.NoError(t, err)
	assert.Contains(t, out, "Nickname:  kim")

	_, _, err = h.run("", "logout")
	require.NoError(t, err)

	out, _, err = h.run("", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	stubPassword(t, "secret")
	h.login()

	stubPassword(t, "nope")
	_, stderr, err := h.run("", "--metrics", "login", "-e", "kim@example.com")
	require.Error(t, err)
	assert.ErrorContains(t, err, "login unsuccessful")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.NotContains(t, stderr, "Session expired")
	assert.Contains(t, stderr, "vitapick_client_login_redirects_total 0")

	h.api.mu.Lock()
	assert.Zero(t, h.api.refreshCalls)
	h.api.mu.Unlock()

	out, _, err := h.run("", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as kim@example.com", "the earlier session is kept")
	assert.Contains(t, out, "Refresh token stored: true")
}

func TestLogin_SyncsPushTokenOnce(t *testing.T) {
	h := newHarness(t)
	stubPassword(t, "secret")

	_, _, err := h.run("", "--push-token", "fcm-1", "--push-permission", "granted", "login", "-e", "kim@example.com")
	require.NoError(t, err)

	out, _, err := h.run("", "--push-token", "fcm-1", "--push-permission", "granted", "push", "sync", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Push token synced")

	h.api.mu.Lock()
	defer h.api.mu.Unlock()
	require.Len(t, h.api.upserts, 1, "the second sync is deduplicated")
	assert.Equal(t, models.FCMTokenRequest{FCMToken: "fcm-1", DeviceType: common.DeviceTypeWeb}, h.api.upserts[0])
}

func TestPushSync_ForcedReportsReason(t *testing.T) {
	h := newHarness(t)
	stubPassword(t, "secret")
	h.login()

	_, _, err := h.run("", "push", "sync", "--force")
	require.ErrorContains(t, err, "no device push token")

	t.Setenv("VITAPICK_PUSH_ENABLED", "false")
	_, _, err = h.run("", "--push-token", "fcm-1", "push", "sync", "--force")
	require.ErrorContains(t, err, "not available on this device")
	t.Setenv("VITAPICK_PUSH_ENABLED", "true")

	_, _, err = h.run("", "--push-token", "fcm-1", "--push-permission", "denied", "push", "sync", "-f")
	require.ErrorContains(t, err, "permission was denied")

	out, _, err := h.run("", "push", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "not synced")
}

func TestDashboard_RefreshesExpiredAccessToken(t *testing.T) {
	h := newHarness(t)
	stubPassword(t, "secret")
	h.login()

	h.api.mu.Lock()
	h.api.validAccess = "rotated-on-server"
	h.api.mu.Unlock()

	out, _, err := h.run("", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello, kim")
	assert.Contains(t, out, "Intake reminder: on at 09:00")
	assert.Contains(t, out, "Magnesium")

	h.api.mu.Lock()
	assert.Equal(t, 1, h.api.refreshCalls, "three parallel 401s share one refresh")
	h.api.mu.Unlock()

	out, _, err = h.run("", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Refresh token stored: true", "refresh token survives a refresh without rotation")
}

func TestRefreshRejected_RedirectsOnceAndClearsSession(t *testing.T) {
	h := newHarness(t)
	stubPassword(t, "secret")
	h.login()

	h.api.mu.Lock()
	h.api.validAccess = "rotated-on-server"
	h.api.refreshOK = false
	h.api.mu.Unlock()

	_, stderr, err := h.run("", "--metrics", "dashboard")
	require.Error(t, err)
	require.ErrorIs(t, err, common.ErrSessionExpired)
	assert.Equal(t, 1, strings.Count(stderr, "Session expired"))
	assert.Contains(t, stderr, "vitapick_client_login_redirects_total 1")

	out, _, err := h.run("", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestSearch_IsPublic(t *testing.T) {
	h := newHarness(t)
	stubPassword(t, "secret")
	h.login()

	out, _, err := h.run("", "search", "C", "--size", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Vitamin C")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "page 0, 1 results")

	h.api.mu.Lock()
	defer h.api.mu.Unlock()
	assert.Equal(t, []string{""}, h.api.searchAuth)
}

func TestLikeUnlike(t *testing.T) {
	h := newHarness(t)
	stubPassword(t, "secret")
	h.login()

	out, _, err := h.run("", "like", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Liked 42")

	_, _, err = h.run("", "unlike", "43")
	require.NoError(t, err)

	h.api.mu.Lock()
	defer h.api.mu.Unlock()
	assert.Equal(t, map[string]string{"42": http.MethodPost, "43": http.MethodDelete}, h.api.likes)
}

func TestArgumentValidation(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("", "analyze", "1")
	require.Error(t, err)

	_, _, err = h.run("", "like", "abc")
	require.ErrorIs(t, err, common.ErrorValidation)

	_, _, err = h.run("", "signup", "--token", "t", "--nickname", "kim")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestSocialCallback(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("", "social-callback", "https://vitapick.kr/oauth/callback?signupToken=st-1&email=kim%40example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "--token st-1")
	assert.Contains(t, out, `--email "kim@example.com"`)

	_, _, err = h.run("", "social-callback", "?foo=bar")
	require.ErrorIs(t, err, common.ErrInvalidCallback)

	access := signedToken(t, "social@example.com", time.Now().Add(time.Hour))
	out, _, err = h.run("", "social-callback", "accessToken="+access+"&refreshToken=r-9")
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful")

	out, _, err = h.run("", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as social@example.com")
}

func TestStatus_ExpiredToken(t *testing.T) {
	h := newHarness(t)
	stubPassword(t, "secret")
	h.api.loginAccess = signedToken(t, "kim@example.com", time.Now().Add(-time.Minute))
	h.login()

	out, _, err := h.run("", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Access token expired at")
}

func TestPushNotify_PrintsForegroundMessage(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("", "push", "notify", "--title", "Reminder", "--body", "Take your vitamins")
	require.NoError(t, err)
	assert.Equal(t, "[notification] Reminder: Take your vitamins\n", out)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	h := newHarness(t)
	t.Setenv("VITAPICK_BASE_URL", "http://127.0.0.1:1")

	out, _, err := h.run("", "search", "D")
	require.NoError(t, err, "--base-url beats VITAPICK_BASE_URL")
	assert.Contains(t, out, "Vitamin D")
}
