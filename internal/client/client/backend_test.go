package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/vitapick/internal/common"
	"github.com/gorilla/mux"
)

// fakeBackend accepts bearer tokens equal to validAccess and exchanges
// validRefresh for newAccess/newRefresh.
type fakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu           sync.Mutex
	validAccess  string
	validRefresh string
	newAccess    string
	newRefresh   string
	refreshCode  int
	refreshDelay time.Duration
	// beforeRefresh runs in the refresh handler before it answers.
	beforeRefresh func()
	authHeaders   map[string][]string
	refreshBodies []string

	refreshCalls atomic.Int32
	unauthorized atomic.Int32
	hits         sync.Map // path -> *atomic.Int32
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		t:            t,
		validAccess:  "access-new",
		validRefresh: "refresh-1",
		newAccess:    "access-new",
		refreshCode:  http.StatusOK,
		authHeaders:  map[string][]string{},
	}

	r := mux.NewRouter()
	r.HandleFunc(common.RefreshPath, b.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc(common.SupplementSearchPath, b.public(map[string]any{"items": []string{"zinc"}})).Methods(http.MethodGet)
	r.HandleFunc(common.CombinationRecommend, b.public([]string{"vitamin-d+k2"})).Methods(http.MethodGet)
	r.HandleFunc(common.MePath, b.protected(map[string]any{"id": 7, "nickname": "kim"})).Methods(http.MethodGet)
	r.HandleFunc(common.NotificationSettingsMe, b.protected(map[string]any{"intakeReminder": true})).Methods(http.MethodGet)
	r.HandleFunc(common.SupplementLikesMePath, b.protected([]map[string]any{{"id": 1}})).Methods(http.MethodGet)
	r.HandleFunc(common.LoginPath, func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		writeEnvelope(w, http.StatusUnauthorized, false, "AUTH_LOGIN", "wrong email or password", nil)
	}).Methods(http.MethodPost)
	r.HandleFunc(common.SupplementSearchPath+"/restricted", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		writeEnvelope(w, http.StatusUnauthorized, false, "AUTH401", "nope", nil)
	}).Methods(http.MethodGet)
	r.HandleFunc("/always-401", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		writeEnvelope(w, http.StatusUnauthorized, false, "AUTH401", "nope", nil)
	})
	r.HandleFunc("/fail", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		writeEnvelope(w, http.StatusOK, false, "SUPP404", "supplement not found", nil)
	})
	r.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		writeEnvelope(w, http.StatusBadGateway, false, "COMMON502", "upstream", nil)
	})

	b.srv = httptest.NewServer(r)
	t.Cleanup(b.srv.Close)
	return b
}

func writeEnvelope(w http.ResponseWriter, status int, ok bool, code, msg string, result any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope[any]{IsSuccess: ok, Code: code, Message: msg, Result: result})
}

func (b *fakeBackend) record(r *http.Request) {
	b.mu.Lock()
	b.authHeaders[r.URL.Path] = append(b.authHeaders[r.URL.Path], r.Header.Get(common.AuthorizationHeaderName))
	b.mu.Unlock()

	v, _ := b.hits.LoadOrStore(r.URL.Path, new(atomic.Int32))
	v.(*atomic.Int32).Add(1)
}

func (b *fakeBackend) hitCount(path string) int32 {
	v, ok := b.hits.Load(path)
	if !ok {
		return 0
	}
	return v.(*atomic.Int32).Load()
}

func (b *fakeBackend) headers(path string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.authHeaders[path]...)
}

func (b *fakeBackend) public(result any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		writeEnvelope(w, http.StatusOK, true, "COMMON200", "ok", result)
	}
}

func (b *fakeBackend) protected(result any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		b.mu.Lock()
		valid := b.validAccess
		b.mu.Unlock()
		if r.Header.Get(common.AuthorizationHeaderName) != common.BearerPrefix+valid {
			b.unauthorized.Add(1)
			writeEnvelope(w, http.StatusUnauthorized, false, "AUTH401", "access token expired", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "COMMON200", "ok", result)
	}
}

func (b *fakeBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.record(r)
	b.refreshCalls.Add(1)

	var req refreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	b.refreshBodies = append(b.refreshBodies, req.RefreshToken)
	code, delay, hook := b.refreshCode, b.refreshDelay, b.beforeRefresh
	validRefresh, newAccess, newRefresh := b.validRefresh, b.newAccess, b.newRefresh
	b.mu.Unlock()

	if hook != nil {
		hook()
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if code != http.StatusOK || req.RefreshToken != validRefresh {
		if code == http.StatusOK {
			code = http.StatusUnauthorized
		}
		writeEnvelope(w, code, false, "AUTH_REFRESH", "refresh token rejected", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "COMMON200", "ok", TokenPair{AccessToken: newAccess, RefreshToken: newRefresh})
}
