package push

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/dmitrijs2005/vitapick/internal/client/metrics"
	"github.com/dmitrijs2005/vitapick/internal/common"
	"github.com/dmitrijs2005/vitapick/internal/logging"
)

// Reason explains why a sync did not complete.
type Reason string

const (
	ReasonNoAccessToken     Reason = "no_access_token"
	ReasonNotSupported      Reason = "not_supported"
	ReasonChannelError      Reason = "sw_error"
	ReasonPermissionDenied  Reason = "permission_denied"
	ReasonPermissionBlocked Reason = "permission_blocked"
	ReasonNoToken           Reason = "no_token"
	ReasonUpsertFailed      Reason = "upsert_failed"
	ReasonInFlight          Reason = "in_flight"
)

// Result is the outcome of a sync. Reason is empty when OK.
type Result struct {
	OK     bool
	Reason Reason
}

func fail(r Reason) Result { return Result{Reason: r} }

// SessionStore is the slice of the token store the synchronizer uses.
type SessionStore interface {
	Access(ctx context.Context) (string, bool)
	Generation() uint64
	LastSyncedPushToken(ctx context.Context) (string, bool)
	SetLastSyncedPushToken(ctx context.Context, generation uint64, token string) error
}

// Upserter records the device token on the backend.
type Upserter interface {
	UpsertFCMToken(ctx context.Context, token, deviceType string) error
}

type Synchronizer struct {
	store     SessionStore
	messaging Messaging
	upserter  Upserter
	log       logging.Logger
	metrics   *metrics.Metrics

	inFlight atomic.Bool
}

func NewSynchronizer(store SessionStore, messaging Messaging, upserter Upserter, log logging.Logger, m *metrics.Metrics) *Synchronizer {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Synchronizer{
		store:     store,
		messaging: messaging,
		upserter:  upserter,
		log:       log.With("component", "push"),
		metrics:   m,
	}
}

// SyncSilent syncs without ever prompting for permission.
func (s *Synchronizer) SyncSilent(ctx context.Context) bool {
	r := s.sync(ctx, false)
	if !r.OK {
		s.log.Debug(ctx, "silent push sync skipped", "reason", r.Reason)
	}
	return r.OK
}

// SyncForced syncs on behalf of an explicit user action, prompting for
// permission if needed.
func (s *Synchronizer) SyncForced(ctx context.Context) Result {
	r := s.sync(ctx, true)
	if !r.OK {
		s.log.Info(ctx, "push sync failed", "reason", r.Reason)
	}
	return r
}

// InFlight reports whether a sync is running.
func (s *Synchronizer) InFlight() bool {
	return s.inFlight.Load()
}

func (s *Synchronizer) sync(ctx context.Context, forced bool) Result {
	if !s.inFlight.CompareAndSwap(false, true) {
		return fail(ReasonInFlight)
	}
	defer s.inFlight.Store(false)

	gen := s.store.Generation()
	if r := s.checkPreconditions(ctx, forced); r != "" {
		return fail(r)
	}

	token, err := s.messaging.Token(ctx)
	if err != nil || token == "" {
		return fail(ReasonNoToken)
	}

	if last, ok := s.store.LastSyncedPushToken(ctx); ok && last == token {
		s.metrics.PushUpserts.WithLabelValues(metrics.ResultSkipped).Inc()
		return Result{OK: true}
	}

	if err := s.upserter.UpsertFCMToken(ctx, token, common.DeviceTypeWeb); err != nil {
		s.metrics.PushUpserts.WithLabelValues(metrics.ResultFailure).Inc()
		s.log.Warn(ctx, "push token upsert failed", "error", err)
		return fail(ReasonUpsertFailed)
	}

	// A session saved or cleared mid-sync keeps its fresh bookkeeping; the
	// next sync upserts again.
	if err := s.store.SetLastSyncedPushToken(ctx, gen, token); errors.Is(err, common.ErrSessionChanged) {
		s.log.Debug(ctx, "session changed during push sync, not recording token")
	}
	s.metrics.PushUpserts.WithLabelValues(metrics.ResultSuccess).Inc()
	s.log.Info(ctx, "push token synced")
	return Result{OK: true}
}

// checkPreconditions returns the first unmet precondition, or "".
func (s *Synchronizer) checkPreconditions(ctx context.Context, forced bool) Reason {
	if _, ok := s.store.Access(ctx); !ok {
		return ReasonNoAccessToken
	}
	if !s.messaging.Supported() {
		return ReasonNotSupported
	}
	if err := s.messaging.RegisterChannel(ctx); err != nil {
		s.log.Debug(ctx, "register delivery channel failed", "error", err)
		return ReasonChannelError
	}

	perm := s.messaging.Permission(ctx)
	if perm == PermissionGranted {
		return ""
	}
	if !forced {
		return ReasonPermissionBlocked
	}

	perm, err := s.messaging.RequestPermission(ctx)
	switch {
	case err != nil:
		s.log.Debug(ctx, "permission request failed", "error", err)
		return ReasonPermissionBlocked
	case perm == PermissionGranted:
		return ""
	case perm == PermissionDenied:
		return ReasonPermissionDenied
	default:
		return ReasonPermissionBlocked
	}
}
