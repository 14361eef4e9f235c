// Package tokenstore is the single source of truth for session credentials.
//
// Tokens live in the durable metadata table so a session survives process
// restarts. Storage failures never reach the caller as panics: reads report
// absence through an ok flag and writes return an error the caller may log
// and ignore.
package tokenstore

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/vitapick/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/vitapick/internal/common"
	"github.com/dmitrijs2005/vitapick/internal/dbx"
	"github.com/dmitrijs2005/vitapick/internal/logging"
)

const (
	keyAccessToken   = "access_token"
	keyRefreshToken  = "refresh_token"
	keyLastPushToken = "push_last_synced_token"
)

// DB is what the store needs from the database handle. *sql.DB satisfies it.
type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

type Store struct {
	db   DB
	repo metadata.Repository
	log  logging.Logger

	mu         sync.Mutex
	pushToken  string
	pushLoaded bool
	// generation counts Save and Clear calls; push bookkeeping is only
	// written for the generation it was read in.
	generation uint64
}

func New(db DB, log logging.Logger) *Store {
	return &Store{
		db:   db,
		repo: metadata.NewSQLiteRepository(db),
		log:  log.With("component", "tokenstore"),
	}
}

// Save persists the access token and, when refresh is non-empty, the refresh
// token. An empty refresh leaves the stored one untouched. Any push-sync
// bookkeeping from the previous session is dropped so the next sync upserts
// again.
func (s *Store) Save(ctx context.Context, access, refresh string) error {
	if access == "" {
		return common.ErrNoAccessToken
	}

	s.invalidatePush()

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, access); err != nil {
			return err
		}
		if refresh != "" {
			if err := repo.Set(ctx, keyRefreshToken, refresh); err != nil {
				return err
			}
		}
		return repo.Delete(ctx, keyLastPushToken)
	})
	if err != nil {
		s.log.Warn(ctx, "save session failed", "error", err)
		return err
	}
	return nil
}

// Access returns the stored access token.
func (s *Store) Access(ctx context.Context) (string, bool) {
	return s.read(ctx, keyAccessToken)
}

// Refresh returns the stored refresh token.
func (s *Store) Refresh(ctx context.Context) (string, bool) {
	return s.read(ctx, keyRefreshToken)
}

// Clear removes both tokens and the push-sync bookkeeping.
func (s *Store) Clear(ctx context.Context) error {
	s.invalidatePush()

	if err := s.repo.Delete(ctx, keyAccessToken, keyRefreshToken, keyLastPushToken); err != nil {
		s.log.Warn(ctx, "clear session failed", "error", err)
		return err
	}
	return nil
}

// LastSyncedPushToken returns the push token last upserted to the backend
// for this session. The first call reads durable storage; later calls are
// served from memory.
func (s *Store) LastSyncedPushToken(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pushLoaded {
		return s.pushToken, s.pushToken != ""
	}

	v, err := s.repo.Get(ctx, keyLastPushToken)
	switch {
	case err == nil:
		s.pushToken, s.pushLoaded = v, true
	case errors.Is(err, common.ErrorNotFound):
		s.pushToken, s.pushLoaded = "", true
	default:
		s.log.Warn(ctx, "read push bookkeeping failed", "error", err)
		return "", false
	}
	return s.pushToken, s.pushToken != ""
}

// Generation identifies the current session. It changes on every Save and
// Clear.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// SetLastSyncedPushToken records token in memory and in durable storage,
// provided the session is still the one identified by generation. Otherwise
// nothing is written and common.ErrSessionChanged is returned. The memory
// copy is kept even when the durable write fails.
func (s *Store) SetLastSyncedPushToken(ctx context.Context, generation uint64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return common.ErrSessionChanged
	}
	s.pushToken, s.pushLoaded = token, true

	if err := s.repo.Set(ctx, keyLastPushToken, token); err != nil {
		s.log.Warn(ctx, "persist push bookkeeping failed", "error", err)
		return err
	}
	return nil
}

func (s *Store) invalidatePush() {
	s.mu.Lock()
	s.pushToken, s.pushLoaded = "", false
	s.generation++
	s.mu.Unlock()
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	v, err := s.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "read session failed", "key", key, "error", err)
		}
		return "", false
	}
	return v, v != ""
}
