// Package session persists the current surveyor's login state in a local bolt file.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/boltdb/bolt"

	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

// Namespace is the bolt bucket holding the session keys.
const Namespace = "SurveySession"

// MaxAge is how long a login stays valid.
const MaxAge = 7 * 24 * time.Hour

const (
	keyIsLoggedIn   = "isLoggedIn"
	keyUserID       = "userId"
	keyUserName     = "userName"
	keyUserUsername = "userUsername"
	keyLoginTime    = "loginTime"
)

// Defaults returned by the getters when a key is absent.
const (
	DefaultUserID    = -1
	DefaultLoginTime = int64(0)
)

// Store is a single-account session backed by a bolt database.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock used for login timestamps and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens (or creates) the session file at path.
func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating session directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateLoginSession stores the login and the current time in one transaction.
// The stored timestamp is at least 1 so a logged-in session never reads as absent.
func (s *Store) CreateLoginSession(userID int, userName, username string) error {
	loginTime := max(s.now().UnixMilli(), 1)

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(Namespace))
		if err != nil {
			return err
		}

		values := map[string]string{
			keyIsLoggedIn:   strconv.FormatBool(true),
			keyUserID:       strconv.Itoa(userID),
			keyUserName:     userName,
			keyUserUsername: username,
			keyLoginTime:    strconv.FormatInt(loginTime, 10),
		}
		for k, v := range values {
			if err := b.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearSession removes every session key. Clearing an empty store is a no-op.
func (s *Store) ClearSession() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(Namespace))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

// Session returns a snapshot of all session fields, with defaults for absent keys.
func (s *Store) Session() (model.Session, error) {
	sess := model.Session{UserID: DefaultUserID, LoginTimeMs: DefaultLoginTime}

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(Namespace))
		if b == nil {
			return nil
		}

		var err error
		if v := b.Get([]byte(keyIsLoggedIn)); v != nil {
			if sess.LoggedIn, err = strconv.ParseBool(string(v)); err != nil {
				return fmt.Errorf("decoding %s: %w", keyIsLoggedIn, err)
			}
		}
		if v := b.Get([]byte(keyUserID)); v != nil {
			if sess.UserID, err = strconv.Atoi(string(v)); err != nil {
				return fmt.Errorf("decoding %s: %w", keyUserID, err)
			}
		}
		if v := b.Get([]byte(keyLoginTime)); v != nil {
			if sess.LoginTimeMs, err = strconv.ParseInt(string(v), 10, 64); err != nil {
				return fmt.Errorf("decoding %s: %w", keyLoginTime, err)
			}
		}
		sess.UserName = string(b.Get([]byte(keyUserName)))
		sess.Username = string(b.Get([]byte(keyUserUsername)))
		return nil
	})
	if err != nil {
		return model.Session{UserID: DefaultUserID}, err
	}

	return sess, nil
}

// snapshot reads the session, logging and falling back to defaults on failure.
func (s *Store) snapshot() model.Session {
	sess, err := s.Session()
	if err != nil {
		slog.Warn("reading session failed, using defaults", "error", err)
	}
	return sess
}

// IsLoggedIn reports the persisted login flag, false when unset.
func (s *Store) IsLoggedIn() bool { return s.snapshot().LoggedIn }

// UserID returns the stored user id, or -1.
func (s *Store) UserID() int { return s.snapshot().UserID }

// UserName returns the stored display name, or "".
func (s *Store) UserName() string { return s.snapshot().UserName }

// Username returns the stored login name, or "".
func (s *Store) Username() string { return s.snapshot().Username }

// LoginTime returns the login timestamp in Unix milliseconds, or 0.
func (s *Store) LoginTime() int64 { return s.snapshot().LoginTimeMs }

// IsSessionExpired reports whether there is no login timestamp or it is older than MaxAge.
func (s *Store) IsSessionExpired() bool {
	return Expired(s.LoginTime(), s.now())
}

// Expired reports whether a login at loginTimeMs has lapsed at now.
func Expired(loginTimeMs int64, now time.Time) bool {
	if loginTimeMs == 0 {
		return true
	}
	return now.UnixMilli()-loginTimeMs > MaxAge.Milliseconds()
}
