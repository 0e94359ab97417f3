package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()

	clock := &fakeClock{t: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	s, err := Open(filepath.Join(t.TempDir(), "session.db"), WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, clock
}

func TestStore_EmptyDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	assert.False(t, s.IsLoggedIn())
	assert.Equal(t, -1, s.UserID())
	assert.Equal(t, "", s.UserName())
	assert.Equal(t, "", s.Username())
	assert.Equal(t, int64(0), s.LoginTime())
	assert.True(t, s.IsSessionExpired())
}

func TestStore_CreateLoginSession(t *testing.T) {
	cases := []struct {
		userID   int
		userName string
		username string
	}{
		{1, "Li Wei", "liwei"},
		{0, "", ""},
		{42, "Zhang San", "zhang.san@example.com"},
		{2147483647, "名字", "user_名"},
	}

	for _, tc := range cases {
		s, clock := newTestStore(t)

		require.NoError(t, s.CreateLoginSession(tc.userID, tc.userName, tc.username))

		assert.True(t, s.IsLoggedIn())
		assert.Equal(t, tc.userID, s.UserID())
		assert.Equal(t, tc.userName, s.UserName())
		assert.Equal(t, tc.username, s.Username())
		assert.Equal(t, clock.Now().UnixMilli(), s.LoginTime())
		assert.False(t, s.IsSessionExpired())
	}
}

func TestStore_ClearSession(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.CreateLoginSession(5, "Wang Fang", "wangfang"))

	require.NoError(t, s.ClearSession())

	sess, err := s.Session()
	require.NoError(t, err)
	assert.False(t, sess.LoggedIn)
	assert.Equal(t, DefaultUserID, sess.UserID)
	assert.Empty(t, sess.UserName)
	assert.Empty(t, sess.Username)
	assert.Equal(t, DefaultLoginTime, sess.LoginTimeMs)
	assert.True(t, s.IsSessionExpired())
}

func TestStore_ClearSessionIdempotent(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.ClearSession())
	require.NoError(t, s.ClearSession())
	assert.False(t, s.IsLoggedIn())
}

func TestStore_ExpiryThreshold(t *testing.T) {
	s, clock := newTestStore(t)
	require.NoError(t, s.CreateLoginSession(1, "a", "b"))

	clock.Advance(MaxAge - time.Millisecond)
	assert.False(t, s.IsSessionExpired(), "just before threshold")

	clock.Advance(time.Millisecond)
	assert.False(t, s.IsSessionExpired(), "exactly at threshold")

	clock.Advance(time.Millisecond)
	assert.True(t, s.IsSessionExpired(), "past threshold")
}

func TestStore_ExpiryDoesNotMutate(t *testing.T) {
	s, clock := newTestStore(t)
	require.NoError(t, s.CreateLoginSession(3, "n", "u"))

	clock.Advance(MaxAge + time.Hour)
	require.True(t, s.IsSessionExpired())

	assert.True(t, s.IsLoggedIn())
	assert.Equal(t, 3, s.UserID())
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.CreateLoginSession(8, "Zhao Lei", "zhaolei"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.IsLoggedIn())
	assert.Equal(t, 8, s.UserID())
	assert.Equal(t, "zhaolei", s.Username())
}

func TestStore_LastWriteWins(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.CreateLoginSession(1, "first", "first"))
	require.NoError(t, s.CreateLoginSession(2, "second", "second"))

	assert.Equal(t, 2, s.UserID())
	assert.Equal(t, "second", s.UserName())
}

func TestExpired(t *testing.T) {
	now := time.UnixMilli(1_000_000_000_000)

	assert.True(t, Expired(0, now))
	assert.False(t, Expired(now.UnixMilli(), now))
	assert.False(t, Expired(now.UnixMilli()-604_800_000, now))
	assert.True(t, Expired(now.UnixMilli()-604_800_001, now))
}

func TestStore_CreateLoginSessionAtEpoch(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "session.db"), WithClock(func() time.Time { return time.UnixMilli(0) }))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.CreateLoginSession(7, "Li Wei", "liwei"))

	assert.True(t, s.IsLoggedIn())
	assert.NotZero(t, s.LoginTime())
	assert.False(t, s.IsSessionExpired())
}
