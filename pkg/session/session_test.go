package session

import (
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/models"
)

func TestSaveLoadClear(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	// nothing stored yet
	u, err := s.LoadCurrentUser()
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, s.SaveCurrentUser(&models.User{ID: "1", Name: "Demo User", Email: "demo@threadspire.com"}))
	u, err = s.LoadCurrentUser()
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "Demo User", u.Name)

	require.NoError(t, s.ClearCurrentUser())
	u, err = s.LoadCurrentUser()
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUnparseableRecordDiscarded(t *testing.T) {
	dir := t.TempDir()

	// plant a corrupt value under the identity key
	db, err := pebble.Open(dir, &pebble.Options{})
	require.NoError(t, err)
	require.NoError(t, db.Set([]byte(CurrentUserKey), []byte("{not json"), pebble.Sync))
	require.NoError(t, db.Close())

	s, err := Open(dir)
	require.NoError(t, err)
	defer s.Close()

	u, err := s.LoadCurrentUser()
	require.NoError(t, err)
	assert.Nil(t, u)

	// the corrupt record was removed, not just skipped
	u, err = s.LoadCurrentUser()
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestRecordWithoutIDDiscarded(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveCurrentUser(&models.User{Name: "no id"}))
	u, err := s.LoadCurrentUser()
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestClosedStoreErrors(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.False(t, s.Ready())
	assert.Error(t, s.SaveCurrentUser(&models.User{ID: "1"}))
	_, err = s.LoadCurrentUser()
	assert.Error(t, err)
	assert.Error(t, s.ClearCurrentUser())
}
