package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/models"
)

func TestStore_SaveLoadClear(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	user := models.User{ID: "u1", Name: "alice", Role: models.RoleRegular, PartyID: "42"}
	require.NoError(t, s.Save(user))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, user, *got)

	require.NoError(t, s.Clear())
	_, err = s.Load()
	require.ErrorIs(t, err, common.ErrInvalidSession)

	// Clearing twice is fine.
	require.NoError(t, s.Clear())
}

func TestStore_LoadWithoutSession(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load()
	require.ErrorIs(t, err, common.ErrInvalidSession)
}

func TestStore_TamperedSessionRejected(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(models.User{ID: "u1"}))

	raw, err := os.ReadFile(filepath.Join(dir, "session"))
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session"), raw, 0o600))

	_, err = s.Load()
	require.ErrorIs(t, err, common.ErrInvalidSession)
}

func TestStore_ForeignKeyRejected(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	a, err := NewStore(dirA)
	require.NoError(t, err)
	require.NoError(t, a.Save(models.User{ID: "u1"}))

	// A session copied next to a different signing key must not validate.
	raw, err := os.ReadFile(filepath.Join(dirA, "session"))
	require.NoError(t, err)

	b, err := NewStore(dirB)
	require.NoError(t, err)
	require.NoError(t, b.Save(models.User{ID: "u2"}))
	require.NoError(t, os.WriteFile(filepath.Join(dirB, "session"), raw, 0o600))

	_, err = b.Load()
	require.ErrorIs(t, err, common.ErrInvalidSession)
}
