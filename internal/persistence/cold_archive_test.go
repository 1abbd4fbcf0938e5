package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixd/internal/models"
	"fixd/internal/testutil"
)

func newTestArchive(t *testing.T, dir string, ttl time.Duration) *ColdArchive {
	t.Helper()
	return NewColdArchive(dir, ttl, &testutil.MockCompressor{}, &testutil.MockLogger{})
}

func TestColdArchive_PendingRestoreWithoutFlush(t *testing.T) {
	ca := newTestArchive(t, t.TempDir(), 0)

	ca.Archive(models.DiagnosticSession{ID: "s1", Summary: "misfire"})
	assert.True(t, ca.Has("s1"))

	session, err := ca.Restore("s1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "misfire", session.Summary)
	assert.False(t, ca.Has("s1"))
}

func TestColdArchive_MissingID(t *testing.T) {
	ca := newTestArchive(t, t.TempDir(), 0)

	session, err := ca.Restore("nope")
	assert.NoError(t, err)
	assert.Nil(t, session)
}

func TestColdArchive_FlushAndReload(t *testing.T) {
	dir := t.TempDir()

	ca := newTestArchive(t, dir, 0)
	ca.Archive(models.DiagnosticSession{ID: "s1"})
	ca.Archive(models.DiagnosticSession{ID: "s2"})
	require.NoError(t, ca.Flush())

	_, err := os.Stat(filepath.Join(dir, coldFileName))
	require.NoError(t, err)

	// A fresh process sees the archive through the rebuilt index.
	ca2 := newTestArchive(t, dir, 0)
	require.NoError(t, ca2.RestoreIndex())
	assert.True(t, ca2.Has("s1"))
	assert.True(t, ca2.Has("s2"))

	session, err := ca2.Restore("s1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "s1", session.ID)
}

func TestColdArchive_RestoredEntryRemovedOnFlush(t *testing.T) {
	dir := t.TempDir()

	ca := newTestArchive(t, dir, 0)
	ca.Archive(models.DiagnosticSession{ID: "s1"})
	ca.Archive(models.DiagnosticSession{ID: "s2"})
	require.NoError(t, ca.Flush())

	_, err := ca.Restore("s1")
	require.NoError(t, err)
	require.NoError(t, ca.Flush())

	ca2 := newTestArchive(t, dir, 0)
	require.NoError(t, ca2.RestoreIndex())
	assert.False(t, ca2.Has("s1"))
	assert.True(t, ca2.Has("s2"))
}

func TestColdArchive_FlushNoopWhenIdle(t *testing.T) {
	dir := t.TempDir()
	ca := newTestArchive(t, dir, 0)

	require.NoError(t, ca.Flush())

	_, err := os.Stat(filepath.Join(dir, coldFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestColdArchive_TTLExpiry(t *testing.T) {
	dir := t.TempDir()
	ca := newTestArchive(t, dir, time.Nanosecond)

	ca.Archive(models.DiagnosticSession{ID: "s1"})
	require.NoError(t, ca.Flush())
	time.Sleep(time.Millisecond)

	// Second flush ages the stored entry past the TTL.
	ca.Archive(models.DiagnosticSession{ID: "s2"})
	time.Sleep(time.Millisecond)
	require.NoError(t, ca.Flush())

	assert.False(t, ca.Has("s1"))
}

func TestColdArchive_RestoreIndexCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "archive")
	ca := newTestArchive(t, dir, 0)

	require.NoError(t, ca.RestoreIndex())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
