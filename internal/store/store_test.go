package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a new bbolt store in a temp directory for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Initialize())
	t.Cleanup(func() { st.Close() })
	return st
}

func commands(t *testing.T, st *Store, n int) []string {
	t.Helper()
	entries, err := st.RecentCommands(n)
	require.NoError(t, err)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Command
	}
	return out
}

// ==================== Store Tests ====================

func TestStore_Initialize(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Initialize())
	// Initialize is idempotent
	require.NoError(t, st.Initialize())

	last, err := st.LastCommand()
	require.NoError(t, err)
	assert.Equal(t, "", last)
}

// ==================== History Tests ====================

func TestAppendCommand(t *testing.T) {
	st := newTestStore(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	st.now = func() time.Time { return fixed }

	entry, err := st.AppendCommand("  git init  ")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, uint64(1), entry.Seq)
	assert.Equal(t, "git init", entry.Command)
	assert.Equal(t, fixed, entry.Timestamp)

	entry, err = st.AppendCommand("git commit")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), entry.Seq)

	last, err := st.LastCommand()
	require.NoError(t, err)
	assert.Equal(t, "git commit", last)
}

func TestAppendCommand_IgnoresBlank(t *testing.T) {
	st := newTestStore(t)

	entry, err := st.AppendCommand("   ")
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Empty(t, commands(t, st, 0))
}

func TestRecentCommands_Order(t *testing.T) {
	st := newTestStore(t)
	for _, c := range []string{"git init", "git commit", "git branch dev", "git checkout dev"} {
		_, err := st.AppendCommand(c)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"git init", "git commit", "git branch dev", "git checkout dev"}, commands(t, st, 0))
	assert.Equal(t, []string{"git branch dev", "git checkout dev"}, commands(t, st, 2))
	assert.Len(t, commands(t, st, 10), 4)
}

func TestAppendCommand_TrimsToLimit(t *testing.T) {
	st := newTestStore(t)
	st.SetLimit(3)

	for _, c := range []string{"a", "b", "c", "d", "e"} {
		_, err := st.AppendCommand(c)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"c", "d", "e"}, commands(t, st, 0))
}

func TestHistory_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	st, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Initialize())
	_, err = st.AppendCommand("git init")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = New(dbPath)
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Initialize())

	entry, err := st.AppendCommand("git commit")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), entry.Seq, "sequence continues after reopen")
	assert.Equal(t, []string{"git init", "git commit"}, commands(t, st, 0))
}
