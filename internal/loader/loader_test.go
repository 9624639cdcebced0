package loader

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielfornes/scribble/internal/file"
)

// readResult runs cmd (expanding batches) and returns the read result.
func readResult(t *testing.T, cmd tea.Cmd) readMsg {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case readMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if r, ok := c().(readMsg); ok {
				return r
			}
		}
	}
	t.Fatal("command produced no read result")
	return readMsg{}
}

func TestLoadDeliversContentOnce(t *testing.T) {
	h := file.New("note.md", "text/markdown", []byte("# hi\n"))
	m := New()
	assert.Equal(t, Idle, m.Phase())

	m, cmd := m.Load(h)
	assert.True(t, m.Loading())
	_, ok := m.Content()
	assert.False(t, ok, "no content while loading")

	msg := readResult(t, cmd)
	m, _ = m.Update(msg)
	assert.False(t, m.Loading())
	assert.Equal(t, Ready, m.Phase())
	content, ok := m.Content()
	require.True(t, ok)
	assert.Equal(t, "# hi\n", content)

	// A duplicate result does not transition again.
	m, _ = m.Update(readMsg{id: h.ID(), content: "other"})
	content, _ = m.Content()
	assert.Equal(t, "# hi\n", content)
}

func TestNewHandleSupersedesInFlightRead(t *testing.T) {
	first := file.New("a.txt", "text/plain", []byte("first"))
	second := file.New("a.txt", "text/plain", []byte("second"))

	m := New()
	m, firstCmd := m.Load(first)
	m, secondCmd := m.Load(second)

	stale := readResult(t, firstCmd)
	m, _ = m.Update(stale)
	assert.True(t, m.Loading(), "stale result must be ignored")

	m, _ = m.Update(readResult(t, secondCmd))
	content, ok := m.Content()
	require.True(t, ok)
	assert.Equal(t, "second", content)
	assert.True(t, file.Same(second, m.Handle()))

	// Late result of the first handle after completion is dropped too.
	m, _ = m.Update(stale)
	content, _ = m.Content()
	assert.Equal(t, "second", content)
}

func TestReloadSameContentNewIdentity(t *testing.T) {
	h := file.New("a.txt", "text/plain", []byte("x"))
	m := New()
	m, cmd := m.Load(h)
	m, _ = m.Update(readResult(t, cmd))
	require.Equal(t, Ready, m.Phase())

	m, cmd = m.Load(h.WithText("y"))
	assert.True(t, m.Loading())
	m, _ = m.Update(readResult(t, cmd))
	content, _ := m.Content()
	assert.Equal(t, "y", content)
}

func TestReadFailureIsSurfaced(t *testing.T) {
	h := file.FromPath(filepath.Join(t.TempDir(), "missing.txt"))
	m := New()
	m, cmd := m.Load(h)
	m, _ = m.Update(readResult(t, cmd))

	assert.Equal(t, Failed, m.Phase())
	assert.False(t, m.Loading())
	assert.ErrorIs(t, m.Err(), os.ErrNotExist)
	assert.Contains(t, m.View(), "Could not load missing.txt")
}

func TestLoadNilHandle(t *testing.T) {
	m, cmd := New().Load(nil)
	assert.Nil(t, cmd)
	assert.Equal(t, Failed, m.Phase())
	assert.ErrorIs(t, m.Err(), file.ErrNoContent)
}

func TestViewPlaceholder(t *testing.T) {
	m, _ := New().Load(file.New("a", "text/plain", nil))
	assert.Contains(t, m.View(), "loading...")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "failed", Failed.String())
}
