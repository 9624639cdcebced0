// Package storage keeps the editable files of one directory: listing,
// opening them as file handles, and persisting handles written by the
// editors.
package storage

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gabrielfornes/scribble/internal/file"
	"github.com/gabrielfornes/scribble/internal/log"
)

// ErrNotFound is returned for names that do not exist in the store.
var ErrNotFound = errors.New("file not found")

// Entry is a single file in the store.
type Entry struct {
	Name    string    // base name, e.g. "notes.md"
	Path    string    // full path on disk
	Size    int64     // bytes
	ModTime time.Time // last modification
}

// Store handles all file system operations for one directory.
type Store struct {
	Root string

	mu      sync.Mutex
	written map[string][][sha256.Size]byte // checksums of our recent writes per name
	queued  map[string]uint64            // latest Save sequence per name

	writeMu sync.Mutex // serializes Save commands
}

// SavedMsg reports the outcome of a Save command. Skipped saves were
// superseded by a later Save of the same file before they ran.
type SavedMsg struct {
	Name    string
	Skipped bool
	Err     error
}

// New creates a Store rooted at root. It ensures the directory exists.
func New(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("could not create directory %s: %w", abs, err)
	}
	return &Store{
		Root:    abs,
		written: make(map[string][][sha256.Size]byte),
		queued:  make(map[string]uint64),
	}, nil
}

// DefaultRoot is ~/scribble.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, "scribble"), nil
}

// List returns the visible regular files in the root, sorted by name.
func (s *Store) List() ([]Entry, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("could not read directory %s: %w", s.Root, err)
	}

	var files []Entry
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, Entry{
			Name:    e.Name(),
			Path:    filepath.Join(s.Root, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Open returns a handle that reads name from disk when loaded.
func (s *Store) Open(name string) (*file.Handle, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("could not stat %s: %w", name, err)
	}
	return file.FromPath(path), nil
}

// Read returns the content of name.
func (s *Store) Read(name string) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("could not read %s: %w", name, err)
	}
	return string(data), nil
}

// recentWrites is how many checksums per file IsOwnWrite remembers.
const recentWrites = 8

// Write stores the content of h under h.Name(), creating the file if
// necessary. The file is replaced atomically.
func (s *Store) Write(ctx context.Context, h *file.Handle) error {
	data, err := h.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("could not read edited content: %w", err)
	}
	path, err := s.path(h.Name())
	if err != nil {
		return err
	}

	// Record before writing so the watcher event that follows is recognised.
	s.mu.Lock()
	sums := append(s.written[h.Name()], sha256.Sum256(data))
	if len(sums) > recentWrites {
		sums = sums[len(sums)-recentWrites:]
	}
	s.written[h.Name()] = sums
	s.mu.Unlock()

	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("could not write %s: %w", h.Name(), err)
	}
	log.LogWithFields(log.F("file", h.Name()), log.F("bytes", len(data))).Debug("file written")
	return nil
}

// Save returns a command that writes h. Saves are queued in call order, so
// when several saves of one file are pending only the newest reaches the disk.
func (s *Store) Save(h *file.Handle) tea.Cmd {
	name := h.Name()
	s.mu.Lock()
	s.queued[name]++
	seq := s.queued[name]
	s.mu.Unlock()

	return func() tea.Msg {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		s.mu.Lock()
		latest := s.queued[name] == seq
		s.mu.Unlock()
		if !latest {
			return SavedMsg{Name: name, Skipped: true}
		}
		return SavedMsg{Name: name, Err: s.Write(context.Background(), h)}
	}
}

// IsOwnWrite reports whether data is one of the last contents this store
// wrote to name.
func (s *Store) IsOwnWrite(name string, data []byte) bool {
	sum := sha256.Sum256(data)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.written[name] {
		if w == sum {
			return true
		}
	}
	return false
}

// Create makes a new empty file and returns its handle. The name is
// sanitized first.
func (s *Store) Create(name string) (*file.Handle, error) {
	name = sanitizeName(name)
	if name == "" {
		return nil, fmt.Errorf("file name cannot be empty")
	}
	path := filepath.Join(s.Root, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("file %q already exists", name)
		}
		return nil, fmt.Errorf("could not create %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("could not create %s: %w", name, err)
	}
	return file.FromPath(path), nil
}

// Delete removes a file.
func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	s.mu.Lock()
	delete(s.written, name)
	s.mu.Unlock()
	return os.Remove(path)
}

// Exists checks whether name is a file in the store.
func (s *Store) Exists(name string) bool {
	path, err := s.path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// --- Helpers ---

// path maps a base name into the root, rejecting anything that would escape it.
func (s *Store) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(s.Root, name), nil
}

// writeAtomic writes data to a hidden temp file next to path and renames it
// over path, so readers never see a partial file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// sanitizeName cleans up a file name: replace spaces with hyphens, remove
// anything that isn't alphanumeric, hyphen, underscore, or dot, and drop
// leading dots.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "-")
	var clean strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			clean.WriteRune(r)
		}
	}
	return strings.TrimLeft(clean.String(), ".")
}
