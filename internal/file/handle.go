package file

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNoContent is returned when a handle has no blob to read from.
var ErrNoContent = errors.New("file handle has no content")

// Handle is an immutable named, typed blob exchanged between an editor and
// its host. Every edit produces a new Handle (with a new ID); the ID is the
// handle's identity.
type Handle struct {
	id       uuid.UUID
	name     string
	mimeType string
	blob     blob
}

// blob is where a handle's bytes come from.
type blob interface {
	read(ctx context.Context) ([]byte, error)
	size() int64
}

// memBlob holds the content in memory.
type memBlob []byte

func (b memBlob) read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func (b memBlob) size() int64 { return int64(len(b)) }

// pathBlob reads the content lazily from disk.
type pathBlob string

func (p pathBlob) read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(string(p))
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", string(p), err)
	}
	return data, nil
}

func (p pathBlob) size() int64 { return -1 }

// New creates a handle backed by a copy of content.
func New(name, mimeType string, content []byte) *Handle {
	return &Handle{
		id:       uuid.New(),
		name:     name,
		mimeType: mimeType,
		blob:     memBlob(append([]byte(nil), content...)),
	}
}

// FromPath creates a handle whose content is read from path on demand.
// The name is the base name of path; the type is guessed from the extension.
func FromPath(path string) *Handle {
	name := filepath.Base(path)
	return &Handle{
		id:       uuid.New(),
		name:     name,
		mimeType: TypeForName(name),
		blob:     pathBlob(path),
	}
}

// TypeForName guesses a MIME type from a file name, defaulting to text/plain.
func TypeForName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".md", ".markdown":
		return "text/markdown"
	case ".json":
		return "application/json"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "text/plain"
}

// ID returns the handle's identity.
func (h *Handle) ID() uuid.UUID { return h.id }

// Name returns the file name.
func (h *Handle) Name() string { return h.name }

// Type returns the MIME type.
func (h *Handle) Type() string { return h.mimeType }

// Size returns the content length, or -1 if it is not known without reading.
func (h *Handle) Size() int64 {
	if h.blob == nil {
		return 0
	}
	return h.blob.size()
}

// ReadAll returns the full content of the handle.
func (h *Handle) ReadAll(ctx context.Context) ([]byte, error) {
	if h == nil || h.blob == nil {
		return nil, ErrNoContent
	}
	return h.blob.read(ctx)
}

// WithContent returns a new handle with the same name and type and the given
// content. The receiver is left unchanged.
func (h *Handle) WithContent(content []byte) *Handle {
	return New(h.name, h.mimeType, content)
}

// WithText is WithContent for string content.
func (h *Handle) WithText(text string) *Handle {
	return h.WithContent([]byte(text))
}

// Same reports whether a and b are the same handle by identity.
func Same(a, b *Handle) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.id == b.id
}

func (h *Handle) String() string {
	return fmt.Sprintf("%s (%s) [%s]", h.name, h.mimeType, h.id.String()[:8])
}
