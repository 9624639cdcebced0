// Package workspace keeps the set of open documents, each with its own
// independent editor, and tracks which one is active.
package workspace

import (
	"github.com/google/uuid"
)

type document[T any] struct {
	name  string
	value T
}

// Arena holds open documents keyed by id, in the order they were opened.
// It is not safe for concurrent use; the owning model serializes access.
type Arena[T any] struct {
	docs   map[uuid.UUID]*document[T]
	order  []uuid.UUID
	active int
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{
		docs:   make(map[uuid.UUID]*document[T]),
		active: -1,
	}
}

// Open adds a document and makes it active.
func (a *Arena[T]) Open(name string, v T) uuid.UUID {
	id := uuid.New()
	a.docs[id] = &document[T]{name: name, value: v}
	a.order = append(a.order, id)
	a.active = len(a.order) - 1
	return id
}

// Get returns the document stored under id.
func (a *Arena[T]) Get(id uuid.UUID) (T, bool) {
	d, ok := a.docs[id]
	if !ok {
		var zero T
		return zero, false
	}
	return d.value, true
}

// Set replaces the value of an open document.
func (a *Arena[T]) Set(id uuid.UUID, v T) bool {
	d, ok := a.docs[id]
	if !ok {
		return false
	}
	d.value = v
	return true
}

// Name returns the name a document was opened under.
func (a *Arena[T]) Name(id uuid.UUID) string {
	if d, ok := a.docs[id]; ok {
		return d.name
	}
	return ""
}

// Active returns the active document.
func (a *Arena[T]) Active() (uuid.UUID, T, bool) {
	if a.active < 0 {
		var zero T
		return uuid.Nil, zero, false
	}
	id := a.order[a.active]
	return id, a.docs[id].value, true
}

// Activate makes id the active document.
func (a *Arena[T]) Activate(id uuid.UUID) bool {
	for i, o := range a.order {
		if o == id {
			a.active = i
			return true
		}
	}
	return false
}

// Next activates the document opened after the active one, wrapping around.
func (a *Arena[T]) Next() (uuid.UUID, bool) {
	return a.step(1)
}

// Prev activates the document opened before the active one, wrapping around.
func (a *Arena[T]) Prev() (uuid.UUID, bool) {
	return a.step(-1)
}

func (a *Arena[T]) step(delta int) (uuid.UUID, bool) {
	n := len(a.order)
	if n == 0 {
		return uuid.Nil, false
	}
	a.active = ((a.active+delta)%n + n) % n
	return a.order[a.active], true
}

// Close removes a document. The active document moves to its predecessor
// when the active one is closed.
func (a *Arena[T]) Close(id uuid.UUID) bool {
	idx := -1
	for i, o := range a.order {
		if o == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	delete(a.docs, id)
	a.order = append(a.order[:idx], a.order[idx+1:]...)

	switch {
	case len(a.order) == 0:
		a.active = -1
	case idx < a.active:
		a.active--
	case idx == a.active:
		a.active = max(idx-1, 0)
	}
	return true
}

// FindByName returns the first open document with the given name.
func (a *Arena[T]) FindByName(name string) (uuid.UUID, bool) {
	for _, id := range a.order {
		if a.docs[id].name == name {
			return id, true
		}
	}
	return uuid.Nil, false
}

// Len returns the number of open documents.
func (a *Arena[T]) Len() int { return len(a.order) }

// IDs returns the document ids in open order.
func (a *Arena[T]) IDs() []uuid.UUID {
	return append([]uuid.UUID(nil), a.order...)
}

// Update replaces every document's value with fn applied to it.
func (a *Arena[T]) Update(fn func(id uuid.UUID, v T) T) {
	for _, id := range a.order {
		d := a.docs[id]
		d.value = fn(id, d.value)
	}
}
