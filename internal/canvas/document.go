// Package canvas keeps extracted wireframes as editable documents and
// renders previews of them.
package canvas

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/wireframe-mcp/internal/elements"
)

// ErrDocumentNotFound is returned for an unknown document id.
var ErrDocumentNotFound = errors.New("document not found")

// StoredElement is an element with its document-scoped id.
type StoredElement struct {
	ID string `json:"id"`
	elements.Element
}

// Document is one canvas: its size, where it came from and its elements in
// stacking order.
type Document struct {
	ID           string          `json:"id"`
	Source       string          `json:"source,omitempty"`
	CanvasWidth  int             `json:"canvas_width"`
	CanvasHeight int             `json:"canvas_height"`
	Elements     []StoredElement `json:"elements"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Store is an in-memory, concurrency-safe document store.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
	now  func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		docs: make(map[string]*Document),
		now:  time.Now,
	}
}

// Create adds an empty document and returns a copy of it.
func (s *Store) Create(source string, width, height int) *Document {
	now := s.now()
	doc := &Document{
		ID:           uuid.NewString(),
		Source:       source,
		CanvasWidth:  width,
		CanvasHeight: height,
		Elements:     []StoredElement{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.mu.Lock()
	s.docs[doc.ID] = doc
	s.mu.Unlock()

	return doc.clone()
}

// Get returns a copy of the document with the given id.
func (s *Store) Get(id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc.clone(), nil
}

// SetElements replaces the document's elements. Every element gets a fresh
// id; order is preserved.
func (s *Store) SetElements(id string, els []elements.Element) (*Document, error) {
	stored := make([]StoredElement, len(els))
	for i, el := range els {
		stored[i] = StoredElement{ID: uuid.NewString(), Element: el}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	doc.Elements = stored
	doc.UpdatedAt = s.now()
	return doc.clone(), nil
}

// Resize sets the document's canvas size.
func (s *Store) Resize(id string, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return ErrDocumentNotFound
	}
	doc.CanvasWidth = width
	doc.CanvasHeight = height
	doc.UpdatedAt = s.now()
	return nil
}

// Delete removes a document.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return ErrDocumentNotFound
	}
	delete(s.docs, id)
	return nil
}

// Len returns the number of documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Plain returns the document's elements without ids.
func (d *Document) Plain() []elements.Element {
	out := make([]elements.Element, len(d.Elements))
	for i, el := range d.Elements {
		out[i] = el.Element
	}
	return out
}

// clone copies the element slice; property maps are shared and treated as
// immutable once stored.
func (d *Document) clone() *Document {
	c := *d
	c.Elements = append([]StoredElement(nil), d.Elements...)
	if c.Elements == nil {
		c.Elements = []StoredElement{}
	}
	return &c
}
