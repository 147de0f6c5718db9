package canvas

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ironsheep/wireframe-mcp/internal/elements"
)

func sampleElements() []elements.Element {
	return []elements.Element{
		{Type: elements.TypeContainer, Width: 1000, Height: 700, Properties: map[string]interface{}{}},
		{Type: elements.TypeInput, X: 10, Y: 10, Width: 300, Height: 40, Properties: map[string]interface{}{}},
		{Type: elements.TypeText, X: 20, Y: 15, Width: 60, Height: 20, Content: "Email",
			Properties: map[string]interface{}{elements.PropLabel: "Email"}},
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	s := NewStore()

	doc := s.Create("sketch.png", 1000, 700)
	if _, err := uuid.Parse(doc.ID); err != nil {
		t.Errorf("document id is not a uuid: %q", doc.ID)
	}
	if doc.Elements == nil || len(doc.Elements) != 0 {
		t.Errorf("new document should have an empty element list, got %v", doc.Elements)
	}

	got, err := s.Get(doc.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Source != "sketch.png" || got.CanvasWidth != 1000 || got.CanvasHeight != 700 {
		t.Errorf("Get: got %+v", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len: got %d, want 1", s.Len())
	}
}

func TestStore_SetElements(t *testing.T) {
	s := NewStore()
	doc := s.Create("", 1000, 700)

	updated, err := s.SetElements(doc.ID, sampleElements())
	if err != nil {
		t.Fatalf("SetElements failed: %v", err)
	}
	if len(updated.Elements) != 3 {
		t.Fatalf("got %d elements, want 3", len(updated.Elements))
	}

	seen := map[string]bool{}
	for i, el := range updated.Elements {
		if _, err := uuid.Parse(el.ID); err != nil {
			t.Errorf("element %d id is not a uuid: %q", i, el.ID)
		}
		if seen[el.ID] {
			t.Errorf("duplicate element id %s", el.ID)
		}
		seen[el.ID] = true
	}

	wantTypes := []elements.Type{elements.TypeContainer, elements.TypeInput, elements.TypeText}
	for i, el := range updated.Plain() {
		if el.Type != wantTypes[i] {
			t.Errorf("element %d: type %s, want %s", i, el.Type, wantTypes[i])
		}
	}

	// Replacing assigns new ids.
	again, err := s.SetElements(doc.ID, sampleElements()[:1])
	if err != nil {
		t.Fatalf("second SetElements failed: %v", err)
	}
	if len(again.Elements) != 1 || seen[again.Elements[0].ID] {
		t.Errorf("replacement should hold one element with a fresh id: %+v", again.Elements)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore()
	doc := s.Create("", 100, 100)
	if _, err := s.SetElements(doc.ID, sampleElements()); err != nil {
		t.Fatalf("SetElements failed: %v", err)
	}

	got, _ := s.Get(doc.ID)
	got.Elements[0].Width = 1
	got.Elements = got.Elements[:1]

	again, _ := s.Get(doc.ID)
	if len(again.Elements) != 3 || again.Elements[0].Width != 1000 {
		t.Errorf("store was mutated through a returned copy: %+v", again.Elements)
	}
}

func TestStore_Resize(t *testing.T) {
	s := NewStore()
	doc := s.Create("", 1000, 700)

	if err := s.Resize(doc.ID, 1000, 1333); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	got, _ := s.Get(doc.ID)
	if got.CanvasWidth != 1000 || got.CanvasHeight != 1333 {
		t.Errorf("canvas: got %dx%d, want 1000x1333", got.CanvasWidth, got.CanvasHeight)
	}
	if err := s.Resize("missing", 1, 1); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Resize unknown: got %v", err)
	}
}

func TestStore_NotFound(t *testing.T) {
	s := NewStore()

	if _, err := s.Get("missing"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Get: got %v", err)
	}
	if _, err := s.SetElements("missing", nil); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("SetElements: got %v", err)
	}
	if err := s.Delete("missing"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Delete: got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	s := NewStore()
	doc := s.Create("", 10, 10)

	if err := s.Delete(doc.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(doc.ID); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("deleted document still present: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc := s.Create("", 10, 10)
			if _, err := s.SetElements(doc.ID, sampleElements()); err != nil {
				t.Errorf("SetElements failed: %v", err)
			}
			if _, err := s.Get(doc.ID); err != nil {
				t.Errorf("Get failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if s.Len() != 20 {
		t.Errorf("Len: got %d, want 20", s.Len())
	}
}
