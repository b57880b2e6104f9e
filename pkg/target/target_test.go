package target

import (
	"testing"

	"github.com/presto-ui/presto/pkg/dom"
)

const page = `<html><body>
<div id="feed">
  <div class="card" id="card1">
    <div class="header"><h2 class="title" id="title1">One</h2></div>
    <div class="body">
      <button id="btn1">Save</button>
    </div>
  </div>
  <div class="card" id="card2">
    <h2 class="title" id="title2">Two</h2>
  </div>
  <p id="p1">first</p>
  <p id="p2" class="note">second</p>
</div>
<aside id="status"></aside>
</body></html>`

func setup(t *testing.T) (*dom.Document, func(string) *dom.Element) {
	t.Helper()
	doc := dom.MustParse(page)
	byID := func(id string) *dom.Element {
		el := doc.GetElementByID(id)
		if el == nil {
			t.Fatalf("fixture element #%s missing", id)
		}
		return el
	}
	return doc, byID
}

func TestResolve(t *testing.T) {
	_, byID := setup(t)

	tests := []struct {
		name     string
		source   string
		selector string
		want     string // element id, "" for nil
	}{
		{"empty returns source", "btn1", "", "btn1"},
		{"self marker", "btn1", "this", "btn1"},
		{"closest ancestor", "btn1", "closest .card", "card1"},
		{"closest then find crosses branches", "btn1", "closest .card find .title", "title1"},
		{"find in own subtree", "card2", "find .title", "title2"},
		{"find walks up when subtree misses", "btn1", "find .title", "title1"},
		{"next sibling scan", "card1", "next .note", "p2"},
		{"previous sibling scan", "p2", "previous .card", "card2"},
		{"plain global query", "btn1", "#status", "status"},
		{"no match anywhere", "btn1", "closest .missing", ""},
		{"failed middle step", "btn1", "closest .card find .missing", ""},
		{"unknown leading keyword pair", "btn1", "closest .card upward .title", ""},
		{"dangling combinator", "btn1", "closest", ""},
		{"global query without match", "btn1", ".absent", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(byID(tt.source), tt.selector)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Resolve(%q) = #%s, want nil", tt.selector, got.ID())
				}
				return
			}
			if got == nil {
				t.Fatalf("Resolve(%q) = nil, want #%s", tt.selector, tt.want)
			}
			if got.ID() != tt.want {
				t.Errorf("Resolve(%q) = #%s, want #%s", tt.selector, got.ID(), tt.want)
			}
		})
	}
}

func TestResolveNilSource(t *testing.T) {
	if Resolve(nil, ".card") != nil {
		t.Error("nil source must resolve to nil")
	}
}

// closest must recover a match from a sibling branch of an ancestor when the
// direct ancestor chain has none.
func TestClosestSiblingBranchFallback(t *testing.T) {
	_, byID := setup(t)
	got := Resolve(byID("btn1"), "closest .title")
	if got == nil || got.ID() != "title1" {
		t.Fatalf("closest fallback = %v, want #title1", got)
	}
}
