package dom

import (
	"strings"
	"testing"
)

const testPage = `<html><head></head><body>
<div id="card" class="card featured">
  <h2 class="title">Hello</h2>
  <form id="f">
    <input type="email" name="addr" value="a@b.c">
    <textarea name="bio">old bio</textarea>
    <select name="plan"><option value="free">Free</option><option value="pro" selected>Pro</option></select>
    <button id="save" class="btn" data-user-name="ada">Save</button>
  </form>
  <span id="after">after</span>
</div>
</body></html>`

func mustElement(t *testing.T, doc *Document, sel string) *Element {
	t.Helper()
	el := doc.QuerySelector(sel)
	if el == nil {
		t.Fatalf("no element matches %q", sel)
	}
	return el
}

func TestElementIdentity(t *testing.T) {
	doc := MustParse(testPage)
	a := doc.QuerySelector("#save")
	b := doc.GetElementByID("save")
	if a == nil || a != b {
		t.Fatalf("expected canonical wrapper, got %p vs %p", a, b)
	}
}

func TestAttrRoundTrip(t *testing.T) {
	doc := MustParse(testPage)
	btn := mustElement(t, doc, "#save")

	if got := btn.Attr("data-user-name"); got != "ada" {
		t.Errorf("Attr() = %q, want %q", got, "ada")
	}
	btn.SetAttr("aria-busy", "true")
	if !btn.HasAttr("aria-busy") {
		t.Error("SetAttr() did not add attribute")
	}
	btn.RemoveAttr("aria-busy")
	if btn.HasAttr("aria-busy") {
		t.Error("RemoveAttr() left attribute behind")
	}

	saved := btn.Attrs()
	btn.SetAttr("class", "changed")
	btn.SetAttr("extra", "x")
	btn.SetAttrs(saved)
	if btn.Class() != "btn" || btn.HasAttr("extra") {
		t.Errorf("SetAttrs() did not restore set, class=%q", btn.Class())
	}
}

func TestDataset(t *testing.T) {
	doc := MustParse(testPage)
	btn := mustElement(t, doc, "#save")

	if v, ok := btn.DataAttr("userName"); !ok || v != "ada" {
		t.Errorf("DataAttr(userName) = %q,%v want ada,true", v, ok)
	}
	btn.SetDataAttr("retryCount", "3")
	if btn.Attr("data-retry-count") != "3" {
		t.Error("SetDataAttr() did not write kebab attribute")
	}
	ds := btn.Dataset()
	if ds["userName"] != "ada" || ds["retryCount"] != "3" {
		t.Errorf("Dataset() = %v", ds)
	}
	btn.ReplaceDataset(map[string]string{"only": "1"})
	if _, ok := btn.DataAttr("userName"); ok {
		t.Error("ReplaceDataset() kept stale key")
	}
	if v, _ := btn.DataAttr("only"); v != "1" {
		t.Error("ReplaceDataset() missing new key")
	}
}

func TestKeyConversion(t *testing.T) {
	tests := []struct {
		camel string
		kebab string
	}{
		{"count", "count"},
		{"userName", "user-name"},
		{"aBC", "a-b-c"},
	}
	for _, tt := range tests {
		if got := camelToKebab(tt.camel); got != tt.kebab {
			t.Errorf("camelToKebab(%q) = %q, want %q", tt.camel, got, tt.kebab)
		}
		if got := kebabToCamel(tt.kebab); got != tt.camel {
			t.Errorf("kebabToCamel(%q) = %q, want %q", tt.kebab, got, tt.camel)
		}
	}
}

func TestClassList(t *testing.T) {
	doc := MustParse(testPage)
	card := mustElement(t, doc, "#card")

	if !card.HasClass("featured") {
		t.Error("HasClass(featured) = false")
	}
	card.AddClass("open")
	card.AddClass("open") // no duplicate
	if card.Class() != "card featured open" {
		t.Errorf("Class() = %q", card.Class())
	}
	card.RemoveClass("featured")
	if card.Class() != "card open" {
		t.Errorf("Class() after remove = %q", card.Class())
	}
	card.SetClass("")
	if card.HasAttr("class") {
		t.Error("SetClass(\"\") should drop the attribute")
	}
}

func TestContent(t *testing.T) {
	doc := MustParse(testPage)
	title := mustElement(t, doc, ".title")

	if got := title.TextContent(); got != "Hello" {
		t.Errorf("TextContent() = %q", got)
	}
	title.SetTextContent("Bye")
	if title.InnerHTML() != "Bye" {
		t.Errorf("InnerHTML() = %q", title.InnerHTML())
	}
	if err := title.SetInnerHTML(`<em>hi</em> there`); err != nil {
		t.Fatalf("SetInnerHTML() error: %v", err)
	}
	if got := title.InnerHTML(); got != "<em>hi</em> there" {
		t.Errorf("InnerHTML() round-trip = %q", got)
	}
	if err := title.AppendHTML(`<b>!</b>`); err != nil {
		t.Fatalf("AppendHTML() error: %v", err)
	}
	if err := title.PrependHTML(`<i>?</i>`); err != nil {
		t.Fatalf("PrependHTML() error: %v", err)
	}
	if got := title.InnerHTML(); got != "<i>?</i><em>hi</em> there<b>!</b>" {
		t.Errorf("combined InnerHTML() = %q", got)
	}
}

func TestValue(t *testing.T) {
	doc := MustParse(testPage)

	input := mustElement(t, doc, "input[type=email]")
	if input.Value() != "a@b.c" {
		t.Errorf("input Value() = %q", input.Value())
	}
	input.SetValue("typed@example.com")
	if input.Value() != "typed@example.com" {
		t.Errorf("input live Value() = %q", input.Value())
	}
	if input.Attr("value") != "a@b.c" {
		t.Error("SetValue() must not rewrite the value attribute")
	}

	ta := mustElement(t, doc, "textarea")
	if ta.Value() != "old bio" {
		t.Errorf("textarea Value() = %q", ta.Value())
	}

	sel := mustElement(t, doc, "select")
	if sel.Value() != "pro" {
		t.Errorf("select Value() = %q", sel.Value())
	}
}

func TestStructureWalks(t *testing.T) {
	doc := MustParse(testPage)
	form := mustElement(t, doc, "#f")
	btn := mustElement(t, doc, "#save")

	if btn.Closest("form") != form {
		t.Error("Closest(form) did not find the form")
	}
	if btn.Closest(".card") != doc.QuerySelector("#card") {
		t.Error("Closest(.card) did not find the card")
	}
	if form.QuerySelector("button") != btn {
		t.Error("QuerySelector(button) did not find the button")
	}
	if form.NextSibling() != doc.QuerySelector("#after") {
		t.Error("NextSibling() skipped to wrong node")
	}
	if doc.QuerySelector("#after").PrevSibling() != form {
		t.Error("PrevSibling() skipped to wrong node")
	}
	if got := len(form.QuerySelectorAll("option")); got != 2 {
		t.Errorf("QuerySelectorAll(option) = %d matches", got)
	}
}

func TestRemoveAndConnected(t *testing.T) {
	doc := MustParse(testPage)
	span := mustElement(t, doc, "#after")

	if !span.IsConnected() {
		t.Fatal("expected #after to be connected")
	}
	span.Remove()
	if span.IsConnected() {
		t.Error("removed element still reports connected")
	}
	if doc.QuerySelector("#after") != nil {
		t.Error("removed element still reachable by query")
	}
}

func TestDispatch(t *testing.T) {
	doc := MustParse(testPage)
	btn := mustElement(t, doc, "#save")

	var gotEl *Element
	var gotDetail any
	doc.AddEventListener("optimistic:applied", func(el *Element, detail any) {
		gotEl = el
		gotDetail = detail
	})
	btn.Dispatch("optimistic:applied", "payload")
	if gotEl != btn || gotDetail != "payload" {
		t.Errorf("Dispatch() delivered (%v, %v)", gotEl, gotDetail)
	}
}

func TestInvalidSelector(t *testing.T) {
	doc := MustParse(testPage)
	if doc.QuerySelector("][") != nil {
		t.Error("invalid selector should match nothing")
	}
	if mustElement(t, doc, "#save").Matches("][") {
		t.Error("invalid selector should never match")
	}
}

func TestDocumentHTML(t *testing.T) {
	doc := MustParse(testPage)
	if !strings.Contains(doc.HTML(), `id="card"`) {
		t.Error("HTML() lost the card element")
	}
}
