package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Listener receives a notification event dispatched on an element.
type Listener func(el *Element, detail any)

// Document owns a parsed HTML tree, the focus state, and the listener
// registry for notification events.
//
// Wrappers are canonical: the same underlying node always yields the same
// *Element, so elements can key maps. Wrapper entries for a subtree are
// evicted when the subtree is replaced or removed; pointers already held by
// callers stay valid, they just no longer resolve through the document.
type Document struct {
	root      *html.Node
	wrappers  map[*html.Node]*Element
	active    *Element
	listeners map[string][]Listener
}

// Parse parses a full HTML document.
func Parse(src string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return &Document{
		root:      root,
		wrappers:  make(map[*html.Node]*Element),
		listeners: make(map[string][]Listener),
	}, nil
}

// MustParse is Parse that panics on error. Intended for tests and static
// demo markup.
func MustParse(src string) *Document {
	doc, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return doc
}

// elementOf returns the canonical wrapper for a node, creating it on first
// use. Only element nodes get wrappers.
func (d *Document) elementOf(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	if el, ok := d.wrappers[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n, props: make(map[string]any)}
	d.wrappers[n] = el
	return el
}

// release evicts wrapper entries for n and its entire subtree.
func (d *Document) release(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.release(c)
	}
	if el, ok := d.wrappers[n]; ok {
		if d.active == el {
			d.active = nil
		}
		delete(d.wrappers, n)
	}
}

// Root returns the <html> element.
func (d *Document) Root() *Element {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return d.elementOf(c)
		}
	}
	return nil
}

// Body returns the <body> element, or nil if the document has none.
func (d *Document) Body() *Element {
	root := d.Root()
	if root == nil {
		return nil
	}
	if root.Tag() == "body" {
		return root
	}
	for _, c := range root.Children() {
		if c.Tag() == "body" {
			return c
		}
	}
	return nil
}

// QuerySelector returns the first element in the document matching sel.
func (d *Document) QuerySelector(sel string) *Element {
	m, ok := compileSelector(sel)
	if !ok {
		return nil
	}
	return d.elementOf(m.MatchFirst(d.root))
}

// QuerySelectorAll returns every element in the document matching sel, in
// document order.
func (d *Document) QuerySelectorAll(sel string) []*Element {
	m, ok := compileSelector(sel)
	if !ok {
		return nil
	}
	var out []*Element
	for _, n := range m.MatchAll(d.root) {
		if el := d.elementOf(n); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// GetElementByID returns the element with the given id attribute.
func (d *Document) GetElementByID(id string) *Element {
	var walk func(n *html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == "id" && a.Val == id {
					return n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if m := walk(c); m != nil {
				return m
			}
		}
		return nil
	}
	return d.elementOf(walk(d.root))
}

// Activate moves focus to el. Passing nil blurs.
func (d *Document) Activate(el *Element) {
	d.active = el
}

// ActiveElement returns the currently focused element, or nil.
func (d *Document) ActiveElement() *Element {
	return d.active
}

// AddEventListener registers a listener for notification events of the
// given name, regardless of which element they are dispatched on.
func (d *Document) AddEventListener(name string, fn Listener) {
	d.listeners[name] = append(d.listeners[name], fn)
}

func (d *Document) dispatch(name string, el *Element, detail any) {
	for _, fn := range d.listeners[name] {
		fn(el, detail)
	}
}

// HTML serializes the whole document.
func (d *Document) HTML() string {
	var b strings.Builder
	_ = html.Render(&b, d.root)
	return b.String()
}
