package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Attribute is one name/value pair from an element's attribute set.
type Attribute struct {
	Name  string
	Value string
}

// Element wraps one element node of a Document. Elements compare by pointer
// identity; the Document guarantees one wrapper per node.
type Element struct {
	doc   *Document
	node  *html.Node
	props map[string]any
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// ID returns the id attribute.
func (e *Element) ID() string {
	return e.Attr("id")
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	return e.doc
}

// Attributes

// Attr returns the value of the named attribute, or "".
func (e *Element) Attr(name string) string {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

// SetAttr sets the named attribute, replacing any existing value.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr removes the named attribute if present.
func (e *Element) RemoveAttr(name string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Key != name {
			attrs = append(attrs, a)
		}
	}
	e.node.Attr = attrs
}

// Attrs returns a copy of the attribute set in document order.
func (e *Element) Attrs() []Attribute {
	out := make([]Attribute, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		out = append(out, Attribute{Name: a.Key, Value: a.Val})
	}
	return out
}

// SetAttrs replaces the entire attribute set.
func (e *Element) SetAttrs(attrs []Attribute) {
	e.node.Attr = e.node.Attr[:0]
	for _, a := range attrs {
		e.node.Attr = append(e.node.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
}

// Dataset

// DataAttr returns the data attribute for a camelCase dataset key.
// DataAttr("userName") reads data-user-name.
func (e *Element) DataAttr(key string) (string, bool) {
	name := "data-" + camelToKebab(key)
	if !e.HasAttr(name) {
		return "", false
	}
	return e.Attr(name), true
}

// SetDataAttr sets the data attribute for a camelCase dataset key.
func (e *Element) SetDataAttr(key, value string) {
	e.SetAttr("data-"+camelToKebab(key), value)
}

// RemoveDataAttr removes the data attribute for a camelCase dataset key.
func (e *Element) RemoveDataAttr(key string) {
	e.RemoveAttr("data-" + camelToKebab(key))
}

// Dataset returns all data-* attributes keyed by camelCase dataset key.
func (e *Element) Dataset() map[string]string {
	out := make(map[string]string)
	for _, a := range e.node.Attr {
		if strings.HasPrefix(a.Key, "data-") {
			out[kebabToCamel(strings.TrimPrefix(a.Key, "data-"))] = a.Val
		}
	}
	return out
}

// ReplaceDataset removes every data-* attribute and installs the given set.
func (e *Element) ReplaceDataset(ds map[string]string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if !strings.HasPrefix(a.Key, "data-") {
			attrs = append(attrs, a)
		}
	}
	e.node.Attr = attrs
	for k, v := range ds {
		e.SetDataAttr(k, v)
	}
}

// Class list

// Class returns the raw class string.
func (e *Element) Class() string {
	return e.Attr("class")
}

// SetClass replaces the raw class string. An empty string removes the
// attribute entirely so restored elements round-trip byte-for-byte.
func (e *Element) SetClass(class string) {
	if class == "" {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", class)
}

// HasClass reports whether the class list contains name.
func (e *Element) HasClass(name string) bool {
	for _, c := range strings.Fields(e.Class()) {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends name to the class list if absent.
func (e *Element) AddClass(name string) {
	if name == "" || e.HasClass(name) {
		return
	}
	if cur := e.Class(); cur != "" {
		e.SetClass(cur + " " + name)
	} else {
		e.SetClass(name)
	}
}

// RemoveClass removes name from the class list if present. Absent names
// leave the class string untouched, whitespace included.
func (e *Element) RemoveClass(name string) {
	if !e.HasClass(name) {
		return
	}
	fields := strings.Fields(e.Class())
	kept := fields[:0]
	for _, c := range fields {
		if c != name {
			kept = append(kept, c)
		}
	}
	e.SetClass(strings.Join(kept, " "))
}

// Content

// TextContent returns the concatenated text of the subtree.
func (e *Element) TextContent() string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return b.String()
}

// SetTextContent replaces all children with a single text node.
func (e *Element) SetTextContent(text string) {
	e.removeChildren()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

// SetInnerHTML replaces the element's children with the parsed fragment.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := e.parseFragment(markup)
	if err != nil {
		return err
	}
	e.removeChildren()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// AppendHTML parses the fragment and appends it after existing children.
func (e *Element) AppendHTML(markup string) error {
	nodes, err := e.parseFragment(markup)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// PrependHTML parses the fragment and inserts it before existing children.
func (e *Element) PrependHTML(markup string) error {
	nodes, err := e.parseFragment(markup)
	if err != nil {
		return err
	}
	first := e.node.FirstChild
	for _, n := range nodes {
		if first != nil {
			e.node.InsertBefore(n, first)
		} else {
			e.node.AppendChild(n)
		}
	}
	return nil
}

func (e *Element) parseFragment(markup string) ([]*html.Node, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     e.node.Data,
		DataAtom: e.node.DataAtom,
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	return nodes, nil
}

func (e *Element) removeChildren() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.doc.release(c)
		e.node.RemoveChild(c)
		c = next
	}
}

// Form value

// Value returns the live value property. A value set through SetValue wins;
// otherwise textareas read their text content, selects read the selected
// option, and everything else reads the value attribute.
func (e *Element) Value() string {
	if v, ok := e.props["value"]; ok {
		return fmt.Sprint(v)
	}
	switch e.Tag() {
	case "textarea":
		return e.TextContent()
	case "select":
		var first *Element
		for _, opt := range e.QuerySelectorAll("option") {
			if first == nil {
				first = opt
			}
			if opt.HasAttr("selected") {
				return optionValue(opt)
			}
		}
		if first != nil {
			return optionValue(first)
		}
		return ""
	default:
		return e.Attr("value")
	}
}

func optionValue(opt *Element) string {
	if opt.HasAttr("value") {
		return opt.Attr("value")
	}
	return opt.TextContent()
}

// SetValue sets the live value property without touching the value
// attribute, mirroring how form controls behave after user input.
func (e *Element) SetValue(v string) {
	e.props["value"] = v
}

// Prop returns a named live property, falling back to the attribute of the
// same name. The recognized property names form a closed set.
func (e *Element) Prop(name string) string {
	switch name {
	case "textContent":
		return e.TextContent()
	case "innerHTML":
		return e.InnerHTML()
	case "className", "class":
		return e.Class()
	case "value":
		return e.Value()
	default:
		if v, ok := e.props[name]; ok {
			return fmt.Sprint(v)
		}
		return e.Attr(name)
	}
}

// SetProp sets a named live property, falling back to the attribute of the
// same name.
func (e *Element) SetProp(name, value string) {
	switch name {
	case "textContent":
		e.SetTextContent(value)
	case "innerHTML":
		_ = e.SetInnerHTML(value)
	case "className", "class":
		e.SetClass(value)
	case "value":
		e.SetValue(value)
	default:
		if _, ok := e.props[name]; ok {
			e.props[name] = value
			return
		}
		e.SetAttr(name, value)
	}
}

// Structure

// Parent returns the parent element, or nil at the tree root.
func (e *Element) Parent() *Element {
	for n := e.node.Parent; n != nil; n = n.Parent {
		if n.Type == html.ElementNode {
			return e.doc.elementOf(n)
		}
		break
	}
	return nil
}

// Children returns the element children in document order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.elementOf(c))
		}
	}
	return out
}

// NextSibling returns the next element sibling, skipping text nodes.
func (e *Element) NextSibling() *Element {
	for n := e.node.NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return e.doc.elementOf(n)
		}
	}
	return nil
}

// PrevSibling returns the previous element sibling, skipping text nodes.
func (e *Element) PrevSibling() *Element {
	for n := e.node.PrevSibling; n != nil; n = n.PrevSibling {
		if n.Type == html.ElementNode {
			return e.doc.elementOf(n)
		}
	}
	return nil
}

// IsConnected reports whether the element is still attached to its
// document's tree.
func (e *Element) IsConnected() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// Remove detaches the element from the tree and evicts wrappers for its
// subtree.
func (e *Element) Remove() {
	if e.node.Parent != nil {
		parent := e.node.Parent
		e.doc.release(e.node)
		parent.RemoveChild(e.node)
	}
}

// OuterHTML serializes the element including its own tag.
func (e *Element) OuterHTML() string {
	var b strings.Builder
	_ = html.Render(&b, e.node)
	return b.String()
}

// Matches reports whether the element matches the selector.
func (e *Element) Matches(sel string) bool {
	m, ok := compileSelector(sel)
	if !ok {
		return false
	}
	return m(e.node)
}

// Closest returns the nearest inclusive ancestor matching the selector.
func (e *Element) Closest(sel string) *Element {
	m, ok := compileSelector(sel)
	if !ok {
		return nil
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && m(n) {
			return e.doc.elementOf(n)
		}
	}
	return nil
}

// QuerySelector returns the first descendant matching the selector. The
// element itself is never a candidate.
func (e *Element) QuerySelector(sel string) *Element {
	m, ok := compileSelector(sel)
	if !ok {
		return nil
	}
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if n := m.MatchFirst(c); n != nil {
			return e.doc.elementOf(n)
		}
	}
	return nil
}

// QuerySelectorAll returns every descendant matching the selector.
func (e *Element) QuerySelectorAll(sel string) []*Element {
	m, ok := compileSelector(sel)
	if !ok {
		return nil
	}
	var out []*Element
	for _, n := range m.MatchAll(e.node) {
		if n == e.node {
			continue
		}
		if el := e.doc.elementOf(n); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// Dispatch delivers a notification event on this element to document
// listeners.
func (e *Element) Dispatch(event string, detail any) {
	e.doc.dispatch(event, e, detail)
}
