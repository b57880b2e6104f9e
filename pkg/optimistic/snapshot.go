package optimistic

import "github.com/presto-ui/presto/pkg/dom"

// snapshot is the captured pre-mutation state of one target element. One
// live snapshot exists per target; beginning a new cycle overwrites it.
// The attribute set is captured verbatim in document order and carries the
// class string and every data attribute with it.
type snapshot struct {
	markup string
	attrs  []dom.Attribute
	props  map[string]string

	config *Config
	token  uint64

	// focus is the descendant that held focus when the failure was shown,
	// restored after revert if still attached.
	focus *dom.Element

	// errorShown guards error rendering so a repeated failure event for the
	// same cycle cannot duplicate error content.
	errorShown bool
}

func takeSnapshot(el *dom.Element, cfg *Config, token uint64) *snapshot {
	props := make(map[string]string)
	for _, name := range cfg.snapshotProps() {
		props[name] = el.Prop(name)
	}
	return &snapshot{
		markup: el.InnerHTML(),
		attrs:  el.Attrs(),
		props:  props,
		config: cfg,
		token:  token,
	}
}

// restore puts the element back into its captured state. The attribute set
// comes back in its original order, which already restores the class string
// and the dataset; the selected property sub-capture restores only
// properties the structural restore does not cover, so nested markup is
// never flattened by a textContent restore.
func (s *snapshot) restore(el *dom.Element) {
	el.SetAttrs(s.attrs)
	_ = el.SetInnerHTML(s.markup)
	for name, val := range s.props {
		switch name {
		case "textContent", "innerHTML", "className", "class":
			continue
		}
		el.SetProp(name, val)
	}
}
