package dom

import (
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
)

// Compiled selectors are cached process-wide. Selector strings come from
// declarative attributes, so the working set is small and stable.
var selectorCache sync.Map // string -> selectorEntry

type selectorEntry struct {
	sel cascadia.Selector
	ok  bool
}

func compileSelector(sel string) (cascadia.Selector, bool) {
	if v, ok := selectorCache.Load(sel); ok {
		e := v.(selectorEntry)
		return e.sel, e.ok
	}
	compiled, err := cascadia.Compile(sel)
	entry := selectorEntry{sel: compiled, ok: err == nil}
	selectorCache.Store(sel, entry)
	return entry.sel, entry.ok
}

// kebabToCamel converts a data attribute suffix to its dataset key:
// "user-name" becomes "userName".
func kebabToCamel(s string) string {
	parts := strings.Split(s, "-")
	if len(parts) == 1 {
		return s
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// camelToKebab converts a dataset key to its data attribute suffix:
// "userName" becomes "user-name".
func camelToKebab(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
