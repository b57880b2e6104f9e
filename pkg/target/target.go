// Package target resolves the selector chains that map a triggering element
// to the element an optimistic update should apply to.
//
// A chain is a whitespace-separated sequence of (combinator, selector)
// pairs, evaluated left to right with each step re-binding the current
// context element:
//
//	closest .card find .title
//
// The four combinators are closest (inclusive ancestor search), find
// (descendant search), next and previous (sibling scans). A chain that does
// not start with a combinator keyword is treated as a plain document-wide
// query. Resolution never mutates anything; a failed step yields nil and
// the caller decides what that means.
package target

import (
	"strings"

	"github.com/presto-ui/presto/pkg/dom"
)

// Self is the literal selector that names the triggering element itself.
const Self = "this"

// Resolve maps source through the selector chain. An empty selector or the
// self marker returns source unchanged. Any failed step returns nil.
func Resolve(source *dom.Element, selector string) *dom.Element {
	selector = strings.TrimSpace(selector)
	if source == nil {
		return nil
	}
	if selector == "" || selector == Self {
		return source
	}

	tokens := strings.Fields(selector)
	if !isCombinator(tokens[0]) {
		return source.Document().QuerySelector(selector)
	}

	current := source
	for i := 0; i < len(tokens); i += 2 {
		if i+1 >= len(tokens) || !isCombinator(tokens[i]) {
			return nil
		}
		current = step(current, tokens[i], tokens[i+1])
		if current == nil {
			return nil
		}
	}
	return current
}

func isCombinator(tok string) bool {
	switch tok {
	case "closest", "find", "next", "previous":
		return true
	}
	return false
}

func step(ctx *dom.Element, combinator, sel string) *dom.Element {
	switch combinator {
	case "closest":
		return resolveClosest(ctx, sel)
	case "find":
		return resolveFind(ctx, sel)
	case "next":
		for s := ctx.NextSibling(); s != nil; s = s.NextSibling() {
			if s.Matches(sel) {
				return s
			}
		}
		return nil
	case "previous":
		for s := ctx.PrevSibling(); s != nil; s = s.PrevSibling() {
			if s.Matches(sel) {
				return s
			}
		}
		return nil
	}
	return nil
}

// resolveClosest prefers the structural ancestor chain. When no ancestor
// matches, it scans each ancestor's subtree so a match living in a sibling
// branch can still be recovered.
func resolveClosest(ctx *dom.Element, sel string) *dom.Element {
	if m := ctx.Closest(sel); m != nil {
		return m
	}
	for p := ctx.Parent(); p != nil; p = p.Parent() {
		if m := p.QuerySelector(sel); m != nil {
			return m
		}
	}
	return nil
}

// resolveFind searches the context's subtree first, then widens upward
// through ancestor subtrees until the chain is exhausted.
func resolveFind(ctx *dom.Element, sel string) *dom.Element {
	if m := ctx.QuerySelector(sel); m != nil {
		return m
	}
	for p := ctx.Parent(); p != nil; p = p.Parent() {
		if m := p.QuerySelector(sel); m != nil {
			return m
		}
	}
	return nil
}
