// Package dom provides the server-side element tree that Presto features
// mutate.
//
// In Presto's server-driven architecture the document lives on the server as
// a parsed HTML tree (golang.org/x/net/html). The package hands out exactly
// one *Element wrapper per underlying node, so elements compare by pointer
// identity and can key engine-side stores without leaking bookkeeping onto
// the markup itself.
//
// # Core Types
//
// Document owns the tree, the focus state, and the listener registry for
// notification events. Element exposes the mutation surface the optimistic
// engine needs: attributes, dataset, class list, text content, inner HTML,
// live form values, and structural walks.
//
// # Selectors
//
// Matches, Closest, QuerySelector and friends delegate to cascadia. Compiled
// selectors are cached process-wide; an invalid selector never panics, it
// simply matches nothing.
package dom
