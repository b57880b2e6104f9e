// Package interp resolves ${...} placeholders in declarative template
// strings against an element and an extra-variables map.
//
// The grammar is fixed and closed: a placeholder either matches one of the
// recognized forms (extra variable, this.value, this.textContent, a form
// field reference, a dataset access, an attribute access) or it is left in
// the output untouched. Nothing is ever evaluated as code, which is the
// security boundary that lets user-supplied configuration flow through the
// optimistic engine safely.
package interp
