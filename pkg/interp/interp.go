package interp

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/presto-ui/presto/pkg/dom"
)

// Logger receives developer diagnostics for unresolved member-style
// patterns. Tests may swap it; setting it to nil disables diagnostics.
var Logger = slog.Default()

// supportedForms is listed in the unresolved-pattern diagnostic so authors
// can see the whole grammar at the point of failure.
const supportedForms = "extra variables, this.value, this.textContent, " +
	"field aliases (textarea/email/password/text/url/tel/search), field names, " +
	"this.dataset.<key>, data:<key>, attr:<name>"

// fieldAliases maps a field-type alias to the selector that locates the
// field inside a form-like source.
var fieldAliases = map[string]string{
	"textarea": "textarea",
	"email":    `input[type="email"]`,
	"password": `input[type="password"]`,
	"text":     `input[type="text"]`,
	"url":      `input[type="url"]`,
	"tel":      `input[type="tel"]`,
	"search":   `input[type="search"]`,
}

var bareIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Interpolate substitutes every ${expr} occurrence in template. Placeholders
// balance on the first closing brace; nested braces are not supported.
// Unresolved occurrences stay literal in the output, and an occurrence that
// looks like a member or namespaced reference additionally emits one
// diagnostic.
func Interpolate(template string, source *dom.Element, extra map[string]string) string {
	if !strings.Contains(template, "${") {
		return template
	}

	var b strings.Builder
	rest := template
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		end := strings.Index(rest[start+2:], "}")
		if end < 0 {
			// Unterminated placeholder, emit the remainder as-is.
			b.WriteString(rest[start:])
			break
		}
		expr := rest[start+2 : start+2+end]
		if val, ok := resolve(expr, source, extra); ok {
			b.WriteString(val)
		} else {
			b.WriteString(rest[start : start+3+end])
			diagnose(expr)
		}
		rest = rest[start+3+end:]
	}
	return b.String()
}

// resolve applies the resolution rules in order; the first match wins.
func resolve(expr string, source *dom.Element, extra map[string]string) (string, bool) {
	if v, ok := extra[expr]; ok {
		return v, true
	}
	if source == nil {
		return "", false
	}

	formLike := source.Tag() == "form" || source.Tag() == "fieldset"

	if expr == "this.value" {
		if formLike {
			if field := firstField(source); field != nil {
				return field.Value(), true
			}
		}
		return source.Value(), true
	}

	if formLike {
		if sel, ok := fieldAliases[expr]; ok {
			if field := source.QuerySelector(sel); field != nil {
				return field.Value(), true
			}
			return "", false
		}
		if bareIdent.MatchString(expr) {
			if field := source.QuerySelector(fmt.Sprintf("[name=%q]", expr)); field != nil {
				return field.Value(), true
			}
			return "", false
		}
	}

	if expr == "this.textContent" {
		return source.TextContent(), true
	}

	if key, ok := strings.CutPrefix(expr, "this.dataset."); ok {
		return source.DataAttr(key)
	}
	if key, ok := strings.CutPrefix(expr, "data:"); ok {
		// Shorthand keys are already kebab-case attribute suffixes.
		name := "data-" + key
		if source.HasAttr(name) {
			return source.Attr(name), true
		}
		return "", false
	}

	if name, ok := strings.CutPrefix(expr, "attr:"); ok {
		if source.HasAttr(name) {
			return source.Attr(name), true
		}
		return "", false
	}

	return "", false
}

// diagnose warns about an unresolved pattern that was clearly meant to be a
// reference but is not one of the recognized forms. A recognized form whose
// lookup simply failed stays silent, the same as a missing form field.
func diagnose(expr string) {
	if Logger == nil {
		return
	}
	if !strings.ContainsAny(expr, ".:") {
		return
	}
	if expr == "this.value" || expr == "this.textContent" ||
		strings.HasPrefix(expr, "this.dataset.") ||
		strings.HasPrefix(expr, "data:") ||
		strings.HasPrefix(expr, "attr:") {
		return
	}
	Logger.Warn("unresolved interpolation pattern",
		"pattern", expr,
		"supported", supportedForms)
}

func firstField(form *dom.Element) *dom.Element {
	return form.QuerySelector("input, textarea, select")
}
