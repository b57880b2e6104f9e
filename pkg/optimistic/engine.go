package optimistic

import (
	stdhtml "html"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/presto-ui/presto/pkg/dom"
	"github.com/presto-ui/presto/pkg/interp"
	"github.com/presto-ui/presto/pkg/target"
)

// Visual state classes. The three cycle states are mutually exclusive on a
// target; the pending class is the synthesized default content for
// button-like controls.
const (
	ClassOptimistic = "optimistic"
	ClassError      = "optimistic-error"
	ClassReverting  = "optimistic-reverting"
	ClassPending    = "optimistic-pending"
)

// Swap modes for template and error content insertion.
const (
	SwapReplace = "replace"
	SwapAppend  = "append"
	SwapPrepend = "prepend"
)

// errorMarker tags inserted error nodes so cleanup can find and remove them.
const errorMarker = "data-optimistic-error"

// EngineConfig wires the engine's host collaborators. Zero values get
// working defaults.
type EngineConfig struct {
	// Templates resolves a template reference: a "#id" reference looks up
	// markup in the document, anything else passes through as an inline
	// template. The default does exactly that against the engine's document.
	Templates func(ref string) (string, bool)

	// Reprocess is invoked after markup insertion or restoration so
	// declarative behaviors introduced by new markup get activated.
	Reprocess func(el *dom.Element)

	// Schedule runs fn once after d. The default is time.AfterFunc; tests
	// inject a manual scheduler. Scheduled reverts are never cancelled, they
	// are invalidated by token comparison.
	Schedule func(d time.Duration, fn func())

	// Logger receives developer diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics is optional; nil disables instrumentation.
	Metrics *Metrics
}

// Engine is the optimistic-update state machine. It owns three
// element-keyed stores: snapshots, concurrency tokens, and trigger-to-target
// links. All bookkeeping lives here, never on the elements themselves.
type Engine struct {
	doc       *dom.Document
	templates func(string) (string, bool)
	reprocess func(*dom.Element)
	schedule  func(time.Duration, func())
	logger    *slog.Logger
	metrics   *Metrics
	cache     *Cache

	mu        sync.Mutex
	snapshots map[*dom.Element]*snapshot
	tokens    map[*dom.Element]uint64
	links     map[*dom.Element]*dom.Element

	// pending collects reprocess calls queued while the lock is held; they
	// run after unlock because the callback may re-enter the engine.
	pending []*dom.Element
}

// NewEngine creates an engine bound to one document.
func NewEngine(doc *dom.Document, cfg EngineConfig) *Engine {
	e := &Engine{
		doc:       doc,
		templates: cfg.Templates,
		reprocess: cfg.Reprocess,
		schedule:  cfg.Schedule,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		cache:     NewCache(),
		snapshots: make(map[*dom.Element]*snapshot),
		tokens:    make(map[*dom.Element]uint64),
		links:     make(map[*dom.Element]*dom.Element),
	}
	if e.templates == nil {
		e.templates = func(ref string) (string, bool) {
			if id, ok := strings.CutPrefix(ref, "#"); ok {
				tpl := doc.GetElementByID(id)
				if tpl == nil {
					return "", false
				}
				return tpl.InnerHTML(), true
			}
			return ref, true
		}
	}
	if e.schedule == nil {
		e.schedule = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Begin starts an optimistic cycle for the trigger element: resolves its
// config and target, links them, allocates the next token, snapshots the
// target, and applies the optimistic content. A trigger without config is a
// silent no-op; an unresolvable target aborts with a diagnostic.
func (e *Engine) Begin(trigger *dom.Element) {
	if trigger == nil {
		return
	}
	e.mu.Lock()
	notify := e.begin(trigger)
	pending := e.takePending()
	e.mu.Unlock()
	e.runReprocess(pending)
	if notify != nil {
		notify()
	}
}

func (e *Engine) begin(trigger *dom.Element) func() {
	cfg := ResolveConfig(trigger, e.cache)
	if cfg == nil {
		return nil
	}
	tgt := target.Resolve(trigger, cfg.Target)
	if tgt == nil {
		e.logger.Warn("optimistic target did not resolve",
			"selector", cfg.Target, "trigger", trigger.Tag())
		e.metrics.unresolvedTarget()
		return nil
	}

	e.links[trigger] = tgt
	tok := e.tokens[tgt] + 1
	e.tokens[tgt] = tok
	e.snapshots[tgt] = takeSnapshot(tgt, cfg, tok)

	if cfg.Template != "" {
		e.insertTemplate(tgt, trigger, cfg.Template, cfg.Swap, cfg.Context)
	} else {
		for _, key := range sortedKeys(cfg.Values) {
			e.applyProperty(tgt, key, interp.Interpolate(cfg.Values[key], trigger, cfg.Context))
		}
	}

	e.setState(tgt, ClassOptimistic)
	if cfg.Class != "" {
		tgt.AddClass(cfg.Class)
	}
	e.metrics.cycleStarted()
	return func() { tgt.Dispatch(EventApplied, &EventDetail{Config: cfg}) }
}

// Fail shows the configured error content for a failed cycle. The target is
// recovered from the trigger's target selector, the recorded link, or the
// trigger itself. A stale token means the failure belongs to a superseded
// cycle and is dropped silently; that is routine under rapid interaction,
// not a defect.
func (e *Engine) Fail(trigger *dom.Element, detail *Detail) {
	if trigger == nil {
		return
	}
	e.mu.Lock()
	notify := e.fail(trigger, detail)
	pending := e.takePending()
	e.mu.Unlock()
	e.runReprocess(pending)
	if notify != nil {
		notify()
	}
}

func (e *Engine) fail(trigger *dom.Element, detail *Detail) func() {
	cfgFromTrigger := ResolveConfig(trigger, e.cache)
	tgt := e.recoverTarget(trigger, cfgFromTrigger)

	snap := e.snapshots[tgt]
	cfg := cfgFromTrigger
	if snap != nil {
		cfg = snap.config
	}
	if cfg == nil {
		e.logger.Debug("failure event without optimistic config", "trigger", trigger.Tag())
		return nil
	}
	if snap != nil && snap.token != e.tokens[tgt] {
		e.metrics.staleDrop()
		return nil
	}

	if snap != nil {
		if ae := e.doc.ActiveElement(); ae != nil && within(tgt, ae) {
			snap.focus = ae
		}
	}

	e.setState(tgt, ClassError)

	shown := snap != nil && snap.errorShown
	if !shown && cfg.ErrorMode == SwapAppend && tgt.QuerySelector("["+errorMarker+"]") != nil {
		shown = true
	}
	if !shown {
		e.renderError(tgt, trigger, cfg, detail)
		if snap != nil {
			snap.errorShown = true
		}
		e.metrics.failureShown()
	}

	if cfg.Delay > 0 && snap != nil {
		tok := snap.token
		e.schedule(cfg.Delay, func() { e.Revert(tgt, tok) })
	}
	return func() { tgt.Dispatch(EventError, &EventDetail{Config: cfg, Failure: detail}) }
}

// Revert restores the target from its snapshot and ends the cycle. A zero
// expectedToken reverts unconditionally; otherwise the revert is dropped
// unless the live snapshot still carries that token. This compare-then-act
// guard is the only cancellation mechanism for scheduled reverts.
func (e *Engine) Revert(tgt *dom.Element, expectedToken uint64) {
	if tgt == nil {
		return
	}
	e.mu.Lock()
	notify := e.revert(tgt, expectedToken)
	pending := e.takePending()
	e.mu.Unlock()
	e.runReprocess(pending)
	if notify != nil {
		notify()
	}
}

func (e *Engine) revert(tgt *dom.Element, expectedToken uint64) func() {
	snap := e.snapshots[tgt]
	if snap == nil {
		return nil
	}
	if expectedToken != 0 && expectedToken != snap.token {
		e.metrics.staleDrop()
		return nil
	}

	e.setState(tgt, ClassReverting)
	snap.restore(tgt)
	delete(e.snapshots, tgt)
	delete(e.tokens, tgt)
	e.cleanup(tgt, snap.config)
	e.queueReprocess(tgt)
	if snap.focus != nil && snap.focus.IsConnected() {
		e.doc.Activate(snap.focus)
	}
	e.metrics.reverted()
	cfg := snap.config
	return func() { tgt.Dispatch(EventReverted, &EventDetail{Config: cfg}) }
}

// Cleanup clears the target's visual state without restoring content.
// Invoked on successful completion and as the final step of a revert.
// Idempotent: a clean element stays untouched.
func (e *Engine) Cleanup(tgt *dom.Element) {
	if tgt == nil {
		return
	}
	e.mu.Lock()
	cfg := ResolveConfig(tgt, e.cache)
	if snap := e.snapshots[tgt]; snap != nil {
		cfg = snap.config
	}
	e.cleanup(tgt, cfg)
	e.mu.Unlock()
}

// Complete handles the host's swap-completed signal: it recovers the target
// the same way Fail does and cleans it up.
func (e *Engine) Complete(trigger *dom.Element) {
	if trigger == nil {
		return
	}
	e.mu.Lock()
	cfgFromTrigger := ResolveConfig(trigger, e.cache)
	tgt := e.recoverTarget(trigger, cfgFromTrigger)
	cfg := cfgFromTrigger
	if snap := e.snapshots[tgt]; snap != nil {
		cfg = snap.config
	}
	e.cleanup(tgt, cfg)
	e.mu.Unlock()
	e.metrics.completed()
}

// cleanup must run with the engine lock held.
func (e *Engine) cleanup(tgt *dom.Element, cfg *Config) {
	e.setState(tgt, "")
	tgt.RemoveClass(ClassPending)
	if cfg != nil && cfg.Class != "" {
		tgt.RemoveClass(cfg.Class)
	}
	for _, n := range tgt.QuerySelectorAll("[" + errorMarker + "]") {
		n.Remove()
	}
	delete(e.snapshots, tgt)
	delete(e.tokens, tgt)
	for trig, linked := range e.links {
		if linked == tgt {
			delete(e.links, trig)
		}
	}
}

// queueReprocess defers a reprocess call until the lock is released. Must
// run with the engine lock held.
func (e *Engine) queueReprocess(el *dom.Element) {
	if e.reprocess != nil {
		e.pending = append(e.pending, el)
	}
}

// takePending must run with the engine lock held.
func (e *Engine) takePending() []*dom.Element {
	p := e.pending
	e.pending = nil
	return p
}

// runReprocess runs deferred reprocess calls. Must run without the engine
// lock; the callback may re-enter any entry point.
func (e *Engine) runReprocess(els []*dom.Element) {
	for _, el := range els {
		e.reprocess(el)
	}
}

// recoverTarget maps a trigger to its target: declared selector first, then
// the link recorded at begin, then the trigger itself.
func (e *Engine) recoverTarget(trigger *dom.Element, cfg *Config) *dom.Element {
	if cfg != nil && cfg.Target != "" {
		if tgt := target.Resolve(trigger, cfg.Target); tgt != nil {
			return tgt
		}
	}
	if tgt := e.links[trigger]; tgt != nil {
		return tgt
	}
	return trigger
}

func (e *Engine) insertTemplate(tgt, src *dom.Element, ref, swap string, extra map[string]string) {
	markup, ok := e.templates(ref)
	if !ok {
		e.logger.Warn("optimistic template not found", "ref", ref)
		return
	}
	rendered := interp.Interpolate(markup, src, extra)
	var err error
	switch swap {
	case SwapAppend:
		err = tgt.AppendHTML(rendered)
	case SwapPrepend:
		err = tgt.PrependHTML(rendered)
	default:
		err = tgt.SetInnerHTML(rendered)
	}
	if err != nil {
		e.logger.Warn("optimistic content insert failed", "ref", ref, "error", err)
		return
	}
	e.queueReprocess(tgt)
}

// applyProperty dispatches one property update. The special-cased keys form
// a closed set; everything else is a plain property assignment.
func (e *Engine) applyProperty(tgt *dom.Element, key, val string) {
	switch {
	case key == "textContent":
		tgt.SetTextContent(val)
	case key == "innerHTML":
		if err := tgt.SetInnerHTML(val); err != nil {
			e.logger.Warn("optimistic innerHTML update failed", "error", err)
			return
		}
		e.queueReprocess(tgt)
	case key == "className" || key == "class":
		tgt.SetClass(val)
	case key == "class+":
		for _, c := range strings.Fields(val) {
			tgt.AddClass(c)
		}
	case strings.HasPrefix(key, "data-"):
		tgt.SetAttr(key, val)
	default:
		tgt.SetProp(key, val)
	}
}

func (e *Engine) renderError(tgt, trigger *dom.Element, cfg *Config, detail *Detail) {
	extra := failureContext(cfg, detail)

	if cfg.ErrorTemplate != "" {
		markup, ok := e.templates(cfg.ErrorTemplate)
		if !ok {
			e.logger.Warn("optimistic error template not found", "ref", cfg.ErrorTemplate)
			return
		}
		rendered := interp.Interpolate(markup, trigger, extra)
		var err error
		if cfg.ErrorMode == SwapAppend {
			err = tgt.AppendHTML(`<div ` + errorMarker + `>` + rendered + `</div>`)
		} else {
			err = tgt.SetInnerHTML(rendered)
		}
		if err != nil {
			e.logger.Warn("optimistic error insert failed", "ref", cfg.ErrorTemplate, "error", err)
			return
		}
		e.queueReprocess(tgt)
		return
	}

	msg := interp.Interpolate(cfg.ErrorMessage, trigger, extra)
	if cfg.ErrorMode == SwapAppend {
		_ = tgt.AppendHTML(`<span ` + errorMarker + `>` + stdhtml.EscapeString(msg) + `</span>`)
		return
	}
	tgt.SetTextContent(msg)
}

// setState makes class the sole active cycle-state class; "" clears all.
func (e *Engine) setState(el *dom.Element, class string) {
	el.RemoveClass(ClassOptimistic)
	el.RemoveClass(ClassError)
	el.RemoveClass(ClassReverting)
	if class != "" {
		el.AddClass(class)
	}
}

// failureContext merges the config's context map with the failure detail
// for error interpolation.
func failureContext(cfg *Config, d *Detail) map[string]string {
	extra := make(map[string]string, len(cfg.Context)+3)
	for k, v := range cfg.Context {
		extra[k] = v
	}
	if d != nil {
		extra["status"] = strconv.Itoa(d.Status)
		extra["statusText"] = d.StatusText
		extra["error"] = d.Message
	}
	return extra
}

func within(root, el *dom.Element) bool {
	for n := el; n != nil; n = n.Parent() {
		if n == root {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
