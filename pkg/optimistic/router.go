package optimistic

import "github.com/presto-ui/presto/pkg/dom"

// Kind identifies one inbound lifecycle event from the host request-dispatch
// layer.
type Kind string

const (
	KindRequestStarted Kind = "request-started"
	KindResponseError  Kind = "response-error"
	KindSwapError      Kind = "swap-error"
	KindTimeout        Kind = "timeout"
	KindSendError      Kind = "send-error"
	KindSwapCompleted  Kind = "swap-completed"
)

// Detail carries the transport information attached to failure events.
type Detail struct {
	Status     int
	StatusText string
	Message    string
}

// Router maps the six inbound event kinds onto the three engine entry
// points. The four failure kinds are deliberately indistinguishable to the
// engine; they differ only in what the host observed.
type Router struct {
	engine *Engine
}

// NewRouter returns a router driving the given engine.
func NewRouter(engine *Engine) *Router {
	return &Router{engine: engine}
}

// Handle is the single entry point the host dispatch layer drives.
func (r *Router) Handle(kind Kind, trigger *dom.Element, detail *Detail) {
	switch kind {
	case KindRequestStarted:
		r.engine.Begin(trigger)
	case KindResponseError, KindSwapError, KindTimeout, KindSendError:
		r.engine.Fail(trigger, detail)
	case KindSwapCompleted:
		r.engine.Complete(trigger)
	default:
		r.engine.logger.Warn("unknown lifecycle event kind", "kind", string(kind))
	}
}
