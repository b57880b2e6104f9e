package optimistic

import (
	"testing"

	"github.com/presto-ui/presto/pkg/domtest"
)

func TestRouterRequestStarted(t *testing.T) {
	f := newFixture(t)
	btn := f.byID(t, "save")

	NewRouter(f.engine).Handle(KindRequestStarted, btn, nil)
	domtest.ExpectText(t, btn, "Saving...")
	domtest.ExpectClass(t, btn, ClassOptimistic)
}

// All four failure kinds collapse onto the same engine transition.
func TestRouterFailureKinds(t *testing.T) {
	kinds := []Kind{KindResponseError, KindSwapError, KindTimeout, KindSendError}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			f := newFixture(t)
			btn := f.byID(t, "save")
			r := NewRouter(f.engine)

			r.Handle(KindRequestStarted, btn, nil)
			r.Handle(kind, btn, &Detail{Status: 500, StatusText: "Internal Server Error"})
			domtest.ExpectClass(t, btn, ClassError)
			domtest.ExpectText(t, btn, "Failed")
		})
	}
}

func TestRouterSwapCompleted(t *testing.T) {
	f := newFixture(t)
	btn := f.byID(t, "save")
	r := NewRouter(f.engine)

	r.Handle(KindRequestStarted, btn, nil)
	r.Handle(KindSwapCompleted, btn, nil)
	domtest.ExpectNoClass(t, btn, ClassOptimistic)
	if len(f.engine.snapshots) != 0 {
		t.Error("swap completion must drain the snapshot store")
	}
}

func TestRouterUnknownKind(t *testing.T) {
	f := newFixture(t)
	btn := f.byID(t, "save")

	before := btn.OuterHTML()
	NewRouter(f.engine).Handle(Kind("half-swap"), btn, nil)
	if btn.OuterHTML() != before {
		t.Error("unknown kind must not touch the document")
	}
}
