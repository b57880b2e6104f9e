package domtest

import (
	"testing"
	"time"

	"github.com/presto-ui/presto/pkg/dom"
)

// ExpectClass asserts that el's class list contains name.
func ExpectClass(t *testing.T, el *dom.Element, name string) {
	t.Helper()
	if el == nil {
		t.Fatal("ExpectClass: element is nil")
	}
	if !el.HasClass(name) {
		t.Errorf("expected class %q, class list is %q", name, el.Class())
	}
}

// ExpectNoClass asserts that el's class list does not contain name.
func ExpectNoClass(t *testing.T, el *dom.Element, name string) {
	t.Helper()
	if el == nil {
		t.Fatal("ExpectNoClass: element is nil")
	}
	if el.HasClass(name) {
		t.Errorf("expected class %q to be absent, class list is %q", name, el.Class())
	}
}

// ExpectText asserts on el's exact text content.
func ExpectText(t *testing.T, el *dom.Element, want string) {
	t.Helper()
	if el == nil {
		t.Fatal("ExpectText: element is nil")
	}
	if got := el.TextContent(); got != want {
		t.Errorf("text content = %q, want %q", got, want)
	}
}

// ExpectAttr asserts on an exact attribute value.
func ExpectAttr(t *testing.T, el *dom.Element, name, want string) {
	t.Helper()
	if el == nil {
		t.Fatal("ExpectAttr: element is nil")
	}
	if got := el.Attr(name); got != want {
		t.Errorf("attribute %s = %q, want %q", name, got, want)
	}
}

// ExpectHTML asserts on el's exact inner HTML.
func ExpectHTML(t *testing.T, el *dom.Element, want string) {
	t.Helper()
	if el == nil {
		t.Fatal("ExpectHTML: element is nil")
	}
	if got := el.InnerHTML(); got != want {
		t.Errorf("inner HTML = %q, want %q", got, want)
	}
}

// Scheduler collects one-shot callbacks so tests control when scheduled
// work fires. Fire runs everything pending at call time; callbacks that
// schedule more work land in the next batch.
type Scheduler struct {
	jobs []Job
}

// Job is one scheduled callback and the delay it was scheduled with.
type Job struct {
	Delay time.Duration
	Fn    func()
}

// Schedule records a callback. Matches the engine's Schedule signature.
func (s *Scheduler) Schedule(d time.Duration, fn func()) {
	s.jobs = append(s.jobs, Job{Delay: d, Fn: fn})
}

// Pending returns the number of callbacks not yet fired.
func (s *Scheduler) Pending() int {
	return len(s.jobs)
}

// Fire runs all currently pending callbacks and returns how many ran.
func (s *Scheduler) Fire() int {
	batch := s.jobs
	s.jobs = nil
	for _, j := range batch {
		j.Fn()
	}
	return len(batch)
}
