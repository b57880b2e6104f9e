package domtest

import (
	"testing"
	"time"
)

func TestSchedulerBatches(t *testing.T) {
	s := &Scheduler{}
	var ran []string

	s.Schedule(10*time.Millisecond, func() {
		ran = append(ran, "first")
		s.Schedule(time.Millisecond, func() { ran = append(ran, "nested") })
	})
	s.Schedule(20*time.Millisecond, func() { ran = append(ran, "second") })

	if s.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", s.Pending())
	}
	if n := s.Fire(); n != 2 {
		t.Fatalf("Fire() = %d, want 2", n)
	}
	// The callback scheduled during Fire lands in the next batch.
	if s.Pending() != 1 {
		t.Fatalf("Pending() after fire = %d, want 1", s.Pending())
	}
	s.Fire()

	want := []string{"first", "second", "nested"}
	if len(ran) != len(want) {
		t.Fatalf("ran = %v, want %v", ran, want)
	}
	for i := range want {
		if ran[i] != want[i] {
			t.Errorf("ran[%d] = %q, want %q", i, ran[i], want[i])
		}
	}
}
