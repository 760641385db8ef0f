package conv

import (
	"testing"

	"github.com/wippyai/hostconv/host"
)

// refCounter tracks outstanding references taken while it is subscribed.
type refCounter struct {
	balance int
}

func (c *refCounter) OnHeapEvent(e host.Event) {
	switch e.Type {
	case host.EventCreated:
		c.balance += int(e.Refs)
	case host.EventRetained:
		c.balance++
	case host.EventReleased, host.EventDropped:
		c.balance--
	}
}

// expectNoLeak fails the test if references acquired after the call are
// still held when the returned function runs.
func expectNoLeak(t *testing.T, h *host.Heap) func() {
	t.Helper()
	c := &refCounter{}
	h.Subscribe(c)
	live := h.Live()
	return func() {
		t.Helper()
		h.Unsubscribe(c)
		if c.balance != 0 {
			t.Errorf("reference balance = %d, want 0", c.balance)
		}
		if got := h.Live(); got != live {
			t.Errorf("live values = %d, want %d", got, live)
		}
	}
}

func newValue(t *testing.T, h *host.Heap, v host.Value) host.Borrowed {
	t.Helper()
	o := h.New(v)
	t.Cleanup(o.Release)
	return o.Borrow()
}

func mustInt(t *testing.T, s string) host.Int {
	t.Helper()
	i, ok := host.ParseInt(s)
	if !ok {
		t.Fatalf("bad int literal %q", s)
	}
	return i
}
