package hook_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/strand/hook"
	"github.com/xraph/strand/id"
)

// ──────────────────────────────────────────────────
// Test hooks
// ──────────────────────────────────────────────────

// allEventsHook implements every lifecycle event for testing.
type allEventsHook struct {
	calls []string
}

func (h *allEventsHook) Name() string { return "all-events" }

func (h *allEventsHook) OnContextStarted(_ hook.Info) error {
	h.calls = append(h.calls, "OnContextStarted")
	return nil
}

func (h *allEventsHook) OnContextFinished(_ hook.Info, _ error, _ time.Duration) error {
	h.calls = append(h.calls, "OnContextFinished")
	return nil
}

func (h *allEventsHook) OnMessageDelivered(_ hook.Info, _ hook.JobKind, _ error) error {
	h.calls = append(h.calls, "OnMessageDelivered")
	return nil
}

func (h *allEventsHook) OnJobAdded(_ hook.Info, _ hook.JobKind) error {
	h.calls = append(h.calls, "OnJobAdded")
	return nil
}

func (h *allEventsHook) OnJobFinished(_ hook.Info, _ hook.JobKind) error {
	h.calls = append(h.calls, "OnJobFinished")
	return nil
}

func (h *allEventsHook) OnSpawnedError(_ hook.Info, _ error) error {
	h.calls = append(h.calls, "OnSpawnedError")
	return nil
}

func (h *allEventsHook) OnPollCompleted(_ hook.Info, _ time.Duration) error {
	h.calls = append(h.calls, "OnPollCompleted")
	return nil
}

// jobOnlyHook only implements the job events.
type jobOnlyHook struct {
	calls []string
}

func (h *jobOnlyHook) Name() string { return "job-only" }

func (h *jobOnlyHook) OnJobAdded(_ hook.Info, _ hook.JobKind) error {
	h.calls = append(h.calls, "OnJobAdded")
	return nil
}

func (h *jobOnlyHook) OnJobFinished(_ hook.Info, _ hook.JobKind) error {
	h.calls = append(h.calls, "OnJobFinished")
	return nil
}

// failingHook returns errors from its events.
type failingHook struct{}

func (h *failingHook) Name() string { return "failing" }

func (h *failingHook) OnJobAdded(_ hook.Info, _ hook.JobKind) error {
	return errors.New("boom")
}

// ──────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────

func testInfo() hook.Info {
	return hook.Info{ID: id.NewContextID(), Name: "test-context"}
}

func TestRegistry_RegisterDiscoversInterfaces(t *testing.T) {
	r := hook.NewRegistry(slog.Default())
	all := &allEventsHook{}
	r.Register(all)

	if got := len(r.Hooks()); got != 1 {
		t.Fatalf("expected 1 hook, got %d", got)
	}
	if got := r.Hooks()[0].Name(); got != "all-events" {
		t.Fatalf("expected name 'all-events', got %q", got)
	}
}

func TestRegistry_EmitFiresOnlyImplementors(t *testing.T) {
	r := hook.NewRegistry(slog.Default())
	all := &allEventsHook{}
	jo := &jobOnlyHook{}
	r.Register(all)
	r.Register(jo)

	c := testInfo()

	// Both implement OnJobAdded → both called.
	r.EmitJobAdded(c, hook.KindTask)
	if len(all.calls) != 1 || all.calls[0] != "OnJobAdded" {
		t.Fatalf("all: expected [OnJobAdded], got %v", all.calls)
	}
	if len(jo.calls) != 1 || jo.calls[0] != "OnJobAdded" {
		t.Fatalf("jo: expected [OnJobAdded], got %v", jo.calls)
	}

	// Only all implements OnContextStarted → jo not called.
	r.EmitContextStarted(c)
	if len(all.calls) != 2 || all.calls[1] != "OnContextStarted" {
		t.Fatalf("all: expected OnContextStarted as 2nd, got %v", all.calls)
	}
	if len(jo.calls) != 1 {
		t.Fatalf("jo: should still have 1 call, got %v", jo.calls)
	}
}

func TestRegistry_AllEventsFire(t *testing.T) {
	r := hook.NewRegistry(slog.Default())
	all := &allEventsHook{}
	r.Register(all)

	c := testInfo()

	r.EmitContextStarted(c)
	r.EmitJobAdded(c, hook.KindFuture)
	r.EmitMessageDelivered(c, hook.KindPrimary, nil)
	r.EmitJobFinished(c, hook.KindFuture)
	r.EmitSpawnedError(c, errors.New("spawned fail"))
	r.EmitPollCompleted(c, time.Millisecond)
	r.EmitContextFinished(c, nil, time.Second)

	expected := []string{
		"OnContextStarted", "OnJobAdded", "OnMessageDelivered",
		"OnJobFinished", "OnSpawnedError", "OnPollCompleted",
		"OnContextFinished",
	}
	if len(all.calls) != len(expected) {
		t.Fatalf("expected %d calls, got %d: %v", len(expected), len(all.calls), all.calls)
	}
	for i, want := range expected {
		if all.calls[i] != want {
			t.Errorf("call[%d] = %q, want %q", i, all.calls[i], want)
		}
	}
}

func TestRegistry_HookErrorsLoggedNotPropagated(t *testing.T) {
	r := hook.NewRegistry(slog.Default())
	failing := &failingHook{}
	all := &allEventsHook{}

	// Register failing first, then all-events. Both should be called.
	r.Register(failing)
	r.Register(all)

	// No panic, no error propagation. allEventsHook should still fire.
	r.EmitJobAdded(testInfo(), hook.KindSink)

	if len(all.calls) != 1 || all.calls[0] != "OnJobAdded" {
		t.Fatalf("all: expected [OnJobAdded], got %v", all.calls)
	}
}

func TestRegistry_RegistrationOrderPreserved(t *testing.T) {
	r := hook.NewRegistry(slog.Default())

	var order []string
	first := &orderHook{name: "first", order: &order}
	second := &orderHook{name: "second", order: &order}
	r.Register(first)
	r.Register(second)

	r.EmitJobAdded(testInfo(), hook.KindStream)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected [first second], got %v", order)
	}
}

// orderHook records its name into a shared slice to observe firing order.
type orderHook struct {
	name  string
	order *[]string
}

func (h *orderHook) Name() string { return h.name }

func (h *orderHook) OnJobAdded(_ hook.Info, _ hook.JobKind) error {
	*h.order = append(*h.order, h.name)
	return nil
}
