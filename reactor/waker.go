package reactor

// Waker resumes a suspended task. A task that returns false from Poll
// must arrange for the waker it received to fire once more progress is
// possible; until then the core will not poll it again.
//
// Implementations must be safe for use from any goroutine.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to the Waker interface.
type WakerFunc func()

// Wake implements Waker.
func (f WakerFunc) Wake() { f() }

// NopWaker discards wakes. Useful in tests and for callers that drive
// polls in a loop of their own.
var NopWaker Waker = nopWaker{}

type nopWaker struct{}

func (nopWaker) Wake() {}
