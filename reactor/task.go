package reactor

// Task is a unit of work driven by repeated polls. Poll performs as much
// work as possible without blocking and reports whether the task has run
// to completion. A task that returns false must first arrange for w to
// fire when it can make progress again; returning false without storing
// w anywhere suspends the task forever.
type Task interface {
	Poll(w Waker) bool
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc func(w Waker) bool

// Poll implements Task.
func (f TaskFunc) Poll(w Waker) bool { return f(w) }
