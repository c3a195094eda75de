package strand

import "github.com/xraph/strand/hook"

// itemKind tags the closed set of secondary job shapes. Each sweep
// dispatches on the tag with a single switch per element.
type itemKind uint8

const (
	kindTask itemKind = iota
	kindSpawned
	kindFuture
	kindStream
	kindDeferred
	kindSink
)

// item is one secondary job attached to a context. Exactly one payload
// field is set, matching the kind. A deferred item is rewritten in place
// into a stream item when its future resolves.
type item[S, M, R any] struct {
	kind itemKind

	task     Task[S, M, R]     // kindTask, kindSpawned
	future   Future[M]         // kindFuture
	stream   Stream[M]         // kindStream
	deferred Future[Stream[M]] // kindDeferred
	sink     SinkJob[S, M, R]  // kindSink
}

func (k itemKind) hookKind() hook.JobKind {
	switch k {
	case kindTask:
		return hook.KindTask
	case kindSpawned:
		return hook.KindSpawned
	case kindFuture:
		return hook.KindFuture
	case kindStream:
		return hook.KindStream
	case kindDeferred:
		return hook.KindDeferred
	default:
		return hook.KindSink
	}
}
