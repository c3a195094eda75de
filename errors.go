package strand

import "errors"

var (
	// Sink handle errors.
	ErrSinkClosed   = errors.New("strand: sink closed")
	ErrSinkDetached = errors.New("strand: sink detached from terminated context")
)
