package strand

// Cell holds state shared between a context, the jobs it polls, and any
// external observer. Access goes through a checked single-writer
// discipline: the engine checks the cell out for the whole duration of
// one context poll (callbacks included), and With checks it out for the
// duration of its function. Checking out an already-checked-out cell
// panics — the cell fails fast instead of aliasing.
//
// Cell is not a lock. All access must happen on the goroutine driving
// the owning contexts; the check catches reentrant access on that
// goroutine, not cross-goroutine races.
type Cell[S any] struct {
	state S
	out   bool
}

// NewCell wraps state in a fresh, checked-in cell.
func NewCell[S any](state S) *Cell[S] {
	return &Cell[S]{state: state}
}

// With runs f with exclusive access to the state. Panics if the state is
// already checked out, which includes calling With from inside a service
// callback or a job poll of any context sharing this cell.
func (c *Cell[S]) With(f func(*S)) {
	s := c.checkOut()
	defer c.checkIn()
	f(s)
}

func (c *Cell[S]) checkOut() *S {
	if c.out {
		panic("strand: state cell already checked out")
	}
	c.out = true
	return &c.state
}

func (c *Cell[S]) checkIn() {
	c.out = false
}
