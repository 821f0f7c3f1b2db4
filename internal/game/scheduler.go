package game

// FrameHandle identifies one registration with a Scheduler. The zero handle
// is never issued.
type FrameHandle uint64

// Scheduler runs a callback on the next display frame.
// Each Schedule call registers exactly one future invocation; Cancel
// deregisters it. Cancelling a handle that already fired is a no-op.
type Scheduler interface {
	Schedule(fn func()) FrameHandle
	Cancel(h FrameHandle)
}

// FrameLoop is a Scheduler driven by an external clock: the platform calls
// Fire once per tick on the same goroutine that delivers input, so steps
// never overlap with jumps. It holds a single registration; scheduling again
// replaces the pending one.
//
// FrameLoop is not safe for concurrent use.
type FrameLoop struct {
	issued  FrameHandle
	pending FrameHandle
	fn      func()
}

// NewFrameLoop creates an idle frame loop.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{}
}

// Schedule registers fn for the next Fire.
func (l *FrameLoop) Schedule(fn func()) FrameHandle {
	l.issued++
	l.pending = l.issued
	l.fn = fn
	return l.pending
}

// Cancel removes the registration if h is still pending.
func (l *FrameLoop) Cancel(h FrameHandle) {
	if h == 0 || h != l.pending {
		return
	}
	l.pending = 0
	l.fn = nil
}

// Pending reports whether a callback is registered.
func (l *FrameLoop) Pending() bool {
	return l.pending != 0
}

// Fire runs the registered callback, if any, and reports whether one ran.
// The registration is consumed before the callback runs, so the callback may
// schedule the following frame.
func (l *FrameLoop) Fire() bool {
	if l.pending == 0 {
		return false
	}
	fn := l.fn
	l.pending = 0
	l.fn = nil
	fn()
	return true
}
