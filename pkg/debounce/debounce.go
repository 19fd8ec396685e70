// Package debounce delays a callback until calls stop arriving for a
// configured quiet period. Each Debouncer owns exactly one timer.
package debounce

import (
	"sync"
	"time"
)

// Debouncer invokes fn with the most recent value passed to Call once no
// further calls have been made for delay.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	seq     uint64
}

// New creates a Debouncer. A non-positive delay fires on the next tick of
// the runtime timer, still asynchronously.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Call records v and (re)starts the quiet period.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = v
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Cancel drops any pending invocation. Safe to call repeatedly.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	// A later Call or Cancel superseded this timer.
	if seq != d.seq {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}

// Func is the functional form of New: it returns the debounced call and a
// cancel function bound to a single timer.
func Func[T any](delay time.Duration, fn func(T)) (call func(T), cancel func()) {
	d := New(delay, fn)
	return d.Call, d.Cancel
}
