package toast

import "sync"

// Recorder keeps the most recent toasts in a fixed-size ring.
type Recorder struct {
	buf   []Toast
	next  int
	count int
	mu    sync.Mutex
}

// NewRecorder creates a Recorder holding up to size toasts. A size of zero
// or less keeps nothing.
func NewRecorder(size int) *Recorder {
	if size < 0 {
		size = 0
	}
	return &Recorder{buf: make([]Toast, size)}
}

// Deliver implements Sink.
func (r *Recorder) Deliver(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.buf) == 0 {
		return
	}
	r.buf[r.next] = t
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Recent returns the recorded toasts, oldest first.
func (r *Recorder) Recent() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Toast, 0, r.count)
	start := (r.next - r.count + len(r.buf)) % max(len(r.buf), 1)
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

// Last returns the most recent toast, if any.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		return Toast{}, false
	}
	return r.buf[(r.next-1+len(r.buf))%len(r.buf)], true
}

// Reset forgets every recorded toast.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next = 0
	r.count = 0
}
