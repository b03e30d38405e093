package dialog

import "sync"

// Dialog is a yes/no prompt holding at most one pending question. A new
// Show replaces the pending one; the replaced callback is dropped without
// being called.
type Dialog struct {
	mu        sync.Mutex
	message   string
	onResolve func(confirmed bool)
	pending   bool
}

func New() *Dialog {
	return &Dialog{}
}

// Show asks message and arranges for onResolve to be called once with the answer.
func (d *Dialog) Show(message string, onResolve func(confirmed bool)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.message = message
	d.onResolve = onResolve
	d.pending = true
}

// Resolve answers the pending question. It reports false when nothing was
// pending. The callback runs outside the dialog lock.
func (d *Dialog) Resolve(confirmed bool) bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	cb := d.onResolve
	d.message, d.onResolve, d.pending = "", nil, false
	d.mu.Unlock()

	if cb != nil {
		cb(confirmed)
	}
	return true
}

// Dismiss closes the dialog like a cancel.
func (d *Dialog) Dismiss() bool {
	return d.Resolve(false)
}

// Pending returns the message awaiting an answer.
func (d *Dialog) Pending() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.message, d.pending
}
