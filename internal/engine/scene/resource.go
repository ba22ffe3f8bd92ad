package scene

// resource tracks disposal of a GPU-backed object. Renderers register
// OnDispose callbacks to release what they uploaded.
type resource struct {
	disposed  bool
	onDispose []func()
}

// OnDispose registers fn to run once when the resource is disposed.
func (r *resource) OnDispose(fn func()) {
	r.onDispose = append(r.onDispose, fn)
}

// Dispose runs the registered callbacks. Repeated calls are no-ops.
func (r *resource) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	for _, fn := range r.onDispose {
		fn()
	}
	r.onDispose = nil
}

// Disposed reports whether Dispose was called.
func (r *resource) Disposed() bool {
	return r.disposed
}
