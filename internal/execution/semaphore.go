package execution

// Semaphore is a counting semaphore that never blocks: callers either get a
// slot or are told to come back later.
type Semaphore struct {
	ch chan struct{}
}

// NewSemaphore creates a semaphore with the given capacity (minimum 1).
func NewSemaphore(n int) *Semaphore {
	if n <= 0 {
		n = 1
	}
	return &Semaphore{ch: make(chan struct{}, n)}
}

// TryAcquire takes a slot if one is free and reports whether it did.
func (s *Semaphore) TryAcquire() bool {
	select {
	case s.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release releases a slot.
func (s *Semaphore) Release() {
	<-s.ch
}

// InUse returns the number of slots currently held.
func (s *Semaphore) InUse() int {
	return len(s.ch)
}
