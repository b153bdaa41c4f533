package sigchan

// Chan is a non-blocking notification channel: it signals that something
// changed without carrying data. The trading store emits on it after every
// mutation so the dashboard can re-render from the latest snapshot.
type Chan struct {
	c chan struct{}
}

// New creates a signal channel with the given buffer.
func New(bufferSize int) *Chan {
	return &Chan{
		c: make(chan struct{}, bufferSize),
	}
}

// Emit sends a signal. If the buffer is full the signal is dropped; a
// pending signal already guarantees the consumer will wake up.
func (c *Chan) Emit() {
	select {
	case c.c <- struct{}{}:
	default:
	}
}

// C exposes the channel for select statements.
func (c *Chan) C() <-chan struct{} {
	return c.c
}
