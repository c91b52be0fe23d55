package figure

import "sync"

// mailbox is an unbounded FIFO queue. Senders never block; the receiver
// waits on ready, which holds at most one pending wakeup.
type mailbox struct {
	mu     sync.Mutex
	queue  []any
	closed bool
	ready  chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{ready: make(chan struct{}, 1)}
}

// push enqueues m. It returns false once the mailbox is closed.
func (b *mailbox) push(m any) bool {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false
	}
	b.queue = append(b.queue, m)
	b.mu.Unlock()

	select {
	case b.ready <- struct{}{}:
	default:
	}
	return true
}

func (b *mailbox) pop() (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return nil, false
	}
	m := b.queue[0]
	b.queue[0] = nil
	b.queue = b.queue[1:]
	return m, true
}

// close rejects further pushes and returns whatever is still queued.
func (b *mailbox) close() []any {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	rest := b.queue
	b.queue = nil
	return rest
}
