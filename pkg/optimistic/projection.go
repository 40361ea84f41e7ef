package optimistic

import "sync"

// Status is the lifecycle of an in-flight action.
type Status int

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusFailed
)

type inflight[T any] struct {
	action Action[T]
	token  uint64
	status Status
}

// Projection is the predicted view a client renders: the last server snapshot
// with every unreconciled action replayed on top. Failed actions are not
// rolled back; they stay visible until the next Reconcile, like confirmed
// ones, and the fresh snapshot decides what is true.
type Projection[T any] struct {
	mu      sync.Mutex
	acc     Accessor[T]
	base    []T
	queue   []inflight[T]
	counter uint64
}

// NewProjection starts a projection from a server snapshot.
func NewProjection[T any](snapshot []T, acc Accessor[T]) *Projection[T] {
	return &Projection[T]{acc: acc, base: append([]T(nil), snapshot...)}
}

// Dispatch records action and returns a token for Settle.
func (p *Projection[T]) Dispatch(action Action[T]) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.counter++
	p.queue = append(p.queue, inflight[T]{action: action, token: p.counter, status: StatusPending})
	return p.counter
}

// Settle records the server outcome of a dispatched action.
func (p *Projection[T]) Settle(token uint64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.queue {
		if p.queue[i].token == token {
			if err != nil {
				p.queue[i].status = StatusFailed
			} else {
				p.queue[i].status = StatusConfirmed
			}
			return
		}
	}
}

// View returns the predicted state.
func (p *Projection[T]) View() []T {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := append([]T(nil), p.base...)
	for _, f := range p.queue {
		state = Reduce(state, f.action, p.acc)
	}
	return state
}

// Pending returns how many dispatched actions await a server answer.
func (p *Projection[T]) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, f := range p.queue {
		if f.status == StatusPending {
			n++
		}
	}
	return n
}

// Reconcile replaces the base with a fresh server snapshot. Settled actions
// are dropped because the snapshot already reflects them; actions still in
// flight are kept and replayed on the new base.
func (p *Projection[T]) Reconcile(snapshot []T) []T {
	p.mu.Lock()
	p.base = append([]T(nil), snapshot...)
	kept := p.queue[:0]
	for _, f := range p.queue {
		if f.status == StatusPending {
			kept = append(kept, f)
		}
	}
	p.queue = kept
	p.mu.Unlock()

	return p.View()
}
