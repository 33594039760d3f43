package booth

import "sync"

// notifications is the host-to-controller queue: any goroutine may push,
// only the controller pops. Pushes never block and never drop; the host
// produces at most one notification per phase transition so depth stays
// small in practice.
type notifications struct {
	mu    sync.Mutex
	items []Phase

	// wake is a capacity-1 doorbell for the initial blocking wait; the tick
	// loop itself only ever polls.
	wake chan struct{}
}

func newNotifications() *notifications {
	return &notifications{wake: make(chan struct{}, 1)}
}

func (n *notifications) push(p Phase) {
	n.mu.Lock()
	n.items = append(n.items, p)
	n.mu.Unlock()
	select {
	case n.wake <- struct{}{}:
	default:
	}
}

// tryPop removes and returns the oldest pending phase, if any.
func (n *notifications) tryPop() (Phase, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.items) == 0 {
		return Phase{}, false
	}
	p := n.items[0]
	n.items = n.items[1:]
	return p, true
}

func (n *notifications) depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items)
}
