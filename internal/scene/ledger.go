package scene

import (
	"github.com/cybre/neon-skyline/internal/graph"
)

// ledger tracks allocated resources and releases each exactly once.
type ledger struct {
	owned    []graph.Disposable
	released map[graph.Disposable]struct{}
}

func newLedger() *ledger {
	return &ledger{released: make(map[graph.Disposable]struct{})}
}

func (l *ledger) own(d graph.Disposable) {
	if d != nil {
		l.owned = append(l.owned, d)
	}
}

// ownTree records every geometry, material and texture under root.
func (l *ledger) ownTree(root *graph.Node) {
	root.Walk(func(n *graph.Node) bool {
		if n.Geometry != nil {
			l.own(n.Geometry)
		}
		for _, m := range n.Materials {
			l.own(m)
			if t := m.Map(); t != nil {
				l.own(t)
			}
		}
		return true
	})
}

func (l *ledger) release(d graph.Disposable) {
	if d == nil {
		return
	}
	if _, ok := l.released[d]; ok {
		return
	}
	l.released[d] = struct{}{}
	d.Dispose()
}

// releaseMesh releases the geometry and every material of n, textures first.
func (l *ledger) releaseMesh(n *graph.Node) {
	if n.Geometry != nil {
		l.release(n.Geometry)
	}
	for _, m := range n.Materials {
		if m == nil {
			continue
		}
		if t := m.Map(); t != nil {
			l.release(t)
		}
		l.release(m)
	}
}

// releaseAll releases whatever is still owned.
func (l *ledger) releaseAll() {
	for _, d := range l.owned {
		l.release(d)
	}
	l.owned = nil
}

// releasedCount is the number of distinct releases so far.
func (l *ledger) releasedCount() int {
	return len(l.released)
}
