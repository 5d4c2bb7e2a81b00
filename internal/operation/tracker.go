// Package operation tracks which remote operations are currently running so
// callers can refuse a duplicate submission and the UI can show a busy state.
package operation

import (
	"sort"
	"sync"

	"github.com/fekuna/omnipos-stock-app/internal/apperror"
)

const (
	Login          = "auth.login"
	Register       = "auth.register"
	Logout         = "auth.logout"
	RefreshStock   = "inventory.refresh"
	SaveCategory   = "category.save"
	DeleteCategory = "category.delete"
	SaveItem       = "inventory.save"
	DeleteItem     = "inventory.delete"
	ManualEntry    = "entry.submit"
	SubmitOrder    = "order.submit"
	DeleteOrder    = "order.delete"
	Export         = "export.send"
)

type Tracker struct {
	mu      sync.Mutex
	running map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{running: make(map[string]struct{})}
}

// Begin marks op as running. The returned func ends it and is safe to call
// more than once. A nil Tracker tracks nothing.
func (t *Tracker) Begin(op string) (func(), error) {
	if t == nil {
		return func() {}, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.running[op]; ok {
		return nil, apperror.ErrInFlight
	}
	t.running[op] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.running, op)
			t.mu.Unlock()
		})
	}, nil
}

func (t *Tracker) InFlight(op string) bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.running[op]
	return ok
}

// Snapshot lists running operations in name order.
func (t *Tracker) Snapshot() []string {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	ops := make([]string, 0, len(t.running))
	for op := range t.running {
		ops = append(ops, op)
	}
	t.mu.Unlock()
	sort.Strings(ops)
	return ops
}
