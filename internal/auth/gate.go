package auth

import (
	"context"
	"sync"
)

// Gate blocks protected work until the session has been rehydrated.
type Gate struct {
	once sync.Once
	done chan struct{}
}

func NewGate() *Gate {
	return &Gate{done: make(chan struct{})}
}

func (g *Gate) Open() {
	g.once.Do(func() { close(g.done) })
}

func (g *Gate) Ready() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

func (g *Gate) Done() <-chan struct{} {
	return g.done
}

func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
