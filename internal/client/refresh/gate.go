// Package refresh coordinates access-token refreshes so that at most one is
// in flight at a time.
//
// The gate is a two-state machine, Idle → Refreshing → Idle. The first
// caller to arrive while Idle becomes the leader and runs the refresh; every
// caller arriving while Refreshing is queued and receives the leader's
// outcome. Queued callers are released in arrival order. The gate returns to
// Idle on every exit path of the leader, including a panic.
package refresh

import (
	"context"
	"errors"
	"sync"
)

// ErrAborted is delivered to queued callers when the leader's refresh
// function panics.
var ErrAborted = errors.New("token refresh aborted")

type State int

const (
	Idle State = iota
	Refreshing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Refreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// Func obtains a new access token.
type Func func(ctx context.Context) (string, error)

type outcome struct {
	token string
	err   error
}

type Gate struct {
	mu      sync.Mutex
	state   State
	pending []chan outcome
}

func NewGate() *Gate {
	return &Gate{}
}

// Do returns a fresh access token. It runs fn if no refresh is in flight;
// otherwise it waits for the in-flight one. leader reports whether this call
// ran fn.
//
// A queued caller whose ctx ends stops waiting and gets ctx.Err(); the
// refresh itself carries on for the others.
func (g *Gate) Do(ctx context.Context, fn Func) (token string, leader bool, err error) {
	g.mu.Lock()
	if g.state == Refreshing {
		ch := make(chan outcome, 1)
		g.pending = append(g.pending, ch)
		g.mu.Unlock()

		select {
		case o := <-ch:
			return o.token, false, o.err
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}
	g.state = Refreshing
	g.mu.Unlock()

	token, err = g.lead(ctx, fn)
	return token, true, err
}

func (g *Gate) lead(ctx context.Context, fn Func) (string, error) {
	defer func() {
		if p := recover(); p != nil {
			g.settle(outcome{err: ErrAborted})
			panic(p)
		}
	}()

	token, err := fn(ctx)
	g.settle(outcome{token: token, err: err})
	return token, err
}

// settle resets the gate and hands o to every queued caller, oldest first.
func (g *Gate) settle(o outcome) {
	g.mu.Lock()
	queue := g.pending
	g.pending = nil
	g.state = Idle
	g.mu.Unlock()

	for _, ch := range queue {
		ch <- o
	}
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Pending returns the number of callers waiting on the in-flight refresh.
func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}
