// Package identity holds the authentication state shared by every view
// rendered for one session.
//
// A Context starts in StatusLoading. Restore resolves a session token into
// an Identity, SignOut tears it down. Consumers Subscribe to transitions
// instead of re-reading the state.
package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

type Status int

const (
	StatusLoading Status = iota
	StatusAuthenticated
	StatusAnonymous
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

var (
	ErrNoSession      = errors.New("no session")
	ErrSessionRevoked = errors.New("session revoked")
)

type Identity struct {
	Key   uuid.UUID
	Email string
}

type State struct {
	Status   Status
	Identity *Identity
	Err      error
}

func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil
}

// SessionRestorer turns a session token into an identity.
type SessionRestorer interface {
	RestoreSession(ctx context.Context, token string) (*Identity, error)
	RevokeSession(ctx context.Context, token string) error
}

type Context struct {
	restorer SessionRestorer

	mu     sync.Mutex
	state  State
	token  string
	nextID int
	subs   map[int]func(State)
}

func NewContext(r SessionRestorer) *Context {
	return &Context{
		restorer: r,
		state:    State{Status: StatusLoading},
		subs:     make(map[int]func(State)),
	}
}

// Authenticated builds a context that is already signed in, for callers
// that resolved the identity elsewhere.
func Authenticated(id Identity) *Context {
	c := NewContext(nil)
	c.state = State{Status: StatusAuthenticated, Identity: &id}
	return c
}

func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe calls fn with the current state and then with every transition
// until the returned cancel func is called.
func (c *Context) Subscribe(fn func(State)) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	current := c.state
	c.mu.Unlock()

	fn(current)

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Restore resolves token into an identity. An empty token moves to
// StatusAnonymous. If ctx expires before the restorer answers the state
// stays StatusLoading.
func (c *Context) Restore(ctx context.Context, token string) State {
	if token == "" || c.restorer == nil {
		return c.transition(State{Status: StatusAnonymous, Err: ErrNoSession}, "")
	}

	id, err := c.restorer.RestoreSession(ctx, token)
	switch {
	case err == nil:
		return c.transition(State{Status: StatusAuthenticated, Identity: id}, token)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return c.State()
	case errors.Is(err, ErrNoSession) || errors.Is(err, ErrSessionRevoked):
		return c.transition(State{Status: StatusAnonymous, Err: err}, "")
	default:
		return c.transition(State{Status: StatusFailed, Err: err}, "")
	}
}

// SignOut revokes the restored session, if any, and moves to
// StatusAnonymous. The transition happens even when revocation fails.
func (c *Context) SignOut(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	var err error
	if token != "" && c.restorer != nil {
		err = c.restorer.RevokeSession(ctx, token)
	}
	c.transition(State{Status: StatusAnonymous, Err: ErrNoSession}, "")
	return err
}

func (c *Context) transition(next State, token string) State {
	c.mu.Lock()
	c.state = next
	c.token = token
	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}
