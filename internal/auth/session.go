package auth

import (
	"sync"

	"github.com/fekuna/omnipos-stock-app/internal/model"
)

// State is the Auth Session. The session is authenticated exactly when
// Token is non-empty; a user without a token is not signed in.
type State struct {
	User         *model.User `json:"user"`
	Token        string      `json:"-"`
	RefreshToken string      `json:"-"`
}

func (s State) IsAuthenticated() bool {
	return s.Token != ""
}

// Action is one of SetCredentials, ClearCredentials, UpdateUser.
type Action interface {
	isSessionAction()
}

type SetCredentials struct{ Credentials model.Credentials }
type ClearCredentials struct{}
type UpdateUser struct{ Patch model.UserPatch }

func (SetCredentials) isSessionAction()   {}
func (ClearCredentials) isSessionAction() {}
func (UpdateUser) isSessionAction()       {}

func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetCredentials:
		next := State{Token: a.Credentials.Token, RefreshToken: a.Credentials.RefreshToken}
		if a.Credentials.User != nil {
			u := *a.Credentials.User
			next.User = &u
		}
		return next
	case ClearCredentials:
		return State{}
	case UpdateUser:
		if s.User == nil {
			return s
		}
		u := a.Patch.Apply(*s.User)
		s.User = &u
		return s
	}
	return s
}

type Session struct {
	mu    sync.RWMutex
	state State

	subMu  sync.Mutex
	subs   map[int]func(prev, next State)
	nextID int
}

func NewSession() *Session {
	return &Session{subs: make(map[int]func(prev, next State))}
}

func (s *Session) Dispatch(a Action) State {
	s.mu.Lock()
	prev := s.state
	s.state = Reduce(prev, a)
	next := s.state
	s.mu.Unlock()

	s.subMu.Lock()
	subs := make([]func(prev, next State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(prev, next)
	}
	return next
}

func (s *Session) SetCredentials(c model.Credentials) State {
	return s.Dispatch(SetCredentials{Credentials: c})
}

func (s *Session) ClearCredentials() State {
	return s.Dispatch(ClearCredentials{})
}

// UpdateUser merges p into the current user. Without a user it does nothing.
func (s *Session) UpdateUser(p model.UserPatch) State {
	return s.Dispatch(UpdateUser{Patch: p})
}

// Subscribe runs fn after every dispatch with the states around it.
func (s *Session) Subscribe(fn func(prev, next State)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// AccessToken makes the session usable as the API client's token source.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Session) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// CompanyID is the signed-in user's company, empty when there is none.
func (s *Session) CompanyID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return ""
	}
	return s.state.User.CompanyID
}
