package auth

import (
	"strings"
	"sync"

	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"go.uber.org/zap"
)

const (
	AuthGroup = "/auth"
	AppGroup  = "/app"

	LoginRoute = AuthGroup + "/login"
	HomeRoute  = AppGroup + "/inventory"
)

type Access int

const (
	Public Access = iota
	// PublicOnly routes are for signed-out users: login, register, reset.
	PublicOnly
	Protected
)

func AccessOf(path string) Access {
	switch {
	case inGroup(path, AuthGroup):
		return PublicOnly
	case inGroup(path, AppGroup):
		return Protected
	}
	return Public
}

func inGroup(path, group string) bool {
	return path == group || strings.HasPrefix(path, group+"/")
}

// Redirect returns the route a request for path must be sent to instead,
// or "" when it may proceed.
func Redirect(path string, authenticated bool) string {
	switch AccessOf(path) {
	case Protected:
		if !authenticated {
			return LoginRoute
		}
	case PublicOnly:
		if authenticated {
			return HomeRoute
		}
	}
	return ""
}

// Navigator tracks the route the UI is on and moves it to the login route
// when the session signs out under a protected route.
type Navigator struct {
	mu          sync.Mutex
	current     string
	session     *Session
	unsubscribe func()
	onRedirect  func(route string)
	logger      logger.ZapLogger
}

// NewNavigator starts at the login route. onRedirect, if set, is called
// after every forced redirect.
func NewNavigator(session *Session, onRedirect func(route string), log logger.ZapLogger) *Navigator {
	n := &Navigator{
		current:    LoginRoute,
		session:    session,
		onRedirect: onRedirect,
		logger:     log,
	}
	n.unsubscribe = session.Subscribe(n.onSessionChange)
	return n
}

// Navigate moves to path, or to where the guard sends it, and returns the
// route actually reached.
func (n *Navigator) Navigate(path string) string {
	target := path
	if r := Redirect(path, n.session.IsAuthenticated()); r != "" {
		target = r
	}
	n.mu.Lock()
	n.current = target
	n.mu.Unlock()
	return target
}

func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Navigator) Close() {
	n.unsubscribe()
}

func (n *Navigator) onSessionChange(prev, next State) {
	if !prev.IsAuthenticated() || next.IsAuthenticated() {
		return
	}

	n.mu.Lock()
	from := n.current
	if AccessOf(from) != Protected {
		n.mu.Unlock()
		return
	}
	n.current = LoginRoute
	n.mu.Unlock()

	n.logger.Info("session ended on protected route, redirecting", zap.String("from", from), zap.String("to", LoginRoute))
	if n.onRedirect != nil {
		n.onRedirect(LoginRoute)
	}
}
