package screens

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ahinestrog/gamingboost/internal/api"
	"github.com/ahinestrog/gamingboost/internal/checkout"
	"github.com/ahinestrog/gamingboost/internal/session"
)

type Route string

const (
	RouteLogin    Route = "login"
	RouteHome     Route = "home"
	RouteBoosts   Route = "boosts"
	RouteMyBoosts Route = "my_boosts"
	RouteOrders   Route = "orders"
)

type Navigator interface {
	Navigate(r Route)
}

// Notifier shows a transient message (snackbar, flash, stderr line).
type Notifier interface {
	Notify(msg string)
}

// API is the client surface the screens call.
type API interface {
	checkout.OrderAPI
	Ping(ctx context.Context) (map[string]any, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	Me(ctx context.Context, token string) (*api.User, error)
	Logout(ctx context.Context, token string) (map[string]any, error)
	ListBoosts(ctx context.Context, token string) ([]api.Boost, error)
	BuyBoost(ctx context.Context, token string, boostID int64, qty int) (map[string]any, error)
	MyBoosts(ctx context.Context, token string) ([]api.Boost, error)
	MyOrders(ctx context.Context, token string) ([]api.Order, error)
	OrderDetail(ctx context.Context, token string, orderID int64) (*api.Order, error)
}

const msgSessionExpired = "Sesión expirada"

// Env is shared by all controllers of one user session. Use it by pointer.
type Env struct {
	Store    session.Store
	API      API
	Nav      Navigator
	Notifier Notifier
	Log      zerolog.Logger
	// Currency is the ISO code used to render order totals.
	Currency string
}

// WithEffects returns a copy of e that navigates and notifies through nav and
// n. The store and API client stay shared.
func (e *Env) WithEffects(nav Navigator, n Notifier) *Env {
	cp := *e
	cp.Nav = nav
	cp.Notifier = n
	return &cp
}

// token reads the session token. A read error counts as no session.
func (e *Env) token(ctx context.Context) string {
	tok, err := e.Store.Get(ctx)
	if err != nil {
		e.Log.Warn().Err(err).Msg("session read failed")
		return ""
	}
	return tok
}

// expire clears the session on every 401. The redirect happens only when a
// token was still stored, so a rejected token sends the user to login once
// even if several screens were using it.
func (e *Env) expire(ctx context.Context) {
	held := e.token(ctx) != ""
	e.Log.Info().Bool("held", held).Msg("session rejected by server; clearing token")
	if err := e.Store.Clear(ctx); err != nil {
		e.Log.Error().Err(err).Msg("session clear failed")
	}
	if held {
		e.Nav.Navigate(RouteLogin)
	}
}

// describe turns a call error into the text shown on screen. onHTTP builds
// the screen specific message for non-2xx codes.
func describe(err error, onHTTP func(code int) string) string {
	var te *api.TransportError
	if errors.As(err, &te) {
		return "Error de conexión: " + te.Err.Error()
	}
	if code, ok := api.StatusCode(err); ok {
		return onHTTP(code)
	}
	return "Error: " + err.Error()
}

func withCode(format string) func(int) string {
	return func(code int) string { return fmt.Sprintf(format, code) }
}

// requireToken returns the token or redirects to login. With notice set the
// user also sees "Sesión expirada".
func (s *screen[T]) requireToken(ctx context.Context, notice bool) (string, bool) {
	tok := s.env.token(ctx)
	if tok != "" {
		return tok, true
	}
	if notice {
		s.notify(msgSessionExpired)
	}
	s.navigate(RouteLogin)
	return "", false
}

// unauthorized handles a 401 and reports whether err was one.
func (s *screen[T]) unauthorized(ctx context.Context, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	if !s.closed.Load() {
		s.env.expire(ctx)
	}
	return true
}
