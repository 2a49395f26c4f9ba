package screens

import (
	"context"

	"github.com/ahinestrog/gamingboost/internal/api"
)

// MyBoosts lists the boosts the user owns.
type MyBoosts struct {
	screen[[]api.Boost]
}

func NewMyBoosts(env *Env) *MyBoosts {
	return &MyBoosts{screen[[]api.Boost]{env: env}}
}

func (m *MyBoosts) Enter(ctx context.Context) State[[]api.Boost] {
	tok, ok := m.requireToken(ctx, true)
	if !ok {
		return m.State()
	}
	if !m.begin() {
		return m.State()
	}
	defer m.end()
	m.set(loading[[]api.Boost]())

	list, err := m.env.API.MyBoosts(ctx, tok)
	if err != nil {
		m.unauthorized(ctx, err)
		return m.set(failed[[]api.Boost](describe(err, withCode("Error (%d)"))))
	}
	return m.set(readyList(list))
}
