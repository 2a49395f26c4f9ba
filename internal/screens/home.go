package screens

import (
	"context"
	"net/http"

	"github.com/ahinestrog/gamingboost/internal/api"
)

// Home shows the profile of the logged user.
type Home struct {
	screen[*api.User]
}

func NewHome(env *Env) *Home {
	return &Home{screen[*api.User]{env: env}}
}

func (h *Home) Enter(ctx context.Context) State[*api.User] {
	tok, ok := h.requireToken(ctx, false)
	if !ok {
		return h.State()
	}
	if !h.begin() {
		return h.State()
	}
	defer h.end()
	h.set(loading[*api.User]())

	u, err := h.env.API.Me(ctx, tok)
	if err != nil {
		h.unauthorized(ctx, err)
		return h.set(failed[*api.User](describe(err, func(code int) string {
			if code == http.StatusUnauthorized || code == http.StatusForbidden {
				return withCode("No autorizado (%d)")(code)
			}
			return withCode("Error al cargar perfil (%d)")(code)
		})))
	}
	return h.set(ready(u))
}

// Logout tells the server (best effort) and always clears the local session.
func (h *Home) Logout(ctx context.Context) {
	if tok := h.env.token(ctx); tok != "" {
		if _, err := h.env.API.Logout(ctx, tok); err != nil {
			h.env.Log.Warn().Err(err).Msg("server logout failed; clearing session anyway")
		}
	}
	if err := h.env.Store.Clear(ctx); err != nil {
		h.env.Log.Error().Err(err).Msg("session clear failed")
	}
	h.set(State[*api.User]{})
	h.navigate(RouteLogin)
}
