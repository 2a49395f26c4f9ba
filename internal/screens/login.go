package screens

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/ahinestrog/gamingboost/internal/api"
)

const MinPasswordLen = 6

// CanSubmit is the enablement rule of the login button. Password length is
// counted in code points.
func CanSubmit(email, password string) bool {
	return strings.TrimSpace(email) != "" && utf8.RuneCountInString(password) >= MinPasswordLen
}

type Login struct {
	screen[*api.User]
}

func NewLogin(env *Env) *Login {
	return &Login{screen[*api.User]{env: env}}
}

// Enter pings the API. The result is only logged.
func (l *Login) Enter(ctx context.Context) {
	res, err := l.env.API.Ping(ctx)
	if err != nil {
		l.env.Log.Warn().Err(err).Msg("api ping failed")
		return
	}
	l.env.Log.Info().Interface("ping", res).Msg("api reachable")
}

// Submit logs in, stores the token and goes home.
func (l *Login) Submit(ctx context.Context, email, password string) State[*api.User] {
	if !CanSubmit(email, password) {
		return l.set(failed[*api.User]("Ingresa tu email y una contraseña de al menos 6 caracteres"))
	}
	if !l.begin() {
		return l.State()
	}
	defer l.end()
	l.set(loading[*api.User]())

	res, err := l.env.API.Login(ctx, api.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		l.env.Log.Warn().Err(err).Msg("login failed")
		return l.set(failed[*api.User](describe(err, func(code int) string {
			if code == http.StatusUnauthorized || code == http.StatusUnprocessableEntity {
				return "Credenciales inválidas"
			}
			return withCode("Error: %d")(code)
		})))
	}
	if strings.TrimSpace(res.Token) == "" {
		return l.set(failed[*api.User]("Error: respuesta sin token"))
	}
	if err := l.env.Store.Save(ctx, res.Token); err != nil {
		l.env.Log.Error().Err(err).Msg("session save failed")
		return l.set(failed[*api.User]("No se pudo guardar la sesión"))
	}
	l.env.Log.Info().Int64("user_id", res.User.ID).Msg("logged in")

	st := l.set(ready(&res.User))
	l.navigate(RouteHome)
	return st
}
