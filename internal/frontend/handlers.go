package frontend

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ahinestrog/gamingboost/internal/api"
	"github.com/ahinestrog/gamingboost/internal/checkout"
	"github.com/ahinestrog/gamingboost/internal/deeplink"
	"github.com/ahinestrog/gamingboost/internal/screens"
)

// render ejecuta el layout con el bloque "content" de la página.
func (s *Server) render(w http.ResponseWriter, r *http.Request, fx *effects, page string, data map[string]any) {
	data["Notices"] = append(readFlash(w, r), fx.notices...)
	data["Providers"] = api.Providers
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpls[page].ExecuteTemplate(w, "layout.html", data); err != nil {
		s.log.Error().Err(err).Str("page", page).Msg("template execute error")
		http.Error(w, "error renderizando "+page, http.StatusInternalServerError)
	}
}

// redirect sends the browser to target, carrying the request's notices.
func redirect(w http.ResponseWriter, r *http.Request, fx *effects, target string) {
	writeFlash(w, fx.notices)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// redirected sends the browser where a controller navigated, if it did.
func redirected(w http.ResponseWriter, r *http.Request, fx *effects) bool {
	if fx.route == "" {
		return false
	}
	redirect(w, r, fx, routePath(fx.route))
	return true
}

func stateData[T any](st screens.State[T]) map[string]any {
	return map[string]any{
		"Phase":   st.Phase.String(),
		"Message": st.Message,
		"Data":    st.Data,
	}
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// GET /login
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	fx, env := s.scope()
	screens.NewLogin(env).Enter(r.Context())
	s.render(w, r, fx, "login.html", map[string]any{"Phase": screens.PhaseIdle.String(), "Email": ""})
}

// POST /login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulario inválido", http.StatusBadRequest)
		return
	}
	fx, env := s.scope()
	email := r.PostForm.Get("email")
	st := screens.NewLogin(env).Submit(r.Context(), email, r.PostForm.Get("password"))
	if redirected(w, r, fx) {
		return
	}
	data := stateData(st)
	data["Email"] = email
	s.render(w, r, fx, "login.html", data)
}

// GET /
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	fx, env := s.scope()
	st := screens.NewHome(env).Enter(r.Context())
	if redirected(w, r, fx) {
		return
	}
	s.render(w, r, fx, "home.html", stateData(st))
}

// POST /logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	fx, env := s.scope()
	screens.NewHome(env).Logout(r.Context())
	if !redirected(w, r, fx) {
		redirect(w, r, fx, "/login")
	}
}

// GET /boosts
func (s *Server) handleBoosts(w http.ResponseWriter, r *http.Request) {
	fx, env := s.scope()
	st := screens.NewBoosts(env, checkout.BrowserOpener{}).Enter(r.Context())
	if redirected(w, r, fx) {
		return
	}
	data := stateData(st)
	data["MinQty"] = checkout.MinQty
	data["MaxQty"] = checkout.MaxQty
	data["DefaultProvider"] = screens.DefaultProvider
	s.render(w, r, fx, "boosts.html", data)
}

// purchaseForm applies the qty/provider posted with a boost card.
func purchaseForm(r *http.Request, b *screens.Boosts, id int64) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	if q := r.PostForm.Get("qty"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return err
		}
		b.SetQty(id, n)
	}
	if p := r.PostForm.Get("provider"); p != "" {
		return b.SetProvider(id, api.Provider(p))
	}
	return nil
}

// POST /boosts/{id}/checkout
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "boost inválido", http.StatusBadRequest)
		return
	}
	// la "pasarela" en web es un redirect al checkout_url
	opener := &checkout.RecordingOpener{}
	fx, env := s.scope()
	b := screens.NewBoosts(env, opener)
	if err := purchaseForm(r, b, id); err != nil {
		http.Error(w, "formulario inválido: "+err.Error(), http.StatusBadRequest)
		return
	}
	res := b.Checkout(r.Context(), id)
	if redirected(w, r, fx) {
		return
	}
	if res.OK() {
		// "Abriendo pasarela…" no aplica: el navegador se va a la pasarela
		http.Redirect(w, r, opener.URL(), http.StatusSeeOther)
		return
	}
	redirect(w, r, fx, "/boosts")
}

// POST /boosts/{id}/buy
func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "boost inválido", http.StatusBadRequest)
		return
	}
	fx, env := s.scope()
	b := screens.NewBoosts(env, checkout.BrowserOpener{})
	if err := purchaseForm(r, b, id); err != nil {
		http.Error(w, "formulario inválido: "+err.Error(), http.StatusBadRequest)
		return
	}
	err := b.Buy(r.Context(), id)
	if redirected(w, r, fx) {
		return
	}
	if err != nil {
		redirect(w, r, fx, "/boosts")
		return
	}
	redirect(w, r, fx, "/my-boosts")
}

// GET /my-boosts
func (s *Server) handleMyBoosts(w http.ResponseWriter, r *http.Request) {
	fx, env := s.scope()
	st := screens.NewMyBoosts(env).Enter(r.Context())
	if redirected(w, r, fx) {
		return
	}
	s.render(w, r, fx, "my_boosts.html", stateData(st))
}

// GET /orders
func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	fx, env := s.scope()
	st := screens.NewOrders(env, s.links).Enter(r.Context())
	if redirected(w, r, fx) {
		return
	}
	s.render(w, r, fx, "orders.html", stateData(st))
}

// GET /orders/{id}
func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	fx, env := s.scope()
	st := screens.NewOrderDetail(env).Enter(r.Context(), id)
	if redirected(w, r, fx) {
		return
	}
	s.render(w, r, fx, "order.html", stateData(st))
}

// GET /payment-result?order_id=&status=
func (s *Server) handlePaymentResult(w http.ResponseWriter, r *http.Request) {
	res, err := deeplink.FromURL(r.URL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fx, env := s.scope()
	o := screens.NewOrders(env, s.links)
	if !o.HandlePaymentResult(r.Context(), res) {
		redirect(w, r, fx, "/orders")
		return
	}
	if redirected(w, r, fx) {
		return
	}
	s.render(w, r, fx, "orders.html", stateData(o.State()))
}
