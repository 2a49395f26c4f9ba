// Package frontend serves the screens as HTML pages. It also receives the
// payment-result callback the provider redirects to after checkout.
package frontend

import (
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/ahinestrog/gamingboost/internal/api"
	"github.com/ahinestrog/gamingboost/internal/deeplink"
	"github.com/ahinestrog/gamingboost/internal/metrics"
	"github.com/ahinestrog/gamingboost/internal/money"
	"github.com/ahinestrog/gamingboost/internal/screens"
)

//go:embed templates/*.html
var tplFS embed.FS

var pages = []string{"login.html", "home.html", "boosts.html", "my_boosts.html", "orders.html", "order.html"}

const ShutdownGrace = 10 * time.Second

// Options configures a Server.
type Options struct {
	Env            *screens.Env
	Metrics        *metrics.Metrics
	Origins        []string
	DeepLinkCache  int
	DeepLinkWindow time.Duration // zero means deeplink.DedupWindow
	Log            zerolog.Logger
}

type Server struct {
	env     *screens.Env
	metrics *metrics.Metrics
	origins []string
	links   *deeplink.Filter
	log     zerolog.Logger
	tpls    map[string]*template.Template
}

// New builds the server. Each request gets its own copy of opts.Env whose
// navigation and notices end up in that request's response only.
func New(opts Options) (*Server, error) {
	tpls, err := loadTemplates(opts.Env.Currency)
	if err != nil {
		return nil, err
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	s := &Server{
		env:     opts.Env,
		metrics: opts.Metrics,
		origins: opts.Origins,
		links:   deeplink.NewFilter(opts.DeepLinkCache, opts.DeepLinkWindow),
		log:     opts.Log,
		tpls:    tpls,
	}
	return s, nil
}

// Cada página se parsea junto al layout; así cada una tiene su propio bloque "content".
func loadTemplates(currency string) (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"price": func(b api.Boost) string { return money.FormatDecimal(b.Price, currency) },
	}
	out := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		t, err := template.New(p).Funcs(funcs).ParseFS(tplFS, "templates/layout.html", "templates/"+p)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		out[p] = t
	}
	return out, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Get("/", s.handleHome)
	r.Post("/logout", s.handleLogout)
	r.Get("/boosts", s.handleBoosts)
	r.Post("/boosts/{id}/checkout", s.handleCheckout)
	r.Post("/boosts/{id}/buy", s.handleBuy)
	r.Get("/my-boosts", s.handleMyBoosts)
	r.Get("/orders", s.handleOrders)
	r.Get("/orders/{id}", s.handleOrder)
	r.Get(deeplink.CallbackPath, s.handlePaymentResult)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(r)
}

// ListenAndServe blocks until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.log.Warn().Msg("shutting down...")
	shCtx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
	defer cancel()
	return srv.Shutdown(shCtx)
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("req_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}

// effects collects what the controllers of one request asked for. Requests
// are served on one goroutine, so it needs no lock.
type effects struct {
	route   screens.Route
	notices []string
}

func (e *effects) Navigate(r screens.Route) { e.route = r }

func (e *effects) Notify(msg string) { e.notices = append(e.notices, msg) }

// scope starts the effects of one request and the Env its controllers use.
func (s *Server) scope() (*effects, *screens.Env) {
	fx := &effects{}
	return fx, s.env.WithEffects(fx, fx)
}

// Los avisos que sobreviven a un redirect viajan en una cookie del navegador.
const flashCookie = "gb_flash"

func writeFlash(w http.ResponseWriter, msgs []string) {
	if len(msgs) == 0 {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(strings.Join(msgs, "\n"))),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// readFlash returns the notices carried over by a redirect and clears them.
func readFlash(w http.ResponseWriter, r *http.Request) []string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	b, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil || len(b) == 0 {
		return nil
	}
	return strings.Split(string(b), "\n")
}

func routePath(r screens.Route) string {
	switch r {
	case screens.RouteLogin:
		return "/login"
	case screens.RouteBoosts:
		return "/boosts"
	case screens.RouteMyBoosts:
		return "/my-boosts"
	case screens.RouteOrders:
		return "/orders"
	default:
		return "/"
	}
}
