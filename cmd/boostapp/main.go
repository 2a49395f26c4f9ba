package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ahinestrog/gamingboost/internal/api"
	"github.com/ahinestrog/gamingboost/internal/config"
	"github.com/ahinestrog/gamingboost/internal/frontend"
	"github.com/ahinestrog/gamingboost/internal/logging"
	"github.com/ahinestrog/gamingboost/internal/metrics"
	"github.com/ahinestrog/gamingboost/internal/screens"
	"github.com/ahinestrog/gamingboost/internal/session"
)

const usage = `usage: boostapp [-env FILE] [-ephemeral] <command> [flags]

commands:
  serve                         run the web frontend
  ping                          check the API
  login -email E -password P    sign in and keep the token
  logout                        sign out
  me                            show the profile
  boosts                        list the catalog
  my-boosts                     list purchased boosts
  buy -boost ID [-qty N] [-provider stripe|mercadopago|paypal]
                                create an order and open its checkout
  buy-direct -boost ID [-qty N] purchase without a payment provider
  orders                        list orders
  order -id ID                  show one order
  link URL                      handle a payment-result link
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("boostapp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	envFile := fs.String("env", ".env", "dotenv file, ignored when missing")
	ephemeral := fs.Bool("ephemeral", false, "keep the session in memory only")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *ephemeral {
		cfg.SessionBackend = session.BackendMemory
	}
	log := logging.Setup(stderr, cfg.LogLevel)
	cfg.Log(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log, stdout)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return 1
	}
	defer a.close()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if cmd == "serve" {
		srv, err := frontend.New(frontend.Options{
			Env:            a.env,
			Metrics:        a.metrics,
			Origins:        cfg.Origins(),
			DeepLinkCache:  cfg.DeepLinkCache,
			DeepLinkWindow: cfg.DeepLinkWindow,
			Log:            log,
		})
		if err != nil {
			log.Error().Err(err).Msg("frontend init failed")
			return 1
		}
		if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
			log.Error().Err(err).Msg("http server failed")
			return 1
		}
		return 0
	}

	if err := a.dispatch(ctx, cmd, rest); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, usage)
			return 2
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

type app struct {
	env     *screens.Env
	metrics *metrics.Metrics
	out     io.Writer
	close   func()
}

func newApp(ctx context.Context, cfg config.Config, log zerolog.Logger, out io.Writer) (*app, error) {
	store, closeStore, err := session.Open(ctx, cfg.Session())
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	m := metrics.New()
	client := api.New(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Logger:  log,
		Metrics: m,
	})
	cli := &cliEffects{out: out}
	return &app{
		env: &screens.Env{
			Store:    store,
			API:      client,
			Nav:      cli,
			Notifier: cli,
			Log:      log,
			Currency: cfg.Currency,
		},
		metrics: m,
		out:     out,
		close: func() {
			if err := closeStore(); err != nil {
				log.Warn().Err(err).Msg("session store close failed")
			}
		},
	}, nil
}
