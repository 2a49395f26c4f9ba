package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/ahinestrog/gamingboost/internal/api"
	"github.com/ahinestrog/gamingboost/internal/checkout"
	"github.com/ahinestrog/gamingboost/internal/deeplink"
	"github.com/ahinestrog/gamingboost/internal/money"
	"github.com/ahinestrog/gamingboost/internal/screens"
)

var (
	errUsage     = errors.New("usage")
	errNoSession = errors.New("sin sesión")
)

// cliEffects prints navigation and notices; there is no screen to switch to.
type cliEffects struct {
	out io.Writer
}

func (c *cliEffects) Navigate(r screens.Route) {
	if r == screens.RouteLogin {
		fmt.Fprintln(c.out, "→ inicia sesión con: boostapp login -email ... -password ...")
		return
	}
	fmt.Fprintf(c.out, "→ %s\n", r)
}

func (c *cliEffects) Notify(msg string) { fmt.Fprintln(c.out, msg) }

// failure turns the final screen state into the command error. A screen
// still idle never issued its call because there was no session.
func failure[T any](st screens.State[T]) error {
	switch st.Phase {
	case screens.PhaseError:
		return errors.New(st.Message)
	case screens.PhaseIdle:
		return errNoSession
	}
	return nil
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "ping":
		res, err := a.env.API.Ping(ctx)
		if err != nil {
			return err
		}
		return json.NewEncoder(a.out).Encode(res)
	case "login":
		return a.login(ctx, args)
	case "logout":
		screens.NewHome(a.env).Logout(ctx)
		return nil
	case "me":
		st := screens.NewHome(a.env).Enter(ctx)
		if st.Phase == screens.PhaseReady {
			fmt.Fprintf(a.out, "Nombre: %s\nEmail: %s\n", st.Data.Name, st.Data.Email)
		}
		return failure(st)
	case "boosts":
		return a.boosts(ctx)
	case "my-boosts":
		return a.myBoosts(ctx)
	case "buy":
		return a.buy(ctx, args, false)
	case "buy-direct":
		return a.buy(ctx, args, true)
	case "orders":
		st := screens.NewOrders(a.env, nil).Enter(ctx)
		a.printOrders(st)
		return failure(st)
	case "order":
		return a.order(ctx, args)
	case "link":
		return a.link(ctx, args)
	default:
		return errUsage
	}
}

func subFlags(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := subFlags("login", a.out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (min 6 characters)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	l := screens.NewLogin(a.env)
	l.Enter(ctx)
	st := l.Submit(ctx, *email, *password)
	if st.Phase == screens.PhaseReady {
		fmt.Fprintf(a.out, "Hola, %s\n", st.Data.Name)
	}
	return failure(st)
}

func (a *app) boosts(ctx context.Context) error {
	st := screens.NewBoosts(a.env, checkout.BrowserOpener{}).Enter(ctx)
	switch st.Phase {
	case screens.PhaseEmpty:
		fmt.Fprintln(a.out, "No hay productos disponibles.")
	case screens.PhaseReady:
		for _, b := range st.Data {
			fmt.Fprintf(a.out, "#%d  %-30s %s\n", b.ID, b.Title, money.FormatDecimal(b.Price, a.env.Currency))
		}
	}
	return failure(st)
}

func (a *app) myBoosts(ctx context.Context) error {
	st := screens.NewMyBoosts(a.env).Enter(ctx)
	switch st.Phase {
	case screens.PhaseEmpty:
		fmt.Fprintln(a.out, "Aún no tienes boosts comprados.")
	case screens.PhaseReady:
		for _, b := range st.Data {
			fmt.Fprintf(a.out, "#%d  %-30s Cantidad total: %d\n", b.ID, b.Title, b.Owned())
		}
	}
	return failure(st)
}

func (a *app) buy(ctx context.Context, args []string, direct bool) error {
	fs := subFlags("buy", a.out)
	id := fs.Int64("boost", 0, "boost id")
	qty := fs.Int("qty", checkout.MinQty, "quantity (1-99)")
	provider := fs.String("provider", string(screens.DefaultProvider), "payment provider")
	if err := fs.Parse(args); err != nil || *id <= 0 {
		return errUsage
	}

	b := screens.NewBoosts(a.env, checkout.BrowserOpener{})
	b.SetQty(*id, *qty)
	if direct {
		return b.Buy(ctx, *id)
	}
	if err := b.SetProvider(*id, api.Provider(*provider)); err != nil {
		return err
	}
	res := b.Checkout(ctx, *id)
	if res.CheckoutURL != "" {
		fmt.Fprintf(a.out, "Pedido #%d: %s\n", res.OrderID, res.CheckoutURL)
	}
	if res.Stage == checkout.StageOpenFailed {
		// la URL ya quedó impresa
		return nil
	}
	return res.Err
}

func (a *app) printOrders(st screens.State[[]screens.OrderRow]) {
	switch st.Phase {
	case screens.PhaseEmpty:
		fmt.Fprintln(a.out, "Aún no tienes pedidos.")
	case screens.PhaseReady:
		for _, r := range st.Data {
			fmt.Fprintf(a.out, "Pedido #%d  (ID interno #%d)  %-10s %-12s %s\n", r.Number, r.ID, r.StatusLabel, r.Provider, r.Total)
		}
	}
}

func (a *app) order(ctx context.Context, args []string) error {
	fs := subFlags("order", a.out)
	id := fs.Int64("id", 0, "order id")
	if err := fs.Parse(args); err != nil || *id <= 0 {
		return errUsage
	}
	st := screens.NewOrderDetail(a.env).Enter(ctx, *id)
	if st.Phase == screens.PhaseReady {
		o := st.Data
		fmt.Fprintf(a.out, "Pedido #%d\nEstado: %s\nProveedor: %s\nTotal: %s\nCreado: %s\n", o.ID, o.StatusLabel, o.Provider, o.Total, o.CreatedAt)
		for _, it := range o.Items {
			fmt.Fprintf(a.out, "• Boost %d x%d\n", it.BoostID, it.Qty)
		}
	}
	return failure(st)
}

func (a *app) link(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	res, err := deeplink.Parse(args[0])
	if err != nil {
		return err
	}
	o := screens.NewOrders(a.env, nil)
	o.HandlePaymentResult(ctx, res)
	st := o.State()
	a.printOrders(st)
	return failure(st)
}
