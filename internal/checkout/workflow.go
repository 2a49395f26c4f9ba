// Package checkout runs the two dependent calls that turn a purchase into a
// provider checkout page: create the order, then request its checkout URL.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ahinestrog/gamingboost/internal/api"
)

// Cantidad permitida por línea.
const (
	MinQty = 1
	MaxQty = 99
)

var (
	ErrInvalidQty      = fmt.Errorf("qty must be between %d and %d", MinQty, MaxQty)
	ErrInvalidProvider = errors.New("unknown payment provider")
	ErrNoCheckoutURL   = errors.New("server returned an empty checkout url")
)

// ClampQty keeps a UI counter inside [MinQty, MaxQty].
func ClampQty(n int) int {
	if n < MinQty {
		return MinQty
	}
	if n > MaxQty {
		return MaxQty
	}
	return n
}

// OrderAPI is the slice of the API client the workflow needs.
type OrderAPI interface {
	CreateOrder(ctx context.Context, token string, req api.CreateOrderRequest) (*api.CreateOrderResponse, error)
	PayOrder(ctx context.Context, token string, orderID int64) (*api.PayOrderResponse, error)
}

// Opener shows the checkout URL to the user. The workflow passes the URL through untouched.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Purchase is one boost line bought with one provider.
type Purchase struct {
	BoostID  int64
	Qty      int
	Provider api.Provider
}

// Stage tells where the workflow stopped.
type Stage int

const (
	StageCreateFailed Stage = iota + 1
	StagePayFailed
	StageOpenFailed
	StageOpened
)

func (s Stage) String() string {
	switch s {
	case StageCreateFailed:
		return "create_failed"
	case StagePayFailed:
		return "pay_failed"
	case StageOpenFailed:
		return "open_failed"
	case StageOpened:
		return "opened"
	default:
		return "unknown"
	}
}

// Result is the single outcome of Run. OrderID is set once the order exists
// server-side; CheckoutURL once PayOrder succeeded.
type Result struct {
	Stage       Stage
	OrderID     int64
	CheckoutURL string
	Err         error
}

// OK reports whether the checkout page was handed to the opener.
func (r Result) OK() bool { return r.Stage == StageOpened }

type Workflow struct {
	api    OrderAPI
	opener Opener
	log    zerolog.Logger
}

func New(a OrderAPI, opener Opener, log zerolog.Logger) *Workflow {
	return &Workflow{api: a, opener: opener, log: log}
}

// Run creates the order, requests its checkout URL and opens it. Each step
// only starts when the previous one succeeded; nothing is retried. A
// PayOrder failure leaves the order pending_payment on the server.
func (w *Workflow) Run(ctx context.Context, token string, p Purchase) Result {
	if p.Qty < MinQty || p.Qty > MaxQty {
		return Result{Stage: StageCreateFailed, Err: ErrInvalidQty}
	}
	if !p.Provider.Valid() {
		return Result{Stage: StageCreateFailed, Err: fmt.Errorf("%w: %q", ErrInvalidProvider, p.Provider)}
	}

	// 1) crear pedido
	created, err := w.api.CreateOrder(ctx, token, api.CreateOrderRequest{
		Provider: p.Provider,
		Items:    []api.CreateOrderItem{{BoostID: p.BoostID, Qty: p.Qty}},
	})
	if err != nil {
		w.log.Error().Err(err).Int64("boost_id", p.BoostID).Msg("create order failed")
		return Result{Stage: StageCreateFailed, Err: err}
	}

	// 2) pedir checkout_url
	pay, err := w.api.PayOrder(ctx, token, created.OrderID)
	if err == nil && pay.CheckoutURL == "" {
		err = ErrNoCheckoutURL
	}
	if err != nil {
		w.log.Error().Err(err).Int64("order_id", created.OrderID).Msg("pay order failed; order left pending_payment")
		return Result{Stage: StagePayFailed, OrderID: created.OrderID, Err: err}
	}
	w.log.Debug().Int64("order_id", created.OrderID).Str("checkout_url", pay.CheckoutURL).Msg("checkout ready")

	// 3) abrir pasarela
	res := Result{Stage: StageOpened, OrderID: created.OrderID, CheckoutURL: pay.CheckoutURL}
	if err := w.opener.Open(ctx, pay.CheckoutURL); err != nil {
		w.log.Error().Err(err).Int64("order_id", created.OrderID).Msg("open checkout failed")
		res.Stage = StageOpenFailed
		res.Err = err
	}
	return res
}
