package screens

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ahinestrog/gamingboost/internal/api"
	"github.com/ahinestrog/gamingboost/internal/checkout"
)

const DefaultProvider = api.ProviderStripe

// Selection is the qty and provider picked on one boost card.
type Selection struct {
	Qty      int
	Provider api.Provider
}

// Boosts is the catalog screen.
type Boosts struct {
	screen[[]api.Boost]

	workflow *checkout.Workflow

	selMu sync.Mutex
	sel   map[int64]Selection
}

func NewBoosts(env *Env, opener checkout.Opener) *Boosts {
	return &Boosts{
		screen:   screen[[]api.Boost]{env: env},
		workflow: checkout.New(env.API, opener, env.Log),
		sel:      make(map[int64]Selection),
	}
}

func (b *Boosts) Enter(ctx context.Context) State[[]api.Boost] {
	tok, ok := b.requireToken(ctx, true)
	if !ok {
		return b.State()
	}
	if !b.begin() {
		return b.State()
	}
	defer b.end()
	b.set(loading[[]api.Boost]())

	list, err := b.env.API.ListBoosts(ctx, tok)
	if err != nil {
		b.unauthorized(ctx, err)
		return b.set(failed[[]api.Boost](describe(err, withCode("Error al cargar productos (%d)"))))
	}
	return b.set(readyList(list))
}

// Selection returns the choice for boostID, defaulting to 1 x stripe.
func (b *Boosts) Selection(boostID int64) Selection {
	b.selMu.Lock()
	defer b.selMu.Unlock()
	if s, ok := b.sel[boostID]; ok {
		return s
	}
	return Selection{Qty: checkout.MinQty, Provider: DefaultProvider}
}

// SetQty stores n clamped to the allowed range.
func (b *Boosts) SetQty(boostID int64, n int) Selection {
	s := b.Selection(boostID)
	s.Qty = checkout.ClampQty(n)
	b.store(boostID, s)
	return s
}

func (b *Boosts) Inc(boostID int64) Selection { return b.SetQty(boostID, b.Selection(boostID).Qty+1) }

func (b *Boosts) Dec(boostID int64) Selection { return b.SetQty(boostID, b.Selection(boostID).Qty-1) }

func (b *Boosts) SetProvider(boostID int64, p api.Provider) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", checkout.ErrInvalidProvider, p)
	}
	s := b.Selection(boostID)
	s.Provider = p
	b.store(boostID, s)
	return nil
}

func (b *Boosts) store(boostID int64, s Selection) {
	b.selMu.Lock()
	b.sel[boostID] = s
	b.selMu.Unlock()
}

// Checkout runs the order workflow for the current selection of boostID and
// notifies the outcome.
func (b *Boosts) Checkout(ctx context.Context, boostID int64) checkout.Result {
	tok, ok := b.requireToken(ctx, true)
	if !ok {
		return checkout.Result{Stage: checkout.StageCreateFailed, Err: errors.New("no session")}
	}
	if !b.begin() {
		return checkout.Result{Stage: checkout.StageCreateFailed, Err: errors.New("checkout already running")}
	}
	defer b.end()

	sel := b.Selection(boostID)
	res := b.workflow.Run(ctx, tok, checkout.Purchase{BoostID: boostID, Qty: sel.Qty, Provider: sel.Provider})
	if res.Err != nil && b.unauthorized(ctx, res.Err) {
		return res
	}
	b.notify(CheckoutNotice(res))
	return res
}

// CheckoutNotice is the message shown for a workflow result.
func CheckoutNotice(res checkout.Result) string {
	switch res.Stage {
	case checkout.StageOpened:
		return "Abriendo pasarela…"
	case checkout.StageCreateFailed:
		return describe(res.Err, withCode("No se pudo crear pedido (%d)"))
	case checkout.StagePayFailed:
		if errors.Is(res.Err, checkout.ErrNoCheckoutURL) {
			return "No se pudo iniciar pago (sin checkout_url)"
		}
		return describe(res.Err, withCode("No se pudo iniciar pago (%d)"))
	case checkout.StageOpenFailed:
		return fmt.Sprintf("No se pudo abrir la pasarela, visita: %s", res.CheckoutURL)
	default:
		return "Error: " + res.Stage.String()
	}
}

// Buy uses the direct purchase endpoint, skipping the payment provider.
func (b *Boosts) Buy(ctx context.Context, boostID int64) error {
	tok, ok := b.requireToken(ctx, true)
	if !ok {
		return errors.New("no session")
	}
	if !b.begin() {
		return errors.New("purchase already running")
	}
	defer b.end()

	qty := b.Selection(boostID).Qty
	if _, err := b.env.API.BuyBoost(ctx, tok, boostID, qty); err != nil {
		if !b.unauthorized(ctx, err) {
			b.notify(describe(err, withCode("No se pudo comprar (%d)")))
		}
		return err
	}
	b.notify(fmt.Sprintf("Compra registrada: %d x boost %d", qty, boostID))
	return nil
}
