package screens

import (
	"context"
	"net/http"

	"github.com/ahinestrog/gamingboost/internal/api"
	"github.com/ahinestrog/gamingboost/internal/deeplink"
	"github.com/ahinestrog/gamingboost/internal/money"
)

// OrderRow is one order as the user sees it. Number is the display number,
// zero on the detail screen.
type OrderRow struct {
	Number      int
	ID          int64
	Status      api.OrderStatus
	StatusLabel string
	Provider    api.Provider
	Total       string
	CreatedAt   string
	Items       []api.OrderItem
}

func rowFor(o api.Order, number int, fallbackCurrency string) OrderRow {
	cur := o.Currency
	if cur == "" {
		cur = fallbackCurrency
	}
	return OrderRow{
		Number:      number,
		ID:          o.ID,
		Status:      o.Status,
		StatusLabel: o.Status.Label(),
		Provider:    o.Provider,
		Total:       money.Format(o.TotalAmount, cur),
		CreatedAt:   o.CreatedAt,
		Items:       o.Items,
	}
}

// NumberOrders keeps the server order (newest first) and numbers each row
// N - index, so the oldest order is #1.
func NumberOrders(orders []api.Order, currency string) []OrderRow {
	rows := make([]OrderRow, len(orders))
	for i, o := range orders {
		rows[i] = rowFor(o, len(orders)-i, currency)
	}
	return rows
}

type Orders struct {
	screen[[]OrderRow]

	links *deeplink.Filter
}

// NewOrders builds the order list. links may be nil to accept every delivery.
func NewOrders(env *Env, links *deeplink.Filter) *Orders {
	return &Orders{screen: screen[[]OrderRow]{env: env}, links: links}
}

func (o *Orders) Enter(ctx context.Context) State[[]OrderRow] { return o.Reload(ctx) }

// Reload fetches the list again.
func (o *Orders) Reload(ctx context.Context) State[[]OrderRow] {
	tok, ok := o.requireToken(ctx, true)
	if !ok {
		return o.State()
	}
	if !o.begin() {
		return o.State()
	}
	defer o.end()
	o.set(loading[[]OrderRow]())

	list, err := o.env.API.MyOrders(ctx, tok)
	if err != nil {
		o.unauthorized(ctx, err)
		return o.set(failed[[]OrderRow](describe(err, withCode("Error al cargar pedidos (%d)"))))
	}
	return o.set(readyList(NumberOrders(list, o.env.Currency)))
}

// HandlePaymentResult reacts to the provider redirect: the list is re-fetched
// from the server and the link status only picks the notice. A repeat of a
// link already handled within the filter window is ignored and reports false.
// The link is recorded only after a successful reload.
func (o *Orders) HandlePaymentResult(ctx context.Context, r deeplink.PaymentResult) bool {
	if o.links != nil && o.links.Seen(r) {
		o.env.Log.Debug().Str("order_id", r.OrderID).Msg("duplicate payment-result dropped")
		return false
	}
	o.env.Log.Info().Str("order_id", r.OrderID).Str("status", r.Status).Msg("payment result received")
	st := o.Reload(ctx)
	o.notify(r.Notice())
	if o.links != nil && (st.Phase == PhaseReady || st.Phase == PhaseEmpty) {
		o.links.Mark(r)
	}
	return true
}

// OrderDetail shows a single order.
type OrderDetail struct {
	screen[OrderRow]
}

func NewOrderDetail(env *Env) *OrderDetail {
	return &OrderDetail{screen[OrderRow]{env: env}}
}

func (d *OrderDetail) Enter(ctx context.Context, orderID int64) State[OrderRow] {
	tok, ok := d.requireToken(ctx, true)
	if !ok {
		return d.State()
	}
	if !d.begin() {
		return d.State()
	}
	defer d.end()
	d.set(loading[OrderRow]())

	ord, err := d.env.API.OrderDetail(ctx, tok, orderID)
	if err != nil {
		d.unauthorized(ctx, err)
		return d.set(failed[OrderRow](describe(err, func(code int) string {
			if code == http.StatusNotFound {
				return "Pedido no encontrado"
			}
			return withCode("Error al cargar pedido (%d)")(code)
		})))
	}
	return d.set(ready(rowFor(*ord, 0, d.env.Currency)))
}
