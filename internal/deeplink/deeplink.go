// Package deeplink understands the redirect a payment provider sends back to
// the app once checkout ends.
package deeplink

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ahinestrog/gamingboost/internal/api"
)

// Esperamos algo como gamingboost://payment-result?order_id=3&status=paid
const (
	Scheme = "gamingboost"
	Host   = "payment-result"
)

// CallbackPath is the HTTP form of the same link, served by the frontend.
const CallbackPath = "/" + Host

var ErrNotPaymentResult = errors.New("not a payment-result link")

// PaymentResult carries the two query parameters of the link. Status is a
// hint for the notice only; the order list must be re-fetched.
type PaymentResult struct {
	OrderID string
	Status  string
}

// Parse accepts the custom scheme link and its HTTP callback equivalent.
func Parse(raw string) (PaymentResult, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return PaymentResult{}, fmt.Errorf("parse link: %w", err)
	}
	return FromURL(u)
}

// FromURL extracts the result from an already parsed link.
func FromURL(u *url.URL) (PaymentResult, error) {
	switch strings.ToLower(u.Scheme) {
	case Scheme:
		if !strings.EqualFold(u.Host, Host) {
			return PaymentResult{}, ErrNotPaymentResult
		}
	case "http", "https", "":
		if strings.TrimRight(u.Path, "/") != CallbackPath {
			return PaymentResult{}, ErrNotPaymentResult
		}
	default:
		return PaymentResult{}, ErrNotPaymentResult
	}
	q := u.Query()
	return PaymentResult{OrderID: q.Get("order_id"), Status: q.Get("status")}, nil
}

// Notice is the message shown when the link arrives.
func (r PaymentResult) Notice() string {
	switch api.OrderStatus(r.Status) {
	case api.StatusPaid:
		return fmt.Sprintf("Pedido #%s pagado", r.OrderID)
	case api.StatusCancelled:
		return fmt.Sprintf("Pedido #%s cancelado", r.OrderID)
	case api.StatusFailed:
		return fmt.Sprintf("Pedido #%s fallido", r.OrderID)
	case api.StatusPendingPayment:
		return fmt.Sprintf("Pedido #%s pendiente", r.OrderID)
	default:
		return fmt.Sprintf("Pedido #%s: %s", r.OrderID, r.Status)
	}
}

func (r PaymentResult) key() string { return r.OrderID + "|" + r.Status }

// DedupWindow is how long a handled link keeps its repeats away. It covers a
// double delivery of the same redirect (refresh, launch followed by resume),
// not a later return with the same status.
const DedupWindow = 2 * time.Second

// Filter remembers links that were handled recently.
type Filter struct {
	seen *expirable.LRU[string, struct{}]
}

// NewFilter remembers up to size links for window each.
func NewFilter(size int, window time.Duration) *Filter {
	if size <= 0 {
		size = 64
	}
	if window <= 0 {
		window = DedupWindow
	}
	return &Filter{seen: expirable.NewLRU[string, struct{}](size, nil, window)}
}

// Seen reports whether r was marked within the window.
func (f *Filter) Seen(r PaymentResult) bool {
	return f.seen.Contains(r.key())
}

// Mark records r as handled. Call it only once the reload went through, so a
// link that arrived without a session still works after login.
func (f *Filter) Mark(r PaymentResult) {
	f.seen.Add(r.key(), struct{}{})
}
