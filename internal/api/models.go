package api

import "github.com/shopspring/decimal"

// Estados de pedido tal como los devuelve el backend.
type OrderStatus string

const (
	StatusPendingPayment OrderStatus = "pending_payment"
	StatusPaid           OrderStatus = "paid"
	StatusCancelled      OrderStatus = "cancelled"
	StatusFailed         OrderStatus = "failed"
)

// Valid reports whether s is one of the four statuses the server emits.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusCancelled, StatusFailed:
		return true
	default:
		return false
	}
}

// Label is the short text shown next to an order.
func (s OrderStatus) Label() string {
	switch s {
	case StatusPaid:
		return "Pagado"
	case StatusPendingPayment:
		return "Pendiente"
	case StatusCancelled:
		return "Cancelado"
	case StatusFailed:
		return "Fallido"
	default:
		return string(s)
	}
}

// Provider identifies the checkout provider chosen for an order.
type Provider string

const (
	ProviderStripe      Provider = "stripe"
	ProviderMercadoPago Provider = "mercadopago"
	ProviderPayPal      Provider = "paypal"
)

// Providers lists the supported providers in display order.
var Providers = []Provider{ProviderStripe, ProviderMercadoPago, ProviderPayPal}

func (p Provider) Valid() bool {
	switch p {
	case ProviderStripe, ProviderMercadoPago, ProviderPayPal:
		return true
	default:
		return false
	}
}

// ---------- auth ----------

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ---------- boosts ----------

// Boost is a catalog item. QtyTotal is only populated by /api/my-boosts.
type Boost struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	QtyTotal    *int            `json:"qty_total,omitempty"`
}

// Owned returns the purchased quantity, zero when the server omitted it.
func (b Boost) Owned() int {
	if b.QtyTotal == nil {
		return 0
	}
	return *b.QtyTotal
}

type BuyRequest struct {
	Qty int `json:"qty"`
}

// ---------- orders ----------

type CreateOrderItem struct {
	BoostID int64 `json:"boost_id"`
	Qty     int   `json:"qty"`
}

type CreateOrderRequest struct {
	Provider Provider          `json:"provider"`
	Items    []CreateOrderItem `json:"items"`
}

type CreateOrderResponse struct {
	OrderID     int64       `json:"order_id"`
	Status      OrderStatus `json:"status"`
	Provider    Provider    `json:"provider"`
	TotalAmount int64       `json:"total_amount"`
}

type PayOrderResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// OrderItem amounts are minor currency units (cents).
type OrderItem struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	BoostID   int64 `json:"boost_id"`
	Qty       int   `json:"qty"`
	UnitPrice int64 `json:"unit_price"`
}

// Order is owned by the server; the client only re-fetches it.
type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	Status      OrderStatus `json:"status"`
	Provider    Provider    `json:"provider"`
	TotalAmount int64       `json:"total_amount"`
	Currency    string      `json:"currency"`
	ProviderRef *string     `json:"provider_ref"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
	Items       []OrderItem `json:"items"`
}
