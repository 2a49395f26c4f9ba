package screens

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ahinestrog/gamingboost/internal/api"
	"github.com/ahinestrog/gamingboost/internal/session"
)

// fakeAPI answers every call from its fields and counts the calls per op.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	loginResp *api.LoginResponse
	user      *api.User
	boosts    []api.Boost
	owned     []api.Boost
	orders    []api.Order
	order     *api.Order
	orderID   int64
	payURL    string

	// err is returned by every call whose op is a key.
	err map[string]error

	// onCall runs inside the call, before it returns.
	onCall func(op string)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: map[string]int{}, err: map[string]error{}}
}

func (f *fakeAPI) hit(op string) error {
	f.mu.Lock()
	f.calls[op]++
	err := f.err[op]
	hook := f.onCall
	f.mu.Unlock()
	if hook != nil {
		hook(op)
	}
	return err
}

func (f *fakeAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) Ping(ctx context.Context) (map[string]any, error) {
	if err := f.hit("ping"); err != nil {
		return nil, err
	}
	return map[string]any{"pong": true}, nil
}

func (f *fakeAPI) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	if err := f.hit("login"); err != nil {
		return nil, err
	}
	return f.loginResp, nil
}

func (f *fakeAPI) Me(ctx context.Context, token string) (*api.User, error) {
	if err := f.hit("me"); err != nil {
		return nil, err
	}
	return f.user, nil
}

func (f *fakeAPI) Logout(ctx context.Context, token string) (map[string]any, error) {
	if err := f.hit("logout"); err != nil {
		return nil, err
	}
	return map[string]any{"message": "bye"}, nil
}

func (f *fakeAPI) ListBoosts(ctx context.Context, token string) ([]api.Boost, error) {
	if err := f.hit("list_boosts"); err != nil {
		return nil, err
	}
	return f.boosts, nil
}

func (f *fakeAPI) BuyBoost(ctx context.Context, token string, boostID int64, qty int) (map[string]any, error) {
	if err := f.hit("buy_boost"); err != nil {
		return nil, err
	}
	return map[string]any{"ok": true}, nil
}

func (f *fakeAPI) MyBoosts(ctx context.Context, token string) ([]api.Boost, error) {
	if err := f.hit("my_boosts"); err != nil {
		return nil, err
	}
	return f.owned, nil
}

func (f *fakeAPI) CreateOrder(ctx context.Context, token string, req api.CreateOrderRequest) (*api.CreateOrderResponse, error) {
	if err := f.hit("create_order"); err != nil {
		return nil, err
	}
	return &api.CreateOrderResponse{OrderID: f.orderID, Status: api.StatusPendingPayment, Provider: req.Provider}, nil
}

func (f *fakeAPI) PayOrder(ctx context.Context, token string, orderID int64) (*api.PayOrderResponse, error) {
	if err := f.hit("pay_order"); err != nil {
		return nil, err
	}
	return &api.PayOrderResponse{CheckoutURL: f.payURL}, nil
}

func (f *fakeAPI) MyOrders(ctx context.Context, token string) ([]api.Order, error) {
	if err := f.hit("my_orders"); err != nil {
		return nil, err
	}
	return f.orders, nil
}

func (f *fakeAPI) OrderDetail(ctx context.Context, token string, orderID int64) (*api.Order, error) {
	if err := f.hit("order_detail"); err != nil {
		return nil, err
	}
	return f.order, nil
}

type effects struct {
	mu      sync.Mutex
	routes  []Route
	notices []string
}

func (e *effects) Navigate(r Route) {
	e.mu.Lock()
	e.routes = append(e.routes, r)
	e.mu.Unlock()
}

func (e *effects) Notify(msg string) {
	e.mu.Lock()
	e.notices = append(e.notices, msg)
	e.mu.Unlock()
}

func (e *effects) Routes() []Route {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Route(nil), e.routes...)
}

func (e *effects) Notices() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.notices...)
}

func newEnv(token string) (*Env, *fakeAPI, *effects) {
	store := session.NewMemoryStore()
	if token != "" {
		_ = store.Save(context.Background(), token)
	}
	fake := newFakeAPI()
	fx := &effects{}
	return &Env{
		Store:    store,
		API:      fake,
		Nav:      fx,
		Notifier: fx,
		Log:      zerolog.Nop(),
		Currency: "MXN",
	}, fake, fx
}

func httpErr(op string, code int) error {
	return &api.HTTPError{Op: op, StatusCode: code}
}
