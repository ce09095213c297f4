package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
	"github.com/fairyhunter13/pizzeria-storefront/internal/queue"
	"github.com/fairyhunter13/pizzeria-storefront/internal/session"
	"github.com/fairyhunter13/pizzeria-storefront/internal/store"
)

// Messages surfaced when placement completes.
const (
	MsgOrderPlaced = "Your order has been placed successfully! We'll deliver it soon."
	MsgOrderFailed = "We couldn't place your order. Please try again."
)

var (
	// ErrEmptyCart blocks submission of an empty cart.
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrSubmissionInFlight blocks a second submission before the first
	// completes.
	ErrSubmissionInFlight = errors.New("checkout: submission already in flight")
	// ErrClosed is returned once the service stops taking orders.
	ErrClosed = errors.New("checkout: not accepting orders")
)

// Enqueuer hands orders to the placement workers.
type Enqueuer interface {
	Enqueue(j queue.Job) bool
	NextSequence() uint64
}

// Service submits checkouts.
type Service struct {
	q   Enqueuer
	st  store.Store
	now func() time.Time
}

func NewService(q Enqueuer, st store.Store) *Service {
	return &Service{q: q, st: st, now: time.Now}
}

func normalize(f model.CheckoutForm) model.CheckoutForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	if f.PaymentMethod == "" {
		f.PaymentMethod = model.PaymentCreditCard
	}
	return f
}

// Submit validates form against the session cart and queues the order for
// placement. The returned order is pending. When placement completes the
// cart is cleared on success, a message is queued on the session and the
// in-flight mark is released.
func (s *Service) Submit(ctx context.Context, sess *session.Session, form model.CheckoutForm) (model.Order, error) {
	if err := ctx.Err(); err != nil {
		return model.Order{}, err
	}
	if sess.Cart.IsEmpty() {
		obs.Metrics.Checkouts.WithLabelValues("empty").Inc()
		return model.Order{}, ErrEmptyCart
	}
	if sess.Submitting() {
		obs.Metrics.Checkouts.WithLabelValues("in_flight").Inc()
		return model.Order{}, ErrSubmissionInFlight
	}
	if errs := Validate(form); !errs.OK() {
		obs.Metrics.Checkouts.WithLabelValues("invalid").Inc()
		return model.Order{}, &ValidationError{Errors: errs}
	}
	if !sess.BeginSubmit() {
		obs.Metrics.Checkouts.WithLabelValues("in_flight").Inc()
		return model.Order{}, ErrSubmissionInFlight
	}

	lines, totals := sess.Cart.Totals()
	if len(lines) == 0 {
		sess.EndSubmit()
		obs.Metrics.Checkouts.WithLabelValues("empty").Inc()
		return model.Order{}, ErrEmptyCart
	}
	now := s.now().UTC()
	o := model.Order{
		ID:          uuid.NewString(),
		Number:      s.q.NextSequence(),
		SessionID:   sess.ID,
		Form:        normalize(form),
		Lines:       lines,
		Subtotal:    totals.Subtotal,
		DeliveryFee: totals.DeliveryFee,
		Tax:         totals.Tax,
		Total:       totals.Total,
		Status:      model.OrderPending,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.st.PutOrder(o); err != nil {
		sess.EndSubmit()
		return model.Order{}, fmt.Errorf("store order: %w", err)
	}
	if !s.q.Enqueue(queue.Job{Order: o, Done: completion(sess)}) {
		sess.EndSubmit()
		obs.Metrics.Checkouts.WithLabelValues("rejected").Inc()
		return model.Order{}, ErrClosed
	}
	obs.Metrics.Checkouts.WithLabelValues("accepted").Inc()
	obs.Logger.Info("checkout accepted", "order_id", o.ID, "order_number", o.Number, "session_id", sess.ID, "total", o.Total.StringFixed(2))
	return o, nil
}

func completion(sess *session.Session) func(model.Order, error) {
	return func(_ model.Order, err error) {
		defer sess.EndSubmit()
		if err != nil {
			sess.Notify(MsgOrderFailed)
			return
		}
		sess.Cart.Clear()
		sess.Notify(MsgOrderPlaced)
	}
}
