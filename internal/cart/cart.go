// Package cart implements the per-session shopping cart.
package cart

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
)

// Notification texts shown to the shopper.
const (
	msgAddedAnother = "Added another %s to your cart"
	msgAdded        = "%s added to your cart"
	msgRemoved      = "%s removed from your cart"
	MsgCleared      = "Your cart has been cleared"
)

// Notifier receives user-facing messages produced by cart mutations.
type Notifier func(message string)

// Listener receives the cart state after a mutation.
type Listener func(Snapshot)

// Snapshot is a point-in-time copy of the cart with its derived values.
type Snapshot struct {
	Lines       []model.CartLine `json:"lines"`
	ItemCount   int              `json:"item_count"`
	Subtotal    decimal.Decimal  `json:"subtotal"`
	DeliveryFee decimal.Decimal  `json:"delivery_fee"`
	Total       decimal.Decimal  `json:"total"`
}

// Cart is an ordered set of lines, at most one per item id, each with
// quantity >= 1. Derived values are recomputed on every read. Methods are
// safe for concurrent use; notifier and listeners run after the lock is
// released.
type Cart struct {
	mu        sync.Mutex
	lines     []model.CartLine
	pricing   Pricing
	notify    Notifier
	listeners map[int]Listener
	nextID    int
}

// New returns an empty cart. notify may be nil.
func New(p Pricing, notify Notifier) *Cart {
	return &Cart{pricing: p, notify: notify, listeners: make(map[int]Listener)}
}

func (c *Cart) indexOf(id string) int {
	for i, l := range c.lines {
		if l.Item.ID == id {
			return i
		}
	}
	return -1
}

// AddItem increments the line for item.ID or appends a new line with
// quantity 1.
func (c *Cart) AddItem(item model.CatalogItem) {
	c.mu.Lock()
	var msg string
	if i := c.indexOf(item.ID); i >= 0 {
		c.lines[i].Quantity++
		msg = fmt.Sprintf(msgAddedAnother, item.Name)
	} else {
		c.lines = append(c.lines, model.CartLine{Item: item, Quantity: 1})
		msg = fmt.Sprintf(msgAdded, item.Name)
	}
	c.unlockAndPublish("add", msg)
}

// RemoveItem deletes the line for id. Unknown ids are ignored.
func (c *Cart) RemoveItem(id string) {
	c.mu.Lock()
	c.removeAndPublish(id)
}

// removeAndPublish expects c.mu held and always releases it.
func (c *Cart) removeAndPublish(id string) {
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	name := c.lines[i].Item.Name
	c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
	c.unlockAndPublish("remove", fmt.Sprintf(msgRemoved, name))
}

// UpdateQuantity sets the quantity of the line for id. A quantity below 1
// removes the line. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	c.mu.Lock()
	if quantity < 1 {
		c.removeAndPublish(id)
		return
	}
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	c.lines[i].Quantity = quantity
	c.unlockAndPublish("update", "")
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.unlockAndPublish("clear", MsgCleared)
}

// unlockAndPublish expects c.mu held. It snapshots the cart, releases the
// lock and then delivers msg and the snapshot.
func (c *Cart) unlockAndPublish(op, msg string) {
	snap := c.snapshotLocked()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	obs.Metrics.CartMutations.WithLabelValues(op).Inc()
	if msg != "" && c.notify != nil {
		c.notify(msg)
	}
	for _, l := range listeners {
		l(snap)
	}
}

// Subscribe registers l for every subsequent mutation and returns a function
// that removes it.
func (c *Cart) Subscribe(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Cart) linesLocked() []model.CartLine {
	return append([]model.CartLine(nil), c.lines...)
}

func (c *Cart) snapshotLocked() Snapshot {
	lines := c.linesLocked()
	t := c.pricing.Compute(lines, false)
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	return Snapshot{
		Lines:       lines,
		ItemCount:   count,
		Subtotal:    t.Subtotal,
		DeliveryFee: t.DeliveryFee,
		Total:       t.Total,
	}
}

// Snapshot returns the current lines and derived values.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []model.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.linesLocked()
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// ItemCount returns the sum of quantities.
func (c *Cart) ItemCount() int { return c.Snapshot().ItemCount }

// Subtotal returns the sum of price x quantity.
func (c *Cart) Subtotal() decimal.Decimal { return c.Snapshot().Subtotal }

// DeliveryFee is the flat fee, or zero for an empty cart.
func (c *Cart) DeliveryFee() decimal.Decimal { return c.Snapshot().DeliveryFee }

// Total is subtotal plus delivery fee.
func (c *Cart) Total() decimal.Decimal { return c.Snapshot().Total }

// Totals returns the lines together with totals including tax, read
// under one lock.
func (c *Cart) Totals() ([]model.CartLine, Totals) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := c.linesLocked()
	return lines, c.pricing.Compute(lines, true)
}
