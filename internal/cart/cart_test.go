package cart

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
)

func pizza(id, name, price string) model.CatalogItem {
	return model.CatalogItem{ID: id, Name: name, Price: decimal.RequireFromString(price), Category: model.CategoryClassic}
}

var (
	margherita = pizza("1", "Margherita", "12.99")
	pepperoni  = pizza("2", "Pepperoni", "14.99")
	sideCheap  = pizza("x", "Garlic Knots", "9.50")
)

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) notify(m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
}

func newCart() (*Cart, *recorder) {
	r := &recorder{}
	return New(DefaultPricing(), r.notify), r
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAddItem_NewAndExisting(t *testing.T) {
	c, r := newCart()
	c.AddItem(margherita)
	c.AddItem(margherita)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, []string{"Margherita added to your cart", "Added another Margherita to your cart"}, r.msgs)
}

func TestAddItem_KeepsInsertionOrder(t *testing.T) {
	c, _ := newCart()
	c.AddItem(pepperoni)
	c.AddItem(margherita)
	c.AddItem(pepperoni)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "2", lines[0].Item.ID)
	assert.Equal(t, "1", lines[1].Item.ID)
}

func TestDerivedValues(t *testing.T) {
	c, _ := newCart()
	c.AddItem(margherita)
	c.AddItem(margherita)
	c.AddItem(sideCheap)

	s := c.Snapshot()
	assert.Equal(t, 3, s.ItemCount)
	assert.True(t, s.Subtotal.Equal(dec("35.48")), s.Subtotal.String())
	assert.True(t, s.DeliveryFee.Equal(dec("3.99")))
	assert.True(t, s.Total.Equal(dec("39.47")), s.Total.String())
	assert.True(t, c.Subtotal().Equal(dec("35.48")))
	assert.Equal(t, 3, c.ItemCount())
}

func TestEmptyCart_NoDeliveryFee(t *testing.T) {
	c, _ := newCart()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.DeliveryFee().IsZero())
	assert.True(t, c.Total().IsZero())
	assert.NotNil(t, c.Snapshot().Lines)
}

func TestRemoveItem(t *testing.T) {
	c, r := newCart()
	c.AddItem(margherita)
	c.AddItem(pepperoni)
	c.RemoveItem("1")

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "2", lines[0].Item.ID)
	assert.Equal(t, "Margherita removed from your cart", r.msgs[len(r.msgs)-1])
}

func TestRemoveItem_UnknownIsNoop(t *testing.T) {
	c, r := newCart()
	c.AddItem(margherita)
	before := len(r.msgs)
	c.RemoveItem("missing")
	assert.Len(t, c.Lines(), 1)
	assert.Len(t, r.msgs, before)
}

func TestUpdateQuantity(t *testing.T) {
	c, r := newCart()
	c.AddItem(margherita)
	before := len(r.msgs)

	c.UpdateQuantity("1", 5)
	assert.Equal(t, 5, c.Lines()[0].Quantity)
	assert.Len(t, r.msgs, before, "updates are silent")

	c.UpdateQuantity("missing", 3)
	assert.Len(t, c.Lines(), 1)
}

func TestUpdateQuantity_BelowOneRemoves(t *testing.T) {
	for _, q := range []int{0, -3} {
		c, r := newCart()
		c.AddItem(margherita)
		c.UpdateQuantity("1", q)
		assert.True(t, c.IsEmpty())
		assert.Equal(t, "Margherita removed from your cart", r.msgs[len(r.msgs)-1])
	}
}

func TestClear(t *testing.T) {
	c, r := newCart()
	c.AddItem(margherita)
	c.AddItem(pepperoni)
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, MsgCleared, r.msgs[len(r.msgs)-1])
}

func TestTotals_TaxRoundedToCents(t *testing.T) {
	c, _ := newCart()
	c.AddItem(margherita)
	c.AddItem(margherita)
	c.AddItem(sideCheap)

	lines, tot := c.Totals()
	require.Len(t, lines, 2)
	assert.True(t, tot.Tax.Equal(dec("3.55")), tot.Tax.String())
	assert.True(t, tot.Total.Equal(dec("43.02")), tot.Total.String())
}

func TestSubscribe(t *testing.T) {
	c, _ := newCart()
	var got []int
	unsub := c.Subscribe(func(s Snapshot) { got = append(got, s.ItemCount) })

	c.AddItem(margherita)
	c.AddItem(margherita)
	c.RemoveItem("missing")
	c.UpdateQuantity("1", 4)
	unsub()
	c.Clear()

	assert.Equal(t, []int{1, 2, 4}, got)
}

func TestListenerMayReadCart(t *testing.T) {
	c, _ := newCart()
	var seen int
	c.Subscribe(func(Snapshot) { seen = c.ItemCount() })
	c.AddItem(pepperoni)
	assert.Equal(t, 1, seen)
}

func TestConcurrentAdds(t *testing.T) {
	c := New(DefaultPricing(), nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.AddItem(margherita)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.ItemCount())
	assert.Len(t, c.Lines(), 1)
}

func TestAddTwiceEqualsAddThenSetTwo(t *testing.T) {
	twice, _ := newCart()
	twice.AddItem(pepperoni)
	twice.AddItem(margherita)
	twice.AddItem(margherita)

	set, _ := newCart()
	set.AddItem(pepperoni)
	set.AddItem(margherita)
	set.UpdateQuantity(margherita.ID, 2)

	got, want := twice.Snapshot(), set.Snapshot()
	assert.Equal(t, want.Lines, got.Lines)
	assert.Equal(t, want.ItemCount, got.ItemCount)
	assert.True(t, want.Subtotal.Equal(got.Subtotal), "subtotal %s vs %s", want.Subtotal, got.Subtotal)
	assert.True(t, want.DeliveryFee.Equal(got.DeliveryFee))
	assert.True(t, want.Total.Equal(got.Total), "total %s vs %s", want.Total, got.Total)
	assert.Equal(t, 3, got.ItemCount)
	assert.True(t, got.Subtotal.Equal(dec("40.97")))
}
