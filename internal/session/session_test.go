package session

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/pizzeria-storefront/internal/auth"
	"github.com/fairyhunter13/pizzeria-storefront/internal/cart"
	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
)

func TestGetOrCreate(t *testing.T) {
	m := NewManager(cart.DefaultPricing(), time.Hour)
	s, created := m.GetOrCreate("")
	require.True(t, created)
	require.NotEmpty(t, s.ID)

	again, created := m.GetOrCreate(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	other, created := m.GetOrCreate("unknown")
	assert.True(t, created)
	assert.NotEqual(t, "unknown", other.ID)
	assert.Equal(t, 2, m.Count())
}

func TestCartNotificationsQueued(t *testing.T) {
	m := NewManager(cart.DefaultPricing(), time.Hour)
	s, _ := m.GetOrCreate("")
	s.Cart.AddItem(model.CatalogItem{ID: "1", Name: "Margherita", Price: decimal.RequireFromString("12.99")})
	s.Cart.UpdateQuantity("1", 3)

	assert.Equal(t, []string{"Margherita added to your cart"}, s.Notifications())
	assert.Empty(t, s.Notifications())
}

func TestSweep(t *testing.T) {
	m := NewManager(cart.DefaultPricing(), time.Minute)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	idle, _ := m.GetOrCreate("")
	busy, _ := m.GetOrCreate("")
	fresh, _ := m.GetOrCreate("")
	require.True(t, busy.BeginSubmit())

	m.now = func() time.Time { return base.Add(50 * time.Second) }
	_, ok := m.Get(fresh.ID)
	require.True(t, ok)

	dropped := m.Sweep(base.Add(90 * time.Second))
	assert.Equal(t, 1, dropped)
	_, ok = m.Get(idle.ID)
	assert.False(t, ok)
	_, ok = m.Get(busy.ID)
	assert.True(t, ok)
}

func TestSubmitFlagAndAuth(t *testing.T) {
	m := NewManager(cart.DefaultPricing(), time.Hour)
	s, _ := m.GetOrCreate("")
	assert.True(t, s.BeginSubmit())
	assert.False(t, s.BeginSubmit())
	s.EndSubmit()
	assert.False(t, s.Submitting())

	s.SetAuth(auth.State{Session: &model.AuthSession{Email: "ana@example.com", AccessToken: "at"}})
	assert.Equal(t, "ana@example.com", s.Auth().DisplayName())

	m.Delete(s.ID)
	assert.Equal(t, 0, m.Count())
}

func TestCartItemsGaugeFollowsLiveCarts(t *testing.T) {
	prev := obs.Metrics
	obs.Metrics = obs.NewRegistry(nil)
	t.Cleanup(func() { obs.Metrics = prev })

	m := NewManager(cart.DefaultPricing(), time.Hour)
	a, _ := m.GetOrCreate("")
	b, _ := m.GetOrCreate("")
	margherita := model.CatalogItem{ID: "1", Name: "Margherita", Price: decimal.RequireFromString("12.99")}

	a.Cart.AddItem(margherita)
	a.Cart.UpdateQuantity("1", 3)
	b.Cart.AddItem(margherita)
	assert.Equal(t, 4.0, testutil.ToFloat64(obs.Metrics.CartItems))

	a.Cart.RemoveItem("1")
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.Metrics.CartItems))

	m.Delete(b.ID)
	assert.Equal(t, 0.0, testutil.ToFloat64(obs.Metrics.CartItems))
}
