package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/pizzeria-storefront/internal/images"
	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
	"github.com/fairyhunter13/pizzeria-storefront/internal/supabase"
)

func newService(src Source) *Service {
	r := images.NewResolver(images.DefaultTable(), obs.DebugLogger{})
	return NewService(src, r, func(a images.Asset) string { return "/img/" + a.File })
}

func TestList_OrderedByCategoryStable(t *testing.T) {
	items, err := newService(StaticSource{}).List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 9)

	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{
		"Margherita", "Pepperoni", "Hawaiian",
		"BBQ Chicken", "Supreme", "Buffalo Chicken",
		"Vegetarian", "Mushroom Truffle", "Pesto Veggie",
	}, names)
}

func TestList_FilterAndImages(t *testing.T) {
	svc := newService(StaticSource{})
	items, err := svc.List(context.Background(), "Specialty")
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, it := range items {
		assert.Equal(t, model.CategorySpecialty, it.Category)
		assert.NotEmpty(t, it.ImageKey)
		assert.Contains(t, it.ImageURL, "/img/")
	}
	assert.Equal(t, "bbq-chicken", items[0].ImageKey)

	all, err := svc.List(context.Background(), AllCategories)
	require.NoError(t, err)
	assert.Len(t, all, 9)
}

func TestGet(t *testing.T) {
	svc := newService(StaticSource{})
	it, err := svc.Get(context.Background(), "6")
	require.NoError(t, err)
	assert.Equal(t, "Mushroom Truffle", it.Name)
	assert.Equal(t, "mushroom-truffle", it.ImageKey)

	_, err = svc.Get(context.Background(), "99")
	assert.ErrorIs(t, err, ErrNotFound)
}

type failingSource struct{}

func (failingSource) ListCatalogItems(context.Context) ([]model.CatalogItem, error) {
	return nil, errors.New("backend down")
}

func TestList_PropagatesSourceError(t *testing.T) {
	_, err := newService(failingSource{}).List(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
}

func TestSupabaseSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "" {
			w.WriteHeader(http.StatusNotAcceptable)
			_, _ = io.WriteString(w, `{"code":"PGRST116","message":"no rows"}`)
			return
		}
		_, _ = io.WriteString(w, `[{"id":10,"name":"Veggie Supreme","price":18.5,"category":"vegetarian"},
			{"id":11,"name":"Classic Pepperoni","price":13,"category":"classic"}]`)
	}))
	defer srv.Close()

	svc := newService(SupabaseSource{Client: supabase.New(srv.URL, "k", time.Second)})
	items, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Classic Pepperoni", items[0].Name)
	assert.Equal(t, "pepperoni", items[0].ImageKey)

	_, err = svc.Get(context.Background(), "404")
	assert.ErrorIs(t, err, ErrNotFound)
}
