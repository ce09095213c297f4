package catalog

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
	"github.com/fairyhunter13/pizzeria-storefront/internal/supabase"
)

// SupabaseSource reads the pizzas table of the hosted backend.
type SupabaseSource struct {
	Client *supabase.Client
}

func (s SupabaseSource) ListCatalogItems(ctx context.Context) ([]model.CatalogItem, error) {
	rows, err := s.Client.ListPizzas(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]model.CatalogItem, len(rows))
	for i, r := range rows {
		items[i] = r.Item()
	}
	return items, nil
}

func (s SupabaseSource) GetCatalogItem(ctx context.Context, id string) (model.CatalogItem, error) {
	row, err := s.Client.GetPizza(ctx, id)
	if errors.Is(err, supabase.ErrNoRows) {
		return model.CatalogItem{}, ErrNotFound
	}
	if err != nil {
		return model.CatalogItem{}, err
	}
	return row.Item(), nil
}
