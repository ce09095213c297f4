// Package catalog serves the pizza menu.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/go-faster/errors"

	"github.com/fairyhunter13/pizzeria-storefront/internal/images"
	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
)

// AllCategories selects every category in List.
const AllCategories = "all"

// ErrNotFound is returned by Get for an unknown item id.
var ErrNotFound = errors.New("catalog: item not found")

// Source lists catalog items. Ordering by category is the only contract on
// the result.
type Source interface {
	ListCatalogItems(ctx context.Context) ([]model.CatalogItem, error)
}

// getter is implemented by sources that can fetch a single item directly.
type getter interface {
	GetCatalogItem(ctx context.Context, id string) (model.CatalogItem, error)
}

// Service decorates source items with their resolved image.
type Service struct {
	src      Source
	resolver *images.Resolver
	assetURL func(images.Asset) string
}

// NewService returns a Service over src. assetURL turns a resolved asset into
// the URL handed to clients; nil leaves ImageURL empty.
func NewService(src Source, resolver *images.Resolver, assetURL func(images.Asset) string) *Service {
	return &Service{src: src, resolver: resolver, assetURL: assetURL}
}

// List returns items ordered by category, stable within a category. An empty
// category or "all" disables filtering.
func (s *Service) List(ctx context.Context, category string) ([]model.CatalogItem, error) {
	items, err := s.src.ListCatalogItems(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list catalog")
	}
	category = strings.ToLower(strings.TrimSpace(category))
	out := make([]model.CatalogItem, 0, len(items))
	for _, it := range items {
		if category != "" && category != AllCategories && string(it.Category) != category {
			continue
		}
		out = append(out, s.decorate(it))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// Get returns one item by id.
func (s *Service) Get(ctx context.Context, id string) (model.CatalogItem, error) {
	if g, ok := s.src.(getter); ok {
		it, err := g.GetCatalogItem(ctx, id)
		if err != nil {
			return model.CatalogItem{}, errors.Wrapf(err, "get catalog item %s", id)
		}
		return s.decorate(it), nil
	}
	items, err := s.src.ListCatalogItems(ctx)
	if err != nil {
		return model.CatalogItem{}, errors.Wrap(err, "list catalog")
	}
	for _, it := range items {
		if it.ID == id {
			return s.decorate(it), nil
		}
	}
	return model.CatalogItem{}, ErrNotFound
}

// Names returns the names of every item, for image reports.
func (s *Service) Names(ctx context.Context) ([]string, error) {
	items, err := s.src.ListCatalogItems(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list catalog names")
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names, nil
}

func (s *Service) decorate(it model.CatalogItem) model.CatalogItem {
	a, step := s.resolver.ResolveStep(it.Name)
	obs.Metrics.ImageResolutions.WithLabelValues(string(step)).Inc()
	it.ImageKey = a.Key
	if s.assetURL != nil {
		it.ImageURL = s.assetURL(a)
	}
	return it
}
