// Package orders contains the collaborators that place a submitted order.
package orders

import (
	"context"
	"time"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
)

// Placer accepts a validated order for fulfilment.
type Placer interface {
	Place(ctx context.Context, o model.Order) error
}

// PlacerFunc adapts a function to Placer.
type PlacerFunc func(ctx context.Context, o model.Order) error

func (f PlacerFunc) Place(ctx context.Context, o model.Order) error { return f(ctx, o) }

// SimulatedPlacer accepts every order after a fixed delay. The delay is
// abandoned when ctx is done.
type SimulatedPlacer struct {
	Delay time.Duration
}

func (s SimulatedPlacer) Place(ctx context.Context, _ model.Order) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Chain runs placers in order and stops at the first error.
type Chain []Placer

func (c Chain) Place(ctx context.Context, o model.Order) error {
	for _, p := range c {
		if err := p.Place(ctx, o); err != nil {
			return err
		}
	}
	return nil
}
