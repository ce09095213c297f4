package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
)

const (
	orderPrefix   = "order/"
	messagePrefix = "message/"
)

// PebbleStore is a Store backed by a Pebble database. Values are JSON.
type PebbleStore struct {
	db *pebble.DB
	// serializes read-compare-write of order versions
	mu sync.Mutex
}

func NewPebble(dir string) (*PebbleStore, error) {
	d, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleStore{db: d}, nil
}

func (p *PebbleStore) Close() error { return p.db.Close() }

func orderKey(id string) []byte { return []byte(orderPrefix + id) }

// messageKey sorts by receive time, then id.
func messageKey(m model.ContactMessage) []byte {
	return []byte(messagePrefix + m.ReceivedAt.UTC().Format("20060102T150405.000000000") + "/" + m.ID)
}

func (p *PebbleStore) GetOrder(id string) (model.Order, bool, error) {
	v, closer, err := p.db.Get(orderKey(id))
	if err == pebble.ErrNotFound {
		return model.Order{}, false, nil
	}
	if err != nil {
		return model.Order{}, false, err
	}
	defer closer.Close()
	var o model.Order
	if err := json.Unmarshal(v, &o); err != nil {
		return model.Order{}, false, fmt.Errorf("decode order %s: %w", id, err)
	}
	return o, true, nil
}

func (p *PebbleStore) PutOrder(o model.Order) error {
	if o.ID == "" {
		return ErrNoID
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	cur, ok, err := p.GetOrder(o.ID)
	if err != nil {
		return err
	}
	if ok && o.Version <= cur.Version {
		return nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return p.db.Set(orderKey(o.ID), b, pebble.Sync)
}

func (p *PebbleStore) PutMessage(m model.ContactMessage) error {
	if m.ID == "" {
		return ErrNoID
	}
	if m.ReceivedAt.IsZero() {
		m.ReceivedAt = time.Now()
	}
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return p.db.Set(messageKey(m), b, pebble.Sync)
}

// ListMessages returns messages oldest first.
func (p *PebbleStore) ListMessages() ([]model.ContactMessage, error) {
	it, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(messagePrefix),
		UpperBound: prefixEnd(messagePrefix),
	})
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var out []model.ContactMessage
	for it.First(); it.Valid(); it.Next() {
		var m model.ContactMessage
		if err := json.Unmarshal(it.Value(), &m); err != nil {
			return nil, fmt.Errorf("decode message %s: %w", it.Key(), err)
		}
		out = append(out, m)
	}
	return out, it.Error()
}

func prefixEnd(prefix string) []byte {
	b := []byte(prefix)
	b[len(b)-1]++
	return b
}
