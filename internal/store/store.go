// Package store keeps submitted orders and contact messages.
package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
)

// ErrNoID is returned when a record without an identifier is written.
var ErrNoID = errors.New("store: record has no id")

// Store persists orders and contact messages. Order writes are
// last-write-wins by Version: a write whose version is not newer than the
// stored one is ignored.
type Store interface {
	PutOrder(o model.Order) error
	GetOrder(id string) (model.Order, bool, error)
	PutMessage(m model.ContactMessage) error
	ListMessages() ([]model.ContactMessage, error)
	Close() error
}

// MemoryStore is a Store backed by maps.
type MemoryStore struct {
	mu       sync.RWMutex
	orders   map[string]model.Order
	messages map[string]model.ContactMessage
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		orders:   make(map[string]model.Order),
		messages: make(map[string]model.ContactMessage),
	}
}

func (s *MemoryStore) GetOrder(id string) (model.Order, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, false, nil
	}
	return cloneOrder(o), true, nil
}

func (s *MemoryStore) PutOrder(o model.Order) error {
	if o.ID == "" {
		return ErrNoID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.orders[o.ID]; ok && o.Version <= cur.Version {
		return nil
	}
	s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (s *MemoryStore) PutMessage(m model.ContactMessage) error {
	if m.ID == "" {
		return ErrNoID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.ID] = m
	return nil
}

// ListMessages returns messages oldest first.
func (s *MemoryStore) ListMessages() ([]model.ContactMessage, error) {
	s.mu.RLock()
	out := make([]model.ContactMessage, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, m)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ReceivedAt.Before(out[j].ReceivedAt)
	})
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneOrder(o model.Order) model.Order {
	o.Lines = append([]model.CartLine(nil), o.Lines...)
	return o
}
