package cart

import (
	"sync"

	"github.com/junaidrashid-git/yoruwear-api/models"
	"github.com/junaidrashid-git/yoruwear-api/pricing"
	"github.com/shopspring/decimal"
)

type EventKind string

const (
	EventItemAdded       EventKind = "item_added"
	EventQuantityChanged EventKind = "quantity_changed"
	EventItemRemoved     EventKind = "item_removed"
	EventCouponApplied   EventKind = "coupon_applied"
	EventCouponRemoved   EventKind = "coupon_removed"
	EventFirstTimeBuyer  EventKind = "first_time_buyer"
	EventCleared         EventKind = "cleared"
)

// Event is published after every successful mutation, carrying the fresh totals.
type Event struct {
	Kind    EventKind
	ItemID  int64
	Summary pricing.Summary
}

// Persister saves the cart after each mutation.
type Persister interface {
	SaveCart(Cart) error
}

// Store owns one cart and fans out change events. Pass it to whoever needs the
// cart; there is no package level instance.
type Store struct {
	mu      sync.Mutex
	cart    Cart
	vatRate decimal.Decimal
	persist Persister
	subs    map[int]chan Event
	nextSub int
}

func NewStore(initial Cart, vatRate decimal.Decimal, p Persister) *Store {
	return &Store{
		cart:    initial.Clone(),
		vatRate: vatRate,
		persist: p,
		subs:    make(map[int]chan Event),
	}
}

// Subscribe returns a channel of events and a cancel func. Slow subscribers miss
// events once their buffer is full; the next event still carries full totals.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, buffer)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// mutate runs fn under the lock, persists and publishes when fn reports a change.
func (s *Store) mutate(kind EventKind, fn func(c *Cart) (int64, bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	itemID, changed := fn(&s.cart)
	if !changed {
		return false, nil
	}
	if s.persist != nil {
		if err := s.persist.SaveCart(s.cart.Clone()); err != nil {
			return true, err
		}
	}

	ev := Event{Kind: kind, ItemID: itemID, Summary: s.cart.Summary(s.vatRate)}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return true, nil
}

func (s *Store) Add(p models.Product, qty int, size string) (Item, error) {
	var added Item
	_, err := s.mutate(EventItemAdded, func(c *Cart) (int64, bool) {
		item, ok := c.Add(p, qty, size)
		added = item
		return item.ID, ok
	})
	return added, err
}

func (s *Store) SetQuantity(itemID int64, qty int) (bool, error) {
	kind := EventQuantityChanged
	if qty <= 0 {
		kind = EventItemRemoved
	}
	return s.mutate(kind, func(c *Cart) (int64, bool) {
		return itemID, c.SetQuantity(itemID, qty)
	})
}

func (s *Store) Decrement(itemID int64) (bool, error) {
	return s.mutate(EventQuantityChanged, func(c *Cart) (int64, bool) {
		return itemID, c.Decrement(itemID)
	})
}

func (s *Store) Remove(itemID int64) (bool, error) {
	return s.mutate(EventItemRemoved, func(c *Cart) (int64, bool) {
		return itemID, c.Remove(itemID)
	})
}

func (s *Store) ApplyCoupon(code string) (bool, error) {
	return s.mutate(EventCouponApplied, func(c *Cart) (int64, bool) {
		return 0, c.ApplyCoupon(code)
	})
}

func (s *Store) RemoveCoupon() error {
	_, err := s.mutate(EventCouponRemoved, func(c *Cart) (int64, bool) {
		c.RemoveCoupon()
		return 0, true
	})
	return err
}

func (s *Store) SetFirstTimeBuyer(first bool) error {
	_, err := s.mutate(EventFirstTimeBuyer, func(c *Cart) (int64, bool) {
		c.FirstTimeBuyerDiscount = first
		return 0, true
	})
	return err
}

func (s *Store) Clear() error {
	_, err := s.mutate(EventCleared, func(c *Cart) (int64, bool) {
		c.Clear()
		return 0, true
	})
	return err
}

func (s *Store) Snapshot() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *Store) Summary() pricing.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Summary(s.vatRate)
}
