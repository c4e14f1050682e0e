// Package cache holds transient per-session cart state. Carts are not part
// of the durable repository: they exist only between "add to cart" and a
// successful checkout.
package cache

import (
	"context"
	"sync"
	"time"

	"agropos/backend/internal/domain"
)

type CartStore interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, bool, error)
	Save(ctx context.Context, cart domain.Cart, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryCartStore is the fallback when Redis is not configured. Expired
// carts are dropped lazily on read.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string]memoryCartEntry
}

type memoryCartEntry struct {
	cart      domain.Cart
	expiresAt time.Time
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string]memoryCartEntry)}
}

func (s *MemoryCartStore) Get(_ context.Context, sessionID string) (*domain.Cart, bool, error) {
	s.mu.RLock()
	entry, ok := s.carts[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.carts, sessionID)
		s.mu.Unlock()
		return nil, false, nil
	}
	cart := cloneCart(entry.cart)
	return &cart, true, nil
}

func (s *MemoryCartStore) Save(_ context.Context, cart domain.Cart, ttl time.Duration) error {
	entry := memoryCartEntry{cart: cloneCart(cart)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.carts[cart.SessionID] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryCartStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()
	return nil
}

func cloneCart(src domain.Cart) domain.Cart {
	dup := src
	items := make([]domain.CartItem, len(src.Items))
	copy(items, src.Items)
	dup.Items = items
	return dup
}
