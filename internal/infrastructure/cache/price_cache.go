// Package cache envuelve el PriceResolver del catálogo con una caché LRU con expiración.
package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

var _ inventory.PriceResolver = (*PriceCache)(nil)

type priceEntry struct {
	price     decimal.Decimal
	expiresAt time.Time
}

// PriceCache caché de precios unitarios. Los errores del catálogo no se cachean.
type PriceCache struct {
	next inventory.PriceResolver
	lru  *lru.Cache
	ttl  time.Duration
	now  func() time.Time
}

// NewPriceCache construye la caché delante de next.
func NewPriceCache(next inventory.PriceResolver, size int, ttl time.Duration) (*PriceCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("price cache: %w", err)
	}
	return &PriceCache{next: next, lru: c, ttl: ttl, now: time.Now}, nil
}

// GetProductPrice devuelve el precio cacheado o lo consulta al catálogo.
func (c *PriceCache) GetProductPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	if v, ok := c.lru.Get(productID); ok {
		e := v.(priceEntry)
		if c.now().Before(e.expiresAt) {
			return e.price, nil
		}
		c.lru.Remove(productID)
	}
	price, err := c.next.GetProductPrice(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	c.lru.Add(productID, priceEntry{price: price, expiresAt: c.now().Add(c.ttl)})
	return price, nil
}
