package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	calls  int
	prices map[string]decimal.Decimal
}

func (r *countingResolver) GetProductPrice(_ context.Context, id string) (decimal.Decimal, error) {
	r.calls++
	p, ok := r.prices[id]
	if !ok {
		return decimal.Zero, errors.New("sin precio")
	}
	return p, nil
}

func TestPriceCache_HitAndExpiry(t *testing.T) {
	src := &countingResolver{prices: map[string]decimal.Decimal{"p-1": decimal.NewFromInt(1500)}}
	c, err := NewPriceCache(src, 8, time.Minute)
	require.NoError(t, err)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, err := c.GetProductPrice(ctx, "p-1")
		require.NoError(t, err)
		assert.True(t, p.Equal(decimal.NewFromInt(1500)))
	}
	assert.Equal(t, 1, src.calls)

	now = now.Add(2 * time.Minute)
	_, err = c.GetProductPrice(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)

	// El precio refrescado vuelve a quedar en caché.
	_, err = c.GetProductPrice(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestPriceCache_ErrorsNotCached(t *testing.T) {
	src := &countingResolver{prices: map[string]decimal.Decimal{}}
	c, err := NewPriceCache(src, 8, time.Minute)
	require.NoError(t, err)

	_, err = c.GetProductPrice(context.Background(), "x")
	assert.Error(t, err)
	_, err = c.GetProductPrice(context.Background(), "x")
	assert.Error(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestNewPriceCache_InvalidSize(t *testing.T) {
	_, err := NewPriceCache(&countingResolver{}, 0, time.Minute)
	assert.Error(t, err)
}
