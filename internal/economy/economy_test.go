package economy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/matchday/internal/stat"
)

func TestWallet_CreditDebit(t *testing.T) {
	t.Parallel()

	w := NewWallet(StartingBalance)
	assert.Equal(t, 40, w.Balance())

	w.Credit(20)
	assert.Equal(t, 60, w.Balance())

	assert.True(t, w.Debit(60))
	assert.Equal(t, 0, w.Balance())

	assert.False(t, w.Debit(1))
	assert.Equal(t, 0, w.Balance(), "refused debit mutates nothing")

	w.Credit(-5)
	w.Credit(0)
	assert.Equal(t, 0, w.Balance())
	assert.False(t, w.Debit(-1))
}

func TestWallet_NegativeStart(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, NewWallet(-3).Balance())
}

func TestWallet_Concurrent(t *testing.T) {
	t.Parallel()

	w := NewWallet(0)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Credit(2)
			w.Debit(1)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, w.Balance())
}

func TestBuyBooster(t *testing.T) {
	t.Parallel()

	equipment, ok := FindBooster("equipment")
	require.True(t, ok)

	store := stat.NewStore()
	w := NewWallet(StartingBalance)

	require.True(t, BuyBooster(equipment, w, store))
	assert.Equal(t, 0, w.Balance())
	assert.Equal(t, 10, store.Get(stat.TeamSpirit))
	assert.Equal(t, 10, store.Get(stat.Popularity))
	assert.Equal(t, 0, store.Get(stat.Fatigue))

	assert.False(t, BuyBooster(equipment, w, store))
	assert.Equal(t, 10, store.Get(stat.TeamSpirit), "refused purchase applies nothing")
}

func TestBoostersCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key   string
		price int
		stat  stat.Stat
	}{
		{"energetic", 20, stat.Fatigue},
		{"activity_booster", 20, stat.Strength},
		{"equipment", 40, stat.TeamSpirit},
	}
	for _, tt := range tests {
		b, ok := FindBooster(tt.key)
		require.True(t, ok, tt.key)
		assert.Equal(t, tt.price, b.Price)
		assert.Equal(t, tt.stat, b.Effects[0].Stat)
	}

	_, ok := FindBooster("doping")
	assert.False(t, ok)
}
