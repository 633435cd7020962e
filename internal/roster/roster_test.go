package roster

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type purse int

func (p *purse) Debit(amount int) bool {
	if int(*p) < amount {
		return false
	}
	*p -= purse(amount)
	return true
}

type boughtCounter struct{ pro, legend int }

func (c *boughtCounter) IncrementPlayerBought(isLegend bool) {
	if isLegend {
		c.legend++
	} else {
		c.pro++
	}
}

func TestRoster_DefaultsToAmateurs(t *testing.T) {
	t.Parallel()

	r := New(nil)
	for _, pos := range Positions {
		assert.Equal(t, TierAmateur, r.Selected(pos))
		assert.True(t, r.IsPurchased(Player{Position: pos, Tier: TierAmateur}))
		assert.False(t, r.IsPurchased(Player{Position: pos, Tier: TierPro}))
	}
	assert.Equal(t, TierAmateur, r.TeamTier())
	assert.Equal(t, 20, r.MatchPrize())
}

func TestRoster_Buy(t *testing.T) {
	t.Parallel()

	rec := &boughtCounter{}
	r := New(rec)
	wallet := purse(60)

	pro := Player{Position: Goalkeeper, Tier: TierPro}
	legend := Player{Position: ForwardLeft, Tier: TierLegend}

	require.True(t, r.Buy(pro, &wallet))
	assert.Equal(t, purse(40), wallet)
	assert.True(t, r.IsPurchased(pro))
	assert.Equal(t, TierAmateur, r.Selected(Goalkeeper), "buying does not select")

	assert.False(t, r.Buy(pro, &wallet), "already owned")
	assert.Equal(t, purse(40), wallet)

	require.True(t, r.Buy(legend, &wallet))
	assert.Equal(t, purse(0), wallet)

	assert.False(t, r.Buy(Player{Position: DefenderLeft, Tier: TierPro}, &wallet), "short of coins")
	assert.False(t, r.Buy(Player{Position: DefenderLeft, Tier: TierAmateur}, &wallet), "amateurs are free")

	assert.Equal(t, 1, rec.pro)
	assert.Equal(t, 1, rec.legend)
}

func TestRoster_Select(t *testing.T) {
	t.Parallel()

	r := New(nil)
	wallet := purse(100)
	pro := Player{Position: DefenderCenter, Tier: TierPro}

	assert.False(t, r.Select(pro), "not purchased")
	require.True(t, r.Buy(pro, &wallet))
	assert.True(t, r.Select(pro))
	assert.Equal(t, TierPro, r.Selected(DefenderCenter))

	assert.True(t, r.Select(Player{Position: DefenderCenter, Tier: TierAmateur}))
	assert.Equal(t, TierAmateur, r.Selected(DefenderCenter))
}

func TestRoster_TeamTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		tier      Tier
		mixed     bool
		wantTier  Tier
		wantPrize int
	}{
		{"all pro", TierPro, false, TierPro, 40},
		{"all legend", TierLegend, false, TierLegend, 60},
		{"mixed legend", TierLegend, true, TierAmateur, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(nil)
			wallet := purse(1000)
			for _, pos := range Positions {
				if tt.mixed && pos == ForwardRight {
					continue
				}
				p := Player{Position: pos, Tier: tt.tier}
				require.True(t, r.Buy(p, &wallet))
				require.True(t, r.Select(p))
			}
			assert.Equal(t, tt.wantTier, r.TeamTier())
			assert.Equal(t, tt.wantPrize, r.MatchPrize())
		})
	}
}

func TestRoster_SnapshotRestore(t *testing.T) {
	t.Parallel()

	r := New(nil)
	wallet := purse(100)
	legend := Player{Position: Goalkeeper, Tier: TierLegend}
	require.True(t, r.Buy(legend, &wallet))
	require.True(t, r.Select(legend))

	data, err := json.Marshal(r.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tier":"legend"`)

	var st State
	require.NoError(t, json.Unmarshal(data, &st))

	other := New(nil)
	other.Restore(st)
	assert.Equal(t, TierLegend, other.Selected(Goalkeeper))
	assert.True(t, other.IsPurchased(legend))
	assert.Equal(t, r.Snapshot(), other.Snapshot())
}

func TestRoster_RestoreDropsUnownedSelection(t *testing.T) {
	t.Parallel()

	r := New(nil)
	r.Restore(State{
		Selected: []Player{{Position: ForwardLeft, Tier: TierPro}},
	})
	assert.Equal(t, TierAmateur, r.Selected(ForwardLeft))
}

func TestPlayer_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Pro Defender Left", Player{Position: DefenderLeft, Tier: TierPro}.Name())
	assert.Equal(t, 40, TierLegend.Price())
	assert.Zero(t, TierAmateur.Price())
}
