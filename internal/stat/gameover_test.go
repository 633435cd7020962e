package stat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values Values
		want   Stat
	}{
		{"all equal picks team spirit", Values{39, 39, 39, 39}, TeamSpirit},
		{"lowest strength", Values{50, 60, 45, 12}, Strength},
		{"lowest fatigue", Values{50, 3, 45, 12}, Fatigue},
		{"tie fatigue and popularity", Values{80, 20, 20, 30}, Fatigue},
		{"tie popularity and strength", Values{80, 90, 5, 5}, Popularity},
		{"all zero", Values{}, TeamSpirit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FailureReason(tt.values))
		})
	}
}
