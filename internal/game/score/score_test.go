package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/color-whist/internal/game/bet"
)

func TestSettle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		bettingTeam int
		bid         bet.Bid
		trickPoints [2]int
		wantMade    bool
		wantDeltas  [2]int
	}{
		{
			name:        "bet made scores exactly the bet",
			bettingTeam: 1,
			bid:         bet.Bid{Amount: 9},
			trickPoints: [2]int{12, 16},
			wantMade:    true,
			wantDeltas:  [2]int{9, 16},
		},
		{
			name:        "bet missed loses the bet",
			bettingTeam: 1,
			bid:         bet.Bid{Amount: 9},
			trickPoints: [2]int{8, 20},
			wantMade:    false,
			wantDeltas:  [2]int{-9, 20},
		},
		{
			name:        "exact trick points make the bet",
			bettingTeam: 2,
			bid:         bet.Bid{Amount: 10},
			trickPoints: [2]int{18, 10},
			wantMade:    true,
			wantDeltas:  [2]int{18, 10},
		},
		{
			name:        "without trump doubles the gain",
			bettingTeam: 1,
			bid:         bet.Bid{Amount: 8, WithoutTrump: true},
			trickPoints: [2]int{11, 17},
			wantMade:    true,
			wantDeltas:  [2]int{16, 17},
		},
		{
			name:        "without trump doubles the loss",
			bettingTeam: 2,
			bid:         bet.Bid{Amount: 12, WithoutTrump: true},
			trickPoints: [2]int{20, 8},
			wantMade:    false,
			wantDeltas:  [2]int{20, -24},
		},
		{
			name:        "negative trick points can never make a bet",
			bettingTeam: 1,
			bid:         bet.Bid{Amount: 7},
			trickPoints: [2]int{-2, 30},
			wantMade:    false,
			wantDeltas:  [2]int{-7, 30},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Settle(tt.bettingTeam, tt.bid, tt.trickPoints)
			assert.Equal(t, tt.bettingTeam, res.BettingTeam)
			assert.Equal(t, tt.wantMade, res.BetMade)
			assert.Equal(t, tt.wantDeltas, res.Deltas)
			assert.Equal(t, tt.trickPoints, res.TrickPoints)
		})
	}
}

func TestWinnerIfAny(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		scores   [2]int
		wantTeam int
		wantOver bool
	}{
		{"nobody there yet", [2]int{40, 38}, 0, false},
		{"team one crosses the line", [2]int{43, 12}, 1, true},
		{"exactly the winning score", [2]int{41, 0}, 1, true},
		{"team two crosses the line", [2]int{30, 45}, 2, true},
		{"both over: team one wins deterministically", [2]int{42, 44}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			team, over := WinnerIfAny(tt.scores)
			assert.Equal(t, tt.wantOver, over)
			assert.Equal(t, tt.wantTeam, team)
		})
	}
}
