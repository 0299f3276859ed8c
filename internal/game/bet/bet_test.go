package bet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBid_Beats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a, b     Bid
		expected bool
	}{
		{"higher amount wins", Bid{Amount: 9}, Bid{Amount: 8}, true},
		{"lower amount loses", Bid{Amount: 8}, Bid{Amount: 9}, false},
		{"equal amount ties", Bid{Amount: 9}, Bid{Amount: 9}, false},
		{"without-trump breaks tie", Bid{Amount: 9, WithoutTrump: true}, Bid{Amount: 9}, true},
		{"with-trump never beats same without-trump", Bid{Amount: 9}, Bid{Amount: 9, WithoutTrump: true}, false},
		{"amount beats without-trump flag", Bid{Amount: 10}, Bid{Amount: 9, WithoutTrump: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Beats(tt.b))
		})
	}
}

func TestRound_OrderStartsLeftOfDealer(t *testing.T) {
	t.Parallel()

	r := NewRound(2)
	assert.Equal(t, 3, r.CurrentSeat())

	require.NoError(t, r.Skip(3))
	assert.Equal(t, 0, r.CurrentSeat())
	require.NoError(t, r.Skip(0))
	assert.Equal(t, 1, r.CurrentSeat())
	require.NoError(t, r.Skip(1))
	// Dealer acts last
	assert.Equal(t, 2, r.CurrentSeat())
}

func TestRound_OutOfTurnRejected(t *testing.T) {
	t.Parallel()

	r := NewRound(0)
	err := r.PlaceBid(2, Bid{Amount: 7})
	assert.Error(t, err)
	err = r.Skip(3)
	assert.Error(t, err)
}

func TestRound_BidMustBeatHighest(t *testing.T) {
	t.Parallel()

	r := NewRound(0)
	require.NoError(t, r.PlaceBid(1, Bid{Amount: 9}))

	// Equal bid from a non-dealer is rejected
	err := r.PlaceBid(2, Bid{Amount: 9})
	assert.Error(t, err)

	// Same amount without trump is a strict raise
	require.NoError(t, r.PlaceBid(2, Bid{Amount: 9, WithoutTrump: true}))

	// Lower bid rejected
	err = r.PlaceBid(3, Bid{Amount: 8})
	assert.Error(t, err)
}

func TestRound_BidRange(t *testing.T) {
	t.Parallel()

	r := NewRound(0)
	assert.Error(t, r.PlaceBid(1, Bid{Amount: 6}))
	assert.Error(t, r.PlaceBid(1, Bid{Amount: 13}))
	assert.NoError(t, r.PlaceBid(1, Bid{Amount: 7}))
}

func TestRound_DealerMatchesHighestBid(t *testing.T) {
	t.Parallel()

	r := NewRound(0)
	require.NoError(t, r.PlaceBid(1, Bid{Amount: 10}))
	require.NoError(t, r.Skip(2))
	require.NoError(t, r.Skip(3))

	// Dealer matches exactly and takes the bid
	require.NoError(t, r.PlaceBid(0, Bid{Amount: 10}))
	require.True(t, r.Done())

	winner, bid := r.Winner()
	assert.Equal(t, 0, winner)
	assert.Equal(t, Bid{Amount: 10}, bid)
}

func TestRound_DealerMatchMustBeExact(t *testing.T) {
	t.Parallel()

	r := NewRound(0)
	require.NoError(t, r.PlaceBid(1, Bid{Amount: 10, WithoutTrump: true}))
	require.NoError(t, r.Skip(2))
	require.NoError(t, r.Skip(3))

	// Same amount but different flag is neither a raise nor a match
	err := r.PlaceBid(0, Bid{Amount: 10})
	assert.Error(t, err)

	// Exact match including the flag is fine
	require.NoError(t, r.PlaceBid(0, Bid{Amount: 10, WithoutTrump: true}))
	winner, _ := r.Winner()
	assert.Equal(t, 0, winner)
}

func TestRound_DealerCannotSkip(t *testing.T) {
	t.Parallel()

	// Someone already bid: the dealer has to raise or match
	r := NewRound(0)
	require.NoError(t, r.PlaceBid(1, Bid{Amount: 8}))
	require.NoError(t, r.Skip(2))
	require.NoError(t, r.Skip(3))
	assert.Error(t, r.Skip(0))

	// All three skipped: the dealer has to open
	r = NewRound(0)
	require.NoError(t, r.Skip(1))
	require.NoError(t, r.Skip(2))
	require.NoError(t, r.Skip(3))
	assert.Error(t, r.Skip(0))
	require.NoError(t, r.PlaceBid(0, Bid{Amount: MinAmount}))

	winner, bid := r.Winner()
	assert.Equal(t, 0, winner)
	assert.Equal(t, MinAmount, bid.Amount)
}

func TestRound_WinnerIsLatestHighest(t *testing.T) {
	t.Parallel()

	r := NewRound(3)
	require.NoError(t, r.PlaceBid(0, Bid{Amount: 8}))
	require.NoError(t, r.PlaceBid(1, Bid{Amount: 11}))
	require.NoError(t, r.Skip(2))
	require.NoError(t, r.PlaceBid(3, Bid{Amount: 11})) // dealer match
	require.True(t, r.Done())

	winner, bid := r.Winner()
	assert.Equal(t, 3, winner)
	assert.Equal(t, 11, bid.Amount)

	records := r.Records()
	assert.Equal(t, DecisionBid, records[0].Decision)
	assert.Equal(t, DecisionSkip, records[2].Decision)
}

func TestRound_NoActionAfterDone(t *testing.T) {
	t.Parallel()

	r := NewRound(0)
	require.NoError(t, r.Skip(1))
	require.NoError(t, r.Skip(2))
	require.NoError(t, r.Skip(3))
	require.NoError(t, r.PlaceBid(0, Bid{Amount: 7}))

	assert.Error(t, r.PlaceBid(1, Bid{Amount: 12}))
	assert.Error(t, r.Skip(1))
}

func TestRound_DefaultAction(t *testing.T) {
	t.Parallel()

	r := NewRound(0)

	// Non-dealer defaults to skip
	skip, _ := r.DefaultAction(1)
	assert.True(t, skip)

	// Dealer with no bids must open at the minimum
	skip, b := r.DefaultAction(0)
	assert.False(t, skip)
	assert.Equal(t, MinAmount, b.Amount)

	// Dealer with a standing bid defaults to matching it
	require.NoError(t, r.PlaceBid(1, Bid{Amount: 9, WithoutTrump: true}))
	skip, b = r.DefaultAction(0)
	assert.False(t, skip)
	assert.Equal(t, Bid{Amount: 9, WithoutTrump: true}, b)
}
