package trick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/color-whist/internal/game/card"
)

func c(color card.Color, value int) card.Card {
	return card.Card{Color: color, Value: value}
}

func TestLegalPlay_FollowLedColor(t *testing.T) {
	t.Parallel()

	hand := []card.Card{c(card.Red, 3), c(card.Green, 5)}

	tr := New(0)
	tr.Cards = append(tr.Cards, PlayedCard{Seat: 0, Card: c(card.Red, 1)})

	// Holding the led color: must follow
	assert.Error(t, LegalPlay(hand, c(card.Green, 5), tr))
	assert.NoError(t, LegalPlay(hand, c(card.Red, 3), tr))

	// Not holding the led color: anything goes
	hand = []card.Card{c(card.Green, 5), c(card.Blue, 2)}
	assert.NoError(t, LegalPlay(hand, c(card.Blue, 2), tr))
}

func TestLegalPlay_CardMustBeInHand(t *testing.T) {
	t.Parallel()

	hand := []card.Card{c(card.Red, 3)}
	assert.Error(t, LegalPlay(hand, c(card.Red, 4), New(0)))
}

func TestLegalPlay_LeaderPlaysAnything(t *testing.T) {
	t.Parallel()

	hand := []card.Card{c(card.Red, 3), c(card.Green, 5)}
	assert.NoError(t, LegalPlay(hand, c(card.Green, 5), New(0)))
}

func TestWinner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		trump    card.Color
		cards    []PlayedCard
		expected int
	}{
		{
			name:  "highest of led color wins without trump involvement",
			trump: card.Blue,
			cards: []PlayedCard{
				{Seat: 0, Card: c(card.Red, 3)},
				{Seat: 1, Card: c(card.Red, 7)},
				{Seat: 2, Card: c(card.Red, 1)},
				{Seat: 3, Card: c(card.Red, 5)},
			},
			expected: 1,
		},
		{
			name:  "lowest trump beats highest led color",
			trump: card.Blue,
			cards: []PlayedCard{
				{Seat: 0, Card: c(card.Red, 7)},
				{Seat: 1, Card: c(card.Blue, 0)},
				{Seat: 2, Card: c(card.Red, 6)},
				{Seat: 3, Card: c(card.Red, 5)},
			},
			expected: 1,
		},
		{
			name:  "highest trump wins among several",
			trump: card.Green,
			cards: []PlayedCard{
				{Seat: 2, Card: c(card.Red, 7)},
				{Seat: 3, Card: c(card.Green, 2)},
				{Seat: 0, Card: c(card.Green, 6)},
				{Seat: 1, Card: c(card.Red, 6)},
			},
			expected: 0,
		},
		{
			name:  "off-color card never wins",
			trump: card.Blue,
			cards: []PlayedCard{
				{Seat: 0, Card: c(card.Red, 0)},
				{Seat: 1, Card: c(card.Green, 7)},
				{Seat: 2, Card: c(card.Brown, 7)},
				{Seat: 3, Card: c(card.Red, 1)},
			},
			expected: 3,
		},
		{
			name:  "no trump round: led color rules",
			trump: card.None,
			cards: []PlayedCard{
				{Seat: 0, Card: c(card.Green, 4)},
				{Seat: 1, Card: c(card.Blue, 7)},
				{Seat: 2, Card: c(card.Green, 6)},
				{Seat: 3, Card: c(card.Brown, 7)},
			},
			expected: 2,
		},
		{
			name:  "trump led and followed",
			trump: card.Red,
			cards: []PlayedCard{
				{Seat: 1, Card: c(card.Red, 2)},
				{Seat: 2, Card: c(card.Red, 4)},
				{Seat: 3, Card: c(card.Blue, 7)},
				{Seat: 0, Card: c(card.Red, 3)},
			},
			expected: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.cards[0].Seat)
			tr.Cards = tt.cards
			assert.Equal(t, tt.expected, Winner(tt.trump, tr))
		})
	}
}

// The winner must depend on the led color and the card set, not on
// which seat happens to be evaluated first.
func TestWinner_SeatOrderIndependent(t *testing.T) {
	t.Parallel()

	base := []PlayedCard{
		{Seat: 0, Card: c(card.Red, 7)},
		{Seat: 1, Card: c(card.Blue, 1)},
		{Seat: 2, Card: c(card.Red, 6)},
		{Seat: 3, Card: c(card.Blue, 3)},
	}

	// Rotate the play order; the led color stays red
	for shift := 0; shift < 4; shift++ {
		if base[shift].Card.Color != card.Red {
			continue
		}
		rotated := append(append([]PlayedCard{}, base[shift:]...), base[:shift]...)
		tr := New(rotated[0].Seat)
		tr.Cards = rotated
		assert.Equal(t, 3, Winner(card.Blue, tr), "shift %d", shift)
	}
}

func TestPoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cards    []PlayedCard
		expected int
	}{
		{
			name: "face values only",
			cards: []PlayedCard{
				{Card: c(card.Red, 3)},
				{Card: c(card.Green, 5)},
				{Card: c(card.Blue, 7)},
				{Card: c(card.Brown, 1)},
			},
			expected: 16,
		},
		{
			name: "red zero adds five",
			cards: []PlayedCard{
				{Card: c(card.Red, 0)},
				{Card: c(card.Green, 2)},
				{Card: c(card.Blue, 1)},
				{Card: c(card.Brown, 4)},
			},
			expected: 12,
		},
		{
			name: "brown zero subtracts two",
			cards: []PlayedCard{
				{Card: c(card.Brown, 0)},
				{Card: c(card.Green, 2)},
				{Card: c(card.Blue, 1)},
				{Card: c(card.Red, 4)},
			},
			expected: 5,
		},
		{
			name: "both modifiers in one trick",
			cards: []PlayedCard{
				{Card: c(card.Red, 0)},
				{Card: c(card.Brown, 0)},
				{Card: c(card.Green, 0)},
				{Card: c(card.Blue, 0)},
			},
			expected: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(0)
			tr.Cards = tt.cards
			assert.Equal(t, tt.expected, Points(tr))
		})
	}
}

func TestFirstLegal(t *testing.T) {
	t.Parallel()

	tr := New(0)
	tr.Cards = append(tr.Cards, PlayedCard{Seat: 0, Card: c(card.Green, 3)})

	// First card of the led color in hand order
	hand := []card.Card{c(card.Red, 1), c(card.Green, 5), c(card.Green, 2)}
	assert.Equal(t, c(card.Green, 5), FirstLegal(hand, tr))

	// No led color: first card overall
	hand = []card.Card{c(card.Red, 1), c(card.Blue, 5)}
	assert.Equal(t, c(card.Red, 1), FirstLegal(hand, tr))

	require.True(t, tr.Complete() == false)
}
