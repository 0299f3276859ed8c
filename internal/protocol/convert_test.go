package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/color-whist/internal/game/card"
)

func TestCardConversion_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, c := range card.NewDeck() {
		info := CardToInfo(c)
		back, err := InfoToCard(info)
		require.NoError(t, err)
		assert.Equal(t, c, back)
	}
}

func TestInfoToCard_UnknownColor(t *testing.T) {
	t.Parallel()

	_, err := InfoToCard(CardInfo{Color: "purple", Value: 3})
	assert.Error(t, err)
}

func TestCardsToInfos(t *testing.T) {
	t.Parallel()

	cards := []card.Card{
		{Color: card.Red, Value: 0},
		{Color: card.Brown, Value: 7},
	}
	infos := CardsToInfos(cards)

	require.Len(t, infos, 2)
	assert.Equal(t, CardInfo{Color: "red", Value: 0}, infos[0])
	assert.Equal(t, CardInfo{Color: "brown", Value: 7}, infos[1])
}
