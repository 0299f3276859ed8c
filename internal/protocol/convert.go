package protocol

import "github.com/palemoky/color-whist/internal/game/card"

// CardToInfo 牌 → 传输格式
func CardToInfo(c card.Card) CardInfo {
	return CardInfo{Color: c.Color.String(), Value: c.Value}
}

// CardsToInfos 批量转换
func CardsToInfos(cards []card.Card) []CardInfo {
	infos := make([]CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = CardToInfo(c)
	}
	return infos
}

// InfoToCard 传输格式 → 牌
func InfoToCard(info CardInfo) (card.Card, error) {
	color, err := card.ColorFromString(info.Color)
	if err != nil {
		return card.Card{}, err
	}
	return card.Card{Color: color, Value: info.Value}, nil
}
