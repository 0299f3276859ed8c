package card

import (
	"fmt"
	"math/rand/v2"
)

// Color 定义牌的颜色（本游戏没有传统花色，只有四种颜色）
type Color int

const (
	Red Color = iota
	Brown
	Green
	Blue
	// None 表示无颜色（无主局时 trump 的占位值）
	None Color = -1
)

// colorNames 颜色字符串映射表
var colorNames = map[Color]string{
	Red:   "red",
	Brown: "brown",
	Green: "green",
	Blue:  "blue",
	None:  "none",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "unknown"
}

// ColorFromString 解析颜色字符串（用于协议层）
func ColorFromString(s string) (Color, error) {
	for c, name := range colorNames {
		if c != None && name == s {
			return c, nil
		}
	}
	return None, fmt.Errorf("无法识别的颜色: %q", s)
}

const (
	// MinValue / MaxValue 牌面值范围
	MinValue = 0
	MaxValue = 7

	// DeckSize 整副牌张数：4 色 × 8 值
	DeckSize = 32

	// HandSize 每人手牌数
	HandSize = DeckSize / 4
)

// 特殊牌修正：红 0 加 5 分，棕 0 减 2 分，计入赢下该墩的队伍
const (
	RedZeroBonus   = 5
	BrownZeroMalus = -2
)

// Card 定义一张牌，值相等即牌相等
type Card struct {
	Color Color `json:"color"`
	Value int   `json:"value"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s-%d", c.Color, c.Value)
}

// Points 返回这张牌的基础分值（即牌面值）
func (c Card) Points() int {
	return c.Value
}

// Modifier 返回这张牌的特殊修正分，普通牌为 0
func (c Card) Modifier() int {
	if c.Value != 0 {
		return 0
	}
	switch c.Color {
	case Red:
		return RedZeroBonus
	case Brown:
		return BrownZeroMalus
	}
	return 0
}

// Valid 检查牌是否在合法取值范围内
func (c Card) Valid() bool {
	return c.Color >= Red && c.Color <= Blue && c.Value >= MinValue && c.Value <= MaxValue
}

// Deck 定义一副牌
type Deck []Card

// NewDeck 生成完整的 32 张牌
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for c := Red; c <= Blue; c++ {
		for v := MinValue; v <= MaxValue; v++ {
			deck = append(deck, Card{Color: c, Value: v})
		}
	}
	return deck
}

// Shuffle 洗牌
func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// DealHands 将整副牌平均发给 4 个座位，每人 8 张
func (d Deck) DealHands() [4][]Card {
	var hands [4][]Card
	for i := range hands {
		hands[i] = make([]Card, 0, HandSize)
	}
	for i, c := range d {
		hands[i%4] = append(hands[i%4], c)
	}
	return hands
}

// Remove 从手牌中移除一张牌，返回新手牌和是否找到
func Remove(hand []Card, target Card) ([]Card, bool) {
	for i, c := range hand {
		if c == target {
			out := make([]Card, 0, len(hand)-1)
			out = append(out, hand[:i]...)
			out = append(out, hand[i+1:]...)
			return out, true
		}
	}
	return hand, false
}

// Contains 检查手牌中是否有指定的牌
func Contains(hand []Card, target Card) bool {
	for _, c := range hand {
		if c == target {
			return true
		}
	}
	return false
}

// HasColor 检查手牌中是否有指定颜色的牌
func HasColor(hand []Card, color Color) bool {
	for _, c := range hand {
		if c.Color == color {
			return true
		}
	}
	return false
}
