package trick

import (
	"github.com/palemoky/color-whist/internal/apperrors"
	"github.com/palemoky/color-whist/internal/game/card"
)

// PlayedCard 一墩中按出牌顺序记录的一张牌
type PlayedCard struct {
	Seat int
	Card card.Card
}

// Trick 当前墩
type Trick struct {
	Leader int          // 领出座位
	Cards  []PlayedCard // 0-4 张，按出牌顺序
}

// New 创建一个由指定座位领出的空墩
func New(leader int) *Trick {
	return &Trick{Leader: leader, Cards: make([]PlayedCard, 0, 4)}
}

// LedColor 返回本墩领出颜色；空墩返回 false
func (t *Trick) LedColor() (card.Color, bool) {
	if len(t.Cards) == 0 {
		return card.None, false
	}
	return t.Cards[0].Card.Color, true
}

// Complete 本墩是否已满 4 张
func (t *Trick) Complete() bool {
	return len(t.Cards) == 4
}

// LegalPlay 校验出牌合法性：手里有领出颜色就必须跟，
// 否则任意牌（包括将牌）都可以出。
func LegalPlay(hand []card.Card, c card.Card, t *Trick) error {
	if !card.Contains(hand, c) {
		return apperrors.ErrInvalidPlay.WithReason("牌 %s 不在手中", c)
	}
	led, ok := t.LedColor()
	if !ok {
		return nil // 领出，任意牌
	}
	if c.Color != led && card.HasColor(hand, led) {
		return apperrors.ErrInvalidPlay.WithReason("必须跟出 %s 色", led)
	}
	return nil
}

// FirstLegal 按手牌顺序返回第一张合法的牌（托管/超时用）。
// 手牌非空时必然存在。
func FirstLegal(hand []card.Card, t *Trick) card.Card {
	for _, c := range hand {
		if LegalPlay(hand, c, t) == nil {
			return c
		}
	}
	return hand[0]
}

// Winner 计算本墩赢家座位。纯函数，只取决于将牌颜色和 4 张牌：
// 将牌压一切非将牌；同为将牌或同为领出颜色时比大小；
// 既非将牌也非领出颜色的牌永远赢不了。
func Winner(trump card.Color, t *Trick) int {
	led := t.Cards[0].Card.Color
	best := t.Cards[0]
	for _, pc := range t.Cards[1:] {
		if beats(trump, led, pc.Card, best.Card) {
			best = pc
		}
	}
	return best.Seat
}

func beats(trump, led card.Color, c, best card.Card) bool {
	cTrump := trump != card.None && c.Color == trump
	bestTrump := trump != card.None && best.Color == trump
	if cTrump != bestTrump {
		return cTrump
	}
	if cTrump {
		return c.Value > best.Value
	}
	if c.Color != led {
		return false
	}
	if best.Color != led {
		return true
	}
	return c.Value > best.Value
}

// Points 计算本墩分值：4 张牌面值之和，外加特殊牌修正
// （红 0 加 5、棕 0 减 2），无论谁出的都计给墩的赢家。
func Points(t *Trick) int {
	points := 0
	for _, pc := range t.Cards {
		points += pc.Card.Points() + pc.Card.Modifier()
	}
	return points
}
