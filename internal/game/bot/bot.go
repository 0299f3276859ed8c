package bot

import (
	"github.com/palemoky/color-whist/internal/game/bet"
	"github.com/palemoky/color-whist/internal/game/card"
	"github.com/palemoky/color-whist/internal/game/trick"
)

// Action 机器人的一次决策。叫分阶段填 Skip 或 Bid，
// 出牌阶段填 Card。
type Action struct {
	Skip bool
	Bid  *bet.Bid
	Card *card.Card
}

// View 机器人可见的局面。只读快照，策略不得修改。
type View struct {
	Seat     int
	Hand     []card.Card
	BetRound *bet.Round   // 叫分阶段非 nil
	Trick    *trick.Trick // 出牌阶段非 nil
	Trump    card.Color
}

// Strategy 机器人策略：纯函数，局面 + 座位 → 动作。
// 难度档位就是不同的 Strategy 实现，规则引擎不关心。
type Strategy interface {
	Decide(v View) Action
}

// Basic 最保守的默认策略：能放弃就放弃，
// 必须叫分时叫最低合法分，出牌出手牌顺序中第一张合法的。
// 托管（超时代打）也走同样的动作。
type Basic struct{}

func (Basic) Decide(v View) Action {
	if v.BetRound != nil {
		skip, b := v.BetRound.DefaultAction(v.Seat)
		if skip {
			return Action{Skip: true}
		}
		return Action{Bid: &b}
	}
	c := trick.FirstLegal(v.Hand, v.Trick)
	return Action{Card: &c}
}
