package score

import "github.com/palemoky/color-whist/internal/game/bet"

// WinningScore 累计达到该分数的队伍获胜
const WinningScore = 41

// RoundResult 一局结算结果
type RoundResult struct {
	BettingTeam int    // 1 或 2
	Bet         bet.Bid
	BetMade     bool    // 叫分队是否完成目标
	TrickPoints [2]int  // 两队本局墩分（含特殊牌修正），下标 = 队伍-1
	Deltas      [2]int  // 计入总分的变化量
}

// Settle 结算一局：叫分队墩分达到叫分则得恰好叫分
// （无主翻倍），否则扣叫分（无主翻倍）；
// 非叫分队无论如何都得自己的原始墩分。
func Settle(bettingTeam int, b bet.Bid, trickPoints [2]int) RoundResult {
	res := RoundResult{
		BettingTeam: bettingTeam,
		Bet:         b,
		TrickPoints: trickPoints,
	}

	stake := b.Amount
	if b.WithoutTrump {
		stake *= 2
	}

	betIdx := bettingTeam - 1
	otherIdx := 1 - betIdx

	if trickPoints[betIdx] >= b.Amount {
		res.BetMade = true
		res.Deltas[betIdx] = stake
	} else {
		res.Deltas[betIdx] = -stake
	}
	res.Deltas[otherIdx] = trickPoints[otherIdx]

	return res
}

// WinnerIfAny 检查是否有队伍达到获胜分数。
// 队伍 1 先判定，两队同时过线时队伍 1 获胜（确定性规则）。
func WinnerIfAny(scores [2]int) (team int, over bool) {
	if scores[0] >= WinningScore {
		return 1, true
	}
	if scores[1] >= WinningScore {
		return 2, true
	}
	return 0, false
}
