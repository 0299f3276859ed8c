package bet

import (
	"fmt"

	"github.com/palemoky/color-whist/internal/apperrors"
)

const (
	// MinAmount / MaxAmount 叫分范围
	MinAmount = 7
	MaxAmount = 12
)

// Bid 一次叫分：分数 + 是否无主
type Bid struct {
	Amount       int  `json:"amount"`
	WithoutTrump bool `json:"without_trump"`
}

// Beats 有效叫分排序：先比分数，分数相同时无主压有主
func (b Bid) Beats(other Bid) bool {
	if b.Amount != other.Amount {
		return b.Amount > other.Amount
	}
	return b.WithoutTrump && !other.WithoutTrump
}

// Decision 座位在本轮叫分中的决定
type Decision int

const (
	DecisionPending Decision = iota // 尚未行动
	DecisionSkip                    // 放弃
	DecisionBid                     // 叫分
)

// SeatBet 单个座位的叫分记录
type SeatBet struct {
	Decision Decision
	Bid      Bid
}

// Round 一轮叫分。从庄家下一位开始顺时针，庄家最后行动，
// 每个座位恰好行动一次，放弃后本轮不再参与。
type Round struct {
	dealer  int
	acted   int // 已行动座位数
	records [4]SeatBet
	highest Bid
	winner  int // 当前最高叫分者，-1 表示还没人叫
}

// NewRound 创建一轮叫分
func NewRound(dealer int) *Round {
	return &Round{dealer: dealer, winner: -1}
}

// CurrentSeat 返回当前应行动的座位
func (r *Round) CurrentSeat() int {
	return (r.dealer + 1 + r.acted) % 4
}

// Dealer 返回庄家座位
func (r *Round) Dealer() int {
	return r.dealer
}

// Done 是否所有 4 个座位都已行动
func (r *Round) Done() bool {
	return r.acted >= 4
}

// Records 返回各座位的叫分记录（按座位索引）
func (r *Round) Records() [4]SeatBet {
	return r.records
}

// Winner 返回叫分获胜者及其叫分。庄家平叫时庄家获胜，
// 因为获胜者始终是最后一个确立最高有效叫分的座位。
func (r *Round) Winner() (int, Bid) {
	return r.winner, r.highest
}

// HasBid 本轮是否已有人叫分
func (r *Round) HasBid() bool {
	return r.winner >= 0
}

// PlaceBid 处理叫分。非庄家必须严格压过当前最高有效叫分，
// 庄家额外享有平叫特权（可以恰好等于当前最高叫分）。
func (r *Round) PlaceBid(seat int, b Bid) error {
	if r.Done() {
		return apperrors.ErrInvalidTransition
	}
	if seat != r.CurrentSeat() {
		return apperrors.ErrNotYourTurn
	}
	if b.Amount < MinAmount || b.Amount > MaxAmount {
		return apperrors.ErrInvalidBet.WithReason("分数必须在 %d-%d 之间", MinAmount, MaxAmount)
	}
	if r.HasBid() && !b.Beats(r.highest) {
		isDealerMatch := seat == r.dealer && b == r.highest
		if !isDealerMatch {
			return apperrors.ErrInvalidBet.WithReason("必须压过当前最高叫分 %s", formatBid(r.highest))
		}
	}

	r.records[seat] = SeatBet{Decision: DecisionBid, Bid: b}
	r.highest = b
	r.winner = seat
	r.acted++
	return nil
}

// Skip 处理放弃。庄家在已有人叫分时不能放弃；
// 三家都放弃时庄家也不能放弃，必须叫底分。
func (r *Round) Skip(seat int) error {
	if r.Done() {
		return apperrors.ErrInvalidTransition
	}
	if seat != r.CurrentSeat() {
		return apperrors.ErrNotYourTurn
	}
	if seat == r.dealer {
		if r.HasBid() {
			return apperrors.ErrInvalidBet.WithReason("已有人叫分，庄家不能放弃")
		}
		return apperrors.ErrInvalidBet.WithReason("三家放弃后庄家必须叫分")
	}

	r.records[seat] = SeatBet{Decision: DecisionSkip}
	r.acted++
	return nil
}

// DefaultAction 返回座位的默认动作（托管/超时用）：
// 能放弃则放弃，否则叫最低合法分。
func (r *Round) DefaultAction(seat int) (skip bool, b Bid) {
	if seat != r.dealer {
		return true, Bid{}
	}
	if r.HasBid() {
		// 庄家的最低合法动作是平叫
		return false, r.highest
	}
	return false, Bid{Amount: MinAmount}
}

func formatBid(b Bid) string {
	if b.WithoutTrump {
		return fmt.Sprintf("%d(无主)", b.Amount)
	}
	return fmt.Sprintf("%d", b.Amount)
}
