package room

import (
	"log"
	"time"

	"github.com/palemoky/color-whist/internal/game/bot"
	"github.com/palemoky/color-whist/internal/protocol"
)

const (
	// 机器人/托管行动前的短暂停顿，让客户端来得及渲染
	botActDelay = 500 * time.Millisecond
	// 一局结算展示后到下一局发牌的间隔
	nextRoundDelay = 3 * time.Second
)

// armTurnTimer 给当前回合上计时。turnSeq 先递增再布置计时器，
// 回调里对不上序号的一律视为过期，这样行动提交和计时器取消
// 在房间锁下天然原子。调用方持有 r.mu。
func (r *Room) armTurnTimer() {
	r.turnSeq++
	seq := r.turnSeq
	r.turnTimer = time.AfterFunc(r.cfg.TurnTimeoutDuration(), func() {
		r.onTurnTimeout(seq)
	})
}

// stopTurnTimerLocked 行动提交时取消回合计时。调用方持有 r.mu。
func (r *Room) stopTurnTimerLocked() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
}

func (r *Room) stopTimersLocked() {
	r.stopTurnTimerLocked()
	if r.roundTimer != nil {
		r.roundTimer.Stop()
		r.roundTimer = nil
	}
	for _, req := range r.swaps {
		if req.timer != nil {
			req.timer.Stop()
		}
	}
}

// onTurnTimeout 回合超时：该座位转入托管（持续到手动解除），
// 并立即代打一个默认合法动作。
func (r *Room) onTurnTimeout(seq uint64) {
	r.mu.Lock()
	if r.closed || seq != r.turnSeq {
		r.mu.Unlock()
		return
	}

	seat := r.seats[r.current]
	if !seat.Autoplay && !seat.IsBot {
		seat.Autoplay = true
		r.broadcast(protocol.MustNewMessage(protocol.MsgAutoplaySet, protocol.AutoplaySetPayload{
			PlayerID:  seat.ID,
			Enabled:   true,
			ByTimeout: true,
		}))
		log.Printf("⏰ 房间 %s 座位 %d 超时，转入托管", r.ID, seat.Index)
	}
	r.mu.Unlock()

	r.actAuto(seq)
}

// scheduleAuto 延迟执行机器人/托管动作。调用方持有 r.mu。
func (r *Room) scheduleAuto(seq uint64, delay time.Duration) {
	time.AfterFunc(delay, func() {
		r.actAuto(seq)
	})
}

// actAuto 替当前座位执行策略动作。拿锁校验序号，
// 计算动作后释放锁走正常的公开入口，所以和真人操作
// 的合法性校验完全一致，也不会与重连/换座交错。
func (r *Room) actAuto(seq uint64) {
	r.mu.Lock()
	if r.closed || seq != r.turnSeq {
		r.mu.Unlock()
		return
	}
	seat := r.seats[r.current]

	view := bot.View{
		Seat:     seat.Index,
		Hand:     seat.Hand,
		BetRound: r.betRound,
		Trick:    r.curTrick,
		Trump:    r.trump,
	}
	action := r.strategy.Decide(view)

	// 空座位没有 ID，用内部路径直接按座位执行
	if r.phase == PhaseBetting {
		if action.Skip {
			err := r.betRound.Skip(seat.Index)
			if err == nil {
				r.commitAutoBetLocked(seat, 0, false, true)
			}
			r.mu.Unlock()
			return
		}
		if action.Bid != nil {
			err := r.betRound.PlaceBid(seat.Index, *action.Bid)
			if err == nil {
				r.commitAutoBetLocked(seat, action.Bid.Amount, action.Bid.WithoutTrump, false)
			}
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
		return
	}

	if r.phase == PhasePlaying && action.Card != nil {
		if err := r.playCardAtSeatLocked(seat, *action.Card); err != nil {
			log.Printf("⚠️ 房间 %s 托管出牌失败（座位 %d）: %v", r.ID, seat.Index, err)
		}
	}
	r.mu.Unlock()
}

// commitAutoBetLocked 托管叫分提交后的广播与推进。调用方持有 r.mu。
func (r *Room) commitAutoBetLocked(seat *Seat, amount int, withoutTrump, skipped bool) {
	r.stopTurnTimerLocked()
	r.broadcast(protocol.MustNewMessage(protocol.MsgBetPlaced, protocol.BetPlacedPayload{
		PlayerID:     seat.ID,
		PlayerName:   seat.Name,
		Amount:       amount,
		WithoutTrump: withoutTrump,
		Skipped:      skipped,
	}))
	if r.betRound.Done() {
		r.concludeBetting()
	} else {
		r.notifyBetTurn()
	}
}

// scheduleNextRound 结算展示后开下一局，庄家右移一位。
// 调用方持有 r.mu。
func (r *Room) scheduleNextRound() {
	seq := r.turnSeq
	r.roundTimer = time.AfterFunc(nextRoundDelay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed || seq != r.turnSeq || r.phase != PhaseScoring {
			return
		}
		r.dealer = (r.dealer + 1) % 4
		r.beginRound()
	})
}
