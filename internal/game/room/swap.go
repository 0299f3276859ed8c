package room

import (
	"log"
	"time"

	"github.com/palemoky/color-whist/internal/apperrors"
	"github.com/palemoky/color-whist/internal/protocol"
)

// swapRequest 一个待确认的换座请求
type swapRequest struct {
	from     string // 发起者玩家 ID
	targetID string // 目标玩家 ID
	fromSeat int
	toSeat   int
	timer    *time.Timer
}

// RequestSwap 请求与另一个座位互换。目标是机器人或空座位时
// 立即执行；目标是真人时需要对方在限时内确认。
// 同一发起者最多一个待处理请求，新请求顶掉旧的。
func (r *Room) RequestSwap(fromID, targetPlayerID string, targetSeat int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return apperrors.ErrRoomNotFound
	}
	if r.phase == PhaseTeamSelection || r.phase == PhaseGameOver {
		return apperrors.ErrSeatUnavailable.WithReason("当前阶段不允许换座")
	}
	fromSeat := r.seatByPlayer(fromID)
	if fromSeat == nil {
		return apperrors.ErrNotInRoom
	}

	var target *Seat
	if targetPlayerID != "" {
		for _, s := range r.seats {
			if !s.IsEmpty() && s.ID == targetPlayerID {
				target = s
				break
			}
		}
	} else if targetSeat >= 0 && targetSeat < 4 {
		target = r.seats[targetSeat]
	}
	if target == nil || target.Index == fromSeat.Index {
		return apperrors.ErrSeatUnavailable
	}

	// 机器人或空座位：直接换
	if target.IsBot || target.IsEmpty() {
		r.executeSwapLocked(fromSeat, target)
		return nil
	}

	// 目标已经有别人发来的待确认请求
	for _, req := range r.swaps {
		if req.targetID == target.ID {
			return apperrors.ErrSwapConflict
		}
	}

	// 顶掉发起者之前的待处理请求
	if old, ok := r.swaps[fromID]; ok {
		r.dropSwapLocked(old, "被新的换座请求取代")
	}

	req := &swapRequest{
		from:     fromID,
		targetID: target.ID,
		fromSeat: fromSeat.Index,
		toSeat:   target.Index,
	}
	r.swaps[fromID] = req
	req.timer = time.AfterFunc(r.cfg.SwapTimeoutDuration(), func() {
		r.onSwapTimeout(req)
	})

	if target.Client != nil {
		target.Client.SendMessage(protocol.MustNewMessage(protocol.MsgSwapRequested, protocol.SwapRequestedPayload{
			FromPlayerID:   fromID,
			FromPlayerName: fromSeat.Name,
			Timeout:        r.cfg.SwapTimeout,
		}))
	}
	return nil
}

// RespondSwap 回应发给自己的换座请求
func (r *Room) RespondSwap(responderID string, accept bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return apperrors.ErrRoomNotFound
	}

	var req *swapRequest
	for _, candidate := range r.swaps {
		if candidate.targetID == responderID {
			req = candidate
			break
		}
	}
	if req == nil {
		return apperrors.ErrSeatUnavailable.WithReason("没有待处理的换座请求")
	}

	req.timer.Stop()
	delete(r.swaps, req.from)

	if !accept {
		r.broadcast(protocol.MustNewMessage(protocol.MsgSwapResolved, protocol.SwapResolvedPayload{
			Executed: false,
			PlayerA:  req.from,
			PlayerB:  req.targetID,
			SeatA:    req.fromSeat,
			SeatB:    req.toSeat,
			Reason:   "对方拒绝",
		}))
		return nil
	}

	// 确认时双方可能已经被其他换座挪走，重新校验
	a, b := r.seats[req.fromSeat], r.seats[req.toSeat]
	if a.ID != req.from || b.ID != req.targetID {
		r.broadcast(protocol.MustNewMessage(protocol.MsgSwapResolved, protocol.SwapResolvedPayload{
			Executed: false,
			PlayerA:  req.from,
			PlayerB:  req.targetID,
			SeatA:    req.fromSeat,
			SeatB:    req.toSeat,
			Reason:   "座位已变更",
		}))
		return nil
	}

	r.executeSwapLocked(a, b)
	return nil
}

// executeSwapLocked 互换两个座位的占有者。身份（ID/昵称/连接/
// 机器人标记/托管/离线）随人走，手牌、已赢墩数留在座位上；
// 回合指针和庄家都是座位索引，换座后天然保持正确的座位序。
// 队伍由座位索引推导，跨队互换时两人队伍随之互换。
// 调用方持有 r.mu。
func (r *Room) executeSwapLocked(a, b *Seat) {
	idA, idB := a.ID, b.ID

	a.ID, b.ID = b.ID, a.ID
	a.Name, b.Name = b.Name, a.Name
	a.IsBot, b.IsBot = b.IsBot, a.IsBot
	a.Offline, b.Offline = b.Offline, a.Offline
	a.Autoplay, b.Autoplay = b.Autoplay, a.Autoplay
	a.Client, b.Client = b.Client, a.Client

	// 双方名下的其他待处理请求全部作废
	r.cancelSwapsFor(idA)
	r.cancelSwapsFor(idB)

	r.broadcast(protocol.MustNewMessage(protocol.MsgSwapResolved, protocol.SwapResolvedPayload{
		Executed: true,
		PlayerA:  idA,
		PlayerB:  idB,
		SeatA:    a.Index,
		SeatB:    b.Index,
	}))
	r.broadcastSnapshots()
	log.Printf("🔀 房间 %s 座位 %d 与 %d 互换", r.ID, a.Index, b.Index)

	// 当前回合座位换上了机器人/托管/空位，代打一手
	if r.phase == PhaseBetting || r.phase == PhasePlaying {
		cur := r.seats[r.current]
		if cur.IsBot || cur.Autoplay || cur.IsEmpty() {
			r.scheduleAuto(r.turnSeq, botActDelay)
		}
	}
}

// onSwapTimeout 确认超时自动拒绝
func (r *Room) onSwapTimeout(req *swapRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.swaps[req.from]; !ok || current != req {
		return
	}
	delete(r.swaps, req.from)
	r.broadcast(protocol.MustNewMessage(protocol.MsgSwapResolved, protocol.SwapResolvedPayload{
		Executed: false,
		PlayerA:  req.from,
		PlayerB:  req.targetID,
		SeatA:    req.fromSeat,
		SeatB:    req.toSeat,
		Reason:   "确认超时",
	}))
}

// dropSwapLocked 撤销一个待处理请求并通知。调用方持有 r.mu。
func (r *Room) dropSwapLocked(req *swapRequest, reason string) {
	if req.timer != nil {
		req.timer.Stop()
	}
	delete(r.swaps, req.from)
	r.broadcast(protocol.MustNewMessage(protocol.MsgSwapResolved, protocol.SwapResolvedPayload{
		Executed: false,
		PlayerA:  req.from,
		PlayerB:  req.targetID,
		SeatA:    req.fromSeat,
		SeatB:    req.toSeat,
		Reason:   reason,
	}))
}

// cancelSwapsFor 作废某玩家名下（发起或待回应）的请求。
// 调用方持有 r.mu。
func (r *Room) cancelSwapsFor(playerID string) {
	for _, req := range r.swaps {
		if req.from == playerID || req.targetID == playerID {
			if req.timer != nil {
				req.timer.Stop()
			}
			delete(r.swaps, req.from)
		}
	}
}
