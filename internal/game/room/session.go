package room

import (
	"log"

	"github.com/palemoky/color-whist/internal/apperrors"
	"github.com/palemoky/color-whist/internal/game/bet"
	"github.com/palemoky/color-whist/internal/game/card"
	"github.com/palemoky/color-whist/internal/game/score"
	"github.com/palemoky/color-whist/internal/game/trick"
	"github.com/palemoky/color-whist/internal/protocol"
)

// beginRound 开始新的一局：洗牌发牌、重置局内状态、进入叫分阶段。
// 调用方持有 r.mu。
func (r *Room) beginRound() {
	r.roundNumber++

	deck := card.NewDeck()
	deck.Shuffle()
	hands := deck.DealHands()
	for i, s := range r.seats {
		s.Hand = hands[i]
		s.TricksWon = 0
	}

	r.phase = PhaseBetting
	r.trump = card.None
	r.trumpSet = false
	r.betRound = bet.NewRound(r.dealer)
	r.bidWinner = -1
	r.winningBid = bet.Bid{}
	r.bettingTeam = 0
	r.curTrick = nil
	r.prevTrick = nil
	r.resolvedTricks = 0
	r.trickPoints = [2]int{}

	// 手牌只发给本人
	for _, s := range r.seats {
		if s.Client != nil && !s.Offline {
			s.Client.SendMessage(protocol.MustNewMessage(protocol.MsgDealCards, protocol.DealCardsPayload{
				Cards:       protocol.CardsToInfos(s.Hand),
				RoundNumber: r.roundNumber,
				DealerSeat:  r.dealer,
			}))
		}
	}

	log.Printf("🃏 房间 %s 第 %d 局发牌，庄家座位 %d", r.ID, r.roundNumber, r.dealer)
	r.notifyBetTurn()
}

// notifyBetTurn 进入下一个叫分回合。调用方持有 r.mu。
func (r *Room) notifyBetTurn() {
	r.current = r.betRound.CurrentSeat()
	seat := r.seats[r.current]

	r.broadcast(protocol.MustNewMessage(protocol.MsgBetTurn, protocol.BetTurnPayload{
		PlayerID: seat.ID,
		Timeout:  r.cfg.TurnTimeout,
	}))
	r.broadcastSnapshots()
	r.armTurnTimer()

	if seat.IsBot || seat.Autoplay || seat.IsEmpty() {
		r.scheduleAuto(r.turnSeq, botActDelay)
	}
}

// PlaceBet 处理叫分
func (r *Room) PlaceBet(playerID string, amount int, withoutTrump bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.placeBetLocked(playerID, amount, withoutTrump)
}

func (r *Room) placeBetLocked(playerID string, amount int, withoutTrump bool) error {
	if r.closed {
		return apperrors.ErrRoomNotFound
	}
	// 阶段数据不存在即结构性错配
	if r.phase != PhaseBetting || r.betRound == nil {
		return apperrors.ErrInvalidTransition
	}
	seat := r.seatByPlayer(playerID)
	if seat == nil {
		return apperrors.ErrNotInRoom
	}

	b := bet.Bid{Amount: amount, WithoutTrump: withoutTrump}
	if err := r.betRound.PlaceBid(seat.Index, b); err != nil {
		return err
	}

	r.stopTurnTimerLocked()
	r.broadcast(protocol.MustNewMessage(protocol.MsgBetPlaced, protocol.BetPlacedPayload{
		PlayerID:     playerID,
		PlayerName:   seat.Name,
		Amount:       amount,
		WithoutTrump: withoutTrump,
	}))

	if r.betRound.Done() {
		r.concludeBetting()
	} else {
		r.notifyBetTurn()
	}
	return nil
}

// SkipBet 处理放弃叫分
func (r *Room) SkipBet(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipBetLocked(playerID)
}

func (r *Room) skipBetLocked(playerID string) error {
	if r.closed {
		return apperrors.ErrRoomNotFound
	}
	if r.phase != PhaseBetting || r.betRound == nil {
		return apperrors.ErrInvalidTransition
	}
	seat := r.seatByPlayer(playerID)
	if seat == nil {
		return apperrors.ErrNotInRoom
	}

	if err := r.betRound.Skip(seat.Index); err != nil {
		return err
	}

	r.stopTurnTimerLocked()
	r.broadcast(protocol.MustNewMessage(protocol.MsgBetPlaced, protocol.BetPlacedPayload{
		PlayerID:   playerID,
		PlayerName: seat.Name,
		Skipped:    true,
	}))

	if r.betRound.Done() {
		r.concludeBetting()
	} else {
		r.notifyBetTurn()
	}
	return nil
}

// concludeBetting 叫分结束，进入出牌阶段。叫分获胜者领第一墩。
// 调用方持有 r.mu。
func (r *Room) concludeBetting() {
	winner, bid := r.betRound.Winner()
	r.betRecords = r.betRound.Records()
	r.betRound = nil

	r.bidWinner = winner
	r.winningBid = bid
	r.bettingTeam = r.seats[winner].Team()

	r.phase = PhasePlaying
	r.curTrick = trick.New(winner)
	r.current = winner

	r.broadcast(protocol.MustNewMessage(protocol.MsgBetWon, protocol.BetWonPayload{
		PlayerID:     r.seats[winner].ID,
		PlayerName:   r.seats[winner].Name,
		Amount:       bid.Amount,
		WithoutTrump: bid.WithoutTrump,
	}))
	log.Printf("💰 房间 %s 叫分结束：座位 %d 以 %d%s 拿下", r.ID, winner, bid.Amount,
		ternary(bid.WithoutTrump, "（无主）", ""))

	r.notifyPlayTurn()
}

// notifyPlayTurn 进入下一个出牌回合。调用方持有 r.mu。
func (r *Room) notifyPlayTurn() {
	seat := r.seats[r.current]

	ledColor := ""
	if led, ok := r.curTrick.LedColor(); ok {
		ledColor = led.String()
	}
	r.broadcast(protocol.MustNewMessage(protocol.MsgPlayTurn, protocol.PlayTurnPayload{
		PlayerID: seat.ID,
		Timeout:  r.cfg.TurnTimeout,
		LedColor: ledColor,
	}))
	r.broadcastSnapshots()
	r.armTurnTimer()

	if seat.IsBot || seat.Autoplay || seat.IsEmpty() {
		r.scheduleAuto(r.turnSeq, botActDelay)
	}
}

// PlayCard 处理出牌
func (r *Room) PlayCard(playerID string, c card.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playCardLocked(playerID, c)
}

func (r *Room) playCardLocked(playerID string, c card.Card) error {
	if r.closed {
		return apperrors.ErrRoomNotFound
	}
	if r.phase != PhasePlaying || r.curTrick == nil {
		return apperrors.ErrInvalidTransition
	}
	seat := r.seatByPlayer(playerID)
	if seat == nil {
		return apperrors.ErrNotInRoom
	}
	return r.playCardAtSeatLocked(seat, c)
}

// playCardAtSeatLocked 按座位执行出牌（托管路径也走这里，
// 合法性校验与真人一致）。调用方持有 r.mu。
func (r *Room) playCardAtSeatLocked(seat *Seat, c card.Card) error {
	if seat.Index != r.current {
		return apperrors.ErrNotYourTurn
	}
	if !c.Valid() {
		return apperrors.ErrInvalidPlay.WithReason("牌 %s 不合法", c)
	}
	if err := trick.LegalPlay(seat.Hand, c, r.curTrick); err != nil {
		return err
	}

	r.stopTurnTimerLocked()

	// 本局第一张牌定将：有主叫分取牌的颜色，无主叫分整局无将。
	// 定下后整局不再变更。
	trumpJustSet := false
	if !r.trumpSet {
		if !r.winningBid.WithoutTrump {
			r.trump = c.Color
		}
		r.trumpSet = true
		trumpJustSet = true
	}

	seat.Hand, _ = card.Remove(seat.Hand, c)
	r.curTrick.Cards = append(r.curTrick.Cards, trick.PlayedCard{Seat: seat.Index, Card: c})

	r.broadcast(protocol.MustNewMessage(protocol.MsgCardPlayed, protocol.CardPlayedPayload{
		PlayerID:   seat.ID,
		PlayerName: seat.Name,
		Card:       protocol.CardToInfo(c),
		TrumpSet:   trumpJustSet,
		Trump:      r.trump.String(),
	}))

	if !r.checkConservationLocked() {
		return nil // 房间已解散
	}

	if r.curTrick.Complete() {
		r.resolveTrick()
	} else {
		r.current = (r.current + 1) % 4
		r.notifyPlayTurn()
	}
	return nil
}

// resolveTrick 结算一墩。赢家领下一墩；第 8 墩后进入本局结算。
// 调用方持有 r.mu。
func (r *Room) resolveTrick() {
	winner := trick.Winner(r.trump, r.curTrick)
	points := trick.Points(r.curTrick)

	winSeat := r.seats[winner]
	winSeat.TricksWon++
	r.trickPoints[winSeat.Team()-1] += points

	r.prevTrick = r.curTrick
	r.resolvedTricks++

	r.broadcast(protocol.MustNewMessage(protocol.MsgTrickResolved, protocol.TrickResolvedPayload{
		WinnerID:   winSeat.ID,
		WinnerName: winSeat.Name,
		Points:     points,
	}))

	if r.resolvedTricks >= 8 {
		r.settleRound()
		return
	}

	r.curTrick = trick.New(winner)
	r.current = winner
	r.notifyPlayTurn()
}

// settleRound 本局结算：叫分队按是否完成目标加扣分，
// 对方无条件累加自己的墩分。随后要么开下一局（庄家右移），
// 要么任一队过线立即终局。调用方持有 r.mu。
func (r *Room) settleRound() {
	r.phase = PhaseScoring
	r.curTrick = nil
	r.stopTurnTimerLocked()
	r.turnSeq++ // 作废所有在途回合计时

	res := score.Settle(r.bettingTeam, r.winningBid, r.trickPoints)
	r.scores[0] += res.Deltas[0]
	r.scores[1] += res.Deltas[1]
	r.history = append(r.history, res)

	r.broadcast(protocol.MustNewMessage(protocol.MsgRoundComplete, protocol.RoundCompletePayload{
		RoundNumber:  r.roundNumber,
		BettingTeam:  r.bettingTeam,
		BetAmount:    r.winningBid.Amount,
		WithoutTrump: r.winningBid.WithoutTrump,
		BetMade:      res.BetMade,
		Team1:        protocol.TeamRoundResult{TrickPoints: res.TrickPoints[0], Delta: res.Deltas[0], Total: r.scores[0]},
		Team2:        protocol.TeamRoundResult{TrickPoints: res.TrickPoints[1], Delta: res.Deltas[1], Total: r.scores[1]},
	}))
	r.broadcastSnapshots()
	log.Printf("📊 房间 %s 第 %d 局结算：队1 %+d（共 %d），队2 %+d（共 %d）",
		r.ID, r.roundNumber, res.Deltas[0], r.scores[0], res.Deltas[1], r.scores[1])

	if team, over := score.WinnerIfAny(r.scores); over {
		r.finishGame(team)
		return
	}

	r.scheduleNextRound()
}

// finishGame 终局。调用方持有 r.mu。
func (r *Room) finishGame(winningTeam int) {
	r.phase = PhaseGameOver
	r.finishedAt = nowFunc()
	r.stopTimersLocked()

	r.broadcast(protocol.MustNewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
		WinningTeam: winningTeam,
		Team1Score:  r.scores[0],
		Team2Score:  r.scores[1],
		Rounds:      r.roundNumber,
	}))
	log.Printf("🏆 房间 %s 终局：队伍 %d 获胜（%d : %d）", r.ID, winningTeam, r.scores[0], r.scores[1])

	// ranked 模式把真人战绩异步落盘，不阻塞变更路径
	if r.Mode == ModeRanked && r.recorder != nil {
		type result struct {
			id, name string
			win      bool
		}
		var results []result
		for _, s := range r.seats {
			if !s.IsEmpty() && !s.IsBot {
				results = append(results, result{s.ID, s.Name, s.Team() == winningTeam})
			}
		}
		recorder := r.recorder
		go func() {
			for _, res := range results {
				recorder.RecordGameResult(res.id, res.name, res.win)
			}
		}()
	}
}

// ToggleAutoplay 手动切换托管，与超时触发的托管互相独立
func (r *Room) ToggleAutoplay(playerID string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return apperrors.ErrRoomNotFound
	}
	seat := r.seatByPlayer(playerID)
	if seat == nil {
		return apperrors.ErrNotInRoom
	}

	seat.Autoplay = enabled
	r.broadcast(protocol.MustNewMessage(protocol.MsgAutoplaySet, protocol.AutoplaySetPayload{
		PlayerID: playerID,
		Enabled:  enabled,
	}))

	if enabled && r.current == seat.Index && (r.phase == PhaseBetting || r.phase == PhasePlaying) {
		r.scheduleAuto(r.turnSeq, botActDelay)
	}
	return nil
}

// checkConservationLocked 校验牌张守恒：
// 手牌 + 当前墩 + 已结算墩 = 32。被破坏说明引擎内部出错，
// 只解散本房间，绝不波及其他房间。返回 false 表示房间已解散。
func (r *Room) checkConservationLocked() bool {
	total := 0
	for _, s := range r.seats {
		total += len(s.Hand)
	}
	if r.curTrick != nil {
		total += len(r.curTrick.Cards)
		if len(r.curTrick.Cards) > 4 {
			r.closeLocked("内部错误：当前墩超过 4 张牌")
			return false
		}
	}
	total += r.resolvedTricks * 4

	if total != card.DeckSize {
		r.closeLocked("内部错误：牌张守恒被破坏")
		return false
	}
	return true
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
