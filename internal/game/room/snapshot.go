package room

import (
	"github.com/palemoky/color-whist/internal/game/bet"
	"github.com/palemoky/color-whist/internal/game/trick"
	"github.com/palemoky/color-whist/internal/protocol"
)

// snapshotFor 生成按接收者裁剪的状态快照：
// 手牌只出现在本人的快照里，viewerID 为空（观战者）不含任何手牌。
// 调用方持有 r.mu。
func (r *Room) snapshotFor(viewerID string) protocol.GameStateDTO {
	dto := protocol.GameStateDTO{
		GameID:      r.ID,
		Mode:        string(r.Mode),
		Phase:       string(r.phase),
		DealerSeat:  r.dealer,
		CurrentSeat: r.current,
		Trump:       r.trump.String(),
		TrumpSet:    r.trumpSet,
		Team1Score:  r.scores[0],
		Team2Score:  r.scores[1],
		RoundNumber: r.roundNumber,
	}

	if r.phase == PhaseTeamSelection {
		for _, id := range r.joinOrder {
			p := r.players[id]
			dto.Players = append(dto.Players, protocol.PlayerInfo{
				ID:        p.ID,
				Name:      p.Name,
				Seat:      -1,
				Team:      p.Team,
				IsBot:     p.IsBot,
				Connected: p.IsBot || p.Client != nil,
			})
		}
		return dto
	}

	for _, s := range r.seats {
		dto.Players = append(dto.Players, protocol.PlayerInfo{
			ID:        s.ID,
			Name:      s.Name,
			Seat:      s.Index,
			Team:      s.Team(),
			IsBot:     s.IsBot,
			IsEmpty:   s.IsEmpty(),
			Connected: s.IsBot || (!s.IsEmpty() && !s.Offline),
			Autoplay:  s.Autoplay,
			HandCount: len(s.Hand),
		})
		if viewerID != "" && s.ID == viewerID {
			dto.Hand = protocol.CardsToInfos(s.Hand)
		}
	}

	if r.curTrick != nil {
		dto.CurrentTrick = r.trickInfos(r.curTrick.Cards)
	} else {
		dto.CurrentTrick = []protocol.TrickCardInfo{}
	}
	if r.prevTrick != nil {
		dto.PreviousTrick = r.trickInfos(r.prevTrick.Cards)
	}

	dto.Bets = r.betInfos()
	if r.bidWinner >= 0 {
		dto.HighestBet = &protocol.BetInfo{
			PlayerID:     r.seats[r.bidWinner].ID,
			Amount:       r.winningBid.Amount,
			WithoutTrump: r.winningBid.WithoutTrump,
		}
	}
	return dto
}

// PlayersInfo 当前所有玩家的公开信息（不含手牌）
func (r *Room) PlayersInfo() []protocol.PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotFor("").Players
}

func (r *Room) trickInfos(cards []trick.PlayedCard) []protocol.TrickCardInfo {
	infos := make([]protocol.TrickCardInfo, len(cards))
	for i, pc := range cards {
		infos[i] = protocol.TrickCardInfo{
			PlayerID: r.seats[pc.Seat].ID,
			Card:     protocol.CardToInfo(pc.Card),
		}
	}
	return infos
}

func (r *Room) betInfos() []protocol.BetInfo {
	records := r.betRecords
	if r.betRound != nil {
		records = r.betRound.Records()
	}
	infos := make([]protocol.BetInfo, 0, 4)
	for seatIdx, rec := range records {
		info := protocol.BetInfo{PlayerID: r.seats[seatIdx].ID}
		switch rec.Decision {
		case bet.DecisionPending:
			info.Pending = true
		case bet.DecisionSkip:
			info.Skipped = true
		case bet.DecisionBid:
			info.Amount = rec.Bid.Amount
			info.WithoutTrump = rec.Bid.WithoutTrump
		}
		infos = append(infos, info)
	}
	return infos
}

// broadcastSnapshots 每次变更提交后给每个接收者发各自裁剪的快照。
// 投递走客户端发送队列，不阻塞变更路径。调用方持有 r.mu。
func (r *Room) broadcastSnapshots() {
	for _, s := range r.seats {
		if s != nil && s.Client != nil && !s.Offline {
			s.Client.SendMessage(protocol.MustNewMessage(protocol.MsgGameState, r.snapshotFor(s.ID)))
		}
	}
	spectatorView := r.snapshotFor("")
	for _, c := range r.spectators {
		c.SendMessage(protocol.MustNewMessage(protocol.MsgGameState, spectatorView))
	}
}
