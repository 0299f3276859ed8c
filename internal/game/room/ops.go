package room

import (
	"log"

	"github.com/palemoky/color-whist/internal/apperrors"
)

// ForceState 运维专用：强制设置队伍分数或阶段，只在测试环境
// 配置开启时可用。正常游戏逻辑不得依赖它的存在。
func (r *Room) ForceState(team1Score, team2Score *int, phase string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.opsOn {
		return apperrors.ErrOpsDisabled
	}
	if r.closed {
		return apperrors.ErrRoomNotFound
	}

	if team1Score != nil {
		r.scores[0] = *team1Score
	}
	if team2Score != nil {
		r.scores[1] = *team2Score
	}
	if phase != "" {
		switch Phase(phase) {
		case PhaseTeamSelection, PhaseBetting, PhasePlaying, PhaseScoring, PhaseGameOver:
			r.phase = Phase(phase)
		default:
			return apperrors.ErrInvalidTransition.WithReason("未知阶段 %q", phase)
		}
	}

	log.Printf("🛠️ 房间 %s 运维强制状态: 分数 %d:%d 阶段 %s", r.ID, r.scores[0], r.scores[1], r.phase)
	r.broadcastSnapshots()
	return nil
}

// Scores 当前两队累计分（运维/测试用）
func (r *Room) Scores() [2]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scores
}
