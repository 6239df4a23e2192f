package models

// Phase 表示回合目前所在的階段
type Phase string

const (
	PhaseLobby       Phase = "lobby"       // 尚未開始回合
	PhaseReveal      Phase = "reveal"      // 玩家逐一查看身份卡
	PhaseDiscuss     Phase = "discuss"     // 討論與計時
	PhaseVote        Phase = "vote"        // 投票
	PhaseResult      Phase = "result"      // 顯示本回合結果
	PhaseLeaderboard Phase = "leaderboard" // 累計排行榜
	PhaseSessions    Phase = "sessions"    // 場次結束，回到歷史紀錄
)

// String 回傳階段的字串表示
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo 檢查從目前階段轉移到目標階段是否合法
// 階段只能往前走，唯一的例外是提前結束場次時直接跳到 sessions
func (p Phase) CanTransitionTo(target Phase) bool {
	if target == PhaseSessions {
		return true // 任何階段都可以提前結束場次
	}

	validTransitions := map[Phase][]Phase{
		PhaseLobby:       {PhaseReveal},
		PhaseReveal:      {PhaseDiscuss},
		PhaseDiscuss:     {PhaseVote},
		PhaseVote:        {PhaseResult},
		PhaseResult:      {PhaseLeaderboard},
		PhaseLeaderboard: {PhaseReveal}, // 開始下一回合
	}

	for _, next := range validTransitions[p] {
		if next == target {
			return true
		}
	}
	return false
}
