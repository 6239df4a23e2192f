package game

import (
	"errors"

	"imposter_web/internal/models"
)

var ErrVotesIncomplete = errors.New("every player must vote before tallying")

// Tally 計算得票並判定勝負
// 得票最高的位置全部出局（平手時一起出局）；只要任一出局位置是臥底，船員獲勝
// 平手時可能連帶淘汰無辜者卻仍算船員勝，這是規則本身的設定，刻意不修正
func Tally(votes []int, imposters []int) (votedOut []int, crewWon bool, err error) {
	if len(votes) == 0 {
		return nil, false, ErrVotesIncomplete
	}
	counts := make(map[int]int)
	for _, v := range votes {
		if v == models.NoVote {
			return nil, false, ErrVotesIncomplete
		}
		counts[v]++
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	// 依位置由小到大收集，讓結果順序穩定
	for target := 0; target < len(votes); target++ {
		if counts[target] == maxCount {
			votedOut = append(votedOut, target)
		}
	}

	isImposter := make(map[int]bool, len(imposters))
	for _, i := range imposters {
		isImposter[i] = true
	}
	for _, out := range votedOut {
		if isImposter[out] {
			crewWon = true
			break
		}
	}
	return votedOut, crewWon, nil
}

// ApplyScores 依勝負更新累計分數
// 船員勝：每位非臥底 +2；船員敗：每位臥底 +3；其他人不動
func ApplyScores(players []Player, imposters []int, crewWon bool) {
	isImposter := make(map[int]bool, len(imposters))
	for _, i := range imposters {
		isImposter[i] = true
	}
	for i := range players {
		if crewWon && !isImposter[i] {
			players[i].Score += 2
		}
		if !crewWon && isImposter[i] {
			players[i].Score += 3
		}
	}
}
