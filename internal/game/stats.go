package game

import "imposter_web/internal/models"

// Suspicion 是一位玩家在本場次中被投票的累計次數
type Suspicion struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MostSuspected 回傳本場次中被投最多票的玩家
// 平手時取名單順序在前者；沒有資料時回傳空名稱
func MostSuspected(players []Player, rounds []models.RoundResult) Suspicion {
	counts := make(map[string]int, len(players))
	for _, r := range rounds {
		for _, target := range r.VotesByPlayer {
			counts[target]++
		}
	}
	top := Suspicion{}
	found := false
	for _, p := range players {
		if !found || counts[p.Name] > top.Count {
			top = Suspicion{Name: p.Name, Count: counts[p.Name]}
			found = true
		}
	}
	return top
}

// Analytics 是跨場次的統計摘要
type Analytics struct {
	Sessions    int     `json:"sessions"`
	AvgRounds   float64 `json:"avgRounds"`
	TopImposter string  `json:"topImposter"`
	TopCategory string  `json:"topCategory"`
}

// Analyze 彙整歷史場次：場次數、平均回合數、勝場最多的臥底、最常出現的分類
func Analyze(sessions []models.Session) Analytics {
	a := Analytics{Sessions: len(sessions), TopImposter: "-", TopCategory: "-"}

	totalRounds := 0
	imposterWins := make(map[string]int)
	categoryCounts := make(map[string]int)
	var imposterOrder, categoryOrder []string

	for _, s := range sessions {
		totalRounds += len(s.Rounds)
		for _, r := range s.Rounds {
			if !r.CrewWon {
				for _, imp := range r.Imposters {
					if imposterWins[imp] == 0 {
						imposterOrder = append(imposterOrder, imp)
					}
					imposterWins[imp]++
				}
			}
			if categoryCounts[r.Category] == 0 {
				categoryOrder = append(categoryOrder, r.Category)
			}
			categoryCounts[r.Category]++
		}
	}

	if len(sessions) > 0 {
		a.AvgRounds = float64(totalRounds) / float64(len(sessions))
	}
	best := 0
	for _, name := range imposterOrder {
		if imposterWins[name] > best {
			best = imposterWins[name]
			a.TopImposter = name
		}
	}
	best = 0
	for _, name := range categoryOrder {
		if categoryCounts[name] > best {
			best = categoryCounts[name]
			a.TopCategory = name
		}
	}
	return a
}
