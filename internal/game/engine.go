package game

import (
	"errors"
	"fmt"
	"math/rand"

	"imposter_web/internal/models"
)

// MinPlayers 是開始回合所需的最少玩家數
const MinPlayers = 3

// TimerSecondsPerPlayer 是每位玩家分到的討論秒數
const TimerSecondsPerPlayer = 60

var (
	ErrTooFewPlayers = errors.New("at least 3 players are required")
	ErrNoCategories  = errors.New("no categories enabled")
)

// Gender 是玩家顯示用的性別標記
type Gender string

const (
	GenderM Gender = "M"
	GenderF Gender = "F"
)

// Player 是一位參與者與其累計分數
type Player struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
	Score  int    `json:"score"`
}

// ImposterCount 依人數回傳臥底數：3-6 人一位、7-11 人兩位、12 人以上三位
func ImposterCount(playerCount int) int {
	switch {
	case playerCount >= 12:
		return 3
	case playerCount >= 7:
		return 2
	default:
		return 1
	}
}

// StartRound 產生一個新回合的完整狀態
// 純邏輯，不做任何 I/O；隨機性全部來自傳入的 rng
func StartRound(playerCount int, provider ContentProvider, enabled []string,
	difficulty models.Difficulty, mode models.GameMode, rng *rand.Rand) (models.RoundState, error) {

	if playerCount < MinPlayers {
		return models.RoundState{}, ErrTooFewPlayers
	}
	if len(enabled) == 0 {
		return models.RoundState{}, ErrNoCategories
	}

	pool := enabledCategories(provider, enabled)
	if len(pool) == 0 {
		return models.RoundState{}, ErrNoCategories
	}

	// 均勻洗牌後取前綴作為臥底位置，沒有位置偏差
	impCount := ImposterCount(playerCount)
	perm := rng.Perm(playerCount)
	imposters := append([]int(nil), perm[:impCount]...)

	category := pool[rng.Intn(len(pool))]
	words := category.WordsByDifficulty[difficulty]
	if len(words) == 0 {
		return models.RoundState{}, fmt.Errorf("category %q has no words at difficulty %q", category.Name, difficulty)
	}

	crewWord := words[rng.Intn(len(words))]
	imposterWord := crewWord
	if mode == models.ModeSimilar && len(category.WordPairs) > 0 {
		pair := category.WordPairs[rng.Intn(len(category.WordPairs))]
		crewWord = pair.Crew
		imposterWord = pair.Imposter
	}
	imposterWords := make([]string, impCount)
	for i := range imposterWords {
		imposterWords[i] = imposterWord
	}

	// 間諜只在多臥底時出現：知道自己是臥底，但拿不到詞
	spyIndex := models.NoSpy
	if impCount > 1 {
		spyIndex = imposters[rng.Intn(impCount)]
	}

	votes := make([]int, playerCount)
	for i := range votes {
		votes[i] = models.NoVote
	}

	return models.RoundState{
		Schema:          models.StateSchemaVersion,
		Phase:           models.PhaseReveal,
		ImposterIndices: imposters,
		SpyIndex:        spyIndex,
		Category:        category.Name,
		CrewWord:        crewWord,
		ImposterWords:   imposterWords,
		Event:           Events[rng.Intn(len(Events))],
		RevealIndex:     0,
		TimerSeconds:    playerCount * TimerSecondsPerPlayer,
		TimerRunning:    false,
		Votes:           votes,
		VoteCursor:      0,
	}, nil
}

func enabledCategories(provider ContentProvider, enabled []string) []Category {
	allowed := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		allowed[name] = true
	}
	var pool []Category
	for _, c := range provider.Categories() {
		if allowed[c.Name] {
			pool = append(pool, c)
		}
	}
	return pool
}
