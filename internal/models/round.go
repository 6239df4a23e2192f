package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// StateSchemaVersion 是共享狀態記錄的結構版本
// 主持人與觀看端必須使用同一版本，避免不同實作間的欄位漂移
const StateSchemaVersion = 1

// GameMode 定義出題模式
type GameMode string

const (
	ModeClassic GameMode = "classic" // 臥底拿到與船員相同的詞
	ModeSimilar GameMode = "similar" // 臥底拿到相似詞
)

// Difficulty 定義題庫難度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

const (
	// NoVote 表示該投票欄位尚未填入
	NoVote = -1
	// NoSpy 表示本回合沒有間諜
	NoSpy = -1
)

// RoundState 是房間的共享回合狀態
// 線上模式下只有主持人會寫入，其他端僅根據收到的副本渲染
type RoundState struct {
	Schema          int      `json:"schema"`
	Phase           Phase    `json:"phase"`
	ImposterIndices []int    `json:"imposters"`
	SpyIndex        int      `json:"spyIndex"`
	Category        string   `json:"category"`
	CrewWord        string   `json:"crewWord"`
	ImposterWords   []string `json:"imposterWords"`
	Event           string   `json:"event"`
	RevealIndex     int      `json:"revealIndex"`
	TimerSeconds    int      `json:"timerSeconds"`
	TimerRunning    bool     `json:"timerRunning"`
	Votes           []int    `json:"votes"`
	VoteCursor      int      `json:"voteCursor"`
}

// NewRoundState 回傳尚未開始回合的初始狀態
func NewRoundState() RoundState {
	return RoundState{
		Schema:   StateSchemaVersion,
		Phase:    PhaseLobby,
		SpyIndex: NoSpy,
	}
}

// Clone 回傳狀態的深拷貝
func (s *RoundState) Clone() *RoundState {
	cp := *s
	cp.ImposterIndices = append([]int(nil), s.ImposterIndices...)
	cp.ImposterWords = append([]string(nil), s.ImposterWords...)
	cp.Votes = append([]int(nil), s.Votes...)
	return &cp
}

// IsImposter 檢查玩家位置是否屬於臥底
func (s *RoundState) IsImposter(idx int) bool {
	for _, i := range s.ImposterIndices {
		if i == idx {
			return true
		}
	}
	return false
}

// VotesComplete 檢查每個投票欄位都已填入
func (s *RoundState) VotesComplete() bool {
	if len(s.Votes) == 0 {
		return false
	}
	for _, v := range s.Votes {
		if v == NoVote {
			return false
		}
	}
	return true
}

// StatePatch 是共享狀態的部分更新
// 指標欄位為 nil 代表不更動，非 nil 代表整欄覆寫；切片欄位一律整個取代
type StatePatch struct {
	Schema          *int      `json:"schema,omitempty"`
	Phase           *Phase    `json:"phase,omitempty"`
	ImposterIndices *[]int    `json:"imposters,omitempty"`
	SpyIndex        *int      `json:"spyIndex,omitempty"`
	Category        *string   `json:"category,omitempty"`
	CrewWord        *string   `json:"crewWord,omitempty"`
	ImposterWords   *[]string `json:"imposterWords,omitempty"`
	Event           *string   `json:"event,omitempty"`
	RevealIndex     *int      `json:"revealIndex,omitempty"`
	TimerSeconds    *int      `json:"timerSeconds,omitempty"`
	TimerRunning    *bool     `json:"timerRunning,omitempty"`
	Votes           *[]int    `json:"votes,omitempty"`
	VoteCursor      *int      `json:"voteCursor,omitempty"`
}

// DecodePatch 解析狀態補丁，未知欄位一律拒絕
// 這是主持人與觀看端之間唯一的結構檢查點
func DecodePatch(raw []byte) (StatePatch, error) {
	var patch StatePatch
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		return StatePatch{}, fmt.Errorf("decode state patch: %w", err)
	}
	if patch.Schema != nil && *patch.Schema != StateSchemaVersion {
		return StatePatch{}, fmt.Errorf("state schema version %d not supported", *patch.Schema)
	}
	return patch, nil
}

// Merge 把補丁淺合併進狀態：有出現的欄位覆寫，沒出現的欄位保留
func (s *RoundState) Merge(patch StatePatch) {
	if patch.Phase != nil {
		s.Phase = *patch.Phase
	}
	if patch.ImposterIndices != nil {
		s.ImposterIndices = append([]int(nil), (*patch.ImposterIndices)...)
	}
	if patch.SpyIndex != nil {
		s.SpyIndex = *patch.SpyIndex
	}
	if patch.Category != nil {
		s.Category = *patch.Category
	}
	if patch.CrewWord != nil {
		s.CrewWord = *patch.CrewWord
	}
	if patch.ImposterWords != nil {
		s.ImposterWords = append([]string(nil), (*patch.ImposterWords)...)
	}
	if patch.Event != nil {
		s.Event = *patch.Event
	}
	if patch.RevealIndex != nil {
		s.RevealIndex = *patch.RevealIndex
	}
	if patch.TimerSeconds != nil {
		s.TimerSeconds = *patch.TimerSeconds
	}
	if patch.TimerRunning != nil {
		s.TimerRunning = *patch.TimerRunning
	}
	if patch.Votes != nil {
		s.Votes = append([]int(nil), (*patch.Votes)...)
	}
	if patch.VoteCursor != nil {
		s.VoteCursor = *patch.VoteCursor
	}
}

// RoundResult 是一個回合結束後產生的不可變紀錄
type RoundResult struct {
	ID            string     `json:"id"`
	Category      string     `json:"category"`
	Mode          GameMode   `json:"mode"`
	Difficulty    Difficulty `json:"difficulty"`
	CrewWord      string     `json:"crewWord"`
	ImposterWords []string   `json:"imposterWords"`
	Imposters     []string   `json:"imposters"`     // 臥底的顯示名稱
	VotesByPlayer []string   `json:"votesByPlayer"` // 每位投票者所選目標的顯示名稱
	VotedOut      []string   `json:"votedOut"`      // 可能因平手而多於一人
	CrewWon       bool       `json:"crewWon"`
	Event         string     `json:"event"`
	PlayedAt      time.Time  `json:"playedAt"`
}

// Session 是一次完整場次的回合歷史，回合由新到舊排列
// 建立之後不會與其他場次合併
type Session struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"startedAt"`
	Rounds    []RoundResult `json:"rounds"`
}
