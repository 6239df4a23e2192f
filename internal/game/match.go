package game

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"imposter_web/internal/models"
)

var (
	ErrNotHost           = errors.New("only the host may advance the round")
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrSessionOver       = errors.New("round limit reached, session is over")
	ErrSelfVote          = errors.New("players cannot vote for themselves")
	ErrNoChoice          = errors.New("a vote must be cast before advancing")
	ErrPassAndPlayOnly   = errors.New("cursor stepping is pass-and-play only")
	ErrLobbyOnly         = errors.New("players can only change while in the lobby")
)

// timerSyncInterval 是線上模式下主持人推送剩餘秒數的間隔（tick 數）
// 這是有損的粗略同步，讓中途加入的觀看端大致對齊
const timerSyncInterval = 5

// Sink 接收回合狀態補丁
// 單機模式不設 Sink，狀態直接在本地生效；線上模式由主持人把同樣的補丁
// 經由中繼伺服器送出，兩種傳輸共用同一套階段邏輯
type Sink interface {
	Push(patch models.StatePatch) error
}

// Options 是建立 Match 的設定
type Options struct {
	Provider   ContentProvider
	Categories []string // 啟用的分類名稱
	Difficulty models.Difficulty
	Mode       models.GameMode
	RoundLimit int // 0 表示不限回合數
	Online     bool
	Host       bool // 線上模式下本端是否為主持人，單機模式忽略
	Sink       Sink
	Rand       *rand.Rand
}

// Match 驅動一個場次的回合進行
// 線上模式下只有主持人端會執行轉移邏輯，觀看端透過 ApplyRemote 套用收到的補丁
type Match struct {
	players    []Player
	provider   ContentProvider
	categories []string
	difficulty models.Difficulty
	mode       models.GameMode
	roundLimit int
	online     bool
	host       bool
	sink       Sink
	rng        *rand.Rand

	state     models.RoundState
	rounds    []models.RoundResult // 由新到舊
	over      bool
	sessionID string
}

// NewMatch 建立一個新場次
func NewMatch(players []Player, opts Options) *Match {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	provider := opts.Provider
	if provider == nil {
		provider = DefaultContent()
	}
	return &Match{
		players:    append([]Player(nil), players...),
		provider:   provider,
		categories: append([]string(nil), opts.Categories...),
		difficulty: opts.Difficulty,
		mode:       opts.Mode,
		roundLimit: opts.RoundLimit,
		online:     opts.Online,
		host:       opts.Host,
		sink:       opts.Sink,
		rng:        rng,
		state:      models.NewRoundState(),
		sessionID:  uuid.NewString(),
	}
}

// authority 回報本端是否允許改動共享狀態
func (m *Match) authority() bool {
	return !m.online || m.host
}

// apply 先在本地合併補丁，線上主持人再把同一份補丁推給中繼伺服器
func (m *Match) apply(patch models.StatePatch) error {
	m.state.Merge(patch)
	if m.sink != nil && m.authority() {
		return m.sink.Push(patch)
	}
	return nil
}

// ApplyRemote 套用從中繼伺服器收到的補丁（觀看端路徑）
// 當階段因此進入 result 時，觀看端用同一份共享狀態自行計算結果與分數
func (m *Match) ApplyRemote(patch models.StatePatch) {
	before := m.state.Phase
	m.state.Merge(patch)
	if !m.authority() && before != models.PhaseResult && m.state.Phase == models.PhaseResult {
		m.finalizeRound()
	}
}

// SetPlayers 更新玩家名單，只允許在 lobby 階段（線上模式跟隨房間名單）
func (m *Match) SetPlayers(players []Player) error {
	if m.state.Phase != models.PhaseLobby && m.state.Phase != models.PhaseSessions {
		return ErrLobbyOnly
	}
	m.players = append([]Player(nil), players...)
	return nil
}

// StartRound 開始新回合：分派身份、抽題、重設計時與投票
func (m *Match) StartRound() error {
	if !m.authority() {
		return ErrNotHost
	}
	if m.over {
		return ErrSessionOver
	}
	if !m.state.Phase.CanTransitionTo(models.PhaseReveal) {
		return ErrInvalidTransition
	}
	state, err := StartRound(len(m.players), m.provider, m.categories, m.difficulty, m.mode, m.rng)
	if err != nil {
		return err
	}
	return m.apply(fullPatch(state))
}

// AdvanceReveal 推進單機模式的看牌游標
// 最後一位玩家收起卡片後才進入討論階段
func (m *Match) AdvanceReveal() error {
	if m.online {
		return ErrPassAndPlayOnly
	}
	if m.state.Phase != models.PhaseReveal {
		return ErrInvalidTransition
	}
	if m.state.RevealIndex < len(m.players)-1 {
		next := m.state.RevealIndex + 1
		return m.apply(models.StatePatch{RevealIndex: &next})
	}
	return m.BeginDiscussion()
}

// BeginDiscussion 進入討論階段並啟動計時
// 線上模式沒有看牌游標，由主持人在大家看完後觸發這個群體轉移
func (m *Match) BeginDiscussion() error {
	if !m.authority() {
		return ErrNotHost
	}
	if !m.state.Phase.CanTransitionTo(models.PhaseDiscuss) {
		return ErrInvalidTransition
	}
	phase := models.PhaseDiscuss
	running := true
	return m.apply(models.StatePatch{Phase: &phase, TimerRunning: &running})
}

// SetTimerRunning 啟動或暫停討論計時，僅主持人可操作
func (m *Match) SetTimerRunning(running bool) error {
	if !m.authority() {
		return ErrNotHost
	}
	if m.state.Phase != models.PhaseDiscuss {
		return ErrInvalidTransition
	}
	return m.apply(models.StatePatch{TimerRunning: &running})
}

// Tick 讓討論計時前進一秒，回傳剩餘秒數
// 倒數到零不會自動轉移階段，只是提示；線上模式每 5 個 tick 推送一次剩餘時間
func (m *Match) Tick() int {
	if !m.authority() || m.state.Phase != models.PhaseDiscuss ||
		!m.state.TimerRunning || m.state.TimerSeconds <= 0 {
		return m.state.TimerSeconds
	}
	remaining := m.state.TimerSeconds - 1
	m.state.TimerSeconds = remaining
	if m.sink != nil && remaining%timerSyncInterval == 0 {
		m.sink.Push(models.StatePatch{TimerSeconds: &remaining})
	}
	return remaining
}

// EndDiscussion 由主持人結束討論，進入投票
func (m *Match) EndDiscussion() error {
	if !m.authority() {
		return ErrNotHost
	}
	if !m.state.Phase.CanTransitionTo(models.PhaseVote) {
		return ErrInvalidTransition
	}
	phase := models.PhaseVote
	running := false
	return m.apply(models.StatePatch{Phase: &phase, TimerRunning: &running})
}

// LocalVote 在單機模式替目前游標指到的玩家投票，不能投自己
func (m *Match) LocalVote(target int) error {
	if m.online {
		return ErrPassAndPlayOnly
	}
	if m.state.Phase != models.PhaseVote {
		return ErrInvalidTransition
	}
	return m.SetVote(m.state.VoteCursor, target)
}

// NextVoter 推進單機模式的投票游標；目前玩家必須先投完票
// 最後一位投完後直接結算
func (m *Match) NextVoter() error {
	if m.online {
		return ErrPassAndPlayOnly
	}
	if m.state.Phase != models.PhaseVote {
		return ErrInvalidTransition
	}
	if m.state.Votes[m.state.VoteCursor] == models.NoVote {
		return ErrNoChoice
	}
	if m.state.VoteCursor < len(m.players)-1 {
		next := m.state.VoteCursor + 1
		return m.apply(models.StatePatch{VoteCursor: &next})
	}
	return m.FinishVoting()
}

// SetVote 將指定玩家的票寫入投票陣列
func (m *Match) SetVote(voter, target int) error {
	if m.state.Phase != models.PhaseVote {
		return ErrInvalidTransition
	}
	if voter < 0 || voter >= len(m.state.Votes) || target < 0 || target >= len(m.state.Votes) {
		return errors.New("vote out of range")
	}
	if voter == target {
		return ErrSelfVote
	}
	votes := append([]int(nil), m.state.Votes...)
	votes[voter] = target
	return m.apply(models.StatePatch{Votes: &votes})
}

// FinishVoting 結算投票：計票、計分、產生回合紀錄，進入 result
// 只有主持人可觸發，而且所有投票欄位都必須已填入
func (m *Match) FinishVoting() error {
	if !m.authority() {
		return ErrNotHost
	}
	if m.state.Phase != models.PhaseVote {
		return ErrInvalidTransition
	}
	if err := m.finalizeRound(); err != nil {
		return err
	}
	phase := models.PhaseResult
	return m.apply(models.StatePatch{Phase: &phase})
}

// finalizeRound 從共享狀態計算結果，所有端算出的內容一致
func (m *Match) finalizeRound() error {
	if len(m.state.ImposterIndices) == 0 {
		return ErrInvalidTransition
	}
	votedOut, crewWon, err := Tally(m.state.Votes, m.state.ImposterIndices)
	if err != nil {
		return err
	}
	ApplyScores(m.players, m.state.ImposterIndices, crewWon)

	result := models.RoundResult{
		ID:            uuid.NewString(),
		Category:      m.state.Category,
		Mode:          m.mode,
		Difficulty:    m.difficulty,
		CrewWord:      m.state.CrewWord,
		ImposterWords: append([]string(nil), m.state.ImposterWords...),
		Imposters:     m.names(m.state.ImposterIndices),
		VotesByPlayer: m.names(m.state.Votes),
		VotedOut:      m.names(votedOut),
		CrewWon:       crewWon,
		Event:         m.state.Event,
		PlayedAt:      time.Now(),
	}
	m.rounds = append([]models.RoundResult{result}, m.rounds...)
	m.over = m.roundLimit != 0 && len(m.rounds) >= m.roundLimit
	return nil
}

// AdvanceToLeaderboard 從結果頁進入排行榜，僅主持人可觸發
func (m *Match) AdvanceToLeaderboard() error {
	if !m.authority() {
		return ErrNotHost
	}
	if !m.state.Phase.CanTransitionTo(models.PhaseLeaderboard) {
		return ErrInvalidTransition
	}
	phase := models.PhaseLeaderboard
	return m.apply(models.StatePatch{Phase: &phase})
}

// Leaderboard 回傳依分數由高到低排序的玩家，平分時依名稱排序
func (m *Match) Leaderboard() []Player {
	sorted := append([]Player(nil), m.players...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// EndSession 結束場次並產生不可變的場次紀錄，回合由新到舊
// 任何階段都可以提前結束
func (m *Match) EndSession() (models.Session, error) {
	startedAt := time.Now()
	if n := len(m.rounds); n > 0 {
		startedAt = m.rounds[n-1].PlayedAt
	}
	session := models.Session{
		ID:        m.sessionID,
		StartedAt: startedAt,
		Rounds:    append([]models.RoundResult(nil), m.rounds...),
	}
	phase := models.PhaseSessions
	if err := m.apply(models.StatePatch{Phase: &phase}); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// State 回傳目前共享狀態的快照
func (m *Match) State() models.RoundState {
	return *m.state.Clone()
}

// Players 回傳目前玩家名單的拷貝
func (m *Match) Players() []Player {
	return append([]Player(nil), m.players...)
}

// Rounds 回傳本場次已完成的回合，由新到舊
func (m *Match) Rounds() []models.RoundResult {
	return append([]models.RoundResult(nil), m.rounds...)
}

// Over 回報是否已達回合上限
func (m *Match) Over() bool {
	return m.over
}

func (m *Match) names(indices []int) []string {
	names := make([]string, len(indices))
	for i, idx := range indices {
		if idx >= 0 && idx < len(m.players) {
			names[i] = m.players[idx].Name
		} else {
			names[i] = "Unknown"
		}
	}
	return names
}

// fullPatch 把完整狀態轉成涵蓋所有欄位的補丁，用於回合開始時的整份同步
func fullPatch(s models.RoundState) models.StatePatch {
	return models.StatePatch{
		Schema:          &s.Schema,
		Phase:           &s.Phase,
		ImposterIndices: &s.ImposterIndices,
		SpyIndex:        &s.SpyIndex,
		Category:        &s.Category,
		CrewWord:        &s.CrewWord,
		ImposterWords:   &s.ImposterWords,
		Event:           &s.Event,
		RevealIndex:     &s.RevealIndex,
		TimerSeconds:    &s.TimerSeconds,
		TimerRunning:    &s.TimerRunning,
		Votes:           &s.Votes,
		VoteCursor:      &s.VoteCursor,
	}
}
