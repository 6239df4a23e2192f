package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imposter_web/internal/models"
)

type captureSink struct {
	patches []models.StatePatch
}

func (s *captureSink) Push(patch models.StatePatch) error {
	s.patches = append(s.patches, patch)
	return nil
}

func testPlayers(n int) []Player {
	names := []string{"Ana", "Ben", "Cleo", "Dan", "Eve", "Finn", "Gus", "Hana"}
	players := make([]Player, n)
	for i := range players {
		players[i] = Player{Name: names[i], Gender: GenderF}
	}
	return players
}

func newLocalMatch(n, roundLimit int, seed int64) *Match {
	return NewMatch(testPlayers(n), Options{
		Categories: allCategoryNames(DefaultContent()),
		Difficulty: models.DifficultyEasy,
		Mode:       models.ModeClassic,
		RoundLimit: roundLimit,
		Rand:       testRng(seed),
	})
}

// voteTarget 讓每個人都投給第一位臥底，臥底本人改投下一位
func voteTarget(state models.RoundState, voter int) int {
	imp := state.ImposterIndices[0]
	if voter == imp {
		return (imp + 1) % len(state.Votes)
	}
	return imp
}

// playLocalRound 從 StartRound 開始跑完一整個單機回合，停在 result 階段
func playLocalRound(t *testing.T, m *Match) {
	t.Helper()
	require.NoError(t, m.StartRound())
	for m.State().Phase == models.PhaseReveal {
		require.NoError(t, m.AdvanceReveal())
	}
	require.NoError(t, m.EndDiscussion())
	for m.State().Phase == models.PhaseVote {
		state := m.State()
		if state.Votes[state.VoteCursor] == models.NoVote {
			require.NoError(t, m.LocalVote(voteTarget(state, state.VoteCursor)))
		}
		require.NoError(t, m.NextVoter())
	}
	require.Equal(t, models.PhaseResult, m.State().Phase)
}

func TestLocalRoundFlow(t *testing.T) {
	m := newLocalMatch(4, 0, 3)

	require.NoError(t, m.StartRound())
	state := m.State()
	assert.Equal(t, models.PhaseReveal, state.Phase)
	assert.Equal(t, 0, state.RevealIndex)

	// 看牌游標逐位前進，最後一位收牌後進入討論
	require.NoError(t, m.AdvanceReveal())
	require.NoError(t, m.AdvanceReveal())
	require.NoError(t, m.AdvanceReveal())
	assert.Equal(t, 3, m.State().RevealIndex)
	require.NoError(t, m.AdvanceReveal())
	state = m.State()
	assert.Equal(t, models.PhaseDiscuss, state.Phase)
	assert.True(t, state.TimerRunning)

	// 計時逐秒倒數，暫停時不動
	assert.Equal(t, 239, m.Tick())
	require.NoError(t, m.SetTimerRunning(false))
	assert.Equal(t, 239, m.Tick())
	require.NoError(t, m.SetTimerRunning(true))
	assert.Equal(t, 238, m.Tick())

	require.NoError(t, m.EndDiscussion())
	state = m.State()
	assert.Equal(t, models.PhaseVote, state.Phase)
	assert.False(t, state.TimerRunning)

	// 游標玩家必須先投票才能交棒，而且不能投自己
	assert.ErrorIs(t, m.NextVoter(), ErrNoChoice)
	assert.ErrorIs(t, m.LocalVote(0), ErrSelfVote)

	for m.State().Phase == models.PhaseVote {
		cur := m.State()
		if cur.Votes[cur.VoteCursor] == models.NoVote {
			require.NoError(t, m.LocalVote(voteTarget(cur, cur.VoteCursor)))
		}
		require.NoError(t, m.NextVoter())
	}

	// 所有人投給臥底：船員勝，非臥底各 +2
	state = m.State()
	assert.Equal(t, models.PhaseResult, state.Phase)
	rounds := m.Rounds()
	require.Len(t, rounds, 1)
	assert.True(t, rounds[0].CrewWon)

	imp := state.ImposterIndices[0]
	for i, p := range m.Players() {
		if i == imp {
			assert.Equal(t, 0, p.Score)
		} else {
			assert.Equal(t, 2, p.Score)
		}
	}

	require.NoError(t, m.AdvanceToLeaderboard())
	assert.Equal(t, models.PhaseLeaderboard, m.State().Phase)
}

func TestLeaderboardOrdering(t *testing.T) {
	m := newLocalMatch(3, 0, 1)
	m.players[0].Score = 4
	m.players[1].Score = 7
	m.players[2].Score = 4

	board := m.Leaderboard()
	assert.Equal(t, "Ben", board[0].Name)
	// 平分時依名稱排序
	assert.Equal(t, "Ana", board[1].Name)
	assert.Equal(t, "Cleo", board[2].Name)
}

func TestRoundLimitEndsSession(t *testing.T) {
	m := newLocalMatch(4, 3, 5)

	for i := 0; i < 3; i++ {
		playLocalRound(t, m)
		if i < 2 {
			require.NoError(t, m.AdvanceToLeaderboard())
			assert.False(t, m.Over())
		}
	}
	assert.True(t, m.Over())
	require.NoError(t, m.AdvanceToLeaderboard())
	assert.ErrorIs(t, m.StartRound(), ErrSessionOver)
}

func TestEndSessionRoundsNewestFirst(t *testing.T) {
	m := newLocalMatch(4, 0, 9)
	playLocalRound(t, m)
	require.NoError(t, m.AdvanceToLeaderboard())
	playLocalRound(t, m)

	session, err := m.EndSession()
	require.NoError(t, err)
	require.Len(t, session.Rounds, 2)

	rounds := m.Rounds()
	assert.Equal(t, rounds[0].ID, session.Rounds[0].ID)
	assert.False(t, session.Rounds[0].PlayedAt.Before(session.Rounds[1].PlayedAt))
	assert.Equal(t, session.StartedAt, session.Rounds[1].PlayedAt)
	assert.Equal(t, models.PhaseSessions, m.State().Phase)
}

func TestSetPlayersLobbyOnly(t *testing.T) {
	m := newLocalMatch(4, 0, 2)
	require.NoError(t, m.SetPlayers(testPlayers(5)))
	require.NoError(t, m.StartRound())
	assert.ErrorIs(t, m.SetPlayers(testPlayers(4)), ErrLobbyOnly)
}

func TestViewerCannotAdvance(t *testing.T) {
	viewer := NewMatch(testPlayers(4), Options{
		Categories: allCategoryNames(DefaultContent()),
		Difficulty: models.DifficultyEasy,
		Mode:       models.ModeClassic,
		Online:     true,
		Host:       false,
		Rand:       testRng(1),
	})
	assert.ErrorIs(t, viewer.StartRound(), ErrNotHost)
	assert.ErrorIs(t, viewer.BeginDiscussion(), ErrNotHost)
	assert.ErrorIs(t, viewer.FinishVoting(), ErrNotHost)
	assert.ErrorIs(t, viewer.AdvanceReveal(), ErrPassAndPlayOnly)
	assert.ErrorIs(t, viewer.LocalVote(1), ErrPassAndPlayOnly)
}

func TestViewerFollowsHostPatches(t *testing.T) {
	sink := &captureSink{}
	host := NewMatch(testPlayers(4), Options{
		Categories: allCategoryNames(DefaultContent()),
		Difficulty: models.DifficultyEasy,
		Mode:       models.ModeClassic,
		Online:     true,
		Host:       true,
		Sink:       sink,
		Rand:       testRng(4),
	})
	viewer := NewMatch(testPlayers(4), Options{
		Categories: allCategoryNames(DefaultContent()),
		Difficulty: models.DifficultyEasy,
		Mode:       models.ModeClassic,
		Online:     true,
		Host:       false,
	})

	require.NoError(t, host.StartRound())
	require.NoError(t, host.BeginDiscussion())
	require.NoError(t, host.EndDiscussion())
	state := host.State()
	for voter := range state.Votes {
		require.NoError(t, host.SetVote(voter, voteTarget(state, voter)))
	}
	require.NoError(t, host.FinishVoting())

	// 觀看端依序套用主持人推出的補丁，用共享狀態自行算出同樣的結果
	for _, patch := range sink.patches {
		viewer.ApplyRemote(patch)
	}

	assert.Equal(t, models.PhaseResult, viewer.State().Phase)
	hostRounds := host.Rounds()
	viewerRounds := viewer.Rounds()
	require.Len(t, viewerRounds, 1)
	assert.Equal(t, hostRounds[0].CrewWon, viewerRounds[0].CrewWon)
	assert.Equal(t, hostRounds[0].VotedOut, viewerRounds[0].VotedOut)
	assert.Equal(t, hostRounds[0].Imposters, viewerRounds[0].Imposters)
	assert.Equal(t, host.Players(), viewer.Players())
}

func TestTimerSyncEveryFifthTick(t *testing.T) {
	sink := &captureSink{}
	host := NewMatch(testPlayers(4), Options{
		Categories: allCategoryNames(DefaultContent()),
		Difficulty: models.DifficultyEasy,
		Mode:       models.ModeClassic,
		Online:     true,
		Host:       true,
		Sink:       sink,
		Rand:       testRng(6),
	})
	require.NoError(t, host.StartRound())
	require.NoError(t, host.BeginDiscussion())

	before := len(sink.patches)
	for i := 0; i < 5; i++ {
		host.Tick()
	}
	timerOnly := 0
	for _, patch := range sink.patches[before:] {
		if patch.TimerSeconds != nil && patch.Phase == nil {
			timerOnly++
		}
	}
	// 240 → 235 只會在 235 這個整五倍數推送一次
	assert.Equal(t, 1, timerOnly)
	assert.Equal(t, 235, host.State().TimerSeconds)
}
