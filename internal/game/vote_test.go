package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imposter_web/internal/models"
)

func TestTallySingleMax(t *testing.T) {
	votedOut, crewWon, err := Tally([]int{1, 2, 1, 0}, []int{1})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, votedOut)
	assert.True(t, crewWon)
}

func TestTallyTieEliminatesAll(t *testing.T) {
	// 0 和 1 各兩票，一起出局；其中 0 是臥底，船員仍獲勝
	votedOut, crewWon, err := Tally([]int{1, 0, 0, 1}, []int{0})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, votedOut)
	assert.True(t, crewWon)
}

func TestTallyCrewLoss(t *testing.T) {
	votedOut, crewWon, err := Tally([]int{2, 2, 3, 2}, []int{1})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, votedOut)
	assert.False(t, crewWon)
}

func TestTallyRequiresCompleteVotes(t *testing.T) {
	_, _, err := Tally([]int{1, models.NoVote, 0}, []int{1})
	assert.ErrorIs(t, err, ErrVotesIncomplete)

	_, _, err = Tally(nil, []int{0})
	assert.ErrorIs(t, err, ErrVotesIncomplete)
}

func TestApplyScoresCrewWin(t *testing.T) {
	players := []Player{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}}
	ApplyScores(players, []int{1}, true)

	assert.Equal(t, 2, players[0].Score)
	assert.Equal(t, 0, players[1].Score, "voted-out imposter gets nothing")
	assert.Equal(t, 2, players[2].Score)
	assert.Equal(t, 2, players[3].Score)
}

func TestApplyScoresCrewLoss(t *testing.T) {
	players := []Player{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}}
	ApplyScores(players, []int{1, 3}, false)

	assert.Equal(t, 0, players[0].Score)
	assert.Equal(t, 3, players[1].Score)
	assert.Equal(t, 0, players[2].Score)
	assert.Equal(t, 3, players[3].Score)
}

func TestApplyScoresAccumulates(t *testing.T) {
	players := []Player{{Name: "A", Score: 5}, {Name: "B", Score: 1}}
	ApplyScores(players, []int{1}, true)
	assert.Equal(t, 7, players[0].Score)
	assert.Equal(t, 1, players[1].Score)
}
