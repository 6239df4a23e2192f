package client_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imposter_web/internal/api"
	"imposter_web/internal/models"
	"imposter_web/internal/repository"
	"imposter_web/internal/service"
	"imposter_web/pkg/client"
)

func newTestServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	services := service.NewServices(repository.NewMemoryRepositories())
	api.SetupRoutes(engine, services, nil)
	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestClientLifecycle(t *testing.T) {
	serverURL := newTestServer(t)

	host, err := client.Dial(serverURL)
	require.NoError(t, err)
	defer host.Leave()
	assert.True(t, host.Connected())
	assert.NotEmpty(t, host.ConnectionID())

	room, err := host.CreateRoom("Ana")
	require.NoError(t, err)
	require.Len(t, room.Code, 6)
	assert.True(t, host.IsHost())

	viewer, err := client.Dial(serverURL)
	require.NoError(t, err)
	defer viewer.Leave()

	joined, err := viewer.JoinRoom(room.Code, "Ben")
	require.NoError(t, err)
	assert.Len(t, joined.Members, 2)
	assert.False(t, viewer.IsHost())

	// 房間名單廣播讓主持人快照跟上
	waitFor(t, func() bool {
		r := host.Room()
		return r != nil && len(r.Members) == 2
	}, "host snapshot did not pick up the new member")

	// 主持人經由 Sink 推送補丁，觀看端快照收斂到同一份狀態
	phase := models.PhaseReveal
	votes := []int{models.NoVote, models.NoVote}
	require.NoError(t, host.Sink().Push(models.StatePatch{Phase: &phase, Votes: &votes}))
	assert.Equal(t, models.PhaseReveal, host.Room().State.Phase, "sink merges locally first")

	waitFor(t, func() bool {
		r := viewer.Room()
		return r != nil && r.State.Phase == models.PhaseReveal && len(r.State.Votes) == 2
	}, "viewer snapshot did not receive the state patch")
	assert.Equal(t, models.RoomStatusPlaying, viewer.Room().Status)

	// 觀看端投票：樂觀更新自己的快照，伺服器轉發給主持人
	require.NoError(t, viewer.CastVote(0))
	assert.Equal(t, 0, viewer.Room().State.Votes[1])
	waitFor(t, func() bool {
		r := host.Room()
		return r != nil && len(r.State.Votes) == 2 && r.State.Votes[1] == 0
	}, "host snapshot did not receive the vote")

	// 主持人離開：觀看端收到 room_closed，房間快照被清空
	host.Leave()
	waitFor(t, func() bool {
		return viewer.Room() == nil && viewer.Err() != nil
	}, "viewer did not observe the room closing")
	assert.Contains(t, viewer.Err().Error(), "Host disconnected")
}

func TestJoinUnknownRoom(t *testing.T) {
	serverURL := newTestServer(t)

	c, err := client.Dial(serverURL)
	require.NoError(t, err)
	defer c.Leave()

	_, err = c.JoinRoom("ZZZZZZ", "Ana")
	require.Error(t, err)
	assert.Equal(t, "Room not found", err.Error())
	assert.Equal(t, err, c.Err())
	assert.Nil(t, c.Room())
}

func TestCommandsRequireRoom(t *testing.T) {
	serverURL := newTestServer(t)

	c, err := client.Dial(serverURL)
	require.NoError(t, err)
	defer c.Leave()

	phase := models.PhaseReveal
	assert.ErrorIs(t, c.UpdateGameState(models.StatePatch{Phase: &phase}), client.ErrNotInRoom)
	assert.ErrorIs(t, c.CastVote(0), client.ErrNotInRoom)
}

func TestDialBadAddress(t *testing.T) {
	_, err := client.Dial("ws://127.0.0.1:1/ws")
	require.Error(t, err)
}
