package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imposter_web/internal/models"
)

func TestCreateRoomCodeFormat(t *testing.T) {
	store := NewRoomStore()

	for i := 0; i < 50; i++ {
		room := store.CreateRoom("conn", "Ana")
		require.Len(t, room.Code, 6)
		for _, r := range room.Code {
			assert.True(t, strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", r),
				"unexpected rune %q in room code %s", r, room.Code)
		}
	}
	assert.Equal(t, 50, store.Count())
}

func TestCreateRoomHostIsFirstMember(t *testing.T) {
	store := NewRoomStore()
	room := store.CreateRoom("conn-1", "Ana")

	assert.Equal(t, "conn-1", room.HostConnectionID)
	assert.Equal(t, models.RoomStatusLobby, room.Status)
	assert.Equal(t, models.PhaseLobby, room.State.Phase)
	require.Len(t, room.Members, 1)
	assert.True(t, room.Members[0].IsHost)
	assert.Equal(t, "Ana", room.Members[0].Name)
}

func TestJoinRoomPreservesOrder(t *testing.T) {
	store := NewRoomStore()
	room := store.CreateRoom("conn-1", "Ana")

	_, err := store.JoinRoom(room.Code, "conn-2", "Ben")
	require.NoError(t, err)
	updated, err := store.JoinRoom(room.Code, "conn-3", "Cleo")
	require.NoError(t, err)

	require.Len(t, updated.Members, 3)
	assert.Equal(t, "Ana", updated.Members[0].Name)
	assert.Equal(t, "Ben", updated.Members[1].Name)
	assert.Equal(t, "Cleo", updated.Members[2].Name)
	assert.False(t, updated.Members[2].IsHost)
}

func TestJoinRoomCodeIsCaseInsensitive(t *testing.T) {
	store := NewRoomStore()
	room := store.CreateRoom("conn-1", "Ana")

	joined, err := store.JoinRoom(strings.ToLower(room.Code), "conn-2", "Ben")
	require.NoError(t, err)
	assert.Equal(t, room.Code, joined.Code)
}

func TestJoinRoomErrors(t *testing.T) {
	store := NewRoomStore()
	room := store.CreateRoom("conn-1", "Ana")

	_, err := store.JoinRoom("ZZZZZZ", "conn-2", "Ben")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	// 名稱比對不分大小寫
	_, err = store.JoinRoom(room.Code, "conn-2", "ana")
	assert.ErrorIs(t, err, ErrNameTaken)

	// 遊戲開始後房間不再接受加入，而且成員名單不得被改動
	phase := models.PhaseReveal
	_, err = store.PatchState(room.Code, models.StatePatch{Phase: &phase})
	require.NoError(t, err)
	_, err = store.JoinRoom(room.Code, "conn-2", "Ben")
	assert.ErrorIs(t, err, ErrGameInProgress)

	current, err := store.Get(room.Code)
	require.NoError(t, err)
	assert.Len(t, current.Members, 1)
}

func TestPatchStateMergesAndFlipsStatus(t *testing.T) {
	store := NewRoomStore()
	room := store.CreateRoom("conn-1", "Ana")

	category := "Food"
	updated, err := store.PatchState(room.Code, models.StatePatch{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, "Food", updated.State.Category)
	// 階段仍在 lobby：房間保持可加入
	assert.Equal(t, models.RoomStatusLobby, updated.Status)

	phase := models.PhaseReveal
	updated, err = store.PatchState(room.Code, models.StatePatch{Phase: &phase})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusPlaying, updated.Status)
	assert.Equal(t, "Food", updated.State.Category, "previous patch survives the merge")

	_, err = store.PatchState("ZZZZZZ", models.StatePatch{Phase: &phase})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRemoveMemberHostDeletesRoom(t *testing.T) {
	store := NewRoomStore()
	room := store.CreateRoom("conn-1", "Ana")
	_, err := store.JoinRoom(room.Code, "conn-2", "Ben")
	require.NoError(t, err)

	result := store.RemoveMember("conn-1")
	require.NotNil(t, result)
	assert.True(t, result.WasHost)
	assert.True(t, result.Deleted)

	_, err = store.Get(room.Code)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	_, err = store.JoinRoom(room.Code, "conn-3", "Cleo")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRemoveMemberRegularLeavesRoomAlive(t *testing.T) {
	store := NewRoomStore()
	room := store.CreateRoom("conn-1", "Ana")
	_, err := store.JoinRoom(room.Code, "conn-2", "Ben")
	require.NoError(t, err)

	result := store.RemoveMember("conn-2")
	require.NotNil(t, result)
	assert.False(t, result.WasHost)
	assert.False(t, result.Deleted)
	require.Len(t, result.Room.Members, 1)
	assert.Equal(t, "Ana", result.Room.Members[0].Name)

	current, err := store.Get(room.Code)
	require.NoError(t, err)
	assert.Len(t, current.Members, 1)
}

func TestRemoveMemberIsIdempotent(t *testing.T) {
	store := NewRoomStore()
	room := store.CreateRoom("conn-1", "Ana")
	_, err := store.JoinRoom(room.Code, "conn-2", "Ben")
	require.NoError(t, err)

	require.NotNil(t, store.RemoveMember("conn-2"))
	assert.Nil(t, store.RemoveMember("conn-2"))
	assert.Nil(t, store.RemoveMember("never-joined"))
}
