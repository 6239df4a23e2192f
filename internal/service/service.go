package service

import (
	"imposter_web/internal/repository"
)

type Services struct {
	Store    *RoomStore
	WS       *WebSocketManager
	Relay    *RelayService
	Sessions *SessionService
}

func NewServices(repos *repository.Repositories) *Services {
	store := NewRoomStore()
	ws := NewWebSocketManager()

	return &Services{
		Store:    store,
		WS:       ws,
		Relay:    NewRelayService(store, ws),
		Sessions: NewSessionService(repos.Session),
	}
}
