package service

import (
	"github.com/rs/zerolog"

	"lunch_vote/internal/clients"
	"lunch_vote/internal/repository"
	"lunch_vote/internal/roomstate"
)

type Services struct {
	Room    *RoomService
	Gateway *Gateway
}

func NewServices(
	repos *repository.Repositories,
	store roomstate.Store,
	places *clients.PlacesClient,
	searchRadius int,
	logger zerolog.Logger,
) *Services {
	return &Services{
		Room:    NewRoomService(repos.Room, repos.Restaurant, store, places, searchRadius, logger),
		Gateway: NewGateway(store, repos.Room, logger),
	}
}
