package repository

import "lunch_vote/internal/storage"

type Repositories struct {
	Room       RoomRepository
	Restaurant RestaurantRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		Room:       NewRoomRepository(db),
		Restaurant: NewRestaurantRepository(db),
	}
}
