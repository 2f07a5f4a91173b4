package repository

import (
	"errors"

	"gorm.io/gorm"

	"lunch_vote/internal/models"
	"lunch_vote/internal/storage"
)

// ErrRoomNotFound 表示查詢的房間代碼不存在
var ErrRoomNotFound = errors.New("room not found")

type RoomRepository interface {
	Create(room *models.Room) error
	FindByCode(roomCode string) (*models.Room, error)
}

type roomRepository struct {
	db *storage.PostgresDB
}

func NewRoomRepository(db *storage.PostgresDB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(room *models.Room) error {
	return r.db.Create(room).Error
}

func (r *roomRepository) FindByCode(roomCode string) (*models.Room, error) {
	var room models.Room
	err := r.db.Where("room_code = ?", roomCode).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}
