package repository

import (
	"lunch_vote/internal/models"
	"lunch_vote/internal/storage"
)

type RestaurantRepository interface {
	CreateBatch(restaurants []models.Restaurant) error
	FindByRoomID(roomID uint) ([]models.Restaurant, error)
}

type restaurantRepository struct {
	db *storage.PostgresDB
}

func NewRestaurantRepository(db *storage.PostgresDB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) CreateBatch(restaurants []models.Restaurant) error {
	if len(restaurants) == 0 {
		return nil
	}
	return r.db.Create(&restaurants).Error
}

// FindByRoomID 查詢房間建立時寫入的餐廳列表
func (r *restaurantRepository) FindByRoomID(roomID uint) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.Where("room_id = ?", roomID).Order("distance asc").Find(&restaurants).Error
	return restaurants, err
}
