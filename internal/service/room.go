package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lunch_vote/internal/clients"
	"lunch_vote/internal/models"
	"lunch_vote/internal/repository"
	"lunch_vote/internal/roomstate"
)

// RoomService 處理房間的建立與查詢
// 建立房間時向地點搜尋服務取得附近餐廳，寫進資料庫並把快照種進共享狀態，
// 之後 socket 流程只讀快照
type RoomService struct {
	roomRepo       repository.RoomRepository
	restaurantRepo repository.RestaurantRepository
	store          roomstate.Store
	places         *clients.PlacesClient
	searchRadius   int
	logger         zerolog.Logger
}

func NewRoomService(
	roomRepo repository.RoomRepository,
	restaurantRepo repository.RestaurantRepository,
	store roomstate.Store,
	places *clients.PlacesClient,
	searchRadius int,
	logger zerolog.Logger,
) *RoomService {
	return &RoomService{
		roomRepo:       roomRepo,
		restaurantRepo: restaurantRepo,
		store:          store,
		places:         places,
		searchRadius:   searchRadius,
		logger:         logger.With().Str("component", "room").Logger(),
	}
}

// CreateRoom 建立一個以 (lat, lng) 為聚餐地點的房間
func (s *RoomService) CreateRoom(ctx context.Context, lat, lng float64) (*models.Room, error) {
	restaurants, err := s.places.SearchNearby(ctx, lat, lng, s.searchRadius)
	if err != nil {
		return nil, fmt.Errorf("search nearby restaurants: %w", err)
	}

	room := &models.Room{
		RoomCode: uuid.NewString(),
		Lat:      lat,
		Lng:      lng,
	}
	if err := s.roomRepo.Create(room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	for i := range restaurants {
		restaurants[i].RoomID = room.ID
	}
	if err := s.restaurantRepo.CreateBatch(restaurants); err != nil {
		return nil, fmt.Errorf("persist restaurants: %w", err)
	}

	if err := s.store.SeedCatalog(ctx, room.RoomCode, restaurants); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	s.logger.Info().Str("roomCode", room.RoomCode).Int("restaurants", len(restaurants)).
		Msg("room created")
	return room, nil
}

// ValidRoom 確認房間代碼存在
// 客戶端在開 socket 之前先呼叫這個端點，順便取得 session cookie
func (s *RoomService) ValidRoom(roomCode string) (bool, error) {
	_, err := s.roomRepo.FindByCode(roomCode)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetRoom 取得房間的聚餐地點與餐廳快照
func (s *RoomService) GetRoom(ctx context.Context, roomCode string) (*models.Room, []models.Restaurant, error) {
	room, err := s.roomRepo.FindByCode(roomCode)
	if err != nil {
		return nil, nil, err
	}

	catalog, err := s.store.GetCatalog(ctx, roomCode)
	if err != nil {
		return nil, nil, err
	}
	if len(catalog) == 0 {
		// 快照遺失時退回資料庫裡的餐廳列表
		catalog, err = s.restaurantRepo.FindByRoomID(room.ID)
		if err != nil {
			return nil, nil, err
		}
	}

	return room, catalog, nil
}
