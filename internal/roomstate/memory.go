package roomstate

import (
	"context"
	"sync"

	"lunch_vote/internal/models"
)

// MemoryStore 是 Store 的行程內實作，語意與 RedisStore 相同
// 用於測試與不需要外部儲存的單機執行
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]map[string]models.RoomUser     // roomCode -> userId -> user
	votes    map[string]map[string]map[string]struct{} // roomCode -> restaurantId -> 投票者集合
	catalogs map[string][]models.Restaurant
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]map[string]models.RoomUser),
		votes:    make(map[string]map[string]map[string]struct{}),
		catalogs: make(map[string][]models.Restaurant),
	}
}

func (s *MemoryStore) SeedCatalog(_ context.Context, roomCode string, list []models.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalogs[roomCode] = append([]models.Restaurant(nil), list...)
	return nil
}

func (s *MemoryStore) GetCatalog(_ context.Context, roomCode string) ([]models.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Restaurant(nil), s.catalogs[roomCode]...), nil
}

func (s *MemoryStore) GetUser(_ context.Context, roomCode, userID string) (*models.RoomUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[roomCode][userID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *MemoryStore) AddUser(_ context.Context, roomCode string, user models.RoomUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.users[roomCode] == nil {
		s.users[roomCode] = make(map[string]models.RoomUser)
	}
	s.users[roomCode][user.UserID] = user
	return nil
}

func (s *MemoryStore) SetOnline(_ context.Context, roomCode, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[roomCode][userID]; ok {
		user.IsOnline = true
		s.users[roomCode][userID] = user
	}
	return nil
}

func (s *MemoryStore) UpdateLocation(_ context.Context, roomCode, userID string, lat, lng float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[roomCode][userID]
	if !ok {
		// 與 RedisStore 相同：尚未加入的使用者回報位置是良性競態
		return nil
	}
	user.UserLat = lat
	user.UserLng = lng
	s.users[roomCode][userID] = user
	return nil
}

func (s *MemoryStore) RemoveUser(_ context.Context, roomCode, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users[roomCode], userID)
	return nil
}

func (s *MemoryStore) GetAllUsers(_ context.Context, roomCode string) (map[string]models.RoomUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]models.RoomUser, len(s.users[roomCode]))
	for id, user := range s.users[roomCode] {
		users[id] = user
	}
	return users, nil
}

func (s *MemoryStore) Vote(_ context.Context, roomCode, userID, restaurantID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.votes[roomCode] == nil {
		s.votes[roomCode] = make(map[string]map[string]struct{})
	}
	if s.votes[roomCode][restaurantID] == nil {
		s.votes[roomCode][restaurantID] = make(map[string]struct{})
	}

	if _, voted := s.votes[roomCode][restaurantID][userID]; voted {
		return false, nil
	}
	s.votes[roomCode][restaurantID][userID] = struct{}{}
	return true, nil
}

func (s *MemoryStore) Unvote(_ context.Context, roomCode, userID, restaurantID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	voters, ok := s.votes[roomCode][restaurantID]
	if !ok {
		return false, nil
	}
	if _, voted := voters[userID]; !voted {
		return false, nil
	}
	delete(voters, userID)
	return true, nil
}

func (s *MemoryStore) GetCandidateList(_ context.Context, roomCode string) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make(map[string][]string, len(s.votes[roomCode]))
	for rid, voters := range s.votes[roomCode] {
		ids := make([]string, 0, len(voters))
		for id := range voters {
			ids = append(ids, id)
		}
		candidates[rid] = ids
	}
	return candidates, nil
}
