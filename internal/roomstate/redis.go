package roomstate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lunch_vote/internal/models"
)

// Redis 的 key 配置：
//
//	join:{roomCode}                加入名單的 userId 索引（set）
//	join:{roomCode}:{userId}       單一使用者的欄位（hash）
//	candidates:{roomCode}          有人投過票的 restaurantId 索引（set）
//	candidates:{roomCode}:{rid}    單一餐廳的投票者集合（set）
//	catalog:{roomCode}             餐廳快照（JSON 字串）
//
// 每個使用者一個 hash、每間餐廳一個 set，讓上線標記與投票
// 都落在單鍵的原子操作上，不需要跨鍵的交易。
type RedisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedisStore(client *redis.Client, logger zerolog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger.With().Str("component", "roomstate").Logger(),
	}
}

func joinIndexKey(roomCode string) string {
	return "join:" + roomCode
}

func joinUserKey(roomCode, userID string) string {
	return "join:" + roomCode + ":" + userID
}

func candidateIndexKey(roomCode string) string {
	return "candidates:" + roomCode
}

func candidateKey(roomCode, restaurantID string) string {
	return "candidates:" + roomCode + ":" + restaurantID
}

func catalogKey(roomCode string) string {
	return "catalog:" + roomCode
}

func (s *RedisStore) SeedCatalog(ctx context.Context, roomCode string, list []models.Restaurant) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	return s.client.Set(ctx, catalogKey(roomCode), data, 0).Err()
}

func (s *RedisStore) GetCatalog(ctx context.Context, roomCode string) ([]models.Restaurant, error) {
	data, err := s.client.Get(ctx, catalogKey(roomCode)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var list []models.Restaurant
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return list, nil
}

func (s *RedisStore) GetUser(ctx context.Context, roomCode, userID string) (*models.RoomUser, error) {
	fields, err := s.client.HGetAll(ctx, joinUserKey(roomCode, userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	user := userFromFields(userID, fields)
	return &user, nil
}

func (s *RedisStore) AddUser(ctx context.Context, roomCode string, user models.RoomUser) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, joinUserKey(roomCode, user.UserID), userToFields(user))
	pipe.SAdd(ctx, joinIndexKey(roomCode), user.UserID)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) SetOnline(ctx context.Context, roomCode, userID string) error {
	return s.client.HSet(ctx, joinUserKey(roomCode, userID), "isOnline", "1").Err()
}

func (s *RedisStore) UpdateLocation(ctx context.Context, roomCode, userID string, lat, lng float64) error {
	member, err := s.client.SIsMember(ctx, joinIndexKey(roomCode), userID).Result()
	if err != nil {
		return err
	}
	if !member {
		// 尚未完成加入流程就回報位置，略過
		s.logger.Debug().Str("roomCode", roomCode).Str("userId", userID).
			Msg("location update for unknown user ignored")
		return nil
	}

	return s.client.HSet(ctx, joinUserKey(roomCode, userID),
		"userLat", formatFloat(lat),
		"userLng", formatFloat(lng),
	).Err()
}

func (s *RedisStore) RemoveUser(ctx context.Context, roomCode, userID string) error {
	pipe := s.client.TxPipeline()
	pipe.SRem(ctx, joinIndexKey(roomCode), userID)
	pipe.Del(ctx, joinUserKey(roomCode, userID))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) GetAllUsers(ctx context.Context, roomCode string) (map[string]models.RoomUser, error) {
	ids, err := s.client.SMembers(ctx, joinIndexKey(roomCode)).Result()
	if err != nil {
		return nil, err
	}

	users := make(map[string]models.RoomUser, len(ids))
	for _, id := range ids {
		fields, err := s.client.HGetAll(ctx, joinUserKey(roomCode, id)).Result()
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			// 索引與 hash 之間的刪除競態，略過
			continue
		}
		users[id] = userFromFields(id, fields)
	}
	return users, nil
}

func (s *RedisStore) Vote(ctx context.Context, roomCode, userID, restaurantID string) (bool, error) {
	pipe := s.client.TxPipeline()
	added := pipe.SAdd(ctx, candidateKey(roomCode, restaurantID), userID)
	pipe.SAdd(ctx, candidateIndexKey(roomCode), restaurantID)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return added.Val() == 1, nil
}

func (s *RedisStore) Unvote(ctx context.Context, roomCode, userID, restaurantID string) (bool, error) {
	removed, err := s.client.SRem(ctx, candidateKey(roomCode, restaurantID), userID).Result()
	if err != nil {
		return false, err
	}
	return removed == 1, nil
}

func (s *RedisStore) GetCandidateList(ctx context.Context, roomCode string) (map[string][]string, error) {
	ids, err := s.client.SMembers(ctx, candidateIndexKey(roomCode)).Result()
	if err != nil {
		return nil, err
	}

	candidates := make(map[string][]string, len(ids))
	for _, rid := range ids {
		voters, err := s.client.SMembers(ctx, candidateKey(roomCode, rid)).Result()
		if err != nil {
			return nil, err
		}
		candidates[rid] = voters
	}
	return candidates, nil
}

func userToFields(user models.RoomUser) map[string]interface{} {
	online := "0"
	if user.IsOnline {
		online = "1"
	}
	return map[string]interface{}{
		"userName": user.UserName,
		"userLat":  formatFloat(user.UserLat),
		"userLng":  formatFloat(user.UserLng),
		"isOnline": online,
	}
}

func userFromFields(userID string, fields map[string]string) models.RoomUser {
	lat, _ := strconv.ParseFloat(fields["userLat"], 64)
	lng, _ := strconv.ParseFloat(fields["userLng"], 64)
	return models.RoomUser{
		UserID:   userID,
		UserName: fields["userName"],
		UserLat:  lat,
		UserLng:  lng,
		IsOnline: fields["isOnline"] == "1",
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
