package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/color-whist/internal/game/room"
)

const (
	// Redis key 前缀
	roomKeyPrefix = "room:"

	// 房间摘要过期时间
	roomExpiration = 2 * time.Hour

	opTimeout = 3 * time.Second
)

// RedisStore 房间摘要存储。只有 ranked 房间会写入。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// SaveRoom 保存房间摘要（room.RoomSaver 实现，调用方已在广播路径外）
func (rs *RedisStore) SaveRoom(summary room.RoomSummary) {
	if rs == nil || rs.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := json.Marshal(summary)
	if err != nil {
		log.Printf("序列化房间摘要失败: %v", err)
		return
	}
	if err := rs.client.Set(ctx, roomKeyPrefix+summary.ID, data, roomExpiration).Err(); err != nil {
		log.Printf("保存房间摘要失败: %v", err)
	}
}

// DeleteRoom 删除房间摘要
func (rs *RedisStore) DeleteRoom(roomID string) {
	if rs == nil || rs.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := rs.client.Del(ctx, roomKeyPrefix+roomID).Err(); err != nil {
		log.Printf("删除房间摘要失败: %v", err)
	}
}

// LoadRoom 读取房间摘要（运维查询用）
func (rs *RedisStore) LoadRoom(ctx context.Context, roomID string) (*room.RoomSummary, error) {
	data, err := rs.client.Get(ctx, roomKeyPrefix+roomID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // 摘要不存在
		}
		return nil, err
	}

	var summary room.RoomSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("反序列化房间摘要失败: %w", err)
	}
	return &summary, nil
}

// GetAllRoomIDs 获取所有已落盘的房间 ID
func (rs *RedisStore) GetAllRoomIDs(ctx context.Context) ([]string, error) {
	keys, err := rs.client.Keys(ctx, roomKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(keys))
	for i, key := range keys {
		ids[i] = key[len(roomKeyPrefix):]
	}
	return ids, nil
}
