package redis

import (
	redis_models "Insider/models/redis"
	redis_utils "Insider/services/redis/utils"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a looked-up key does not exist.
var ErrNotFound = errors.New("redis: key not found")

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// SaveBan stores a ban record under "ban:<playerId>". A zero ttl means
// the ban is permanent and the key never expires.
func (rc *RedisClient) SaveBan(ban *redis_models.BanRecord, ttl time.Duration) error {
	key := redis_utils.FormatBanKey(ban.PlayerID)
	data, err := json.Marshal(ban)
	if err != nil {
		return err
	}
	if err := rc.client.Set(rc.ctx, key, data, ttl).Err(); err != nil {
		return err
	}
	log.Printf("[REDIS] ban saved for %s (ttl %v)", ban.PlayerID, ttl)
	return nil
}

// GetBan fetches the ban record of a player, ErrNotFound if none.
func (rc *RedisClient) GetBan(playerID string) (*redis_models.BanRecord, error) {
	data, err := rc.client.Get(rc.ctx, redis_utils.FormatBanKey(playerID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var ban redis_models.BanRecord
	if err := json.Unmarshal(data, &ban); err != nil {
		return nil, err
	}
	return &ban, nil
}

// IsBanned reports whether a player currently has a live ban. Expired
// bans disappear with their key TTL, so existence is the whole check.
func (rc *RedisClient) IsBanned(playerID string) (bool, error) {
	n, err := rc.client.Exists(rc.ctx, redis_utils.FormatBanKey(playerID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteBan lifts a ban. Deleting a non-existent ban is not an error.
func (rc *RedisClient) DeleteBan(playerID string) error {
	return rc.client.Del(rc.ctx, redis_utils.FormatBanKey(playerID)).Err()
}

// ListBans scans every live ban record.
func (rc *RedisClient) ListBans() ([]redis_models.BanRecord, error) {
	var bans []redis_models.BanRecord
	iter := rc.client.Scan(rc.ctx, 0, redis_utils.FormatBanKey("*"), 100).Iterator()
	for iter.Next(rc.ctx) {
		data, err := rc.client.Get(rc.ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, err
		}
		var ban redis_models.BanRecord
		if err := json.Unmarshal(data, &ban); err != nil {
			return nil, err
		}
		bans = append(bans, ban)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return bans, nil
}
