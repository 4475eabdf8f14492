package redis

import (
	redis_utils "Insider/services/redis/utils"
	"fmt"
)

// ClearBans removes every live ban record and returns how many went.
func (rc *RedisClient) ClearBans() (int, error) {
	var keys []string
	iter := rc.client.Scan(rc.ctx, 0, redis_utils.FormatBanKey("*"), 100).Iterator()
	for iter.Next(rc.ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return 0, fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return len(keys), nil
}
