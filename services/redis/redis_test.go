package redis

import (
	redis_models "Insider/models/redis"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanOperations(t *testing.T) {
	rc, err := InitRedis("localhost:6379", 0)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer CloseRedis(rc)

	require.NoError(t, rc.DeleteBan("test_player"))

	banned, err := rc.IsBanned("test_player")
	require.NoError(t, err)
	assert.False(t, banned)

	_, err = rc.GetBan("test_player")
	assert.ErrorIs(t, err, ErrNotFound)

	expires := time.Now().Add(time.Hour)
	ban := &redis_models.BanRecord{
		PlayerID:  "test_player",
		Reason:    "spam",
		BannedAt:  time.Now(),
		ExpiresAt: &expires,
	}
	require.NoError(t, rc.SaveBan(ban, time.Hour))

	banned, err = rc.IsBanned("test_player")
	require.NoError(t, err)
	assert.True(t, banned)

	got, err := rc.GetBan("test_player")
	require.NoError(t, err)
	assert.Equal(t, "test_player", got.PlayerID)
	assert.Equal(t, "spam", got.Reason)
	require.NotNil(t, got.ExpiresAt)

	bans, err := rc.ListBans()
	require.NoError(t, err)
	assert.NotEmpty(t, bans)

	require.NoError(t, rc.DeleteBan("test_player"))
	banned, err = rc.IsBanned("test_player")
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestBanTTLExpiry(t *testing.T) {
	rc, err := InitRedis("localhost:6379", 0)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer CloseRedis(rc)

	ban := &redis_models.BanRecord{
		PlayerID: "test_player_ttl",
		Reason:   "short",
		BannedAt: time.Now(),
	}
	require.NoError(t, rc.SaveBan(ban, 50*time.Millisecond))

	assert.Eventually(t, func() bool {
		banned, err := rc.IsBanned("test_player_ttl")
		return err == nil && !banned
	}, 2*time.Second, 25*time.Millisecond)
}
