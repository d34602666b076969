package cache

import (
	"strconv"

	"github.com/pkg/errors"

	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/logger"

	"github.com/bradfitz/gomemcache/memcache"
)

var defaultBase = 10

// MemcacheClient caches computed per-day summaries so re-renders between
// mutations skip aggregation.
type MemcacheClient struct {
	client *memcache.Client
}

type config interface {
	Hosts() []string
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, mc.Ping()
}

func formatKey(userID int64, day string) string {
	return strconv.FormatInt(userID, defaultBase) + ":summary:" + day
}

func (mc *MemcacheClient) CacheSummary(userID int64, day string, payload string) error {
	logger.Info("cache summary", zap.Int64("userID", userID), zap.String("day", day))
	return mc.client.Set(&memcache.Item{
		Key:   formatKey(userID, day),
		Value: []byte(payload)},
	)
}

func (mc *MemcacheClient) GetSummary(userID int64, day string) (string, error) {
	item, err := mc.client.Get(formatKey(userID, day))
	if err != nil {
		return "", err
	}
	return string(item.Value), nil
}

func (mc *MemcacheClient) InvalidateSummary(userID int64, day string) error {
	logger.Info("invalidate summary", zap.Int64("userID", userID), zap.String("day", day))

	err := mc.client.Delete(formatKey(userID, day))
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return err
	}
	return nil
}
