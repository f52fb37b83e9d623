package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ctx = context.Background()

// RedisProvider 基于redis的行情缓存实现
type RedisProvider struct {
	rdb *redis.Client
}

// NewRedisProvider 连接redis，连接失败返回错误由调用方回退内存缓存
func NewRedisProvider(addr string) (*RedisProvider, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // no password
		DB:       0,
	})

	// 测试连接
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("Redis连接失败: %v", err)
	}

	return &RedisProvider{rdb: rdb}, nil
}

// Get 读取缓存并反序列化
func (p *RedisProvider) Get(key string, dest any) error {
	data, err := p.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set 序列化后写入缓存
func (p *RedisProvider) Set(key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return p.rdb.Set(ctx, key, data, expiration).Err()
}

// Close 关闭redis连接
func (p *RedisProvider) Close() error {
	return p.rdb.Close()
}
