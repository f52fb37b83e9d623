package marketdata

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// CacheProvider 行情缓存接口，默认内存实现，可替换为 redis
type CacheProvider interface {
	Get(key string, dest any) error
	Set(key string, value any, expiration time.Duration) error
}

type memoryCacheItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCacheProvider 进程内缓存
type MemoryCacheProvider struct {
	mu    sync.RWMutex
	items map[string]memoryCacheItem
}

func NewMemoryCacheProvider() *MemoryCacheProvider {
	return &MemoryCacheProvider{items: map[string]memoryCacheItem{}}
}

func (p *MemoryCacheProvider) Get(key string, dest any) error {
	p.mu.RLock()
	item, ok := p.items[key]
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("缓存未命中")
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		p.mu.Lock()
		delete(p.items, key)
		p.mu.Unlock()
		return fmt.Errorf("缓存已过期")
	}
	return json.Unmarshal(item.data, dest)
}

func (p *MemoryCacheProvider) Set(key string, value any, expiration time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var expiresAt time.Time
	if expiration > 0 {
		expiresAt = time.Now().Add(expiration)
	}
	p.mu.Lock()
	p.items[key] = memoryCacheItem{data: b, expiresAt: expiresAt}
	p.mu.Unlock()
	return nil
}

var cacheProvider CacheProvider = NewMemoryCacheProvider()

// SetCacheProvider 替换缓存实现
func SetCacheProvider(p CacheProvider) {
	if p == nil {
		cacheProvider = NewMemoryCacheProvider()
		return
	}
	cacheProvider = p
}

func getCacheProvider() CacheProvider {
	if cacheProvider == nil {
		cacheProvider = NewMemoryCacheProvider()
	}
	return cacheProvider
}
