package cachelayer

import (
	"github.com/commstack/portal/model"
	"github.com/commstack/portal/services/cache"
	"github.com/commstack/portal/store"
)

type CacheStore struct {
	store.Store
	community CacheCommunityStore
	post      CachePostStore
	config    *model.Config
}

func NewCacheLayer(baseStore store.Store, cfg *model.Config) CacheStore {
	cacheStore := CacheStore{
		Store:  baseStore,
		config: cfg,
	}

	cacheStore.community = CacheCommunityStore{
		CommunityStore: baseStore.Community(),
		rootStore:      &cacheStore,
	}

	cacheStore.post = CachePostStore{
		PostStore: baseStore.Post(),
		rootStore: &cacheStore,
	}

	return cacheStore
}

func (s CacheStore) Community() store.CommunityStore {
	return s.community
}

func (s CacheStore) Post() store.PostStore {
	return s.post
}

func (s CacheStore) DropAllTables() {
	s.Invalidate()
	s.Store.DropAllTables()
}

func (s *CacheStore) Invalidate() {
	// deletes all keys from all databases
	cache.NewRedisBackend(&s.config.CacheSettings).FlushAll()
}

func (s *CacheStore) addToCache(key string, value interface{}, ttl int) {
	cache.NewRedisBackend(&s.config.CacheSettings).Set(key, value, ttl)
}

func (s *CacheStore) readCache(key string) *string {
	val, err := cache.NewRedisBackend(&s.config.CacheSettings).Get(key)
	// a missing key comes back as an error
	if err == nil {
		return &val
	}

	return nil
}

func (s *CacheStore) existsKey(key string) bool {
	count, err := cache.NewRedisBackend(&s.config.CacheSettings).Exists(key)
	if err != nil || count <= 0 {
		return false
	}

	return true
}

func (s *CacheStore) deleteCache(keys []string) (int64, error) {
	// returns the number of keys actually removed
	return cache.NewRedisBackend(&s.config.CacheSettings).Del(keys)
}
