package l1cache

import (
	"container/list"
	"reflect"
	"sync"
	"time"
)

// LRU is a thread-safe fixed size LRU cache.
type LRU struct {
	name                   string
	size                   int
	evictList              *list.List
	items                  map[string]*list.Element
	lock                   sync.RWMutex
	defaultExpiry          time.Duration
	invalidateClusterEvent string
}

// LRUOptions contains options for the LRU cache
type LRUOptions struct {
	Name                   string
	Size                   int
	DefaultExpiry          time.Duration
	InvalidateClusterEvent string
}

// entry is used to hold a value in the evictList.
type entry struct {
	key     string
	value   interface{}
	expires time.Time
}

// NewLRU creates an LRU of the given size.
func NewLRU(opts *LRUOptions) Cache {
	return &LRU{
		name:                   opts.Name,
		size:                   opts.Size,
		evictList:              list.New(),
		items:                  make(map[string]*list.Element, opts.Size),
		defaultExpiry:          opts.DefaultExpiry,
		invalidateClusterEvent: opts.InvalidateClusterEvent,
	}
}

// Purge is used to completely clear the cache.
func (l *LRU) Purge() error {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.items = make(map[string]*list.Element, l.size)
	l.evictList.Init()
	return nil
}

// Set adds the given key and value to the store without an expiry.
func (l *LRU) Set(key string, value interface{}) error {
	return l.SetWithExpiry(key, value, 0)
}

// SetWithDefaultExpiry adds the given key and value to the store with the
// default expiry.
func (l *LRU) SetWithDefaultExpiry(key string, value interface{}) error {
	return l.SetWithExpiry(key, value, l.defaultExpiry)
}

// SetWithExpiry adds the given key and value to the cache with the given expiry.
func (l *LRU) SetWithExpiry(key string, value interface{}, ttl time.Duration) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	if ent, ok := l.items[key]; ok {
		l.evictList.MoveToFront(ent)
		e := ent.Value.(*entry)
		e.value = value
		e.expires = expires
		return nil
	}

	ent := &entry{key, value, expires}
	l.items[key] = l.evictList.PushFront(ent)

	if l.evictList.Len() > l.size {
		l.removeOldest()
	}

	return nil
}

// Get the content stored in the cache for the given key.
func (l *LRU) Get(key string, value interface{}) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	ent, ok := l.items[key]
	if !ok {
		return ErrKeyNotFound
	}

	e := ent.Value.(*entry)
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		l.removeElement(ent)
		return ErrKeyNotFound
	}

	l.evictList.MoveToFront(ent)

	if ptr, ok := value.(*interface{}); ok {
		*ptr = e.value
		return nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrKeyNotFound
	}

	sv := reflect.ValueOf(e.value)
	if !sv.Type().AssignableTo(rv.Elem().Type()) {
		return ErrKeyNotFound
	}

	rv.Elem().Set(sv)
	return nil
}

// Remove deletes the value for a given key.
func (l *LRU) Remove(key string) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if ent, ok := l.items[key]; ok {
		l.removeElement(ent)
	}

	return nil
}

// Keys returns a slice of the keys in the cache.
func (l *LRU) Keys() ([]string, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	keys := make([]string, 0, len(l.items))
	for ent := l.evictList.Back(); ent != nil; ent = ent.Prev() {
		keys = append(keys, ent.Value.(*entry).key)
	}

	return keys, nil
}

// Len returns the number of items in the cache.
func (l *LRU) Len() (int, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.evictList.Len(), nil
}

// GetInvalidateClusterEvent returns the cluster event configured when this
// cache was created.
func (l *LRU) GetInvalidateClusterEvent() string {
	return l.invalidateClusterEvent
}

// Name returns the name of the cache.
func (l *LRU) Name() string {
	return l.name
}

func (l *LRU) removeOldest() {
	ent := l.evictList.Back()
	if ent != nil {
		l.removeElement(ent)
	}
}

func (l *LRU) removeElement(e *list.Element) {
	l.evictList.Remove(e)
	delete(l.items, e.Value.(*entry).key)
}
