package util

import (
	"container/list"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ariebrainware/tutorclass/config"
	"github.com/ariebrainware/tutorclass/model"
	"github.com/redis/go-redis/v9"
)

const (
	searchCacheGenKey      = "classes:search:gen"
	defaultSearchCacheSize = 1000
	defaultSearchCacheTTL  = time.Minute
)

// SearchKey identifies one class search.
type SearchKey struct {
	WeekDay int
	Minutes int
	Subject string
}

func (k SearchKey) String() string {
	return fmt.Sprintf("%d:%d:%s", k.WeekDay, k.Minutes, k.Subject)
}

func redisSearchKey(gen int64, k SearchKey) string {
	return fmt.Sprintf("classes:search:v%d:%s", gen, k)
}

// LRU cache for search key -> rows, used when Redis is not configured.
type searchEntry struct {
	key     string
	rows    []model.ClassSearchResult
	expires time.Time
}

type searchLRU struct {
	mu       sync.Mutex
	ll       *list.List
	cache    map[string]*list.Element
	capacity int
	ttl      time.Duration
	gen      int64
}

var searchCache *searchLRU

// InitSearchCache initializes the cache with given capacity and TTL.
// If capacity <= 0, a default of 1000 is used; if ttl <= 0, one minute.
func InitSearchCache(capacity int, ttl time.Duration) {
	if capacity <= 0 {
		capacity = defaultSearchCacheSize
	}
	if ttl <= 0 {
		ttl = defaultSearchCacheTTL
	}
	searchCache = &searchLRU{
		ll:       list.New(),
		cache:    make(map[string]*list.Element),
		capacity: capacity,
		ttl:      ttl,
	}
}

func (l *searchLRU) get(key string) ([]model.ClassSearchResult, int64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ele, ok := l.cache[key]
	if !ok {
		return nil, l.gen, false
	}
	e := ele.Value.(searchEntry)
	if time.Now().After(e.expires) {
		l.ll.Remove(ele)
		delete(l.cache, key)
		return nil, l.gen, false
	}
	l.ll.MoveToFront(ele)
	return e.rows, l.gen, true
}

// set stores rows read under generation gen; it is a no-op once clear has run since.
func (l *searchLRU) set(key string, gen int64, rows []model.ClassSearchResult) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return false
	}
	entry := searchEntry{key: key, rows: rows, expires: time.Now().Add(l.ttl)}
	if ele, ok := l.cache[key]; ok {
		l.ll.MoveToFront(ele)
		ele.Value = entry
		return true
	}
	l.cache[key] = l.ll.PushFront(entry)
	if l.ll.Len() > l.capacity {
		// evict least recently used
		if tail := l.ll.Back(); tail != nil {
			delete(l.cache, tail.Value.(searchEntry).key)
			l.ll.Remove(tail)
		}
	}
	return true
}

func (l *searchLRU) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.ll.Init()
	l.cache = make(map[string]*list.Element)
}

func (l *searchLRU) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ll.Len()
}

func searchTTL() time.Duration {
	if searchCache != nil {
		return searchCache.ttl
	}
	return defaultSearchCacheTTL
}

func searchGeneration(ctx context.Context, rdb *redis.Client) (int64, error) {
	gen, err := rdb.Get(ctx, searchCacheGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SearchLookup is the outcome of GetCachedSearch. Gen is the cache generation
// observed before the lookup; pass it back to SetCachedSearch so rows read
// before an invalidation are never stored after it.
type SearchLookup struct {
	Rows []model.ClassSearchResult
	Gen  int64
	Hit  bool
}

// noGeneration marks a lookup whose result must not be cached.
const noGeneration int64 = -1

// GetCachedSearch looks up key. Redis is used when available, otherwise the
// in-process LRU. Errors count as a miss that must not be cached.
func GetCachedSearch(ctx context.Context, key SearchKey) SearchLookup {
	rdb := config.GetRedisClient()
	if rdb == nil {
		if searchCache == nil {
			return SearchLookup{Gen: noGeneration}
		}
		rows, gen, ok := searchCache.get(key.String())
		return SearchLookup{Rows: rows, Gen: gen, Hit: ok}
	}

	gen, err := searchGeneration(ctx, rdb)
	if err != nil {
		Log.WithError(err).Warn("search cache: failed to read generation")
		return SearchLookup{Gen: noGeneration}
	}
	b, err := rdb.Get(ctx, redisSearchKey(gen, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			Log.WithError(err).WithField("key", key.String()).Warn("search cache: get failed")
		}
		return SearchLookup{Gen: gen}
	}
	var rows []model.ClassSearchResult
	if err := json.Unmarshal(b, &rows); err != nil {
		Log.WithError(err).WithField("key", key.String()).Warn("search cache: corrupt entry")
		return SearchLookup{Gen: gen}
	}
	return SearchLookup{Rows: rows, Gen: gen, Hit: true}
}

// SetCachedSearch stores rows for key as read under generation gen.
// Best-effort: failures are logged only. With Redis the rows are written
// under gen's key, which is unreachable once the generation has moved.
func SetCachedSearch(ctx context.Context, key SearchKey, gen int64, rows []model.ClassSearchResult) {
	if gen == noGeneration {
		return
	}
	rdb := config.GetRedisClient()
	if rdb == nil {
		if searchCache != nil && !searchCache.set(key.String(), gen, rows) {
			Log.WithField("key", key.String()).Debug("search cache: skipped write older than last invalidation")
		}
		return
	}

	b, err := json.Marshal(rows)
	if err != nil {
		Log.WithError(err).Warn("search cache: failed to encode rows")
		return
	}
	if err := rdb.Set(ctx, redisSearchKey(gen, key), b, searchTTL()).Err(); err != nil {
		Log.WithError(err).WithField("key", key.String()).Warn("search cache: set failed")
	}
}

// InvalidateSearchCache drops every cached search. With Redis the generation
// counter is bumped so stale keys are never read again and expire on their own.
func InvalidateSearchCache(ctx context.Context) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		if searchCache != nil {
			searchCache.clear()
		}
		return nil
	}
	if err := rdb.Incr(ctx, searchCacheGenKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate search cache: %w", err)
	}
	return nil
}

// ResetSearchCacheForTest disables the in-process cache.
// This function is only available for testing and should not be used in production code.
func ResetSearchCacheForTest() {
	searchCache = nil
}
