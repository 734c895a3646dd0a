package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeCache is an in-memory stand-in for the Commander surface the stores
// consume, built with go-redis's New*Result constructors. TTLs are recorded
// per key so tests can assert expiry resets without waiting them out.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration
	info    string
	err     error // when set, every command fails with it
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string]string),
		ttls:    make(map[string]time.Duration),
		info:    "# Server\r\nuptime_in_seconds:42\r\n# Clients\r\nconnected_clients:1\r\n# Memory\r\nused_memory_human:1.0M\r\n",
	}
}

func (f *fakeCache) Ping(ctx context.Context) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.entries[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return f.store(key, value, expiration)
}

func (f *fakeCache) SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return f.store(key, value, expiration)
}

func (f *fakeCache) store(key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = asString(value)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := f.entries[key]; ok {
			delete(f.entries, key)
			delete(f.ttls, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func (f *fakeCache) IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	current := int64(0)
	if raw, ok := f.entries[key]; ok {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return redis.NewIntResult(0, errors.New("value is not an integer"))
		}
		current = parsed
	}
	current += value
	f.entries[key] = strconv.FormatInt(current, 10)
	return redis.NewIntResult(current, nil)
}

func (f *fakeCache) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	if f.err != nil {
		return redis.NewScanCmdResult(nil, 0, f.err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return redis.NewScanCmdResult(keys, 0, nil)
}

func (f *fakeCache) Info(ctx context.Context, section ...string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	return redis.NewStringResult(f.info, nil)
}

func (f *fakeCache) FlushDB(ctx context.Context) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[string]string)
	f.ttls = make(map[string]time.Duration)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCache) ttl(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttls[key]
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		panic("fakeCache: unsupported value type")
	}
}

var _ Commander = (*fakeCache)(nil)
