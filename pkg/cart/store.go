package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/example/gourmet/pkg/repository"
)

// JSONCache is the slice of the Redis repository the cart needs.
type JSONCache interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Del(ctx context.Context, keys ...string) error
}

// RedisStore keeps one cart per user under cart:<owner>.
type RedisStore struct {
	cache JSONCache
	ttl   time.Duration
}

func NewRedisStore(cache JSONCache, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: cache, ttl: ttl}
}

func cartKey(owner string) string {
	return fmt.Sprintf("cart:%s", owner)
}

func (s *RedisStore) Load(ctx context.Context, owner string) ([]Line, error) {
	var lines []Line
	err := s.cache.GetJSON(ctx, cartKey(owner), &lines)
	if errors.Is(err, repository.ErrCacheMiss) {
		return []Line{}, nil
	}
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *RedisStore) Save(ctx context.Context, owner string, lines []Line) error {
	if len(lines) == 0 {
		return s.cache.Del(ctx, cartKey(owner))
	}
	return s.cache.SetJSON(ctx, cartKey(owner), lines, s.ttl)
}

// FileStore keeps carts in a single JSON file keyed by owner. It backs the
// command line client.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) read() (map[string][]Line, error) {
	carts := map[string][]Line{}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return carts, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return carts, nil
	}
	if err := json.Unmarshal(data, &carts); err != nil {
		return nil, fmt.Errorf("corrupt cart file %s: %w", s.path, err)
	}
	return carts, nil
}

func (s *FileStore) Load(ctx context.Context, owner string) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	carts, err := s.read()
	if err != nil {
		return nil, err
	}
	lines := carts[owner]
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

func (s *FileStore) Save(ctx context.Context, owner string, lines []Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	carts, err := s.read()
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		delete(carts, owner)
	} else {
		carts[owner] = lines
	}
	return writeFileAtomic(s.path, carts)
}

func writeFileAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
