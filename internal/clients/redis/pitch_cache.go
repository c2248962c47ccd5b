package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/team-izakaya/menugraph-backend/internal/platform/logger"
)

// PitchCache memoizes generated pitches so repeated identical requests skip
// the serialized generation call. Lookups and writes are best-effort; a cache
// failure is logged and never surfaced.
type PitchCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, pitch string)
	Close() error
}

type pitchCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewPitchCache(log *logger.Logger) (PitchCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := 600 * time.Second
	if v := strings.TrimSpace(os.Getenv("PITCH_CACHE_TTL_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			ttl = time.Duration(parsed) * time.Second
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &pitchCache{
		log: log.With("client", "PitchCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (p *pitchCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := p.rdb.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false
	}
	if err != nil {
		p.log.Warn("Pitch cache lookup failed (continuing)", "error", err)
		return "", false
	}
	return val, true
}

func (p *pitchCache) Set(ctx context.Context, key, pitch string) {
	if pitch == "" {
		return
	}
	if err := p.rdb.Set(ctx, key, pitch, p.ttl).Err(); err != nil {
		p.log.Warn("Pitch cache write failed (continuing)", "error", err)
	}
}

func (p *pitchCache) Close() error {
	return p.rdb.Close()
}

// CacheKey fingerprints one generation request. Condition keys are sorted so
// the same request always hashes the same.
func CacheKey(mode string, menus []string, conditions map[string]string) string {
	var b strings.Builder
	b.WriteString(mode)
	b.WriteString("|")
	b.WriteString(strings.Join(menus, ","))
	b.WriteString("|")

	keys := make([]string, 0, len(conditions))
	for k := range conditions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(conditions[k])
		b.WriteString(";")
	}

	sum := sha1.Sum([]byte(b.String()))
	return "pitch:" + hex.EncodeToString(sum[:])
}
