package sight

import (
	"context"
	"errors"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/constants"
)

// CacheType selects a cache backend. The choice follows the deployment
// shape: a single importing process wants CacheTypeMemory, a fleet of
// workers hitting the same Sight account wants CacheTypeNATS so they reuse
// each other's responses, and CacheTypeLayered puts a per-process memory
// front in front of the shared bucket.
type CacheType string

const (
	// CacheTypeMemory caches responses inside the process.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS caches responses in a NATS JetStream KV bucket shared
	// across processes.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeLayered stacks a memory cache in front of a NATS KV bucket.
	CacheTypeLayered CacheType = "layered"

	// CacheTypeNone disables caching while keeping one code path.
	CacheTypeNone CacheType = "none"
)

// Static errors for err113 compliance.
var (
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
)

// CacheConfig configures the response cache built for a client.
type CacheConfig struct {
	// Type is the cache backend type.
	Type CacheType

	// Memory configures the memory backend, and the memory level of a
	// layered cache. Nil uses the defaults.
	Memory *MemoryCacheConfig

	// NATS configures the KV backend. Required for the NATS and layered
	// types.
	NATS *NATSKVConfig

	// Options are applied to any backend. Nil uses DefaultCacheOptions().
	Options *CacheOptions
}

// MemoryCacheConfig configures the in-process cache.
type MemoryCacheConfig struct {
	// MaxSize is the entry limit; the oldest entry is evicted past it.
	MaxSize int

	// CleanupInterval is how often expired entries are swept, as a duration
	// string like "1m".
	CleanupInterval string
}

// DefaultCacheConfig returns the configuration most integrations want: a
// per-process memory cache at the standard size and TTLs.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Type: CacheTypeMemory,
		Memory: &MemoryCacheConfig{
			MaxSize:         constants.DefaultCacheSize,
			CleanupInterval: "1m",
		},
		Options: DefaultCacheOptions(),
	}
}

// NewCacheFromConfig creates a cache backend from configuration. A nil
// config falls back to DefaultCacheConfig.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Type {
	case CacheTypeMemory:
		return newMemoryBackend(config), nil

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCache(config.NATS)

	case CacheTypeLayered:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		shared, err := NewNATSKVCache(config.NATS)
		if err != nil {
			return nil, err
		}

		return NewCacheChain(newMemoryBackend(config), shared), nil

	case CacheTypeNone:
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

// newMemoryBackend sizes a memory cache from the config, falling back to the
// entry limit in Options and then to the default.
func newMemoryBackend(config *CacheConfig) *MemoryCache {
	size := 0
	if config.Memory != nil {
		size = config.Memory.MaxSize
	}

	if size <= 0 && config.Options != nil {
		size = config.Options.MaxSize
	}

	if size <= 0 {
		size = constants.DefaultCacheSize
	}

	return NewMemoryCache(size)
}

// NoOpCache is the CacheTypeNone backend: writes are accepted and dropped,
// reads always miss.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always misses.
func (c *NoOpCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

// Set drops the entry.
func (c *NoOpCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return nil
}

// Delete does nothing.
func (c *NoOpCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Clear does nothing.
func (c *NoOpCache) Clear(ctx context.Context) error {
	return nil
}

// Has always reports false.
func (c *NoOpCache) Has(ctx context.Context, key string) bool {
	return false
}

// CacheBuilder assembles a CacheConfig fluently and builds the backend.
type CacheBuilder struct {
	cacheType CacheType
	memory    *MemoryCacheConfig
	nats      *NATSKVConfig
	options   *CacheOptions
}

// NewCacheBuilder creates a builder starting from the memory backend.
func NewCacheBuilder() *CacheBuilder {
	return &CacheBuilder{
		cacheType: CacheTypeMemory,
		options:   DefaultCacheOptions(),
	}
}

// WithType sets the cache type.
func (b *CacheBuilder) WithType(cacheType CacheType) *CacheBuilder {
	b.cacheType = cacheType

	return b
}

// WithMemoryConfig sets the memory backend's size and sweep interval.
func (b *CacheBuilder) WithMemoryConfig(maxSize int, cleanupInterval string) *CacheBuilder {
	b.memory = &MemoryCacheConfig{
		MaxSize:         maxSize,
		CleanupInterval: cleanupInterval,
	}

	return b
}

// WithNATSConfig sets the KV backend configuration.
func (b *CacheBuilder) WithNATSConfig(config *NATSKVConfig) *CacheBuilder {
	b.nats = config

	return b
}

// WithOptions sets the common cache options.
func (b *CacheBuilder) WithOptions(options *CacheOptions) *CacheBuilder {
	b.options = options

	return b
}

// Build creates the cache the builder describes.
func (b *CacheBuilder) Build() (Cache, error) {
	return NewCacheFromConfig(&CacheConfig{
		Type:    b.cacheType,
		Memory:  b.memory,
		NATS:    b.nats,
		Options: b.options,
	})
}

// CacheChain layers cache backends: reads try each level in order and
// promote hits into the levels in front, writes and invalidations go to
// every level. The layered cache type builds a memory-over-NATS chain so a
// process answers repeat reads locally while the fleet shares the bucket.
type CacheChain struct {
	levels []Cache
}

// NewCacheChain creates a chain over the given levels, fastest first.
func NewCacheChain(caches ...Cache) *CacheChain {
	return &CacheChain{levels: caches}
}

// Get returns the entry from the first level that holds it, promoting the
// hit into the levels that missed.
func (c *CacheChain) Get(ctx context.Context, key string) (*CacheEntry, error) {
	for i, level := range c.levels {
		entry, err := level.Get(ctx, key)
		if err != nil {
			continue
		}

		c.promote(ctx, key, entry, i)

		return entry, nil
	}

	return nil, ErrKeyNotFoundInAnyCache
}

// promote copies a hit from level hit into every level in front of it.
func (c *CacheChain) promote(ctx context.Context, key string, entry *CacheEntry, hit int) {
	for _, level := range c.levels[:hit] {
		_ = level.Set(ctx, key, entry)
	}
}

// Set stores the entry in every level. Failing levels do not stop the
// others; their errors are joined.
func (c *CacheChain) Set(ctx context.Context, key string, entry *CacheEntry) error {
	var errs []error

	for _, level := range c.levels {
		if err := level.Set(ctx, key, entry); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Delete removes the key from every level.
func (c *CacheChain) Delete(ctx context.Context, key string) error {
	var errs []error

	for _, level := range c.levels {
		if err := level.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Clear empties every level.
func (c *CacheChain) Clear(ctx context.Context) error {
	var errs []error

	for _, level := range c.levels {
		if err := level.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Has reports whether any level holds the key.
func (c *CacheChain) Has(ctx context.Context, key string) bool {
	for _, level := range c.levels {
		if level.Has(ctx, key) {
			return true
		}
	}

	return false
}
