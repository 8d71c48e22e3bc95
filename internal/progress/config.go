package progress

import (
	"slices"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

// StoreType represents the progress store backend
type StoreType string

const (
	MemoryStore StoreType = "memory"
	RedisStore  StoreType = "redis"
)

const (
	defaultCapacity  = 1024
	defaultTTL       = 24 * time.Hour
	defaultKeyPrefix = "docweave:progress:"
	defaultRedisURL  = "redis://localhost:6379/0"
)

// Config represents progress store configuration
type Config struct {
	Type StoreType `yaml:"type" env:"DOCWEAVE_PROGRESS_TYPE"` // memory, redis

	// Capacity is the number of jobs kept by the memory store
	Capacity int `yaml:"capacity" env:"DOCWEAVE_PROGRESS_CAPACITY"`

	RedisURL  string        `yaml:"redis_url" env:"DOCWEAVE_PROGRESS_REDIS_URL"`
	KeyPrefix string        `yaml:"key_prefix" env:"DOCWEAVE_PROGRESS_KEY_PREFIX"`
	TTL       time.Duration `yaml:"ttl" env:"DOCWEAVE_PROGRESS_TTL"`
}

func (c *Config) PrepareAndValidate() error {
	c.Type = lang.Check(c.Type, MemoryStore)
	if !slices.Contains([]StoreType{MemoryStore, RedisStore}, c.Type) {
		return errm.Errorf("invalid progress store type: %s", c.Type)
	}
	c.Capacity = lang.Check(c.Capacity, defaultCapacity)
	c.RedisURL = lang.Check(c.RedisURL, defaultRedisURL)
	c.KeyPrefix = lang.Check(c.KeyPrefix, defaultKeyPrefix)
	c.TTL = lang.Check(c.TTL, defaultTTL)
	return nil
}
