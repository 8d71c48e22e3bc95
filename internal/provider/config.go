package provider

import (
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const (
	defaultSearchDepth = 5
	defaultSHALength   = 7
	defaultLimit       = 10
)

// Config represents local repository reader configuration
type Config struct {
	// SearchDepth is how many parent directories are checked for a .git directory
	SearchDepth int `yaml:"search_depth" env:"DOCWEAVE_PROVIDER_SEARCH_DEPTH"`
	SHALength   int `yaml:"sha_length" env:"DOCWEAVE_PROVIDER_SHA_LENGTH"`
	// DefaultLimit is used when a caller asks for a non-positive number of commits
	DefaultLimit int `yaml:"default_limit" env:"DOCWEAVE_PROVIDER_DEFAULT_LIMIT"`
}

func (c *Config) PrepareAndValidate() error {
	c.SearchDepth = lang.Check(c.SearchDepth, defaultSearchDepth)
	c.SHALength = lang.Check(c.SHALength, defaultSHALength)
	c.DefaultLimit = lang.Check(c.DefaultLimit, defaultLimit)

	if c.SearchDepth < 0 {
		return errm.New("search_depth must not be negative")
	}
	if c.SHALength < 4 || c.SHALength > 40 {
		return errm.Errorf("sha_length must be between 4 and 40, got %d", c.SHALength)
	}
	return nil
}
