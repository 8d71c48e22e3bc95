package server

import (
	"crypto/tls"
	"net"
	"strconv"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const (
	defaultHost        = "127.0.0.1"
	defaultPort        = 8000
	defaultReadTimeout = 30 * time.Second
	defaultIdleTimeout = 2 * time.Minute
	defaultWorkers     = 1
	defaultLimit       = 10
)

// Config represents HTTP API configuration
type Config struct {
	Host        string        `yaml:"host" env:"DOCWEAVE_SERVER_HOST"`
	Port        int           `yaml:"port" env:"DOCWEAVE_SERVER_PORT"`
	ReadTimeout time.Duration `yaml:"read_timeout" env:"DOCWEAVE_SERVER_READ_TIMEOUT"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"DOCWEAVE_SERVER_IDLE_TIMEOUT"`

	// Workers is the number of analyses that may run at the same time.
	// The copilot CLI is not reentrant, keep it 1 for that generator.
	Workers int `yaml:"workers" env:"DOCWEAVE_SERVER_WORKERS"`
	// DefaultLimit is used when a request has no limit
	DefaultLimit int `yaml:"default_limit" env:"DOCWEAVE_SERVER_DEFAULT_LIMIT"`

	CertFilePath string `yaml:"cert_file_path" env:"DOCWEAVE_SERVER_CERT_FILE_PATH"`
	KeyFilePath  string `yaml:"key_file_path" env:"DOCWEAVE_SERVER_KEY_FILE_PATH"`
	EnableHTTPS  bool   `yaml:"enable_https" env:"DOCWEAVE_SERVER_ENABLE_HTTPS"`

	Certificate tls.Certificate `yaml:"-" env:"-"`
}

func (cfg *Config) PrepareAndValidate() error {
	cfg.Host = lang.Check(cfg.Host, defaultHost)
	cfg.Port = lang.Check(cfg.Port, defaultPort)
	if cfg.Port < 0 || cfg.Port > 65535 {
		return errm.Errorf("invalid port: %d", cfg.Port)
	}
	cfg.ReadTimeout = lang.Check(cfg.ReadTimeout, defaultReadTimeout)
	cfg.IdleTimeout = lang.Check(cfg.IdleTimeout, defaultIdleTimeout)
	cfg.Workers = lang.Check(cfg.Workers, defaultWorkers)
	cfg.DefaultLimit = lang.Check(cfg.DefaultLimit, defaultLimit)

	if cfg.EnableHTTPS {
		if cfg.CertFilePath == "" || cfg.KeyFilePath == "" {
			return errm.New("cert_file_path and key_file_path must be set when enable_https is true")
		}
		cert, err := tls.LoadX509KeyPair(cfg.CertFilePath, cfg.KeyFilePath)
		if err != nil {
			return errm.Wrap(err, "failed to load certificate and key pair")
		}
		cfg.Certificate = cert
	}

	return nil
}

// Address returns host:port to listen on.
func (cfg Config) Address() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}
