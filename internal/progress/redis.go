package progress

import (
	"context"
	"errors"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
	"github.com/redis/go-redis/v9"
)

var _ interfaces.ProgressStore = (*Redis)(nil)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Redis keeps jobs in redis with an expiration, so they survive server restarts while redis keeps them
type Redis struct {
	client *redis.Client
	cfg    Config
}

// NewRedis connects to redis and checks the connection
func NewRedis(ctx context.Context, cfg Config) (*Redis, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, errm.Wrap(err, "failed to parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errm.Wrap(err, "failed to connect to redis")
	}
	return &Redis{client: client, cfg: cfg}, nil
}

func (r *Redis) Get(ctx context.Context, jobID string) (model.Progress, bool, error) {
	data, err := r.client.Get(ctx, r.key(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Progress{}, false, nil
		}
		return model.Progress{}, false, errm.Wrap(err, "failed to get progress")
	}
	var p model.Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Progress{}, false, errm.Wrap(err, "failed to decode progress")
	}
	return p, true, nil
}

func (r *Redis) Set(ctx context.Context, p model.Progress) error {
	p, err := stamp(p)
	if err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return errm.Wrap(err, "failed to encode progress")
	}
	if err := r.client.Set(ctx, r.key(p.JobID), data, r.cfg.TTL).Err(); err != nil {
		return errm.Wrap(err, "failed to set progress")
	}
	return nil
}

// Close closes the redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(jobID string) string {
	return r.cfg.KeyPrefix + jobID
}
