// Package progress keeps status updates of analysis jobs.
package progress

import (
	"context"
	"time"

	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
)

// ErrEmptyJobID is returned when a progress update has no job id
var ErrEmptyJobID = errm.New("job id is empty")

// New creates a progress store for the configured backend
func New(ctx context.Context, cfg Config) (interfaces.ProgressStore, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	switch cfg.Type {
	case RedisStore:
		return NewRedis(ctx, cfg)
	default:
		return NewMemory(cfg.Capacity)
	}
}

func stamp(p model.Progress) (model.Progress, error) {
	if p.JobID == "" {
		return p, ErrEmptyJobID
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	p.Progress = min(max(p.Progress, 0), 1)
	return p, nil
}
