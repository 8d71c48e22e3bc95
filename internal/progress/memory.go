package progress

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
)

var _ interfaces.ProgressStore = (*Memory)(nil)

// Memory keeps the latest jobs in a bounded in-process cache, oldest jobs are evicted first
type Memory struct {
	cache *lru.Cache[string, model.Progress]
}

// NewMemory creates an in-memory store for up to capacity jobs
func NewMemory(capacity int) (*Memory, error) {
	cache, err := lru.New[string, model.Progress](capacity)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create cache")
	}
	return &Memory{cache: cache}, nil
}

func (m *Memory) Get(_ context.Context, jobID string) (model.Progress, bool, error) {
	p, ok := m.cache.Get(jobID)
	return p, ok, nil
}

func (m *Memory) Set(_ context.Context, p model.Progress) error {
	p, err := stamp(p)
	if err != nil {
		return err
	}
	m.cache.Add(p.JobID, p)
	return nil
}
