package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"osccli/internal/files"
)

// Memo caches the Result of the last run for a directory snapshot. A cached
// Result is reused while the snapshot fingerprint is unchanged; Invalidate
// forces the next call to recompute.
type Memo struct {
	pipeline *Pipeline
	logger   *slog.Logger

	mu          sync.Mutex
	dir         string
	fingerprint uint64
	result      *Result
}

// NewMemo creates a memo over p
func NewMemo(p *Pipeline) *Memo {
	return &Memo{pipeline: p, logger: p.logger}
}

// Dataset returns the Result for snapshot, running the pipeline only when
// nothing is cached for it
func (m *Memo) Dataset(ctx context.Context, snapshot files.Snapshot) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.result != nil && m.dir == snapshot.Dir && m.fingerprint == snapshot.Fingerprint {
		m.logger.DebugContext(ctx, "Using cached dataset",
			slog.String("dir", snapshot.Dir),
			slog.String("run_id", m.result.RunID))
		return m.result, nil
	}

	res, err := m.pipeline.RunFiles(ctx, snapshot.Files)
	if err != nil {
		return nil, err
	}
	m.dir, m.fingerprint, m.result = snapshot.Dir, snapshot.Fingerprint, res
	return res, nil
}

// Invalidate drops the cached Result
func (m *Memo) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = nil
}
