// Package janitor reclaims expired uploads: project files older than the
// configured TTL are removed from disk together with their database rows.
package janitor

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/clipsheet/clipsheet-agent/internal/store"
)

const sweepInterval = 1 * time.Hour

type Janitor struct {
	repo   store.Repository
	ttl    time.Duration
	logger *slog.Logger
}

func New(repo store.Repository, ttl time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{repo: repo, ttl: ttl, logger: logger}
}

// Run sweeps once immediately, then hourly until the context is canceled.
func (j *Janitor) Run(ctx context.Context) {
	j.sweep(ctx)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// Sweep removes every upload older than the TTL. Exposed for one-shot use.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	return j.sweepExpired(ctx)
}

func (j *Janitor) sweep(ctx context.Context) {
	removed, err := j.sweepExpired(ctx)
	if err != nil {
		j.logger.Error("upload sweep failed", "error", err)
		return
	}
	if removed > 0 {
		j.logger.Info("expired uploads removed", "count", removed)
	}
}

func (j *Janitor) sweepExpired(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-j.ttl)
	expired, err := j.repo.ListUploadsOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, u := range expired {
		if err := os.Remove(u.Path); err != nil && !os.IsNotExist(err) {
			j.logger.Warn("failed to remove upload file", "error", err, "path", u.Path)
			continue
		}
		if err := j.repo.DeleteUpload(ctx, u.ID); err != nil {
			j.logger.Warn("failed to delete upload row", "error", err, "upload_id", u.ID)
			continue
		}
		removed++
	}
	return removed, nil
}
