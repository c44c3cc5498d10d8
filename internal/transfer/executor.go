// Package transfer runs batch image copies between a remote registry and
// the local directory store. The batch is strictly sequential and never
// aborts on a per-image failure: each failure is counted, logged with the
// failing reference, and the loop moves on. The aggregate result drives the
// process exit status; re-running the same mode is the retry mechanism,
// which is safe because every per-image operation is idempotent.
package transfer

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"airgapctl/internal/release"
	"airgapctl/pkg/errx"
)

// Engine copies a container image between two named locations. The skopeo
// client in internal/cli is the production implementation; tests supply
// fakes.
type Engine interface {
	// Copy transfers one image from src to dest. authfile, when non-empty,
	// points at a registry auth file scoped to the current run.
	Copy(src, dest, authfile string) error
}

// Result aggregates a batch. Attempted == Succeeded + Failed always holds;
// no per-item result is retained beyond the aggregate.
type Result struct {
	Attempted int
	Succeeded int
	Failed    int
}

// Err returns a transfer error when the batch had failures, nil otherwise.
func (r Result) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return errx.Transfer(fmt.Sprintf("%d of %d images failed to transfer", r.Failed, r.Attempted)).
		WithContext("attempted", r.Attempted).
		WithContext("succeeded", r.Succeeded).
		WithContext("failed", r.Failed)
}

// Executor runs transfer batches over a manifest.
type Executor struct {
	engine Engine
	logger *zap.Logger
}

// NewExecutor creates an Executor. logger may be nil for tests.
func NewExecutor(engine Engine, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{engine: engine, logger: logger}
}

// Pull copies every manifest image from its upstream registry into
// baseDir/<transformed-name>, in manifest order. Pre-existing directories
// are overwritten by the engine, so re-running a download is harmless.
func (e *Executor) Pull(m *release.Manifest, baseDir string) Result {
	var res Result
	for _, ref := range m.Images {
		res.Attempted++
		src := "docker://" + ref.String()
		dest := "dir:" + filepath.Join(baseDir, ref.LocalDirName())

		e.logger.Info("Pulling image", zap.String("image", ref.String()), zap.String("dest", dest))
		if err := e.engine.Copy(src, dest, ""); err != nil {
			res.Failed++
			e.logger.Error("Failed to pull image", zap.String("image", ref.String()), zap.Error(err))
			continue
		}
		res.Succeeded++
	}
	return res
}

// Push copies every manifest image from baseDir into registryURL, in
// manifest order. An image whose local directory is missing counts as a
// failure without invoking the engine, so a partial download degrades to a
// partial push instead of an error storm.
func (e *Executor) Push(m *release.Manifest, baseDir, registryURL, authfile string) Result {
	var res Result
	for _, ref := range m.Images {
		res.Attempted++
		localDir := filepath.Join(baseDir, ref.LocalDirName())

		if _, err := os.Stat(localDir); err != nil {
			res.Failed++
			e.logger.Error("Local image directory missing, skipping push",
				zap.String("image", ref.String()), zap.String("dir", localDir))
			continue
		}

		src := "dir:" + localDir
		dest := "docker://" + ref.RemoteRef(registryURL)

		e.logger.Info("Pushing image", zap.String("image", ref.String()), zap.String("dest", dest))
		if err := e.engine.Copy(src, dest, authfile); err != nil {
			res.Failed++
			e.logger.Error("Failed to push image", zap.String("image", ref.String()), zap.Error(err))
			continue
		}
		res.Succeeded++
	}
	return res
}
