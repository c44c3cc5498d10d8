package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"airgapctl/internal/transfer"
)

// NewDownloadCmd creates the download command, which pulls every manifest
// image into a local directory-backed store.
func NewDownloadCmd(logger *zap.Logger) *cobra.Command {
	return NewDownloadCmdWithManager(DefaultTransferManager(logger))
}

// NewDownloadCmdWithManager creates the download command with an injected manager.
func NewDownloadCmdWithManager(mgr *TransferManager) *cobra.Command {
	return &cobra.Command{
		Use:   "download [directory]",
		Short: "Download all manifest images into a local store",
		Long: `Resolves the latest release manifest and copies every image into a
local directory-backed store, one subdirectory per image. The manifest is
saved alongside the images so a later push transfers exactly this set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := DefaultCLIConfig.DownloadDir
			if len(args) == 1 {
				dir = args[0]
			}
			return mgr.Download(cmd.Context(), dir)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// Download resolves the manifest, persists its snapshot, and pulls every
// image into dir. Per-image failures are counted, not fatal; the batch
// always runs to completion.
func (m *TransferManager) Download(ctx context.Context, dir string) error {
	if err := m.skopeo.Available(); err != nil {
		Error("skopeo is required but was not found")
		logStructuredError(m.logger, err, "skopeo availability check failed")
		return err
	}

	manifest, err := m.buildManifest(ctx)
	if err != nil {
		return err
	}
	printManifest(manifest)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		wrapped := wrapWithSentinelAndContext(ErrCreateDownloadDir, err,
			fmt.Sprintf("failed to create download directory %s", dir),
			map[string]any{"dir": dir})
		Error(fmt.Sprintf("Failed to create download directory %s", dir))
		logStructuredError(m.logger, wrapped, "download directory creation failed")
		return wrapped
	}

	// Persisted before the batch so an interrupted run still leaves a
	// loadable snapshot next to whatever was pulled.
	if err := manifest.SaveSnapshot(dir); err != nil {
		Error("Failed to save manifest snapshot")
		logStructuredError(m.logger, err, "manifest snapshot save failed")
		return err
	}

	Section(fmt.Sprintf("Downloading %d images to %s", len(manifest.Images), dir))
	result := transfer.NewExecutor(m.skopeo, m.logger).Pull(manifest, dir)

	TableBoxed(summaryTable(result.Attempted, result.Succeeded, result.Failed))
	if result.Failed > 0 {
		Error(fmt.Sprintf("%d of %d images failed to download", result.Failed, result.Attempted))
		err := wrapWithSentinel(ErrTransferBatch, result.Err(),
			fmt.Sprintf("download finished with %d failures", result.Failed))
		logStructuredError(m.logger, err, "download batch had failures")
		return err
	}
	Success(fmt.Sprintf("All %d images downloaded to %s", result.Succeeded, dir))
	return nil
}
