package cli

// This file defines the TransferManager, the object behind the prep,
// download and push commands. Dependencies are injected so tests can supply
// a MockExecutor and synthetic release endpoints.

import (
	"context"

	"go.uber.org/zap"

	"airgapctl/internal/release"
)

// TransferManager handles manifest resolution and image transfer with
// injected dependencies.
type TransferManager struct {
	skopeo *SkopeoClient
	logger *zap.Logger
}

// NewTransferManager creates a TransferManager with the given dependencies.
func NewTransferManager(skopeo *SkopeoClient, logger *zap.Logger) *TransferManager {
	return &TransferManager{skopeo: skopeo, logger: logger}
}

// DefaultTransferManager returns a TransferManager using default clients.
func DefaultTransferManager(logger *zap.Logger) *TransferManager {
	return NewTransferManager(NewSkopeoClient(execExecutor), logger)
}

// buildOptions maps the CLI configuration onto manifest build options.
func buildOptions() release.BuildOptions {
	return release.BuildOptions{
		RKE2ReleasesAPI: DefaultCLIConfig.RKE2ReleasesAPI,
		CNIReleasesAPI:  DefaultCLIConfig.CNIReleasesAPI,
		ImageListURL:    DefaultCLIConfig.ImageListURL,
		CNIImageRepo:    DefaultCLIConfig.CNIImageRepo,
	}
}

// buildManifest resolves the current upstream manifest. Each operational
// mode calls this independently unless it loads a snapshot instead.
func (m *TransferManager) buildManifest(ctx context.Context) (*release.Manifest, error) {
	client := release.NewClient(DefaultCLIConfig.HTTPTimeout, m.logger)
	manifest, err := client.BuildManifest(ctx, buildOptions())
	if err != nil {
		Error("Failed to resolve image manifest")
		logStructuredError(m.logger, err, "Failed to resolve image manifest")
		return nil, err
	}
	return manifest, nil
}
