package cli

// This file defines the CLI configuration. Every upstream endpoint and
// fixed default is a field here rather than a package-level literal, so
// tests can point the tool at synthetic servers without touching real
// environment state.

import (
	"os"
	"strconv"
	"time"
)

// CLIConfig holds the runtime configuration, populated from AIRGAP_*
// environment variables at startup.
type CLIConfig struct {
	// RKE2ReleasesAPI is the releases endpoint for the RKE2 distribution.
	RKE2ReleasesAPI string
	// CNIReleasesAPI is the releases endpoint for the CNI plugin bundle.
	CNIReleasesAPI string
	// ImageListURL is the template (one %s, the RKE2 version) for the
	// release's plaintext image list asset.
	ImageListURL string
	// CNIImageRepo is the fixed repository for the synthesized CNI entry.
	CNIImageRepo string
	// Arch is the single architecture forced on every copy so output is
	// deterministic across heterogeneous build machines.
	Arch string
	// HTTPTimeout bounds every release-discovery call.
	HTTPTimeout time.Duration
	// CopyTimeout bounds every transfer-engine invocation.
	CopyTimeout time.Duration
	// DownloadDir is the default local image store.
	DownloadDir string
	// RegistryImage, RegistryName, RegistryPort, RegistryDataDir configure
	// the host registry bootstrap.
	RegistryImage   string
	RegistryName    string
	RegistryPort    int
	RegistryDataDir string
}

// DefaultCLIConfig is the package-wide configuration. Tests override
// individual fields and restore them in cleanup.
var DefaultCLIConfig = loadCLIConfig()

func loadCLIConfig() CLIConfig {
	return CLIConfig{
		RKE2ReleasesAPI: envOr("AIRGAP_RKE2_RELEASES_API", "https://api.github.com/repos/rancher/rke2/releases"),
		CNIReleasesAPI:  envOr("AIRGAP_CNI_RELEASES_API", "https://api.github.com/repos/flannel-io/flannel/releases"),
		ImageListURL:    envOr("AIRGAP_IMAGE_LIST_URL", "https://github.com/rancher/rke2/releases/download/%s/rke2-images.linux-amd64.txt"),
		CNIImageRepo:    envOr("AIRGAP_CNI_IMAGE_REPO", "docker.io/flannel/flannel"),
		Arch:            envOr("AIRGAP_ARCH", "amd64"),
		HTTPTimeout:     envDurationOr("AIRGAP_HTTP_TIMEOUT", 30*time.Second),
		CopyTimeout:     envDurationOr("AIRGAP_COPY_TIMEOUT", 15*time.Minute),
		DownloadDir:     envOr("AIRGAP_DOWNLOAD_DIR", "rke2-images"),
		RegistryImage:   envOr("AIRGAP_REGISTRY_IMAGE", "registry:2"),
		RegistryName:    envOr("AIRGAP_REGISTRY_NAME", "airgap-registry"),
		RegistryPort:    envIntOr("AIRGAP_REGISTRY_PORT", 5000),
		RegistryDataDir: envOr("AIRGAP_REGISTRY_DATA_DIR", "/opt/airgap-registry/data"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
