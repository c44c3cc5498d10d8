package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := loadCLIConfig()

	assert.Contains(t, cfg.RKE2ReleasesAPI, "rancher/rke2")
	assert.Contains(t, cfg.CNIReleasesAPI, "flannel")
	assert.Contains(t, cfg.ImageListURL, "%s")
	assert.Equal(t, "amd64", cfg.Arch)
	assert.Equal(t, "rke2-images", cfg.DownloadDir)
	assert.Equal(t, "registry:2", cfg.RegistryImage)
	assert.Equal(t, 5000, cfg.RegistryPort)
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AIRGAP_RKE2_RELEASES_API", "http://127.0.0.1:9999/releases")
	t.Setenv("AIRGAP_ARCH", "arm64")
	t.Setenv("AIRGAP_REGISTRY_PORT", "5555")
	t.Setenv("AIRGAP_HTTP_TIMEOUT", "5s")

	cfg := loadCLIConfig()
	assert.Equal(t, "http://127.0.0.1:9999/releases", cfg.RKE2ReleasesAPI)
	assert.Equal(t, "arm64", cfg.Arch)
	assert.Equal(t, 5555, cfg.RegistryPort)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestConfig_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("AIRGAP_REGISTRY_PORT", "not-a-port")
	t.Setenv("AIRGAP_HTTP_TIMEOUT", "soon")

	cfg := loadCLIConfig()
	require.Equal(t, 5000, cfg.RegistryPort)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}
