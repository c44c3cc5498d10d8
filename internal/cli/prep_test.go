package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrep_Success(t *testing.T) {
	quietPrinter(t)
	withManifestServer(t, "v1.30.0+rke2r1", "v0.25.0", []string{
		"docker.io/rancher/rke2-runtime:v1.30.0-rke2r1",
	})

	mock := &MockExecutor{}
	cmd := NewPrepCmdWithManager(testTransferManager(mock))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Empty(t, mock.Commands, "prep never touches the transfer engine")
}

func TestPrep_DiscoveryFailure(t *testing.T) {
	quietPrinter(t)
	withBrokenManifestServer(t)

	cmd := NewPrepCmdWithManager(testTransferManager(&MockExecutor{}))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.Error(t, cmd.Execute())
}

func TestPrep_RejectsArgs(t *testing.T) {
	quietPrinter(t)

	cmd := NewPrepCmdWithManager(testTransferManager(&MockExecutor{}))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})

	require.Error(t, cmd.Execute())
}
