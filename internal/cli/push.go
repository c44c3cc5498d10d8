package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"airgapctl/internal/mirror"
	"airgapctl/internal/release"
	"airgapctl/internal/transfer"
)

// PushOptions holds the resolved push flags plus the prompt streams, which
// tests replace with buffers.
type PushOptions struct {
	RegistryURL  string
	DownloadDir  string
	PasswordFile string
	NoAuth       bool
	Refresh      bool

	In  io.Reader
	Out io.Writer
}

// NewPushCmd creates the push command, which copies the downloaded images
// into a private registry and emits the matching mirror configuration.
func NewPushCmd(logger *zap.Logger) *cobra.Command {
	return NewPushCmdWithManager(DefaultTransferManager(logger))
}

// NewPushCmdWithManager creates the push command with an injected manager.
func NewPushCmdWithManager(mgr *TransferManager) *cobra.Command {
	opts := PushOptions{}
	cmd := &cobra.Command{
		Use:   "push --registry <url>",
		Short: "Push downloaded images to a private registry",
		Long: `Copies every image from the local store into the target registry,
renamed under the registry's host, then writes a registries.yaml mirror
configuration for the target. By default the manifest snapshot saved by
download determines the set of images; --refresh re-resolves it upstream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.In = cmd.InOrStdin()
			opts.Out = cmd.OutOrStdout()
			return mgr.Push(cmd.Context(), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&opts.RegistryURL, "registry", "", "target registry URL (required)")
	cmd.Flags().StringVar(&opts.DownloadDir, "download-dir", DefaultCLIConfig.DownloadDir, "local image store to push from")
	cmd.Flags().StringVar(&opts.PasswordFile, "password-file", "", "file holding the base64-encoded registry password")
	cmd.Flags().BoolVar(&opts.NoAuth, "no-auth", false, "push without registry authentication")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-resolve the manifest upstream instead of using the saved snapshot")
	_ = cmd.MarkFlagRequired("registry")

	return cmd
}

// Push transfers the stored images to opts.RegistryURL. Credentials, when
// used, reach the engine through a short-lived authfile; the secret itself
// travels only over stdin to the engine's login.
func (m *TransferManager) Push(ctx context.Context, opts PushOptions) error {
	if opts.RegistryURL == "" {
		err := newWithSentinel(ErrRegistryURLRequired, "the --registry flag is required")
		Error("The --registry flag is required")
		return err
	}
	if opts.DownloadDir == "" {
		opts.DownloadDir = DefaultCLIConfig.DownloadDir
	}

	if info, err := os.Stat(opts.DownloadDir); err != nil || !info.IsDir() {
		wrapped := wrapWithSentinelAndContext(ErrDownloadDirMissing, err,
			fmt.Sprintf("download directory %s does not exist; run download first", opts.DownloadDir),
			map[string]any{"dir": opts.DownloadDir})
		Error(fmt.Sprintf("Download directory %s does not exist; run download first", opts.DownloadDir))
		logStructuredError(m.logger, wrapped, "download directory check failed")
		return wrapped
	}

	if err := m.skopeo.Available(); err != nil {
		Error("skopeo is required but was not found")
		logStructuredError(m.logger, err, "skopeo availability check failed")
		return err
	}

	manifest, err := m.loadManifest(ctx, opts)
	if err != nil {
		return err
	}

	creds, err := ResolveCredentials(opts.NoAuth, opts.PasswordFile, opts.In, opts.Out)
	if err != nil {
		Error("Failed to resolve registry credentials")
		logStructuredError(m.logger, err, "credential resolution failed")
		return err
	}

	authfile := ""
	if !creds.None() {
		authfile, err = m.login(opts.RegistryURL, creds)
		if err != nil {
			return err
		}
		defer m.removeAuthfile(authfile)
	}

	Section(fmt.Sprintf("Pushing %d images to %s", len(manifest.Images), opts.RegistryURL))
	result := transfer.NewExecutor(m.skopeo, m.logger).Push(manifest, opts.DownloadDir, opts.RegistryURL, authfile)

	// The mirror config is written even after partial failure so the
	// cluster side can be prepared while stragglers are retried.
	m.writeMirrorConfig(opts.RegistryURL, creds.Username)

	TableBoxed(summaryTable(result.Attempted, result.Succeeded, result.Failed))
	if result.Failed > 0 {
		Error(fmt.Sprintf("%d of %d images failed to push", result.Failed, result.Attempted))
		err := wrapWithSentinel(ErrTransferBatch, result.Err(),
			fmt.Sprintf("push finished with %d failures", result.Failed))
		logStructuredError(m.logger, err, "push batch had failures")
		return err
	}
	Success(fmt.Sprintf("All %d images pushed to %s", result.Succeeded, opts.RegistryURL))
	return nil
}

// loadManifest picks the snapshot saved by download, or re-resolves the
// manifest upstream when --refresh is set.
func (m *TransferManager) loadManifest(ctx context.Context, opts PushOptions) (*release.Manifest, error) {
	if opts.Refresh {
		Step("Re-resolving manifest upstream (--refresh)")
		return m.buildManifest(ctx)
	}
	manifest, err := release.LoadSnapshot(opts.DownloadDir)
	if err != nil {
		Error("Failed to load the manifest snapshot; run download first or pass --refresh")
		logStructuredError(m.logger, err, "manifest snapshot load failed")
		return nil, err
	}
	Step(fmt.Sprintf("Using saved manifest: RKE2 %s, CNI %s, %d images",
		manifest.RKE2Version, manifest.CNIVersion, len(manifest.Images)))
	return manifest, nil
}

// login authenticates against the registry into a fresh 0600 authfile and
// returns its path. The caller removes it when the push completes.
func (m *TransferManager) login(registryURL string, creds Credentials) (string, error) {
	f, err := os.CreateTemp("", "airgapctl-auth-*.json")
	if err != nil {
		wrapped := wrapWithSentinel(ErrAuthfileCreate, err, "failed to create temporary auth file")
		Error("Failed to create temporary auth file")
		logStructuredError(m.logger, wrapped, "auth file creation failed")
		return "", wrapped
	}
	authfile := f.Name()
	if err := f.Close(); err != nil {
		m.removeAuthfile(authfile)
		wrapped := wrapWithSentinel(ErrAuthfileCreate, err, "failed to close temporary auth file")
		logStructuredError(m.logger, wrapped, "auth file creation failed")
		return "", wrapped
	}

	if err := m.skopeo.Login(registryURL, creds.Username, creds.Password, authfile); err != nil {
		m.removeAuthfile(authfile)
		Error(fmt.Sprintf("Failed to login to %s", registryURL))
		logStructuredError(m.logger, err, "registry login failed")
		return "", err
	}
	Step(fmt.Sprintf("Logged in to %s as %s", registryURL, creds.Username))
	return authfile, nil
}

// removeAuthfile deletes the temporary authfile. A leftover authfile holds
// a usable registry token, so failure to remove it is surfaced loudly even
// though it does not fail the push.
func (m *TransferManager) removeAuthfile(authfile string) {
	if authfile == "" {
		return
	}
	if err := os.Remove(authfile); err != nil && !os.IsNotExist(err) {
		Warn(fmt.Sprintf("Failed to remove auth file %s; delete it manually", authfile))
		logStructuredError(m.logger, wrapWithSentinel(ErrAuthfileCleanup, err,
			fmt.Sprintf("failed to remove auth file %s", authfile)), "auth file cleanup failed")
	}
}

// writeMirrorConfig emits registries.yaml for the target registry. Failure
// is a warning: the pushed images are already in place and the file can be
// regenerated.
func (m *TransferManager) writeMirrorConfig(registryURL, username string) {
	doc := mirror.Build(registryURL, username)
	if err := doc.Write(mirror.DefaultFileName); err != nil {
		Warn(fmt.Sprintf("Failed to write %s; regenerate it with another push", mirror.DefaultFileName))
		logStructuredError(m.logger, wrapWithSentinel(ErrMirrorConfigWrite, err,
			"failed to write mirror configuration"), "mirror config write failed")
		return
	}
	Step(fmt.Sprintf("Wrote %s (edit the password placeholder before use)", mirror.DefaultFileName))
}
