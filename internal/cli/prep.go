package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"airgapctl/internal/release"
)

// NewPrepCmd creates the prep command, which resolves the latest upstream
// releases and prints the image manifest without transferring anything.
func NewPrepCmd(logger *zap.Logger) *cobra.Command {
	return NewPrepCmdWithManager(DefaultTransferManager(logger))
}

// NewPrepCmdWithManager creates the prep command with an injected manager.
func NewPrepCmdWithManager(mgr *TransferManager) *cobra.Command {
	return &cobra.Command{
		Use:   "prep",
		Short: "Resolve the latest releases and print the image manifest",
		Long: `Queries the release endpoints for the latest RKE2 and CNI plugin
versions, fetches the release's image list, and prints the resulting
manifest. No images are transferred.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifest, err := mgr.buildManifest(cmd.Context())
			if err != nil {
				return err
			}
			printManifest(manifest)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func printManifest(m *release.Manifest) {
	Header("Image Manifest")
	Printf("RKE2 version: %s\n", Cyan(m.RKE2Version))
	Printf("CNI version:  %s\n", Cyan(m.CNIVersion))

	rows := [][]string{{"Image", "Local Directory"}}
	for _, img := range m.Images {
		rows = append(rows, []string{img.String(), img.LocalDirName()})
	}
	Table(rows)
	Success("Manifest resolved")
}
