package release

import (
	"errors"

	"airgapctl/pkg/errx"
)

// Sentinel errors for release discovery and manifest building.
var (
	ErrVersionTagMissing    = errors.New("release response has no tag_name")
	ErrReleaseUnreachable   = errors.New("releases API unreachable")
	ErrImageListFetchFailed = errors.New("failed to fetch image list")
	ErrSnapshotMissing      = errors.New("manifest snapshot not found")
	ErrDirNameCollision     = errors.New("two image references map to the same directory name")
)

// wrapDiscoveryError wraps an error with the discovery category and the
// source ("rke2" or "cni") that failed.
func wrapDiscoveryError(base, cause error, msg, source string) error {
	wrapped := errx.WrapDiscovery(msg, cause).
		WithBase(base).
		WithContext("source", source)
	return wrapped
}

// newManifestError creates a manifest-category error with context.
func newManifestError(base error, msg string, context map[string]any) error {
	err := errx.CreateByCode(errx.CodeManifest, errx.DescManifest, msg, nil).WithBase(base)
	if len(context) > 0 {
		err = err.WithContextMap(context)
	}
	return err
}

// wrapManifestError wraps a cause with the manifest category and context.
func wrapManifestError(base, cause error, msg string, context map[string]any) error {
	err := errx.CreateByCode(errx.CodeManifest, errx.DescManifest, msg, cause).WithBase(base)
	if len(context) > 0 {
		err = err.WithContextMap(context)
	}
	return err
}
