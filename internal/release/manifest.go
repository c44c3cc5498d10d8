package release

// This file builds the unified image manifest and persists it as a snapshot.
// Discovery is cheap but not stable: upstream can publish a new release
// between download and push. The snapshot written next to the downloaded
// images pins the manifest both phases act on, and doubles as the
// reversible side-table from directory name back to original reference.

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SnapshotFileName is the manifest snapshot written into the download dir.
const SnapshotFileName = "manifest.yaml"

// BuildOptions names the upstream sources a manifest is resolved from.
type BuildOptions struct {
	// RKE2ReleasesAPI is the releases endpoint for the RKE2 distribution,
	// e.g. https://api.github.com/repos/rancher/rke2/releases.
	RKE2ReleasesAPI string
	// CNIReleasesAPI is the releases endpoint for the CNI plugin bundle.
	CNIReleasesAPI string
	// ImageListURL is a template with one %s for the RKE2 version,
	// pointing at the plaintext image list asset of that release.
	ImageListURL string
	// CNIImageRepo is the fixed repository the CNI bundle is published
	// under; the resolved CNI version becomes its tag.
	CNIImageRepo string
}

// Manifest is the ordered list of images to process in a run. Order is
// insertion order and is preserved; no duplicate suppression is performed.
type Manifest struct {
	RKE2Version string
	CNIVersion  string
	Images      []ImageReference
}

// snapshotDoc is the on-disk form of a Manifest.
type snapshotDoc struct {
	RKE2Version string          `yaml:"rke2Version"`
	CNIVersion  string          `yaml:"cniVersion"`
	Images      []snapshotEntry `yaml:"images"`
}

type snapshotEntry struct {
	Image string `yaml:"image"`
	Dir   string `yaml:"dir"`
}

// BuildManifest resolves the latest RKE2 and CNI releases and returns the
// unified manifest: the RKE2 image list in upstream order, then exactly one
// synthesized CNI entry. The CNI bundle is always a single multi-arch
// image, never arch-suffixed.
func (c *Client) BuildManifest(ctx context.Context, opts BuildOptions) (*Manifest, error) {
	rke2Version, err := c.LatestVersion(ctx, opts.RKE2ReleasesAPI, "rke2")
	if err != nil {
		return nil, err
	}

	listURL := fmt.Sprintf(opts.ImageListURL, rke2Version)
	images, err := c.FetchImageList(ctx, listURL)
	if err != nil {
		return nil, err
	}

	cniVersion, err := c.LatestVersion(ctx, opts.CNIReleasesAPI, "cni")
	if err != nil {
		return nil, err
	}

	cniRef, err := ParseReference(opts.CNIImageRepo + ":" + cniVersion)
	if err != nil {
		return nil, wrapManifestError(ErrImageListFetchFailed, err,
			fmt.Sprintf("invalid CNI image repository %q: %v", opts.CNIImageRepo, err),
			map[string]any{"repo": opts.CNIImageRepo})
	}

	m := &Manifest{
		RKE2Version: rke2Version,
		CNIVersion:  cniVersion,
		Images:      append(images, cniRef),
	}

	if err := m.checkDirNames(); err != nil {
		return nil, err
	}

	c.logger.Info("Built image manifest",
		zap.String("rke2Version", rke2Version),
		zap.String("cniVersion", cniVersion),
		zap.Int("images", len(m.Images)))
	return m, nil
}

// checkDirNames fails when two distinct references transform to the same
// local directory name. The underscore substitution is lossy in theory;
// catching a collision here keeps download from silently overwriting.
func (m *Manifest) checkDirNames() error {
	seen := make(map[string]ImageReference, len(m.Images))
	for _, ref := range m.Images {
		dir := ref.LocalDirName()
		if prev, ok := seen[dir]; ok && prev != ref {
			return newManifestError(ErrDirNameCollision,
				fmt.Sprintf("references %s and %s both map to directory %s", prev, ref, dir),
				map[string]any{"dir": dir})
		}
		seen[dir] = ref
	}
	return nil
}

// SaveSnapshot writes the manifest snapshot under dir. The write goes
// through a temp file and rename so a partial write never masquerades as a
// valid snapshot.
func (m *Manifest) SaveSnapshot(dir string) error {
	doc := snapshotDoc{
		RKE2Version: m.RKE2Version,
		CNIVersion:  m.CNIVersion,
		Images:      make([]snapshotEntry, 0, len(m.Images)),
	}
	for _, ref := range m.Images {
		doc.Images = append(doc.Images, snapshotEntry{Image: ref.String(), Dir: ref.LocalDirName()})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return wrapManifestError(nil, err, fmt.Sprintf("failed to marshal manifest snapshot: %v", err), nil)
	}

	path := filepath.Join(dir, SnapshotFileName)
	tmp, err := os.CreateTemp(dir, SnapshotFileName+".*")
	if err != nil {
		return wrapManifestError(nil, err, fmt.Sprintf("failed to create snapshot temp file: %v", err),
			map[string]any{"dir": dir})
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return wrapManifestError(nil, err, fmt.Sprintf("failed to write manifest snapshot: %v", err),
			map[string]any{"path": path})
	}
	if err := tmp.Close(); err != nil {
		return wrapManifestError(nil, err, fmt.Sprintf("failed to close manifest snapshot: %v", err),
			map[string]any{"path": path})
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return wrapManifestError(nil, err, fmt.Sprintf("failed to move manifest snapshot into place: %v", err),
			map[string]any{"path": path})
	}
	return nil
}

// LoadSnapshot reads the snapshot written by a previous download from dir.
func LoadSnapshot(dir string) (*Manifest, error) {
	path := filepath.Join(dir, SnapshotFileName)
	// #nosec G304 -- path is scoped to the user-chosen download directory.
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newManifestError(ErrSnapshotMissing,
				fmt.Sprintf("manifest snapshot %s not found; run download first or pass --refresh", path),
				map[string]any{"path": path})
		}
		return nil, wrapManifestError(nil, err, fmt.Sprintf("failed to read manifest snapshot: %v", err),
			map[string]any{"path": path})
	}

	var doc snapshotDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, wrapManifestError(nil, err, fmt.Sprintf("failed to parse manifest snapshot: %v", err),
			map[string]any{"path": path})
	}

	m := &Manifest{RKE2Version: doc.RKE2Version, CNIVersion: doc.CNIVersion}
	for _, entry := range doc.Images {
		ref, err := ParseReference(entry.Image)
		if err != nil {
			return nil, wrapManifestError(nil, err,
				fmt.Sprintf("manifest snapshot contains an invalid reference: %v", err),
				map[string]any{"path": path, "image": entry.Image})
		}
		if dir := ref.LocalDirName(); entry.Dir != "" && entry.Dir != dir {
			return nil, newManifestError(nil,
				fmt.Sprintf("snapshot directory %q does not match %q computed for %s", entry.Dir, dir, ref),
				map[string]any{"path": path, "image": entry.Image})
		}
		m.Images = append(m.Images, ref)
	}
	return m, nil
}
