package release

// This file defines ImageReference and the two naming transforms shared by
// the download and push paths. Both transforms must stay byte-stable across
// invocations: push locates download's output by recomputing the local
// directory name, never by storing a link.

import (
	"fmt"
	"strings"
)

// DefaultRegistry is the registry host assumed when a reference omits one.
const DefaultRegistry = "docker.io"

// defaultTag is assumed when a reference omits a tag.
const defaultTag = "latest"

// ImageReference is a structured pointer to a container image.
// It is immutable once parsed; equality is exact-string on the canonical
// form returned by String().
type ImageReference struct {
	Registry   string
	Repository string
	Tag        string
}

// ParseReference parses an image reference of the form [host/]path[:tag].
// The first path segment is treated as a registry host only when it looks
// like one (contains a dot or port, or is "localhost").
func ParseReference(s string) (ImageReference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ImageReference{}, fmt.Errorf("empty image reference")
	}

	repo, tag := splitTag(s)
	if repo == "" {
		return ImageReference{}, fmt.Errorf("image reference %q has no repository", s)
	}
	if tag == "" {
		tag = defaultTag
	}

	registry := DefaultRegistry
	if host, rest, ok := splitHost(repo); ok {
		registry = host
		repo = rest
		if repo == "" {
			return ImageReference{}, fmt.Errorf("image reference %q has no repository", s)
		}
	}

	return ImageReference{Registry: registry, Repository: repo, Tag: tag}, nil
}

// String returns the canonical host/path:tag form.
func (r ImageReference) String() string {
	return r.Registry + "/" + r.Repository + ":" + r.Tag
}

// LocalDirName returns the filesystem-safe directory name for this image.
// The default registry prefix is dropped and the path and tag separators
// are replaced with underscores, so docker.io/acme/foo:1.0 becomes
// acme_foo_1.0. Non-default hosts stay in the name.
func (r ImageReference) LocalDirName() string {
	name := r.Repository + ":" + r.Tag
	if r.Registry != DefaultRegistry {
		name = r.Registry + "/" + name
	}
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, ":", "_")
	return name
}

// RemoteRef returns the reference rewritten to point at registryURL.
// The default registry prefix is dropped before prefixing, so
// docker.io/acme/foo:1.0 against reg.example:5000 becomes
// reg.example:5000/acme/foo:1.0. registryURL is not validated here;
// a malformed value surfaces as a transfer failure.
func (r ImageReference) RemoteRef(registryURL string) string {
	path := r.Repository + ":" + r.Tag
	if r.Registry != DefaultRegistry {
		path = r.Registry + "/" + path
	}
	return strings.TrimSuffix(registryURL, "/") + "/" + path
}

// splitTag splits a reference into repository and tag. A colon only counts
// as a tag separator when it appears after the last slash, so host ports
// are not mistaken for tags.
func splitTag(s string) (repo, tag string) {
	idx := strings.LastIndex(s, ":")
	if idx < 0 || strings.Contains(s[idx+1:], "/") {
		return s, ""
	}
	return s[:idx], s[idx+1:]
}

// splitHost splits off a leading registry host when the first segment
// looks like one.
func splitHost(repo string) (host, rest string, ok bool) {
	idx := strings.Index(repo, "/")
	if idx < 0 {
		return "", repo, false
	}
	first := repo[:idx]
	if strings.Contains(first, ".") || strings.Contains(first, ":") || first == "localhost" {
		return first, repo[idx+1:], true
	}
	return "", repo, false
}
