package release

// This file implements the release-discovery client. Both operational modes
// that need a manifest resolve the latest upstream release through this
// client; the HTTP timeout and bounded retry guarantee that a dead upstream
// surfaces as an error instead of stalling the run.

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultAttempts    = 3

	// maxResponseBytes caps release API and image list bodies. An RKE2
	// image list is a few KB; anything near this limit is garbage.
	maxResponseBytes int64 = 4 * 1024 * 1024
)

// latestRelease is the subset of the releases API response we consume.
type latestRelease struct {
	TagName string `json:"tag_name"`
}

// Client queries a GitHub-style releases API and fetches release assets.
type Client struct {
	http     *http.Client
	logger   *zap.Logger
	attempts uint
}

// NewClient creates a discovery client. A zero timeout falls back to the
// default; logger may be nil for tests.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
		attempts: defaultAttempts,
	}
}

// LatestVersion resolves the latest release tag published at releasesAPI
// (e.g. https://api.github.com/repos/rancher/rke2/releases). The returned
// tag is opaque; no version ordering is implied.
func (c *Client) LatestVersion(ctx context.Context, releasesAPI, source string) (string, error) {
	url := releasesAPI + "/latest"

	var tag string
	err := retry.Do(
		func() error {
			body, err := c.get(ctx, url)
			if err != nil {
				return err
			}
			var rel latestRelease
			if err := json.Unmarshal(body, &rel); err != nil {
				return retry.Unrecoverable(fmt.Errorf("invalid release response from %s: %w", url, err))
			}
			if rel.TagName == "" {
				return retry.Unrecoverable(ErrVersionTagMissing)
			}
			tag = rel.TagName
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("Release discovery failed, retrying",
				zap.String("source", source), zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return "", wrapDiscoveryError(ErrReleaseUnreachable, err,
			fmt.Sprintf("failed to discover latest %s release: %v", source, err), source)
	}

	c.logger.Info("Resolved latest release", zap.String("source", source), zap.String("version", tag))
	return tag, nil
}

// FetchImageList downloads a plaintext image list (one reference per line,
// blank lines skipped) and parses every entry, preserving order.
func (c *Client) FetchImageList(ctx context.Context, url string) ([]ImageReference, error) {
	var body []byte
	err := retry.Do(
		func() error {
			var err error
			body, err = c.get(ctx, url)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("Image list fetch failed, retrying",
				zap.String("url", url), zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return nil, wrapManifestError(ErrImageListFetchFailed, err,
			fmt.Sprintf("failed to fetch image list: %v", err), map[string]any{"url": url})
	}

	return parseImageList(body, url)
}

func parseImageList(body []byte, url string) ([]ImageReference, error) {
	var refs []ImageReference
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if isBlank(line) {
			continue
		}
		ref, err := ParseReference(line)
		if err != nil {
			return nil, wrapManifestError(ErrImageListFetchFailed, err,
				fmt.Sprintf("image list contains an invalid reference: %v", err),
				map[string]any{"url": url, "line": line})
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// get performs a single GET, treating every non-200 status as an error.
// Client errors (4xx) are unrecoverable: retrying a 404 asset will not help.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	req.Header.Set("Accept", "application/json, text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	return body, nil
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
