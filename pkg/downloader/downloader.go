// Package downloader fetches agent content from GitHub. Only direct file
// links (blob URLs) are accepted; repository and directory links are
// rejected before any network traffic happens.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/types"
)

// maxAgentSize caps a single download; agent files are small text files
const maxAgentSize = 10 << 20 // 10 MiB

// GitHub downloads single files from github.com by rewriting blob URLs to
// raw.githubusercontent.com. One attempt, bounded by the client timeout;
// retry policy is deliberately out of scope.
type GitHub struct {
	client *http.Client
}

// New creates a GitHub downloader with the given per-attempt timeout
func New(timeout time.Duration) *GitHub {
	return &GitHub{
		client: &http.Client{Timeout: timeout},
	}
}

var _ types.Downloader = (*GitHub)(nil)

// Fetch downloads the file behind a GitHub blob URL and returns its
// content. Non-direct-file links fail with UNSUPPORTED_SOURCE; transport
// and HTTP failures fail with DOWNLOAD.
func (g *GitHub) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	logger := logging.GetLogger("downloader")

	fetchURL, err := RawURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDownload, "failed to build request for %s", fetchURL)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDownload, "failed to fetch %s", fetchURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Newf(errors.ErrDownload,
			"failed to download file: HTTP %d (make sure the file exists and the URL is correct)",
			resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAgentSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDownload, "failed to read response from %s", fetchURL)
	}
	if len(data) > maxAgentSize {
		return nil, errors.Newf(errors.ErrDownload, "file exceeds %d bytes", maxAgentSize)
	}

	logger.Debug().Str("url", fetchURL).Int("bytes", len(data)).Msg("Download complete")
	return data, nil
}

// RawURL converts a github.com blob URL into its raw content URL.
// https://github.com/OWNER/REPO/blob/BRANCH/PATH becomes
// https://raw.githubusercontent.com/OWNER/REPO/BRANCH/PATH.
func RawURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid URL %q", rawURL)
	}
	if parsed.Host != "github.com" {
		return "", errors.Newf(errors.ErrUnsupportedSource, "not a GitHub URL: %q", rawURL)
	}

	var segments []string
	for _, s := range strings.Split(strings.TrimPrefix(parsed.Path, "/"), "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	// Require at least owner/repo/blob/branch/file
	if len(segments) < 5 || segments[2] != "blob" {
		return "", errors.Newf(errors.ErrUnsupportedSource,
			"only direct file links are supported, e.g. https://github.com/user/repo/blob/main/agent.md")
	}

	owner, repo, branch := segments[0], segments[1], segments[3]
	filePath := strings.Join(segments[4:], "/")

	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", owner, repo, branch, filePath), nil
}

// FileName extracts the file name from a GitHub blob URL
func FileName(rawURL string) (string, error) {
	if _, err := RawURL(rawURL); err != nil {
		return "", err
	}
	parsed, _ := url.Parse(rawURL)
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	return segments[len(segments)-1], nil
}
