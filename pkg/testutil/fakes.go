package testutil

import (
	"context"

	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/types"
)

// StaticConfirmer answers every confirmation prompt with a fixed value
// and records the messages it was shown.
type StaticConfirmer struct {
	Answer   bool
	Messages []string
}

func (c *StaticConfirmer) Confirm(message string) bool {
	c.Messages = append(c.Messages, message)
	return c.Answer
}

// FakeDownloader serves canned content keyed by raw URL. Unknown URLs
// fail with a DOWNLOAD error, the same shape a network failure takes.
type FakeDownloader struct {
	Content map[string][]byte
	// Calls records every URL fetched, in order
	Calls []string
}

func (d *FakeDownloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	d.Calls = append(d.Calls, url)
	if data, ok := d.Content[url]; ok {
		return data, nil
	}
	return nil, errors.Newf(errors.ErrDownload, "no content for %s", url)
}

var _ types.Confirmer = (*StaticConfirmer)(nil)
var _ types.Downloader = (*FakeDownloader)(nil)
