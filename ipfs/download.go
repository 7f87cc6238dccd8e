package ipfs

import (
	"context"
	"fmt"

	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/melbahja/got"
)

// Download fetches previously pinned content from the configured gateway and
// writes it to dest. Useful for verifying an upload round-trip.
func (c *Client) Download(ctx context.Context, cid string, dest string) error {
	if cid == "" {
		return fmt.Errorf("content identifier is empty")
	}

	url := fmt.Sprintf("%s/ipfs/%s", c.opts.GatewayBaseURL, cid)
	c.logger.Debugf("Downloading %s to %s", url, dest)

	retryableHTTPClient := retryhttp.NewClient(c.logger)
	downloader := got.New()
	downloader.Client = retryableHTTPClient.StandardClient()

	if err := downloader.Do(got.NewDownload(ctx, url, dest)); err != nil {
		return fmt.Errorf("download %s: %w", cid, err)
	}
	return nil
}
