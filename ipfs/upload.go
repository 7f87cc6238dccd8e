package ipfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/docker/go-units"
)

// UploadResult is the outcome of uploading one payload. Exactly one of
// URL/CID/GatewayURL (on success) or Err (on failure) is populated. Index is
// the payload's position in the originating batch; it is 0 for single uploads.
type UploadResult struct {
	Index      int
	URL        string
	CID        string
	GatewayURL string
	Err        *Error
}

// errAttemptTimeout marks one attempt that lost the race against the timer.
var errAttemptTimeout = errors.New("upload attempt timed out")

// Upload uploads a single payload, retrying transient failures up to the
// configured retry budget. Retries are immediate; the only pacing is the
// per-attempt timeout itself.
func (c *Client) Upload(ctx context.Context, data []byte) (*UploadResult, error) {
	c.logger.Debugf("Uploading %s payload", units.HumanSize(float64(len(data))))

	cid, err := c.uploadWithRetry(ctx, data)
	if err != nil {
		return nil, err
	}

	return c.successResult(0, cid), nil
}

func (c *Client) successResult(index int, cid string) *UploadResult {
	return &UploadResult{
		Index:      index,
		URL:        "ipfs://" + cid,
		CID:        cid,
		GatewayURL: c.opts.GatewayBaseURL + "/ipfs/" + cid,
	}
}

func (c *Client) uploadWithRetry(ctx context.Context, data []byte) (string, error) {
	transport := c.transportHandle()
	attempts := c.opts.MaxRetries + 1

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", uploadFailedError(fmt.Errorf("upload cancelled: %w", err))
		}

		cid, err := c.uploadOnce(ctx, transport, data)
		if err == nil {
			return cid, nil
		}

		var terminal *Error
		if errors.As(err, &terminal) && terminal.Kind == ErrKindInvalidResponse {
			return "", terminal
		}

		lastErr = err
		if errors.Is(err, errAttemptTimeout) {
			c.logger.Warnf("Upload attempt %d/%d timed out after %s", attempt+1, attempts, c.opts.Timeout)
			continue
		}
		if !IsRetryable(err) {
			break
		}
		c.logger.Warnf("Upload attempt %d/%d failed: %s", attempt+1, attempts, err)
	}

	if errors.Is(lastErr, errAttemptTimeout) {
		return "", timeoutError(c.opts.MaxRetries, c.opts.Timeout)
	}
	return "", uploadFailedError(lastErr)
}

type attemptOutcome struct {
	cid string
	err error
}

// uploadOnce races one transport call against the attempt timeout. The losing
// transport call is abandoned, not cancelled mid-flight: its eventual result
// lands in a buffered channel that nothing reads, so a late completion can
// never be double-counted.
func (c *Client) uploadOnce(ctx context.Context, transport Transport, data []byte) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	done := make(chan attemptOutcome, 1)
	go func() {
		cid, err := transport.Upload(attemptCtx, data, c.opts.Pin)
		done <- attemptOutcome{cid: cid, err: err}
	}()

	select {
	case <-attemptCtx.Done():
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("upload cancelled: %w", err)
		}
		return "", errAttemptTimeout
	case outcome := <-done:
		if outcome.err != nil {
			// A transport that honors the attempt context reports the
			// deadline itself; classify it the same as losing the race.
			if errors.Is(outcome.err, context.DeadlineExceeded) && ctx.Err() == nil {
				return "", errAttemptTimeout
			}
			return "", outcome.err
		}
		if outcome.cid == "" {
			return "", invalidResponseError()
		}
		return outcome.cid, nil
	}
}
