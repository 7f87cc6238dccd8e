package ipfs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.GatewayBaseURL = "https://gateway.test"
	opts.Timeout = 50 * time.Millisecond
	return opts
}

func TestUpload_Success(t *testing.T) {
	transport := &fakeTransport{
		fn: func(call int, ctx context.Context, data []byte) (string, error) {
			return "QmTestCID", nil
		},
	}
	client := NewClient(testOptions(), transport, nil)

	result, err := client.Upload(context.Background(), []byte(`{"name":"token"}`))
	require.NoError(t, err)

	assert.Equal(t, "QmTestCID", result.CID)
	assert.Equal(t, "ipfs://QmTestCID", result.URL)
	assert.Equal(t, "https://gateway.test/ipfs/QmTestCID", result.GatewayURL)
	assert.Equal(t, 1, transport.callCount())
}

func TestUpload_RetriesTransientErrorsThenSucceeds(t *testing.T) {
	transport := &fakeTransport{
		fn: func(call int, ctx context.Context, data []byte) (string, error) {
			if call <= 2 {
				return "", errors.New("connect ETIMEDOUT 10.0.0.1:443")
			}
			return "QmAfterRetry", nil
		},
	}
	opts := testOptions()
	opts.MaxRetries = 3
	client := NewClient(opts, transport, nil)

	result, err := client.Upload(context.Background(), []byte("payload"))
	require.NoError(t, err)

	assert.Equal(t, "QmAfterRetry", result.CID)
	assert.Equal(t, 3, transport.callCount())
}

func TestUpload_RetryBudgetExhausted(t *testing.T) {
	transport := &fakeTransport{
		fn: func(call int, ctx context.Context, data []byte) (string, error) {
			return "", errors.New("Network request failed")
		},
	}
	opts := testOptions()
	opts.MaxRetries = 2
	client := NewClient(opts, transport, nil)

	_, err := client.Upload(context.Background(), []byte("payload"))
	require.Error(t, err)

	var uploadErr *Error
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, ErrKindUploadFailed, uploadErr.Kind)
	assert.Contains(t, uploadErr.Error(), "Network request failed")
	// maxRetries + 1 total attempts, no more
	assert.Equal(t, 3, transport.callCount())
}

func TestUpload_NonRetryableErrorFailsImmediately(t *testing.T) {
	cause := errors.New("Invalid metadata schema")
	transport := &fakeTransport{
		fn: func(call int, ctx context.Context, data []byte) (string, error) {
			return "", cause
		},
	}
	opts := testOptions()
	opts.MaxRetries = 3
	client := NewClient(opts, transport, nil)

	_, err := client.Upload(context.Background(), []byte("payload"))
	require.Error(t, err)

	var uploadErr *Error
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, ErrKindUploadFailed, uploadErr.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, transport.callCount())
}

func TestUpload_MissingCIDIsNotRetried(t *testing.T) {
	transport := &fakeTransport{
		fn: func(call int, ctx context.Context, data []byte) (string, error) {
			return "", nil
		},
	}
	opts := testOptions()
	opts.MaxRetries = 3
	client := NewClient(opts, transport, nil)

	_, err := client.Upload(context.Background(), []byte("payload"))
	require.Error(t, err)

	var uploadErr *Error
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, ErrKindInvalidResponse, uploadErr.Kind)
	assert.Equal(t, 1, transport.callCount())
}

func TestUpload_TimeoutConsumesRetriesThenFails(t *testing.T) {
	transport := &fakeTransport{
		fn: func(call int, ctx context.Context, data []byte) (string, error) {
			// Outlives the attempt timeout on every call; the late result
			// must be discarded, not treated as a success.
			time.Sleep(2 * time.Second)
			return "QmTooLate", nil
		},
	}
	opts := testOptions()
	opts.Timeout = 20 * time.Millisecond
	opts.MaxRetries = 3
	client := NewClient(opts, transport, nil)

	start := time.Now()
	_, err := client.Upload(context.Background(), []byte("payload"))
	require.Error(t, err)

	var uploadErr *Error
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, ErrKindTimeout, uploadErr.Kind)
	assert.Contains(t, uploadErr.Error(), "3 retries")
	// All four attempts timed out, so the call returns well before the
	// transport's own sleep would.
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 4, transport.callCount())
}

func TestUpload_AppliesDefaultOptions(t *testing.T) {
	client := NewClient(Options{}, &fakeTransport{}, nil)

	opts := client.Options()
	assert.Equal(t, DefaultGatewayBaseURL, opts.GatewayBaseURL)
	assert.Equal(t, DefaultAPIBaseURL, opts.APIBaseURL)
	assert.Equal(t, DefaultTimeout, opts.Timeout)
}
