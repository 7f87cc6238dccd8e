package ipfs

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cidForPayload makes the fake transport deterministic: the CID encodes the
// payload, so order-preservation checks can match results back to inputs.
func cidForPayload(data []byte) string {
	return "cid-" + string(data)
}

func echoTransport() *fakeTransport {
	return &fakeTransport{
		fn: func(call int, ctx context.Context, data []byte) (string, error) {
			return cidForPayload(data), nil
		},
	}
}

func payloads(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte(fmt.Sprintf("payload-%d", i))
	}
	return out
}

func TestUploadBatch_AllSucceed(t *testing.T) {
	transport := echoTransport()
	client := NewClient(testOptions(), transport, nil)

	result := client.UploadBatch(context.Background(), payloads(3), nil, 5)

	assert.True(t, result.Success)
	require.Len(t, result.Results, 3)
	for i, item := range result.Results {
		assert.Equal(t, i, item.Index)
		assert.Equal(t, cidForPayload([]byte(fmt.Sprintf("payload-%d", i))), item.CID)
		assert.Equal(t, "ipfs://"+item.CID, item.URL)
		assert.Nil(t, item.Err)
	}
	assert.Equal(t, 0, result.Progress.Failed)
	assert.Equal(t, 3, result.Progress.Successful)
	assert.Equal(t, 0, result.Progress.InProgress)
}

func TestUploadBatch_EmptyInput(t *testing.T) {
	transport := echoTransport()
	client := NewClient(testOptions(), transport, nil)

	result := client.UploadBatch(context.Background(), nil, nil, 0)

	assert.True(t, result.Success)
	assert.Empty(t, result.Results)
	assert.Equal(t, Progress{Total: 0, Errors: []string{}}, result.Progress)
	assert.Equal(t, 0, transport.callCount())
}

func TestUploadBatch_ConcurrencyCeiling(t *testing.T) {
	transport := &fakeTransport{
		fn: func(call int, ctx context.Context, data []byte) (string, error) {
			time.Sleep(10 * time.Millisecond)
			return cidForPayload(data), nil
		},
	}
	client := NewClient(testOptions(), transport, nil)

	var snapshots []Progress
	var mu sync.Mutex
	result := client.UploadBatch(context.Background(), payloads(5), func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		snapshots = append(snapshots, p)
	}, 2)

	assert.True(t, result.Success)
	assert.LessOrEqual(t, transport.observedMaxInFlight(), 2)

	// One start and one resolve notification per item.
	assert.Len(t, snapshots, 10)
	for _, p := range snapshots {
		assert.LessOrEqual(t, p.Successful+p.Failed, p.Total)
		assert.GreaterOrEqual(t, p.InProgress, 0)
		assert.LessOrEqual(t, p.InProgress, 2)
	}

	final := snapshots[len(snapshots)-1]
	assert.Equal(t, 5, final.Successful+final.Failed)
	assert.Equal(t, 0, final.InProgress)
}

func TestUploadBatch_OneItemTimesOut(t *testing.T) {
	transport := &fakeTransport{
		fn: func(call int, ctx context.Context, data []byte) (string, error) {
			if string(data) == "payload-1" {
				time.Sleep(2 * time.Second)
			}
			return cidForPayload(data), nil
		},
	}
	opts := testOptions()
	opts.Timeout = 20 * time.Millisecond
	opts.MaxRetries = 3
	client := NewClient(opts, transport, nil)

	result := client.UploadBatch(context.Background(), payloads(3), nil, 5)

	assert.False(t, result.Success)
	require.Len(t, result.Results, 3)

	require.NotNil(t, result.Results[1].Err)
	assert.Equal(t, ErrKindTimeout, result.Results[1].Err.Kind)
	assert.Nil(t, result.Results[0].Err)
	assert.Nil(t, result.Results[2].Err)

	assert.Equal(t, 2, result.Progress.Successful)
	assert.Equal(t, 1, result.Progress.Failed)
	require.Len(t, result.Progress.Errors, 1)
	assert.Contains(t, result.Progress.Errors[0], "Index 1:")
}

func TestUploadBatch_FailureIsolation(t *testing.T) {
	transport := &fakeTransport{
		fn: func(call int, ctx context.Context, data []byte) (string, error) {
			if string(data) == "payload-2" {
				return "", fmt.Errorf("file exceeds size limit")
			}
			return cidForPayload(data), nil
		},
	}
	client := NewClient(testOptions(), transport, nil)

	result := client.UploadBatch(context.Background(), payloads(4), nil, 2)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Progress.Successful)
	assert.Equal(t, 1, result.Progress.Failed)
	require.NotNil(t, result.Results[2].Err)
	assert.Equal(t, ErrKindUploadFailed, result.Results[2].Err.Kind)

	// The failed item does not stop later windows from running.
	assert.Nil(t, result.Results[3].Err)
}

func TestUploadBatch_OrderPreservedUnderRandomCompletion(t *testing.T) {
	transport := &fakeTransport{
		fn: func(call int, ctx context.Context, data []byte) (string, error) {
			time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
			return cidForPayload(data), nil
		},
	}
	client := NewClient(testOptions(), transport, nil)

	input := payloads(8)
	result := client.UploadBatch(context.Background(), input, nil, 8)

	require.True(t, result.Success)
	require.Len(t, result.Results, 8)
	for i, item := range result.Results {
		assert.Equal(t, i, item.Index)
		assert.Equal(t, cidForPayload(input[i]), item.CID)
	}
}

func TestUploadBatch_SupportsSelectiveResubmission(t *testing.T) {
	var failing sync.Map
	failing.Store("payload-0", true)
	failing.Store("payload-3", true)

	transport := &fakeTransport{
		fn: func(call int, ctx context.Context, data []byte) (string, error) {
			if _, bad := failing.Load(string(data)); bad {
				return "", fmt.Errorf("rejected")
			}
			return cidForPayload(data), nil
		},
	}
	client := NewClient(testOptions(), transport, nil)

	input := payloads(5)
	result := client.UploadBatch(context.Background(), input, nil, 3)
	require.False(t, result.Success)

	var retryInput [][]byte
	for _, item := range result.Results {
		if item.Err != nil {
			retryInput = append(retryInput, input[item.Index])
		}
	}
	require.Len(t, retryInput, 2)

	failing.Delete("payload-0")
	failing.Delete("payload-3")
	retryResult := client.UploadBatch(context.Background(), retryInput, nil, 3)
	assert.True(t, retryResult.Success)
	assert.Equal(t, 2, retryResult.Progress.Successful)
}
