package ipfs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/docker/go-units"
)

// DefaultBatchConcurrency is the upload window size used when the caller
// passes a non-positive concurrency.
const DefaultBatchConcurrency = 5

// Progress is a self-consistent snapshot of a running batch. Successful +
// Failed never exceeds Total and equals it exactly once the batch completes.
type Progress struct {
	InProgress int
	Total      int
	Successful int
	Failed     int
	Errors     []string
}

// ProgressFunc receives a fresh snapshot every time an upload starts or
// resolves. It is called synchronously from the batch; keep it fast and do
// not call back into the client from it.
type ProgressFunc func(Progress)

// BatchResult is the aggregate outcome of one UploadBatch call.
type BatchResult struct {
	// Results holds one outcome per payload, ordered by original index:
	// Results[i].Index == i regardless of completion order.
	Results []UploadResult

	// Success is true iff no payload failed.
	Success bool

	// Progress is the final snapshot, with InProgress == 0.
	Progress Progress
}

// UploadBatch uploads the payloads with at most `concurrency` uploads in
// flight. Payloads are processed in consecutive windows: all items of a
// window run concurrently and the next window starts only once the current
// one has fully resolved. A long item therefore stalls the next window; the
// trade-off is a hard concurrency ceiling without a separate queue.
//
// A single payload's failure never aborts the batch: it is recorded as a
// failed result and the remaining payloads proceed. UploadBatch never
// returns an item error to the caller; inspect BatchResult.Results to retry
// a filtered payload list.
func (c *Client) UploadBatch(ctx context.Context, payloads [][]byte, onProgress ProgressFunc, concurrency int) *BatchResult {
	if concurrency < 1 {
		concurrency = DefaultBatchConcurrency
	}
	total := len(payloads)

	var totalBytes int
	for _, payload := range payloads {
		totalBytes += len(payload)
	}
	c.logger.Debugf("Uploading batch of %d payloads (%s), concurrency %d",
		total, units.HumanSize(float64(totalBytes)), concurrency)

	agg := newBatchAggregate(total, onProgress)
	results := make([]UploadResult, total)

	for windowStart := 0; windowStart < total; windowStart += concurrency {
		windowEnd := windowStart + concurrency
		if windowEnd > total {
			windowEnd = total
		}

		var wg sync.WaitGroup
		for i := windowStart; i < windowEnd; i++ {
			// Start notifications happen here, not in the goroutine, so they
			// follow input order within the window.
			agg.itemStarted()

			wg.Add(1)
			go func(index int, data []byte) {
				defer wg.Done()
				results[index] = c.uploadBatchItem(ctx, index, data, agg)
			}(i, payloads[i])
		}
		wg.Wait()
	}

	final := agg.snapshot()
	if final.Failed > 0 {
		c.logger.Warnf("Batch finished with %d/%d failed uploads", final.Failed, total)
	} else {
		c.logger.Debugf("Batch finished, %d/%d uploads succeeded", final.Successful, total)
	}

	return &BatchResult{
		Results:  results,
		Success:  final.Failed == 0,
		Progress: final,
	}
}

func (c *Client) uploadBatchItem(ctx context.Context, index int, data []byte, agg *batchAggregate) UploadResult {
	cid, err := c.uploadWithRetry(ctx, data)
	if err != nil {
		var terminal *Error
		if !errors.As(err, &terminal) {
			terminal = uploadFailedError(err)
		}
		agg.itemFailed(index, terminal)
		return UploadResult{Index: index, Err: terminal}
	}

	agg.itemSucceeded()
	return *c.successResult(index, cid)
}

// batchAggregate owns the progress counters of exactly one UploadBatch call.
// All mutation happens under the mutex, and the callback runs under it too so
// every snapshot it sees is internally consistent and in mutation order.
type batchAggregate struct {
	mu         sync.Mutex
	progress   Progress
	onProgress ProgressFunc
}

func newBatchAggregate(total int, onProgress ProgressFunc) *batchAggregate {
	return &batchAggregate{
		progress:   Progress{Total: total, Errors: []string{}},
		onProgress: onProgress,
	}
}

func (a *batchAggregate) itemStarted() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progress.InProgress++
	a.notifyLocked()
}

func (a *batchAggregate) itemSucceeded() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progress.InProgress--
	a.progress.Successful++
	a.notifyLocked()
}

func (a *batchAggregate) itemFailed(index int, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progress.InProgress--
	a.progress.Failed++
	a.progress.Errors = append(a.progress.Errors, fmt.Sprintf("Index %d: %s", index, err))
	a.notifyLocked()
}

func (a *batchAggregate) notifyLocked() {
	if a.onProgress != nil {
		a.onProgress(a.snapshotLocked())
	}
}

func (a *batchAggregate) snapshot() Progress {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *batchAggregate) snapshotLocked() Progress {
	snapshot := a.progress
	snapshot.Errors = append([]string{}, a.progress.Errors...)
	return snapshot
}
