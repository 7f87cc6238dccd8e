package ipfs

import (
	"fmt"
	"strings"
	"time"
)

// ErrorKind classifies a terminal upload failure.
type ErrorKind string

const (
	// ErrKindTimeout means every attempt, including retries, exceeded the
	// configured per-attempt timeout.
	ErrKindTimeout ErrorKind = "TIMEOUT"

	// ErrKindInvalidResponse means the transport completed but did not return
	// a content identifier. Not retried.
	ErrKindInvalidResponse ErrorKind = "INVALID_RESPONSE"

	// ErrKindUploadFailed covers non-retryable transport errors and exhausted
	// retry budgets.
	ErrKindUploadFailed ErrorKind = "UPLOAD_FAILED"
)

// Error is the terminal error for a single payload upload.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// retryablePatterns is matched case-insensitively against error messages.
// The list is intentionally narrow; "timeout" also matches unrelated
// application timeouts, but widening or narrowing it changes retry behavior
// for every transport, so keep it as is.
var retryablePatterns = []string{
	"network",
	"timeout",
	"econnrefused",
	"enotfound",
	"etimedout",
	"socket hang up",
}

// IsRetryable reports whether err looks like a transient transport failure
// worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func timeoutError(maxRetries int, timeout time.Duration) *Error {
	return &Error{
		Kind:    ErrKindTimeout,
		Message: fmt.Sprintf("upload timed out after %d retries (%s per attempt)", maxRetries, timeout),
	}
}

func uploadFailedError(cause error) *Error {
	return &Error{
		Kind:    ErrKindUploadFailed,
		Message: fmt.Sprintf("upload failed: %s", cause),
		Cause:   cause,
	}
}

func invalidResponseError() *Error {
	return &Error{
		Kind:    ErrKindInvalidResponse,
		Message: "transport response is missing the content identifier",
	}
}
