package llm

import "errors"

// Inference failures collapse into three kinds the executor's retry loop
// cares about. Provider clients wrap their own errors with one of these.
var (
	// ErrRateLimited is retryable after backoff.
	ErrRateLimited = errors.New("llm: rate limited")

	// ErrTransient covers network errors and 5xx responses; retryable.
	ErrTransient = errors.New("llm: transient failure")

	// ErrFatal covers malformed requests and auth failures; not retryable.
	ErrFatal = errors.New("llm: fatal failure")
)

// Retryable reports whether the executor should attempt the call again.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}
