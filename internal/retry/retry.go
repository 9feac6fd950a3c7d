// Package retry holds the pure back-off decision functions over a
// tile's RetryState. Nothing here touches the cache, the clock, or
// I/O: every function takes the frame counter tau as an explicit
// argument so the policy is trivially testable and deterministic.
//
// No library in the retrieved example pack implements exponential
// backoff; this is a deliberate standard-library-only component (see
// DESIGN.md).
package retry

import (
	"math"

	"github.com/go-slippy/slippy/internal/tilestate"
)

// Config holds the two knobs for the retry policy.
type Config struct {
	MaxRetries int
	// BaseDelay is in frames (tau units); the default of 60 is about
	// one second at 60fps.
	BaseDelay int64
}

// DefaultConfig returns the documented defaults: 3 max retries, 60
// frame base delay (~1s at 60fps).
func DefaultConfig() Config {
	return Config{MaxRetries: 3, BaseDelay: 60}
}

// BackoffDelay returns base_delay * 2^retry_count.
func BackoffDelay(cfg Config, rs tilestate.RetryState) int64 {
	return cfg.BaseDelay * int64(math.Pow(2, float64(rs.RetryCount)))
}

// NextRetryTime returns the frame at which rs becomes eligible for
// retry.
func NextRetryTime(cfg Config, rs tilestate.RetryState) int64 {
	return rs.LastFailTime + BackoffDelay(cfg, rs)
}

// IsExhausted reports whether rs has used up its retry budget.
func IsExhausted(cfg Config, rs tilestate.RetryState) bool {
	return rs.RetryCount >= cfg.MaxRetries
}

// ShouldRetry reports whether rs is due for a retry at frame tau.
// Monotonic in tau until exhaustion: once true for some tau, it stays
// true for all tau' >= tau (see retry_test.go's property test).
func ShouldRetry(cfg Config, rs tilestate.RetryState, tau int64) bool {
	return !IsExhausted(cfg, rs) && tau >= NextRetryTime(cfg, rs)
}

// InitialFailure builds the RetryState for a tile's first-ever
// failure at frame tau with the given error message.
func InitialFailure(tau int64, msg string) tilestate.RetryState {
	return tilestate.RetryState{RetryCount: 0, LastFailTime: tau, ErrorMessage: msg}
}

// Advance returns the RetryState after another failure at frame tau,
// incrementing retry_count.
func Advance(rs tilestate.RetryState, tau int64, msg string) tilestate.RetryState {
	return tilestate.RetryState{
		RetryCount:   rs.RetryCount + 1,
		LastFailTime: tau,
		ErrorMessage: msg,
	}
}
