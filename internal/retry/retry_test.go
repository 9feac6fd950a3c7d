package retry

import (
	"testing"

	"github.com/go-slippy/slippy/internal/tilestate"
	"github.com/stretchr/testify/require"
)

func TestExponentialBackoffScenario(t *testing.T) {
	cfg := Config{MaxRetries: 3, BaseDelay: 60}
	rs0 := InitialFailure(100, "boom")

	require.False(t, ShouldRetry(cfg, rs0, 159))
	require.True(t, ShouldRetry(cfg, rs0, 160))

	rs1 := Advance(rs0, 160, "boom again")
	require.Equal(t, int64(160+120), NextRetryTime(cfg, rs1))

	rs2 := Advance(rs1, 280, "boom thrice")
	require.Equal(t, int64(280+240), NextRetryTime(cfg, rs2))
}

func TestRetryMonotonicity(t *testing.T) {
	cfg := DefaultConfig()
	rs := InitialFailure(0, "x")
	next := NextRetryTime(cfg, rs)

	for tau := next; tau < next+10_000; tau += 137 {
		require.Truef(t, ShouldRetry(cfg, rs, tau), "should_retry(rs, %d) should hold once true at %d", tau, next)
	}
}

func TestExhaustionIsSticky(t *testing.T) {
	cfg := Config{MaxRetries: 2, BaseDelay: 10}
	rs := InitialFailure(0, "x")
	rs = Advance(rs, 10, "x")
	rs = Advance(rs, 30, "x")

	require.True(t, IsExhausted(cfg, rs))
	for _, tau := range []int64{0, 30, 1000, 1_000_000} {
		require.Falsef(t, ShouldRetry(cfg, rs, tau), "should_retry should be false forever once exhausted (tau=%d)", tau)
	}
}

func TestBackoffDelayDoubles(t *testing.T) {
	cfg := Config{MaxRetries: 5, BaseDelay: 60}
	for i, want := range []int64{60, 120, 240, 480, 960} {
		rs := tilestate.RetryState{RetryCount: i}
		require.Equal(t, want, BackoffDelay(cfg, rs))
	}
}
