package totp_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codekeep/codekeep/core/totp"
)

const watcherURI = "otpauth://totp/Example:alice@example.com?secret=" + rfcSecret + "&issuer=Example"

// steppingClock returns a clock that starts at base and advances one second
// on every reading, simulating a one-second tick cadence.
func steppingClock(base time.Time) func() time.Time {
	var calls atomic.Int64
	return func() time.Time {
		n := calls.Add(1) - 1
		return base.Add(time.Duration(n) * time.Second)
	}
}

func collectTicks(t *testing.T, ticks <-chan totp.Tick, n int) []totp.Tick {
	t.Helper()

	out := make([]totp.Tick, 0, n)
	for len(out) < n {
		select {
		case tick, ok := <-ticks:
			require.True(t, ok, "tick channel closed early")
			out = append(out, tick)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out after %d of %d ticks", len(out), n)
		}
	}
	return out
}

func TestNewWatcher(t *testing.T) {
	t.Parallel()

	t.Run("parses_the_uri", func(t *testing.T) {
		t.Parallel()

		w, err := totp.NewWatcher(watcherURI)
		require.NoError(t, err)
		assert.Equal(t, rfcSecret, w.URI().Secret)
		assert.Equal(t, "Example:alice@example.com", w.URI().Label)
		assert.Equal(t, "Example", w.URI().Issuer)
	})

	t.Run("rejects_non_totp_values", func(t *testing.T) {
		t.Parallel()

		_, err := totp.NewWatcher("just some scanned text")
		assert.ErrorIs(t, err, totp.ErrNotTOTPURI)

		_, err = totp.NewWatcher("otpauth://totp/foo")
		assert.ErrorIs(t, err, totp.ErrMissingSecret)
	})
}

func TestWatcher_Start(t *testing.T) {
	t.Parallel()

	t.Run("emits_initial_tick_immediately", func(t *testing.T) {
		t.Parallel()

		base := time.Unix(58, 0) // two seconds before a window boundary
		w, err := totp.NewWatcher(watcherURI,
			totp.WithClock(steppingClock(base)),
			totp.WithInterval(time.Millisecond),
		)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ticks, err := w.Start(ctx)
		require.NoError(t, err)
		defer w.Stop()

		want, err := totp.GenerateCodeAt(rfcSecret, base)
		require.NoError(t, err)

		first := collectTicks(t, ticks, 1)[0]
		assert.Equal(t, want, first.Code)
		assert.Equal(t, 2, first.Remaining)
	})

	t.Run("rederives_exactly_once_per_window", func(t *testing.T) {
		t.Parallel()

		base := time.Unix(58, 0)
		w, err := totp.NewWatcher(watcherURI,
			totp.WithClock(steppingClock(base)),
			totp.WithInterval(time.Millisecond),
		)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ticks, err := w.Start(ctx)
		require.NoError(t, err)
		defer w.Stop()

		// Simulated seconds 58..90: one boundary at 60, a second at 90.
		got := collectTicks(t, ticks, 33)

		oldCode, err := totp.GenerateCodeAt(rfcSecret, time.Unix(59, 0))
		require.NoError(t, err)
		newCode, err := totp.GenerateCodeAt(rfcSecret, time.Unix(60, 0))
		require.NoError(t, err)

		assert.Equal(t, oldCode, got[0].Code)
		assert.Equal(t, 2, got[0].Remaining)
		assert.Equal(t, oldCode, got[1].Code)
		assert.Equal(t, 1, got[1].Remaining)

		// Fresh window: countdown resets to the full period and the code
		// changes in the same tick.
		assert.Equal(t, newCode, got[2].Code)
		assert.Equal(t, 30, got[2].Remaining)

		// No further change until the next boundary at second 90.
		for i := 3; i < 32; i++ {
			assert.Equal(t, newCode, got[i].Code, "tick %d", i)
			assert.Equal(t, 30-(i-2), got[i].Remaining, "tick %d", i)
		}
		thirdCode, err := totp.GenerateCodeAt(rfcSecret, time.Unix(90, 0))
		require.NoError(t, err)
		assert.Equal(t, 30, got[32].Remaining)
		assert.Equal(t, thirdCode, got[32].Code)
	})

	t.Run("cannot_start_twice", func(t *testing.T) {
		t.Parallel()

		w, err := totp.NewWatcher(watcherURI, totp.WithInterval(time.Minute))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		_, err = w.Start(ctx)
		require.NoError(t, err)
		defer w.Stop()

		_, err = w.Start(ctx)
		assert.ErrorIs(t, err, totp.ErrWatcherAlreadyStarted)
	})

	t.Run("derivation_failure_emits_error_marker_and_keeps_ticking", func(t *testing.T) {
		t.Parallel()

		// '1' and '8' are outside the base32 alphabet, so decoding fails on
		// every window.
		w, err := totp.NewWatcher("otpauth://totp/broken?secret=11118888",
			totp.WithClock(steppingClock(time.Unix(0, 0))),
			totp.WithInterval(time.Millisecond),
		)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ticks, err := w.Start(ctx)
		require.NoError(t, err)
		defer w.Stop()

		got := collectTicks(t, ticks, 3)
		for i, tick := range got {
			assert.Equal(t, totp.ErrorCode, tick.Code, "tick %d", i)
			assert.Equal(t, 30-i, tick.Remaining, "tick %d", i)
		}
	})
}

func TestWatcher_Stop(t *testing.T) {
	t.Parallel()

	t.Run("closes_the_channel_and_stops_the_loop", func(t *testing.T) {
		t.Parallel()

		w, err := totp.NewWatcher(watcherURI, totp.WithInterval(time.Millisecond))
		require.NoError(t, err)

		ticks, err := w.Start(context.Background())
		require.NoError(t, err)

		collectTicks(t, ticks, 1)
		w.Stop()

		// Drain until close; no tick may arrive after that.
		require.Eventually(t, func() bool {
			select {
			case _, ok := <-ticks:
				return !ok
			default:
				return false
			}
		}, 5*time.Second, time.Millisecond)

		require.Eventually(t, func() bool { return !w.Running() }, 5*time.Second, time.Millisecond)
	})

	t.Run("idempotent_and_safe_before_start", func(t *testing.T) {
		t.Parallel()

		w, err := totp.NewWatcher(watcherURI)
		require.NoError(t, err)
		w.Stop()
		w.Stop()
	})

	t.Run("context_cancellation_stops_the_loop", func(t *testing.T) {
		t.Parallel()

		w, err := totp.NewWatcher(watcherURI, totp.WithInterval(time.Millisecond))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		ticks, err := w.Start(ctx)
		require.NoError(t, err)

		collectTicks(t, ticks, 1)
		cancel()

		require.Eventually(t, func() bool {
			select {
			case _, ok := <-ticks:
				return !ok
			default:
				return false
			}
		}, 5*time.Second, time.Millisecond)
	})
}
