package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fail(b *Breaker, n int) (useFallback bool, change StateChange) {
	for iter := 0; iter < n; iter++ {
		useFallback, change = b.RecordFailure()
	}
	return useFallback, change
}

func succeed(b *Breaker, n int) (usePrimary bool, change StateChange) {
	for iter := 0; iter < n; iter++ {
		usePrimary, change = b.RecordSuccess()
	}
	return usePrimary, change
}

func TestBreaker_StartsClosed(t *testing.T) {
	b := New("content_generator")
	assert.Equal(t, "content_generator", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreaker_Transitions(t *testing.T) {
	t.Run("opens on the threshold failure only", func(t *testing.T) {
		b := New("t", WithFailureThreshold(3))

		useFallback, change := fail(b, 2)
		assert.False(t, useFallback)
		assert.False(t, change.Opened)

		useFallback, change = b.RecordFailure()
		assert.True(t, useFallback)
		assert.True(t, change.Opened)
		assert.Equal(t, StateOpen, b.State())

		useFallback, change = b.RecordFailure()
		assert.True(t, useFallback)
		assert.False(t, change.Opened, "already open")
	})

	t.Run("a success in between restarts the failure count", func(t *testing.T) {
		b := New("t", WithFailureThreshold(3))
		fail(b, 2)
		b.RecordSuccess()
		fail(b, 2)
		assert.False(t, b.IsOpen())
		b.RecordFailure()
		assert.True(t, b.IsOpen())
	})

	t.Run("closes after consecutive successes", func(t *testing.T) {
		b := New("t", WithFailureThreshold(1), WithSuccessThreshold(3))
		fail(b, 1)

		usePrimary, _ := succeed(b, 2)
		assert.False(t, usePrimary)
		b.RecordFailure()

		usePrimary, change := succeed(b, 2)
		assert.False(t, usePrimary, "failure restarted the success count")
		assert.False(t, change.Closed)

		usePrimary, change = b.RecordSuccess()
		assert.True(t, usePrimary)
		assert.True(t, change.Closed)
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("reset closes immediately", func(t *testing.T) {
		b := New("t", WithFailureThreshold(1))
		fail(b, 1)
		require.True(t, b.IsOpen())
		b.Reset()
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("non-positive options keep defaults", func(t *testing.T) {
		b := New("t", WithFailureThreshold(0), WithSuccessThreshold(-1), WithCooldown(0))
		assert.Equal(t, defaultFailureThreshold, b.failureThreshold)
		assert.Equal(t, defaultSuccessThreshold, b.successThreshold)
		assert.Equal(t, defaultCooldown, b.cooldown)
	})
}

func TestBreaker_AllowProbesOncePerCooldown(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := New("generator", WithFailureThreshold(1), WithCooldown(time.Minute))
	b.now = func() time.Time { return now }

	b.RecordFailure()
	assert.False(t, b.Allow(), "opening counts as the first probe")

	now = now.Add(time.Minute)
	assert.True(t, b.Allow())
	assert.False(t, b.Allow(), "second caller in the same window is short-circuited")

	succeed(b, defaultSuccessThreshold)
	assert.False(t, b.IsOpen())
	assert.True(t, b.Allow())
}
