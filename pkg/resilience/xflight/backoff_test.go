package xflight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoBackoff(t *testing.T) {
	b := NoBackoff()
	for _, attempt := range []int{-1, 0, 1, 5, 100} {
		assert.Equal(t, time.Duration(0), b(attempt))
	}
}

func TestFixedBackoff(t *testing.T) {
	t.Run("PositiveDelay", func(t *testing.T) {
		b := FixedBackoff(50 * time.Millisecond)
		assert.Equal(t, 50*time.Millisecond, b(1))
		assert.Equal(t, 50*time.Millisecond, b(10))
	})

	t.Run("NegativeDelayClampedToZero", func(t *testing.T) {
		b := FixedBackoff(-time.Second)
		assert.Equal(t, time.Duration(0), b(1))
	})
}

func TestExponentialBackoff(t *testing.T) {
	t.Run("GrowsWithoutJitter", func(t *testing.T) {
		b := ExponentialBackoff(100*time.Millisecond, 10*time.Second, 0)

		assert.Equal(t, 100*time.Millisecond, b(1))
		assert.Equal(t, 200*time.Millisecond, b(2))
		assert.Equal(t, 400*time.Millisecond, b(3))
	})

	t.Run("CappedAtMaxDelay", func(t *testing.T) {
		b := ExponentialBackoff(100*time.Millisecond, time.Second, 0)

		assert.Equal(t, time.Second, b(10))
		// 极大 attempt 时 math.Pow 溢出，必须仍封顶而非绕过
		assert.Equal(t, time.Second, b(100000))
	})

	t.Run("JitterStaysWithinBounds", func(t *testing.T) {
		b := ExponentialBackoff(100*time.Millisecond, 10*time.Second, 0.5)

		for i := 0; i < 100; i++ {
			d := b(2) // 基础延迟 200ms，抖动 ±50%
			assert.GreaterOrEqual(t, d, 100*time.Millisecond)
			assert.LessOrEqual(t, d, 300*time.Millisecond)
		}
	})

	t.Run("DefaultsForInvalidArguments", func(t *testing.T) {
		// initial <= 0 取 100ms；maxDelay < initial 抬升到 initial；jitter 截断
		b := ExponentialBackoff(-1, -1, 2.0)

		d := b(1)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 100*time.Millisecond)
	})

	t.Run("AttemptBelowOneTreatedAsOne", func(t *testing.T) {
		b := ExponentialBackoff(100*time.Millisecond, time.Second, 0)

		assert.Equal(t, b(1), b(0))
		assert.Equal(t, b(1), b(-5))
	})
}

func TestRandomFloat64Range(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := randomFloat64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
