package xflight

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeUintToInt(t *testing.T) {
	assert.Equal(t, 0, safeUintToInt(0))
	assert.Equal(t, 7, safeUintToInt(7))
	assert.Equal(t, math.MaxInt, safeUintToInt(uint(math.MaxInt)))
	assert.Equal(t, math.MaxInt, safeUintToInt(math.MaxUint))
}

func TestNewDriverDefaults(t *testing.T) {
	d := NewDriver()

	assert.Equal(t, 3, d.maxAttempts)
	assert.NotNil(t, d.backoff)
	assert.Nil(t, d.onRetry)
	assert.Nil(t, d.logger)
}

func TestDriverOptions(t *testing.T) {
	t.Run("NilOptionSkipped", func(t *testing.T) {
		d := NewDriver(nil, WithMaxAttempts(9))
		assert.Equal(t, 9, d.maxAttempts)
	})

	t.Run("NilBackoffIgnored", func(t *testing.T) {
		d := NewDriver(WithBackoff(nil))
		assert.NotNil(t, d.backoff)
	})

	t.Run("NilOnRetryIgnored", func(t *testing.T) {
		d := NewDriver(WithOnRetry(nil))
		assert.Nil(t, d.onRetry)
	})

	t.Run("NilLoggerIgnored", func(t *testing.T) {
		d := NewDriver(WithLogger(nil))
		assert.Nil(t, d.logger)
	})
}

// TestZeroValueDriverUsable 零值 Driver 不 panic：
// maxAttempts 0 表示无限重试，backoff 回落到默认指数退避。
func TestZeroValueDriverUsable(t *testing.T) {
	var d Driver
	opts := d.retryOptions(context.Background(), "zero")
	assert.NotEmpty(t, opts)
}

func TestDriverOnRetryNumbering(t *testing.T) {
	// 回调在执行 goroutine 中调用，Run 返回前已全部完成（经 done 同步）
	var got []int

	op := &fakeOp{script: func(n int) *fakeAttempt {
		if n < 3 {
			return newFakeAttempt(0, errors.New("transient"), false)
		}
		return newFakeAttempt(1, nil, false)
	}}
	d := noDelayDriver(
		WithOnRetry(func(attempt int, err error) {
			got = append(got, attempt)
		}),
		WithLogger(slog.Default()),
	)

	_, err := Run[int](context.Background(), d, op)
	require.NoError(t, err)

	// 回调序号是刚失败的尝试，从 1 开始
	assert.Equal(t, []int{1, 2}, got)
}

func TestDriverUnlimitedAttempts(t *testing.T) {
	op := &fakeOp{script: func(n int) *fakeAttempt {
		if n < 12 {
			return newFakeAttempt(0, errors.New("transient"), false)
		}
		return newFakeAttempt(1, nil, false)
	}}
	d := NewDriver(WithMaxAttempts(0), WithBackoff(NoBackoff()))

	res, err := Run[int](context.Background(), d, op)
	require.NoError(t, err)
	assert.Equal(t, 1, res)
	assert.Len(t, op.launched(), 12)
}
