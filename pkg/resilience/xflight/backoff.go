package xflight

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"time"
)

// Backoff 计算第 attempt 次重试前的延迟（attempt 从 1 开始）。
type Backoff func(attempt int) time.Duration

// NoBackoff 无延迟退避。
func NoBackoff() Backoff {
	return func(int) time.Duration { return 0 }
}

// FixedBackoff 固定延迟退避。负数延迟按 0 处理。
func FixedBackoff(d time.Duration) Backoff {
	if d < 0 {
		d = 0
	}
	return func(int) time.Duration { return d }
}

// ExponentialBackoff 指数退避（带抖动）：
//
//	delay = min(initial * 2^(attempt-1) * (1 + rand(-1,1)*jitter), maxDelay)
//
// initial <= 0 取 100ms；maxDelay < initial 取 initial；
// jitter 截断到 [0, 1]。抖动使用 crypto/rand，保证安全随机性；
// 如需确定性行为，传 jitter = 0。
func ExponentialBackoff(initial, maxDelay time.Duration, jitter float64) Backoff {
	if initial <= 0 {
		initial = 100 * time.Millisecond
	}
	if maxDelay < initial {
		maxDelay = initial
	}
	if jitter < 0 {
		jitter = 0
	} else if jitter > 1 {
		jitter = 1
	}
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		delay := float64(initial) * math.Pow(2, float64(attempt-1))
		if jitter > 0 {
			delay *= 1 + (randomFloat64()*2-1)*jitter
		}
		// attempt 极大时 math.Pow 溢出为 +Inf，与 0 相乘可产生 NaN；
		// NaN 的所有比较均为 false，会绕过上限检查，显式归并到 maxDelay
		if math.IsNaN(delay) || delay < 0 || delay >= float64(maxDelay) {
			return maxDelay
		}
		return time.Duration(delay)
	}
}

func defaultBackoff() Backoff {
	return ExponentialBackoff(100*time.Millisecond, 30*time.Second, 0.1)
}

const (
	floatBits  = 53
	floatScale = 1.0 / (1 << floatBits)
)

// randomFloat64 返回 [0, 1) 上均匀分布的随机数。
func randomFloat64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand 失败时返回 0，即无抖动（安全默认值）
		return 0
	}
	return float64(binary.LittleEndian.Uint64(buf[:])>>11) * floatScale
}
