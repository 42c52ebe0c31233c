package xflight

import (
	"context"
	"log/slog"
	"math"
	"time"

	retry "github.com/avast/retry-go/v5"
)

// safeUintToInt 将 uint 安全转换为 int，超过 MaxInt 的值截断到 MaxInt。
// 用于将 retry-go 的尝试计数 (uint) 传递给用户回调 (int)。
func safeUintToInt(n uint) int {
	if n > uint(math.MaxInt) {
		return math.MaxInt
	}
	return int(n)
}

// Driver 重试编排器。组合最大尝试次数与退避策略，
// 驱动 [Flight] 的重试循环。可被任意数量的 Flight 并发复用（无可变状态）。
type Driver struct {
	maxAttempts int
	backoff     Backoff
	onRetry     func(attempt int, err error)
	logger      *slog.Logger
}

// DriverOption 编排器配置选项
type DriverOption func(*Driver)

// WithMaxAttempts 设置最大尝试次数（包含首次尝试）。
// n <= 0 表示无限重试。
func WithMaxAttempts(n int) DriverOption {
	return func(d *Driver) {
		d.maxAttempts = n
	}
}

// WithBackoff 设置退避策略。nil 被静默忽略。
func WithBackoff(b Backoff) DriverOption {
	return func(d *Driver) {
		if b != nil {
			d.backoff = b
		}
	}
}

// WithOnRetry 设置重试回调（attempt 为刚失败的尝试序号，从 1 开始）。
// nil 被静默忽略。
func WithOnRetry(f func(attempt int, err error)) DriverOption {
	return func(d *Driver) {
		if f != nil {
			d.onRetry = f
		}
	}
}

// WithLogger 设置日志记录器，在每次重试时输出 Debug 日志。
// nil 被静默忽略（不输出日志）。
func WithLogger(l *slog.Logger) DriverOption {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDriver 创建重试编排器。
// 默认最多 3 次尝试、指数退避（100ms 起、30s 封顶、10% 抖动）。
func NewDriver(opts ...DriverOption) *Driver {
	d := &Driver{
		maxAttempts: 3,
		backoff:     defaultBackoff(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// retryOptions 构建 retry-go 的选项。
// 每个 Flight 调用一次，选项切片不跨 Flight 共享。
func (d *Driver) retryOptions(ctx context.Context, id string) []retry.Option {
	opts := make([]retry.Option, 0, 6)

	opts = append(opts, retry.Context(ctx))

	// maxAttempts <= 0 视为无限重试
	if d.maxAttempts <= 0 {
		opts = append(opts, retry.UntilSucceeded())
	} else {
		opts = append(opts, retry.Attempts(uint(d.maxAttempts)))
	}

	backoff := d.backoff
	if backoff == nil {
		// 防止零值 Driver 使用时 panic
		backoff = defaultBackoff()
	}
	opts = append(opts, retry.DelayType(func(n uint, _ error, _ retry.DelayContext) time.Duration {
		// retry-go v5 中 DelayType 的 n 从 1 开始，与 Backoff 的 attempt 一致
		return backoff(safeUintToInt(n))
	}))

	opts = append(opts, retry.RetryIf(func(err error) bool {
		return retry.IsRecoverable(err)
	}))

	if d.onRetry != nil || d.logger != nil {
		opts = append(opts, retry.OnRetry(func(n uint, err error) {
			// retry-go v5 中 OnRetry 的 n 从 0 开始，+1 转换为 1-based
			attempt := safeUintToInt(n) + 1
			if d.logger != nil {
				d.logger.Debug("xflight: attempt failed, retrying",
					slog.String("flight", id),
					slog.Int("attempt", attempt),
					slog.Any("error", err),
				)
			}
			if d.onRetry != nil {
				d.onRetry(attempt, err)
			}
		}))
	}

	// 只返回最后一个错误，简化调用方的错误处理
	opts = append(opts, retry.LastErrorOnly(true))

	return opts
}
