package xflight

import (
	"errors"

	retry "github.com/avast/retry-go/v5"
)

var (
	// ErrNilDriver 表示 driver 参数为 nil。
	ErrNilDriver = errors.New("xflight: driver cannot be nil")

	// ErrNilContext 表示 context 参数为 nil。
	ErrNilContext = errors.New("xflight: nil context")

	// ErrNilOperation 表示 operation 参数为 nil。
	ErrNilOperation = errors.New("xflight: operation cannot be nil")

	// ErrNilAttempt 表示 Operation.Launch 返回了 nil 尝试。
	ErrNilAttempt = errors.New("xflight: operation launched a nil attempt")

	// ErrFlightCanceled 表示操作已被取消。
	ErrFlightCanceled = errors.New("xflight: flight canceled")
)

// 以下别名透传 retry-go 的错误分类能力，
// 使调用方无需直接依赖第三方包。
var (
	// Unrecoverable 标记错误为不可重试。
	Unrecoverable = retry.Unrecoverable

	// IsRecoverable 报告错误是否可重试（未被 Unrecoverable 标记）。
	IsRecoverable = retry.IsRecoverable
)
