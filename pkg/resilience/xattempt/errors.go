package xattempt

import "errors"

var (
	// ErrNilHandle 表示句柄参数为 nil。
	ErrNilHandle = errors.New("xattempt: handle cannot be nil")

	// ErrInvalidState 表示状态值未定义。
	ErrInvalidState = errors.New("xattempt: invalid state")

	// ErrClosed 表示 Box 已关闭。
	ErrClosed = errors.New("xattempt: box is closed")
)
