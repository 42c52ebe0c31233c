package xflight

import (
	"context"
	"io"

	retry "github.com/avast/retry-go/v5"
	"github.com/google/uuid"

	"github.com/omeyang/xflight/pkg/resilience/xattempt"
)

// Attempt 表示操作的一次在途尝试。
// 引用所有权遵循 xattempt 的约定：句柄交给 Flight 后由其负责释放。
type Attempt[T any] interface {
	xattempt.Handle

	// Abort 中止本次尝试的底层 I/O，应使阻塞中的 Wait 尽快返回。
	// 可能被并发调用多次，实现必须幂等。
	Abort()

	// Wait 阻塞直到响应到达（或被 Abort / ctx 取消打断）。
	Wait(ctx context.Context) (T, error)
}

// Operation 表示一个可重试的异步操作。
type Operation[T any] interface {
	// Launch 发起一次新的尝试并返回其在途句柄。
	// 返回的句柄所有权转移给调用方。
	Launch(ctx context.Context) (Attempt[T], error)
}

// Flight 一次被跟踪的操作执行。
//
// Cancel 与 State 可从任意线程在任意时刻调用；
// Wait 可被多个线程并发调用；Close 必须在执行结束后调用
// （Close 内部会等待执行 goroutine 退出）。
type Flight[T any] struct {
	id   string
	box  *xattempt.Box
	done chan struct{}

	// 仅由 run goroutine 在 close(done) 之前写入
	result T
	err    error
}

var _ io.Closer = (*Flight[int])(nil)

// Launch 发起首次尝试并启动重试循环。
//
// 首次尝试的句柄直接成为 Box 的初始句柄（状态 Running）；
// 后续每次重试先安装新句柄再迁回 Running。boxOpts 透传给
// [xattempt.New]，可用于启用日志与指标。
func Launch[T any](ctx context.Context, d *Driver, op Operation[T], boxOpts ...xattempt.Option) (*Flight[T], error) {
	if d == nil {
		return nil, ErrNilDriver
	}
	if ctx == nil {
		return nil, ErrNilContext
	}
	if op == nil {
		return nil, ErrNilOperation
	}

	first, err := op.Launch(ctx)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, ErrNilAttempt
	}

	box, err := xattempt.New(xattempt.StateRunning, first, boxOpts...)
	if err != nil {
		first.Release()
		return nil, err
	}

	f := &Flight[T]{
		id:   uuid.NewString(),
		box:  box,
		done: make(chan struct{}),
	}
	go f.run(ctx, d, op, first)
	return f, nil
}

// Run 发起操作并阻塞等待最终结果，结束后释放全部句柄引用。
// 需要中途取消或观察状态时改用 [Launch]。
func Run[T any](ctx context.Context, d *Driver, op Operation[T]) (T, error) {
	f, err := Launch(ctx, d, op)
	if err != nil {
		var zero T
		return zero, err
	}
	defer func() { _ = f.Close() }()
	return f.Wait(ctx)
}

// run 执行重试循环。每轮与 Box 的交互遵循固定协议：
// 重试 ⇒ SetHandle + TransitionTo(Running)；响应 ⇒ TransitionTo(Processing)；
// 成功 ⇒ TransitionTo(Completed)。任何迁移被取消抢占（prior 为 Canceled）
// 都以 ErrFlightCanceled 不可恢复地终止循环。
func (f *Flight[T]) run(ctx context.Context, d *Driver, op Operation[T], first Attempt[T]) {
	defer close(f.done)

	cur := first
	relaunch := false // 首次尝试已由 Launch 发起

	res, err := retry.NewWithData[T](d.retryOptions(ctx, f.id)...).Do(func() (T, error) {
		var zero T

		if relaunch {
			a, err := op.Launch(ctx)
			if err != nil {
				return zero, err
			}
			if a == nil {
				return zero, retry.Unrecoverable(ErrNilAttempt)
			}
			// 先安装新句柄再迁移状态：即使随后发现已取消，
			// 句柄也已在 Box 的所有权之下，Close 时统一释放
			if err := f.box.SetHandle(a); err != nil {
				a.Release()
				return zero, retry.Unrecoverable(err)
			}
			cur = a
			if ok, _ := f.box.TransitionTo(xattempt.StateRunning); !ok {
				// 从 Processing 迁回 Running 只会被取消抢占
				a.Abort()
				return zero, retry.Unrecoverable(ErrFlightCanceled)
			}
		}
		relaunch = true

		resp, waitErr := cur.Wait(ctx)

		if ok, prior := f.box.TransitionTo(xattempt.StateProcessing); !ok && prior == xattempt.StateCanceled {
			return zero, retry.Unrecoverable(ErrFlightCanceled)
		}
		if waitErr != nil {
			// 可重试错误交还 retry-go，下一轮从 Processing 迁回 Running
			return zero, waitErr
		}
		if ok, _ := f.box.TransitionTo(xattempt.StateCompleted); !ok {
			// Processing → Completed 同样只会被取消抢占
			return zero, retry.Unrecoverable(ErrFlightCanceled)
		}
		return resp, nil
	})

	f.result, f.err = res, err
}

// ID 返回本次执行的唯一标识。
func (f *Flight[T]) ID() string {
	return f.id
}

// State 返回当前生命周期状态。wait-free。
func (f *Flight[T]) State() xattempt.State {
	return f.box.State()
}

// Done 返回执行结束时关闭的 channel。
func (f *Flight[T]) Done() <-chan struct{} {
	return f.done
}

// Cancel 请求取消操作，可从任意线程在任意时刻调用。
//
// 返回取消是否生效（含幂等成功）。操作已 Completed 时返回 false
// 且无任何副作用——失败迁移报告的 prior 状态即是判据。
// 首个生效的取消者负责中止当前在途尝试的 I/O。
func (f *Flight[T]) Cancel() bool {
	ok, prior := f.box.TransitionTo(xattempt.StateCanceled)
	if !ok {
		// prior 为 Completed：结果已产生，取消不再适用
		return false
	}
	if prior != xattempt.StateCanceled {
		if a, hasAbort := f.box.Handle().(interface{ Abort() }); hasAbort {
			a.Abort()
		}
	}
	return true
}

// Wait 阻塞直到执行结束或 ctx 取消，返回最终结果。
func (f *Flight[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	if ctx == nil {
		return zero, ErrNilContext
	}
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close 等待执行 goroutine 退出后关闭底层 Box，
// 释放全部句柄引用（当前句柄一次、每个退役句柄一次）。
// 幂等性与 [xattempt.Box.Close] 一致。
func (f *Flight[T]) Close() error {
	<-f.done
	return f.box.Close()
}
