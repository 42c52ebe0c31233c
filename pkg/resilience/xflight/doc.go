// Package xflight 在 xattempt 原语之上实现可重试异步操作的编排。
//
// # 职责划分
//
// xattempt 提供无锁的生命周期底座（状态机 + 句柄槽 + 退役链表），
// xflight 负责其上的重试协议：
//
//   - 发起重试时：SetHandle(新尝试) + TransitionTo(Running)
//   - 响应到达时：TransitionTo(Processing)
//   - 最终处置时：TransitionTo(Completed)
//   - 任意线程可随时 [Flight.Cancel]：TransitionTo(Canceled)，
//     并依据失败迁移返回的 prior 决定是否仍需中止在途 I/O
//
// 底层使用 [avast/retry-go/v5] 实现重试循环与退避调度。
//
// # 使用方式
//
// 实现 [Operation]（如何发起一次尝试）与 [Attempt]（一次尝试的
// 在途句柄：等待响应、中止、释放），然后：
//
//	d := xflight.NewDriver(
//	    xflight.WithMaxAttempts(5),
//	    xflight.WithBackoff(xflight.ExponentialBackoff(100*time.Millisecond, 30*time.Second, 0.1)),
//	)
//	res, err := xflight.Run(ctx, d, op)
//
// 需要取消或观察在途状态时，使用 [Launch] 获得 [Flight]：
//
//	f, err := xflight.Launch(ctx, d, op)
//	...
//	f.Cancel()                  // 任意线程、任意时刻
//	res, err := f.Wait(ctx)
//	_ = f.Close()               // 释放全部句柄引用
//
// # 错误分类
//
//   - 普通错误默认重试（直到尝试次数耗尽）
//   - [Unrecoverable] 包装的错误立即终止重试
//   - 取消以 [ErrFlightCanceled] 终止，永不重试
//
// [avast/retry-go/v5]: https://github.com/avast/retry-go
package xflight
