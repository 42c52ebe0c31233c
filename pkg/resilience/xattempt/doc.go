// Package xattempt 提供跟踪单个可重试异步操作生命周期的无锁并发原语。
//
// # 核心概念
//
// 一次可重试操作由若干"尝试"组成：每次尝试对应一个在途的资源句柄
// （[Handle]，例如一个活跃的网络任务）。[Box] 聚合了三个无锁组件：
//
//   - 状态机：Running → Processing → Completed 的受保护幂等迁移，
//     以及可从 Running/Processing 两个前驱原子迁移的 Canceled
//   - 句柄槽：当前句柄的 wait-free 读取与 lock-free 原子替换
//   - 退役链表：被替换下来的句柄只追加、不释放，直到 Close
//
// # 并发模型
//
// 全程无锁（不含自旋锁）：
//
//   - [Box.State] 和 [Box.Handle] 是 wait-free 的（单次原子读取）
//   - [Box.SetHandle] 和 Canceled 迁移是 lock-free 的（CAS 循环）
//   - 其余迁移为单次 CAS 尝试
//
// 任意数量的线程可并发读取/替换句柄和迁移状态，调用方无需任何外部加锁。
// 读取方拿到的句柄在 Box 存活期间始终有效：被替换的句柄进入退役链表而非
// 立即释放，结构性地消除了 use-after-free（无需 hazard pointer）。
//
// # 句柄所有权
//
// 每个通过 [New] 或 [Box.SetHandle] 安装的句柄，其引用所有权转移给 Box。
// Box 对每个安装过的句柄恰好调用一次 Release——全部发生在 [Box.Close]，
// 正常运行期间永不释放。
//
// # 关闭约定
//
// [Box.Close] 是退役链表唯一的消费者，不得与其他操作并发执行。
// 这由 Box 自身的共享所有权生命周期保证（所有使用方退出后才关闭），
// 而非由本原语内部强制。Close 幂等：首次返回 nil，后续返回 [ErrClosed]。
//
// # 错误处理
//
// 状态迁移不返回 error：全部失败语义通过 [Box.TransitionTo] 的
// (ok, prior) 二元组表达，prior 永远是失败瞬间实际观测到的状态，
// 调用方据此决定副作用是否仍然适用（如 prior 为 Completed 时不再执行
// 取消清理）。构造与关闭遵循项目惯例返回哨兵错误。
//
// # 可观测性
//
// 通过 [WithMeterProvider] 注入 OpenTelemetry MeterProvider 可启用
// 迁移/替换/释放计数指标；通过 [WithLogger] 注入 slog.Logger 可在
// 被拒绝的迁移与 Close 时输出 Debug 日志。两者默认关闭，
// 且永不触达 wait-free 读取路径。
package xattempt
