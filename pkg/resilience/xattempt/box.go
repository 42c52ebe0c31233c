package xattempt

import (
	"io"
	"log/slog"
	"sync/atomic"
)

// Handle 表示被跟踪操作的一次在途尝试所对应的资源句柄。
// 对实现不透明：xattempt 只在 [Box.Close] 时对每个安装过的句柄
// 恰好调用一次 Release，其余时间仅传递引用，从不触碰内部状态。
type Handle interface {
	// Release 释放本引用。由 Box 在 Close 时调用，且恰好一次。
	Release()
}

// node 持有一个句柄引用。同一分配先作为当前槽的单元，被替换后
// 链入退役链表复用为链表节点；一旦发布到链表即不可变。
type node struct {
	h    Handle
	next *node
}

// Box 聚合单个可重试操作的无锁生命周期跟踪：
// 状态机 + 当前句柄槽 + 退役链表。零值不可用，必须通过 [New] 构造。
//
// 所有操作（[Box.Close] 除外）可被任意数量的线程并发调用，无需外部加锁。
type Box struct {
	state   stateCell
	current atomic.Pointer[node]
	retired atomic.Pointer[node]
	closed  atomic.Bool

	name    string
	logger  *slog.Logger
	metrics *Metrics
}

// 确保实现关闭契约
var _ io.Closer = (*Box)(nil)

// New 创建 Box，接管 h 的引用所有权。
// h 为 nil 返回 [ErrNilHandle]；initial 未定义返回 [ErrInvalidState]。
// 构造不产生退役节点：h 直接成为当前句柄。
func New(initial State, h Handle, opts ...Option) (*Box, error) {
	if h == nil {
		return nil, ErrNilHandle
	}
	if !initial.valid() {
		return nil, ErrInvalidState
	}

	o := defaultOptions()
	for _, opt := range opts {
		// 与项目其他包一致：静默跳过 nil Option
		if opt == nil {
			continue
		}
		opt(o)
	}

	m, err := NewMetrics(o.meterProvider)
	if err != nil {
		return nil, err
	}

	b := &Box{
		name:    o.name,
		logger:  o.logger,
		metrics: m,
	}
	b.state.store(initial)
	b.current.Store(&node{h: h})
	return b, nil
}

// State 返回当前生命周期状态。wait-free（单次原子读取）。
func (b *Box) State() State {
	return b.state.load()
}

// Handle 返回当前句柄（借用，所有权不转移）。wait-free。
//
// 返回的句柄在 Box 关闭前始终可用——即使并发的 [Box.SetHandle] 已将其
// 替换下来，它也只是进入退役链表而不会被释放。Close 之后返回 nil。
func (b *Box) Handle() Handle {
	n := b.current.Load()
	if n == nil {
		return nil
	}
	return n.h
}

// SetHandle 原子替换当前句柄，接管 h 的引用所有权。
// 被替换下来的引用立即进入退役链表：交换与入链构成一次逻辑替换，
// 任何引用要么仍是当前句柄、要么在退役链表中，绝不会两者皆是或皆否。
// h 为 nil 返回 [ErrNilHandle]，槽保持不变。lock-free。
func (b *Box) SetHandle(h Handle) error {
	if h == nil {
		return ErrNilHandle
	}
	old := b.current.Swap(&node{h: h})
	b.retire(old)
	b.metrics.recordSwap(b.name)
	return nil
}

// retire 将 n 推入退役链表头。CAS 循环，失败时重读链表头重试。
// sync/atomic 的顺序一致语义保证 Close 的链表读取能观测到
// 此前所有线程的 push（所需的 release/acquire 配对由此覆盖）。
func (b *Box) retire(n *node) {
	for {
		head := b.retired.Load()
		n.next = head
		if b.retired.CompareAndSwap(head, n) {
			return
		}
	}
}

// TransitionTo 尝试把状态迁移到 target。
//
// 返回 (ok, prior)：ok 为迁移是否生效（含幂等成功），prior 永远是
// 调用瞬间实际观测到的状态——失败时调用方据此决定副作用是否仍然适用
// （如 prior 为 [StateCompleted] 时不再执行取消清理）。
//
// 迁移表：
//
//	Running    ← Processing（已 Running 幂等成功）
//	Processing ← Running（已 Processing 幂等成功）
//	Completed  ← Processing（已 Completed 幂等成功）
//	Canceled   ← Running 或 Processing（已 Canceled 幂等成功；
//	             已 Completed 失败，prior 报告 Completed）
//
// target 未定义时返回 (false, 当前状态)。
func (b *Box) TransitionTo(target State) (bool, State) {
	if !target.valid() {
		return false, b.state.load()
	}
	ok, prior := b.state.transition(target)
	b.metrics.recordTransition(b.name, prior, target, ok)
	if !ok && b.logger != nil {
		b.logger.Debug("xattempt: transition rejected",
			slog.String("box", b.name),
			slog.String("target", target.String()),
			slog.String("prior", prior.String()),
		)
	}
	return ok, prior
}

// Close 释放 Box 持有的全部句柄引用：当前槽一次，退役链表每节点一次。
//
// Close 是退役链表唯一的消费者，不得与任何其他操作并发执行——
// 这由 Box 的共享所有权生命周期保证（所有使用方退出后才关闭）。
// 幂等：首次调用返回 nil，后续调用返回 [ErrClosed]。
func (b *Box) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	released := 0
	if n := b.current.Swap(nil); n != nil {
		n.h.Release()
		released++
	}
	// 唯一一次带 acquire 语义的链表头读取，此后顺序遍历无需同步
	for n := b.retired.Swap(nil); n != nil; n = n.next {
		n.h.Release()
		released++
	}

	b.metrics.recordReleased(b.name, released)
	if b.logger != nil {
		b.logger.Debug("xattempt: box closed",
			slog.String("box", b.name),
			slog.Int("released", released),
		)
	}
	return nil
}
