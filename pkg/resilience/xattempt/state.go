package xattempt

import "sync/atomic"

// State 表示被跟踪操作的生命周期状态。
type State int32

const (
	// StateRunning 一次尝试在途（请求已发出，响应未到达）。
	StateRunning State = iota
	// StateProcessing 响应已到达，最终处置尚未确定。
	StateProcessing
	// StateCanceled 已取消。终态，但 Completed 先发生时取消会失败。
	StateCanceled
	// StateCompleted 已完成。终态。
	StateCompleted
)

// String 返回状态的可读名称。
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateProcessing:
		return "processing"
	case StateCanceled:
		return "canceled"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// valid 报告 s 是否为已定义的状态值。
func (s State) valid() bool {
	return s >= StateRunning && s <= StateCompleted
}

// sourceOf 返回 target 唯一合法的前驱状态。
// Canceled 有两个合法前驱，不经过此函数（见 stateCell.cancel）。
func sourceOf(target State) State {
	switch target {
	case StateRunning:
		return StateProcessing
	case StateProcessing:
		return StateRunning
	default: // StateCompleted
		return StateProcessing
	}
}

// stateCell 持有生命周期状态并实现受保护的幂等迁移。
type stateCell struct {
	v atomic.Int32
}

func (c *stateCell) store(s State) {
	c.v.Store(int32(s))
}

func (c *stateCell) load() State {
	return State(c.v.Load())
}

// transition 尝试迁移到 target，返回 (是否成功, 实际观测到的先前状态)。
//
// Running/Processing/Completed 只有一个合法前驱，采用单次 CAS 尝试；
// CAS 失败后若观测到已处于目标状态，视为幂等成功。
// Canceled 可从 Running 或 Processing 两个前驱迁移，走 cancel 的 CAS 循环。
//
// 幂等性是不对称的：Canceled 是唯一有两个合法前驱的目标，在循环内
// 预判终态（已 Canceled 成功、已 Completed 失败）；其余目标仅靠
// CAS 后的 observed==target 获得幂等成功。
func (c *stateCell) transition(target State) (bool, State) {
	if target == StateCanceled {
		return c.cancel()
	}
	src := sourceOf(target)
	if c.v.CompareAndSwap(int32(src), int32(target)) {
		return true, src
	}
	cur := c.load()
	if cur == target {
		// 幂等：已处于目标状态
		return true, cur
	}
	return false, cur
}

// cancel 迁移到 Canceled。每次 CAS 失败后重读实际状态再决策：
// 已 Canceled 幂等成功；已 Completed 确定性失败（不能取消已完成的操作）；
// 否则以观测到的 Running/Processing 为前驱重试 CAS。lock-free。
func (c *stateCell) cancel() (bool, State) {
	for {
		cur := c.load()
		switch cur {
		case StateCanceled:
			return true, StateCanceled
		case StateCompleted:
			return false, StateCompleted
		}
		if c.v.CompareAndSwap(int32(cur), int32(StateCanceled)) {
			return true, cur
		}
	}
}
