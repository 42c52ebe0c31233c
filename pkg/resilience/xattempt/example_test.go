package xattempt_test

import (
	"fmt"

	"github.com/omeyang/xflight/pkg/resilience/xattempt"
)

// requestTask 模拟一次在途网络请求的资源句柄。
type requestTask struct {
	name string
}

func (t *requestTask) Release() {
	fmt.Println("released", t.name)
}

func Example() {
	// 首次尝试：状态 Running，句柄 attempt-0
	box, err := xattempt.New(xattempt.StateRunning, &requestTask{name: "attempt-0"})
	if err != nil {
		panic(err)
	}

	// 重试：替换当前句柄，旧句柄退役（但仍保持存活）
	_ = box.SetHandle(&requestTask{name: "attempt-1"})

	// 响应到达 → 最终处置 → 迟到的取消被拒绝
	ok, prior := box.TransitionTo(xattempt.StateProcessing)
	fmt.Println(ok, prior)
	ok, prior = box.TransitionTo(xattempt.StateCompleted)
	fmt.Println(ok, prior)
	ok, prior = box.TransitionTo(xattempt.StateCanceled)
	fmt.Println(ok, prior)

	// 关闭时每个安装过的句柄恰好释放一次
	_ = box.Close()

	// Output:
	// true running
	// true processing
	// false completed
	// released attempt-1
	// released attempt-0
}
