// Package sema 提供计数信号量 — SPSC channel 唯一的跨线程同步边
//
// 封装 golang.org/x/sync/semaphore.Weighted（单位权重），在阻塞
// Acquire 前增加两级自适应自旋：
//
//	Level 0: CPU spin（PAUSE 指令，不进入 Go 调度器）
//	Level 1: 协作让出（Gosched，释放 P）
//	Level 2: 真正 park（Weighted.Acquire，ctx 取消可唤醒）
//
// Weighted 内部互斥锁保证 Release→Acquire 构成 happens-before，
// 使生产者写入的槽位数据对取得许可的消费者可见（反向同理）。
package sema

import (
	"context"
	"runtime"
	_ "unsafe"

	"golang.org/x/sync/semaphore"
)

//go:linkname runtime_procyield runtime.procyield
func runtime_procyield(cycles uint32)

// 自旋预算：Level 0 覆盖对端正在进行中的单次操作窗口（亚微秒级），
// Level 1 为低核环境让出执行权
const (
	spinBudget  = 128
	yieldBudget = 32
)

// Count 计数信号量。非负计数，Acquire 计数为零时阻塞，
// Release 递增并唤醒等待者。
type Count struct {
	sem *semaphore.Weighted
}

// New 创建信号量。size 为计数上界，initial 为初始计数（0 <= initial <= size）。
// readable 信号量以 initial=0 创建，writable 以 initial=size 创建。
func New(size, initial int64) *Count {
	w := semaphore.NewWeighted(size)
	if initial < size {
		// 预占 size-initial 个许可使当前计数降至 initial（此刻必然不阻塞）
		_ = w.Acquire(context.Background(), size-initial)
	}
	return &Count{sem: w}
}

// TryAcquire 非阻塞获取一个许可
func (c *Count) TryAcquire() bool {
	return c.sem.TryAcquire(1)
}

// Acquire 阻塞获取一个许可。ctx 取消时返回 ctx.Err()（许可未获取）。
// 两级自旋后才 park，覆盖常态下对端亚微秒级的 release 间隔。
func (c *Count) Acquire(ctx context.Context) error {
	// Level 0: PAUSE 自旋，规避调度器开销
	for i := 0; i < spinBudget; i++ {
		if c.sem.TryAcquire(1) {
			return nil
		}
		runtime_procyield(10)
	}
	// Level 1: 协作让出
	for i := 0; i < yieldBudget; i++ {
		if c.sem.TryAcquire(1) {
			return nil
		}
		runtime.Gosched()
	}
	// Level 2: park（ctx 取消可唤醒）
	return c.sem.Acquire(ctx, 1)
}

// Release 归还一个许可并唤醒等待者。
// 调用方必须持有此前成对 Acquire 得到的另一侧许可，否则计数越界 panic。
func (c *Count) Release() {
	c.sem.Release(1)
}
