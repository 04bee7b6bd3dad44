package conduit

import (
	"context"
	"sync/atomic"

	"github.com/uniyakcom/conduit/internal/support/ring"
	"github.com/uniyakcom/conduit/internal/support/sema"
)

// state 一对 handle 共享的内部状态 — 仅通过 NewSize 构造
//
// SAFETY：
//   - ring 的 head 及 head 号槽位仅由持有 Receiver 的线程触碰
//   - ring 的 tail 及 tail 号槽位仅由持有 Sender 的线程触碰
//   - readable/writable 是唯一的跨线程同步边
//
// 不变量：readable + writable == 容量（单次操作内部窗口除外）。
// 状态由 GC 在两端 handle 均不可达后回收，无显式销毁事件。
type state[T any] struct {
	ring *ring.Ring[T]

	// readable: 可消费槽位数（初始 0）；writable: 可写入槽位数（初始 = 容量）
	readable *sema.Count
	writable *sema.Count

	// 生命周期: 首次 close 胜出，cancel 唤醒阻塞中的 Send/Receive
	closed atomic.Bool
	ctx    context.Context
	cancel context.CancelFunc

	// 运行时统计（sent 仅生产者写，received 仅消费者写）
	sent     atomic.Uint64
	received atomic.Uint64
}

func newState[T any](capacity int) *state[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &state[T]{
		ring:     ring.New[T](uint64(capacity)),
		readable: sema.New(int64(capacity), 0),
		writable: sema.New(int64(capacity), int64(capacity)),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// close 单向 Open→Closed 迁移，幂等。不触碰计数器与缓冲内容。
func (s *state[T]) close() {
	if !s.closed.CompareAndSwap(false, true) {
		return // 已关闭
	}
	s.cancel()
}

func (s *state[T]) isOpen() bool {
	return !s.closed.Load()
}

// length 当前积压深度 = 已发送 - 已接收
func (s *state[T]) length() int {
	return int(s.sent.Load() - s.received.Load())
}
