// Package conduit 提供有界 SPSC channel — 单生产者/单消费者同步原语
//
// 恰好两个线程通过一对 handle 交换 T 类型值流，热路径不依赖
// 通用互斥锁，正确性建立在三条约束之上：
//   - head 仅由消费者线程修改，tail 仅由生产者线程修改
//   - readable/writable 计数信号量是唯一的跨线程同步边
//   - handle 对只能经由本包工厂构造（单收单发由构造路径保证）
//
// 性能路径拆分:
//
//	Producer: TrySend → writable.TryAcquire → ring.Push → readable.Release
//	Consumer: TryReceive → readable.TryAcquire → ring.Pop → writable.Release
//
// 任一端 Close 或 handle 弃用即挂断（hang-up），对端可观察；
// 共享状态由 GC 在两端 handle 均不可达后回收。
package conduit

// DefaultSize 默认容量
const DefaultSize = 256

// ═══════════════════════════════════════════════════════════════════
// 第零层：New() 零配置入口
// ═══════════════════════════════════════════════════════════════════

// New 创建默认容量（256）的 channel，返回绑定同一共享状态的
// (Receiver, Sender) 对 — 本包唯一合法构造路径。
//
// 用法:
//
//	rx, tx := conduit.New[int]()
//	defer tx.Close()
//	tx.Send(42)
//	v, ok := rx.Receive()
func New[T any]() (*Receiver[T], *Sender[T]) {
	return NewSize[T](DefaultSize)
}

// ═══════════════════════════════════════════════════════════════════
// 第一层：NewSize() 显式容量
// ═══════════════════════════════════════════════════════════════════

// NewSize 创建指定容量的 channel。capacity >= 1 为前置条件，
// 否则 panic（契约违规，非运行时错误）。容量构造后不可变。
func NewSize[T any](capacity int) (*Receiver[T], *Sender[T]) {
	if capacity < 1 {
		panic("conduit: capacity must be >= 1")
	}
	s := newState[T](capacity)
	return &Receiver[T]{s: s}, &Sender[T]{s: s}
}
