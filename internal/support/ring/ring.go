// Package ring 提供固定容量环形存储 — SPSC channel 的槽位数组
//
// 与常见无锁 ring 不同，本结构不做满/空检测：
// 占用率由上层的 readable/writable 计数信号量唯一管控，
// Push/Pop 在取得对应许可后无条件执行。
//
// SAFETY（上层必须保证）：
//   - head 与 head 号槽位仅由消费者线程访问
//   - tail 与 tail 号槽位仅由生产者线程访问
//   - 跨线程可见性由信号量的 release→acquire 边建立（happens-before）
package ring

const _cacheLine = 64

// Ring 固定容量环形数组
//
// 缓存行布局：head（消费者独占）与 tail（生产者独占）分属不同
// cache line，避免 false sharing。
type Ring[T any] struct {
	// Consumer 侧
	head uint64
	_    [_cacheLine - 8]byte

	// Producer 侧
	tail uint64
	_    [_cacheLine - 8]byte

	// 只读（初始化后不变）
	buf  []T
	size uint64
}

// New 创建容量为 capacity 的 ring。capacity 为用户可见上界，
// 不向上取整到 2 的幂。capacity == 0 为契约违规，直接 panic。
func New[T any](capacity uint64) *Ring[T] {
	if capacity == 0 {
		panic("ring: capacity must be >= 1")
	}
	return &Ring[T]{
		buf:  make([]T, capacity),
		size: capacity,
	}
}

// Cap 返回固定容量
func (r *Ring[T]) Cap() uint64 { return r.size }

// Push 生产者写入 tail 槽位并推进 tail — 仅生产者线程调用，
// 且必须先取得一个 writable 许可
func (r *Ring[T]) Push(v T) {
	r.buf[r.tail] = v
	r.tail++
	if r.tail == r.size {
		r.tail = 0
	}
}

// Pop 消费者取出 head 槽位并推进 head — 仅消费者线程调用，
// 且必须先取得一个 readable 许可
func (r *Ring[T]) Pop() T {
	var zero T
	v := r.buf[r.head]
	r.buf[r.head] = zero // help GC
	r.head++
	if r.head == r.size {
		r.head = 0
	}
	return v
}
