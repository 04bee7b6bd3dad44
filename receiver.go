package conduit

// Receiver channel 的消费端 handle。每个 channel 实例恰有一个，
// 仅可由单一线程使用（SPSC 硬性前置条件，不做运行时检查）。
type Receiver[T any] struct {
	s *state[T]
}

// IsOpen 读取共享 open 标志。任一端 Close 后两端均观察到 false。
func (rx *Receiver[T]) IsOpen() bool {
	return rx.s.isOpen()
}

// Close 挂断 channel，幂等。对端后续 TrySend 一律失败，
// 阻塞在 Send/Receive 中的线程被唤醒并返回 false。
func (rx *Receiver[T]) Close() {
	rx.s.close()
}

// TryReceive 非阻塞接收。channel 已关闭或当前无元素时返回 (zero, false)，
// 否则取走 head 槽位元素并归还一个 writable 许可。
func (rx *Receiver[T]) TryReceive() (T, bool) {
	s := rx.s
	if s.closed.Load() || !s.readable.TryAcquire() {
		var zero T
		return zero, false
	}
	v := s.ring.Pop()
	s.received.Add(1)
	s.writable.Release()
	return v, true
}

// Receive 阻塞接收。有元素可取时不检查 open 标志（已入队数据在
// 关闭后仍可经此路径取出）；空 channel 上等待期间对端挂断则被
// 唤醒并返回 (zero, false)。
func (rx *Receiver[T]) Receive() (T, bool) {
	s := rx.s
	if !s.readable.TryAcquire() {
		if err := s.readable.Acquire(s.ctx); err != nil {
			// 取消与 release 竞态：Weighted 取消优先，恰在 release 之后
			// 到达的取消会把许可退回池中。关闭前已入队的值仍在，
			// 必须再探测一次，空手返回即丢值。
			if !s.readable.TryAcquire() {
				var zero T
				return zero, false
			}
		}
	}
	v := s.ring.Pop()
	s.received.Add(1)
	s.writable.Release()
	return v, true
}

// Len 当前积压元素数
func (rx *Receiver[T]) Len() int { return rx.s.length() }

// Cap 固定容量
func (rx *Receiver[T]) Cap() int { return int(rx.s.ring.Cap()) }
