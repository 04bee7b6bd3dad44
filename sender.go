package conduit

// Sender channel 的生产端 handle — Receiver 的镜像。
// 每个 channel 实例恰有一个，仅可由单一线程使用。
type Sender[T any] struct {
	s *state[T]
}

// IsOpen 读取共享 open 标志
func (tx *Sender[T]) IsOpen() bool {
	return tx.s.isOpen()
}

// Close 挂断 channel，幂等。与 Receiver.Close 操作同一共享标志。
func (tx *Sender[T]) Close() {
	tx.s.close()
}

// TrySend 非阻塞发送。channel 已关闭或无空闲槽位时返回 false
//（值未入队），否则写入 tail 槽位并归还一个 readable 许可。
func (tx *Sender[T]) TrySend(v T) bool {
	s := tx.s
	if s.closed.Load() || !s.writable.TryAcquire() {
		return false
	}
	s.ring.Push(v)
	s.sent.Add(1)
	s.readable.Release()
	return true
}

// Send 阻塞发送。有空闲槽位时不检查 open 标志；满 channel 上
// 等待期间对端挂断则被唤醒并返回 false（值未入队）。
func (tx *Sender[T]) Send(v T) bool {
	s := tx.s
	if !s.writable.TryAcquire() {
		if err := s.writable.Acquire(s.ctx); err != nil {
			return false
		}
	}
	s.ring.Push(v)
	s.sent.Add(1)
	s.readable.Release()
	return true
}

// Len 当前积压元素数
func (tx *Sender[T]) Len() int { return tx.s.length() }

// Cap 固定容量
func (tx *Sender[T]) Cap() int { return int(tx.s.ring.Cap()) }
