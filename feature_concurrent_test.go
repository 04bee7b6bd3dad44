package conduit

import (
	"runtime"
	"testing"

	"golang.org/x/sync/errgroup"
)

// TestConcurrentFIFO 双线程阻塞收发：0..N-1 按序无丢失无重复
func TestConcurrentFIFO(t *testing.T) {
	const sampleSize = 1000
	rx, tx := New[int]()

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < sampleSize; i++ {
			v, ok := rx.Receive()
			if !ok {
				t.Errorf("Receive #%d failed", i)
				return nil
			}
			if v != i {
				t.Errorf("expected %d, got %d", i, v)
				return nil
			}
		}
		return nil
	})
	g.Go(func() error {
		for i := 0; i < sampleSize; i++ {
			if !tx.Send(i) {
				t.Errorf("Send(%d) failed", i)
				return nil
			}
		}
		return nil
	})
	_ = g.Wait()
}

// TestConcurrentCapacityOne 容量 1 下双线程逐个交接仍保序
func TestConcurrentCapacityOne(t *testing.T) {
	const sampleSize = 1000
	rx, tx := NewSize[int](1)

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < sampleSize; i++ {
			v, ok := rx.Receive()
			if !ok || v != i {
				t.Errorf("Receive = (%d, %v), expected (%d, true)", v, ok, i)
				return nil
			}
		}
		return nil
	})
	g.Go(func() error {
		for i := 0; i < sampleSize; i++ {
			tx.Send(i)
		}
		return nil
	})
	_ = g.Wait()
}

// TestConcurrentTryVariants 非阻塞收发 + 忙等重试，验证 FIFO 与计数
func TestConcurrentTryVariants(t *testing.T) {
	const sampleSize = 5000
	rx, tx := NewSize[int](64)

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < sampleSize; {
			v, ok := rx.TryReceive()
			if !ok {
				runtime.Gosched()
				continue
			}
			if v != i {
				t.Errorf("expected %d, got %d", i, v)
				return nil
			}
			i++
		}
		return nil
	})
	g.Go(func() error {
		for i := 0; i < sampleSize; {
			if !tx.TrySend(i) {
				runtime.Gosched()
				continue
			}
			i++
		}
		return nil
	})
	_ = g.Wait()

	if rx.Len() != 0 {
		t.Errorf("expected empty channel after run, backlog %d", rx.Len())
	}
}

// TestConcurrentCloseDuringReceive 生产者发完即挂断，消费者收完全部后被唤醒退出
func TestConcurrentCloseDuringReceive(t *testing.T) {
	const sampleSize = 500
	rx, tx := NewSize[int](16)

	var g errgroup.Group
	received := 0
	g.Go(func() error {
		for {
			v, ok := rx.Receive()
			if !ok {
				return nil // 对端挂断且积压已取完
			}
			if v != received {
				t.Errorf("expected %d, got %d", received, v)
				return nil
			}
			received++
		}
	})
	g.Go(func() error {
		for i := 0; i < sampleSize; i++ {
			tx.Send(i)
		}
		tx.Close()
		return nil
	})
	_ = g.Wait()

	if received != sampleSize {
		t.Errorf("received %d of %d values before hang-up", received, sampleSize)
	}
}
