// Package pump 提供 channel 消费端的 handler 泵
//
// 一个 Pump 独占一个 Receiver：单一 drain goroutine 阻塞接收
//（满足 SPSC 单消费者约束），每个取出的值提交到 ants goroutine
// 池中执行 handler。入队顺序 = 提交顺序；handler 在多 worker
// 上并行执行，跨 worker 完成顺序不做保证（Workers=1 时保序）。
package pump

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/uniyakcom/conduit"
	"github.com/uniyakcom/conduit/util"
)

// Handler 值处理器
type Handler[T any] func(T) error

// PanicHandler panic 回调（可选，handler panic 时收到通知）
type PanicHandler func(recovered any)

// Stats 泵运行时统计
type Stats struct {
	Processed int64 // handler 执行完成的值总数
	Panics    int64 // handler panic 次数
}

// defaultCloseGrace Close 等待在途 handler 的默认宽限期
const defaultCloseGrace = 5 * time.Second

// Config 泵配置
type Config struct {
	Workers    int           // handler 并发度（0=NumCPU/2，最小 1）
	PreAlloc   bool          // 预分配 ants worker 队列
	OnPanic    PanicHandler  // panic 回调（可选）
	CloseGrace time.Duration // Close 等待在途 handler 的宽限期（0=5s）
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	w := runtime.NumCPU() / 2
	if w < 1 {
		w = 1
	}
	return &Config{Workers: w}
}

// Pump 消费端 handler 泵
type Pump[T any] struct {
	rx         *conduit.Receiver[T]
	handler    Handler[T]
	pool       *ants.Pool
	onPanic    PanicHandler
	closeGrace time.Duration

	wg     sync.WaitGroup
	closed atomic.Bool

	// 运行时统计（handler 在多 worker 并发执行，分片计数避免热点）
	processed *util.ShardedCounter
	panics    *util.ShardedCounter

	errMu   sync.Mutex
	lastErr error
}

// New 创建泵并立即开始消费。rx 的所有权移交给泵：调用方此后
// 不得再使用该 Receiver（SPSC 单消费者约束）。
func New[T any](rx *conduit.Receiver[T], h Handler[T], cfg *Config) (*Pump[T], error) {
	if rx == nil {
		return nil, fmt.Errorf("pump: receiver must be non-nil")
	}
	if h == nil {
		return nil, fmt.Errorf("pump: handler must be non-nil")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultConfig().Workers
	}

	var opts []ants.Option
	if cfg.PreAlloc {
		opts = append(opts, ants.WithPreAlloc(true))
	}
	pool, err := ants.NewPool(workers, opts...)
	if err != nil {
		return nil, err
	}

	grace := cfg.CloseGrace
	if grace <= 0 {
		grace = defaultCloseGrace
	}

	p := &Pump[T]{
		rx:         rx,
		handler:    h,
		pool:       pool,
		onPanic:    cfg.OnPanic,
		closeGrace: grace,
		processed:  util.NewShardedCounter(workers),
		panics:     util.NewShardedCounter(workers),
	}
	p.wg.Add(1)
	go p.drain()
	return p, nil
}

// drain 单一消费循环 — 泵对 Receiver 的独占消费者。
// Close 挂断 channel 后，阻塞中的 Receive 被唤醒返回 false，
// 循环退出前已入队的值仍会被取完（Receive 快路径在关闭后继续命中）。
func (p *Pump[T]) drain() {
	defer p.wg.Done()
	for {
		v, ok := p.rx.Receive()
		if !ok {
			return
		}
		if err := p.pool.Submit(func() { p.run(v) }); err != nil {
			// 池已不可用（关闭竞态窗口）: 就地执行，保证不丢值
			p.run(v)
		}
	}
}

// run 执行单个 handler（ants worker 上）
func (p *Pump[T]) run(v T) {
	defer func() {
		if r := recover(); r != nil {
			p.panics.Add(1)
			if p.onPanic != nil {
				p.onPanic(r)
			}
		}
	}()
	if err := p.handler(v); err != nil {
		p.errMu.Lock()
		p.lastErr = err
		p.errMu.Unlock()
	}
	p.processed.Add(1)
}

// Stats 返回运行时统计
func (p *Pump[T]) Stats() Stats {
	return Stats{
		Processed: p.processed.Read(),
		Panics:    p.panics.Read(),
	}
}

// LastError 获取最后一个 handler error
func (p *Pump[T]) LastError() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.lastErr
}

// Close 关闭泵，幂等：挂断 channel（唤醒 drain 循环），等待
// 循环取完已入队的值，再等待在途 handler 执行完毕。
// 宽限期（Config.CloseGrace）内 handler 未退出时返回 error。
func (p *Pump[T]) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil // 已关闭
	}
	p.rx.Close()
	p.wg.Wait()
	// ReleaseTimeout 等待在途 handler 完成（Release 不等待）
	if err := p.pool.ReleaseTimeout(p.closeGrace); err != nil {
		return fmt.Errorf("pump: handlers still running after %v: %w", p.closeGrace, err)
	}
	return nil
}

// Drain 优雅关闭（等待队列排空或超时）
// timeout <= 0 时等效于 Close()
func (p *Pump[T]) Drain(timeout time.Duration) error {
	if timeout <= 0 {
		return p.Close()
	}
	done := make(chan error, 1)
	go func() {
		done <- p.Close()
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("pump: drain timed out after %v", timeout)
	}
}
