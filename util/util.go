// Package util 提供分片无竞争计数器
package util

import (
	"sync/atomic"
	"unsafe"
)

// maxSlots 最大 slot 数量上限
const maxSlots = 256

// ShardedCounter 分片计数器 — 多 worker 并发写入时避免单一
// atomic 热点。利用 goroutine 栈地址天然分散的特性，将写入
// 哈希到不同 cache line 的 slot。
type ShardedCounter struct {
	counters []counterSlot
	mask     int
}

type counterSlot struct {
	count atomic.Int64
	_     [56]byte // cache line padding (64 - 8 bytes for Int64)
}

// NewShardedCounter 创建分片计数器。sizeHint 为预期并发写入者
// 数量（pump 场景下 = worker 数），向上取 2 的幂；
// 最少 8 slot 保底，避免低并发下栈地址哈希冲突率过高。
func NewShardedCounter(sizeHint int) *ShardedCounter {
	sz := 1
	for sz < sizeHint {
		sz *= 2
	}
	if sz < 8 {
		sz = 8
	}
	if sz > maxSlots {
		sz = maxSlots
	}
	return &ShardedCounter{
		counters: make([]counterSlot, sz),
		mask:     sz - 1,
	}
}

// Add 原子加法（per-goroutine 栈地址分散到不同 slot）
// 右移 13 位: goroutine 最小栈 8KB = 2^13，不同 goroutine 落入不同 slot。
// 保证 x 不会被分配到堆上。
//
//go:nosplit
func (c *ShardedCounter) Add(delta int64) {
	var x uintptr
	id := int(uintptr(unsafe.Pointer(&x)) >> 13)
	c.counters[id&c.mask].count.Add(delta)
}

// Read 读取所有 slot 的累计值
func (c *ShardedCounter) Read() int64 {
	var sum int64
	for i := range c.counters {
		sum += c.counters[i].count.Load()
	}
	return sum
}
