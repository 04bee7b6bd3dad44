package conduit

import (
	"testing"
)

// TestScenarioSequentialSendReceive 单线程顺序收发场景
// 用途: 同线程内缓冲传递、批量回放
func TestScenarioSequentialSendReceive(t *testing.T) {
	rx, tx := New[int]()

	tx.Send(10)
	tx.Send(20)
	tx.Send(30)

	for _, want := range []int{10, 20, 30} {
		v, ok := rx.Receive()
		if !ok || v != want {
			t.Fatalf("Receive = (%d, %v), expected (%d, true)", v, ok, want)
		}
	}

	if _, ok := rx.TryReceive(); ok {
		t.Error("TryReceive on drained channel returned data")
	}

	tx.Send(40)
	if v, ok := rx.Receive(); !ok || v != 40 {
		t.Errorf("Receive = (%d, %v), expected (40, true)", v, ok)
	}
}

// TestScenarioTrySendTryReceive 非阻塞收发往返场景
func TestScenarioTrySendTryReceive(t *testing.T) {
	rx, tx := New[int]()

	if _, ok := rx.TryReceive(); ok {
		t.Error("TryReceive on fresh channel returned data")
	}
	if !tx.TrySend(10) {
		t.Fatal("TrySend failed on open channel")
	}
	if v, ok := rx.TryReceive(); !ok || v != 10 {
		t.Errorf("TryReceive = (%d, %v), expected (10, true)", v, ok)
	}
	if !rx.IsOpen() || !tx.IsOpen() {
		t.Error("channel closed without hang-up")
	}
}

// TestScenarioPeerHangUp 消费端挂断场景
// 用途: 消费者先退出，生产者观察到对端离开
func TestScenarioPeerHangUp(t *testing.T) {
	rx, tx := New[int]()

	if _, ok := rx.TryReceive(); ok {
		t.Error("TryReceive on fresh channel returned data")
	}
	if !tx.TrySend(10) {
		t.Fatal("TrySend failed on open channel")
	}

	rx.Close() // 消费端弃用 handle

	if tx.IsOpen() {
		t.Error("sender did not observe peer hang-up")
	}
}

// TestScenarioBothSidesClosed 双端关闭后所有非阻塞操作失败
func TestScenarioBothSidesClosed(t *testing.T) {
	rx, tx := New[int]()

	rx.Close()
	tx.Close()

	if tx.TrySend(10) {
		t.Error("TrySend succeeded after both sides closed")
	}
	if _, ok := rx.TryReceive(); ok {
		t.Error("TryReceive succeeded after both sides closed")
	}
}
