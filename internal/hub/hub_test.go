package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClient 构造不带连接的 Client，只用于检查 send 通道
func fakeClient(h *Hub, buffer int) *Client {
	return &Client{hub: h, remote: "test", send: make(chan []byte, buffer), log: h.log}
}

func TestHub_BroadcastReachesRegisteredClients(t *testing.T) {
	h := NewHub(nil)
	a, b := fakeClient(h, 4), fakeClient(h, 4)
	h.registerClient(a)
	h.registerClient(b)

	h.broadcast([]byte(`{"type":"touch"}`))

	assert.Equal(t, `{"type":"touch"}`, string(<-a.send))
	assert.Equal(t, `{"type":"touch"}`, string(<-b.send))
	assert.Equal(t, 2, h.ClientCount())
}

func TestHub_SlowClientIsSkipped(t *testing.T) {
	h := NewHub(nil)
	slow := fakeClient(h, 0)
	h.registerClient(slow)

	assert.NotPanics(t, func() { h.broadcast([]byte("x")) })
	assert.Len(t, slow.send, 0)
}

func TestHub_SnapshotOnRegister(t *testing.T) {
	h := NewHub(func() interface{} { return map[string]int{"active": 0} })
	c := fakeClient(h, 1)

	h.registerClient(c)

	assert.JSONEq(t, `{"active":0}`, string(<-c.send))
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := NewHub(nil)
	c := fakeClient(h, 1)
	h.registerClient(c)

	h.unregisterClient(c)
	_, open := <-c.send

	assert.False(t, open)
	assert.Equal(t, 0, h.ClientCount())
	assert.NotPanics(t, func() { h.unregisterClient(c) }, "重复注销只记录警告")
}

func TestHub_StopClosesClientsAndRejectsMessages(t *testing.T) {
	h := NewHub(nil)
	c := fakeClient(h, 1)
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()
	assert.True(t, h.QueueMessage(HubMessage{Type: MessageRegister, Client: c}))
	assert.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Stop()
	h.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
	_, open := <-c.send
	assert.False(t, open)
	assert.False(t, h.Broadcast("late"))
}

func TestHub_BroadcastMarshalError(t *testing.T) {
	h := NewHub(nil)
	assert.False(t, h.Broadcast(make(chan int)))
}
