package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// 包级别的 WebSocket 常量，供 hub 和 client 使用
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// 观察者只读，不需要大消息
	maxMessageSize = 512
)

// HubMessage 的类型
const (
	MessageRegister   = "register"
	MessageUnregister = "unregister"
	MessageBroadcast  = "broadcast"
)

// HubMessage 定义了在 Hub 内部通道传递的消息
type HubMessage struct {
	Type   string  // register / unregister / broadcast
	Client *Client // 仅用于 register/unregister
	Data   []byte  // 仅用于 broadcast
}

// SnapshotFunc 返回新观察者连接时要发送的初始状态
type SnapshotFunc func() interface{}

// Hub 维护所有观察者连接，把触摸处理结果扇出给它们。
// 只有一个全局频道：所有观察者看到的是同一块触摸板。
type Hub struct {
	messageChan chan HubMessage
	quit        chan struct{}
	stopOnce    sync.Once

	clients   map[*Client]bool
	clientsMu sync.RWMutex

	snapshot SnapshotFunc // 可以为 nil
	log      *logrus.Entry
}

// NewHub 创建并返回一个新的 Hub 实例
func NewHub(snapshot SnapshotFunc) *Hub {
	return &Hub{
		messageChan: make(chan HubMessage, 512),
		quit:        make(chan struct{}),
		clients:     make(map[*Client]bool),
		snapshot:    snapshot,
		log:         logrus.WithField("component", "hub"),
	}
}

// Run 启动 Hub 的主事件处理循环，应在单独的 goroutine 中运行。
// Stop 之后返回。
func (h *Hub) Run() {
	h.log.Info("Hub is running...")
	for {
		select {
		case msg := <-h.messageChan:
			switch msg.Type {
			case MessageRegister:
				h.registerClient(msg.Client)
			case MessageUnregister:
				h.unregisterClient(msg.Client)
			case MessageBroadcast:
				h.broadcast(msg.Data)
			default:
				h.log.Warnf("Hub: Received unknown message type: %s", msg.Type)
			}
		case <-h.quit:
			h.closeAll()
			h.log.Info("Hub is shutting down...")
			return
		}
	}
}

// Stop 停止 Run 循环并关闭所有客户端的发送通道。可重复调用。
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		h.log.Error("Hub: Attempted to register a nil client")
		return
	}
	h.clientsMu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.clientsMu.Unlock()
	h.log.WithFields(logrus.Fields{"remote": client.RemoteAddr(), "clients": total}).Info("Client registered to Hub")

	if h.snapshot != nil {
		h.sendInitialSnapshot(client)
	}
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		h.log.Error("Hub: Attempted to unregister a nil client")
		return
	}
	logCtx := h.log.WithField("remote", client.RemoteAddr())

	h.clientsMu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		// 关闭 send 通道，WritePump 随之退出
		close(client.send)
		logCtx.Info("Client unregistered from Hub")
	} else {
		logCtx.Warn("Client not found during unregister")
	}
	h.clientsMu.Unlock()
}

// closeAll 在关闭时断开所有观察者
func (h *Hub) closeAll() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// sendInitialSnapshot 把当前状态发给新连接的观察者
func (h *Hub) sendInitialSnapshot(client *Client) {
	logCtx := h.log.WithFields(logrus.Fields{"remote": client.RemoteAddr(), "operation": "sendInitialSnapshot"})
	data, err := json.Marshal(h.snapshot())
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal snapshot message")
		return
	}
	select {
	case client.send <- data:
		logCtx.Debug("Snapshot message sent to client channel")
	default:
		logCtx.Warn("Client send channel full when trying to send snapshot, message dropped")
	}
}

// broadcast 把消息发给所有观察者，慢客户端直接跳过
func (h *Hub) broadcast(message []byte) {
	h.clientsMu.RLock()
	recipients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		recipients = append(recipients, client)
	}
	h.clientsMu.RUnlock()

	if len(recipients) == 0 {
		return
	}
	logCtx := h.log.WithFields(logrus.Fields{
		"message_size":    len(message),
		"recipient_count": len(recipients),
	})
	logCtx.Debug("Broadcasting message to clients")

	for _, client := range recipients {
		select {
		case client.send <- message:
		default:
			logCtx.WithField("remote", client.RemoteAddr()).Warn("Client send channel full during broadcast, skipping this client")
		}
	}
}

// --- 公共方法 ---

// QueueMessage 将消息放入 Hub 的处理队列 (非阻塞)。
// 队列已满或 Hub 已停止时返回 false。
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case <-h.quit:
		return false
	default:
	}
	select {
	case h.messageChan <- msg:
		return true
	default:
		h.log.WithField("message_type", msg.Type).Warn("Hub message channel full, dropping message")
		return false
	}
}

// Broadcast 把 v 序列化为 JSON 后排队广播，实现 service.Broadcaster。
func (h *Hub) Broadcast(v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal broadcast message")
		return false
	}
	return h.QueueMessage(HubMessage{Type: MessageBroadcast, Data: data})
}

// ClientCount 返回当前连接的观察者数量
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}
