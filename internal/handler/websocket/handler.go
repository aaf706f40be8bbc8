package websocket

import (
	"net/http"

	"github.com/CcydtN/Touchpad-Emulator/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// FeedHandler 负责把观察者的 HTTP 请求升级为 WebSocket 并注册到 Hub
type FeedHandler struct {
	upgrader websocket.Upgrader
	hub      *hub.Hub
}

// NewFeedHandler 创建 FeedHandler 实例。allowedOrigin 为 "*" 时接受任意来源。
func NewFeedHandler(h *hub.Hub, allowedOrigin string) *FeedHandler {
	if h == nil {
		panic("Hub cannot be nil for FeedHandler")
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" || allowedOrigin == "*" {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowedOrigin
		},
	}
	return &FeedHandler{upgrader: upgrader, hub: h}
}

// HandleConnection 处理 GET /ws
func (h *FeedHandler) HandleConnection(c *gin.Context) {
	logCtx := logrus.WithField("remote", c.ClientIP())

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写回了 HTTP 错误
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}
	logCtx.Info("WS Handler: Connection upgraded to WebSocket")

	client := hub.NewClient(h.hub, conn)
	if !h.hub.QueueMessage(hub.HubMessage{Type: hub.MessageRegister, Client: client}) {
		logCtx.Error("WS Handler: Hub message channel full, failed to register client")
		client.CloseConn()
		return
	}
	client.Run()
	logCtx.Debug("WS Handler: Client read/write pumps started")
}
