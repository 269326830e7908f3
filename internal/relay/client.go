package relay

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// Client 单个 WebSocket 连接
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	remote string
}

func newClient(h *Hub, conn *websocket.Conn, remote string) *Client {
	size := h.cfg.SendBuffer
	if size <= 0 {
		size = 64
	}
	return &Client{hub: h, conn: conn, send: make(chan []byte, size), remote: remote}
}

// pongWait 对端必须在该时间内回应 ping
func (c *Client) pongWait() time.Duration {
	return c.pingPeriod() * 10 / 9
}

func (c *Client) pingPeriod() time.Duration {
	if c.hub.cfg.PingPeriod <= 0 {
		return 50 * time.Second
	}
	return c.hub.cfg.PingPeriod
}

// readPump 读取上行消息并转交 Hub 广播，连接出错时注销
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		_ = c.conn.Close()
	}()

	if c.hub.cfg.ReadLimit > 0 {
		c.conn.SetReadLimit(c.hub.cfg.ReadLimit)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("聊天连接异常关闭", zap.String("remote", c.remote), zap.Error(err))
			}
			return
		}

		var in incoming
		if err := json.Unmarshal(data, &in); err != nil {
			c.hub.logger.Debug("忽略无法解析的聊天消息", zap.String("remote", c.remote), zap.Error(err))
			continue
		}
		c.hub.Broadcast(in.User, in.Message)
	}
}

// writePump 把发送队列写入连接，并定期发送 ping
func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingPeriod())
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub 已关闭发送队列
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
