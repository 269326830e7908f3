// Package relay 实时聊天中继：所有连接共享一个聊天室，任一客户端发来的消息广播给全部在线客户端
package relay

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/config"
)

// MessageTypeChat 广播消息类型
const MessageTypeChat = "chat"

// Message 下发给客户端的聊天消息
type Message struct {
	Type    string `json:"type"`
	User    string `json:"user"`
	Message string `json:"message"`
}

// incoming 客户端上行消息
type incoming struct {
	User    string `json:"user"`
	Message string `json:"message"`
}

// Hub 在线连接的唯一持有者
// clients 只在 Run 所在的 goroutine 中读写，其他 goroutine 通过通道与之交互
type Hub struct {
	cfg      *config.RelayConfig
	logger   *zap.Logger
	upgrader websocket.Upgrader

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	count      chan chan int
	done       chan struct{}
}

// NewHub 创建 Hub；allowOrigins 为空或包含 "*" 时接受任意来源
func NewHub(cfg *config.RelayConfig, allowOrigins []string, logger *zap.Logger) *Hub {
	h := &Hub{
		cfg:        cfg,
		logger:     logger,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		count:      make(chan chan int),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowOrigins),
	}
	return h
}

func originChecker(allowOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, o := range allowOrigins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

// Run 处理注册、注销与广播，直到 ctx 取消
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("聊天中继已停止", zap.Int("clients", len(h.clients)))
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Debug("聊天客户端已连接", zap.String("remote", c.remote), zap.Int("clients", len(h.clients)))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("聊天客户端已断开", zap.String("remote", c.remote), zap.Int("clients", len(h.clients)))
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// 发送缓冲已满，丢弃该客户端
					delete(h.clients, c)
					close(c.send)
					h.logger.Warn("聊天客户端过慢，已断开", zap.String("remote", c.remote))
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// Broadcast 向全部在线客户端发送一条聊天消息
func (h *Hub) Broadcast(user, message string) {
	payload, err := json.Marshal(Message{Type: MessageTypeChat, User: user, Message: message})
	if err != nil {
		h.logger.Error("序列化聊天消息失败", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

// ClientCount 当前在线连接数，Hub 停止后返回 0
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// ServeWS 把 HTTP 请求升级为 WebSocket 连接并加入聊天室
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已向客户端写回错误响应
		return err
	}

	c := newClient(h, conn, r.RemoteAddr)
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return nil
	}

	go c.writePump()
	go c.readPump()
	return nil
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
