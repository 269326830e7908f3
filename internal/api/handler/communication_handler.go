package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/relay"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// CommunicationHandler 聊天室与实时消息 HTTP 处理器
type CommunicationHandler struct {
	svc service.CommunicationService
	hub *relay.Hub
}

// NewCommunicationHandler 创建 CommunicationHandler，hub 为 nil 时不提供 WebSocket
func NewCommunicationHandler(svc service.CommunicationService, hub *relay.Hub) *CommunicationHandler {
	return &CommunicationHandler{svc: svc, hub: hub}
}

// ListRooms GET /api/v1/chat/rooms
func (h *CommunicationHandler) ListRooms(c *gin.Context) {
	list, err := h.svc.ListRooms(c.Request.Context())
	if err != nil {
		h.handleChatError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CreateRoom POST /api/v1/chat/rooms
func (h *CommunicationHandler) CreateRoom(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	room, err := h.svc.CreateRoom(c.Request.Context(), userID, req.Name)
	if err != nil {
		h.handleChatError(c, err)
		return
	}
	response.Created(c, room)
}

// ListMessages 聊天室最近消息，按时间正序
// GET /api/v1/chat/rooms/:id/messages?limit=50
func (h *CommunicationHandler) ListMessages(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	var q dto.LimitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.svc.ListMessages(c.Request.Context(), id, q.Limit)
	if err != nil {
		h.handleChatError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// SendMessage 持久化消息并推送给在线客户端
// POST /api/v1/chat/rooms/:id/messages
func (h *CommunicationHandler) SendMessage(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	username, ok := MustGetUsername(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	msg, err := h.svc.SendMessage(c.Request.Context(), id, userID, username, req.Content)
	if err != nil {
		h.handleChatError(c, err)
		return
	}
	response.Created(c, msg)
}

// Chat 升级为 WebSocket，收到的消息转发给所有在线客户端
// GET /ws/chat
func (h *CommunicationHandler) Chat(c *gin.Context) {
	if h.hub == nil {
		response.ServiceUnavailable(c)
		return
	}
	if err := h.hub.ServeWS(c.Writer, c.Request); err != nil {
		// 升级失败时响应已写出，只记录错误
		_ = c.Error(err)
	}
}

func (h *CommunicationHandler) handleChatError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrRoomNotFound) {
		response.NotFound(c, 90001, "聊天室不存在")
		return
	}
	handleCommonError(c, err)
}
