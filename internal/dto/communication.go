package dto

// ── 通讯与云盘模块 DTO ──

// CreateRoomRequest 新建聊天室
type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// SendMessageRequest 发送消息
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// ShareFileRequest 按文件名共享给指定用户
type ShareFileRequest struct {
	FileName string `json:"file_name" binding:"required"`
	Username string `json:"username"  binding:"required"`
}
