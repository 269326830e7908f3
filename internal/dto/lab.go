package dto

// ── 实验室信息模块 DTO ──

// LabInfoRequest 更新实验室信息
type LabInfoRequest struct {
	Name            string `json:"name"             binding:"required,max=200"`
	Institution     string `json:"institution"      binding:"max=200"`
	EstablishedDate string `json:"established_date" binding:"omitempty,datetime=2006-01-02"`
	ResearchFocus   string `json:"research_focus"`
}

// LabMemberRequest 新增成员
type LabMemberRequest struct {
	Name         string `json:"name"          binding:"required,max=100"`
	Position     string `json:"position"      binding:"max=100"`
	Email        string `json:"email"         binding:"omitempty,email"`
	ResearchArea string `json:"research_area" binding:"max=200"`
}

// LabEquipmentRequest 登记固定资产设备
type LabEquipmentRequest struct {
	Name         string `json:"name"          binding:"required,max=200"`
	Model        string `json:"model"         binding:"max=100"`
	PurchaseDate string `json:"purchase_date" binding:"omitempty,datetime=2006-01-02"`
	Status       string `json:"status"        binding:"max=50"`
}

// PaperRequest 登记论文
type PaperRequest struct {
	Title   string `json:"title"   binding:"required,max=500"`
	Authors string `json:"authors"`
	Journal string `json:"journal" binding:"max=200"`
	Date    string `json:"date"    binding:"required,datetime=2006-01-02"`
}
