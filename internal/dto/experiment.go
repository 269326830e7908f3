package dto

// ── 实验与报告模块 DTO ──

// CreateExperimentRequest 新建实验记录
type CreateExperimentRequest struct {
	Name        string `json:"name"        binding:"required,max=200"`
	Description string `json:"description"`
	Data        string `json:"data"`
	Date        string `json:"date"        binding:"required,datetime=2006-01-02"`
}

// SaveReportRequest 保存报告
type SaveReportRequest struct {
	Type    string `json:"type"    binding:"required,max=50"`
	Content string `json:"content" binding:"required"`
}

// SaveAnalysisRequest 记录一次分析
type SaveAnalysisRequest struct {
	AnalysisType string `json:"analysis_type" binding:"required,max=100"`
	FileName     string `json:"file_name"     binding:"max=255"`
}

// MonthlyReport 月度报告
type MonthlyReport struct {
	Title    string          `json:"title"`
	Sections []ReportSection `json:"sections"`
}

// ReportSection 报告章节，Data 为该章节的结构化数据
type ReportSection struct {
	Title   string      `json:"title"`
	Content string      `json:"content"`
	Data    interface{} `json:"data,omitempty"`
}
