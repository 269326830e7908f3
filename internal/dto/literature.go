package dto

import "github.com/guregu/null/v5"

// ── 文献模块 DTO ──

// LiteratureRequest 新增或更新文献
type LiteratureRequest struct {
	Title   string      `json:"title"   binding:"required,max=500"`
	Authors string      `json:"authors"`
	Journal string      `json:"journal" binding:"max=200"`
	Year    null.Int    `json:"year"`
	DOI     null.String `json:"doi"`
	Notes   string      `json:"notes"`
}

// SearchQuery 关键词检索
type SearchQuery struct {
	Q string `form:"q" binding:"required,max=100"`
}
