package dto

import "time"

// ── 安全培训模块 DTO ──

// CreateCourseRequest 新建课程
type CreateCourseRequest struct {
	Title       string `json:"title"       binding:"required,max=200"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// CreateQuestionRequest 新增测验题
type CreateQuestionRequest struct {
	Question      string   `json:"question"       binding:"required"`
	Options       []string `json:"options"        binding:"required,min=2,dive,required"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
}

// QuestionView 测验题（不含答案）
type QuestionView struct {
	ID       uint     `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// SubmitAnswersRequest 提交答案，键为题目 ID
type SubmitAnswersRequest struct {
	Answers map[uint]string `json:"answers" binding:"required"`
}

// EvaluationResult 测验得分
type EvaluationResult struct {
	CourseID       uint      `json:"course_id"`
	Score          float64   `json:"score"`
	CompletionDate time.Time `json:"completion_date"`
}
