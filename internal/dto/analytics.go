package dto

import (
	"encoding/json"

	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/pkg/mlkit"
)

// ── 汇总与预测 DTO ──

// ExpenseForecast 未来支出预测
type ExpenseForecast struct {
	Months      []string  `json:"months"`
	Predictions []float64 `json:"predictions"`
	MSE         float64   `json:"mse"`
	R2          float64   `json:"r2"`
}

// InventoryForecast 单个物品下一期需求预测
type InventoryForecast struct {
	ItemID     uint    `json:"item_id"`
	Name       string  `json:"name"`
	Prediction float64 `json:"prediction"`
	MSE        float64 `json:"mse"`
	R2         float64 `json:"r2"`
}

// ProjectSuccessAnalysis 项目成功因素分析
type ProjectSuccessAnalysis struct {
	Accuracy             float64            `json:"accuracy"`
	ClassificationReport mlkit.Report       `json:"classification_report"`
	FeatureImportance    map[string]float64 `json:"feature_importance"`
}

// UserCluster 用户行为及所属群组
type UserCluster struct {
	model.UserActivity
	Cluster int `json:"cluster"`
}

// UserBehaviorAnalysis 用户行为聚类结果，中心点为原始量纲
type UserBehaviorAnalysis struct {
	UserClusters   []UserCluster `json:"user_clusters"`
	ClusterCenters [][]float64   `json:"cluster_centers"`
}

// RegressionRequest 一元线性回归
type RegressionRequest struct {
	X []float64 `json:"x" binding:"required,min=2"`
	Y []float64 `json:"y" binding:"required,min=2"`
}

// DescribeRequest 表格数据统计分析
// Data 为记录数组 [{"a":1}] 或按列组织的对象 {"a":[1]}
type DescribeRequest struct {
	Data json.RawMessage `json:"data" binding:"required"`
}

// ExpiringProject 即将到期的项目
type ExpiringProject struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	EndDate  string `json:"end_date"`
	DaysLeft int    `json:"days_left"`
}

// Dashboard 个人首页
type Dashboard struct {
	RecentProjects []model.Project      `json:"recent_projects"`
	Todos          []model.Todo         `json:"todos"`
	Notifications  []model.Notification `json:"notifications"`
	UpcomingEvents []model.Event        `json:"upcoming_events"`
	Alerts         []string             `json:"alerts"`
}

// ForecastQuery 预测月数，0 表示使用配置默认值
type ForecastQuery struct {
	Months int `form:"months" binding:"omitempty,min=1,max=24"`
}

// DeleteResult 删除是否命中记录
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}
