package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/config"
	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/pkg/mlkit"
)

// 测试集比例
const testRatio = 0.2

// projectFeatures 项目成功分析的特征名，顺序与特征矩阵列一致
var projectFeatures = []string{"预算", "团队规模", "项目持续时间", "任务数量"}

// AnalyticsService 汇总与预测业务接口
// 样本不足时返回 mlkit.ErrInsufficientData
type AnalyticsService interface {
	// PredictFutureExpenses 以月份序号为特征训练随机森林，预测之后 monthsAhead 个月的支出
	PredictFutureExpenses(ctx context.Context, monthsAhead int) (*dto.ExpenseForecast, error)
	// PredictInventoryNeeds 对领用历史超过阈值月数的物品预测下个月需求
	PredictInventoryNeeds(ctx context.Context) ([]dto.InventoryForecast, error)
	AnalyzeProjectSuccess(ctx context.Context) (*dto.ProjectSuccessAnalysis, error)
	AnalyzeUserBehavior(ctx context.Context) (*dto.UserBehaviorAnalysis, error)
	SimpleRegression(x, y []float64) (*mlkit.LinearRegression, error)
	// DescribeData 对 JSON 表格数据做描述性统计、相关性分析与分组 t 检验
	// 数据格式错误返回 mlkit.ErrMalformedData
	DescribeData(data []byte) (*mlkit.DatasetAnalysis, error)
	GenerateInsights(ctx context.Context) ([]string, error)
}

type analyticsService struct {
	cfg       *config.AnalyticsConfig
	finance   FinanceService
	inventory InventoryService
	project   ProjectService
	user      UserService
	logger    *zap.Logger
}

// NewAnalyticsService 创建 AnalyticsService 实例，数据来自各业务模块
func NewAnalyticsService(
	cfg *config.AnalyticsConfig,
	finance FinanceService,
	inventory InventoryService,
	project ProjectService,
	user UserService,
	logger *zap.Logger,
) AnalyticsService {
	return &analyticsService{
		cfg:       cfg,
		finance:   finance,
		inventory: inventory,
		project:   project,
		user:      user,
		logger:    logger,
	}
}

// monthIndex 将 YYYY-MM 转换为连续的月份序号
func monthIndex(month string) (int, error) {
	t, err := time.Parse(model.MonthLayout, month)
	if err != nil {
		return 0, err
	}
	return t.Year()*12 + int(t.Month()) - 1, nil
}

func monthFromIndex(idx int) string {
	return time.Date(idx/12, time.Month(idx%12+1), 1, 0, 0, 0, 0, time.UTC).Format(model.MonthLayout)
}

// fitRegressor 按 80/20 划分训练随机森林，返回模型及测试集 MSE、R²
func (s *analyticsService) fitRegressor(X [][]float64, y []float64) (*mlkit.RandomForestRegressor, float64, float64, error) {
	train, test, err := mlkit.TrainTestSplit(len(y), testRatio, s.cfg.Seed)
	if err != nil {
		return nil, 0, 0, err
	}

	rf := mlkit.NewRandomForestRegressor(s.cfg.Trees, s.cfg.Seed)
	if err := rf.Fit(mlkit.Take(X, train), mlkit.Take(y, train)); err != nil {
		return nil, 0, 0, err
	}

	yTest := mlkit.Take(y, test)
	yPred := rf.Predict(mlkit.Take(X, test))
	return rf, mlkit.MSE(yTest, yPred), mlkit.R2(yTest, yPred), nil
}

// ────────────────────── PredictFutureExpenses ──────────────────────

func (s *analyticsService) PredictFutureExpenses(ctx context.Context, monthsAhead int) (*dto.ExpenseForecast, error) {
	if monthsAhead <= 0 {
		monthsAhead = s.cfg.ForecastMonths
	}

	trend, err := s.finance.MonthlyTrend(ctx)
	if err != nil {
		return nil, err
	}

	X := make([][]float64, 0, len(trend))
	y := make([]float64, 0, len(trend))
	last := 0
	for _, m := range trend {
		idx, err := monthIndex(m.Month)
		if err != nil {
			return nil, err
		}
		X = append(X, []float64{float64(idx)})
		y = append(y, m.Expense.InexactFloat64())
		last = idx
	}

	rf, mse, r2, err := s.fitRegressor(X, y)
	if err != nil {
		return nil, err
	}

	forecast := &dto.ExpenseForecast{MSE: mse, R2: r2}
	future := make([][]float64, monthsAhead)
	for i := range future {
		future[i] = []float64{float64(last + i + 1)}
		forecast.Months = append(forecast.Months, monthFromIndex(last+i+1))
	}
	forecast.Predictions = lo.Map(rf.Predict(future), func(v float64, _ int) float64 {
		return round2(v)
	})
	return forecast, nil
}

// ────────────────────── PredictInventoryNeeds ──────────────────────

func (s *analyticsService) PredictInventoryNeeds(ctx context.Context) ([]dto.InventoryForecast, error) {
	histories, err := s.inventory.UsageHistory(ctx)
	if err != nil {
		return nil, err
	}

	forecasts := make([]dto.InventoryForecast, 0)
	for _, h := range histories {
		if len(h.UsageHistory) <= s.cfg.MinUsageHistory {
			continue
		}

		x := make([]float64, len(h.UsageHistory))
		for i := range x {
			x[i] = float64(i)
		}
		rf, mse, r2, err := s.fitRegressor(mlkit.Column(x), h.UsageHistory)
		if err != nil {
			s.logger.Warn("物品需求预测失败", zap.Uint("item_id", h.ItemID), zap.Error(err))
			continue
		}

		next := rf.Predict([][]float64{{float64(len(x))}})
		forecasts = append(forecasts, dto.InventoryForecast{
			ItemID:     h.ItemID,
			Name:       h.Name,
			Prediction: round2(next[0]),
			MSE:        mse,
			R2:         r2,
		})
	}
	return forecasts, nil
}

// ────────────────────── AnalyzeProjectSuccess ──────────────────────

// projectSucceeded 已完成、按期完成且未超预算
func projectSucceeded(p model.ProjectSummary) bool {
	if p.Status != model.StatusCompleted || !p.CompletedAt.Valid {
		return false
	}
	// 结束日当天完成也算按期
	onTime := !p.CompletedAt.Time.After(p.EndDate.AddDate(0, 0, 1))
	return onTime && p.ActualCost.LessThanOrEqual(p.Budget)
}

func (s *analyticsService) AnalyzeProjectSuccess(ctx context.Context) (*dto.ProjectSuccessAnalysis, error) {
	projects, err := s.project.ListAllProjects(ctx)
	if err != nil {
		return nil, err
	}

	X := make([][]float64, len(projects))
	y := make([]int, len(projects))
	for i, p := range projects {
		X[i] = []float64{
			p.Budget.InexactFloat64(),
			float64(p.TeamSize),
			p.EndDate.Sub(p.StartDate).Hours() / 24,
			float64(p.TotalTasks),
		}
		if projectSucceeded(p) {
			y[i] = 1
		}
	}

	train, test, err := mlkit.TrainTestSplit(len(y), testRatio, s.cfg.Seed)
	if err != nil {
		return nil, err
	}

	clf := mlkit.NewRandomForestClassifier(s.cfg.Trees, s.cfg.Seed)
	if err := clf.Fit(mlkit.Take(X, train), mlkit.Take(y, train)); err != nil {
		return nil, err
	}

	yTest := mlkit.Take(y, test)
	yPred := clf.Predict(mlkit.Take(X, test))

	importance := make(map[string]float64, len(projectFeatures))
	for i, v := range clf.FeatureImportances() {
		importance[projectFeatures[i]] = v
	}

	return &dto.ProjectSuccessAnalysis{
		Accuracy:             mlkit.Accuracy(yTest, yPred),
		ClassificationReport: mlkit.ClassificationReport(yTest, yPred),
		FeatureImportance:    importance,
	}, nil
}

// ────────────────────── AnalyzeUserBehavior ──────────────────────

func (s *analyticsService) AnalyzeUserBehavior(ctx context.Context) (*dto.UserBehaviorAnalysis, error) {
	activity, err := s.user.UserActivityReport(ctx)
	if err != nil {
		return nil, err
	}

	X := lo.Map(activity, func(a model.UserActivity, _ int) []float64 {
		return []float64{
			float64(a.FinancialTransactions),
			float64(a.EventsCreated),
			float64(a.InventoryUsages),
			float64(a.CompletedTrainings),
		}
	})

	var scaler mlkit.StandardScaler
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		return nil, err
	}
	res, err := mlkit.KMeans(scaled, s.cfg.Clusters, s.cfg.Seed)
	if err != nil {
		return nil, err
	}

	clusters := lo.Map(activity, func(a model.UserActivity, i int) dto.UserCluster {
		return dto.UserCluster{UserActivity: a, Cluster: res.Labels[i]}
	})
	return &dto.UserBehaviorAnalysis{
		UserClusters:   clusters,
		ClusterCenters: scaler.InverseTransform(res.Centers),
	}, nil
}

// ────────────────────── SimpleRegression ──────────────────────

func (s *analyticsService) SimpleRegression(x, y []float64) (*mlkit.LinearRegression, error) {
	return mlkit.FitLinear(x, y)
}

// ────────────────────── DescribeData ──────────────────────

func (s *analyticsService) DescribeData(data []byte) (*mlkit.DatasetAnalysis, error) {
	frame, err := mlkit.ParseFrame(data)
	if err != nil {
		return nil, err
	}
	return mlkit.Analyze(frame)
}

// ────────────────────── GenerateInsights ──────────────────────

// GenerateInsights 汇总四类分析的结论，某项分析数据不足时跳过该条
func (s *analyticsService) GenerateInsights(ctx context.Context) ([]string, error) {
	var insights []string

	// 支出预测
	expense, err := s.PredictFutureExpenses(ctx, s.cfg.ForecastMonths)
	switch {
	case err == nil:
		insights = append(insights, fmt.Sprintf(
			"未来%d个月的平均预计支出为 ¥%.2f。模型的 R² 值为 %.2f，表明预测的可信度较高。",
			len(expense.Predictions), lo.Mean(expense.Predictions), expense.R2,
		))
	case !isInsufficient(err):
		return nil, err
	}

	// 库存需求
	needs, err := s.PredictInventoryNeeds(ctx)
	if err != nil {
		return nil, err
	}
	if len(needs) > 0 {
		avg := lo.MeanBy(needs, func(f dto.InventoryForecast) float64 { return f.Prediction })
		high := lo.FilterMap(needs, func(f dto.InventoryForecast, _ int) (string, bool) {
			return f.Name, f.Prediction > avg
		})
		insights = append(insights, fmt.Sprintf(
			"以下物品预计下个月需求较高：%s。请考虑提前补充库存。", strings.Join(high, ", "),
		))
	}

	// 项目成功因素
	success, err := s.AnalyzeProjectSuccess(ctx)
	switch {
	case err == nil:
		insights = append(insights, fmt.Sprintf(
			"项目成功的最重要因素是%s。模型的准确率为 %.2f。",
			topFeature(success.FeatureImportance), success.Accuracy,
		))
	case !isInsufficient(err):
		return nil, err
	}

	// 用户行为
	behavior, err := s.AnalyzeUserBehavior(ctx)
	switch {
	case err == nil:
		sums := lo.Map(behavior.ClusterCenters, func(c []float64, _ int) float64 { return lo.Sum(c) })
		most := 0
		for i, v := range sums {
			if v > sums[most] {
				most = i
			}
		}
		insights = append(insights, fmt.Sprintf(
			"用户可以分为%d个群组，其中群组%d的用户最活跃。考虑为不同群组的用户制定不同的参与策略。",
			len(behavior.ClusterCenters), most+1,
		))
	case !isInsufficient(err):
		return nil, err
	}

	return insights, nil
}

// topFeature 重要性最高的特征，并列时按特征顺序取第一个
func topFeature(importance map[string]float64) string {
	best := projectFeatures[0]
	for _, f := range projectFeatures[1:] {
		if importance[f] > importance[best] {
			best = f
		}
	}
	return best
}

func isInsufficient(err error) bool {
	return errors.Is(err, mlkit.ErrInsufficientData)
}
