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
	"github.com/guoyuhou/NewLab/internal/repository"
	"github.com/guoyuhou/NewLab/pkg/mlkit"
)

// ── 实验模块业务错误 ──

var (
	ErrExperimentNotFound = errors.New("实验记录不存在")
)

// ReportTypeMonthly 月度报告类型
const ReportTypeMonthly = "monthly"

// ExperimentService 实验记录、报告与分析历史
type ExperimentService interface {
	CreateExperiment(ctx context.Context, userID uint, req *dto.CreateExperimentRequest) (*model.Experiment, error)
	ListExperiments(ctx context.Context, userID uint) ([]model.Experiment, error)
	// GetExperiment 与 AnalyzeExperiment 只能访问本人记录，他人的记录返回 ErrExperimentNotFound
	GetExperiment(ctx context.Context, id, userID uint) (*model.Experiment, error)
	// AnalyzeExperiment 把实验数据按 JSON 表格解析后做统计分析
	AnalyzeExperiment(ctx context.Context, id, userID uint) (*mlkit.DatasetAnalysis, error)
	// DeleteExperiment 只能删除本人记录，返回是否有记录被删除
	DeleteExperiment(ctx context.Context, id, userID uint) (bool, error)

	SaveReport(ctx context.Context, userID uint, req *dto.SaveReportRequest) (*model.Report, error)
	HistoricalReports(ctx context.Context, userID uint) ([]model.Report, error)
	MonthlyReport(ctx context.Context) (*dto.MonthlyReport, error)
	// SaveMonthlyReport 生成当月报告并以文本形式保存
	SaveMonthlyReport(ctx context.Context, userID uint) (*model.Report, error)

	SaveAnalysis(ctx context.Context, userID uint, req *dto.SaveAnalysisRequest) (*model.AnalysisRecord, error)
	AnalysisHistory(ctx context.Context, userID uint) ([]model.AnalysisRecord, error)
}

type experimentService struct {
	repo      *repository.Repository
	cfg       *config.AnalyticsConfig
	inventory InventoryService
	finance   FinanceService
	project   ProjectService
	analytics AnalyticsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewExperimentService 创建 ExperimentService 实例
func NewExperimentService(
	repo *repository.Repository,
	cfg *config.AnalyticsConfig,
	inventory InventoryService,
	finance FinanceService,
	project ProjectService,
	analytics AnalyticsService,
	logger *zap.Logger,
) ExperimentService {
	return &experimentService{
		repo:      repo,
		cfg:       cfg,
		inventory: inventory,
		finance:   finance,
		project:   project,
		analytics: analytics,
		logger:    logger,
		now:       time.Now,
	}
}

// ────────────────────── Experiments ──────────────────────

func (s *experimentService) CreateExperiment(ctx context.Context, userID uint, req *dto.CreateExperimentRequest) (*model.Experiment, error) {
	if _, err := time.Parse(model.DateLayout, req.Date); err != nil {
		return nil, ErrInvalidDate
	}
	exp := &model.Experiment{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Data:        req.Data,
		Date:        req.Date,
	}
	if err := s.repo.Experiment.Create(ctx, exp); err != nil {
		s.logger.Error("创建实验记录失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return exp, nil
}

func (s *experimentService) ListExperiments(ctx context.Context, userID uint) ([]model.Experiment, error) {
	list, err := s.repo.Experiment.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询实验记录失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}

func (s *experimentService) GetExperiment(ctx context.Context, id, userID uint) (*model.Experiment, error) {
	exp, err := s.repo.Experiment.GetOwned(ctx, id, userID)
	if err != nil {
		err = classify(err, ErrExperimentNotFound)
		if !errors.Is(err, ErrExperimentNotFound) {
			s.logger.Error("查询实验记录失败", zap.Uint("id", id), zap.Error(err))
		}
		return nil, err
	}
	return exp, nil
}

func (s *experimentService) AnalyzeExperiment(ctx context.Context, id, userID uint) (*mlkit.DatasetAnalysis, error) {
	exp, err := s.GetExperiment(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.analytics.DescribeData([]byte(exp.Data))
}

func (s *experimentService) DeleteExperiment(ctx context.Context, id, userID uint) (bool, error) {
	n, err := s.repo.Experiment.Delete(ctx, id, userID)
	if err != nil {
		s.logger.Error("删除实验记录失败", zap.Uint("id", id), zap.Uint("user_id", userID), zap.Error(err))
		return false, classify(err, nil)
	}
	return n > 0, nil
}

// ────────────────────── Reports ──────────────────────

// SaveReport 保存报告，日期取当天
func (s *experimentService) SaveReport(ctx context.Context, userID uint, req *dto.SaveReportRequest) (*model.Report, error) {
	rep := &model.Report{
		UserID:  userID,
		Type:    strings.TrimSpace(req.Type),
		Date:    s.now().UTC().Format(model.DateLayout),
		Content: req.Content,
	}
	if err := s.repo.Experiment.CreateReport(ctx, rep); err != nil {
		s.logger.Error("保存报告失败", zap.Uint("user_id", userID), zap.String("type", rep.Type), zap.Error(err))
		return nil, classify(err, nil)
	}
	return rep, nil
}

func (s *experimentService) HistoricalReports(ctx context.Context, userID uint) ([]model.Report, error) {
	list, err := s.repo.Experiment.ListReports(ctx, userID)
	if err != nil {
		s.logger.Error("查询历史报告失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}

// ────────────────────── MonthlyReport ──────────────────────

// MonthlyReport 汇总库存、财务、项目与支出预测四个章节
func (s *experimentService) MonthlyReport(ctx context.Context) (*dto.MonthlyReport, error) {
	now := s.now().UTC()
	report := &dto.MonthlyReport{
		Title: fmt.Sprintf("实验室月度报告 - %d年%02d月", now.Year(), int(now.Month())),
	}

	// ── 库存概况 ──
	inv, err := s.inventory.InventoryReport(ctx)
	if err != nil {
		return nil, err
	}
	report.Sections = append(report.Sections, dto.ReportSection{
		Title: "库存概况",
		Content: fmt.Sprintf("物品种类: %d\n库存总量: %d\n低库存物品: %d",
			inv.TotalItems, inv.TotalQuantity, len(inv.LowStock)),
		Data: inv.Items,
	})

	// ── 财务概况 ──
	summary, err := s.finance.Summary(ctx)
	if err != nil {
		return nil, err
	}
	report.Sections = append(report.Sections, dto.ReportSection{
		Title: "财务概况",
		Content: fmt.Sprintf("总收入: ¥%.2f\n总支出: ¥%.2f\n结余: ¥%.2f",
			summary.TotalIncome.InexactFloat64(),
			summary.TotalExpense.InexactFloat64(),
			summary.Balance.InexactFloat64()),
		Data: summary,
	})

	// ── 项目进展 ──
	projects, err := s.project.ProjectReport(ctx)
	if err != nil {
		return nil, err
	}
	report.Sections = append(report.Sections, dto.ReportSection{
		Title: "项目进展",
		Content: fmt.Sprintf("项目总数: %d\n已完成: %d\n进行中: %d",
			projects.Total,
			projects.ByStatus[model.StatusCompleted],
			projects.ByStatus[model.StatusInProgress]),
		Data: projects.Projects,
	})

	// ── 未来支出预测 ──
	section := dto.ReportSection{Title: "未来支出预测"}
	forecast, err := s.analytics.PredictFutureExpenses(ctx, s.cfg.ForecastMonths)
	switch {
	case err == nil:
		section.Content = fmt.Sprintf("未来%d个月预计支出: ¥%.2f", len(forecast.Predictions), lo.Sum(forecast.Predictions))
		section.Data = forecast
	case isInsufficient(err):
		section.Content = "历史支出数据不足，暂无法预测"
	default:
		return nil, err
	}
	report.Sections = append(report.Sections, section)

	return report, nil
}

func (s *experimentService) SaveMonthlyReport(ctx context.Context, userID uint) (*model.Report, error) {
	report, err := s.MonthlyReport(ctx)
	if err != nil {
		return nil, err
	}
	return s.SaveReport(ctx, userID, &dto.SaveReportRequest{
		Type:    ReportTypeMonthly,
		Content: renderReport(report),
	})
}

// renderReport 报告的纯文本形式
func renderReport(r *dto.MonthlyReport) string {
	var b strings.Builder
	b.WriteString(r.Title)
	b.WriteString("\n")
	for _, sec := range r.Sections {
		fmt.Fprintf(&b, "\n【%s】\n%s\n", sec.Title, sec.Content)
	}
	return b.String()
}

// ────────────────────── Analysis history ──────────────────────

func (s *experimentService) SaveAnalysis(ctx context.Context, userID uint, req *dto.SaveAnalysisRequest) (*model.AnalysisRecord, error) {
	rec := &model.AnalysisRecord{
		UserID:       userID,
		AnalysisType: strings.TrimSpace(req.AnalysisType),
		FileName:     req.FileName,
		Timestamp:    s.now().UTC(),
	}
	if err := s.repo.Experiment.CreateAnalysis(ctx, rec); err != nil {
		s.logger.Error("记录分析历史失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return rec, nil
}

func (s *experimentService) AnalysisHistory(ctx context.Context, userID uint) ([]model.AnalysisRecord, error) {
	list, err := s.repo.Experiment.ListAnalysis(ctx, userID)
	if err != nil {
		s.logger.Error("查询分析历史失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, classify(err, nil)
	}
	return list, nil
}
