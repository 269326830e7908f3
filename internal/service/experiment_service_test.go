package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/pkg/mlkit"
)

func TestExperiments_OwnerDelete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	owner := createTestUser(t, env.repo, "alice", "researcher")
	other := createTestUser(t, env.repo, "bob", "researcher")

	exp, err := env.svc.Experiment.CreateExperiment(ctx, owner.ID, &dto.CreateExperimentRequest{
		Name: "XRD 表征", Data: "2θ,强度", Date: "2026-04-02",
	})
	if err != nil {
		t.Fatalf("CreateExperiment 失败: %v", err)
	}

	removed, err := env.svc.Experiment.DeleteExperiment(ctx, exp.ID, other.ID)
	if err != nil {
		t.Fatalf("DeleteExperiment 失败: %v", err)
	}
	if removed {
		t.Error("非本人不应删除成功")
	}

	removed, err = env.svc.Experiment.DeleteExperiment(ctx, exp.ID, owner.ID)
	if err != nil {
		t.Fatalf("DeleteExperiment 失败: %v", err)
	}
	if !removed {
		t.Error("本人删除应返回 true")
	}

	list, err := env.svc.Experiment.ListExperiments(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListExperiments 失败: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("删除后不应有记录，实际=%d", len(list))
	}

	if _, err := env.svc.Experiment.CreateExperiment(ctx, owner.ID, &dto.CreateExperimentRequest{Name: "x", Date: "04/02/2026"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("非法日期期望 ErrInvalidDate，实际: %v", err)
	}
}

func TestAnalyzeExperiment(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	owner := createTestUser(t, env.repo, "alice", "researcher")
	other := createTestUser(t, env.repo, "bob", "researcher")

	create := func(data string) uint {
		t.Helper()
		exp, err := env.svc.Experiment.CreateExperiment(ctx, owner.ID, &dto.CreateExperimentRequest{
			Name: "催化活性对比", Data: data, Date: "2026-05-11",
		})
		if err != nil {
			t.Fatalf("CreateExperiment 失败: %v", err)
		}
		return exp.ID
	}

	groupedID := create(`[{"group":"A","value":1,"temp":20},{"group":"A","value":2,"temp":21},{"group":"A","value":3,"temp":22},
		{"group":"B","value":4,"temp":23},{"group":"B","value":5,"temp":24},{"group":"B","value":6,"temp":25}]`)

	res, err := env.svc.Experiment.AnalyzeExperiment(ctx, groupedID, owner.ID)
	if err != nil {
		t.Fatalf("AnalyzeExperiment 失败: %v", err)
	}
	if res.Rows != 6 || len(res.Summary) != 2 {
		t.Errorf("期望 6 行、2 个数值列，实际 rows=%d cols=%d", res.Rows, len(res.Summary))
	}
	if res.TTest == nil || res.TTest.Groups != [2]string{"A", "B"} {
		t.Errorf("期望对 A、B 两组做 t 检验，实际: %+v", res.TTest)
	}

	tests := []struct {
		name    string
		id      uint
		userID  uint
		wantErr error
	}{
		{"他人的实验", groupedID, other.ID, ErrExperimentNotFound},
		{"不存在的实验", 9999, owner.ID, ErrExperimentNotFound},
		{"数据不是 JSON 表格", create("2θ,强度"), owner.ID, mlkit.ErrMalformedData},
		{"没有数据", create(""), owner.ID, mlkit.ErrInsufficientData},
		{"没有数值列", create(`[{"note":"颜色变深"}]`), owner.ID, mlkit.ErrInsufficientData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.svc.Experiment.AnalyzeExperiment(ctx, tt.id, tt.userID); !errors.Is(err, tt.wantErr) {
				t.Errorf("期望 %v，实际: %v", tt.wantErr, err)
			}
		})
	}

	got, err := env.svc.Experiment.GetExperiment(ctx, groupedID, owner.ID)
	if err != nil {
		t.Fatalf("GetExperiment 失败: %v", err)
	}
	if !strings.Contains(got.Data, `"group":"A"`) {
		t.Errorf("GetExperiment 应返回原始数据，实际: %s", got.Data)
	}
}

func TestMonthlyReport_Sections(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "lab_manager")
	env.svc.Experiment.(*experimentService).now = fixedClock(time.Date(2026, 4, 30, 9, 0, 0, 0, time.UTC))

	addItem(t, env, "烧杯", "玻璃器皿", 20)
	addTx(t, env, user.ID, "income", 500, "经费", "2026-04-01")
	addTx(t, env, user.ID, "expense", 120, "耗材", "2026-04-02")
	createProject(t, env, user.ID, "项目一", "2026-01-01", "2026-12-31", 1000)

	report, err := env.svc.Experiment.MonthlyReport(ctx)
	if err != nil {
		t.Fatalf("MonthlyReport 失败: %v", err)
	}
	if report.Title != "实验室月度报告 - 2026年04月" {
		t.Errorf("标题不符: %s", report.Title)
	}

	titles := make([]string, len(report.Sections))
	for i, s := range report.Sections {
		titles[i] = s.Title
	}
	if strings.Join(titles, ",") != "库存概况,财务概况,项目进展,未来支出预测" {
		t.Errorf("章节顺序不符: %v", titles)
	}
	if report.Sections[1].Content != "总收入: ¥500.00\n总支出: ¥120.00\n结余: ¥380.00" {
		t.Errorf("财务概况不符: %q", report.Sections[1].Content)
	}
	// 只有一个月的支出数据，预测章节给出提示而不报错
	if report.Sections[3].Data != nil || !strings.Contains(report.Sections[3].Content, "数据不足") {
		t.Errorf("数据不足时预测章节应为提示文本，实际=%+v", report.Sections[3])
	}
}

func TestMonthlyReport_WithForecast(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "lab_manager")

	for m := 1; m <= 6; m++ {
		if _, err := env.svc.Finance.AddTransaction(ctx, user.ID, &dto.CreateTransactionRequest{
			Type: "expense", Amount: decimal.NewFromInt(100), Category: "耗材",
			Date: time.Date(2026, time.Month(m), 5, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		}); err != nil {
			t.Fatalf("AddTransaction 失败: %v", err)
		}
	}

	report, err := env.svc.Experiment.MonthlyReport(ctx)
	if err != nil {
		t.Fatalf("MonthlyReport 失败: %v", err)
	}
	// 各月支出相同，预测总额为 3 × 100
	if got := report.Sections[3].Content; got != "未来3个月预计支出: ¥300.00" {
		t.Errorf("预测章节不符: %q", got)
	}
}

func TestSaveMonthlyReport_AndHistory(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "lab_manager")
	env.svc.Experiment.(*experimentService).now = fixedClock(time.Date(2026, 4, 30, 9, 0, 0, 0, time.UTC))

	rep, err := env.svc.Experiment.SaveMonthlyReport(ctx, user.ID)
	if err != nil {
		t.Fatalf("SaveMonthlyReport 失败: %v", err)
	}
	if rep.Type != ReportTypeMonthly || rep.Date != "2026-04-30" {
		t.Errorf("报告类型或日期不符: %+v", rep)
	}
	if !strings.HasPrefix(rep.Content, "实验室月度报告 - 2026年04月") || !strings.Contains(rep.Content, "【财务概况】") {
		t.Errorf("报告文本不符: %q", rep.Content)
	}

	history, err := env.svc.Experiment.HistoricalReports(ctx, user.ID)
	if err != nil {
		t.Fatalf("HistoricalReports 失败: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("期望 1 份历史报告，实际=%d", len(history))
	}
}

func TestAnalysisHistory(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "researcher")

	for _, kind := range []string{"描述性统计", "相关性分析"} {
		if _, err := env.svc.Experiment.SaveAnalysis(ctx, user.ID, &dto.SaveAnalysisRequest{AnalysisType: kind, FileName: "data.csv"}); err != nil {
			t.Fatalf("SaveAnalysis 失败: %v", err)
		}
	}
	list, err := env.svc.Experiment.AnalysisHistory(ctx, user.ID)
	if err != nil {
		t.Fatalf("AnalysisHistory 失败: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("期望 2 条分析记录，实际=%d", len(list))
	}
}
