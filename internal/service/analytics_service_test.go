package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/guregu/null/v5"
	"github.com/shopspring/decimal"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/pkg/mlkit"
)

func TestAnalytics_InsufficientData(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Analytics.PredictFutureExpenses(ctx, 3); !errors.Is(err, mlkit.ErrInsufficientData) {
		t.Errorf("无支出数据期望 ErrInsufficientData，实际: %v", err)
	}
	if _, err := env.svc.Analytics.AnalyzeProjectSuccess(ctx); !errors.Is(err, mlkit.ErrInsufficientData) {
		t.Errorf("无项目期望 ErrInsufficientData，实际: %v", err)
	}
	if _, err := env.svc.Analytics.AnalyzeUserBehavior(ctx); !errors.Is(err, mlkit.ErrInsufficientData) {
		t.Errorf("无用户期望 ErrInsufficientData，实际: %v", err)
	}

	needs, err := env.svc.Analytics.PredictInventoryNeeds(ctx)
	if err != nil {
		t.Fatalf("PredictInventoryNeeds 失败: %v", err)
	}
	if len(needs) != 0 {
		t.Errorf("无领用历史时不应有预测，实际=%d", len(needs))
	}

	insights, err := env.svc.Analytics.GenerateInsights(ctx)
	if err != nil {
		t.Fatalf("数据不足时 GenerateInsights 不应报错: %v", err)
	}
	if len(insights) != 0 {
		t.Errorf("数据不足时不应生成结论，实际=%v", insights)
	}
}

func TestPredictFutureExpenses(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "bob", "lab_manager")

	for m := 1; m <= 10; m++ {
		addTx(t, env, user.ID, "expense", int64(100*m), "耗材", fmt.Sprintf("2026-%02d-15", m))
	}

	forecast, err := env.svc.Analytics.PredictFutureExpenses(ctx, 3)
	if err != nil {
		t.Fatalf("PredictFutureExpenses 失败: %v", err)
	}
	wantMonths := []string{"2026-11", "2026-12", "2027-01"}
	if strings.Join(forecast.Months, ",") != strings.Join(wantMonths, ",") {
		t.Errorf("预测月份期望 %v，实际 %v", wantMonths, forecast.Months)
	}
	if len(forecast.Predictions) != 3 {
		t.Fatalf("期望 3 个预测值，实际=%d", len(forecast.Predictions))
	}
	for _, p := range forecast.Predictions {
		if p < 100 || p > 1000 {
			t.Errorf("随机森林预测应落在训练目标范围内，实际=%v", p)
		}
	}

	insights, err := env.svc.Analytics.GenerateInsights(ctx)
	if err != nil {
		t.Fatalf("GenerateInsights 失败: %v", err)
	}
	if len(insights) != 1 || !strings.HasPrefix(insights[0], "未来3个月的平均预计支出为 ¥") {
		t.Errorf("期望一条支出结论，实际=%v", insights)
	}
}

func TestPredictInventoryNeeds_RequiresLongHistory(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "researcher")
	long := addItem(t, env, "乙醇", "试剂", 1000)
	short := addItem(t, env, "丙酮", "试剂", 1000)

	inv := env.svc.Inventory.(*inventoryService)
	record := func(itemID uint, at time.Time, qty int) {
		inv.now = fixedClock(at)
		if _, err := inv.RecordUsage(ctx, user.ID, &dto.RecordUsageRequest{ItemID: itemID, Quantity: qty}); err != nil {
			t.Fatalf("RecordUsage 失败: %v", err)
		}
	}
	// 13 个月的历史才超过阈值 12
	for m := 0; m < 13; m++ {
		record(long.ID, time.Date(2025, time.Month(m+1), 10, 0, 0, 0, 0, time.UTC), 5+m)
	}
	for m := 0; m < 3; m++ {
		record(short.ID, time.Date(2026, time.Month(m+1), 10, 0, 0, 0, 0, time.UTC), 2)
	}

	needs, err := env.svc.Analytics.PredictInventoryNeeds(ctx)
	if err != nil {
		t.Fatalf("PredictInventoryNeeds 失败: %v", err)
	}
	if len(needs) != 1 || needs[0].ItemID != long.ID {
		t.Fatalf("只有历史超过 12 个月的物品参与预测，实际=%+v", needs)
	}
	if needs[0].Prediction <= 0 {
		t.Errorf("预测值应为正，实际=%v", needs[0].Prediction)
	}
}

func TestAnalyzeUserBehavior(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	users := make([]*model.User, 4)
	for i := range users {
		users[i] = createTestUser(t, env.repo, fmt.Sprintf("user%d", i), "student")
	}
	for i := 0; i < 6; i++ {
		addTx(t, env, users[3].ID, "expense", 1, "耗材", "2026-01-01")
	}
	addTx(t, env, users[2].ID, "expense", 1, "耗材", "2026-01-01")

	result, err := env.svc.Analytics.AnalyzeUserBehavior(ctx)
	if err != nil {
		t.Fatalf("AnalyzeUserBehavior 失败: %v", err)
	}
	if len(result.UserClusters) != 4 {
		t.Fatalf("每个用户都应分配群组，实际=%d", len(result.UserClusters))
	}
	if len(result.ClusterCenters) != 3 || len(result.ClusterCenters[0]) != 4 {
		t.Fatalf("期望 3 个四维中心，实际=%v", result.ClusterCenters)
	}

	// 中心还原为原始量纲，收支记录维度的最大值应接近 6
	maxTx := 0.0
	for _, c := range result.ClusterCenters {
		maxTx = math.Max(maxTx, c[0])
	}
	if math.Abs(maxTx-6) > 1e-6 {
		t.Errorf("最活跃群组中心的收支记录数应为 6，实际=%v", maxTx)
	}
}

func TestSimpleRegression(t *testing.T) {
	env := setupTestEnv(t)

	fit, err := env.svc.Analytics.SimpleRegression([]float64{1, 2, 3, 4}, []float64{3, 5, 7, 9})
	if err != nil {
		t.Fatalf("SimpleRegression 失败: %v", err)
	}
	if math.Abs(fit.Slope-2) > 1e-9 || math.Abs(fit.Intercept-1) > 1e-9 {
		t.Errorf("期望 y=2x+1，实际 slope=%v intercept=%v", fit.Slope, fit.Intercept)
	}
}

func TestProjectSucceeded(t *testing.T) {
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	base := func() model.ProjectSummary {
		return model.ProjectSummary{Project: model.Project{
			Status:      model.StatusCompleted,
			EndDate:     end,
			Budget:      decimal.NewFromInt(100),
			ActualCost:  decimal.NewFromInt(100),
			CompletedAt: null.TimeFrom(end.Add(15 * time.Hour)),
		}}
	}

	tests := []struct {
		name   string
		mutate func(p *model.ProjectSummary)
		want   bool
	}{
		{"结束日当天完成且未超支", func(p *model.ProjectSummary) {}, true},
		{"逾期完成", func(p *model.ProjectSummary) { p.CompletedAt = null.TimeFrom(end.AddDate(0, 0, 2)) }, false},
		{"超出预算", func(p *model.ProjectSummary) { p.ActualCost = decimal.NewFromInt(101) }, false},
		{"仍在进行", func(p *model.ProjectSummary) { p.Status = model.StatusInProgress }, false},
		{"缺少完成时间", func(p *model.ProjectSummary) { p.CompletedAt = null.Time{} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(&p)
			if got := projectSucceeded(p); got != tt.want {
				t.Errorf("期望 %v，实际 %v", tt.want, got)
			}
		})
	}
}

func TestMonthIndexRoundTrip(t *testing.T) {
	for _, m := range []string{"2025-12", "2026-01", "2026-07"} {
		idx, err := monthIndex(m)
		if err != nil {
			t.Fatalf("monthIndex(%s) 失败: %v", m, err)
		}
		if got := monthFromIndex(idx); got != m {
			t.Errorf("往返转换期望 %s，实际 %s", m, got)
		}
	}
	dec, _ := monthIndex("2025-12")
	jan, _ := monthIndex("2026-01")
	if jan-dec != 1 {
		t.Errorf("跨年月份序号应连续，实际差值=%d", jan-dec)
	}
}
