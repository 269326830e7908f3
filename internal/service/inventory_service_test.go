package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
)

func addItem(t *testing.T, env *testEnv, name, category string, qty int) *model.InventoryItem {
	t.Helper()
	item, err := env.svc.Inventory.AddItem(context.Background(), &dto.CreateItemRequest{
		Name: name, Category: category, Quantity: qty, Unit: "个",
	})
	if err != nil {
		t.Fatalf("AddItem 失败: %v", err)
	}
	return item
}

func TestAddItem_ListReturnsSingleRow(t *testing.T) {
	env := setupTestEnv(t)
	addItem(t, env, "烧杯", "玻璃器皿", 20)

	items, err := env.svc.Inventory.ListItems(context.Background())
	if err != nil {
		t.Fatalf("ListItems 失败: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("期望 1 条记录，实际=%d", len(items))
	}
	if items[0].Name != "烧杯" || items[0].Quantity != 20 || items[0].Unit != "个" {
		t.Errorf("记录内容不符: %+v", items[0])
	}
}

func TestRecordUsage_DecrementsWithoutFloor(t *testing.T) {
	tests := []struct {
		name string
		use  int
		want int
	}{
		{"恰好用完", 5, 0},
		{"超量领用变为负数", 6, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			ctx := context.Background()
			user := createTestUser(t, env.repo, "alice", "researcher")
			item := addItem(t, env, "手套", "耗材", 5)

			usage, err := env.svc.Inventory.RecordUsage(ctx, user.ID, &dto.RecordUsageRequest{ItemID: item.ID, Quantity: tt.use})
			if err != nil {
				t.Fatalf("RecordUsage 失败: %v", err)
			}
			if usage.ID == 0 {
				t.Error("领用记录应已写入")
			}

			got, err := env.svc.Inventory.GetItem(ctx, item.ID)
			if err != nil {
				t.Fatalf("GetItem 失败: %v", err)
			}
			if got.Quantity != tt.want {
				t.Errorf("期望库存=%d，实际=%d", tt.want, got.Quantity)
			}
		})
	}
}

func TestRecordUsage_ItemNotFound(t *testing.T) {
	env := setupTestEnv(t)
	user := createTestUser(t, env.repo, "alice", "researcher")

	_, err := env.svc.Inventory.RecordUsage(context.Background(), user.ID, &dto.RecordUsageRequest{ItemID: 999, Quantity: 1})
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("期望 ErrItemNotFound，实际: %v", err)
	}

	records, err := env.svc.Inventory.ListUsageRecords(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListUsageRecords 失败: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("事务回滚后不应有领用记录，实际=%d", len(records))
	}
}

func TestLowStock_DefaultThreshold(t *testing.T) {
	env := setupTestEnv(t)
	addItem(t, env, "滤纸", "耗材", 3)
	addItem(t, env, "试管", "玻璃器皿", 10)
	addItem(t, env, "移液枪", "equipment", 50)

	low, err := env.svc.Inventory.LowStock(context.Background(), 0)
	if err != nil {
		t.Fatalf("LowStock 失败: %v", err)
	}
	if len(low) != 1 || low[0].Name != "滤纸" {
		t.Errorf("阈值 10 下只有滤纸低于阈值，实际=%+v", low)
	}
}

func TestDeleteItem_NotFound(t *testing.T) {
	env := setupTestEnv(t)
	err := env.svc.Inventory.DeleteItem(context.Background(), 42)
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("期望 ErrItemNotFound，实际: %v", err)
	}
}

func TestUsageHistory_FillsGapMonths(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "researcher")
	item := addItem(t, env, "乙醇", "试剂", 100)

	inv := env.svc.Inventory.(*inventoryService)
	for _, u := range []struct {
		at  time.Time
		qty int
	}{
		{time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC), 2},
		{time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC), 3},
		{time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), 4},
	} {
		inv.now = fixedClock(u.at)
		if _, err := inv.RecordUsage(ctx, user.ID, &dto.RecordUsageRequest{ItemID: item.ID, Quantity: u.qty}); err != nil {
			t.Fatalf("RecordUsage 失败: %v", err)
		}
	}

	histories, err := inv.UsageHistory(ctx)
	if err != nil {
		t.Fatalf("UsageHistory 失败: %v", err)
	}
	if len(histories) != 1 {
		t.Fatalf("期望 1 个物品的历史，实际=%d", len(histories))
	}
	h := histories[0]
	wantMonths := []string{"2026-01", "2026-02", "2026-03"}
	wantUsage := []float64{5, 0, 4}
	if len(h.Months) != len(wantMonths) {
		t.Fatalf("期望月份 %v，实际 %v", wantMonths, h.Months)
	}
	for i := range wantMonths {
		if h.Months[i] != wantMonths[i] || h.UsageHistory[i] != wantUsage[i] {
			t.Errorf("第 %d 个月期望 %s=%v，实际 %s=%v", i, wantMonths[i], wantUsage[i], h.Months[i], h.UsageHistory[i])
		}
	}
}

func TestEquipmentUsageRate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.repo, "alice", "researcher")
	scope := addItem(t, env, "显微镜", model.CategoryEquipment, 1)
	addItem(t, env, "离心机", model.CategoryEquipment, 1)

	inv := env.svc.Inventory.(*inventoryService)
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		inv.now = fixedClock(start.AddDate(0, 0, i))
		if _, err := inv.RecordUsage(ctx, user.ID, &dto.RecordUsageRequest{ItemID: scope.ID, Quantity: 1}); err != nil {
			t.Fatalf("RecordUsage 失败: %v", err)
		}
	}
	inv.now = fixedClock(start.AddDate(0, 0, 8))

	rates, err := inv.EquipmentUsageRate(ctx)
	if err != nil {
		t.Fatalf("EquipmentUsageRate 失败: %v", err)
	}
	if len(rates) != 2 {
		t.Fatalf("期望 2 台设备，实际=%d", len(rates))
	}
	if rates[0].ItemID != scope.ID || rates[0].Uses != 4 || rates[0].UsageRate != 0.5 {
		t.Errorf("显微镜期望 4 次 / 8 天 = 0.5，实际=%+v", rates[0])
	}
	if rates[1].Uses != 0 || rates[1].UsageRate != 0 {
		t.Errorf("未使用设备使用率应为 0，实际=%+v", rates[1])
	}
}

func buildImportFile(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("计算单元格坐标失败: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("写入测试行失败: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("生成测试 Excel 失败: %v", err)
	}
	return buf
}

func TestImportItems_FromExcel(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	buf := buildImportFile(t, [][]interface{}{
		{"名称", "类别", "数量", "单位"},
		{"丙酮", "试剂", "12", "瓶"},
		{"", "试剂", "3", "瓶"},
		{"量筒", "玻璃器皿", "abc", "个"},
		{"胶头滴管", "耗材", "", "支"},
	})

	rows, err := env.svc.Inventory.ParseImportFile(buf)
	if err != nil {
		t.Fatalf("ParseImportFile 失败: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("期望解析出 4 行，实际=%d", len(rows))
	}

	result, err := env.svc.Inventory.ImportItems(ctx, rows)
	if err != nil {
		t.Fatalf("ImportItems 失败: %v", err)
	}
	if result.Total != 4 || result.Success != 2 || result.Failed != 2 {
		t.Errorf("期望 4/2/2，实际 total=%d success=%d failed=%d", result.Total, result.Success, result.Failed)
	}
	if len(result.Errors) != 2 || result.Errors[0].Row != 3 || result.Errors[1].Row != 4 {
		t.Errorf("错误行号不符: %+v", result.Errors)
	}

	items, err := env.svc.Inventory.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems 失败: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("期望写入 2 条，实际=%d", len(items))
	}
}

func TestParseImportFile_BadHeader(t *testing.T) {
	env := setupTestEnv(t)
	buf := buildImportFile(t, [][]interface{}{
		{"名称", "数量"},
		{"丙酮", "1"},
	})
	if _, err := env.svc.Inventory.ParseImportFile(buf); !errors.Is(err, ErrImportBadHeader) {
		t.Errorf("期望 ErrImportBadHeader，实际: %v", err)
	}
}

func TestInventoryReport(t *testing.T) {
	env := setupTestEnv(t)
	addItem(t, env, "烧杯", "玻璃器皿", 20)
	addItem(t, env, "试管", "玻璃器皿", 5)
	addItem(t, env, "手套", "耗材", 30)

	report, err := env.svc.Inventory.InventoryReport(context.Background())
	if err != nil {
		t.Fatalf("InventoryReport 失败: %v", err)
	}
	if report.TotalItems != 3 || report.TotalQuantity != 55 {
		t.Errorf("期望 3 种 55 件，实际 %d 种 %d 件", report.TotalItems, report.TotalQuantity)
	}
	if report.ByCategory["玻璃器皿"] != 25 {
		t.Errorf("玻璃器皿合计应为 25，实际=%d", report.ByCategory["玻璃器皿"])
	}
	if len(report.LowStock) != 1 {
		t.Errorf("期望 1 个低库存物品，实际=%d", len(report.LowStock))
	}
}
