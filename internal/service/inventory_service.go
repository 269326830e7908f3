package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/config"
	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/model"
	"github.com/guoyuhou/NewLab/internal/repository"
)

// ── 库存模块业务错误 ──

var (
	ErrItemNotFound = errors.New("库存物品不存在")
)

// InventoryService 库存业务接口
type InventoryService interface {
	AddItem(ctx context.Context, req *dto.CreateItemRequest) (*model.InventoryItem, error)
	ListItems(ctx context.Context) ([]model.InventoryItem, error)
	GetItem(ctx context.Context, id uint) (*model.InventoryItem, error)
	UpdateQuantity(ctx context.Context, id uint, quantity int) error
	DeleteItem(ctx context.Context, id uint) error
	// LowStock 数量严格小于阈值的物品，threshold<=0 时使用配置默认值
	LowStock(ctx context.Context, threshold int) ([]model.InventoryItem, error)
	// RecordUsage 登记领用并扣减库存，不做下限保护
	RecordUsage(ctx context.Context, userID uint, req *dto.RecordUsageRequest) (*model.InventoryUsage, error)
	ListUsageRecords(ctx context.Context, limit int) ([]model.UsageRecord, error)
	EquipmentUsageRate(ctx context.Context) ([]dto.EquipmentUsageRate, error)
	InventoryReport(ctx context.Context) (*dto.InventoryReport, error)
	UsageHistory(ctx context.Context) ([]dto.UsageHistory, error)
	ParseImportFile(reader io.Reader) ([]ImportItemRow, error)
	ImportItems(ctx context.Context, rows []ImportItemRow) (*dto.ImportResult, error)
}

// ImportItemRow Excel 导入解析后的单行数据
type ImportItemRow struct {
	Row      int
	Name     string
	Category string
	Quantity string
	Unit     string
}

const defaultUsageRecordLimit = 20

type inventoryService struct {
	repo   *repository.Repository
	cfg    *config.AnalyticsConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewInventoryService 创建 InventoryService 实例
func NewInventoryService(repo *repository.Repository, cfg *config.AnalyticsConfig, logger *zap.Logger) InventoryService {
	return &inventoryService{repo: repo, cfg: cfg, logger: logger, now: time.Now}
}

// ────────────────────── AddItem ──────────────────────

func (s *inventoryService) AddItem(ctx context.Context, req *dto.CreateItemRequest) (*model.InventoryItem, error) {
	item := &model.InventoryItem{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		Quantity: req.Quantity,
		Unit:     strings.TrimSpace(req.Unit),
		Status:   model.ItemStatusAvailable,
	}
	if err := s.repo.Inventory.Create(ctx, item); err != nil {
		s.logger.Error("新增库存物品失败", zap.String("name", item.Name), zap.Error(err))
		return nil, classify(err, nil)
	}
	return item, nil
}

// ────────────────────── ListItems / GetItem ──────────────────────

func (s *inventoryService) ListItems(ctx context.Context) ([]model.InventoryItem, error) {
	items, err := s.repo.Inventory.List(ctx, "")
	if err != nil {
		s.logger.Error("查询库存列表失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return items, nil
}

func (s *inventoryService) GetItem(ctx context.Context, id uint) (*model.InventoryItem, error) {
	item, err := s.repo.Inventory.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, ErrItemNotFound)
	}
	return item, nil
}

// ────────────────────── UpdateQuantity / DeleteItem ──────────────────────

func (s *inventoryService) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	if err := s.repo.Inventory.UpdateQuantity(ctx, id, quantity); err != nil {
		err = classify(err, ErrItemNotFound)
		if !errors.Is(err, ErrItemNotFound) {
			s.logger.Error("更新库存数量失败", zap.Uint("id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id uint) error {
	if err := s.repo.Inventory.Delete(ctx, id); err != nil {
		err = classify(err, ErrItemNotFound)
		if !errors.Is(err, ErrItemNotFound) {
			s.logger.Error("删除库存物品失败", zap.Uint("id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

// ────────────────────── LowStock ──────────────────────

func (s *inventoryService) LowStock(ctx context.Context, threshold int) ([]model.InventoryItem, error) {
	if threshold <= 0 {
		threshold = s.cfg.LowStockThreshold
	}
	items, err := s.repo.Inventory.LowStock(ctx, threshold)
	if err != nil {
		s.logger.Error("查询低库存物品失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return items, nil
}

// ────────────────────── RecordUsage ──────────────────────

func (s *inventoryService) RecordUsage(ctx context.Context, userID uint, req *dto.RecordUsageRequest) (*model.InventoryUsage, error) {
	usage := &model.InventoryUsage{
		UserID:    userID,
		ItemID:    req.ItemID,
		Quantity:  req.Quantity,
		Timestamp: s.now().UTC(),
	}

	// 领用记录与库存扣减在同一事务内
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Inventory.GetByID(ctx, req.ItemID); err != nil {
			return err
		}
		if err := tx.Inventory.CreateUsage(ctx, usage); err != nil {
			return err
		}
		return tx.Inventory.AdjustQuantity(ctx, req.ItemID, -req.Quantity)
	})
	if err != nil {
		err = classify(err, ErrItemNotFound)
		if !errors.Is(err, ErrItemNotFound) {
			s.logger.Error("登记领用失败",
				zap.Uint("item_id", req.ItemID),
				zap.Int("quantity", req.Quantity),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.logger.Info("库存领用",
		zap.Uint("item_id", req.ItemID),
		zap.Uint("user_id", userID),
		zap.Int("quantity", req.Quantity),
	)
	return usage, nil
}

func (s *inventoryService) ListUsageRecords(ctx context.Context, limit int) ([]model.UsageRecord, error) {
	if limit <= 0 {
		limit = defaultUsageRecordLimit
	}
	rows, err := s.repo.Inventory.ListUsage(ctx, repository.UsageFilter{Limit: limit})
	if err != nil {
		s.logger.Error("查询领用记录失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	return rows, nil
}

// ────────────────────── EquipmentUsageRate ──────────────────────

// EquipmentUsageRate 使用次数除以自首次使用以来的天数（不足一天按一天计），按使用率降序
func (s *inventoryService) EquipmentUsageRate(ctx context.Context) ([]dto.EquipmentUsageRate, error) {
	items, err := s.repo.Inventory.List(ctx, model.CategoryEquipment)
	if err != nil {
		s.logger.Error("查询设备列表失败", zap.Error(err))
		return nil, classify(err, nil)
	}
	usages, err := s.repo.Inventory.ListUsage(ctx, repository.UsageFilter{Category: model.CategoryEquipment})
	if err != nil {
		s.logger.Error("查询设备领用记录失败", zap.Error(err))
		return nil, classify(err, nil)
	}

	byItem := lo.GroupBy(usages, func(u model.UsageRecord) uint { return u.ItemID })
	now := s.now().UTC()

	rates := lo.Map(items, func(item model.InventoryItem, _ int) dto.EquipmentUsageRate {
		rate := dto.EquipmentUsageRate{ItemID: item.ID, Name: item.Name}
		records := byItem[item.ID]
		if len(records) == 0 {
			return rate
		}
		first := lo.MinBy(records, func(a, b model.UsageRecord) bool {
			return a.Timestamp.Before(b.Timestamp)
		})
		days := int(now.Sub(first.Timestamp).Hours() / 24)
		if days < 1 {
			days = 1
		}
		rate.Uses = len(records)
		rate.UsageRate = round2(float64(rate.Uses) / float64(days))
		return rate
	})

	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].UsageRate > rates[j].UsageRate
	})
	return rates, nil
}

// ────────────────────── InventoryReport ──────────────────────

func (s *inventoryService) InventoryReport(ctx context.Context) (*dto.InventoryReport, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	threshold := s.cfg.LowStockThreshold
	report := &dto.InventoryReport{
		TotalItems: len(items),
		ByCategory: make(map[string]int),
		LowStock:   lo.Filter(items, func(i model.InventoryItem, _ int) bool { return i.Quantity < threshold }),
		Items:      items,
	}
	for _, item := range items {
		report.TotalQuantity += item.Quantity
		report.ByCategory[item.Category] += item.Quantity
	}
	return report, nil
}

// ────────────────────── UsageHistory ──────────────────────

// UsageHistory 每个物品按月汇总的领用量，月份升序，中间缺失的月份补零
func (s *inventoryService) UsageHistory(ctx context.Context) ([]dto.UsageHistory, error) {
	usages, err := s.repo.Inventory.ListUsage(ctx, repository.UsageFilter{})
	if err != nil {
		s.logger.Error("查询领用记录失败", zap.Error(err))
		return nil, classify(err, nil)
	}

	byItem := lo.GroupBy(usages, func(u model.UsageRecord) uint { return u.ItemID })
	ids := lo.Keys(byItem)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	histories := make([]dto.UsageHistory, 0, len(ids))
	for _, id := range ids {
		records := byItem[id]
		totals := make(map[string]float64)
		first, last := monthStart(records[0].Timestamp), monthStart(records[0].Timestamp)
		for _, r := range records {
			m := monthStart(r.Timestamp)
			totals[m.Format(model.MonthLayout)] += float64(r.Quantity)
			if m.Before(first) {
				first = m
			}
			if m.After(last) {
				last = m
			}
		}

		h := dto.UsageHistory{ItemID: id, Name: records[0].ItemName}
		for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
			key := m.Format(model.MonthLayout)
			h.Months = append(h.Months, key)
			h.UsageHistory = append(h.UsageHistory, totals[key])
		}
		histories = append(histories, h)
	}
	return histories, nil
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（名称/类别/数量/单位）")
	ErrImportBadFile     = errors.New("无法解析Excel文件")
)

// ParseImportFile 解析库存导入 Excel 文件，返回解析后的行数据
func (s *inventoryService) ParseImportFile(reader io.Reader) ([]ImportItemRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: 读取工作表失败: %v", ErrImportBadFile, err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	for _, key := range []string{"name", "category", "quantity", "unit"} {
		if colIndex[key] < 0 {
			return nil, ErrImportBadHeader
		}
	}

	cell := func(row []string, key string) string {
		if idx := colIndex[key]; idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportItemRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportItemRow{
			Row:      i + 1,
			Name:     cell(row, "name"),
			Category: cell(row, "category"),
			Quantity: cell(row, "quantity"),
			Unit:     cell(row, "unit"),
		}

		// 跳过全空行
		if item.Name == "" && item.Category == "" && item.Quantity == "" && item.Unit == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"name":     -1,
		"category": -1,
		"quantity": -1,
		"unit":     -1,
	}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch {
		case lower == "名称" || lower == "name":
			idx["name"] = i
		case lower == "类别" || lower == "category":
			idx["category"] = i
		case lower == "数量" || lower == "quantity":
			idx["quantity"] = i
		case lower == "单位" || lower == "unit":
			idx["unit"] = i
		}
	}
	return idx
}

// ────────────────────── ImportItems ──────────────────────

func (s *inventoryService) ImportItems(ctx context.Context, rows []ImportItemRow) (*dto.ImportResult, error) {
	resp := &dto.ImportResult{Total: len(rows)}

	// 第一阶段：逐行校验
	valid := make([]model.InventoryItem, 0, len(rows))
	for _, row := range rows {
		reason := ""
		qty, err := strconv.Atoi(row.Quantity)
		switch {
		case row.Name == "":
			reason = "名称不能为空"
		case row.Category == "":
			reason = "类别不能为空"
		case row.Unit == "":
			reason = "单位不能为空"
		case row.Quantity == "":
			qty = 0
		case err != nil:
			reason = fmt.Sprintf("数量格式错误: %s", row.Quantity)
		}
		if reason != "" {
			resp.Errors = append(resp.Errors, dto.ImportError{Row: row.Row, Reason: reason})
			continue
		}

		valid = append(valid, model.InventoryItem{
			Name:     row.Name,
			Category: row.Category,
			Quantity: qty,
			Unit:     row.Unit,
			Status:   model.ItemStatusAvailable,
		})
	}

	// 第二阶段：批量写入
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return tx.Inventory.CreateBatch(ctx, valid)
	})
	if err != nil {
		s.logger.Error("批量导入库存失败", zap.Int("rows", len(valid)), zap.Error(err))
		return nil, classify(err, nil)
	}

	resp.Success = len(valid)
	resp.Failed = len(resp.Errors)
	s.logger.Info("库存批量导入完成",
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}
