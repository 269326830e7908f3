package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/guoyuhou/NewLab/internal/model"
)

// UsageFilter 领用记录查询条件，零值表示不限
type UsageFilter struct {
	Category string
	ItemID   uint
	Limit    int
}

// InventoryRepository 库存数据访问接口
type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	CreateBatch(ctx context.Context, items []model.InventoryItem) error
	GetByID(ctx context.Context, id uint) (*model.InventoryItem, error)
	List(ctx context.Context, category string) ([]model.InventoryItem, error)
	UpdateQuantity(ctx context.Context, id uint, quantity int) error
	// AdjustQuantity 在数据库端执行 quantity = quantity + delta，不做下限保护
	AdjustQuantity(ctx context.Context, id uint, delta int) error
	Delete(ctx context.Context, id uint) error
	LowStock(ctx context.Context, threshold int) ([]model.InventoryItem, error)

	CreateUsage(ctx context.Context, usage *model.InventoryUsage) error
	// ListUsage 领用明细，按时间倒序
	ListUsage(ctx context.Context, filter UsageFilter) ([]model.UsageRecord, error)
}

type inventoryRepo struct {
	db *gorm.DB
}

// NewInventoryRepo 创建 InventoryRepository 实例
func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db: db}
}

func (r *inventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepo) CreateBatch(ctx context.Context, items []model.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(items, 100).Error
}

func (r *inventoryRepo) GetByID(ctx context.Context, id uint) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) List(ctx context.Context, category string) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	db := r.db.WithContext(ctx)
	if category != "" {
		db = db.Where("category = ?", category)
	}
	err := db.Order("id ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Update("quantity", quantity))
}

func (r *inventoryRepo) AdjustQuantity(ctx context.Context, id uint, delta int) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)))
}

func (r *inventoryRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&model.InventoryItem{}, id))
}

func (r *inventoryRepo) LowStock(ctx context.Context, threshold int) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("quantity < ?", threshold).
		Order("quantity ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *inventoryRepo) CreateUsage(ctx context.Context, usage *model.InventoryUsage) error {
	return r.db.WithContext(ctx).Create(usage).Error
}

func (r *inventoryRepo) ListUsage(ctx context.Context, filter UsageFilter) ([]model.UsageRecord, error) {
	var rows []model.UsageRecord
	db := r.db.WithContext(ctx).
		Table("inventory_usage AS iu").
		Select("iu.id, iu.item_id, COALESCE(u.username, '') AS username, i.name AS item_name, iu.quantity, i.unit, iu.timestamp").
		Joins("JOIN inventory_items i ON i.id = iu.item_id").
		Joins("LEFT JOIN users u ON u.id = iu.user_id")

	if filter.Category != "" {
		db = db.Where("i.category = ?", filter.Category)
	}
	if filter.ItemID != 0 {
		db = db.Where("iu.item_id = ?", filter.ItemID)
	}
	if filter.Limit > 0 {
		db = db.Limit(filter.Limit)
	}

	err := db.Order("iu.timestamp DESC, iu.id DESC").Scan(&rows).Error
	return rows, err
}
