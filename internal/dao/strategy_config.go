package dao

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/utrading/utrading-stock-backtest/internal/filter"
	"github.com/utrading/utrading-stock-backtest/internal/models"
	"github.com/utrading/utrading-stock-backtest/internal/monitor"
	"github.com/utrading/utrading-stock-backtest/internal/strategy"
)

// ErrDuplicateName 策略配置名重复
var ErrDuplicateName = errors.New("策略配置名已存在")

// StrategyConfigDAO 命名策略配置管理。
// 读多写少，Get 走 TTL 缓存，写操作使缓存失效。
type StrategyConfigDAO struct {
	db    *gorm.DB
	cache *gocache.Cache
}

var (
	_strategyConfig     *StrategyConfigDAO
	_strategyConfigOnce sync.Once
)

// InitStrategyConfigDAO 初始化 StrategyConfigDAO
func InitStrategyConfigDAO(db *gorm.DB, cacheTTL time.Duration) {
	_strategyConfigOnce.Do(func() {
		if cacheTTL <= 0 {
			cacheTTL = 5 * time.Minute
		}
		_strategyConfig = &StrategyConfigDAO{
			db:    db,
			cache: gocache.New(cacheTTL, cacheTTL*2),
		}
	})
}

// StrategyConfig 获取 StrategyConfigDAO 单例
func StrategyConfig() *StrategyConfigDAO {
	return _strategyConfig
}

// validate 在任何写入前校验：策略存在、过滤 key 在白名单内
func (d *StrategyConfigDAO) validate(strategyName string, cfg filter.Config) error {
	if _, err := strategy.Get(strategyName); err != nil {
		return err
	}
	return filter.ValidateConfig(strategyName, cfg)
}

// Create 创建命名策略配置，名称全局唯一
func (d *StrategyConfigDAO) Create(strategyName, name string, cfg filter.Config) (*models.BacktestStrategy, error) {
	if err := d.validate(strategyName, cfg); err != nil {
		return nil, err
	}

	var count int64
	if err := d.db.Model(&models.BacktestStrategy{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	filtersJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal filters failed: %w", err)
	}

	rec := &models.BacktestStrategy{
		StrategyName: strategyName,
		Name:         name,
		Filters:      datatypes.JSON(filtersJSON),
	}
	if err = d.db.Create(rec).Error; err != nil {
		return nil, err
	}

	return rec, nil
}

// Update 更新策略配置的过滤器
func (d *StrategyConfigDAO) Update(id uint, cfg filter.Config) (*models.BacktestStrategy, error) {
	var rec models.BacktestStrategy
	if err := d.db.First(&rec, id).Error; err != nil {
		return nil, err
	}

	if err := d.validate(rec.StrategyName, cfg); err != nil {
		return nil, err
	}

	filtersJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal filters failed: %w", err)
	}

	rec.Filters = datatypes.JSON(filtersJSON)
	if err = d.db.Save(&rec).Error; err != nil {
		return nil, err
	}

	d.cache.Delete(cacheKey(id))
	return &rec, nil
}

// Delete 删除策略配置
func (d *StrategyConfigDAO) Delete(id uint) error {
	if err := d.db.Delete(&models.BacktestStrategy{}, id).Error; err != nil {
		return err
	}
	d.cache.Delete(cacheKey(id))
	return nil
}

// Get 按 ID 查询策略配置，带 TTL 缓存
func (d *StrategyConfigDAO) Get(id uint) (*models.BacktestStrategy, error) {
	if cached, ok := d.cache.Get(cacheKey(id)); ok {
		monitor.IncStrategyCache("hit")
		return cached.(*models.BacktestStrategy), nil
	}
	monitor.IncStrategyCache("miss")

	var rec models.BacktestStrategy
	if err := d.db.First(&rec, id).Error; err != nil {
		return nil, err
	}

	d.cache.Set(cacheKey(id), &rec, gocache.DefaultExpiration)
	return &rec, nil
}

// List 查询某个策略变体下的全部命名配置
func (d *StrategyConfigDAO) List(strategyName string) ([]*models.BacktestStrategy, error) {
	var rows []*models.BacktestStrategy
	q := d.db.Order("id")
	if strategyName != "" {
		q = q.Where("strategy_name = ?", strategyName)
	}
	err := q.Find(&rows).Error
	return rows, err
}

// Filters 解析策略配置里存储的过滤配置
func (d *StrategyConfigDAO) Filters(rec *models.BacktestStrategy) (filter.Config, error) {
	return filter.FromJSON(string(rec.Filters))
}

// FiltersForDisplay 有 id 则从 DB 加载对应策略的过滤配置，否则返回默认值
func (d *StrategyConfigDAO) FiltersForDisplay(strategyName string, id *uint) filter.Config {
	if id != nil {
		rec, err := d.Get(*id)
		if err == nil && rec.StrategyName == strategyName && len(rec.Filters) > 0 {
			if cfg, err := d.Filters(rec); err == nil {
				return cfg
			}
		}
	}
	return filter.DefaultDisplayFilters(strategyName)
}

func cacheKey(id uint) string {
	return fmt.Sprintf("bs:%d", id)
}
