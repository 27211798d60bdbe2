package cleaner

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/utrading/utrading-stock-backtest/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(&models.BacktestRun{}, &models.BacktestTrade{}, &models.BacktestEquity{})
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func seedRun(t *testing.T, db *gorm.DB, age time.Duration) uint {
	t.Helper()

	run := &models.BacktestRun{StrategyName: "mighty", StartDate: "20250101", EndDate: "20250131"}
	if err := db.Create(run).Error; err != nil {
		t.Fatalf("seed run failed: %v", err)
	}
	// autoCreateTime 回填当前时间，手动改旧
	err := db.Model(run).UpdateColumn("created_at", time.Now().Add(-age)).Error
	if err != nil {
		t.Fatalf("age run failed: %v", err)
	}

	assert.NoError(t, db.Create(&models.BacktestTrade{RunID: run.ID, Stockid: "sz300001", EntryDate: "20250101"}).Error)
	assert.NoError(t, db.Create(&models.BacktestEquity{RunID: run.ID, Tdate: "20250101", Equity: 1.0}).Error)
	return run.ID
}

// TestCleaner_RemovesExpired 测试过期 run 连同明细与曲线一起删除
func TestCleaner_RemovesExpired(t *testing.T) {
	db := testDB(t)

	oldID := seedRun(t, db, 100*24*time.Hour)
	freshID := seedRun(t, db, 24*time.Hour)

	assert.NoError(t, NewCleaner(db, 90).Run())

	var count int64
	db.Model(&models.BacktestRun{}).Where("id = ?", oldID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.BacktestTrade{}).Where("run_id = ?", oldID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.BacktestEquity{}).Where("run_id = ?", oldID).Count(&count)
	assert.Zero(t, count)

	db.Model(&models.BacktestRun{}).Where("id = ?", freshID).Count(&count)
	assert.Equal(t, int64(1), count)
}

// TestCleaner_Disabled 测试 keepDays <= 0 不清理
func TestCleaner_Disabled(t *testing.T) {
	db := testDB(t)
	oldID := seedRun(t, db, 365*24*time.Hour)

	assert.NoError(t, NewCleaner(db, 0).Run())

	var count int64
	db.Model(&models.BacktestRun{}).Where("id = ?", oldID).Count(&count)
	assert.Equal(t, int64(1), count)
}
