package config

import (
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

type MySQL struct {
	DSN                string   `toml:"dsn"`
	SlaveAddr          []string `toml:"slave_addr"`
	MaxIdleConnections int      `toml:"max_idle_connections"`
	MaxOpenConnections int      `toml:"max_open_connections"`
	SetConnMaxLifetime int      `toml:"set_conn_max_lifetime"`
	SetConnMaxIdleTime int      `toml:"set_conn_max_idle_time"`
	ProxyEnabled       bool     `toml:"proxy_enabled"`
	ProxyAddr          string   `toml:"proxy_addr"`
}

type SQLite struct {
	Path string `toml:"path"`
}

type NATS struct {
	Endpoint string `toml:"endpoint"`
}

type Logger struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"`
	Compress   bool   `toml:"compress"`
	Console    bool   `toml:"console"`
}

type Backtest struct {
	// Driver 数据库驱动: mysql / sqlite
	Driver string `toml:"driver"`
	// GridWorkers 网格搜索并发数
	GridWorkers int `toml:"grid_workers"`
	// MetricsAddr 指标监听地址，空则不启动
	MetricsAddr string `toml:"metrics_addr"`
	// StrategyCacheTTL 策略配置缓存时长
	StrategyCacheTTL time.Duration `toml:"strategy_cache_ttl"`
	// RetentionDays 回测历史保留天数，0 不清理
	RetentionDays int `toml:"retention_days"`
}

type Config struct {
	MySQL    MySQL    `toml:"mysql"`
	SQLite   SQLite   `toml:"sqlite"`
	NATS     NATS     `toml:"nats"`
	Logger   Logger   `toml:"log"`
	Backtest Backtest `toml:"backtest"`
}

var (
	cfg     *Config
	cfgLock sync.RWMutex
)

func Default() *Config {
	return &Config{
		MySQL: MySQL{
			DSN:                "root:password@tcp(localhost:3306)/stockdb?charset=utf8mb4&parseTime=True&loc=Local",
			SlaveAddr:          []string{},
			MaxIdleConnections: 16,
			MaxOpenConnections: 64,
			SetConnMaxLifetime: 7200,
			SetConnMaxIdleTime: 3600,
			ProxyEnabled:       false,
			ProxyAddr:          "127.0.0.1:7890",
		},
		SQLite: SQLite{
			Path: "stockdb.sqlite",
		},
		NATS: NATS{
			Endpoint: "", // 空则不发布事件
		},
		Logger: Logger{
			Level:      "info",
			File:       "",
			MaxSize:    10,
			MaxBackups: 60,
			MaxAge:     7,
			Compress:   false,
			Console:    true,
		},
		Backtest: Backtest{
			Driver:           "mysql",
			GridWorkers:      8,
			MetricsAddr:      "",
			StrategyCacheTTL: 5 * time.Minute,
			RetentionDays:    0,
		},
	}
}

// Load 加载配置文件，path 为空时使用默认配置
func Load(path string) error {
	c := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return err
		}
	}

	cfgLock.Lock()
	defer cfgLock.Unlock()
	cfg = c

	return nil
}

func Get() *Config {
	cfgLock.RLock()
	defer cfgLock.RUnlock()
	if cfg == nil {
		return Default()
	}
	return cfg
}
