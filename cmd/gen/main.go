package main

import (
	"flag"

	"github.com/utrading/utrading-stock-backtest/config"
	"github.com/utrading/utrading-stock-backtest/internal/dal"
)

func main() {
	var configFile string
	var outPath string
	flag.StringVar(&configFile, "config", "cfg.toml", "config file path")
	flag.StringVar(&outPath, "out", "internal/dal/gen", "generated code output path")
	flag.Parse()

	if err := config.Load(configFile); err != nil {
		panic(err)
	}

	dal.InitMysqlDB(config.Get().MySQL)
	defer dal.Close()

	dal.GenExecute(outPath, dal.DB())
}
