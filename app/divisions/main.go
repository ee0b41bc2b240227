package main

import (
	"context"
	"flag"
	"time"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/amap"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/config"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/log"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/divisions"
)

func main() {
	output := flag.String("output", "", "输出CSV路径，默认取配置中的adminCsvPath")
	flag.Parse()

	log.InitLogFileBySvrName("divisions")
	cfg := config.GetInstance()
	logger := log.GetInstance().Sugar

	path := *output
	if path == "" {
		path = cfg.BatchConfig.AdminCSVPath
	}

	client, err := amap.NewClient()
	if err != nil {
		logger.Fatalf("初始化高德客户端失败: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rows, err := divisions.NewService(client).FetchAll(ctx)
	if err != nil {
		logger.Fatalf("拉取行政区划失败: %v", err)
	}

	if err := divisions.WriteCSV(path, rows); err != nil {
		logger.Fatalf("写入行政区划表失败: %v", err)
	}
	logger.Infof("行政区划表已更新: %s (%d 条记录)", path, len(rows))
}
