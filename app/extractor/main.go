package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/cache"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/config"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/log"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/batch"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/blocks"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/judgment"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/location"
	prom "github.com/likeUMR/I-Wanna-Be-A-Judge/observe/prometheus"
)

func main() {
	var (
		input     = flag.String("input", "data/processed_results", "原始判决书CSV所在目录")
		output    = flag.String("output", "data/structured_results", "结构化输出目录")
		startYear = flag.Int("start-year", 0, "按文件名年份过滤的起始年")
		endYear   = flag.Int("end-year", 0, "按文件名年份过滤的结束年")
		group     = flag.Bool("group", false, "分块模式：按AdCode把结构化CSV分组为block文件")
	)
	flag.Parse()

	log.InitLogFileBySvrName("extractor")
	cfg := config.GetInstance()
	logger := log.GetInstance().Sugar

	prom.MustRegisterAll()

	mapper, err := location.NewMapper(cfg.BatchConfig.AdminCSVPath)
	if err != nil {
		logger.Warnf("行政区划表加载失败，AdCode映射将全部为空: %v", err)
	}

	if *group {
		if err := runGroup(*input, *output, mapper); err != nil {
			logger.Fatalf("分块失败: %v", err)
		}
		return
	}

	opts := judgment.Options{
		ReferenceYear:  cfg.ExtractorConfig.ReferenceYear,
		FactSummaryLen: cfg.ExtractorConfig.FactSummaryLen,
	}
	if !cfg.ExtractorConfig.DisableSegmenter {
		if seg := judgment.NewLegalSegmenter(); seg != nil {
			opts.Segmenter = seg
		}
	}
	extractor := judgment.NewExtractor(opts)

	var adCodeCache *cache.Cache
	if cfg.BatchConfig.CacheAdCode {
		adCodeCache = cache.GetInstance()
	}

	processor := batch.NewProcessor(extractor, mapper, batch.Options{
		Workers:   cfg.BatchConfig.Workers,
		BatchSize: cfg.BatchConfig.BatchSize,
		StartYear: *startYear,
		EndYear:   *endYear,
		Cache:     adCodeCache,
	})

	if err := processor.ProcessDirectory(*input, *output); err != nil {
		logger.Fatalf("批量抽取失败: %v", err)
	}
}

// runGroup 读取structured_前缀的结构化CSV，按AdCode分块输出
func runGroup(inputDir, outputDir string, mapper *location.Mapper) error {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return err
	}

	writer, err := blocks.NewWriter(outputDir, nil, mapper)
	if err != nil {
		return err
	}

	logger := log.GetInstance().Sugar
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "structured_") || !strings.HasSuffix(name, ".csv") {
			continue
		}
		kept, dropped, err := groupFile(filepath.Join(inputDir, name), writer)
		if err != nil {
			logger.Errorf("分块读取 %s 失败: %v", name, err)
			continue
		}
		logger.Infof("分块 %s: 保留 %d 行，丢弃无AdCode %d 行", name, kept, dropped)
	}
	return writer.Close()
}

func groupFile(path string, writer *blocks.Writer) (kept, dropped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return 0, 0, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return kept, dropped, fmt.Errorf("read %s: %w", path, err)
		}
		rec := judgment.Record{}
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		ok, err := writer.Add(rec)
		if err != nil {
			return kept, dropped, err
		}
		if ok {
			kept++
		} else {
			dropped++
		}
	}
	return kept, dropped, nil
}
