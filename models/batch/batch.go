package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/cache"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/blocks"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/judgment"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/location"
	prom "github.com/likeUMR/I-Wanna-Be-A-Judge/observe/prometheus"
)

// 补充在结构化输出末尾的缺失统计列
var statColumns = []string{"主字段缺失数量", "主字段缺失", "子字段缺失数量", "子字段缺失"}

var yearPattern = regexp.MustCompile(`(\d{4})`)

// Stats 单个输入文件的完整性统计
type Stats struct {
	Total            int            // 总处理行数
	Perfect          int            // 主子字段均无缺失的行数
	MainMissingRows  int            // 存在主字段缺失的行数
	MainMissingTotal int            // 主字段缺失总数
	SubMissingTotal  int            // 子字段缺失总数
	MainFieldMissing map[string]int // 各主字段缺失次数
	SubFieldMissing  map[string]int // 各子字段缺失次数
	SampleMissing    string         // 首个主字段缺失行的缺失列表
	SampleSnippet    string         // 首个主字段缺失行的原文片段
	Elapsed          time.Duration
}

func newStats() *Stats {
	s := &Stats{
		MainFieldMissing: make(map[string]int, len(judgment.MainFields)),
		SubFieldMissing:  make(map[string]int, len(judgment.SubFields)),
	}
	for _, f := range judgment.MainFields {
		s.MainFieldMissing[f] = 0
	}
	for _, f := range judgment.SubFields {
		s.SubFieldMissing[f] = 0
	}
	return s
}

func (s *Stats) merge(other *Stats) {
	s.Total += other.Total
	s.Perfect += other.Perfect
	s.MainMissingRows += other.MainMissingRows
	s.MainMissingTotal += other.MainMissingTotal
	s.SubMissingTotal += other.SubMissingTotal
	for f, n := range other.MainFieldMissing {
		s.MainFieldMissing[f] += n
	}
	for f, n := range other.SubFieldMissing {
		s.SubFieldMissing[f] += n
	}
	if s.SampleMissing == "" && other.SampleMissing != "" {
		s.SampleMissing = other.SampleMissing
		s.SampleSnippet = other.SampleSnippet
	}
}

// Options 批处理配置
type Options struct {
	Workers   int            // 并发worker数，0表示CPU核数-1
	BatchSize int            // 每个任务的行数，0表示500
	StartYear int            // 按文件名中的年份过滤，0表示不过滤
	EndYear   int
	Cache     *cache.Cache   // 可选的AdCode共享缓存
	Log       *logrus.Logger
}

// Processor 把抽取器和区划映射器串成批处理流水线
type Processor struct {
	extractor *judgment.Extractor
	mapper    *location.Mapper
	opts      Options
	log       *logrus.Logger
}

func NewProcessor(extractor *judgment.Extractor, mapper *location.Mapper, opts Options) *Processor {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU() - 1
		if opts.Workers < 1 {
			opts.Workers = 1
		}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	logger := opts.Log
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Processor{
		extractor: extractor,
		mapper:    mapper,
		opts:      opts,
		log:       logger,
	}
}

// ProcessDirectory 处理输入目录下所有CSV文件，
// 每个输入文件产出structured_前缀的结构化CSV和summary_前缀的统计报告。
func (p *Processor) ProcessDirectory(inputDir, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.Wrap(err, "create output dir")
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return errors.Wrap(err, "read input dir")
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		if !p.yearInRange(entry.Name()) {
			continue
		}
		if err := p.ProcessFile(filepath.Join(inputDir, entry.Name()), outputDir); err != nil {
			p.log.WithError(err).WithField("file", entry.Name()).Error("处理输入文件失败")
		}
	}
	return nil
}

func (p *Processor) yearInRange(filename string) bool {
	if p.opts.StartYear == 0 || p.opts.EndYear == 0 {
		return true
	}
	m := yearPattern.FindStringSubmatch(filename)
	if m == nil {
		return true
	}
	var year int
	fmt.Sscanf(m[1], "%d", &year)
	return p.opts.StartYear <= year && year <= p.opts.EndYear
}

// ProcessFile 处理单个输入CSV文件
func (p *Processor) ProcessFile(inputPath, outputDir string) error {
	start := time.Now()
	filename := filepath.Base(inputPath)

	header, rows, err := readCSV(inputPath)
	if err != nil {
		return errors.Wrapf(err, "read %s", filename)
	}
	p.log.WithFields(logrus.Fields{"file": filename, "rows": len(rows)}).Info("开始批量抽取")

	contentCol, regionCol, courtCol := sniffColumns(header)

	records := make([]judgment.Record, len(rows))
	rowStats := make([]*Stats, 0, len(rows)/p.opts.BatchSize+1)

	type job struct {
		start int
		rows  [][]string
		stats *Stats
	}
	jobs := make(chan *job)

	var wg sync.WaitGroup
	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				prom.BatchWorkersBusy.Inc()
				for i, row := range j.rows {
					records[j.start+i] = p.processRow(row, contentCol, regionCol, courtCol, j.stats)
				}
				prom.BatchWorkersBusy.Dec()
			}
		}()
	}

	pending := make([]*job, 0, len(rows)/p.opts.BatchSize+1)
	for i := 0; i < len(rows); i += p.opts.BatchSize {
		end := i + p.opts.BatchSize
		if end > len(rows) {
			end = len(rows)
		}
		j := &job{start: i, rows: rows[i:end], stats: newStats()}
		pending = append(pending, j)
		rowStats = append(rowStats, j.stats)
	}
	for _, j := range pending {
		jobs <- j
	}
	close(jobs)
	wg.Wait()

	stats := newStats()
	for _, s := range rowStats {
		stats.merge(s)
	}
	stats.Elapsed = time.Since(start)

	outPath := filepath.Join(outputDir, "structured_"+filename)
	if err := writeStructured(outPath, header, rows, records); err != nil {
		return errors.Wrapf(err, "write %s", outPath)
	}

	summaryPath := filepath.Join(outputDir, "summary_"+strings.TrimSuffix(filename, ".csv")+".txt")
	if err := writeSummary(summaryPath, stats); err != nil {
		return errors.Wrapf(err, "write %s", summaryPath)
	}

	prom.BatchRowsTotal.WithLabelValues(filename).Add(float64(stats.Total))
	prom.BatchFileSeconds.WithLabelValues(filename).Observe(stats.Elapsed.Seconds())

	p.log.WithFields(logrus.Fields{
		"file":    filename,
		"total":   stats.Total,
		"perfect": stats.Perfect,
		"elapsed": stats.Elapsed.Seconds(),
	}).Info("批量抽取完成")
	return nil
}

func (p *Processor) processRow(row []string, contentCol, regionCol, courtCol int, stats *Stats) judgment.Record {
	content := cellAt(row, contentCol)

	t := time.Now()
	rec := p.extractor.ExtractAll(content)
	prom.ExtractSeconds.Observe(time.Since(t).Seconds())

	region := cellAt(row, regionCol)
	court := cellAt(row, courtCol)
	rec[judgment.AdCodeField] = p.mapAdCode(region, court)

	missingMain := missingFields(rec, judgment.MainFields)
	missingSub := missingFields(rec, judgment.SubFields)
	for _, f := range missingMain {
		stats.MainFieldMissing[f]++
	}
	for _, f := range missingSub {
		stats.SubFieldMissing[f]++
		prom.ExtractMissingFieldTotal.WithLabelValues(f).Inc()
	}
	for _, key := range judgment.SectionKeys {
		if rec.IsMissing(judgment.SectionField(key)) {
			prom.ExtractSectionEmptyTotal.WithLabelValues(key).Inc()
		}
	}

	rec["主字段缺失数量"] = len(missingMain)
	rec["主字段缺失"] = strings.Join(missingMain, ",")
	rec["子字段缺失数量"] = len(missingSub)
	rec["子字段缺失"] = strings.Join(missingSub, ",")

	stats.Total++
	if len(missingMain) == 0 && len(missingSub) == 0 {
		stats.Perfect++
		prom.ExtractDocumentsTotal.WithLabelValues("perfect").Inc()
	} else {
		prom.ExtractDocumentsTotal.WithLabelValues("partial").Inc()
	}
	if len(missingMain) > 0 {
		stats.MainMissingRows++
		stats.MainMissingTotal += len(missingMain)
		if stats.SampleMissing == "" {
			stats.SampleMissing = strings.Join(missingMain, ",")
			stats.SampleSnippet = snippet(content, 500)
		}
	}
	stats.SubMissingTotal += len(missingSub)

	return rec
}

// mapAdCode 先查共享缓存，未开启缓存时直接走内存映射
func (p *Processor) mapAdCode(region, court string) string {
	if region == "" && court == "" {
		return ""
	}
	if p.opts.Cache != nil {
		if adcode, ok := p.opts.Cache.FetchAdCode(region, court); ok {
			prom.AdCodeLookupTotal.WithLabelValues("cached").Inc()
			return adcode
		}
	}
	adcode := p.mapper.Map(region, court)
	if adcode == "" {
		prom.AdCodeLookupTotal.WithLabelValues("miss").Inc()
	} else {
		prom.AdCodeLookupTotal.WithLabelValues("hit").Inc()
	}
	if p.opts.Cache != nil {
		if err := p.opts.Cache.StoreAdCode(region, court, adcode); err != nil {
			p.log.WithError(err).Debug("写入AdCode缓存失败")
		}
	}
	return adcode
}

func missingFields(rec judgment.Record, fields []string) []string {
	var missing []string
	for _, f := range fields {
		if rec.IsMissing(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func snippet(text string, limit int) string {
	runes := []rune(strings.ReplaceAll(text, "\n", " "))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}

// sniffColumns 按列名子串定位全文、所属地区、法院三列，
// 找不到时退回固定索引（0列全文，3列法院，4列地区）。
func sniffColumns(header []string) (contentCol, regionCol, courtCol int) {
	contentCol, regionCol, courtCol = 0, -1, -1
	for i, name := range header {
		switch {
		case strings.Contains(name, "全文"):
			contentCol = i
		case strings.Contains(name, "所属地区"):
			regionCol = i
		case strings.Contains(name, "法院"):
			courtCol = i
		}
	}
	if courtCol < 0 && len(header) > 3 {
		courtCol = 3
	}
	if regionCol < 0 && len(header) > 4 {
		regionCol = 4
	}
	return contentCol, regionCol, courtCol
}

func readCSV(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, errors.New("empty csv")
	}
	header = all[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	return header, all[1:], nil
}

// writeStructured 输出结构化CSV：原始列在前，抽取字段和缺失统计列在后
func writeStructured(path string, header []string, rows [][]string, records []judgment.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// utf-8-sig，方便Excel直接打开
	if _, err := f.WriteString("\uFEFF"); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	out := make([]string, 0, len(header)+len(judgment.FieldOrder)+len(statColumns))
	out = append(out, header...)
	out = append(out, judgment.FieldOrder...)
	out = append(out, statColumns...)
	if err := w.Write(out); err != nil {
		return err
	}

	for i, row := range rows {
		out = out[:0]
		for j := range header {
			out = append(out, cellAt(row, j))
		}
		rec := records[i]
		for _, field := range judgment.FieldOrder {
			out = append(out, renderField(rec, field))
		}
		for _, field := range statColumns {
			out = append(out, rec.StringAt(field))
		}
		if err := w.Write(out); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// renderField 字段渲染，布尔和数值字段缺失时回填0，AdCode统一清洗
func renderField(rec judgment.Record, field string) string {
	if field == judgment.AdCodeField {
		return blocks.CleanAdCode(rec.StringAt(field))
	}
	v := rec.StringAt(field)
	if v == "" && (contains(judgment.BoolFields, field) || contains(judgment.NumFields, field)) {
		return "0"
	}
	return v
}

func contains(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

func writeSummary(path string, stats *Stats) error {
	var b strings.Builder
	b.WriteString("\uFEFF")
	fmt.Fprintf(&b, "总处理:%d, 完美(无主子字段缺失):%d, 有主字段缺失的行数:%d\n",
		stats.Total, stats.Perfect, stats.MainMissingRows)
	fmt.Fprintf(&b, "主字段缺失总数:%d, 子字段缺失总数:%d\n",
		stats.MainMissingTotal, stats.SubMissingTotal)

	b.WriteString("\n--- 主字段缺失统计 ---\n")
	b.WriteString(joinCounts(judgment.MainFields, stats.MainFieldMissing))
	b.WriteString("\n\n--- 子字段缺失统计 ---\n")
	b.WriteString(joinCounts(judgment.SubFields, stats.SubFieldMissing))

	if stats.SampleMissing != "" {
		b.WriteString("\n\n--- 主字段缺失样例 ---\n")
		fmt.Fprintf(&b, "主字段缺失内容: %s\n", stats.SampleMissing)
		fmt.Fprintf(&b, "原文片段: %s\n", stats.SampleSnippet)
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func joinCounts(fields []string, counts map[string]int) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s:%d", f, counts[f]))
	}
	return strings.Join(parts, ", ")
}
