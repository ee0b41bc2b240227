package batch

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/judgment"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/location"
)

func TestSniffColumns(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		content int
		region  int
		court   int
	}{
		{
			name:    "按列名识别",
			header:  []string{"案号", "全文", "所属地区", "法院"},
			content: 1,
			region:  2,
			court:   3,
		},
		{
			name:    "索引兜底",
			header:  []string{"a", "b", "c", "d", "e"},
			content: 0,
			region:  4,
			court:   3,
		},
		{
			name:    "窄表缺列",
			header:  []string{"a", "b"},
			content: 0,
			region:  -1,
			court:   -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, region, court := sniffColumns(tt.header)
			if content != tt.content || region != tt.region || court != tt.court {
				t.Errorf("sniffColumns(%v) = (%d, %d, %d), want (%d, %d, %d)",
					tt.header, content, region, court, tt.content, tt.region, tt.court)
			}
		})
	}
}

func newTestProcessor() *Processor {
	extractor := judgment.NewExtractor(judgment.Options{ReferenceYear: 2013})
	mapper := location.NewMapperFromDistricts([]location.District{
		{Name: "海淀区", AdCode: "110108", City: "北京市", Province: ""},
	})
	return NewProcessor(extractor, mapper, Options{Workers: 2, BatchSize: 1})
}

func writeInputCSV(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	input := writeInputCSV(t, dir, "2013.csv", [][]string{
		{"案号", "全文", "所属地区", "法院"},
		{"（2013）海刑初字第1号", "被告人张三，男，1990年1月1日出生。经审理查明：盗窃。判决如下：判处拘役六个月。审判员王某某二〇一三年四月十日书记员赵某某", "北京市", "北京市海淀区人民法院"},
		{"（2013）海刑初字第2号", "", "", ""},
	})

	p := newTestProcessor()
	if err := p.ProcessFile(input, outDir); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "structured_2013.csv"))
	if err != nil {
		t.Fatal(err)
	}
	content := strings.TrimPrefix(string(data), "\uFEFF")
	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("structured rows = %d, want 3 (header + 2)", len(rows))
	}

	header := rows[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("column %q not found in %v", name, header[:6])
		return -1
	}

	first := rows[1]
	if got := first[col("姓名")]; got != "张三" {
		t.Errorf("姓名 = %q, want 张三", got)
	}
	if got := first[col("AdCode")]; got != "110108" {
		t.Errorf("AdCode = %q, want 110108", got)
	}
	if got := first[col("主刑")]; got != "拘役" {
		t.Errorf("主刑 = %q, want 拘役", got)
	}
	// 原始列保留在输出前部
	if got := first[col("案号")]; got != "（2013）海刑初字第1号" {
		t.Errorf("案号 = %q", got)
	}

	// 空行：布尔和数值字段回填0
	second := rows[2]
	if got := second[col("是否累犯")]; got != "0" {
		t.Errorf("是否累犯 = %q, want 0", got)
	}
	if got := second[col("罚金")]; got != "0" {
		t.Errorf("罚金 = %q, want 0", got)
	}
	if got := second[col("姓名")]; got != "" {
		t.Errorf("姓名 = %q, want empty", got)
	}

	summary, err := os.ReadFile(filepath.Join(outDir, "summary_2013.txt"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(summary)
	if !strings.Contains(text, "总处理:2") {
		t.Errorf("summary missing total: %s", text)
	}
	if !strings.Contains(text, "主字段缺失样例") {
		t.Errorf("summary missing sample section: %s", text)
	}
}

func TestProcessDirectoryYearFilter(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	rows := [][]string{
		{"全文", "b", "c", "法院", "所属地区"},
		{"被告人王五。", "", "", "", ""},
	}
	writeInputCSV(t, dir, "2012.csv", rows)
	writeInputCSV(t, dir, "2013.csv", rows)
	writeInputCSV(t, dir, "notes.txt", rows)

	p := newTestProcessor()
	p.opts.StartYear = 2013
	p.opts.EndYear = 2013
	if err := p.ProcessDirectory(dir, outDir); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "structured_2013.csv")); err != nil {
		t.Error("expected structured_2013.csv to exist")
	}
	if _, err := os.Stat(filepath.Join(outDir, "structured_2012.csv")); !os.IsNotExist(err) {
		t.Error("structured_2012.csv should be filtered out by year range")
	}
	if _, err := os.Stat(filepath.Join(outDir, "structured_notes.txt")); !os.IsNotExist(err) {
		t.Error("non-csv input should be skipped")
	}
}

func TestRenderFieldBackfill(t *testing.T) {
	rec := judgment.Record{"罚金": nil, "是否自首": nil, "姓名": nil, "AdCode": "110108.0"}
	if got := renderField(rec, "罚金"); got != "0" {
		t.Errorf("罚金 = %q, want 0", got)
	}
	if got := renderField(rec, "是否自首"); got != "0" {
		t.Errorf("是否自首 = %q, want 0", got)
	}
	if got := renderField(rec, "姓名"); got != "" {
		t.Errorf("姓名 = %q, want empty", got)
	}
	if got := renderField(rec, "AdCode"); got != "110108" {
		t.Errorf("AdCode = %q, want 110108", got)
	}
}

func TestStatsMerge(t *testing.T) {
	a := newStats()
	a.Total = 2
	a.Perfect = 1
	a.MainFieldMissing[judgment.MainFields[0]] = 1

	b := newStats()
	b.Total = 3
	b.MainMissingRows = 1
	b.SampleMissing = "姓名"
	b.SampleSnippet = "片段"

	a.merge(b)
	if a.Total != 5 || a.Perfect != 1 || a.MainMissingRows != 1 {
		t.Errorf("merged stats = %+v", a)
	}
	if a.MainFieldMissing[judgment.MainFields[0]] != 1 {
		t.Error("field counts should survive merge")
	}
	if a.SampleMissing != "姓名" {
		t.Error("sample should propagate from merged stats")
	}
}
