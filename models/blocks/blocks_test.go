package blocks

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/judgment"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/location"
)

func TestCleanAdCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"110108", "110108"},
		{"110108.0", "110108"},
		{" 110108 ", "110108"},
		{"nan", ""},
		{"NaN", ""},
		{"None", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanAdCode(tt.in); got != tt.want {
			t.Errorf("CleanAdCode(%q) = %q, 期望 %q", tt.in, got, tt.want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"海淀区", "haidianqu"},
		{"永昌县", "yongchangxian"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, 期望 %q", tt.in, got, tt.want)
		}
	}
}

func TestWriterGroupsByAdCode(t *testing.T) {
	dir := t.TempDir()
	mapper := location.NewMapperFromDistricts([]location.District{
		{Name: "海淀区", AdCode: "110108", City: "北京市"},
	})

	fields := []string{"姓名", "罪名", judgment.AdCodeField}
	w, err := NewWriter(dir, fields, mapper)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	records := []judgment.Record{
		{"姓名": "张三", "罪名": "盗窃罪", judgment.AdCodeField: "110108"},
		{"姓名": "李四", "罪名": "诈骗罪", judgment.AdCodeField: "110108.0"},
		{"姓名": "王五", "罪名": "抢劫罪", judgment.AdCodeField: "620321"},
		{"姓名": "赵六", "罪名": "盗窃罪", judgment.AdCodeField: "nan"},
	}
	written := 0
	for _, rec := range records {
		ok, err := w.Add(rec)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if ok {
			written++
		}
	}
	if written != 3 {
		t.Errorf("写入计数 = %d, 期望 3", written)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// 110108块含两行数据（去掉.0后归并同一块）
	assertBlockRows(t, filepath.Join(dir, "110108.csv"), fields, 2)
	assertBlockRows(t, filepath.Join(dir, "620321.csv"), fields, 1)

	if _, err := os.Stat(filepath.Join(dir, "nan.csv")); !os.IsNotExist(err) {
		t.Error("无效AdCode不应产生区块文件")
	}
}

func assertBlockRows(t *testing.T, path string, fields []string, wantRows int) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取区块 %s: %v", path, err)
	}
	content := strings.TrimPrefix(string(data), "\uFEFF")
	rows, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	if err != nil {
		t.Fatalf("解析区块 %s: %v", path, err)
	}
	if len(rows) != wantRows+1 {
		t.Fatalf("区块 %s 行数 = %d, 期望表头+%d", path, len(rows), wantRows)
	}
	for i, field := range fields {
		if rows[0][i] != field {
			t.Errorf("表头列 %d = %q, 期望 %q", i, rows[0][i], field)
		}
	}
}

func TestWriterManifest(t *testing.T) {
	dir := t.TempDir()
	mapper := location.NewMapperFromDistricts([]location.District{
		{Name: "海淀区", AdCode: "110108", City: "北京市"},
	})

	w, err := NewWriter(dir, []string{"姓名", judgment.AdCodeField}, mapper)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := w.Add(judgment.Record{"姓名": "张三", judgment.AdCodeField: "110108"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("读取清单: %v", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("解析清单: %v", err)
	}

	if manifest.RunID != w.RunID() {
		t.Errorf("清单run_id = %q, 期望 %q", manifest.RunID, w.RunID())
	}
	if manifest.TotalRows != 1 {
		t.Errorf("清单总行数 = %d, 期望 1", manifest.TotalRows)
	}
	if len(manifest.Blocks) != 1 {
		t.Fatalf("清单区块数 = %d, 期望 1", len(manifest.Blocks))
	}
	block := manifest.Blocks[0]
	if block.AdCode != "110108" || block.Name != "海淀区" || block.Slug != "haidianqu" {
		t.Errorf("清单区块内容错误: %+v", block)
	}
	if block.Rows != 1 || block.File != "110108.csv" {
		t.Errorf("清单区块统计错误: %+v", block)
	}
}
