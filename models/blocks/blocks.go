package blocks

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/log"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/judgment"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/location"
	prom "github.com/likeUMR/I-Wanna-Be-A-Judge/observe/prometheus"
	"github.com/mozillazg/go-pinyin"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// ManifestName 区块清单文件名
const ManifestName = "manifest.json"

// Manifest 一次分块运行的产物清单
type Manifest struct {
	RunID       string  `json:"run_id"`
	GeneratedAt string  `json:"generated_at"`
	TotalRows   int     `json:"total_rows"`
	Blocks      []Block `json:"blocks"`
}

// Block 清单中的一个区县区块
type Block struct {
	AdCode string `json:"adcode"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Rows   int    `json:"rows"`
	File   string `json:"file"`
}

// Writer 把结构化记录按AdCode分发到各自的区块CSV。
// 文件按需打开，Close时统一落盘并写出清单。非并发安全，
// 并行批处理时每个worker各持一个Writer写不同目录。
type Writer struct {
	outDir string
	fields []string
	mapper *location.Mapper

	runID string
	files map[string]*blockFile
	total int
}

type blockFile struct {
	f    *os.File
	w    *csv.Writer
	rows int
}

// NewWriter 在outDir下开始一次分块写入。fields决定列顺序，
// mapper用于在清单里补区县名，可为nil。
func NewWriter(outDir string, fields []string, mapper *location.Mapper) (*Writer, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "创建区块目录失败")
	}
	if len(fields) == 0 {
		fields = judgment.FieldOrder
	}
	return &Writer{
		outDir: outDir,
		fields: fields,
		mapper: mapper,
		runID:  uuid.NewV4().String(),
		files:  make(map[string]*blockFile),
	}, nil
}

// RunID 本次写入的运行标识，进清单也进日志
func (w *Writer) RunID() string {
	return w.runID
}

// Add 把一条记录写入其AdCode对应的区块。无有效AdCode的记录被丢弃，
// 返回false。
func (w *Writer) Add(rec judgment.Record) (bool, error) {
	adcode := CleanAdCode(rec.StringAt(judgment.AdCodeField))
	if adcode == "" {
		return false, nil
	}

	bf, ok := w.files[adcode]
	if !ok {
		var err error
		bf, err = w.openBlock(adcode)
		if err != nil {
			return false, err
		}
		w.files[adcode] = bf
	}

	row := make([]string, 0, len(w.fields))
	for _, field := range w.fields {
		row = append(row, rec.StringAt(field))
	}
	if err := bf.w.Write(row); err != nil {
		return false, errors.Wrapf(err, "写入区块 %s 失败", adcode)
	}
	bf.rows++
	w.total++
	prom.BlockRowsTotal.WithLabelValues(adcode).Inc()
	return true, nil
}

func (w *Writer) openBlock(adcode string) (*blockFile, error) {
	f, err := os.Create(filepath.Join(w.outDir, adcode+".csv"))
	if err != nil {
		return nil, errors.Wrapf(err, "创建区块文件 %s 失败", adcode)
	}
	if _, err := f.WriteString("\uFEFF"); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "写入BOM失败")
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(w.fields); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "写入表头失败")
	}
	return &blockFile{f: f, w: cw}, nil
}

// Close 刷新全部区块文件并写出manifest.json
func (w *Writer) Close() error {
	manifest := Manifest{
		RunID:       w.runID,
		GeneratedAt: time.Now().Format(time.RFC3339),
		TotalRows:   w.total,
	}

	var firstErr error
	for adcode, bf := range w.files {
		bf.w.Flush()
		if err := bf.w.Error(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "刷新区块 %s 失败", adcode)
		}
		if err := bf.f.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "关闭区块 %s 失败", adcode)
		}

		name := ""
		if w.mapper != nil {
			name = w.mapper.NameOf(adcode)
		}
		manifest.Blocks = append(manifest.Blocks, Block{
			AdCode: adcode,
			Name:   name,
			Slug:   Slug(name),
			Rows:   bf.rows,
			File:   adcode + ".csv",
		})
	}
	if firstErr != nil {
		return firstErr
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errors.Wrap(err, "序列化清单失败")
	}
	if err := os.WriteFile(filepath.Join(w.outDir, ManifestName), data, 0o644); err != nil {
		return errors.Wrap(err, "写入清单失败")
	}

	log.Infof("区块写入完成 run=%s blocks=%d rows=%d", w.runID, len(w.files), w.total)
	return nil
}

// CleanAdCode 清理批处理数据里的AdCode取值：去掉浮点化产生的.0尾巴，
// 过滤nan/none占位
func CleanAdCode(s string) string {
	s = strings.TrimSpace(strings.TrimSuffix(s, ".0"))
	switch strings.ToLower(s) {
	case "", "nan", "none", "null":
		return ""
	}
	return s
}

// Slug 区县名的拼音标识，清单和下游文件名用。非汉字字符被忽略。
func Slug(name string) string {
	if name == "" {
		return ""
	}
	return strings.Join(pinyin.LazyPinyin(name, pinyin.NewArgs()), "")
}
