package divisions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/location"
)

const sampleTree = `{
	"status": "1",
	"infocode": "10000",
	"districts": [{
		"name": "中华人民共和国",
		"adcode": "100000",
		"level": "country",
		"districts": [
			{
				"name": "北京市",
				"adcode": "110000",
				"level": "province",
				"districts": [{
					"name": "北京城区",
					"adcode": "110000",
					"level": "city",
					"districts": [
						{"name": "海淀区", "adcode": "110108", "level": "district", "districts": []},
						{"name": "朝阳区", "adcode": "110105", "level": "district", "districts": []}
					]
				}]
			},
			{
				"name": "甘肃省",
				"adcode": "620000",
				"level": "province",
				"districts": [{
					"name": "金昌市",
					"adcode": "620300",
					"level": "city",
					"districts": [
						{"name": "永昌县", "adcode": "620321", "level": "district", "districts": []},
						{"name": "城关镇", "adcode": "620321", "level": "street", "districts": []}
					]
				}]
			}
		]
	}]
}`

func TestFlatten(t *testing.T) {
	rows := Flatten([]byte(sampleTree))

	byCode := make(map[string]location.District)
	for _, row := range rows {
		byCode[row.AdCode+row.Name] = row
	}

	// 省级行：上级为空
	if d, ok := byCode["110000北京市"]; !ok || d.City != "" || d.Province != "" {
		t.Errorf("省级行错误: %+v", d)
	}

	// 直辖市区县：跳过城区层，直接挂在直辖市下
	haidian, ok := byCode["110108海淀区"]
	if !ok {
		t.Fatal("缺少海淀区")
	}
	if haidian.City != "北京市" || haidian.Province != "" {
		t.Errorf("直辖市区县上级链错误: %+v", haidian)
	}

	// 普通省份区县：完整上级链
	yongchang, ok := byCode["620321永昌县"]
	if !ok {
		t.Fatal("缺少永昌县")
	}
	if yongchang.City != "金昌市" || yongchang.Province != "甘肃省" {
		t.Errorf("区县上级链错误: %+v", yongchang)
	}

	// 街道层被过滤
	if _, ok := byCode["620321城关镇"]; ok {
		t.Error("街道级行未被过滤")
	}

	// 直辖市的中间城区节点不应出现
	if _, ok := byCode["110000北京城区"]; ok {
		t.Error("直辖市城区层未被跳过")
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	rows := Flatten([]byte(sampleTree))
	path := filepath.Join(t.TempDir(), "divisions.csv")

	if err := WriteCSV(path, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取输出: %v", err)
	}
	if !strings.HasPrefix(string(data), "\uFEFF") {
		t.Error("输出缺少utf-8 BOM")
	}

	// 写出的文件能被区划加载器读回，且只留区县级
	districts, err := location.LoadDistricts(path)
	if err != nil {
		t.Fatalf("LoadDistricts: %v", err)
	}

	got := make(map[string]bool)
	for _, d := range districts {
		got[d.AdCode] = true
	}
	for _, code := range []string{"110108", "110105", "620321"} {
		if !got[code] {
			t.Errorf("回读缺少区县 %s", code)
		}
	}
	if got["620300"] || got["110000"] || got["620000"] {
		t.Error("省市级行未在加载时被过滤")
	}
}
