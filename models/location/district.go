package location

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// District 一条区县级行政区划：名称、6位代码和上级名称。
// 直辖市下属区县的City为直辖市名，Province为空。
type District struct {
	Name     string
	AdCode   string
	City     string
	Province string
}

// countyLevelExceptions 两个不设区县的地级市，代码以00结尾但按区县级处理
var countyLevelExceptions = map[string]bool{
	"441900": true, // 东莞市
	"442000": true, // 中山市
}

// IsCountyLevel 判断代码是否为有效区县级代码
func IsCountyLevel(adcode string) bool {
	if len(adcode) != 6 {
		return false
	}
	if strings.HasSuffix(adcode, "00") {
		return countyLevelExceptions[adcode]
	}
	return true
}

// LoadDistricts 读取无表头的四列行政区划CSV（名称,代码,上级市,上级省），
// 只保留区县级行。代码列始终按字符串处理，容忍utf-8 BOM。
func LoadDistricts(csvPath string) ([]District, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, errors.Wrap(err, "打开行政区划文件失败")
	}
	defer f.Close()

	return readDistricts(f)
}

func readDistricts(r io.Reader) ([]District, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var districts []District
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "解析行政区划CSV失败")
		}
		if len(row) < 2 {
			continue
		}

		name := strings.TrimPrefix(strings.TrimSpace(row[0]), "\uFEFF")
		adcode := strings.TrimSpace(row[1])
		if name == "" || !IsCountyLevel(adcode) {
			continue
		}

		d := District{Name: name, AdCode: adcode}
		if len(row) > 2 {
			d.City = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			d.Province = strings.TrimSpace(row[3])
		}
		districts = append(districts, d)
	}
	return districts, nil
}

// unitSuffixes 行政单位后缀，长后缀优先匹配
var unitSuffixes = []string{"特别行政区", "自治州", "自治县", "地区", "省", "市", "区", "县", "盟", "旗"}

// ShortName 去掉行政单位后缀的简称。简称不足2个字时返回空串，
// 避免"东区"之类的名称被截成无法区分的单字。
func ShortName(name string) string {
	for _, suffix := range unitSuffixes {
		if strings.HasSuffix(name, suffix) {
			short := strings.TrimSuffix(name, suffix)
			if len([]rune(short)) >= 2 {
				return short
			}
			return ""
		}
	}
	return ""
}
