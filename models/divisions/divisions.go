package divisions

import (
	"context"
	"encoding/csv"
	"os"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/amap"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/log"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/location"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// municipalities 直辖市的省级代码。直辖市下多一层"城区"节点，
// 展平时跳过，区县直接挂在直辖市下。
var municipalities = map[string]bool{
	"110000": true, // 北京
	"120000": true, // 天津
	"310000": true, // 上海
	"500000": true, // 重庆
}

// keptLevels 只保留省市区三级，过滤街道乡镇
var keptLevels = map[string]bool{
	"province": true,
	"city":     true,
	"district": true,
}

// Service 行政区划参照表的获取与落盘
type Service struct {
	client *amap.Client
}

func NewService(client *amap.Client) *Service {
	return &Service{client: client}
}

// FetchAll 拉取全国三级行政区划并展平成参照表行。
// 返回体一次到位且层级深，用gjson按路径遍历而不做整体反序列化。
func (s *Service) FetchAll(ctx context.Context) ([]location.District, error) {
	sub := amap.SubdistrictStreet
	raw, err := s.client.DistrictRaw(ctx, &amap.DistrictRequest{
		Keywords:    "中国",
		Subdistrict: &sub,
		Extensions:  amap.ExtensionsBase,
	})
	if err != nil {
		return nil, errors.Wrap(err, "拉取行政区划失败")
	}

	rows := Flatten(raw)
	log.Infof("行政区划拉取完成，共 %d 行", len(rows))
	return rows, nil
}

// Flatten 把高德返回的区划树展平成[名, 码, 上级市, 上级省]行。
// 省级行上级为空；直辖市跳过中间城区层；区县行带完整上级链。
func Flatten(raw []byte) []location.District {
	var rows []location.District

	provinces := gjson.GetBytes(raw, "districts.0.districts")
	provinces.ForEach(func(_, province gjson.Result) bool {
		pName := province.Get("name").String()
		pCode := province.Get("adcode").String()
		rows = append(rows, location.District{Name: pName, AdCode: pCode})

		isMunicipality := municipalities[pCode]

		province.Get("districts").ForEach(func(_, city gjson.Result) bool {
			cName := city.Get("name").String()
			cCode := city.Get("adcode").String()
			if !keptLevels[city.Get("level").String()] {
				return true
			}

			if isMunicipality {
				city.Get("districts").ForEach(func(_, district gjson.Result) bool {
					dCode := district.Get("adcode").String()
					if !keptLevels[district.Get("level").String()] || dCode == cCode {
						return true
					}
					rows = append(rows, location.District{
						Name:   district.Get("name").String(),
						AdCode: dCode,
						City:   pName,
					})
					return true
				})
				return true
			}

			rows = append(rows, location.District{Name: cName, AdCode: cCode, City: pName})

			city.Get("districts").ForEach(func(_, district gjson.Result) bool {
				dCode := district.Get("adcode").String()
				// 街道层过滤；个别县级市下挂同码乡镇，跳过防止重复
				if !keptLevels[district.Get("level").String()] || dCode == cCode {
					return true
				}
				rows = append(rows, location.District{
					Name:     district.Get("name").String(),
					AdCode:   dCode,
					City:     cName,
					Province: pName,
				})
				return true
			})
			return true
		})
		return true
	})

	return rows
}

// WriteCSV 把参照表写成无表头四列CSV，带utf-8 BOM方便表格软件直接打开
func WriteCSV(path string, rows []location.District) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "创建行政区划文件失败")
	}
	defer f.Close()

	if _, err := f.WriteString("\uFEFF"); err != nil {
		return errors.Wrap(err, "写入BOM失败")
	}

	w := csv.NewWriter(f)
	for _, row := range rows {
		if err := w.Write([]string{row.Name, row.AdCode, row.City, row.Province}); err != nil {
			return errors.Wrap(err, "写入行政区划行失败")
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "刷新行政区划文件失败")
}
