package amap

import (
	"encoding/json"
)

// BaseResponse is common response structure for all Amap APIs
type BaseResponse struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	InfoCode string `json:"infocode"`
}

func (r *BaseResponse) IsSuccess() bool {
	return r.Status == "1" && r.InfoCode == "10000"
}

// DistrictRequest holds parameters for the district query
type DistrictRequest struct {
	Keywords    string // 行政区名称、citycode或adcode
	Subdistrict *int   // 返回的下级层数
	Page        *int
	Offset      *int
	Extensions  string
	Filter      string // 按adcode过滤
}

// DistrictResponse is the deserialized division tree
type DistrictResponse struct {
	BaseResponse
	Count     string         `json:"count"`
	Districts []DistrictNode `json:"districts"`
}

func (r *DistrictResponse) Base() *BaseResponse {
	return &r.BaseResponse
}

// DistrictNode is one division in the tree. Level取值为
// country/province/city/district/street。
type DistrictNode struct {
	Name      string         `json:"name"`
	AdCode    string         `json:"adcode"`
	CityCode  StringOrArray  `json:"citycode"`
	Center    string         `json:"center"`
	Level     string         `json:"level"`
	Districts []DistrictNode `json:"districts"`
}

// StringOrArray handles Amap's inconsistent citycode field that can be
// either a string or an empty array
type StringOrArray string

func (s *StringOrArray) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = StringOrArray(str)
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) > 0 {
			*s = StringOrArray(arr[0])
		} else {
			*s = ""
		}
		return nil
	}

	return json.Unmarshal(data, &str)
}

func (s StringOrArray) String() string {
	return string(s)
}
