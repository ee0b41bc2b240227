package common

// 错误状态码
const (
	ReadRequestErr  = 1
	UnmarshalErr    = 1000
	InputParamErr   = 1001
	ExtractErr      = 1002
	MapAdCodeErr    = 1003
	LoadDistrictErr = 1004
)
