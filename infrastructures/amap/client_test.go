package amap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const districtBody = `{
	"status": "1",
	"info": "OK",
	"infocode": "10000",
	"count": "1",
	"districts": [{
		"name": "中华人民共和国",
		"adcode": "100000",
		"citycode": [],
		"level": "country",
		"districts": [{
			"name": "北京市",
			"adcode": "110000",
			"citycode": "010",
			"level": "province",
			"districts": [{
				"name": "北京城区",
				"adcode": "110000",
				"citycode": "010",
				"level": "city",
				"districts": [{
					"name": "海淀区",
					"adcode": "110108",
					"citycode": "010",
					"level": "district",
					"districts": []
				}]
			}]
		}]
	}]
}`

func newTestServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != DistrictPath {
			t.Errorf("请求路径 = %s, 期望 %s", r.URL.Path, DistrictPath)
		}
		if r.URL.Query().Get("key") == "" {
			t.Error("请求缺少key参数")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDistrict(t *testing.T) {
	srv := newTestServer(t, districtBody)
	client := NewClientWithConfig("test_key", srv.URL, 5)

	sub := SubdistrictStreet
	resp, err := client.District(context.Background(), &DistrictRequest{
		Keywords:    "中国",
		Subdistrict: &sub,
		Extensions:  ExtensionsBase,
	})
	if err != nil {
		t.Fatalf("District: %v", err)
	}

	if len(resp.Districts) != 1 {
		t.Fatalf("districts数量 = %d, 期望 1", len(resp.Districts))
	}
	country := resp.Districts[0]
	if country.Level != "country" {
		t.Errorf("顶层level = %s, 期望 country", country.Level)
	}
	if country.CityCode.String() != "" {
		t.Errorf("国家级citycode = %q, 期望空（数组形式）", country.CityCode)
	}

	province := country.Districts[0]
	if province.Name != "北京市" || province.AdCode != "110000" {
		t.Errorf("省级节点 = %s/%s", province.Name, province.AdCode)
	}
	district := province.Districts[0].Districts[0]
	if district.Name != "海淀区" || district.AdCode != "110108" {
		t.Errorf("区县节点 = %s/%s", district.Name, district.AdCode)
	}
}

func TestDistrictRaw(t *testing.T) {
	srv := newTestServer(t, districtBody)
	client := NewClientWithConfig("test_key", srv.URL, 5)

	body, err := client.DistrictRaw(context.Background(), &DistrictRequest{Keywords: "中国"})
	if err != nil {
		t.Fatalf("DistrictRaw: %v", err)
	}
	if !strings.Contains(string(body), "海淀区") {
		t.Error("原始返回体缺少区县数据")
	}
}

func TestDistrictAPIError(t *testing.T) {
	srv := newTestServer(t, `{"status":"0","info":"INVALID_USER_KEY","infocode":"10001"}`)
	client := NewClientWithConfig("bad_key", srv.URL, 5)

	_, err := client.District(context.Background(), &DistrictRequest{Keywords: "中国"})
	if err == nil {
		t.Fatal("期望API错误")
	}
	if !strings.Contains(err.Error(), "INVALID_USER_KEY") {
		t.Errorf("错误信息缺少API原因: %v", err)
	}

	_, err = client.DistrictRaw(context.Background(), &DistrictRequest{Keywords: "中国"})
	if err == nil {
		t.Fatal("DistrictRaw期望API错误")
	}
}

func TestNewClientWithConfigDefaults(t *testing.T) {
	client := NewClientWithConfig("k", "", 0)
	if client.baseURL != "https://restapi.amap.com" {
		t.Errorf("默认baseURL = %s", client.baseURL)
	}
}
