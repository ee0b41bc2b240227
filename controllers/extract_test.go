package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/judgment"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/location"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	extractor := judgment.NewExtractor(judgment.Options{ReferenceYear: 2013})
	mapper := location.NewMapperFromDistricts([]location.District{
		{Name: "海淀区", AdCode: "110108", City: "北京市", Province: ""},
	})

	router := gin.New()
	NewExtractController(extractor, mapper).Register(router)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestExtractHandler(t *testing.T) {
	router := newTestRouter(t)

	reqBody, err := json.Marshal(map[string]string{
		"text":   "北京市海淀区人民法院刑事判决书（2013）海刑初字第1号公诉机关北京市海淀区人民检察院。被告人张三，男，1990年1月1日出生。审判员王某某二〇一三年四月十日书记员赵某某",
		"region": "北京市",
		"court":  "北京市海淀区人民法院",
	})
	if err != nil {
		t.Fatal(err)
	}

	w := postJSON(t, router, "/api/v1/extract", string(reqBody))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var record map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got := record["姓名"]; got != "张三" {
		t.Errorf("姓名 = %v, want 张三", got)
	}
	if got := record[judgment.AdCodeField]; got != "110108" {
		t.Errorf("AdCode = %v, want 110108", got)
	}
}

func TestExtractHandlerEmptyText(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/extract", `{"text":""}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var reply struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if reply.ErrCode == 0 {
		t.Error("expected non-zero errcode for empty text")
	}
}

func TestExtractHandlerBadJSON(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/extract", `{"text":`)
	var reply struct {
		ErrCode int `json:"errcode"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if reply.ErrCode == 0 {
		t.Error("expected non-zero errcode for malformed JSON")
	}
}

func TestExtractHandlerSkipsMappingWithoutHints(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/extract", `{"text":"被告人李四，男。"}`)
	var record map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got := record[judgment.AdCodeField]; got != "" {
		t.Errorf("AdCode = %v, want empty", got)
	}
}

func TestHealthHandler(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Status    string `json:"status"`
		Districts int    `json:"districts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Districts != 1 {
		t.Errorf("health = %+v, want status ok with 1 district", body)
	}
}
