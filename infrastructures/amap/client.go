package amap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/config"
)

// API path constants
const (
	DistrictPath = "/v3/config/district"
)

// Subdistrict depth constants
const (
	SubdistrictNone     = 0 // 不返回下级
	SubdistrictCity     = 1 // 返回下一级
	SubdistrictDistrict = 2 // 返回下两级
	SubdistrictStreet   = 3 // 返回下三级，全国查询拿到区县需要这一档
)

// Extensions type for district query
const (
	ExtensionsBase = "base" // 不返回行政区边界坐标
	ExtensionsAll  = "all"  // 返回行政区边界坐标
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an Amap client from global config
func NewClient() (*Client, error) {
	cfg := config.GetInstance().AmapConfig
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("amap api key is required")
	}
	return NewClientWithConfig(cfg.APIKey, cfg.BaseURL, cfg.Timeout), nil
}

// NewClientWithConfig creates an Amap client with custom parameters
func NewClientWithConfig(apiKey, baseURL string, timeoutSec int) *Client {
	if baseURL == "" {
		baseURL = "https://restapi.amap.com"
	}
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

// District queries the administrative division tree
func (c *Client) District(ctx context.Context, req *DistrictRequest) (*DistrictResponse, error) {
	params := c.districtParams(req)

	resp := &DistrictResponse{}
	if err := c.doGet(ctx, c.baseURL+DistrictPath, params, resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// DistrictRaw queries the division tree and returns the raw JSON body.
// 全国三级查询的返回体很大且层级深，调用方用gjson按路径遍历比
// 完整反序列化更省内存。
func (c *Client) DistrictRaw(ctx context.Context, req *DistrictRequest) ([]byte, error) {
	params := c.districtParams(req)

	body, err := c.fetch(ctx, c.baseURL+DistrictPath, params)
	if err != nil {
		return nil, err
	}

	base := &BaseResponse{}
	if err := json.Unmarshal(body, base); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	if !base.IsSuccess() {
		return nil, fmt.Errorf("amap api error: %s - %s", base.InfoCode, base.Info)
	}
	return body, nil
}

func (c *Client) districtParams(req *DistrictRequest) *paramsBuilder {
	return newParamsBuilder().
		Str("key", c.apiKey).
		Str("keywords", req.Keywords).
		IntPtr("subdistrict", req.Subdistrict).
		IntPtr("page", req.Page).
		IntPtr("offset", req.Offset).
		Str("extensions", req.Extensions).
		Str("filter", req.Filter)
}

// doGet performs GET request and checks response status
func (c *Client) doGet(ctx context.Context, baseURL string, params *paramsBuilder, response interface{}) error {
	body, err := c.fetch(ctx, baseURL, params)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("unmarshal response failed: %w", err)
	}

	if baseResp, ok := response.(interface {
		IsSuccess() bool
		Base() *BaseResponse
	}); ok {
		if !baseResp.IsSuccess() {
			base := baseResp.Base()
			return fmt.Errorf("amap api error: %s - %s", base.InfoCode, base.Info)
		}
	} else if baseResp, ok := response.(interface{ IsSuccess() bool }); ok {
		if !baseResp.IsSuccess() {
			return fmt.Errorf("amap api error")
		}
	}

	return nil
}

func (c *Client) fetch(ctx context.Context, baseURL string, params *paramsBuilder) ([]byte, error) {
	urlStr := params.BuildURL(baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
