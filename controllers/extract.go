package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/common"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/config"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/log"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/judgment"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/location"
	prom "github.com/likeUMR/I-Wanna-Be-A-Judge/observe/prometheus"
)

// ExtractRequest 单份判决书的在线抽取请求体
type ExtractRequest struct {
	Text   string `json:"text"`             // 判决书全文
	Region string `json:"region,omitempty"` // 所属地区，可空
	Court  string `json:"court,omitempty"`  // 法院名称，可空
}

// ExtractController 把抽取器和区划映射器包装为HTTP接口
type ExtractController struct {
	extractor *judgment.Extractor
	mapper    *location.Mapper
}

func NewExtractController(extractor *judgment.Extractor, mapper *location.Mapper) *ExtractController {
	return &ExtractController{
		extractor: extractor,
		mapper:    mapper,
	}
}

// Register 挂载路由
func (c *ExtractController) Register(router gin.IRouter) {
	router.POST("/api/v1/extract", c.Extract)
	router.GET("/healthz", c.Health)
}

// Extract 抽取单份判决书并附加AdCode
func (c *ExtractController) Extract(ctx *gin.Context) {
	maxBody := config.GetInstance().ServerConfig.MaxBodyBytes
	body, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBody))
	if err != nil {
		log.GetInstance().Sugar.Error("read request met error: ", err.Error())
		replyWithError(ctx, common.ReadRequestErr, err.Error())
		return
	}

	var req ExtractRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.GetInstance().Sugar.Error("can not parse extract request: ", err.Error())
		replyWithError(ctx, common.UnmarshalErr, err.Error())
		return
	}
	if req.Text == "" {
		replyWithError(ctx, common.InputParamErr, "text is empty")
		return
	}

	start := time.Now()
	record := c.extractor.ExtractAll(req.Text)
	prom.ExtractSeconds.Observe(time.Since(start).Seconds())

	record[judgment.AdCodeField] = ""
	if c.mapper != nil && (req.Region != "" || req.Court != "") {
		adCode := c.mapper.Map(req.Region, req.Court)
		record[judgment.AdCodeField] = adCode
		if adCode == "" {
			prom.AdCodeLookupTotal.WithLabelValues("miss").Inc()
		} else {
			prom.AdCodeLookupTotal.WithLabelValues("hit").Inc()
		}
	}

	if record.IsMissing("姓名") {
		prom.ExtractDocumentsTotal.WithLabelValues("no_defendant").Inc()
	} else {
		prom.ExtractDocumentsTotal.WithLabelValues("ok").Inc()
	}

	ctx.JSON(http.StatusOK, record)
}

// Health 存活探针，顺带暴露区划表规模方便排查映射为空的问题
func (c *ExtractController) Health(ctx *gin.Context) {
	districts := 0
	if c.mapper != nil {
		districts = c.mapper.Size()
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"districts": districts,
	})
}
