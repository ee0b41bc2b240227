package main

import (
	"context"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/controllers"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/config"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/log"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/judgment"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/models/location"
	prom "github.com/likeUMR/I-Wanna-Be-A-Judge/observe/prometheus"
)

var serverHealthGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "judge",
	Subsystem: "server",
	Name:      "health_status",
	Help:      "Health status of the extraction service (1=healthy).",
})

func main() {
	log.InitLogFileBySvrName("server")
	cfg := config.GetInstance()
	logger := log.GetInstance().Sugar

	prom.MustRegisterAll()
	serverHealthGauge.Set(1)

	mapper, err := location.NewMapper(cfg.BatchConfig.AdminCSVPath)
	if err != nil {
		logger.Warnf("行政区划表加载失败，AdCode映射将全部为空: %v", err)
	}

	opts := judgment.Options{
		ReferenceYear:  cfg.ExtractorConfig.ReferenceYear,
		FactSummaryLen: cfg.ExtractorConfig.FactSummaryLen,
	}
	if !cfg.ExtractorConfig.DisableSegmenter {
		if seg := judgment.NewLegalSegmenter(); seg != nil {
			opts.Segmenter = seg
		}
	}
	extractor := judgment.NewExtractor(opts)

	router := gin.New()
	router.Use(gin.Recovery())
	if proxies := cfg.ServerConfig.TrustedProxies; proxies != "" {
		if err := router.SetTrustedProxies(strings.Split(proxies, ",")); err != nil {
			logger.Warnf("set trusted proxies: %v", err)
		}
	}

	controllers.NewExtractController(extractor, mapper).Register(router)
	if !cfg.ServerConfig.DisableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	srv := &http.Server{
		Addr:    cfg.ServerConfig.Listen,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("extraction service listening on %s", cfg.ServerConfig.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("HTTP server exited: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	serverHealthGauge.Set(0)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown http server: %v", err)
	}
}
