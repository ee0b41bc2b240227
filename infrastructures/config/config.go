package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

var (
	instance *JudgeConfig
	once     sync.Once
)

// DefaultConfigPath 默认配置文件路径，可通过 JUDGE_CONFIG_PATH 环境变量覆盖
const DefaultConfigPath = "/etc/judge/config.toml"

type log struct {
	LogRootDir       string `toml:"logRootDir"`       // 日志根目录
	LogLevel         int    `toml:"logLevel"`         // 默认log级别
	EnableStacktrace bool   `toml:"enableStacktrace"` // 是否打印调用堆栈
}

// redis Redis配置结构体
type redis struct {
	Addr     string `toml:"addr"`     // redis服务器IP地址+端口号
	User     string `toml:"user"`     // redis服务器登录用户名
	Password string `toml:"password"` // redis服务器登录密码
	DB       int    `toml:"db"`       // 数据库号，默认0

	// Sentinel高可用配置
	UseSentinel      bool     `toml:"useSentinel"`      // 是否启用sentinel模式
	SentinelAddrs    []string `toml:"sentinelAddrs"`    // sentinel节点地址列表
	MasterName       string   `toml:"masterName"`       // sentinel监控的master名称
	SentinelPassword string   `toml:"sentinelPassword"` // sentinel节点密码

	// 高级配置
	PoolSize     int `toml:"poolSize"`     // 连接池大小，默认10
	MinIdleConns int `toml:"minIdleConns"` // 最小空闲连接数，默认0
	MaxRetries   int `toml:"maxRetries"`   // 最大重试次数，默认3
	DialTimeout  int `toml:"dialTimeout"`  // 连接超时（秒），默认5
	ReadTimeout  int `toml:"readTimeout"`  // 读超时（秒），默认3
	WriteTimeout int `toml:"writeTimeout"` // 写超时（秒），默认3
}

// amapConfig 高德行政区划API配置
type amapConfig struct {
	APIKey  string `toml:"apiKey"`  // 高德开放平台Key
	BaseURL string `toml:"baseUrl"` // API基础URL，默认https://restapi.amap.com
	Timeout int    `toml:"timeout"` // 请求超时（秒），默认10
}

// extractorConfig 判决书抽取器配置
type extractorConfig struct {
	ReferenceYear    int  `toml:"referenceYear"`    // 年龄计算参考年份，0表示默认2013
	DisableSegmenter bool `toml:"disableSegmenter"` // 关闭案情分词关键词提取，默认开启
	FactSummaryLen   int  `toml:"factSummaryLen"`   // 作案情况摘要长度（字符数），默认200
}

// batchConfig 批量处理配置
type batchConfig struct {
	Workers      int    `toml:"workers"`      // 并发worker数，0表示CPU核数-1
	BatchSize    int    `toml:"batchSize"`    // 每批行数，默认500
	AdminCSVPath string `toml:"adminCsvPath"` // 行政区划参考表路径
	CacheAdCode  bool   `toml:"cacheAdCode"`  // 是否启用Redis共享AdCode缓存，默认false
}

// serverConfig 抽取HTTP服务配置
type serverConfig struct {
	Listen         string `toml:"listen"`         // 监听地址，默认:8080
	MaxBodyBytes   int64  `toml:"maxBodyBytes"`   // 请求体上限，默认4MB
	DisableMetrics bool   `toml:"disableMetrics"` // 关闭/metrics暴露，默认开启
	TrustedProxies string `toml:"trustedProxies"` // gin受信代理，逗号分隔
}

type JudgeConfig struct {
	Environment     string           `toml:"environment"` // 环境配置 [dev, prod, container]
	LogConfig       log              `toml:"log"`
	Redises         map[string]redis `toml:"redises"`
	AmapConfig      amapConfig       `toml:"amap"`
	ExtractorConfig extractorConfig  `toml:"extractor"`
	BatchConfig     batchConfig      `toml:"batch"`
	ServerConfig    serverConfig     `toml:"server"`
}

func GetInstance() *JudgeConfig {
	once.Do(func() {
		path := os.Getenv("JUDGE_CONFIG_PATH")
		if path == "" {
			path = DefaultConfigPath
		}

		conf, err := parseConfig(path)
		if err != nil {
			// 配置文件缺失不是致命错误：按降级模式使用默认值运行
			fmt.Fprintf(os.Stderr, "[CONFIG] %s, running with defaults\n", err.Error())
			conf = &JudgeConfig{}
			setDefaults(conf)
		}
		instance = conf
	})
	return instance
}

func parseConfig(path string) (*JudgeConfig, error) {
	if len(path) == 0 {
		return nil, errors.New("config file path is null")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file met error: %s", err.Error())
	}

	conf := &JudgeConfig{}
	if _, err = toml.Decode(string(data), conf); err != nil {
		return nil, err
	}

	setDefaults(conf)
	return conf, nil
}

func setDefaults(conf *JudgeConfig) {
	if conf.AmapConfig.BaseURL == "" {
		conf.AmapConfig.BaseURL = "https://restapi.amap.com"
	}
	if conf.AmapConfig.Timeout <= 0 {
		conf.AmapConfig.Timeout = 10
	}

	if conf.ExtractorConfig.ReferenceYear <= 0 {
		// 数据集年代假设：判决日期缺失时按2013年计算年龄
		conf.ExtractorConfig.ReferenceYear = 2013
	}
	if conf.ExtractorConfig.FactSummaryLen <= 0 {
		conf.ExtractorConfig.FactSummaryLen = 200
	}

	if conf.BatchConfig.BatchSize <= 0 {
		conf.BatchConfig.BatchSize = 500
	}
	if conf.BatchConfig.AdminCSVPath == "" {
		conf.BatchConfig.AdminCSVPath = "data/processed_admin_divisions.csv"
	}

	if conf.ServerConfig.Listen == "" {
		conf.ServerConfig.Listen = ":8080"
	}
	if conf.ServerConfig.MaxBodyBytes <= 0 {
		conf.ServerConfig.MaxBodyBytes = 4 << 20
	}
}
