package log

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/common"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel int8

const (
	LogLevelNull    LogLevel = LogLevel(zap.FatalLevel)
	LogLevelDebug            = LogLevel(zap.DebugLevel)
	LogLevelInfo             = LogLevel(zap.InfoLevel)
	LogLevelWarning          = LogLevel(zap.WarnLevel)
	LogLevelError            = LogLevel(zap.ErrorLevel)
	LogLevelPanic            = LogLevel(zap.PanicLevel)
	LogLevelFatal            = LogLevel(zap.FatalLevel)
)

// Logger
type Logger struct {
	logger *zap.Logger
	Sugar  *zap.SugaredLogger
}

var (
	instance    *Logger
	once        sync.Once
	logRootPath string
	serviceName string

	// 日志轮转控制
	rotateTimer    *time.Timer
	currentLogPath string

	// 默认log级别
	logLevel = LogLevelNull

	// 是否打印调用堆栈
	enableStacktrace = false
)

// SetLogRootPath path无需以/结尾
func SetLogRootPath(path string) {
	logRootPath = path
}

// InitLogFileBySvrName 以服务名命名日志文件
func InitLogFileBySvrName(svrName string) {
	serviceName = svrName
}

// SetStacktrace 是否开启堆栈打印
func SetStacktrace(enable bool) {
	enableStacktrace = enable
}

// InitLogLevel InitLogLevel
func InitLogLevel(l LogLevel) {
	logLevel = l
}

// GetInstance GetInstance
func GetInstance() *Logger {
	once.Do(func() {
		instance = createLogger()
	})
	return instance
}

func createLogger() *Logger {
	ret := &Logger{}
	var logConf zap.Config

	cfg := config.GetInstance()
	currentEnv := common.GetCurrentEnvironment()

	if common.ShouldUseStderr() || currentEnv != common.EnvProd {
		// 开发和容器环境：使用开发配置，输出到stderr
		logConf = zap.NewDevelopmentConfig()
		logConf.OutputPaths = []string{"stderr"}
		logConf.ErrorOutputPaths = []string{"stderr"}
	} else {
		// 传统生产环境：JSON格式输出到按日期命名的文件
		logConf = zap.NewProductionConfig()
		logConf.Encoding = "json"

		if logPath := buildLogFilePath(cfg.LogConfig.LogRootDir); logPath != "" {
			logConf.OutputPaths = []string{logPath}
			logConf.ErrorOutputPaths = []string{logPath}
			currentLogPath = logPath
			scheduleNextRotation()
		} else {
			logConf.OutputPaths = []string{"stderr"}
			logConf.ErrorOutputPaths = []string{"stderr"}
			fmt.Println("log file path unavailable, fallback to stderr")
		}
	}

	logConf.DisableStacktrace = !enableStacktrace

	if logLevel == LogLevelNull {
		// 没有被显示指定，从配置文件中加载默认值
		logLevel = LogLevel(cfg.LogConfig.LogLevel)
	}
	logConf.Level = zap.NewAtomicLevelAt(zapcore.Level(logLevel))

	var err error
	ret.logger, err = logConf.Build(zap.AddCallerSkip(1))
	if err != nil {
		fmt.Println("logConf.Build err:", err)
	}
	ret.Sugar = ret.logger.Sugar()
	return ret
}

// buildLogFilePath 构建按天分割的日志文件路径，目录创建失败时返回空串
func buildLogFilePath(rootDir string) string {
	if len(logRootPath) > 0 {
		rootDir = logRootPath
	}
	if rootDir == "" {
		return ""
	}

	name := "judge-log"
	if len(serviceName) > 0 {
		name = fmt.Sprintf("%s-log", serviceName)
		rootDir = fmt.Sprintf("%s/%s", rootDir, serviceName)
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return ""
	}

	return fmt.Sprintf("%s/%s_%s", rootDir, name, time.Now().Format("2006-01-02"))
}

// nextMidnight 下一次按天切换日志文件的时间点
func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}

// scheduleNextRotation 设置下次日志轮转定时器，避免重复定时器
func scheduleNextRotation() {
	if rotateTimer != nil {
		rotateTimer.Stop()
	}
	rotateTimer = time.AfterFunc(time.Until(nextMidnight(time.Now())), rotateLogFile)
}

// rotateLogFile 跨天后重建logger，使输出切换到新日期的文件
func rotateLogFile() {
	newPath := buildLogFilePath(config.GetInstance().LogConfig.LogRootDir)
	if newPath == "" || newPath == currentLogPath {
		scheduleNextRotation()
		return
	}

	// 先把旧文件的缓冲写完
	if instance != nil && instance.logger != nil {
		_ = instance.logger.Sync()
	}

	once = sync.Once{}
	instance = nil
	GetInstance()
	fmt.Println("log rotated to:", newPath)
}

// Debugf uses fmt.Sprintf to log a templated message.
func Debugf(template string, args ...interface{}) {
	GetInstance().Sugar.Debugf(template, args...)
}

// Infof uses fmt.Sprintf to log a templated message.
func Infof(template string, args ...interface{}) {
	GetInstance().Sugar.Infof(template, args...)
}

// Warnf uses fmt.Sprintf to log a templated message.
func Warnf(template string, args ...interface{}) {
	GetInstance().Sugar.Warnf(template, args...)
}

// Errorf uses fmt.Sprintf to log a templated message.
func Errorf(template string, args ...interface{}) {
	GetInstance().Sugar.Errorf(template, args...)
}

// Panicf uses fmt.Sprintf to log a templated message, then panics.
func Panicf(template string, args ...interface{}) {
	GetInstance().Sugar.Panicf(template, args...)
}

// Fatalf uses fmt.Sprintf to log a templated message, then calls os.Exit.
func Fatalf(template string, args ...interface{}) {
	GetInstance().Sugar.Fatalf(template, args...)
}

// Sync flushes buffered log entries, best effort at shutdown.
func Sync() {
	if instance != nil && instance.logger != nil {
		_ = instance.logger.Sync()
	}
}
