package common

import (
	"fmt"
	"os"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/config"
)

// Environment 运行环境类型
type Environment string

const (
	EnvDev       Environment = "dev"       // 开发环境
	EnvProd      Environment = "prod"      // 生产环境
	EnvContainer Environment = "container" // 容器环境
)

var validEnvironments = map[string]bool{
	"dev":       true,
	"prod":      true,
	"container": true,
}

// GetCurrentEnvironment 返回当前运行环境。
// 优先级：JUDGE_ENV 环境变量 > 配置文件 environment 字段 > 系统特征推导。
func GetCurrentEnvironment() Environment {
	if env := os.Getenv("JUDGE_ENV"); validEnvironments[env] {
		return Environment(env)
	}

	configEnv := config.GetInstance().Environment
	if configEnv == "" || !validEnvironments[configEnv] {
		if configEnv != "" {
			fmt.Fprintf(os.Stderr, "[ENV] invalid environment %q in config, valid values: dev, prod, container\n", configEnv)
		}
		return deriveEnvironmentFromSystem()
	}

	return Environment(configEnv)
}

// deriveEnvironmentFromSystem 通过系统环境推导合理的环境值
func deriveEnvironmentFromSystem() Environment {
	if IsRunningInContainer() {
		return EnvContainer
	}
	if os.Getenv("GIN_MODE") == "release" {
		return EnvProd
	}
	return EnvDev
}

// ShouldUseStderr 判断是否应该使用stderr输出（dev和container环境）
func ShouldUseStderr() bool {
	env := GetCurrentEnvironment()
	return env == EnvDev || env == EnvContainer
}

// IsRunningInContainer 检测是否在容器环境中运行
func IsRunningInContainer() bool {
	containerIndicators := []string{
		"KUBERNETES_SERVICE_HOST",
		"DOCKER_CONTAINER",
		"container",
	}

	for _, indicator := range containerIndicators {
		if os.Getenv(indicator) != "" {
			return true
		}
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	return false
}
