package config

import (
	"os"
	"strconv"
	"time"
)

// AppConfig 应用配置
type AppConfig struct {
	Port           string
	DBPath         string        // 用户库 sqlite 文件路径
	RedisAddr      string        // 为空时使用内存缓存
	FXPair         string        // 汇率行情代码，默认 USDINR=X
	CurrencySymbol string        // 目标货币符号
	QuoteCacheTTL  time.Duration // 行情推荐列表缓存时间
	ModelEpochs    int           // 训练轮数
	ReleaseMode    bool          // gin release 模式
}

// GetAppConfig 获取应用配置
func GetAppConfig() *AppConfig {
	return &AppConfig{
		Port:           getEnvString("PORT", "8080"),
		DBPath:         getEnvString("DB_PATH", "users.db"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		FXPair:         getEnvString("FX_PAIR", "USDINR=X"),
		CurrencySymbol: getEnvString("CURRENCY_SYMBOL", "₹"),
		QuoteCacheTTL:  getEnvDuration("QUOTE_CACHE_TTL", 10*time.Minute),
		ModelEpochs:    getEnvInt("MODEL_EPOCHS", 5),
		ReleaseMode:    getEnvBool("GIN_RELEASE", false),
	}
}

// 辅助函数
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
