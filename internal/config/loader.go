// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load 从 CONFIG_DIR（默认 configs）加载配置
// 优先级：config.yaml < config.<APP_ENV>.yaml < 环境变量（app.env -> APP_ENV）
func Load() (*Config, error) {
	dir := os.Getenv("CONFIG_DIR")
	if dir == "" {
		dir = "configs"
	}
	return LoadFrom(dir)
}

// LoadFrom 从指定目录加载并校验配置
func LoadFrom(dir string) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigType("yaml")
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	files := []struct {
		path     string
		optional bool
	}{
		{filepath.Join(dir, "config.yaml"), false},
		{filepath.Join(dir, "config."+env+".yaml"), true},
	}
	for _, f := range files {
		if err := mergeFile(v, f.path, f.optional); err != nil {
			return nil, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// mergeFile 展开 ${VAR:default} 后合并进 viper
func mergeFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := v.MergeConfig(strings.NewReader(expandEnv(string(content)))); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// envPlaceholder 匹配 ${VAR} 与 ${VAR:default}
var envPlaceholder = regexp.MustCompile(`\$\{(\w+)(:([^}]*))?\}`)

// expandEnv 替换占位符；变量未设置且无默认值时保留原文
func expandEnv(s string) string {
	return envPlaceholder.ReplaceAllStringFunc(s, func(match string) string {
		m := envPlaceholder.FindStringSubmatch(match)
		if val, ok := os.LookupEnv(m[1]); ok {
			return val
		}
		if m[2] != "" {
			return m[3]
		}
		return match
	})
}

// defaults 配置兜底值
// HTTP 写超时需覆盖一次完整的对话轮次（分类 + 回复两次模型调用）
var defaults = map[string]any{
	"app.name":    "daily-report-ai-api",
	"app.version": "v0.0.0",
	"app.env":     "development",

	"server.http.host":          "0.0.0.0",
	"server.http.port":          8000,
	"server.http.read_timeout":  "30s",
	"server.http.write_timeout": "180s",
	"server.http.idle_timeout":  "120s",

	"database.postgres.driver":             "postgres",
	"database.postgres.sqlite_path":        "daily_report.db",
	"database.postgres.host":               "localhost",
	"database.postgres.port":               5432,
	"database.postgres.user":               "postgres",
	"database.postgres.database":           "daily_report",
	"database.postgres.ssl_mode":           "disable",
	"database.postgres.auto_migrate":       false,
	"database.postgres.log_level":          "warn",
	"database.postgres.max_open_conns":     50,
	"database.postgres.max_idle_conns":     10,
	"database.postgres.conn_max_lifetime":  "30m",
	"database.postgres.conn_max_idle_time": "5m",

	"cache.redis.enabled":        true,
	"cache.redis.host":           "localhost",
	"cache.redis.port":           6379,
	"cache.redis.db":             0,
	"cache.redis.pool_size":      100,
	"cache.redis.min_idle_conns": 10,
	"cache.redis.dial_timeout":   "5s",
	"cache.redis.read_timeout":   "3s",
	"cache.redis.write_timeout":  "3s",

	"llm.default_provider": "gemini",

	"report.history_window":   10,
	"report.classify_timeout": "30s",
	"report.generate_timeout": "60s",
	"report.title_timeout":    "20s",
	"report.lock_ttl":         "3m",
	"report.lock_wait":        "5s",
	"report.reply_language":   "Korean",
	"report.greeting":         "안녕하세요! AI 업무 비서입니다. 오늘 하루는 어떠셨나요?",
	"report.status_cache_ttl": "10m",
	"report.owner_cache_size": 4096,

	"observability.logging.level":  "info",
	"observability.logging.format": "json",
	"observability.logging.output": "stdout",

	"observability.tracing.enabled":     false,
	"observability.tracing.exporter":    "otlp",
	"observability.tracing.endpoint":    "localhost:4317",
	"observability.tracing.sample_rate": 1.0,

	"observability.metrics.enabled": true,
	"observability.metrics.path":    "/metrics",

	"security.jwt.issuer":             "daily-report-ai",
	"security.jwt.expiration":         "30m",
	"security.jwt.refresh_expiration": "168h",

	"security.rate_limit.enabled":             true,
	"security.rate_limit.requests_per_second": 20,
	"security.rate_limit.burst":               40,
}
