// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load 依次叠加默认值、configs/config.yaml、configs/config.<env>.yaml 与环境变量。
// 配置文件可以缺省，缺省时完全由默认值和环境变量驱动。
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	files := []string{
		"configs/config.yaml",
		fmt.Sprintf("configs/config.%s.yaml", env),
	}
	for _, path := range files {
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// MustLoad 加载配置，失败时 panic
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	return cfg
}

// mergeFile 读取单个 yaml 文件并合并进 viper，文件不存在时跳过
func mergeFile(v *viper.Viper, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	expanded := os.Expand(string(raw), lookupWithDefault)
	if err := v.MergeConfig(strings.NewReader(expanded)); err != nil {
		return fmt.Errorf("merge config %s: %w", path, err)
	}
	return nil
}

// lookupWithDefault 解析 ${VAR} 与 ${VAR:default} 占位符
func lookupWithDefault(placeholder string) string {
	key, def, hasDefault := strings.Cut(placeholder, ":")
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	if hasDefault {
		return def
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ticket-contest-api")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "30s")
	v.SetDefault("server.http.idle_timeout", "120s")

	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.database", "ticket_contest")
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 50)
	v.SetDefault("database.postgres.max_idle_conns", 10)
	v.SetDefault("database.postgres.conn_max_lifetime", "30m")
	v.SetDefault("database.postgres.conn_max_idle_time", "5m")

	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 100)
	v.SetDefault("cache.redis.min_idle_conns", 10)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	v.SetDefault("vector.milvus.host", "localhost")
	v.SetDefault("vector.milvus.port", 19530)
	v.SetDefault("vector.milvus.collection_prefix", "ticket_contest")
	v.SetDefault("vector.milvus.index_type", "HNSW")
	v.SetDefault("vector.milvus.metric_type", "COSINE")
	v.SetDefault("vector.milvus.hnsw_m", 16)
	v.SetDefault("vector.milvus.hnsw_ef_construction", 200)

	v.SetDefault("embedding.model", "BAAI/bge-m3")
	v.SetDefault("embedding.dimension", 1024)
	v.SetDefault("embedding.batch_size", 32)

	v.SetDefault("catalog.enabled", false)
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.min_interval", "1s")
	v.SetDefault("catalog.daily_quota", 500)
	v.SetDefault("catalog.window_limit", 30)
	v.SetDefault("catalog.window", "1m")
	v.SetDefault("catalog.max_retries", 3)
	v.SetDefault("catalog.backoff_base", "500ms")
	v.SetDefault("catalog.backoff_cap", "8s")
	v.SetDefault("catalog.max_candidates", 10)

	v.SetDefault("retrieval.timeout", "8s")
	v.SetDefault("retrieval.per_query_limit", 10)
	v.SetDefault("retrieval.top_n", 10)

	// 三个权重之和必须为 1.0
	v.SetDefault("scoring.base_rate_weight", 0.3)
	v.SetDefault("scoring.pre_score_weight", 0.5)
	v.SetDefault("scoring.advisory_weight", 0.2)

	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.logging.output", "stdout")
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.exporter", "otlp")
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.port", 9464)
	v.SetDefault("observability.metrics.path", "/metrics")
}
