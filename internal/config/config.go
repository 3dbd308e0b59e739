package config

import (
	"time"

	"github.com/vrusavuk/fundlyhub-sub006/internal/cache"
	pkgconfig "github.com/vrusavuk/fundlyhub-sub006/pkg/config"
	"github.com/vrusavuk/fundlyhub-sub006/pkg/eventbus"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Elasticsearch ElasticsearchConfig
	Search        SearchConfig
	Cache         CacheConfig
	EventBus      eventbus.Config `mapstructure:"eventbus"`
	Analytics     AnalyticsConfig
	JWT           JWTConfig
	Log           LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type ElasticsearchConfig struct {
	Addresses          []string `mapstructure:"addresses"`
	IndexUsers         string   `mapstructure:"index_users"`
	IndexCampaigns     string   `mapstructure:"index_campaigns"`
	IndexOrganizations string   `mapstructure:"index_organizations"`
}

type SearchConfig struct {
	// Driver selects the projection reader backend: "database" reads
	// the projection tables, "elasticsearch" reads CDC-fed indexes.
	Driver       string        `mapstructure:"driver"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type CacheConfig struct {
	// Driver selects the cache backend: "database" or "redis".
	Driver        string            `mapstructure:"driver"`
	TTL           time.Duration     `mapstructure:"ttl"`
	SweepInterval time.Duration     `mapstructure:"sweep_interval"`
	Redis         cache.RedisConfig `mapstructure:"redis"`
}

type AnalyticsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8097)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "fundlyhub")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "fundlyhub")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.index_users", "cdc-public-user-projections")
	v.SetDefault("elasticsearch.index_campaigns", "cdc-public-campaign-projections")
	v.SetDefault("elasticsearch.index_organizations", "cdc-public-organization-projections")
	v.SetDefault("search.driver", "database")
	v.SetDefault("search.query_timeout", "3s")
	v.SetDefault("cache.driver", "database")
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.sweep_interval", "10m")
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("eventbus.driver", "noop")
	v.SetDefault("eventbus.kafka.brokers", "")
	v.SetDefault("eventbus.kafka.group_id", "search-analytics")
	v.SetDefault("eventbus.redis.address", "localhost:6379")
	v.SetDefault("analytics.enabled", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Bind environment variables
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")
	v.BindEnv("elasticsearch.addresses", "ES_ADDRESSES")
	v.BindEnv("search.driver", "SEARCH_DRIVER")
	v.BindEnv("cache.driver", "CACHE_DRIVER")
	v.BindEnv("cache.redis.address", "REDIS_ADDRESS")
	v.BindEnv("cache.redis.password", "REDIS_PASSWORD")
	v.BindEnv("eventbus.driver", "EVENTBUS_DRIVER")
	v.BindEnv("eventbus.kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("eventbus.redis.address", "REDIS_ADDRESS")
	v.BindEnv("analytics.enabled", "ANALYTICS_ENABLED")
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
