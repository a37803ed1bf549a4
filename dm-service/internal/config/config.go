package config

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	pkgconfig "github.com/choosenname/OneTeam/pkg/config"
	"github.com/choosenname/OneTeam/pkg/pubsub"
	"github.com/choosenname/OneTeam/pkg/storage"
)

// Delivery drivers.
const (
	DeliveryLocal = "local"
	DeliveryRedis = "redis"
	DeliveryKafka = "kafka"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Delivery  DeliveryConfig
	Kafka     KafkaConfig
	JWT       JWTConfig
	WebSocket WebSocketConfig
	Storage   storage.Config
	Upload    UploadConfig
	Messages  MessagesConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	TimeZone        string `mapstructure:"timezone"`
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CacheConfig struct {
	Enabled   bool
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type DeliveryConfig struct {
	Driver string // local, redis, kafka
}

type KafkaConfig struct {
	Brokers    string
	GroupID    string `mapstructure:"group_id"`
	Partitions int
}

type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessDuration time.Duration `mapstructure:"access_duration"`
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
	SendBuffer     int           `mapstructure:"send_buffer"`
}

type UploadConfig struct {
	MaxSize       int64         `mapstructure:"max_size"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

type MessagesConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// PubSub returns the bus configuration for the selected delivery driver.
func (c *Config) PubSub() pubsub.Config {
	return pubsub.Config{
		Driver: c.Delivery.Driver,
		Redis: pubsub.RedisConfig{
			Address:  c.Redis.Address,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		},
		Kafka: pubsub.KafkaConfig{
			Brokers:    c.Kafka.Brokers,
			GroupID:    c.Kafka.GroupID,
			Partitions: c.Kafka.Partitions,
		},
	}
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper applies defaults and env bindings to v and decodes it.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	if err := pkgconfig.BindEnvs(v, map[string]string{
		"server.port":                  "PORT",
		"database.driver":              "DB_DRIVER",
		"database.host":                "DB_HOST",
		"database.port":                "DB_PORT",
		"database.user":                "DB_USER",
		"database.password":            "DB_PASSWORD",
		"database.dbname":              "DB_NAME",
		"database.sslmode":             "DB_SSLMODE",
		"database.file_path":           "DB_FILE_PATH",
		"database.log_level":           "DB_LOG_LEVEL",
		"redis.address":                "REDIS_ADDRESS",
		"redis.password":               "REDIS_PASSWORD",
		"redis.db":                     "REDIS_DB",
		"cache.enabled":                "CACHE_ENABLED",
		"delivery.driver":              "DELIVERY_DRIVER",
		"kafka.brokers":                "KAFKA_BROKERS",
		"kafka.group_id":               "KAFKA_GROUP_ID",
		"jwt.secret":                   "JWT_SECRET",
		"jwt.issuer":                   "JWT_ISSUER",
		"storage.driver":               "STORAGE_DRIVER",
		"storage.local.base_path":      "STORAGE_LOCAL_PATH",
		"storage.s3.endpoint":          "STORAGE_S3_ENDPOINT",
		"storage.s3.region":            "STORAGE_S3_REGION",
		"storage.s3.bucket":            "STORAGE_S3_BUCKET",
		"storage.s3.access_key_id":     "STORAGE_S3_ACCESS_KEY",
		"storage.s3.secret_access_key": "STORAGE_S3_SECRET_KEY",
		"storage.s3.public_url":        "STORAGE_S3_PUBLIC_URL",
		"storage.s3.use_path_style":    "STORAGE_S3_PATH_STYLE",
		"upload.max_size":              "UPLOAD_MAX_SIZE",
		"log.level":                    "LOG_LEVEL",
		"log.pretty":                   "LOG_PRETTY",
	}); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Server.ShutdownTimeout = pkgconfig.Duration(v, "server.shutdown_timeout", 10*time.Second)
	cfg.Cache.TTL = pkgconfig.Duration(v, "cache.ttl", 10*time.Minute)
	cfg.JWT.AccessDuration = pkgconfig.Duration(v, "jwt.access_duration", 24*time.Hour)
	cfg.WebSocket.PingInterval = pkgconfig.Duration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = pkgconfig.Duration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = pkgconfig.Duration(v, "websocket.write_wait", 10*time.Second)
	cfg.Upload.PresignExpiry = pkgconfig.Duration(v, "upload.presign_expiry", 15*time.Minute)
	cfg.Storage.S3.URLExpiry = pkgconfig.Duration(v, "storage.s3.url_expiry", 7*24*time.Hour)

	// Every instance's relay must see every conversation event, so each one
	// consumes in its own group unless a group is pinned explicitly.
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "dm-relay-" + uuid.New().String()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "dm_service")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.file_path", "./data/dm.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.key_prefix", "dm")
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("delivery.driver", DeliveryLocal)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.group_id", "")
	v.SetDefault("kafka.partitions", 8)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "")
	v.SetDefault("jwt.access_duration", "24h")
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("websocket.send_buffer", 256)
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.base_path", "./data/uploads")
	v.SetDefault("storage.local.url_prefix", "/files")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.bucket", "attachments")
	v.SetDefault("storage.s3.url_expiry", "168h")
	v.SetDefault("upload.max_size", 4<<20)
	v.SetDefault("upload.presign_expiry", "15m")
	v.SetDefault("messages.page_size", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}
