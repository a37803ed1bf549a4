package pubsub

import (
	"fmt"
	"time"
)

// Bus drivers.
const (
	DriverRedis = "redis"
	DriverKafka = "kafka"
)

// Config selects and configures the bus.
type Config struct {
	Driver string      `mapstructure:"driver"`
	Redis  RedisConfig `mapstructure:"redis"`
	Kafka  KafkaConfig `mapstructure:"kafka"`
}

// RedisConfig configures the Redis pub/sub client. Zero values fall back to
// the go-redis defaults.
type RedisConfig struct {
	Address      string        `mapstructure:"address"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// KafkaConfig configures the Kafka bus. GroupID is the consumer group used
// for pattern subscriptions.
type KafkaConfig struct {
	Brokers    string `mapstructure:"brokers"`
	GroupID    string `mapstructure:"group_id"`
	Partitions int    `mapstructure:"partitions"`
}

// Validate reports configuration the selected driver cannot start with.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("pubsub: redis address required")
		}
	case DriverKafka:
		if c.Kafka.Brokers == "" {
			return fmt.Errorf("pubsub: kafka brokers required")
		}
	default:
		return fmt.Errorf("unsupported pubsub driver: %q", c.Driver)
	}
	return nil
}

// NewPubSub connects the bus selected by cfg.Driver.
func NewPubSub(cfg Config) (PubSub, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Driver == DriverKafka {
		return NewKafkaPubSub(cfg.Kafka)
	}
	return NewRedisPubSub(cfg.Redis)
}
