package pubsub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "redis", cfg: Config{Driver: DriverRedis, Redis: RedisConfig{Address: "localhost:6379"}}},
		{name: "kafka", cfg: Config{Driver: DriverKafka, Kafka: KafkaConfig{Brokers: "localhost:9092"}}},
		{name: "redis without address", cfg: Config{Driver: DriverRedis}, wantErr: "redis address required"},
		{name: "kafka without brokers", cfg: Config{Driver: DriverKafka}, wantErr: "kafka brokers required"},
		{name: "local is not a bus", cfg: Config{Driver: "local"}, wantErr: "unsupported pubsub driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				req.NoError(err)
				return
			}
			req.ErrorContains(err, tt.wantErr)
		})
	}
}

func TestNewPubSub_RejectsUnknownDriver(t *testing.T) {
	req := require.New(t)

	_, err := NewPubSub(Config{Driver: "nats"})
	req.ErrorContains(err, "unsupported pubsub driver")
}
