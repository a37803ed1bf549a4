package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/choosenname/OneTeam/pkg/log"
)

// channelToTopicAndKey converts a Redis-style channel to a Kafka topic and message key.
//
//	"chat:C123:messages" → topic: "chat-messages", key: "C123"
//
// Keying by conversation keeps one conversation on one partition, which is
// what preserves per-conversation publish order on Kafka.
func channelToTopicAndKey(channel string) (topic, key string, err error) {
	// Expected format: {prefix}:{id}:{suffix}
	parts := strings.Split(channel, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("invalid channel format: %s", channel)
	}

	topic = parts[0] + "-" + strings.ReplaceAll(parts[2], "_", "-")
	return topic, parts[1], nil
}

// patternToTopic converts a Redis-style subscribe pattern to a Kafka topic.
//
//	"chat:*:messages" → "chat-messages"
func patternToTopic(pattern string) (string, error) {
	topic, key, err := channelToTopicAndKey(pattern)
	if err != nil {
		return "", err
	}
	if key != "*" {
		return "", fmt.Errorf("pattern must wildcard the id segment: %s", pattern)
	}
	return topic, nil
}

// kafkaSubscription is one consumer and the goroutine polling it. The
// goroutine owns the consumer and closes it on exit.
type kafkaSubscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *kafkaSubscription) stop() {
	s.cancel()
	<-s.done
}

// KafkaPubSub implements PubSub interface using Apache Kafka.
type KafkaPubSub struct {
	producer      *kafka.Producer
	subscriptions map[string]*kafkaSubscription // key (channel or pattern) → subscription
	config        KafkaConfig
	mu            sync.Mutex
	doneCh        chan struct{}
}

// NewKafkaPubSub creates a new Kafka-based PubSub instance.
func NewKafkaPubSub(cfg KafkaConfig) (*KafkaPubSub, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Brokers,
		"acks":              "1",
		"linger.ms":         5,
		"compression.type":  "snappy",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	kps := &KafkaPubSub{
		producer:      p,
		subscriptions: make(map[string]*kafkaSubscription),
		config:        cfg,
		doneCh:        make(chan struct{}),
	}

	go kps.deliveryReportHandler()

	if err := kps.ensureTopics(PatternConversationMessages); err != nil {
		l := log.L()
		l.Warn().Err(err).Msg("failed to ensure kafka topics (may already exist)")
	}

	return kps, nil
}

// ensureTopics creates the topics backing the given patterns if they don't exist.
func (k *KafkaPubSub) ensureTopics(patterns ...string) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": k.config.Brokers,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	partitions := k.config.Partitions
	if partitions <= 0 {
		partitions = 4
	}

	specs := make([]kafka.TopicSpecification, 0, len(patterns))
	for _, p := range patterns {
		topic, err := patternToTopic(p)
		if err != nil {
			return err
		}
		specs = append(specs, kafka.TopicSpecification{
			Topic:             topic,
			NumPartitions:     partitions,
			ReplicationFactor: 1,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, specs)
	if err != nil {
		return fmt.Errorf("failed to create topics: %w", err)
	}

	for _, r := range results {
		if r.Error.Code() != kafka.ErrNoError && r.Error.Code() != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("failed to create topic %s: %v", r.Topic, r.Error)
		}
	}

	return nil
}

// deliveryReportHandler processes delivery reports from the producer.
func (k *KafkaPubSub) deliveryReportHandler() {
	l := log.L()
	for e := range k.producer.Events() {
		if ev, ok := e.(*kafka.Message); ok && ev.TopicPartition.Error != nil {
			l.Warn().Err(ev.TopicPartition.Error).Msg("kafka pubsub delivery failed")
		}
	}
	close(k.doneCh)
}

// Publish publishes an event to the specified channel (converted to Kafka topic + key).
func (k *KafkaPubSub) Publish(ctx context.Context, channel string, event *Event) error {
	topic, key, err := channelToTopicAndKey(channel)
	if err != nil {
		return fmt.Errorf("failed to parse channel: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(key),
		Value: data,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	return nil
}

// Subscribe subscribes to a specific channel, filtering messages by key.
func (k *KafkaPubSub) Subscribe(ctx context.Context, channel string) (<-chan *Event, error) {
	topic, key, err := channelToTopicAndKey(channel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse channel: %w", err)
	}

	return k.subscribeToTopic(ctx, channel, topic, key)
}

// SubscribePattern subscribes to channels matching a pattern (consumes all messages on the topic).
func (k *KafkaPubSub) SubscribePattern(ctx context.Context, pattern string) (<-chan *Event, error) {
	topic, err := patternToTopic(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pattern: %w", err)
	}

	return k.subscribeToTopic(ctx, pattern, topic, "")
}

// consumerGroup returns the group for a subscription. Pattern subscriptions
// share the configured group; a single-channel subscription gets a group of
// its own so it does not take partitions away from the pattern consumer.
func (k *KafkaPubSub) consumerGroup(subKey string, filtered bool) string {
	group := k.config.GroupID
	if group == "" {
		group = "pubsub-default"
	}
	if !filtered {
		return group
	}
	return group + "-" + sanitizeGroupID(subKey)
}

func (k *KafkaPubSub) subscribeToTopic(ctx context.Context, subKey, topic, filterKey string) (<-chan *Event, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if existing, ok := k.subscriptions[subKey]; ok {
		existing.stop()
		delete(k.subscriptions, subKey)
	}

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":       k.config.Brokers,
		"group.id":                k.consumerGroup(subKey, filterKey != ""),
		"auto.offset.reset":       "latest",
		"enable.auto.commit":      true,
		"auto.commit.interval.ms": 5000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}
	if err := c.Subscribe(topic, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &kafkaSubscription{cancel: cancel, done: make(chan struct{})}
	eventCh := make(chan *Event, eventBufferSize)

	go func() {
		defer close(sub.done)
		defer close(eventCh)
		defer c.Close()
		k.consumeMessages(subCtx, c, eventCh, filterKey)
	}()

	k.subscriptions[subKey] = sub
	return eventCh, nil
}

// consumeMessages polls Kafka and forwards events to the channel.
func (k *KafkaPubSub) consumeMessages(ctx context.Context, c *kafka.Consumer, eventCh chan<- *Event, filterKey string) {
	l := log.L()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev := c.Poll(500)
		if ev == nil {
			continue
		}

		switch e := ev.(type) {
		case *kafka.Message:
			if filterKey != "" && string(e.Key) != filterKey {
				continue
			}

			event, err := decodeEvent(e.Value)
			if err != nil {
				l.Warn().Err(err).Msg("kafka pubsub: invalid event payload")
				continue
			}

			select {
			case eventCh <- event:
			case <-ctx.Done():
				return
			default:
				l.Warn().Str(log.FieldRoutingKey, event.Key).Msg("kafka pubsub: consumer buffer full, event dropped")
			}

		case kafka.Error:
			l.Error().Err(e).Int("code", int(e.Code())).Bool("fatal", e.IsFatal()).Msg("kafka pubsub error")
			if e.IsFatal() {
				return
			}

		}
	}
}

// Unsubscribe stops the subscription for a channel or pattern and waits for
// its consumer to close.
func (k *KafkaPubSub) Unsubscribe(ctx context.Context, channel string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if sub, ok := k.subscriptions[channel]; ok {
		delete(k.subscriptions, channel)
		sub.stop()
	}
	return nil
}

// Close stops every subscription, then flushes and closes the producer.
func (k *KafkaPubSub) Close() error {
	k.mu.Lock()
	for key, sub := range k.subscriptions {
		sub.stop()
		delete(k.subscriptions, key)
	}
	k.mu.Unlock()

	if remaining := k.producer.Flush(5000); remaining > 0 {
		l := log.L()
		l.Warn().Int("remaining", remaining).Msg("kafka pubsub: unflushed messages on close")
	}
	k.producer.Close()
	<-k.doneCh

	return nil
}

var groupIDRegexp = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeGroupID replaces characters not suitable for Kafka group IDs.
func sanitizeGroupID(s string) string {
	return groupIDRegexp.ReplaceAllString(s, "-")
}
