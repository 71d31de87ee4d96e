package mq

import (
	"io"

	"github.com/redis/go-redis/v9"

	"tip-core/pkg/config"
)

// ProducerCloser 可关闭的生产者
type ProducerCloser interface {
	Producer
	io.Closer
}

// NewProducer 按 redis.mq_type 选择实现
func NewProducer(cfg config.Config, rdb *redis.Client) ProducerCloser {
	if cfg.Redis.MQType == "kafka" {
		return NewKafkaProducer(cfg.Kafka.Brokers)
	}
	return NewRedisProducer(rdb)
}

// NewConsumer 按 redis.mq_type 选择实现
func NewConsumer(cfg config.Config, rdb *redis.Client, group, name string) Consumer {
	if cfg.Redis.MQType == "kafka" {
		return NewKafkaConsumer(cfg.Kafka.Brokers, group)
	}
	return NewRedisConsumer(rdb, group, name)
}
