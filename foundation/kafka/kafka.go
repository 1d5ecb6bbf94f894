package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Kafka struct {
	Writer *kafka.Writer
	Logger *zap.SugaredLogger
}

func New(brokers []string, topic string, logger *zap.SugaredLogger) *Kafka {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &Kafka{
		Writer: writer,
		Logger: logger,
	}
}

func (k *Kafka) Produce(key string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonData,
	}

	if err := k.Writer.WriteMessages(context.Background(), msg); err != nil {
		return err
	}

	k.Logger.Infow("kafka: Produce", "topic", k.Writer.Topic, "key", key)

	return nil
}

func (k *Kafka) Close() error {
	return k.Writer.Close()
}
