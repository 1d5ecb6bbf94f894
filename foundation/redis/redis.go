package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Redis struct {
	Client            *redis.Client
	Logger            *zap.SugaredLogger
	TranscriptChannel string
	ControlChannel    string
}

func New(host, password, transcriptChannel, controlChannel string, logger *zap.SugaredLogger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     host,
		Password: password,
	})

	_, err := client.Ping(context.Background()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Redis{
		Client:            client,
		Logger:            logger,
		TranscriptChannel: transcriptChannel,
		ControlChannel:    controlChannel,
	}, nil
}

func (r *Redis) Produce(data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	err = r.Client.Publish(context.Background(), r.TranscriptChannel, jsonData).Err()
	if err != nil {
		return err
	}

	r.Logger.Infow("redis: Produce", "channel", r.TranscriptChannel, "data", data)

	return nil
}

// ConsumeControlChannel subscribes to the call-control channel and hands the
// raw message stream to the caller. Closing the client tears the stream down.
func (r *Redis) ConsumeControlChannel() <-chan *redis.Message {
	sub := r.Client.Subscribe(context.Background(), r.ControlChannel)
	return sub.Channel()
}
