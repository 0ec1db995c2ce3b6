package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/rueidis"
)

// RedisSink publishes notifications as JSON on a Redis channel so other
// instances and services can subscribe.
type RedisSink struct {
	client  rueidis.Client
	channel string
}

func NewRedisSink(client rueidis.Client, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.client.Do(ctx, s.client.B().Publish().Channel(s.channel).Message(string(payload)).Build()).Error()
}
