package cache

import (
	"context"
	"encoding/json"

	"github.com/fuega-ai/fuega/pkg/infra/cache/event"
)

type redisEventPublisher struct {
	cache   Cache
	channel string
}

func NewRedisEventPublisher(cache Cache, channel string) EventPublisher {
	if channel == "" {
		channel = ModerationEventsChannel
	}
	return &redisEventPublisher{
		cache:   cache,
		channel: channel,
	}
}

func (p *redisEventPublisher) Publish(ctx context.Context, ev event.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	envelope := RedisMessage{
		Type:  ev.Type(),
		Event: b,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return p.cache.Client().Publish(ctx, p.channel, data).Err()
}
