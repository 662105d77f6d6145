package repository

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/campushire/platform/internal/events"
)

const (
	activityFeedKey = "admin:activity"
	activityFeedCap = 200
)

// ActivityFeed is the capped event buffer the admin surface polls. It lives
// in redis so it survives process restarts.
type ActivityFeed interface {
	Push(ctx context.Context, event events.Event) error
	Recent(ctx context.Context, n int) ([]events.Event, error)
}

type redisActivityFeed struct {
	client *redis.Client
}

// NewActivityFeed returns a redis-backed feed.
func NewActivityFeed(client *redis.Client) ActivityFeed {
	return &redisActivityFeed{client: client}
}

func (f *redisActivityFeed) Push(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pipe := f.client.TxPipeline()
	pipe.LPush(ctx, activityFeedKey, payload)
	pipe.LTrim(ctx, activityFeedKey, 0, activityFeedCap-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (f *redisActivityFeed) Recent(ctx context.Context, n int) ([]events.Event, error) {
	if n <= 0 || n > activityFeedCap {
		n = 50
	}

	raw, err := f.client.LRange(ctx, activityFeedKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	feed := make([]events.Event, 0, len(raw))
	for _, item := range raw {
		var event events.Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			continue
		}
		feed = append(feed, event)
	}
	return feed, nil
}
