package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"roomkit/config"
	"roomkit/pkg/logger"
)

const (
	keyAccessToken  = "session:access_token"
	keyRefreshToken = "session:refresh_token"
	keyUser         = "session:user"

	updateChannel = "session.updated"
)

// RedisAdapter persists the session in redis and uses pub/sub to tell
// other client instances about changes. Messages carry the writer's
// instance id so a writer ignores its own updates.
type RedisAdapter struct {
	client     *redis.Client
	instanceID string
	log        *logger.Logger
}

func NewRedisAdapter(cfg config.RedisConfig, log *logger.Logger) (*RedisAdapter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisAdapter{
		client:     client,
		instanceID: uuid.New().String(),
		log:        log,
	}, nil
}

func (a *RedisAdapter) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	vals, err := a.client.MGet(ctx, keyAccessToken, keyRefreshToken, keyUser).Result()
	if err != nil {
		return snap, err
	}

	if s, ok := vals[0].(string); ok {
		snap.AccessToken = s
	}
	if s, ok := vals[1].(string); ok {
		snap.RefreshToken = s
	}
	if s, ok := vals[2].(string); ok && s != "" {
		var user User
		if err := json.Unmarshal([]byte(s), &user); err == nil {
			snap.User = &user
		}
	}
	return snap, nil
}

func (a *RedisAdapter) Save(ctx context.Context, snap Snapshot) error {
	userJSON := ""
	if snap.User != nil {
		data, err := json.Marshal(snap.User)
		if err != nil {
			return err
		}
		userJSON = string(data)
	}

	pipe := a.client.TxPipeline()
	pipe.Set(ctx, keyAccessToken, snap.AccessToken, 0)
	pipe.Set(ctx, keyRefreshToken, snap.RefreshToken, 0)
	pipe.Set(ctx, keyUser, userJSON, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	return a.client.Publish(ctx, updateChannel, a.instanceID).Err()
}

func (a *RedisAdapter) Clear(ctx context.Context) error {
	if err := a.client.Del(ctx, keyAccessToken, keyRefreshToken, keyUser).Err(); err != nil {
		return err
	}
	return a.client.Publish(ctx, updateChannel, a.instanceID).Err()
}

// Watch blocks, re-loading and delivering the snapshot whenever
// another instance announces a change. Returns when ctx is cancelled.
func (a *RedisAdapter) Watch(ctx context.Context, onChange func(Snapshot)) error {
	sub := a.client.Subscribe(ctx, updateChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if msg.Payload == a.instanceID {
				continue
			}
			snap, err := a.Load(ctx)
			if err != nil {
				a.log.Error("session reload after external change failed: ", err)
				continue
			}
			onChange(snap)
		}
	}
}

func (a *RedisAdapter) Close() error {
	return a.client.Close()
}
