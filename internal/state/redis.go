package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/SanderSepp/omicron-app/internal/models"
)

const (
	redisKeyPrefix   = "omicron:state:"
	redisChannelName = "omicron:state-changes"
)

// RedisStore keeps event/profile state in redis and relays changes between
// processes over pub/sub. Local subscribers get the same Change stream as
// with the sqlite store.
type RedisStore struct {
	client *redis.Client
	bcast  *Broadcaster
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &RedisStore{
		client: client,
		bcast:  NewBroadcaster(),
		cancel: cancel,
	}
	if err := s.seedDefaults(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("error seeding defaults: %w", err)
	}

	s.wg.Add(1)
	go s.relay(ctx)

	return s, nil
}

func (s *RedisStore) seedDefaults(ctx context.Context) error {
	if err := s.client.SetNX(ctx, redisKeyPrefix+KeyEvent, string(models.EventCalm), 0).Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(models.DefaultProfile())
	if err != nil {
		return err
	}
	return s.client.SetNX(ctx, redisKeyPrefix+KeyProfile, string(raw), 0).Err()
}

// relay forwards pub/sub messages to local subscribers so changes made by
// other processes reach this one's streams.
func (s *RedisStore) relay(ctx context.Context) {
	defer s.wg.Done()

	pubsub := s.client.Subscribe(ctx, redisChannelName)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var change Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				slog.Warn("skipping malformed state change message", "error", err)
				continue
			}
			s.bcast.Broadcast(change)
		}
	}
}

func (s *RedisStore) publish(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, redisChannelName, payload).Err()
}

func (s *RedisStore) Event(ctx context.Context) (models.EventState, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+KeyEvent).Result()
	if errors.Is(err, redis.Nil) {
		return models.EventCalm, nil
	}
	if err != nil {
		return "", fmt.Errorf("error reading event: %w", err)
	}
	event, err := models.ParseEventState(value)
	if err != nil {
		return models.EventCalm, nil
	}
	return event, nil
}

func (s *RedisStore) SetEvent(ctx context.Context, event models.EventState) error {
	if err := s.client.Set(ctx, redisKeyPrefix+KeyEvent, string(event), 0).Err(); err != nil {
		return fmt.Errorf("error writing event: %w", err)
	}
	return s.publish(ctx, Change{Key: KeyEvent, Event: event})
}

func (s *RedisStore) Profile(ctx context.Context) (models.UserProfile, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+KeyProfile).Result()
	if errors.Is(err, redis.Nil) {
		return models.DefaultProfile(), nil
	}
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("error reading profile: %w", err)
	}
	var profile models.UserProfile
	if err := json.Unmarshal([]byte(value), &profile); err != nil {
		return models.DefaultProfile(), nil
	}
	return profile, nil
}

func (s *RedisStore) SetProfile(ctx context.Context, profile models.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("error encoding profile: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+KeyProfile, string(raw), 0).Err(); err != nil {
		return fmt.Errorf("error writing profile: %w", err)
	}
	return s.publish(ctx, Change{Key: KeyProfile, Profile: profile})
}

func (s *RedisStore) Subscribe() (uint64, <-chan Change) {
	return s.bcast.Subscribe()
}

func (s *RedisStore) Unsubscribe(id uint64) {
	s.bcast.Unsubscribe(id)
}

func (s *RedisStore) Close() error {
	s.cancel()
	s.wg.Wait()
	s.bcast.Close()
	return s.client.Close()
}
