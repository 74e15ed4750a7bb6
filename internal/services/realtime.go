package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
)

// Subscription is an explicit handle on a live event stream. Callers read
// from Events and must call Close when done; a handle that is never closed
// leaks its Redis subscription.
type Subscription struct {
	channel string
	pubsub  *redis.PubSub
	events  chan []byte
	done    chan struct{}
	once    sync.Once
}

// Events returns the stream of raw payloads published on the channel
func (s *Subscription) Events() <-chan []byte {
	return s.events
}

// Channel returns the Redis channel this subscription listens on
func (s *Subscription) Channel() string {
	return s.channel
}

// Close tears the subscription down. Safe to call more than once.
func (s *Subscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}

// RealtimeService publishes and subscribes to live events over Redis
// pub/sub. Channels are tenant-scoped so a subscriber never receives events
// from another company.
type RealtimeService struct {
	logger *logger.Logger
	client *redis.Client
}

// NewRealtimeService creates a new realtime service
func NewRealtimeService(logger *logger.Logger, client *redis.Client) *RealtimeService {
	return &RealtimeService{
		logger: logger,
		client: client,
	}
}

// Publish sends a JSON-encoded event to a channel
func (s *RealtimeService) Publish(ctx context.Context, channel string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for channel %s: %w", channel, err)
	}

	if err := s.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to channel %s: %w", channel, err)
	}
	return nil
}

// Subscribe opens a subscription on a channel. The returned handle owns the
// underlying Redis subscription until Close is called.
func (s *RealtimeService) Subscribe(ctx context.Context, channel string) (*Subscription, error) {
	pubsub := s.client.Subscribe(ctx, channel)

	// Force the subscribe round trip so a broken connection fails here
	// instead of silently delivering nothing
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	sub := &Subscription{
		channel: channel,
		pubsub:  pubsub,
		events:  make(chan []byte, 64),
		done:    make(chan struct{}),
	}

	go s.pump(sub)

	s.logger.WithField("channel", channel).Debug("Subscription opened")
	return sub, nil
}

// pump forwards Redis messages to the subscription's event channel until
// the handle is closed
func (s *RealtimeService) pump(sub *Subscription) {
	defer close(sub.events)

	ch := sub.pubsub.Channel()
	for {
		select {
		case <-sub.done:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			select {
			case sub.events <- []byte(msg.Payload):
			case <-sub.done:
				return
			default:
				// Slow consumer: drop rather than block the pump
				s.logger.WithField("channel", sub.channel).
					Warn("Dropping event for slow subscriber")
			}
		}
	}
}

// Channel name builders
func NotificationChannel(companyID, userID string) string {
	return fmt.Sprintf("notifications:%s:%s", companyID, userID)
}

func ChatChannel(companyID string) string {
	return fmt.Sprintf("chat:%s", companyID)
}
