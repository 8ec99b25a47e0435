package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"ops-portal/internal/auth"
	"ops-portal/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey       = "portal:session-events"
	GroupNamePrefix = "portal"
	ConsumerName    = "workspaces"
)

// RedisStreamEventQueueConfig holds the timing and retry knobs; zero fields take the defaults.
type RedisStreamEventQueueConfig struct {
	ClaimMinIdleTime   time.Duration // pending entries idle this long are reclaimed with XAUTOCLAIM
	MaxRetryCount      int           // deliveries beyond this are discarded
	ReadGroupBlockTime time.Duration
	MaxLen             int64 // approximate stream cap
}

func defaultRedisStreamConfig() RedisStreamEventQueueConfig {
	return RedisStreamEventQueueConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
		MaxLen:             10000,
	}
}

// RedisStreamEventQueue broadcasts events to every replica: each replica reads the shared stream
// through its own consumer group, so no replica steals another's deliveries.
type RedisStreamEventQueue struct {
	client       *redis.Client
	streamKey    string
	groupName    string
	consumerName string
	cfg          RedisStreamEventQueueConfig
}

// NewRedisStreamEventQueue joins the stream as replica instanceID; an empty id gets a uuid.
// The group starts at the stream tail, so events from before startup are not replayed.
func NewRedisStreamEventQueue(ctx context.Context, client *redis.Client, instanceID string, config *RedisStreamEventQueueConfig) (*RedisStreamEventQueue, error) {
	if instanceID == "" {
		instanceID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
		if config.MaxLen > 0 {
			cfg.MaxLen = config.MaxLen
		}
	}
	q := &RedisStreamEventQueue{
		client:       client,
		streamKey:    StreamKey,
		groupName:    fmt.Sprintf("%s:%s", GroupNamePrefix, instanceID),
		consumerName: ConsumerName,
		cfg:          cfg,
	}
	if err := q.ensureConsumerGroup(ctx); err != nil {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return q, nil
}

func (q *RedisStreamEventQueue) ensureConsumerGroup(ctx context.Context) error {
	err := q.client.XGroupCreateMkStream(ctx, q.streamKey, q.groupName, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// Close removes this replica's consumer group so the stream does not keep entries pending for it.
func (q *RedisStreamEventQueue) Close(ctx context.Context) error {
	return q.client.XGroupDestroy(ctx, q.streamKey, q.groupName).Err()
}

func (q *RedisStreamEventQueue) Publish(ctx context.Context, ev auth.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamKey,
		MaxLen: q.cfg.MaxLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{"event": string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func (q *RedisStreamEventQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		go q.runAutoClaim(ctx, out)
		q.runReadLoop(ctx, out)
	}()
	return out, nil
}

func (q *RedisStreamEventQueue) runReadLoop(ctx context.Context, out chan<- Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			q.readAndDeliver(ctx, out)
		}
	}
}

// readAndDeliver reads new entries only (">"). Entries already delivered but not acked are left
// to XAUTOCLAIM, which retries them once they have been idle long enough.
func (q *RedisStreamEventQueue) readAndDeliver(ctx context.Context, out chan<- Delivery) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.groupName,
		Consumer: q.consumerName,
		Streams:  []string{q.streamKey, ">"},
		Count:    10,
		Block:    q.cfg.ReadGroupBlockTime,
	}).Result()

	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.WithComponent("queue").Error("XReadGroup failed", zap.Error(err))
		time.Sleep(time.Second)
		return
	}

	for _, stream := range streams {
		if stream.Stream != q.streamKey {
			continue
		}
		for _, msg := range stream.Messages {
			d := q.newDelivery(ctx, msg)
			if d == nil {
				continue
			}
			select {
			case out <- *d:
			case <-ctx.Done():
				return
			}
		}
	}
}

// shouldRetry discards entries that have already been delivered MaxRetryCount times.
func (q *RedisStreamEventQueue) shouldRetry(ctx context.Context, messageID string) bool {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.streamKey,
		Group:  q.groupName,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.WithComponent("queue").Warn("XPendingExt failed", zap.String("message_id", messageID), zap.Error(err))
		return true
	}
	if len(pending) == 0 || int(pending[0].RetryCount) < q.cfg.MaxRetryCount {
		return true
	}
	logger.WithComponent("queue").Warn("discard poison event",
		zap.String("message_id", messageID),
		zap.Int64("retries", pending[0].RetryCount),
		zap.Int("max_retries", q.cfg.MaxRetryCount))
	_ = q.client.XAck(ctx, q.streamKey, q.groupName, messageID).Err()
	return false
}

func (q *RedisStreamEventQueue) runAutoClaim(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	startID := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			claimed, nextID, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   q.streamKey,
				Group:    q.groupName,
				Consumer: q.consumerName,
				MinIdle:  q.cfg.ClaimMinIdleTime,
				Count:    10,
				Start:    startID,
			}).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				if ctx.Err() == nil {
					logger.WithComponent("queue").Error("XAutoClaim failed", zap.Error(err))
				}
				continue
			}
			if nextID == "" {
				nextID = "0-0"
			}
			startID = nextID

			for _, msg := range claimed {
				if !q.shouldRetry(ctx, msg.ID) {
					continue
				}
				d := q.newDelivery(ctx, msg)
				if d == nil {
					continue
				}
				select {
				case out <- *d:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// newDelivery decodes one stream entry. Malformed entries are acked and dropped.
func (q *RedisStreamEventQueue) newDelivery(ctx context.Context, msg redis.XMessage) *Delivery {
	log := logger.WithComponent("queue")
	msgID := msg.ID

	raw, ok := msg.Values["event"].(string)
	var ev auth.Event
	if !ok || json.Unmarshal([]byte(raw), &ev) != nil {
		log.Warn("invalid event entry", zap.String("message_id", msgID))
		_ = q.client.XAck(ctx, q.streamKey, q.groupName, msgID).Err()
		return nil
	}

	ack := func() {
		if err := q.client.XAck(ctx, q.streamKey, q.groupName, msgID).Err(); err != nil {
			log.Error("XAck failed", zap.String("message_id", msgID), zap.Error(err))
		}
	}
	return &Delivery{
		Data: &ev,
		Ack:  ack,
		Nack: func(requeue bool) {
			if requeue {
				// left pending; XAUTOCLAIM redelivers after ClaimMinIdleTime
				log.Info("event nack, will retry", zap.String("message_id", msgID), zap.Duration("claim_min_idle", q.cfg.ClaimMinIdleTime))
				return
			}
			ack()
		},
	}
}
