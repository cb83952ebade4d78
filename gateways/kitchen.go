package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"resort-backend/logger"
)

type KitchenEventType string

const (
	KitchenItemCreated   KitchenEventType = "item.created"
	KitchenItemAdvanced  KitchenEventType = "item.advanced"
	KitchenItemCancelled KitchenEventType = "item.cancelled"
)

// KitchenEvent tells the kitchen display about a change to an order line.
type KitchenEvent struct {
	Type          KitchenEventType `json:"type"`
	ItemID        uint             `json:"item_id"`
	ReservationID uint             `json:"reservation_id"`
	RoomName      string           `json:"room_name,omitempty"`
	Description   string           `json:"description"`
	Quantity      int              `json:"quantity"`
	Category      string           `json:"category"`
	Status        string           `json:"status"`
	Notes         string           `json:"notes,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// KitchenKafka publishes kitchen events keyed by reservation so one stay's
// orders stay on one partition.
type KitchenKafka struct {
	writer *kafka.Writer
}

func NewKitchenKafka(brokers []string, topic string) *KitchenKafka {
	return &KitchenKafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
	}
}

func (k *KitchenKafka) Publish(ctx context.Context, event KitchenEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.ReservationID), 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (k *KitchenKafka) Close() error {
	return k.writer.Close()
}

// KitchenLog is the publisher used when no broker is configured. It logs
// every event and keeps the most recent ones for inspection.
type KitchenLog struct {
	log *logger.Logger

	mutex  sync.Mutex
	events []KitchenEvent
}

const kitchenLogKeep = 100

func NewKitchenLog(log *logger.Logger) *KitchenLog {
	return &KitchenLog{log: log}
}

func (k *KitchenLog) Publish(_ context.Context, event KitchenEvent) error {
	k.log.Info("🍳 kitchen event",
		"type", event.Type,
		"item_id", event.ItemID,
		"reservation_id", event.ReservationID,
		"description", event.Description,
		"quantity", event.Quantity,
		"status", event.Status,
	)

	k.mutex.Lock()
	defer k.mutex.Unlock()
	k.events = append(k.events, event)
	if len(k.events) > kitchenLogKeep {
		k.events = k.events[len(k.events)-kitchenLogKeep:]
	}
	return nil
}

func (k *KitchenLog) Events() []KitchenEvent {
	k.mutex.Lock()
	defer k.mutex.Unlock()
	out := make([]KitchenEvent, len(k.events))
	copy(out, k.events)
	return out
}
