package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/segmentio/kafka-go"
)

// publisher is satisfied by *Producer
type publisher interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error
}

// BillPublisher emits a BillFinalized event for every completed sale
type BillPublisher struct {
	producer publisher
	source   string
	register string
}

// NewBillPublisher creates a bill publisher. source names this service in
// the envelope.
func NewBillPublisher(p publisher, source, register string) *BillPublisher {
	return &BillPublisher{producer: p, source: source, register: register}
}

// Name identifies the sink in logs
func (b *BillPublisher) Name() string {
	return "kafka"
}

// Deliver queues the event keyed by bill id
func (b *BillPublisher) Deliver(ctx context.Context, bill entity.Bill) error {
	env, err := NewEnvelope(EventBillFinalized, billFinalizedVersion, b.source, bill.ID,
		NewBillFinalizedPayload(bill, b.register), bill.Date)
	if err != nil {
		return fmt.Errorf("encode %s: %w", EventBillFinalized, err)
	}

	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	return b.producer.Publish(ctx, []byte(bill.ID), value,
		kafka.Header{Key: "event_type", Value: []byte(EventBillFinalized)},
	)
}
