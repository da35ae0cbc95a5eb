package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/online_catalog/internal/logging"
	"github.com/Skotchmaster/online_catalog/internal/transport"
)

const (
	ProductTopic  = "product_events"
	CategoryTopic = "category_events"
	UserTopic     = "user_events"

	publishTimeout = 5 * time.Second
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type ProductIndex interface {
	IndexProduct(ctx context.Context, v transport.ProductView) error
	DeleteProduct(ctx context.Context, id uint) error
	SearchProducts(ctx context.Context, query string, from, size int) (int64, []transport.ProductView, error)
}

// ProductCache returns (nil, nil) from GetProduct on a miss.
type ProductCache interface {
	GetProduct(ctx context.Context, id uint) (*transport.ProductView, error)
	SetProduct(ctx context.Context, v transport.ProductView) error
	ForgetProduct(ctx context.Context, id uint) error
}

type Event struct {
	Type string    `json:"type"`
	ID   uint      `json:"id"`
	Name string    `json:"name,omitempty"`
	Slug string    `json:"slug,omitempty"`
	At   time.Time `json:"at"`
}

// publish is best effort: the write it reports has already committed.
func publish(ctx context.Context, p EventPublisher, topic string, ev Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ev.At = time.Now().UTC()
	if err := p.PublishEvent(ctx, topic, strconv.FormatUint(uint64(ev.ID), 10), ev); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "type", ev.Type, "id", ev.ID, "error", err)
	}
}
