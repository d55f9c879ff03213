// Package event publishes entity change notifications to the message broker.
// Publishing is best-effort: a broker failure is logged and counted but never
// fails the operation that triggered it.
package event

import (
	"context"

	"github.com/medrec/records-api/pkg/logger"
	"github.com/medrec/records-api/pkg/messaging"
	"github.com/medrec/records-api/pkg/metrics"
)

type Publisher struct {
	broker  messaging.Broker
	channel string
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewPublisher creates a publisher for the given channel. The metrics handle
// may be nil.
func NewPublisher(broker messaging.Broker, channel string, log *logger.Logger, m *metrics.Metrics) *Publisher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{
		broker:  broker,
		channel: channel,
		logger:  log.WithComponent("events"),
		metrics: m,
	}
}

// Publish sends one typed event to the broker.
func (p *Publisher) Publish(ctx context.Context, eventType string, payload interface{}) {
	msg := messaging.Message{
		Type:    eventType,
		Payload: payload,
	}

	if err := p.broker.Publish(ctx, p.channel, msg); err != nil {
		p.logger.Warn(err, "failed to publish "+eventType)
		if p.metrics != nil {
			p.metrics.EventsFailed.Inc()
		}
		return
	}

	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(eventType).Inc()
	}
}
