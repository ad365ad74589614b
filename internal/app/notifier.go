/**
 * @description
 * RabbitMQ-backed implementation of the Notifier port. Each lifecycle event maps
 * to a routing key on the pledge_events topic exchange; the notification-service
 * binds to the keys it handles.
 */

package app

import (
	"context"

	"github.com/issuepay/pledge-service/internal/domain"
	"github.com/issuepay/pledge-service/pkg/rabbitmq"
)

const pledgeEventsExchange = "pledge_events"

// EventNotifier publishes lifecycle notification events to RabbitMQ.
type EventNotifier struct {
	producer rabbitmq.Publisher
}

// NewEventNotifier creates a notifier backed by the given publisher.
func NewEventNotifier(producer rabbitmq.Publisher) *EventNotifier {
	return &EventNotifier{producer: producer}
}

func (n *EventNotifier) MaintainerPledgeCreated(ctx context.Context, event domain.MaintainerPledgeCreatedEvent) error {
	return n.producer.Publish(ctx, pledgeEventsExchange, "pledge.created.maintainer", event)
}

func (n *EventNotifier) MaintainerPledgedIssuePending(ctx context.Context, event domain.MaintainerPendingEvent) error {
	return n.producer.Publish(ctx, pledgeEventsExchange, "pledge.pending.maintainer", event)
}

func (n *EventNotifier) PledgerPledgePending(ctx context.Context, event domain.PledgerPendingEvent) error {
	return n.producer.Publish(ctx, pledgeEventsExchange, "pledge.pending.pledger", event)
}

func (n *EventNotifier) TransferCompleted(ctx context.Context, event domain.TransferCompletedEvent) error {
	return n.producer.Publish(ctx, pledgeEventsExchange, "pledge.transfer.completed", event)
}

func (n *EventNotifier) PledgeDisputed(ctx context.Context, event domain.PledgeDisputedEvent) error {
	return n.producer.Publish(ctx, pledgeEventsExchange, "pledge.disputed.maintainer", event)
}
