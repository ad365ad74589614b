/**
 * @description
 * This file defines the notification event payloads published to RabbitMQ when a
 * pledge crosses a lifecycle boundary. The notification-service consumes these and
 * handles templating and delivery; this service only guarantees that each logical
 * event is published at most once per recipient per transition.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaintainerPledgeCreatedEvent tells the maintainer org that it received a pledge.
type MaintainerPledgeCreatedEvent struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	PledgeID       uuid.UUID `json:"pledge_id"`
	IssueID        uuid.UUID `json:"issue_id"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	Timestamp      time.Time `json:"timestamp"`
}

// MaintainerPendingEvent tells the maintainer org that its issue's pledges are
// now pending payout. Batched: one event per issue, not per pledge.
type MaintainerPendingEvent struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	IssueID        uuid.UUID `json:"issue_id"`
	PledgeCount    int       `json:"pledge_count"`
	TotalAmount    int64     `json:"total_amount"`
	Timestamp      time.Time `json:"timestamp"`
}

// PledgerPendingEvent tells one pledger that the issue they funded is resolved
// and their pledge entered the dispute window. One event per distinct pledger.
type PledgerPendingEvent struct {
	PledgerUserID         *uuid.UUID `json:"pledger_user_id,omitempty"`
	PledgerOrganizationID *uuid.UUID `json:"pledger_organization_id,omitempty"`
	IssueID               uuid.UUID  `json:"issue_id"`
	ScheduledPayoutAt     time.Time  `json:"scheduled_payout_at"`
	Timestamp             time.Time  `json:"timestamp"`
}

// TransferCompletedEvent tells one payee that their share of a pledge was paid.
type TransferCompletedEvent struct {
	RecipientOrganizationID *uuid.UUID `json:"recipient_organization_id,omitempty"`
	RecipientUserID         *uuid.UUID `json:"recipient_user_id,omitempty"`
	PledgeID                uuid.UUID  `json:"pledge_id"`
	IssueRewardID           uuid.UUID  `json:"issue_reward_id"`
	Amount                  int64      `json:"amount"`
	Currency                string     `json:"currency"`
	Timestamp               time.Time  `json:"timestamp"`
}

// PledgeDisputedEvent tells the maintainer org that a pledge was disputed.
type PledgeDisputedEvent struct {
	OrganizationID   uuid.UUID  `json:"organization_id"`
	PledgeID         uuid.UUID  `json:"pledge_id"`
	IssueID          uuid.UUID  `json:"issue_id"`
	Reason           string     `json:"reason"`
	DisputedByUserID *uuid.UUID `json:"disputed_by_user_id,omitempty"`
	Timestamp        time.Time  `json:"timestamp"`
}
