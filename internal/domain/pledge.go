/**
 * @description
 * This file defines the Pledge entity and its lifecycle state machine. A pledge is a
 * funding commitment by a user or an organization against one issue. It moves through
 * a closed set of states; every transition is validated against an explicit table so
 * that illegal transitions are impossible to express rather than merely unlikely.
 *
 * @notes
 * - Amounts and fees are stored as `int64` in the smallest currency unit (cents),
 *   which avoids floating-point inaccuracies with financial data.
 * - Exactly one of ByUserID / ByOrganizationID is set; the attributed payer may
 *   differ from the processor-level payer (OnBehalfOfOrganizationID).
 * - Pledges are never deleted. Refunded and disputed pledges are retained for audit.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// PledgeState is the lifecycle state of a pledge.
type PledgeState string

const (
	// PledgeStateInitiated is a payment-intent that the processor has not yet confirmed.
	PledgeStateInitiated PledgeState = "initiated"
	// PledgeStateCreated is a confirmed pledge whose issue is not yet resolved.
	PledgeStateCreated PledgeState = "created"
	// PledgeStatePending means the issue is resolved and the dispute window is running.
	PledgeStatePending PledgeState = "pending"
	// PledgeStatePaid means every reward recipient has been paid out. Terminal.
	PledgeStatePaid PledgeState = "paid"
	// PledgeStateRefunded means the funds went back to the pledger. Terminal.
	PledgeStateRefunded PledgeState = "refunded"
	// PledgeStateDisputed means the pledger raised a dispute; payout is blocked.
	PledgeStateDisputed PledgeState = "disputed"
	// PledgeStateChargeDisputed means the dispute escalated to a processor chargeback. Terminal.
	PledgeStateChargeDisputed PledgeState = "charge_disputed"
)

// PledgeType distinguishes how a pledge is funded.
type PledgeType string

const (
	// PledgeTypePayUpfront is charged when the pledge is made.
	PledgeTypePayUpfront PledgeType = "pay_upfront"
	// PledgeTypePayOnCompletion is invoiced once the issue is resolved.
	PledgeTypePayOnCompletion PledgeType = "pay_on_completion"
)

// Allowed source states per target transition. The state machine itself is the
// de-duplication mechanism: an operation that finds a pledge outside the allowed
// source set for its target treats the transition as already done (or illegal).
var (
	ToCreatedStates        = []PledgeState{PledgeStateInitiated}
	ToPendingStates        = []PledgeState{PledgeStateCreated}
	ToPaidStates           = []PledgeState{PledgeStatePending}
	ToRefundedStates       = []PledgeState{PledgeStateInitiated, PledgeStateCreated, PledgeStatePending, PledgeStateDisputed}
	ToDisputedStates       = []PledgeState{PledgeStateCreated, PledgeStatePending}
	ToChargeDisputedStates = []PledgeState{PledgeStateDisputed}
)

// IsTerminal reports whether no further transitions are permitted from s.
func (s PledgeState) IsTerminal() bool {
	switch s {
	case PledgeStatePaid, PledgeStateRefunded, PledgeStateChargeDisputed:
		return true
	}
	return false
}

// CanTransitionTo reports whether a pledge in state s may move to target.
func (s PledgeState) CanTransitionTo(target PledgeState) bool {
	var allowed []PledgeState
	switch target {
	case PledgeStateCreated:
		allowed = ToCreatedStates
	case PledgeStatePending:
		allowed = ToPendingStates
	case PledgeStatePaid:
		allowed = ToPaidStates
	case PledgeStateRefunded:
		allowed = ToRefundedStates
	case PledgeStateDisputed:
		allowed = ToDisputedStates
	case PledgeStateChargeDisputed:
		allowed = ToChargeDisputedStates
	default:
		return false
	}
	for _, a := range allowed {
		if a == s {
			return true
		}
	}
	return false
}

// Pledge is the central record for one funding commitment against an issue.
// This struct maps directly to the `pledges` table in the database.
type Pledge struct {
	ID                       uuid.UUID   `json:"id"`
	IssueID                  uuid.UUID   `json:"issue_id"`
	RepositoryID             uuid.UUID   `json:"repository_id"`
	OrganizationID           uuid.UUID   `json:"organization_id"` // org that owns the repository
	ByUserID                 *uuid.UUID  `json:"by_user_id,omitempty"`
	ByOrganizationID         *uuid.UUID  `json:"by_organization_id,omitempty"`
	OnBehalfOfOrganizationID *uuid.UUID  `json:"on_behalf_of_organization_id,omitempty"`
	CreatedByUserID          *uuid.UUID  `json:"created_by_user_id,omitempty"`
	Email                    *string     `json:"email,omitempty"`
	Amount                   int64       `json:"amount"` // in cents
	Fee                      int64       `json:"fee"`    // in cents
	Currency                 string      `json:"currency"`
	State                    PledgeState `json:"state"`
	Type                     PledgeType  `json:"type"`
	PaymentRef               *string     `json:"payment_ref,omitempty"` // processor charge / payment intent
	InvoiceID                *string     `json:"invoice_id,omitempty"`
	InvoiceHostedURL         *string     `json:"invoice_hosted_url,omitempty"`
	ScheduledPayoutAt        *time.Time  `json:"scheduled_payout_at,omitempty"`
	DisputeReason            *string     `json:"dispute_reason,omitempty"`
	DisputedAt               *time.Time  `json:"disputed_at,omitempty"`
	DisputedByUserID         *uuid.UUID  `json:"disputed_by_user_id,omitempty"`
	CreatedAt                time.Time   `json:"created_at"`
	UpdatedAt                time.Time   `json:"updated_at"`
}

// CreatePledgePayload is the DTO for incoming create-pledge API requests.
type CreatePledgePayload struct {
	IssueID                  uuid.UUID  `json:"issue_id"`
	Type                     PledgeType `json:"type"`
	Amount                   int64      `json:"amount"` // in cents
	Currency                 string     `json:"currency"`
	ByOrganizationID         *uuid.UUID `json:"by_organization_id,omitempty"`
	OnBehalfOfOrganizationID *uuid.UUID `json:"on_behalf_of_organization_id,omitempty"`
	Email                    *string    `json:"email,omitempty"`
}

// CreatePledgeResult is returned after a pledge intent has been registered.
type CreatePledgeResult struct {
	Pledge    *Pledge `json:"pledge"`
	HostedURL string  `json:"hosted_url,omitempty"`
}

// PledgeListOptions filters pledge listings.
type PledgeListOptions struct {
	IssueID        *uuid.UUID
	OrganizationID *uuid.UUID
	AllStates      bool // include terminal and disputed states
}
