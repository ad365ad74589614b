/**
 * @description
 * This file defines the outbound ports of the pledge service: the payment
 * processor, the account directory, and the notifier. Concrete adapters live in
 * pkg/paymentclient, pkg/accountclient, and pkg/rabbitmq; the service only sees
 * these interfaces so tests can substitute stubs.
 */

package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/issuepay/pledge-service/internal/domain"
)

// PaymentProcessor abstracts the payment provider used to collect pledges and
// move money to recipients.
type PaymentProcessor interface {
	// CreateCharge registers a payment intent for a pay-upfront pledge.
	CreateCharge(ctx context.Context, amount int64, currency string, pledgeID uuid.UUID) (*domain.Charge, error)
	// CreateInvoice issues a hosted invoice for a pay-on-completion pledge.
	CreateInvoice(ctx context.Context, amount int64, currency string, pledgeID uuid.UUID, email string) (*domain.Invoice, error)
	// CreateBalanceFromPaymentRef moves a recipient's share out of the charge
	// identified by paymentRef into the destination processor account. Returns
	// the processor transfer reference.
	CreateBalanceFromPaymentRef(ctx context.Context, paymentRef string, destinationProcessorID string, amount int64) (string, error)
	// CreateFeesReversalBalances reverses the platform fee portion associated
	// with a transfer so the recipient is not charged the processor fee twice.
	CreateFeesReversalBalances(ctx context.Context, paymentRef string, destinationProcessorID string, amount int64) error
	// Refund returns the full pledge amount to the pledger. Returns the
	// processor refund reference.
	Refund(ctx context.Context, paymentRef string, amount int64) (string, error)
}

// AccountDirectory resolves payout accounts for reward recipients.
type AccountDirectory interface {
	GetOrganizationAccount(ctx context.Context, organizationID uuid.UUID) (*domain.Account, error)
	GetUserAccount(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
}

// Notifier publishes lifecycle notification events for asynchronous delivery.
// Implementations must be safe for concurrent use; failures are logged by the
// service and never fail the triggering operation.
type Notifier interface {
	MaintainerPledgeCreated(ctx context.Context, event domain.MaintainerPledgeCreatedEvent) error
	MaintainerPledgedIssuePending(ctx context.Context, event domain.MaintainerPendingEvent) error
	PledgerPledgePending(ctx context.Context, event domain.PledgerPendingEvent) error
	TransferCompleted(ctx context.Context, event domain.TransferCompletedEvent) error
	PledgeDisputed(ctx context.Context, event domain.PledgeDisputedEvent) error
}
