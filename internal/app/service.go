/**
 * @description
 * This file contains the core business logic for the pledge-service. The `Service`
 * struct orchestrates the pledge lifecycle, coordinating between the database
 * repository, the payment processor, the account directory, and the message broker.
 *
 * Key features:
 * - Implements the main use cases: pledge creation, payment confirmation, issue
 *   resolution with reward splits, payouts, refunds, and disputes.
 * - Enforces the pledge state machine; the repository's guarded updates are the
 *   concurrency backstop for every transition made here.
 * - Publishes notification events to RabbitMQ exactly once per logical transition.
 *
 * @dependencies
 * - context, errors, fmt, log, time: Standard Go libraries.
 * - github.com/google/uuid: For UUID generation.
 * - internal/domain, internal/money, internal/store: Domain models, money
 *   arithmetic, and data access.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/issuepay/pledge-service/internal/domain"
	"github.com/issuepay/pledge-service/internal/money"
	"github.com/issuepay/pledge-service/internal/store"
)

// Service provides the core business logic for pledges.
type Service struct {
	repo          store.Repository
	payments      PaymentProcessor
	accounts      AccountDirectory
	notifier      Notifier
	disputeWindow time.Duration
	feeThousands  int // platform fee as thousandths of the pledge amount
}

// NewService creates a new pledge service instance.
func NewService(repo store.Repository, payments PaymentProcessor, accounts AccountDirectory, notifier Notifier, disputeWindow time.Duration, feeThousands int) *Service {
	return &Service{
		repo:          repo,
		payments:      payments,
		accounts:      accounts,
		notifier:      notifier,
		disputeWindow: disputeWindow,
		feeThousands:  feeThousands,
	}
}

// CreatePledge registers a new pledge against an issue. Pay-upfront pledges start
// as a payment intent in the initiated state and only become real pledges when the
// processor confirms payment. Pay-on-completion pledges are real immediately and
// carry a hosted invoice instead.
func (s *Service) CreatePledge(ctx context.Context, issueOrgID, repositoryID uuid.UUID, byUserID *uuid.UUID, payload domain.CreatePledgePayload) (*domain.CreatePledgeResult, error) {
	log.Printf("CreatePledge: issue=%s type=%s amount=%d", payload.IssueID, payload.Type, payload.Amount)

	if payload.Amount <= 0 {
		return nil, errors.New("pledge amount must be positive")
	}
	if byUserID == nil && payload.ByOrganizationID == nil {
		return nil, errors.New("pledge must have a pledger")
	}
	if byUserID != nil && payload.ByOrganizationID != nil {
		return nil, errors.New("pledge cannot have both a user and an organization pledger")
	}

	fee, err := money.ShareAmount(payload.Amount, s.feeThousands)
	if err != nil {
		return nil, fmt.Errorf("failed to compute platform fee: %w", err)
	}

	pledge := &domain.Pledge{
		ID:                       uuid.New(),
		IssueID:                  payload.IssueID,
		RepositoryID:             repositoryID,
		OrganizationID:           issueOrgID,
		ByUserID:                 byUserID,
		ByOrganizationID:         payload.ByOrganizationID,
		OnBehalfOfOrganizationID: payload.OnBehalfOfOrganizationID,
		CreatedByUserID:          byUserID,
		Email:                    payload.Email,
		Amount:                   payload.Amount,
		Fee:                      fee,
		Currency:                 payload.Currency,
		Type:                     payload.Type,
	}

	result := &domain.CreatePledgeResult{Pledge: pledge}
	switch payload.Type {
	case domain.PledgeTypePayUpfront:
		pledge.State = domain.PledgeStateInitiated
		charge, err := s.payments.CreateCharge(ctx, payload.Amount+fee, payload.Currency, pledge.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create charge: %w", err)
		}
		pledge.PaymentRef = &charge.PaymentRef
		result.HostedURL = charge.ClientSecret
	case domain.PledgeTypePayOnCompletion:
		if payload.Email == nil || *payload.Email == "" {
			return nil, errors.New("pay-on-completion pledge requires an email for invoicing")
		}
		pledge.State = domain.PledgeStateCreated
		invoice, err := s.payments.CreateInvoice(ctx, payload.Amount+fee, payload.Currency, pledge.ID, *payload.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to create invoice: %w", err)
		}
		pledge.InvoiceID = &invoice.ID
		pledge.InvoiceHostedURL = &invoice.HostedURL
		result.HostedURL = invoice.HostedURL
	default:
		return nil, fmt.Errorf("unknown pledge type %q", payload.Type)
	}

	if err := s.repo.CreatePledge(ctx, pledge); err != nil {
		return nil, fmt.Errorf("failed to persist pledge: %w", err)
	}

	// Pay-on-completion pledges are live from the start, so the maintainer is
	// told now. Pay-upfront pledges notify on processor confirmation instead.
	if pledge.State == domain.PledgeStateCreated {
		s.notifyMaintainerPledgeCreated(ctx, pledge)
	}
	return result, nil
}

// MarkCreatedByPaymentRef confirms a pledge after the payment processor reports a
// successful charge. Re-delivered confirmations with the same amount are silent
// no-ops; a different amount is refused so a mismatched charge never becomes a
// live pledge.
func (s *Service) MarkCreatedByPaymentRef(ctx context.Context, paymentRef string, amount int64) error {
	pledge, err := s.repo.GetPledgeByPaymentRef(ctx, paymentRef)
	if err != nil {
		return err
	}
	if pledge.Amount+pledge.Fee != amount {
		log.Printf("MarkCreatedByPaymentRef: amount mismatch for pledge %s: expected %d, got %d", pledge.ID, pledge.Amount+pledge.Fee, amount)
		return ErrAmountMismatch
	}
	if pledge.State != domain.PledgeStateInitiated {
		// Already confirmed (or beyond). Webhook retries land here.
		return nil
	}

	moved, err := s.repo.MarkPledgeCreated(ctx, pledge.ID)
	if err != nil {
		return fmt.Errorf("failed to mark pledge created: %w", err)
	}
	if !moved {
		// Lost the race against a concurrent confirmation; the winner notified.
		return nil
	}
	pledge.State = domain.PledgeStateCreated
	s.notifyMaintainerPledgeCreated(ctx, pledge)
	return nil
}

func (s *Service) notifyMaintainerPledgeCreated(ctx context.Context, pledge *domain.Pledge) {
	event := domain.MaintainerPledgeCreatedEvent{
		OrganizationID: pledge.OrganizationID,
		PledgeID:       pledge.ID,
		IssueID:        pledge.IssueID,
		Amount:         pledge.Amount,
		Currency:       pledge.Currency,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.notifier.MaintainerPledgeCreated(ctx, event); err != nil {
		log.Printf("notifyMaintainerPledgeCreated: failed to publish event for pledge %s: %v", pledge.ID, err)
	}
}

// ConfirmIssueSolved records the reward split for a solved issue and moves its
// confirmed pay-upfront pledges into the dispute window. The split set is
// validated, persisted once, and immutable afterwards; a second confirmation
// for the same issue fails with store.ErrRewardsAlreadyExist.
func (s *Service) ConfirmIssueSolved(ctx context.Context, issueID uuid.UUID, payload domain.ConfirmIssueSolvedPayload) ([]domain.IssueReward, error) {
	log.Printf("ConfirmIssueSolved: issue=%s splits=%d", issueID, len(payload.Splits))

	// An empty resubmission against an issue whose splits are already set is a
	// duplicate confirmation, not a validation failure.
	if len(payload.Splits) == 0 {
		existing, err := s.repo.ListRewardsByIssue(ctx, issueID)
		if err != nil {
			return nil, fmt.Errorf("failed to list issue rewards: %w", err)
		}
		if len(existing) > 0 {
			return nil, store.ErrRewardsAlreadyExist
		}
		return nil, ErrNoSplits
	}
	if err := ValidateSplits(payload.Splits); err != nil {
		return nil, err
	}

	rewards := make([]domain.IssueReward, 0, len(payload.Splits))
	for _, split := range payload.Splits {
		reward := domain.IssueReward{
			ID:             uuid.New(),
			IssueID:        issueID,
			OrganizationID: split.OrganizationID,
			GithubUsername: split.GithubUsername,
			ShareThousands: split.ShareThousands,
		}
		// Resolve username placeholders to linked accounts where possible. An
		// unknown username stays a placeholder and is linked at payout time.
		if split.GithubUsername != nil {
			user, err := s.repo.FindUserByGithubUsername(ctx, *split.GithubUsername)
			if err == nil {
				reward.UserID = &user.ID
			} else if !errors.Is(err, store.ErrUserNotFound) {
				return nil, fmt.Errorf("failed to resolve username %q: %w", *split.GithubUsername, err)
			}
		}
		rewards = append(rewards, reward)
	}

	created, err := s.repo.CreateIssueRewards(ctx, issueID, rewards)
	if err != nil {
		return nil, err
	}

	if err := s.MarkPendingByIssue(ctx, issueID); err != nil {
		// The split set is committed; pledges can still be moved to pending by a
		// later re-invocation, so this is logged rather than unwound.
		log.Printf("ConfirmIssueSolved: failed to mark pledges pending for issue %s: %v", issueID, err)
	}
	return created, nil
}

// MarkPendingByIssue moves every confirmed pay-upfront pledge on the issue into
// the pending state and stamps its payout schedule. Notifications go out exactly
// once: one to the maintainer per issue, one to each distinct pledger. When no
// pledge transitioned (including on re-invocation) the call is a silent no-op.
func (s *Service) MarkPendingByIssue(ctx context.Context, issueID uuid.UUID) error {
	scheduledPayoutAt := time.Now().UTC().Add(s.disputeWindow)
	moved, err := s.repo.MarkPledgesPendingByIssue(ctx, issueID, scheduledPayoutAt)
	if err != nil {
		return fmt.Errorf("failed to mark pledges pending: %w", err)
	}
	if len(moved) == 0 {
		return nil
	}
	log.Printf("MarkPendingByIssue: issue=%s pledges=%d scheduled_payout_at=%s", issueID, len(moved), scheduledPayoutAt.Format(time.RFC3339))

	var total int64
	for _, p := range moved {
		total += p.Amount
	}
	maintainerEvent := domain.MaintainerPendingEvent{
		OrganizationID: moved[0].OrganizationID,
		IssueID:        issueID,
		PledgeCount:    len(moved),
		TotalAmount:    total,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.notifier.MaintainerPledgedIssuePending(ctx, maintainerEvent); err != nil {
		log.Printf("MarkPendingByIssue: failed to publish maintainer event for issue %s: %v", issueID, err)
	}

	type pledgerKey struct {
		userID uuid.UUID
		orgID  uuid.UUID
	}
	seen := make(map[pledgerKey]struct{}, len(moved))
	for _, p := range moved {
		key := pledgerKey{}
		if p.ByUserID != nil {
			key.userID = *p.ByUserID
		}
		if p.ByOrganizationID != nil {
			key.orgID = *p.ByOrganizationID
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		event := domain.PledgerPendingEvent{
			PledgerUserID:         p.ByUserID,
			PledgerOrganizationID: p.ByOrganizationID,
			IssueID:               issueID,
			ScheduledPayoutAt:     scheduledPayoutAt,
			Timestamp:             time.Now().UTC(),
		}
		if err := s.notifier.PledgerPledgePending(ctx, event); err != nil {
			log.Printf("MarkPendingByIssue: failed to publish pledger event for issue %s: %v", issueID, err)
		}
	}
	return nil
}

// Transfer pays one reward recipient their share of one pledge. Preconditions
// are checked in order: the pledge must be pending, the dispute window must have
// elapsed, the reward must belong to the pledge's issue, and the recipient must
// have a payouts-enabled account. The (pledge, reward) uniqueness constraint in
// the store makes a concurrent duplicate lose cleanly after the processor call.
func (s *Service) Transfer(ctx context.Context, pledgeID, rewardID uuid.UUID) (*domain.PledgeTransaction, error) {
	log.Printf("Transfer: pledge=%s reward=%s", pledgeID, rewardID)

	pledge, err := s.repo.GetPledge(ctx, pledgeID)
	if err != nil {
		return nil, err
	}
	if pledge.State != domain.PledgeStatePending {
		return nil, ErrNotPending
	}
	if pledge.ScheduledPayoutAt != nil && time.Now().UTC().Before(*pledge.ScheduledPayoutAt) {
		return nil, ErrInDisputeWindow
	}

	reward, err := s.repo.GetIssueReward(ctx, rewardID)
	if err != nil {
		return nil, err
	}
	if reward.IssueID != pledge.IssueID {
		return nil, store.ErrRewardNotFound
	}

	existing, err := s.repo.ListTransactionsByPledge(ctx, pledgeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pledge transactions: %w", err)
	}
	for _, tx := range existing {
		if tx.Type == domain.PledgeTransactionTypeTransfer && tx.IssueRewardID != nil && *tx.IssueRewardID == rewardID {
			return nil, store.ErrTransferAlreadyExists
		}
	}

	account, err := s.resolveRewardAccount(ctx, reward)
	if err != nil {
		return nil, err
	}
	if account == nil || !account.IsPayoutsEnabled {
		return nil, ErrNoPayoutAccount
	}

	amount, err := money.ShareAmount(pledge.Amount, reward.ShareThousands)
	if err != nil {
		return nil, fmt.Errorf("failed to compute reward share: %w", err)
	}
	if pledge.PaymentRef == nil {
		return nil, errors.New("pledge has no payment reference to transfer from")
	}

	transferRef, err := s.payments.CreateBalanceFromPaymentRef(ctx, *pledge.PaymentRef, account.ProcessorID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to create transfer at processor: %w", err)
	}
	feeShare, err := money.ShareAmount(pledge.Fee, reward.ShareThousands)
	if err == nil && feeShare > 0 {
		if err := s.payments.CreateFeesReversalBalances(ctx, *pledge.PaymentRef, account.ProcessorID, feeShare); err != nil {
			log.Printf("Transfer: failed to reverse fees for pledge %s reward %s: %v", pledgeID, rewardID, err)
		}
	}

	tx := &domain.PledgeTransaction{
		ID:             uuid.New(),
		PledgeID:       pledgeID,
		Type:           domain.PledgeTransactionTypeTransfer,
		Amount:         amount,
		TransactionRef: &transferRef,
		IssueRewardID:  &rewardID,
	}
	if err := s.repo.CreatePledgeTransaction(ctx, tx); err != nil {
		// A duplicate here means a concurrent caller already paid this reward;
		// the processor transfer reference is surfaced in the error log for
		// manual reconciliation.
		log.Printf("Transfer: failed to record transaction for pledge %s reward %s (transfer_ref=%s): %v", pledgeID, rewardID, transferRef, err)
		return nil, err
	}

	s.markPaidIfComplete(ctx, pledge)

	event := domain.TransferCompletedEvent{
		RecipientOrganizationID: reward.OrganizationID,
		RecipientUserID:         reward.UserID,
		PledgeID:                pledgeID,
		IssueRewardID:           rewardID,
		Amount:                  amount,
		Currency:                pledge.Currency,
		Timestamp:               time.Now().UTC(),
	}
	if err := s.notifier.TransferCompleted(ctx, event); err != nil {
		log.Printf("Transfer: failed to publish event for pledge %s reward %s: %v", pledgeID, rewardID, err)
	}
	return tx, nil
}

func (s *Service) resolveRewardAccount(ctx context.Context, reward *domain.IssueReward) (*domain.Account, error) {
	switch {
	case reward.OrganizationID != nil:
		account, err := s.accounts.GetOrganizationAccount(ctx, *reward.OrganizationID)
		if err != nil {
			return nil, ErrNoPayoutAccount
		}
		return account, nil
	case reward.UserID != nil:
		account, err := s.accounts.GetUserAccount(ctx, *reward.UserID)
		if err != nil {
			return nil, ErrNoPayoutAccount
		}
		return account, nil
	case reward.GithubUsername != nil:
		// The placeholder may have been linked since the split was recorded.
		user, err := s.repo.FindUserByGithubUsername(ctx, *reward.GithubUsername)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return nil, ErrUnlinkedRecipient
			}
			return nil, err
		}
		account, err := s.accounts.GetUserAccount(ctx, user.ID)
		if err != nil {
			return nil, ErrNoPayoutAccount
		}
		return account, nil
	}
	return nil, ErrUnlinkedRecipient
}

// markPaidIfComplete promotes a pending pledge to paid once a transfer exists for
// every reward on its issue.
func (s *Service) markPaidIfComplete(ctx context.Context, pledge *domain.Pledge) {
	rewards, err := s.repo.ListRewardsByIssue(ctx, pledge.IssueID)
	if err != nil {
		log.Printf("markPaidIfComplete: failed to list rewards for issue %s: %v", pledge.IssueID, err)
		return
	}
	txs, err := s.repo.ListTransactionsByPledge(ctx, pledge.ID)
	if err != nil {
		log.Printf("markPaidIfComplete: failed to list transactions for pledge %s: %v", pledge.ID, err)
		return
	}
	paid := make(map[uuid.UUID]struct{}, len(txs))
	for _, tx := range txs {
		if tx.Type == domain.PledgeTransactionTypeTransfer && tx.IssueRewardID != nil {
			paid[*tx.IssueRewardID] = struct{}{}
		}
	}
	for _, reward := range rewards {
		if _, ok := paid[reward.ID]; !ok {
			return
		}
	}
	if _, err := s.repo.MarkPledgePaid(ctx, pledge.ID); err != nil {
		log.Printf("markPaidIfComplete: failed to mark pledge %s paid: %v", pledge.ID, err)
	}
}

// Refund returns the full pledge amount to the pledger and moves the pledge to
// the refunded state. Permitted from any non-terminal state.
func (s *Service) Refund(ctx context.Context, pledgeID uuid.UUID) error {
	log.Printf("Refund: pledge=%s", pledgeID)

	pledge, err := s.repo.GetPledge(ctx, pledgeID)
	if err != nil {
		return err
	}
	if !pledge.State.CanTransitionTo(domain.PledgeStateRefunded) {
		return ErrIllegalTransition
	}

	var refundRef *string
	if pledge.PaymentRef != nil && pledge.State != domain.PledgeStateInitiated {
		ref, err := s.payments.Refund(ctx, *pledge.PaymentRef, pledge.Amount+pledge.Fee)
		if err != nil {
			return fmt.Errorf("failed to refund at processor: %w", err)
		}
		refundRef = &ref
	}

	moved, err := s.repo.MarkPledgeRefunded(ctx, pledgeID)
	if err != nil {
		return fmt.Errorf("failed to mark pledge refunded: %w", err)
	}
	if !moved {
		return ErrIllegalTransition
	}
	if refundRef != nil {
		tx := &domain.PledgeTransaction{
			ID:             uuid.New(),
			PledgeID:       pledgeID,
			Type:           domain.PledgeTransactionTypeRefund,
			Amount:         pledge.Amount + pledge.Fee,
			TransactionRef: refundRef,
		}
		if err := s.repo.CreatePledgeTransaction(ctx, tx); err != nil {
			log.Printf("Refund: failed to record refund transaction for pledge %s: %v", pledgeID, err)
		}
	}
	return nil
}

// MarkDisputed records a pledger's dispute and blocks payout. Disputes are only
// permitted while the dispute window is open.
func (s *Service) MarkDisputed(ctx context.Context, pledgeID, byUserID uuid.UUID, reason string) error {
	log.Printf("MarkDisputed: pledge=%s by=%s", pledgeID, byUserID)

	pledge, err := s.repo.GetPledge(ctx, pledgeID)
	if err != nil {
		return err
	}
	if !pledge.State.CanTransitionTo(domain.PledgeStateDisputed) {
		return ErrIllegalTransition
	}
	if pledge.ScheduledPayoutAt != nil && time.Now().UTC().After(*pledge.ScheduledPayoutAt) {
		return ErrDisputePeriodEnded
	}

	moved, err := s.repo.MarkPledgeDisputed(ctx, pledgeID, byUserID, reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark pledge disputed: %w", err)
	}
	if !moved {
		return ErrIllegalTransition
	}

	event := domain.PledgeDisputedEvent{
		OrganizationID:   pledge.OrganizationID,
		PledgeID:         pledgeID,
		IssueID:          pledge.IssueID,
		Reason:           reason,
		DisputedByUserID: &byUserID,
		Timestamp:        time.Now().UTC(),
	}
	if err := s.notifier.PledgeDisputed(ctx, event); err != nil {
		log.Printf("MarkDisputed: failed to publish event for pledge %s: %v", pledgeID, err)
	}
	return nil
}

// MarkChargeDisputed escalates a disputed pledge to a processor chargeback and
// records the money movement. Terminal.
func (s *Service) MarkChargeDisputed(ctx context.Context, pledgeID uuid.UUID) error {
	log.Printf("MarkChargeDisputed: pledge=%s", pledgeID)

	pledge, err := s.repo.GetPledge(ctx, pledgeID)
	if err != nil {
		return err
	}
	moved, err := s.repo.MarkPledgeChargeDisputed(ctx, pledgeID)
	if err != nil {
		return fmt.Errorf("failed to mark pledge charge-disputed: %w", err)
	}
	if !moved {
		return ErrIllegalTransition
	}
	tx := &domain.PledgeTransaction{
		ID:       uuid.New(),
		PledgeID: pledgeID,
		Type:     domain.PledgeTransactionTypeDisputed,
		Amount:   pledge.Amount + pledge.Fee,
	}
	if err := s.repo.CreatePledgeTransaction(ctx, tx); err != nil {
		log.Printf("MarkChargeDisputed: failed to record transaction for pledge %s: %v", pledgeID, err)
	}
	return nil
}

// MarkChargeDisputedByPaymentRef handles a processor chargeback notification,
// resolving the pledge by its payment reference. A chargeback for a pledge that
// was never disputed first moves it through disputed, so the state machine
// still holds.
func (s *Service) MarkChargeDisputedByPaymentRef(ctx context.Context, paymentRef string) error {
	pledge, err := s.repo.GetPledgeByPaymentRef(ctx, paymentRef)
	if err != nil {
		return err
	}
	if pledge.State != domain.PledgeStateDisputed {
		// Processor-initiated chargebacks can arrive without a prior in-app
		// dispute. The guarded update fails quietly on terminal states.
		if _, err := s.repo.MarkPledgeDisputed(ctx, pledge.ID, uuid.Nil, "processor chargeback", time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to mark pledge disputed: %w", err)
		}
	}
	return s.MarkChargeDisputed(ctx, pledge.ID)
}

// MarkRefundedByPaymentRef handles a processor refund notification. The money
// already moved back at the processor, so this only records the state change
// and the refund transaction. Redelivery for an already-refunded pledge is a
// no-op.
func (s *Service) MarkRefundedByPaymentRef(ctx context.Context, paymentRef, refundRef string, amount int64) error {
	pledge, err := s.repo.GetPledgeByPaymentRef(ctx, paymentRef)
	if err != nil {
		return err
	}
	if pledge.State == domain.PledgeStateRefunded {
		log.Printf("MarkRefundedByPaymentRef: pledge=%s already refunded, ignoring redelivery", pledge.ID)
		return nil
	}
	if !pledge.State.CanTransitionTo(domain.PledgeStateRefunded) {
		return ErrIllegalTransition
	}

	moved, err := s.repo.MarkPledgeRefunded(ctx, pledge.ID)
	if err != nil {
		return fmt.Errorf("failed to mark pledge refunded: %w", err)
	}
	if !moved {
		// Lost a race with a concurrent delivery; the first one recorded it.
		return nil
	}
	tx := &domain.PledgeTransaction{
		ID:       uuid.New(),
		PledgeID: pledge.ID,
		Type:     domain.PledgeTransactionTypeRefund,
		Amount:   amount,
	}
	if refundRef != "" {
		tx.TransactionRef = &refundRef
	}
	if err := s.repo.CreatePledgeTransaction(ctx, tx); err != nil {
		log.Printf("MarkRefundedByPaymentRef: failed to record refund transaction for pledge %s: %v", pledge.ID, err)
	}
	return nil
}

// SumPledgesPeriod sums the pledge amounts an organization created during the
// calendar month containing the given instant, optionally restricted to pledges
// created by one member.
func (s *Service) SumPledgesPeriod(ctx context.Context, organizationID uuid.UUID, createdByUserID *uuid.UUID, instant time.Time) (int64, error) {
	start, end := MonthRange(instant)
	return s.repo.SumPledgesCreatedInRange(ctx, organizationID, createdByUserID, start, end)
}

// GetPledge retrieves one pledge by id.
func (s *Service) GetPledge(ctx context.Context, pledgeID uuid.UUID) (*domain.Pledge, error) {
	return s.repo.GetPledge(ctx, pledgeID)
}

// ListPledges retrieves pledges matching the given filters.
func (s *Service) ListPledges(ctx context.Context, opts domain.PledgeListOptions) ([]domain.Pledge, error) {
	return s.repo.ListPledges(ctx, opts)
}

// ListRewardsByIssue returns the reward split recorded for an issue.
func (s *Service) ListRewardsByIssue(ctx context.Context, issueID uuid.UUID) ([]domain.IssueReward, error) {
	return s.repo.ListRewardsByIssue(ctx, issueID)
}

// ListRewardPayoutsByIssue returns every (pledge, reward) pair for an issue with
// its transfer record, if paid.
func (s *Service) ListRewardPayoutsByIssue(ctx context.Context, issueID uuid.UUID) ([]domain.RewardPayout, error) {
	return s.repo.ListRewardPayoutsByIssue(ctx, issueID)
}
