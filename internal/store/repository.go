/**
 * @description
 * This file defines the `Repository` interface: the contract for all data access
 * the pledge-service needs. The interface decouples the lifecycle and payout logic
 * from PostgreSQL so that tests can substitute stubs without touching a database.
 *
 * Guarded state updates deserve a note: every Mark* method carries its allowed
 * source states into the WHERE clause and reports whether a row actually moved.
 * The caller decides whether zero rows means "illegal transition" or "already
 * done" - the store only guarantees that no row ever skips the transition table.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/issuepay/pledge-service/internal/domain"
)

var (
	ErrPledgeNotFound        = errors.New("pledge not found")
	ErrRewardNotFound        = errors.New("issue reward not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrRewardsAlreadyExist   = errors.New("issue already has splits set")
	ErrTransferAlreadyExists = errors.New("transfer already recorded for this pledge and reward")
)

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// Pledge methods
	CreatePledge(ctx context.Context, pledge *domain.Pledge) error
	GetPledge(ctx context.Context, pledgeID uuid.UUID) (*domain.Pledge, error)
	GetPledgeByPaymentRef(ctx context.Context, paymentRef string) (*domain.Pledge, error)
	ListPledges(ctx context.Context, opts domain.PledgeListOptions) ([]domain.Pledge, error)

	// Guarded state transitions. Each returns whether a row transitioned.
	MarkPledgeCreated(ctx context.Context, pledgeID uuid.UUID) (bool, error)
	MarkPledgesPendingByIssue(ctx context.Context, issueID uuid.UUID, scheduledPayoutAt time.Time) ([]domain.Pledge, error)
	MarkPledgePaid(ctx context.Context, pledgeID uuid.UUID) (bool, error)
	MarkPledgeRefunded(ctx context.Context, pledgeID uuid.UUID) (bool, error)
	MarkPledgeDisputed(ctx context.Context, pledgeID uuid.UUID, byUserID uuid.UUID, reason string, at time.Time) (bool, error)
	MarkPledgeChargeDisputed(ctx context.Context, pledgeID uuid.UUID) (bool, error)

	// Reporting
	SumPledgesCreatedInRange(ctx context.Context, organizationID uuid.UUID, createdByUserID *uuid.UUID, start, end time.Time) (int64, error)
	ListPledgesDueForPayout(ctx context.Context, now time.Time) ([]domain.Pledge, error)

	// Reward ledger methods
	CreateIssueRewards(ctx context.Context, issueID uuid.UUID, rewards []domain.IssueReward) ([]domain.IssueReward, error)
	ListRewardsByIssue(ctx context.Context, issueID uuid.UUID) ([]domain.IssueReward, error)
	GetIssueReward(ctx context.Context, rewardID uuid.UUID) (*domain.IssueReward, error)
	ListRewardPayoutsByIssue(ctx context.Context, issueID uuid.UUID) ([]domain.RewardPayout, error)

	// Pledge transaction methods
	CreatePledgeTransaction(ctx context.Context, tx *domain.PledgeTransaction) error
	ListTransactionsByPledge(ctx context.Context, pledgeID uuid.UUID) ([]domain.PledgeTransaction, error)

	// User linkage for reward placeholders
	FindUserByGithubUsername(ctx context.Context, username string) (*domain.User, error)
}
