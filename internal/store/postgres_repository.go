/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository` interface.
 * It contains all the SQL needed for pledges, issue rewards, and pledge
 * transactions. Two invariants are enforced here rather than in application code:
 *
 *   - "set reward splits once": issue_rewards carries unique constraints per
 *     (issue_id, recipient), and the insert of a whole split set happens inside
 *     one transaction that first locks out a pre-existing set.
 *   - "pay each recipient once": pledge_transactions carries a unique constraint
 *     on (pledge_id, issue_reward_id) for transfer rows; a losing concurrent
 *     insert surfaces as ErrTransferAlreadyExists instead of a double payment.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/issuepay/pledge-service/internal/domain"
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const pledgeColumns = `
	id, issue_id, repository_id, organization_id, by_user_id, by_organization_id,
	on_behalf_of_organization_id, created_by_user_id, email, amount, fee, currency,
	state, type, payment_ref, invoice_id, invoice_hosted_url, scheduled_payout_at,
	dispute_reason, disputed_at, disputed_by_user_id, created_at, updated_at`

func scanPledge(row pgx.Row) (*domain.Pledge, error) {
	var p domain.Pledge
	err := row.Scan(
		&p.ID, &p.IssueID, &p.RepositoryID, &p.OrganizationID, &p.ByUserID, &p.ByOrganizationID,
		&p.OnBehalfOfOrganizationID, &p.CreatedByUserID, &p.Email, &p.Amount, &p.Fee, &p.Currency,
		&p.State, &p.Type, &p.PaymentRef, &p.InvoiceID, &p.InvoiceHostedURL, &p.ScheduledPayoutAt,
		&p.DisputeReason, &p.DisputedAt, &p.DisputedByUserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPledgeNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CreatePledge inserts a new pledge record.
func (r *PostgresRepository) CreatePledge(ctx context.Context, pledge *domain.Pledge) error {
	query := `
		INSERT INTO pledges (
			id, issue_id, repository_id, organization_id, by_user_id, by_organization_id,
			on_behalf_of_organization_id, created_by_user_id, email, amount, fee, currency,
			state, type, payment_ref, invoice_id, invoice_hosted_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		pledge.ID, pledge.IssueID, pledge.RepositoryID, pledge.OrganizationID,
		pledge.ByUserID, pledge.ByOrganizationID, pledge.OnBehalfOfOrganizationID,
		pledge.CreatedByUserID, pledge.Email, pledge.Amount, pledge.Fee, pledge.Currency,
		pledge.State, pledge.Type, pledge.PaymentRef, pledge.InvoiceID, pledge.InvoiceHostedURL,
	).Scan(&pledge.CreatedAt, &pledge.UpdatedAt)
}

// GetPledge retrieves one pledge by id.
func (r *PostgresRepository) GetPledge(ctx context.Context, pledgeID uuid.UUID) (*domain.Pledge, error) {
	return scanPledge(r.db.QueryRow(ctx, `SELECT `+pledgeColumns+` FROM pledges WHERE id = $1`, pledgeID))
}

// GetPledgeByPaymentRef retrieves the pledge tied to a processor payment reference.
func (r *PostgresRepository) GetPledgeByPaymentRef(ctx context.Context, paymentRef string) (*domain.Pledge, error) {
	return scanPledge(r.db.QueryRow(ctx, `SELECT `+pledgeColumns+` FROM pledges WHERE payment_ref = $1`, paymentRef))
}

// ListPledges retrieves pledges matching the given filters, oldest first.
func (r *PostgresRepository) ListPledges(ctx context.Context, opts domain.PledgeListOptions) ([]domain.Pledge, error) {
	query := `SELECT ` + pledgeColumns + ` FROM pledges WHERE 1=1`
	args := []interface{}{}
	if opts.IssueID != nil {
		args = append(args, *opts.IssueID)
		query += ` AND issue_id = $1`
	}
	if opts.OrganizationID != nil {
		args = append(args, *opts.OrganizationID)
		if len(args) == 1 {
			query += ` AND organization_id = $1`
		} else {
			query += ` AND organization_id = $2`
		}
	}
	if !opts.AllStates {
		query += ` AND state NOT IN ('initiated', 'refunded', 'charge_disputed')`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pledges []domain.Pledge
	for rows.Next() {
		p, err := scanPledge(rows)
		if err != nil {
			return nil, err
		}
		pledges = append(pledges, *p)
	}
	return pledges, rows.Err()
}

// MarkPledgeCreated advances one pledge from initiated to created. Returns false
// when the pledge was not in the initiated state (already confirmed, or beyond).
func (r *PostgresRepository) MarkPledgeCreated(ctx context.Context, pledgeID uuid.UUID) (bool, error) {
	query := `
		UPDATE pledges SET state = 'created', updated_at = NOW()
		WHERE id = $1 AND state = 'initiated'
	`
	result, err := r.db.Exec(ctx, query, pledgeID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// MarkPledgesPendingByIssue advances every created pay-upfront pledge on the issue
// to pending in one statement, stamping the payout schedule. The transition and
// its guard run atomically; it returns only the pledges that actually moved, so
// the caller can fan out notifications exactly once.
func (r *PostgresRepository) MarkPledgesPendingByIssue(ctx context.Context, issueID uuid.UUID, scheduledPayoutAt time.Time) ([]domain.Pledge, error) {
	query := `
		UPDATE pledges
		SET state = 'pending', scheduled_payout_at = $2, updated_at = NOW()
		WHERE issue_id = $1 AND state = 'created' AND type = 'pay_upfront'
		RETURNING ` + pledgeColumns
	rows, err := r.db.Query(ctx, query, issueID, scheduledPayoutAt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pledges []domain.Pledge
	for rows.Next() {
		p, err := scanPledge(rows)
		if err != nil {
			return nil, err
		}
		pledges = append(pledges, *p)
	}
	return pledges, rows.Err()
}

// MarkPledgePaid advances one pledge from pending to paid.
func (r *PostgresRepository) MarkPledgePaid(ctx context.Context, pledgeID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE pledges SET state = 'paid', updated_at = NOW() WHERE id = $1 AND state = 'pending'`,
		pledgeID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// MarkPledgeRefunded moves a pledge to refunded from any non-terminal state.
func (r *PostgresRepository) MarkPledgeRefunded(ctx context.Context, pledgeID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE pledges SET state = 'refunded', updated_at = NOW()
		 WHERE id = $1 AND state IN ('initiated', 'created', 'pending', 'disputed')`,
		pledgeID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// MarkPledgeDisputed records dispute metadata and blocks payout.
func (r *PostgresRepository) MarkPledgeDisputed(ctx context.Context, pledgeID uuid.UUID, byUserID uuid.UUID, reason string, at time.Time) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE pledges
		 SET state = 'disputed', dispute_reason = $2, disputed_at = $4, updated_at = NOW(),
		     disputed_by_user_id = NULLIF($3::uuid, '00000000-0000-0000-0000-000000000000'::uuid)
		 WHERE id = $1 AND state IN ('created', 'pending')`,
		pledgeID, reason, byUserID, at)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// MarkPledgeChargeDisputed escalates a disputed pledge to charge_disputed.
func (r *PostgresRepository) MarkPledgeChargeDisputed(ctx context.Context, pledgeID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE pledges SET state = 'charge_disputed', updated_at = NOW() WHERE id = $1 AND state = 'disputed'`,
		pledgeID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// SumPledgesCreatedInRange sums pledge amounts created within [start, end],
// optionally filtered to one creating user.
func (r *PostgresRepository) SumPledgesCreatedInRange(ctx context.Context, organizationID uuid.UUID, createdByUserID *uuid.UUID, start, end time.Time) (int64, error) {
	var sum int64
	if createdByUserID != nil {
		err := r.db.QueryRow(ctx,
			`SELECT COALESCE(SUM(amount), 0) FROM pledges
			 WHERE by_organization_id = $1 AND created_by_user_id = $2 AND created_at BETWEEN $3 AND $4`,
			organizationID, *createdByUserID, start, end).Scan(&sum)
		return sum, err
	}
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM pledges
		 WHERE by_organization_id = $1 AND created_at BETWEEN $2 AND $3`,
		organizationID, start, end).Scan(&sum)
	return sum, err
}

// ListPledgesDueForPayout returns pending pledges whose dispute window has elapsed.
func (r *PostgresRepository) ListPledgesDueForPayout(ctx context.Context, now time.Time) ([]domain.Pledge, error) {
	query := `SELECT ` + pledgeColumns + `
		FROM pledges
		WHERE state = 'pending' AND scheduled_payout_at IS NOT NULL AND scheduled_payout_at <= $1
		ORDER BY scheduled_payout_at ASC`
	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pledges []domain.Pledge
	for rows.Next() {
		p, err := scanPledge(rows)
		if err != nil {
			return nil, err
		}
		pledges = append(pledges, *p)
	}
	return pledges, rows.Err()
}

// CreateIssueRewards persists a full reward split set for an issue. The whole
// set commits together or not at all, and an issue that already has any reward
// rows rejects the submission with ErrRewardsAlreadyExist.
func (r *PostgresRepository) CreateIssueRewards(ctx context.Context, issueID uuid.UUID, rewards []domain.IssueReward) ([]domain.IssueReward, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent submissions for the same issue. The per-recipient
	// unique key cannot catch two disjoint split sets racing past the existence
	// check, so the whole check-then-insert runs under an issue-scoped advisory
	// lock held until commit.
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1::text))`, issueID); err != nil {
		return nil, err
	}

	var existing int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM issue_rewards WHERE issue_id = $1`, issueID).Scan(&existing); err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrRewardsAlreadyExist
	}

	created := make([]domain.IssueReward, 0, len(rewards))
	for _, reward := range rewards {
		reward.IssueID = issueID
		if reward.ID == uuid.Nil {
			reward.ID = uuid.New()
		}
		err := tx.QueryRow(ctx,
			`INSERT INTO issue_rewards (id, issue_id, organization_id, user_id, github_username, share_thousands)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING created_at`,
			reward.ID, reward.IssueID, reward.OrganizationID, reward.UserID, reward.GithubUsername, reward.ShareThousands,
		).Scan(&reward.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrRewardsAlreadyExist
			}
			return nil, err
		}
		created = append(created, reward)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// ListRewardsByIssue returns the immutable reward set for an issue in insertion order.
func (r *PostgresRepository) ListRewardsByIssue(ctx context.Context, issueID uuid.UUID) ([]domain.IssueReward, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, issue_id, organization_id, user_id, github_username, share_thousands, created_at
		 FROM issue_rewards WHERE issue_id = $1 ORDER BY created_at ASC, id ASC`, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rewards []domain.IssueReward
	for rows.Next() {
		var reward domain.IssueReward
		if err := rows.Scan(&reward.ID, &reward.IssueID, &reward.OrganizationID, &reward.UserID,
			&reward.GithubUsername, &reward.ShareThousands, &reward.CreatedAt); err != nil {
			return nil, err
		}
		rewards = append(rewards, reward)
	}
	return rewards, rows.Err()
}

// GetIssueReward retrieves one reward row by id.
func (r *PostgresRepository) GetIssueReward(ctx context.Context, rewardID uuid.UUID) (*domain.IssueReward, error) {
	var reward domain.IssueReward
	err := r.db.QueryRow(ctx,
		`SELECT id, issue_id, organization_id, user_id, github_username, share_thousands, created_at
		 FROM issue_rewards WHERE id = $1`, rewardID).
		Scan(&reward.ID, &reward.IssueID, &reward.OrganizationID, &reward.UserID,
			&reward.GithubUsername, &reward.ShareThousands, &reward.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}
	return &reward, nil
}

// ListRewardPayoutsByIssue is the read-side query for reward status: every
// (pledge, reward) pair on the issue joined with its transfer record, if any.
// Fully populated rows come back in one round trip; no lazy traversal.
func (r *PostgresRepository) ListRewardPayoutsByIssue(ctx context.Context, issueID uuid.UUID) ([]domain.RewardPayout, error) {
	query := `
		SELECT
			p.id, p.issue_id, p.repository_id, p.organization_id, p.by_user_id, p.by_organization_id,
			p.on_behalf_of_organization_id, p.created_by_user_id, p.email, p.amount, p.fee, p.currency,
			p.state, p.type, p.payment_ref, p.invoice_id, p.invoice_hosted_url, p.scheduled_payout_at,
			p.dispute_reason, p.disputed_at, p.disputed_by_user_id, p.created_at, p.updated_at,
			r.id, r.issue_id, r.organization_id, r.user_id, r.github_username, r.share_thousands, r.created_at,
			t.id, t.pledge_id, t.type, t.amount, t.transaction_ref, t.issue_reward_id, t.created_at
		FROM pledges p
		JOIN issue_rewards r ON r.issue_id = p.issue_id
		LEFT JOIN pledge_transactions t
			ON t.pledge_id = p.id AND t.issue_reward_id = r.id AND t.type = 'transfer'
		WHERE p.issue_id = $1
		ORDER BY p.created_at ASC, r.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payouts []domain.RewardPayout
	for rows.Next() {
		var payout domain.RewardPayout
		var (
			txID        *uuid.UUID
			txPledgeID  *uuid.UUID
			txType      *domain.PledgeTransactionType
			txAmount    *int64
			txRef       *string
			txRewardID  *uuid.UUID
			txCreatedAt *time.Time
		)
		p := &payout.Pledge
		rw := &payout.Reward
		err := rows.Scan(
			&p.ID, &p.IssueID, &p.RepositoryID, &p.OrganizationID, &p.ByUserID, &p.ByOrganizationID,
			&p.OnBehalfOfOrganizationID, &p.CreatedByUserID, &p.Email, &p.Amount, &p.Fee, &p.Currency,
			&p.State, &p.Type, &p.PaymentRef, &p.InvoiceID, &p.InvoiceHostedURL, &p.ScheduledPayoutAt,
			&p.DisputeReason, &p.DisputedAt, &p.DisputedByUserID, &p.CreatedAt, &p.UpdatedAt,
			&rw.ID, &rw.IssueID, &rw.OrganizationID, &rw.UserID, &rw.GithubUsername, &rw.ShareThousands, &rw.CreatedAt,
			&txID, &txPledgeID, &txType, &txAmount, &txRef, &txRewardID, &txCreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if txID != nil {
			payout.Transaction = &domain.PledgeTransaction{
				ID:             *txID,
				PledgeID:       *txPledgeID,
				Type:           *txType,
				Amount:         *txAmount,
				TransactionRef: txRef,
				IssueRewardID:  txRewardID,
				CreatedAt:      *txCreatedAt,
			}
		}
		payouts = append(payouts, payout)
	}
	return payouts, rows.Err()
}

// CreatePledgeTransaction inserts one money-movement record. A duplicate
// (pledge_id, issue_reward_id) transfer insert loses the uniqueness race and
// returns ErrTransferAlreadyExists.
func (r *PostgresRepository) CreatePledgeTransaction(ctx context.Context, pledgeTx *domain.PledgeTransaction) error {
	if pledgeTx.ID == uuid.Nil {
		pledgeTx.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO pledge_transactions (id, pledge_id, type, amount, transaction_ref, issue_reward_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		pledgeTx.ID, pledgeTx.PledgeID, pledgeTx.Type, pledgeTx.Amount, pledgeTx.TransactionRef, pledgeTx.IssueRewardID,
	).Scan(&pledgeTx.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTransferAlreadyExists
		}
		return err
	}
	return nil
}

// ListTransactionsByPledge returns all money movements recorded for a pledge.
func (r *PostgresRepository) ListTransactionsByPledge(ctx context.Context, pledgeID uuid.UUID) ([]domain.PledgeTransaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, pledge_id, type, amount, transaction_ref, issue_reward_id, created_at
		 FROM pledge_transactions WHERE pledge_id = $1 ORDER BY created_at ASC`, pledgeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.PledgeTransaction
	for rows.Next() {
		var t domain.PledgeTransaction
		if err := rows.Scan(&t.ID, &t.PledgeID, &t.Type, &t.Amount, &t.TransactionRef, &t.IssueRewardID, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// FindUserByGithubUsername resolves an external-platform username to a linked
// user account, if one exists.
func (r *PostgresRepository) FindUserByGithubUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, btrim(username), github_username FROM users
		 WHERE lower(btrim(github_username)) = lower(btrim($1))`, username).
		Scan(&user.ID, &user.Username, &user.GithubUsername)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
