/**
 * @description
 * Scheduled job implementations for the pledge-service. The payout sweep is the
 * automated caller of Transfer: it finds pending pledges whose dispute window
 * has elapsed and pays each reward on their issues. Every step is idempotent, so
 * a sweep that dies halfway is simply finished by the next run.
 */

package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/issuepay/pledge-service/internal/store"
)

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	service *Service
	repo    store.Repository
	timeout time.Duration
}

// NewJobs creates a new Jobs runner.
func NewJobs(service *Service, repo store.Repository, timeout time.Duration) *Jobs {
	return &Jobs{service: service, repo: repo, timeout: timeout}
}

// sweepResult classifies the outcome of one payout sweep.
type sweepResult struct {
	pledges     int
	transferred int
	skipped     int
	failed      int
}

// ProcessDuePayouts pays out every pending pledge whose scheduled payout time
// has passed. Failures on one (pledge, reward) pair never block the rest of the
// sweep; already-paid pairs are skipped via the transfer uniqueness constraint.
func (j *Jobs) ProcessDuePayouts() {
	log.Println("ProcessDuePayouts: starting payout sweep")
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	result := j.processDuePayouts(ctx)
	log.Printf("ProcessDuePayouts: sweep finished pledges=%d transferred=%d skipped=%d failed=%d",
		result.pledges, result.transferred, result.skipped, result.failed)
}

func (j *Jobs) processDuePayouts(ctx context.Context) sweepResult {
	var result sweepResult

	pledges, err := j.repo.ListPledgesDueForPayout(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("ProcessDuePayouts: failed to list due pledges: %v", err)
		return result
	}
	result.pledges = len(pledges)

	for _, pledge := range pledges {
		rewards, err := j.repo.ListRewardsByIssue(ctx, pledge.IssueID)
		if err != nil {
			log.Printf("ProcessDuePayouts: failed to list rewards for issue %s: %v", pledge.IssueID, err)
			result.failed++
			continue
		}
		for _, reward := range rewards {
			_, err := j.service.Transfer(ctx, pledge.ID, reward.ID)
			switch {
			case err == nil:
				result.transferred++
			case errors.Is(err, store.ErrTransferAlreadyExists), errors.Is(err, ErrNotPending):
				result.skipped++
			case errors.Is(err, ErrUnlinkedRecipient), errors.Is(err, ErrNoPayoutAccount):
				// Retried on the next sweep once the recipient links an account.
				log.Printf("ProcessDuePayouts: reward %s on pledge %s not payable yet: %v", reward.ID, pledge.ID, err)
				result.skipped++
			default:
				log.Printf("ProcessDuePayouts: transfer failed for pledge %s reward %s: %v", pledge.ID, reward.ID, err)
				result.failed++
			}
		}
	}
	return result
}
