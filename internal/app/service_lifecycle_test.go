package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/issuepay/pledge-service/internal/domain"
	"github.com/issuepay/pledge-service/internal/store"
)

type lifecycleRepoStub struct {
	store.Repository

	pledge *domain.Pledge

	markCreatedCalls  int
	markCreatedResult bool

	markDisputedCalls int
	createdTxs        []domain.PledgeTransaction

	sumOrgID  uuid.UUID
	sumUserID *uuid.UUID
	sumStart  time.Time
	sumEnd    time.Time
}

func (s *lifecycleRepoStub) GetPledgeByPaymentRef(ctx context.Context, paymentRef string) (*domain.Pledge, error) {
	if s.pledge == nil {
		return nil, store.ErrPledgeNotFound
	}
	return s.pledge, nil
}

func (s *lifecycleRepoStub) GetPledge(ctx context.Context, pledgeID uuid.UUID) (*domain.Pledge, error) {
	if s.pledge == nil {
		return nil, store.ErrPledgeNotFound
	}
	return s.pledge, nil
}

func (s *lifecycleRepoStub) MarkPledgeCreated(ctx context.Context, pledgeID uuid.UUID) (bool, error) {
	s.markCreatedCalls++
	return s.markCreatedResult, nil
}

func (s *lifecycleRepoStub) MarkPledgeDisputed(ctx context.Context, pledgeID, byUserID uuid.UUID, reason string, at time.Time) (bool, error) {
	s.markDisputedCalls++
	return true, nil
}

func (s *lifecycleRepoStub) MarkPledgeRefunded(ctx context.Context, pledgeID uuid.UUID) (bool, error) {
	return true, nil
}

func (s *lifecycleRepoStub) CreatePledgeTransaction(ctx context.Context, tx *domain.PledgeTransaction) error {
	s.createdTxs = append(s.createdTxs, *tx)
	return nil
}

func (s *lifecycleRepoStub) SumPledgesCreatedInRange(ctx context.Context, organizationID uuid.UUID, createdByUserID *uuid.UUID, start, end time.Time) (int64, error) {
	s.sumOrgID = organizationID
	s.sumUserID = createdByUserID
	s.sumStart = start
	s.sumEnd = end
	return 12345, nil
}

func initiatedPledge(amount, fee int64) *domain.Pledge {
	ref := "pi_test"
	return &domain.Pledge{
		ID:             uuid.New(),
		IssueID:        uuid.New(),
		OrganizationID: uuid.New(),
		Amount:         amount,
		Fee:            fee,
		Currency:       "usd",
		State:          domain.PledgeStateInitiated,
		Type:           domain.PledgeTypePayUpfront,
		PaymentRef:     &ref,
	}
}

func TestMarkCreatedByPaymentRef_ConfirmsAndNotifiesOnce(t *testing.T) {
	repo := &lifecycleRepoStub{pledge: initiatedPledge(10000, 200), markCreatedResult: true}
	notifier := &notifierStub{}
	svc := NewService(repo, nil, nil, notifier, 7*24*time.Hour, 0)

	if err := svc.MarkCreatedByPaymentRef(context.Background(), "pi_test", 10200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.markCreatedCalls != 1 {
		t.Fatalf("expected 1 guarded update, got %d", repo.markCreatedCalls)
	}
	if len(notifier.maintainerCreated) != 1 {
		t.Fatalf("expected 1 maintainer event, got %d", len(notifier.maintainerCreated))
	}
}

func TestMarkCreatedByPaymentRef_RedeliveryIsSilentNoOp(t *testing.T) {
	pledge := initiatedPledge(10000, 200)
	pledge.State = domain.PledgeStateCreated
	repo := &lifecycleRepoStub{pledge: pledge}
	notifier := &notifierStub{}
	svc := NewService(repo, nil, nil, notifier, 7*24*time.Hour, 0)

	if err := svc.MarkCreatedByPaymentRef(context.Background(), "pi_test", 10200); err != nil {
		t.Fatalf("expected redelivery to be a no-op, got %v", err)
	}
	if repo.markCreatedCalls != 0 {
		t.Fatal("expected no update for an already-confirmed pledge")
	}
	if len(notifier.maintainerCreated) != 0 {
		t.Fatal("expected no duplicate notification on redelivery")
	}
}

func TestMarkCreatedByPaymentRef_RejectsAmountMismatch(t *testing.T) {
	repo := &lifecycleRepoStub{pledge: initiatedPledge(10000, 200), markCreatedResult: true}
	notifier := &notifierStub{}
	svc := NewService(repo, nil, nil, notifier, 7*24*time.Hour, 0)

	if err := svc.MarkCreatedByPaymentRef(context.Background(), "pi_test", 9999); !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got %v", err)
	}
	if repo.markCreatedCalls != 0 {
		t.Fatal("expected no update on amount mismatch")
	}
}

func TestMarkDisputed_RejectsAfterWindowCloses(t *testing.T) {
	pledge := initiatedPledge(10000, 0)
	pledge.State = domain.PledgeStatePending
	pledge.ScheduledPayoutAt = pastTime(time.Hour)
	repo := &lifecycleRepoStub{pledge: pledge}
	notifier := &notifierStub{}
	svc := NewService(repo, nil, nil, notifier, 7*24*time.Hour, 0)

	err := svc.MarkDisputed(context.Background(), pledge.ID, uuid.New(), "not actually solved")
	if !errors.Is(err, ErrDisputePeriodEnded) {
		t.Fatalf("expected ErrDisputePeriodEnded, got %v", err)
	}
	if repo.markDisputedCalls != 0 {
		t.Fatal("expected no update after the dispute window closed")
	}
}

func TestMarkDisputed_WithinWindowNotifiesMaintainer(t *testing.T) {
	pledge := initiatedPledge(10000, 0)
	pledge.State = domain.PledgeStatePending
	pledge.ScheduledPayoutAt = futureTime(time.Hour)
	repo := &lifecycleRepoStub{pledge: pledge}
	notifier := &notifierStub{}
	svc := NewService(repo, nil, nil, notifier, 7*24*time.Hour, 0)

	if err := svc.MarkDisputed(context.Background(), pledge.ID, uuid.New(), "not actually solved"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.pledgeDisputed) != 1 {
		t.Fatalf("expected 1 dispute event, got %d", len(notifier.pledgeDisputed))
	}
}

func TestMarkDisputed_RejectsPaidPledge(t *testing.T) {
	pledge := initiatedPledge(10000, 0)
	pledge.State = domain.PledgeStatePaid
	repo := &lifecycleRepoStub{pledge: pledge}
	svc := NewService(repo, nil, nil, &notifierStub{}, 7*24*time.Hour, 0)

	if err := svc.MarkDisputed(context.Background(), pledge.ID, uuid.New(), "too late"); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestRefund_RecordsRefundTransaction(t *testing.T) {
	pledge := initiatedPledge(10000, 200)
	pledge.State = domain.PledgeStateCreated
	repo := &lifecycleRepoStub{pledge: pledge}
	payments := &paymentsStub{}
	svc := NewService(repo, payments, nil, &notifierStub{}, 7*24*time.Hour, 0)

	if err := svc.Refund(context.Background(), pledge.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.createdTxs) != 1 {
		t.Fatalf("expected 1 refund transaction, got %d", len(repo.createdTxs))
	}
	tx := repo.createdTxs[0]
	if tx.Type != domain.PledgeTransactionTypeRefund || tx.Amount != 10200 {
		t.Fatalf("expected full refund of amount+fee, got %+v", tx)
	}
}

func TestRefund_RejectsTerminalPledge(t *testing.T) {
	pledge := initiatedPledge(10000, 0)
	pledge.State = domain.PledgeStatePaid
	repo := &lifecycleRepoStub{pledge: pledge}
	svc := NewService(repo, &paymentsStub{}, nil, &notifierStub{}, 7*24*time.Hour, 0)

	if err := svc.Refund(context.Background(), pledge.ID); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestMarkRefundedByPaymentRef_RecordsProcessorRefund(t *testing.T) {
	pledge := initiatedPledge(10000, 200)
	pledge.State = domain.PledgeStateCreated
	repo := &lifecycleRepoStub{pledge: pledge}
	svc := NewService(repo, nil, nil, &notifierStub{}, 7*24*time.Hour, 0)

	if err := svc.MarkRefundedByPaymentRef(context.Background(), "pi_test", "re_test", 10200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.createdTxs) != 1 {
		t.Fatalf("expected 1 refund transaction, got %d", len(repo.createdTxs))
	}
	tx := repo.createdTxs[0]
	if tx.Type != domain.PledgeTransactionTypeRefund || tx.Amount != 10200 {
		t.Fatalf("expected refund transaction for the notified amount, got %+v", tx)
	}
	if tx.TransactionRef == nil || *tx.TransactionRef != "re_test" {
		t.Fatal("expected processor refund reference recorded")
	}
}

func TestMarkRefundedByPaymentRef_RedeliveryIsSilentNoOp(t *testing.T) {
	pledge := initiatedPledge(10000, 200)
	pledge.State = domain.PledgeStateRefunded
	repo := &lifecycleRepoStub{pledge: pledge}
	svc := NewService(repo, nil, nil, &notifierStub{}, 7*24*time.Hour, 0)

	if err := svc.MarkRefundedByPaymentRef(context.Background(), "pi_test", "re_test", 10200); err != nil {
		t.Fatalf("expected redelivery to be a no-op, got %v", err)
	}
	if len(repo.createdTxs) != 0 {
		t.Fatal("expected no duplicate refund transaction on redelivery")
	}
}

func TestSumPledgesPeriod_WidensInstantToCalendarMonth(t *testing.T) {
	repo := &lifecycleRepoStub{}
	svc := NewService(repo, nil, nil, &notifierStub{}, 7*24*time.Hour, 0)

	orgID := uuid.New()
	userID := uuid.New()
	instant := time.Date(2024, 2, 14, 9, 30, 0, 0, time.UTC)
	sum, err := svc.SumPledgesPeriod(context.Background(), orgID, &userID, instant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != 12345 {
		t.Fatalf("expected repository sum passed through, got %d", sum)
	}
	if repo.sumOrgID != orgID {
		t.Fatal("expected organization filter forwarded")
	}
	if repo.sumUserID == nil || *repo.sumUserID != userID {
		t.Fatal("expected creator filter forwarded")
	}
	wantStart := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	if !repo.sumStart.Equal(wantStart) || !repo.sumEnd.Equal(wantEnd) {
		t.Fatalf("expected leap-February bounds, got [%s, %s]", repo.sumStart, repo.sumEnd)
	}
}
