package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/issuepay/pledge-service/internal/domain"
	"github.com/issuepay/pledge-service/internal/store"
)

type notifierStub struct {
	maintainerCreated []domain.MaintainerPledgeCreatedEvent
	maintainerPending []domain.MaintainerPendingEvent
	pledgerPending    []domain.PledgerPendingEvent
	transferCompleted []domain.TransferCompletedEvent
	pledgeDisputed    []domain.PledgeDisputedEvent
}

func (n *notifierStub) MaintainerPledgeCreated(ctx context.Context, event domain.MaintainerPledgeCreatedEvent) error {
	n.maintainerCreated = append(n.maintainerCreated, event)
	return nil
}

func (n *notifierStub) MaintainerPledgedIssuePending(ctx context.Context, event domain.MaintainerPendingEvent) error {
	n.maintainerPending = append(n.maintainerPending, event)
	return nil
}

func (n *notifierStub) PledgerPledgePending(ctx context.Context, event domain.PledgerPendingEvent) error {
	n.pledgerPending = append(n.pledgerPending, event)
	return nil
}

func (n *notifierStub) TransferCompleted(ctx context.Context, event domain.TransferCompletedEvent) error {
	n.transferCompleted = append(n.transferCompleted, event)
	return nil
}

func (n *notifierStub) PledgeDisputed(ctx context.Context, event domain.PledgeDisputedEvent) error {
	n.pledgeDisputed = append(n.pledgeDisputed, event)
	return nil
}

type markPendingRepoStub struct {
	store.Repository

	moved []domain.Pledge
	calls int
}

func (s *markPendingRepoStub) MarkPledgesPendingByIssue(ctx context.Context, issueID uuid.UUID, scheduledPayoutAt time.Time) ([]domain.Pledge, error) {
	s.calls++
	// First invocation moves the pledges; re-invocations find nothing in the
	// created state, mirroring the guarded update.
	if s.calls > 1 {
		return nil, nil
	}
	return s.moved, nil
}

func pledgeByUser(issueID, orgID, userID uuid.UUID, amount int64) domain.Pledge {
	return domain.Pledge{
		ID:             uuid.New(),
		IssueID:        issueID,
		OrganizationID: orgID,
		ByUserID:       &userID,
		Amount:         amount,
		Currency:       "usd",
		State:          domain.PledgeStatePending,
		Type:           domain.PledgeTypePayUpfront,
	}
}

func TestMarkPendingByIssue_NotifiesMaintainerOnceAndEachPledgerOnce(t *testing.T) {
	issueID := uuid.New()
	orgID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	repo := &markPendingRepoStub{moved: []domain.Pledge{
		pledgeByUser(issueID, orgID, alice, 2500),
		pledgeByUser(issueID, orgID, alice, 1500),
		pledgeByUser(issueID, orgID, bob, 5000),
	}}
	notifier := &notifierStub{}
	svc := NewService(repo, nil, nil, notifier, 7*24*time.Hour, 0)

	if err := svc.MarkPendingByIssue(context.Background(), issueID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.maintainerPending) != 1 {
		t.Fatalf("expected 1 maintainer event, got %d", len(notifier.maintainerPending))
	}
	event := notifier.maintainerPending[0]
	if event.PledgeCount != 3 || event.TotalAmount != 9000 {
		t.Fatalf("expected batched maintainer event with 3 pledges totalling 9000, got %+v", event)
	}
	if len(notifier.pledgerPending) != 2 {
		t.Fatalf("expected 1 event per distinct pledger (2), got %d", len(notifier.pledgerPending))
	}
}

func TestMarkPendingByIssue_ReinvocationIsSilent(t *testing.T) {
	issueID := uuid.New()
	repo := &markPendingRepoStub{moved: []domain.Pledge{
		pledgeByUser(issueID, uuid.New(), uuid.New(), 2500),
	}}
	notifier := &notifierStub{}
	svc := NewService(repo, nil, nil, notifier, 7*24*time.Hour, 0)

	if err := svc.MarkPendingByIssue(context.Background(), issueID); err != nil {
		t.Fatalf("unexpected error on first call: %v", err)
	}
	if err := svc.MarkPendingByIssue(context.Background(), issueID); err != nil {
		t.Fatalf("expected re-invocation to succeed silently, got %v", err)
	}

	if len(notifier.maintainerPending) != 1 {
		t.Fatalf("expected maintainer notified once across invocations, got %d", len(notifier.maintainerPending))
	}
	if len(notifier.pledgerPending) != 1 {
		t.Fatalf("expected pledger notified once across invocations, got %d", len(notifier.pledgerPending))
	}
}

func TestMarkPendingByIssue_NoPledgesIsNoOp(t *testing.T) {
	repo := &markPendingRepoStub{}
	notifier := &notifierStub{}
	svc := NewService(repo, nil, nil, notifier, 7*24*time.Hour, 0)

	if err := svc.MarkPendingByIssue(context.Background(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.maintainerPending) != 0 || len(notifier.pledgerPending) != 0 {
		t.Fatal("expected no notifications when no pledge transitioned")
	}
}
