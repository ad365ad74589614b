package app

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/issuepay/pledge-service/internal/domain"
)

func TestValidateSplits(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()

	orgSplit := func(id uuid.UUID, share int) domain.ConfirmIssueSplit {
		return domain.ConfirmIssueSplit{OrganizationID: &id, ShareThousands: share}
	}
	userSplit := func(username string, share int) domain.ConfirmIssueSplit {
		return domain.ConfirmIssueSplit{GithubUsername: &username, ShareThousands: share}
	}

	tests := []struct {
		name    string
		splits  []domain.ConfirmIssueSplit
		wantErr error
	}{
		{
			name:   "single full share",
			splits: []domain.ConfirmIssueSplit{orgSplit(orgA, 1000)},
		},
		{
			name:   "even split",
			splits: []domain.ConfirmIssueSplit{orgSplit(orgA, 500), userSplit("alice", 500)},
		},
		{
			name:   "partial allocation leaves remainder to platform",
			splits: []domain.ConfirmIssueSplit{orgSplit(orgA, 300), userSplit("alice", 200)},
		},
		{
			name:    "zero share entry rejected",
			splits:  []domain.ConfirmIssueSplit{orgSplit(orgA, 1000), userSplit("alice", 0)},
			wantErr: ErrShareOutOfRange,
		},
		{
			name:    "empty set rejected",
			splits:  nil,
			wantErr: ErrNoSplits,
		},
		{
			name: "both recipients on one entry rejected",
			splits: []domain.ConfirmIssueSplit{
				func() domain.ConfirmIssueSplit {
					s := orgSplit(orgA, 500)
					name := "alice"
					s.GithubUsername = &name
					return s
				}(),
			},
			wantErr: ErrAmbiguousRecipient,
		},
		{
			name:    "no recipient on entry rejected",
			splits:  []domain.ConfirmIssueSplit{{ShareThousands: 500}},
			wantErr: ErrAmbiguousRecipient,
		},
		{
			name:    "blank username counts as no recipient",
			splits:  []domain.ConfirmIssueSplit{userSplit("   ", 500)},
			wantErr: ErrAmbiguousRecipient,
		},
		{
			name:    "negative share rejected",
			splits:  []domain.ConfirmIssueSplit{orgSplit(orgA, -1)},
			wantErr: ErrShareOutOfRange,
		},
		{
			name:    "share above 1000 rejected",
			splits:  []domain.ConfirmIssueSplit{orgSplit(orgA, 1001)},
			wantErr: ErrShareOutOfRange,
		},
		{
			name:    "sum above 1000 rejected",
			splits:  []domain.ConfirmIssueSplit{orgSplit(orgA, 600), orgSplit(orgB, 600)},
			wantErr: ErrSharesExceedTotal,
		},
		{
			name:    "duplicate organization rejected",
			splits:  []domain.ConfirmIssueSplit{orgSplit(orgA, 300), orgSplit(orgA, 300)},
			wantErr: ErrDuplicateRecipient,
		},
		{
			name:    "duplicate username rejected case-insensitively",
			splits:  []domain.ConfirmIssueSplit{userSplit("Alice", 300), userSplit("alice ", 300)},
			wantErr: ErrDuplicateRecipient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSplits(tt.splits)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
