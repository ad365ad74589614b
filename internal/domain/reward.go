/**
 * @description
 * This file defines the IssueReward entity and the split DTO used to propose a
 * reward allocation. An issue reward is one recipient's permanent share of an
 * issue's future payout, expressed in thousandths (0-1000). The full set of
 * reward rows for an issue is written exactly once and is immutable afterwards.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// IssueReward is one recipient's fixed share of an issue's payout.
// This struct maps directly to the `issue_rewards` table in the database.
type IssueReward struct {
	ID             uuid.UUID  `json:"id"`
	IssueID        uuid.UUID  `json:"issue_id"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	// GithubUsername is an unlinked external-platform placeholder. It is kept even
	// when a user account is resolved, so that the original submission stays auditable.
	GithubUsername  *string   `json:"github_username,omitempty"`
	ShareThousands  int       `json:"share_thousands"` // 0-1000
	CreatedAt       time.Time `json:"created_at"`
}

// ConfirmIssueSplit is one proposed (recipient, share) pair submitted when an
// issue is confirmed solved. Exactly one of OrganizationID / GithubUsername is
// set per entry; entries with both or neither are rejected by the validator.
type ConfirmIssueSplit struct {
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	GithubUsername *string    `json:"github_username,omitempty"`
	ShareThousands int        `json:"share_thousands"`
}

// ConfirmIssueSolvedPayload is the DTO for the confirm-solved API request.
type ConfirmIssueSolvedPayload struct {
	Splits []ConfirmIssueSplit `json:"splits"`
}
