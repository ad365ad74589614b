/**
 * @description
 * This file defines the PledgeTransaction entity: the immutable record of one
 * money movement tied to a pledge. Transfer-type rows also reference the issue
 * reward that was paid, and carry a database uniqueness constraint on
 * (pledge_id, issue_reward_id) so each recipient can be paid from each pledge
 * exactly once even under concurrent orchestrator invocations.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// PledgeTransactionType classifies a pledge money movement.
type PledgeTransactionType string

const (
	PledgeTransactionTypeTransfer PledgeTransactionType = "transfer"
	PledgeTransactionTypeRefund   PledgeTransactionType = "refund"
	PledgeTransactionTypeDisputed PledgeTransactionType = "disputed"
)

// PledgeTransaction records one money movement for a pledge. Rows are created
// at the moment a movement succeeds and are never mutated or deleted.
type PledgeTransaction struct {
	ID             uuid.UUID             `json:"id"`
	PledgeID       uuid.UUID             `json:"pledge_id"`
	Type           PledgeTransactionType `json:"type"`
	Amount         int64                 `json:"amount"` // in cents
	TransactionRef *string               `json:"transaction_ref,omitempty"`
	IssueRewardID  *uuid.UUID            `json:"issue_reward_id,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// RewardPayout pairs a reward with its pledge and its transfer record (nil until
// paid). It is the read-side shape for listing an issue's reward state without
// lazy relationship traversal.
type RewardPayout struct {
	Pledge      Pledge             `json:"pledge"`
	Reward      IssueReward        `json:"reward"`
	Transaction *PledgeTransaction `json:"transaction,omitempty"`
}
