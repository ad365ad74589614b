/**
 * @description
 * This file defines the sentinel errors returned by the pledge service's business
 * logic. Handlers match on these with errors.Is to choose HTTP status codes, so
 * they are part of the service contract.
 */

package app

import "errors"

var (
	// ErrNotPending is returned when a payout is attempted for a pledge that is
	// not in the pending state.
	ErrNotPending = errors.New("pledge is not in pending state")

	// ErrInDisputeWindow is returned when a payout is attempted before the
	// pledge's scheduled payout time has passed.
	ErrInDisputeWindow = errors.New("pledge is still in dispute window")

	// ErrNoPayoutAccount is returned when a reward recipient has no payout
	// account at the payment processor.
	ErrNoPayoutAccount = errors.New("receiving organization or user has no account")

	// ErrUnlinkedRecipient is returned when a payout is attempted for a reward
	// whose recipient is still an unresolved external username.
	ErrUnlinkedRecipient = errors.New("issue reward is not linked to an organization or user")

	// ErrDisputePeriodEnded is returned when a dispute is raised after the
	// scheduled payout time has passed.
	ErrDisputePeriodEnded = errors.New("dispute period has ended")

	// Split validation errors.
	ErrNoSplits            = errors.New("invalid split configuration: no splits given")
	ErrAmbiguousRecipient  = errors.New("invalid split configuration: split must name exactly one recipient")
	ErrShareOutOfRange     = errors.New("invalid split configuration: share is outside 0-1000")
	ErrSharesExceedTotal   = errors.New("invalid split configuration: shares exceed 1000 thousandths")
	ErrDuplicateRecipient  = errors.New("invalid split configuration: duplicate recipient")

	// ErrAmountMismatch is returned when a processor confirmation reports a
	// different amount than the pledge was initiated with.
	ErrAmountMismatch = errors.New("confirmed amount does not match pledge amount")

	// ErrIllegalTransition is returned when a pledge cannot move to the requested state.
	ErrIllegalTransition = errors.New("pledge state transition not permitted")
)
