/**
 * @description
 * Minimal views of users and payout accounts as seen by the pledge-service.
 * Accounts live in the account directory (an external collaborator); the only
 * question this service ever asks of one is whether it can receive payouts.
 */

package domain

import "github.com/google/uuid"

// User is the slim projection of a user needed for reward username linkage
// and pledger attribution.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	GithubUsername *string   `json:"github_username,omitempty"`
}

// Account is a payout destination owned by a user or an organization at the
// payment processor.
type Account struct {
	ID               uuid.UUID  `json:"id"`
	OrganizationID   *uuid.UUID `json:"organization_id,omitempty"`
	UserID           *uuid.UUID `json:"user_id,omitempty"`
	ProcessorID      string     `json:"processor_id"`
	Country          string     `json:"country"`
	Currency         string     `json:"currency"`
	IsPayoutsEnabled bool       `json:"is_payouts_enabled"`
}
