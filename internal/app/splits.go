/**
 * @description
 * Validation of proposed reward splits. A split set is accepted when every entry
 * names exactly one recipient, every share is within 1-1000 thousandths, no
 * recipient appears twice, and the shares sum to at most 1000. Sums below 1000
 * are allowed: the platform keeps the unallocated remainder.
 */

package app

import (
	"strings"

	"github.com/issuepay/pledge-service/internal/domain"
)

// ValidateSplits checks a proposed split set against the acceptance rules.
// It returns the first violation found, or nil when the set is acceptable.
func ValidateSplits(splits []domain.ConfirmIssueSplit) error {
	if len(splits) == 0 {
		return ErrNoSplits
	}

	seenOrgs := make(map[string]struct{}, len(splits))
	seenUsernames := make(map[string]struct{}, len(splits))
	sum := 0
	for _, split := range splits {
		hasOrg := split.OrganizationID != nil
		hasUsername := split.GithubUsername != nil && strings.TrimSpace(*split.GithubUsername) != ""
		if hasOrg == hasUsername {
			return ErrAmbiguousRecipient
		}
		if split.ShareThousands <= 0 || split.ShareThousands > 1000 {
			return ErrShareOutOfRange
		}
		if hasOrg {
			key := split.OrganizationID.String()
			if _, ok := seenOrgs[key]; ok {
				return ErrDuplicateRecipient
			}
			seenOrgs[key] = struct{}{}
		} else {
			key := strings.ToLower(strings.TrimSpace(*split.GithubUsername))
			if _, ok := seenUsernames[key]; ok {
				return ErrDuplicateRecipient
			}
			seenUsernames[key] = struct{}{}
		}
		sum += split.ShareThousands
	}
	if sum > 1000 {
		return ErrSharesExceedTotal
	}
	return nil
}
