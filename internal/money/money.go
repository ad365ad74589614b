/**
 * @description
 * Exact-arithmetic helpers for dividing an integer amount into proportional
 * shares without losing or gaining a cent. Shares are expressed in thousandths
 * (0-1000). The functions here are pure and deterministic; callers in the payout
 * path rely on that to get identical results when an operation is retried.
 */

package money

import "fmt"

// Split divides total into one amount per share. Each recipient gets the floor
// of total*share/1000; the final recipient additionally absorbs the rounding
// remainder of the allocated portion, so that for shares summing to exactly
// 1000 the outputs sum to total. Outputs are order-stable and never negative.
func Split(total int64, sharesThousands []int) ([]int64, error) {
	if total < 0 {
		return nil, fmt.Errorf("total must be non-negative, got %d", total)
	}

	sum := 0
	for i, share := range sharesThousands {
		if share < 0 || share > 1000 {
			return nil, fmt.Errorf("share %d out of range [0,1000]: %d", i, share)
		}
		sum += share
	}
	if sum > 1000 {
		return nil, fmt.Errorf("shares sum to %d, exceeding 1000", sum)
	}

	out := make([]int64, len(sharesThousands))
	var allocated int64
	for i, share := range sharesThousands {
		out[i] = total * int64(share) / 1000
		allocated += out[i]
	}

	// The floor division can under-allocate by up to len-1 cents of the portion
	// the shares cover. The last recipient absorbs that remainder.
	if len(out) > 0 {
		covered := total * int64(sum) / 1000
		out[len(out)-1] += covered - allocated
	}

	return out, nil
}

// ShareAmount returns the payout amount for a single share of total. It is
// Split for the one-recipient case and exists so call sites paying one reward
// at a time stay consistent with batch computations.
func ShareAmount(total int64, shareThousands int) (int64, error) {
	amounts, err := Split(total, []int{shareThousands})
	if err != nil {
		return 0, err
	}
	return amounts[0], nil
}
