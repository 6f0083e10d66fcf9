package micromap

import (
	"github.com/cartoviz/micromap/pkg/errors"
)

// defaultTargetRows is the row count per group the default heuristic aims
// for. Perceptual studies behind linked micromaps suggest 5–8 rows per
// panel; 7 sits in that band and divides common region counts evenly.
const defaultTargetRows = 7

// Allocate partitions n regions into ordered group sizes summing to n.
//
// Precedence: an explicit grouping vector wins over nGroups, which wins over
// the default heuristic. The explicit vector is validated and returned
// unchanged; nGroups produces near-equal sizes differing by at most one, with
// the remainder distributed to the earliest groups; the heuristic derives a
// group count targeting defaultTargetRows rows per group.
func Allocate(n, nGroups int, grouping []int) ([]int, error) {
	if n <= 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "cannot group %d regions", n)
	}

	if len(grouping) > 0 {
		sum := 0
		for i, size := range grouping {
			if size <= 0 {
				return nil, errors.New(errors.ErrCodeInvalidGrouping,
					"group %d has non-positive size %d", i+1, size)
			}
			sum += size
		}
		if sum != n {
			return nil, errors.New(errors.ErrCodeInvalidGrouping,
				"grouping sums to %d, want %d", sum, n)
		}
		out := make([]int, len(grouping))
		copy(out, grouping)
		return out, nil
	}

	if nGroups == 0 {
		nGroups = (n + defaultTargetRows - 1) / defaultTargetRows
	}
	if nGroups < 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrouping, "n_groups must be positive, got %d", nGroups)
	}
	if nGroups > n {
		return nil, errors.New(errors.ErrCodeInvalidGrouping,
			"n_groups %d exceeds region count %d", nGroups, n)
	}

	sizes := make([]int, nGroups)
	base, rem := n/nGroups, n%nGroups
	for i := range sizes {
		sizes[i] = base
		if i < rem {
			sizes[i]++
		}
	}
	return sizes, nil
}
