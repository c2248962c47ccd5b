package recommend

import (
	"sort"

	"github.com/team-izakaya/menugraph-backend/internal/types"
)

// Rank sorts candidates by descending score with menu name ascending as the
// tie-break, then truncates to limit. The graph store gives no row-order
// guarantee, so the secondary key is what makes results reproducible. The
// limit is applied strictly after sorting.
func Rank(candidates []types.Candidate, limit int) []types.Candidate {
	ranked := make([]types.Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Menu < ranked[j].Menu
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
