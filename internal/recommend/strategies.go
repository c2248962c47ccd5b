package recommend

import (
	"sort"

	"github.com/team-izakaya/menugraph-backend/internal/data/graph"
	"github.com/team-izakaya/menugraph-backend/internal/types"
)

// TagCandidates converts shared-tag traversal rows into candidates. The
// score is the number of matching tag paths; provenance is the distinct tag
// names behind them.
func TagCandidates(rows []graph.TagCandidateRow) []types.Candidate {
	candidates := make([]types.Candidate, 0, len(rows))
	for _, row := range rows {
		if row.Menu == "" {
			continue
		}
		candidates = append(candidates, types.Candidate{
			Menu:       row.Menu,
			Score:      row.Score,
			Provenance: row.Reasons,
		})
	}
	return candidates
}

// CoOrderCandidates converts co-order traversal rows into candidates and
// extracts the requester's own history for provenance. The history comes
// from the highest-scoring row (menu name ascending on ties) so the reported
// provenance does not depend on graph row order.
func CoOrderCandidates(rows []graph.CoOrderRow) ([]types.Candidate, []string) {
	sorted := make([]graph.CoOrderRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Menu < sorted[j].Menu
	})

	var history []string
	candidates := make([]types.Candidate, 0, len(sorted))
	for _, row := range sorted {
		if row.Menu == "" {
			continue
		}
		if history == nil && len(row.History) > 0 {
			history = row.History
			if len(history) > 3 {
				history = history[:3]
			}
		}
		candidates = append(candidates, types.Candidate{
			Menu:       row.Menu,
			Score:      row.Score,
			Provenance: row.History,
		})
	}
	return candidates, history
}

type contextFactor struct {
	name    string
	present bool
	matched bool
	weight  int
}

// ContextCandidates composes the contextual score per menu from the match
// flags the traversal returned. An absent field contributes nothing. With
// legacy presence scoring, a present field contributes its weight whether or
// not a matching edge exists; otherwise the edge must exist. Only menus with
// a positive total become candidates; provenance lists the factors that
// contributed.
func ContextCandidates(rows []graph.ContextMatchRow, cond types.Conditions, weights Weights, legacyPresence bool) []types.Candidate {
	var candidates []types.Candidate
	for _, row := range rows {
		if row.Menu == "" {
			continue
		}
		factors := []contextFactor{
			{name: "season", present: cond.Season != "", matched: row.SeasonMatch, weight: weights.Season},
			{name: "rain", present: cond.Rain != "", matched: row.RainMatch, weight: weights.Rain},
			{name: "time", present: cond.Time != "", matched: row.TimeMatch, weight: weights.Time},
			{name: "people", present: cond.People != "", matched: row.PeopleMatch, weight: weights.People},
			{name: "alcohol", present: cond.Alcohol != "", matched: row.AlcoholMatch, weight: weights.Alcohol},
		}

		total := 0
		var contributed []string
		for _, f := range factors {
			if !f.present {
				continue
			}
			if !legacyPresence && !f.matched {
				continue
			}
			total += f.weight
			contributed = append(contributed, f.name)
		}
		if total <= 0 {
			continue
		}
		candidates = append(candidates, types.Candidate{
			Menu:       row.Menu,
			Score:      total,
			Provenance: contributed,
		})
	}
	return candidates
}

// PopularityCandidates converts fallback rows; provenance carries the
// degraded-mode label.
func PopularityCandidates(rows []graph.PopularityRow) []types.Candidate {
	candidates := make([]types.Candidate, 0, len(rows))
	for _, row := range rows {
		if row.Menu == "" {
			continue
		}
		candidates = append(candidates, types.Candidate{
			Menu:       row.Menu,
			Score:      row.Score,
			Provenance: []string{types.ModePopularity},
		})
	}
	return candidates
}
