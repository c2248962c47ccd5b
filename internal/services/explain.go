package services

import (
	"fmt"
	"strings"

	"github.com/team-izakaya/menugraph-backend/internal/clients/llm"
	"github.com/team-izakaya/menugraph-backend/internal/types"
)

// BuildGenerationRequest packages ranked candidates and their retrieval
// provenance into the structured request the generation service consumes.
// With no candidates the request degrades to conditions only, which still
// yields a generic pitch.
func BuildGenerationRequest(mode string, candidates []types.Candidate, cond types.Conditions, history []string) llm.Request {
	menus := make([]llm.RankedMenu, 0, len(candidates))
	for _, c := range candidates {
		menus = append(menus, llm.RankedMenu{Name: c.Menu, Score: c.Score})
	}

	switch mode {
	case types.ModeUserSimilarity:
		historyStr := strings.Join(history, ", ")
		if historyStr == "" {
			historyStr = "기존 주문 메뉴"
		}
		return llm.Request{
			Menus: menus,
			Conditions: map[string]string{
				"logic":   "User Similarity",
				"history": historyStr,
			},
		}
	case types.ModeContextWeighted, types.ModePopularity:
		return llm.Request{Menus: menus, Conditions: cond.Map()}
	default:
		return llm.Request{Menus: menus}
	}
}

// KnowledgeLines renders the human-readable retrieval evidence included in
// the response alongside the pitch.
func KnowledgeLines(mode string, candidates []types.Candidate) []string {
	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		switch mode {
		case types.ModeTagSimilarity:
			lines = append(lines, fmt.Sprintf("추천 후보: %s (이유: 사용자가 선호하는 %s 특징을 가지고 있음)",
				c.Menu, strings.Join(c.Provenance, ", ")))
		case types.ModePopularity:
			lines = append(lines, fmt.Sprintf("인기 메뉴 '%s' (주문 수: %d회)", c.Menu, c.Score))
		default:
			lines = append(lines, fmt.Sprintf("메뉴 '%s' (추천 점수: %d점)", c.Menu, c.Score))
		}
	}
	return lines
}
