package recommend

import (
	"reflect"
	"testing"

	"github.com/team-izakaya/menugraph-backend/internal/data/graph"
	"github.com/team-izakaya/menugraph-backend/internal/types"
)

func TestTagCandidates(t *testing.T) {
	rows := []graph.TagCandidateRow{
		{Menu: "가라아게", Score: 3, Reasons: []string{"치킨", "튀김", "안주"}},
		{Menu: "", Score: 9},
		{Menu: "감자튀김", Score: 1, Reasons: []string{"튀김"}},
	}
	got := TagCandidates(rows)
	if len(got) != 2 {
		t.Fatalf("TagCandidates length: want=2 got=%d", len(got))
	}
	if got[0].Menu != "가라아게" || got[0].Score != 3 {
		t.Fatalf("TagCandidates[0]: got=%+v", got[0])
	}
	if !reflect.DeepEqual(got[0].Provenance, []string{"치킨", "튀김", "안주"}) {
		t.Fatalf("TagCandidates provenance: got=%v", got[0].Provenance)
	}
}

func TestCoOrderCandidatesHistoryFromTopRow(t *testing.T) {
	rows := []graph.CoOrderRow{
		{Menu: "낮은 후보", Score: 1, History: []string{"사시미"}},
		{Menu: "최고 후보", Score: 4, History: []string{"가라아게", "하이볼", "닭꼬치", "오니기리"}},
	}
	candidates, history := CoOrderCandidates(rows)
	if len(candidates) != 2 {
		t.Fatalf("CoOrderCandidates length: want=2 got=%d", len(candidates))
	}
	// History is taken from the highest-scoring row and capped at three.
	want := []string{"가라아게", "하이볼", "닭꼬치"}
	if !reflect.DeepEqual(history, want) {
		t.Fatalf("history: want=%v got=%v", want, history)
	}
}

func TestCoOrderCandidatesDeterministicOnTies(t *testing.T) {
	a := []graph.CoOrderRow{
		{Menu: "b메뉴", Score: 2, History: []string{"b이력"}},
		{Menu: "a메뉴", Score: 2, History: []string{"a이력"}},
	}
	b := []graph.CoOrderRow{a[1], a[0]}

	_, historyA := CoOrderCandidates(a)
	_, historyB := CoOrderCandidates(b)
	if !reflect.DeepEqual(historyA, historyB) {
		t.Fatalf("history depends on row order: a=%v b=%v", historyA, historyB)
	}
	if !reflect.DeepEqual(historyA, []string{"a이력"}) {
		t.Fatalf("history tie-break: want=[a이력] got=%v", historyA)
	}
}

func TestCoOrderCandidatesEmpty(t *testing.T) {
	candidates, history := CoOrderCandidates(nil)
	if len(candidates) != 0 || history != nil {
		t.Fatalf("CoOrderCandidates(nil): candidates=%v history=%v", candidates, history)
	}
}

func TestContextCandidatesMatchGated(t *testing.T) {
	weights := DefaultConfig().Weights
	cond := types.Conditions{Season: "겨울", Rain: "3~15mm", Alcohol: "소주"}
	rows := []graph.ContextMatchRow{
		{Menu: "어묵탕", SeasonMatch: true, RainMatch: true, AlcoholMatch: true},
		{Menu: "가라아게", SeasonMatch: false, RainMatch: true, AlcoholMatch: false},
		{Menu: "냉모밀", SeasonMatch: false, RainMatch: false, AlcoholMatch: false},
	}

	got := ContextCandidates(rows, cond, weights, false)
	if len(got) != 2 {
		t.Fatalf("ContextCandidates length: want=2 got=%d", len(got))
	}
	// season 2 + rain 3 + alcohol 5
	if got[0].Menu != "어묵탕" || got[0].Score != 10 {
		t.Fatalf("full match: got=%+v", got[0])
	}
	if !reflect.DeepEqual(got[0].Provenance, []string{"season", "rain", "alcohol"}) {
		t.Fatalf("full match provenance: got=%v", got[0].Provenance)
	}
	if got[1].Menu != "가라아게" || got[1].Score != 3 {
		t.Fatalf("partial match: got=%+v", got[1])
	}
}

func TestContextCandidatesLegacyPresenceScoring(t *testing.T) {
	weights := DefaultConfig().Weights
	cond := types.Conditions{Season: "겨울", Rain: "3~15mm", Alcohol: "소주"}
	rows := []graph.ContextMatchRow{
		{Menu: "냉모밀"},
	}

	// Legacy mode scores every present factor even with no matching edge.
	got := ContextCandidates(rows, cond, weights, true)
	if len(got) != 1 {
		t.Fatalf("legacy length: want=1 got=%d", len(got))
	}
	if got[0].Score != 10 {
		t.Fatalf("legacy score: want=10 got=%d", got[0].Score)
	}
}

func TestContextCandidatesAbsentFieldsNeverContribute(t *testing.T) {
	weights := DefaultConfig().Weights
	// Match flags set for factors the request never asked about.
	rows := []graph.ContextMatchRow{
		{Menu: "가라아게", SeasonMatch: true, RainMatch: true, TimeMatch: true, PeopleMatch: true, AlcoholMatch: true},
	}

	for _, legacy := range []bool{false, true} {
		got := ContextCandidates(rows, types.Conditions{}, weights, legacy)
		if len(got) != 0 {
			t.Fatalf("legacy=%v: absent fields contributed: got=%+v", legacy, got)
		}
	}
}

func TestContextCandidatesSingleFactor(t *testing.T) {
	weights := DefaultConfig().Weights
	cond := types.Conditions{People: "3명"}
	rows := []graph.ContextMatchRow{
		{Menu: "모둠 사시미", PeopleMatch: true},
		{Menu: "오니기리", PeopleMatch: false},
	}
	got := ContextCandidates(rows, cond, weights, false)
	if len(got) != 1 || got[0].Menu != "모둠 사시미" || got[0].Score != 1 {
		t.Fatalf("single factor: got=%+v", got)
	}
}

func TestPopularityCandidates(t *testing.T) {
	rows := []graph.PopularityRow{
		{Menu: "가라아게", Score: 12},
		{Menu: "", Score: 99},
	}
	got := PopularityCandidates(rows)
	if len(got) != 1 {
		t.Fatalf("PopularityCandidates length: want=1 got=%d", len(got))
	}
	if got[0].Score != 12 || !reflect.DeepEqual(got[0].Provenance, []string{types.ModePopularity}) {
		t.Fatalf("PopularityCandidates[0]: got=%+v", got[0])
	}
}
