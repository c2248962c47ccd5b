package recommend

import (
	"testing"

	"github.com/team-izakaya/menugraph-backend/internal/types"
)

func TestRankOrdersByScoreThenName(t *testing.T) {
	in := []types.Candidate{
		{Menu: "연어 사시미", Score: 2},
		{Menu: "가라아게", Score: 5},
		{Menu: "닭꼬치", Score: 5},
		{Menu: "감자튀김", Score: 5},
	}
	got := Rank(in, 0)

	wantOrder := []string{"가라아게", "감자튀김", "닭꼬치", "연어 사시미"}
	if len(got) != len(wantOrder) {
		t.Fatalf("Rank length: want=%d got=%d", len(wantOrder), len(got))
	}
	for i, want := range wantOrder {
		if got[i].Menu != want {
			t.Fatalf("Rank order[%d]: want=%q got=%q", i, want, got[i].Menu)
		}
	}
}

func TestRankLimitAppliesAfterSort(t *testing.T) {
	in := []types.Candidate{
		{Menu: "낮은 점수", Score: 1},
		{Menu: "중간 점수", Score: 3},
		{Menu: "최고 점수", Score: 9},
	}
	got := Rank(in, 2)
	if len(got) != 2 {
		t.Fatalf("Rank limit: want=2 got=%d", len(got))
	}
	if got[0].Menu != "최고 점수" || got[1].Menu != "중간 점수" {
		t.Fatalf("Rank kept wrong candidates: got=%q,%q", got[0].Menu, got[1].Menu)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []types.Candidate{
		{Menu: "b", Score: 1},
		{Menu: "a", Score: 2},
	}
	Rank(in, 1)
	if in[0].Menu != "b" || in[1].Menu != "a" {
		t.Fatalf("Rank mutated its input: got=%q,%q", in[0].Menu, in[1].Menu)
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil, 3); len(got) != 0 {
		t.Fatalf("Rank(nil): want empty got=%d", len(got))
	}
}
