package services

import (
	"context"
	"errors"
	"testing"

	"github.com/team-izakaya/menugraph-backend/internal/clients/llm"
	"github.com/team-izakaya/menugraph-backend/internal/data/graph"
	"github.com/team-izakaya/menugraph-backend/internal/platform/apierr"
	"github.com/team-izakaya/menugraph-backend/internal/platform/logger"
	"github.com/team-izakaya/menugraph-backend/internal/recommend"
	"github.com/team-izakaya/menugraph-backend/internal/types"
)

type fakeGraph struct {
	tagRows        []graph.TagCandidateRow
	coOrderRows    []graph.CoOrderRow
	contextRows    []graph.ContextMatchRow
	popularityRows []graph.PopularityRow

	tagErr        error
	coOrderErr    error
	contextErr    error
	popularityErr error

	popularityCalls int
}

func (f *fakeGraph) TagSimilar(ctx context.Context, userID uint) ([]graph.TagCandidateRow, error) {
	return f.tagRows, f.tagErr
}

func (f *fakeGraph) CoOrdered(ctx context.Context, username string) ([]graph.CoOrderRow, error) {
	return f.coOrderRows, f.coOrderErr
}

func (f *fakeGraph) ContextMatches(ctx context.Context, season, rain, timeOfDay, people, alcohol string) ([]graph.ContextMatchRow, error) {
	return f.contextRows, f.contextErr
}

func (f *fakeGraph) Popularity(ctx context.Context) ([]graph.PopularityRow, error) {
	f.popularityCalls++
	return f.popularityRows, f.popularityErr
}

type fakeLLM struct {
	pitch string
	err   error
	calls int
	last  llm.Request
}

func (f *fakeLLM) Pitch(ctx context.Context, req llm.Request) (string, error) {
	f.calls++
	f.last = req
	return f.pitch, f.err
}

type fakeCache struct {
	store map[string]string
	gets  int
	sets  int
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, bool) {
	f.gets++
	v, ok := f.store[key]
	return v, ok
}

func (f *fakeCache) Set(ctx context.Context, key, pitch string) {
	f.sets++
	if f.store == nil {
		f.store = map[string]string{}
	}
	f.store[key] = pitch
}

func testService(t *testing.T, g GraphReader, l llm.Client, cache PitchCache) RecommendationService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewRecommendationService(log, g, l, cache, recommend.DefaultConfig())
}

func TestByTagsHappyPath(t *testing.T) {
	g := &fakeGraph{tagRows: []graph.TagCandidateRow{
		{Menu: "가라아게", Score: 3, Reasons: []string{"치킨", "튀김"}},
		{Menu: "감자튀김", Score: 1, Reasons: []string{"튀김"}},
	}}
	l := &fakeLLM{pitch: "가라아게 어떠세요!"}
	svc := testService(t, g, l, nil)

	rec, err := svc.ByTags(context.Background(), 1, "kim")
	if err != nil {
		t.Fatalf("ByTags: %v", err)
	}
	if rec.Mode != types.ModeTagSimilarity {
		t.Fatalf("mode: want=%q got=%q", types.ModeTagSimilarity, rec.Mode)
	}
	if len(rec.Candidates) != 2 || rec.Candidates[0].Menu != "가라아게" {
		t.Fatalf("candidates: got=%+v", rec.Candidates)
	}
	if rec.Pitch != "가라아게 어떠세요!" || rec.PitchError != "" {
		t.Fatalf("pitch: got=%q err=%q", rec.Pitch, rec.PitchError)
	}
	if len(rec.Knowledge) != 2 {
		t.Fatalf("knowledge lines: want=2 got=%d", len(rec.Knowledge))
	}
}

func TestByTagsInsufficientData(t *testing.T) {
	g := &fakeGraph{}
	l := &fakeLLM{pitch: "unused"}
	svc := testService(t, g, l, nil)

	rec, err := svc.ByTags(context.Background(), 1, "kim")
	if err != nil {
		t.Fatalf("ByTags: %v", err)
	}
	if rec.Message != msgInsufficientData {
		t.Fatalf("message: want=%q got=%q", msgInsufficientData, rec.Message)
	}
	if len(rec.Candidates) != 0 {
		t.Fatalf("candidates: want empty got=%+v", rec.Candidates)
	}
	if l.calls != 0 {
		t.Fatalf("generation must not run on the terminal path, calls=%d", l.calls)
	}
}

func TestByTagsGraphUnavailable(t *testing.T) {
	g := &fakeGraph{tagErr: errors.New("connection refused")}
	svc := testService(t, g, &fakeLLM{}, nil)

	_, err := svc.ByTags(context.Background(), 1, "kim")
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected apierr, got %v", err)
	}
	if apiErr.Code != apierr.CodeGraphUnavailable {
		t.Fatalf("code: want=%q got=%q", apierr.CodeGraphUnavailable, apiErr.Code)
	}
}

func TestByTagsLimit(t *testing.T) {
	g := &fakeGraph{tagRows: []graph.TagCandidateRow{
		{Menu: "a", Score: 1}, {Menu: "b", Score: 2}, {Menu: "c", Score: 3},
		{Menu: "d", Score: 4}, {Menu: "e", Score: 5},
	}}
	svc := testService(t, g, &fakeLLM{pitch: "p"}, nil)

	rec, err := svc.ByTags(context.Background(), 1, "kim")
	if err != nil {
		t.Fatalf("ByTags: %v", err)
	}
	if len(rec.Candidates) != 3 {
		t.Fatalf("tag limit: want=3 got=%d", len(rec.Candidates))
	}
	if rec.Candidates[0].Menu != "e" {
		t.Fatalf("top candidate: want=e got=%q", rec.Candidates[0].Menu)
	}
}

func TestBySimilarUsersHappyPath(t *testing.T) {
	g := &fakeGraph{coOrderRows: []graph.CoOrderRow{
		{Menu: "하이볼", Score: 4, History: []string{"가라아게", "닭꼬치"}},
		{Menu: "오니기리", Score: 2, History: []string{"가라아게"}},
	}}
	l := &fakeLLM{pitch: "하이볼 추천!"}
	svc := testService(t, g, l, nil)

	rec, err := svc.BySimilarUsers(context.Background(), "kim")
	if err != nil {
		t.Fatalf("BySimilarUsers: %v", err)
	}
	if rec.Mode != types.ModeUserSimilarity || rec.Message != msgSimilarUsers {
		t.Fatalf("mode/message: got=%q/%q", rec.Mode, rec.Message)
	}
	if len(rec.History) != 2 || rec.History[0] != "가라아게" {
		t.Fatalf("history: got=%v", rec.History)
	}
	if l.last.Conditions["logic"] != "User Similarity" {
		t.Fatalf("generation request logic: got=%v", l.last.Conditions)
	}
}

func TestBySimilarUsersInsufficientHistory(t *testing.T) {
	g := &fakeGraph{}
	l := &fakeLLM{pitch: "unused"}
	svc := testService(t, g, l, nil)

	rec, err := svc.BySimilarUsers(context.Background(), "kim")
	if err != nil {
		t.Fatalf("BySimilarUsers: %v", err)
	}
	if rec.Message != msgInsufficientHistory {
		t.Fatalf("message: want=%q got=%q", msgInsufficientHistory, rec.Message)
	}
	if rec.Pitch != adviceOrderMore {
		t.Fatalf("pitch: want=%q got=%q", adviceOrderMore, rec.Pitch)
	}
	if l.calls != 0 {
		t.Fatalf("generation must not run on the terminal path, calls=%d", l.calls)
	}
}

func TestByContextScoresAndRanks(t *testing.T) {
	g := &fakeGraph{contextRows: []graph.ContextMatchRow{
		{Menu: "어묵탕", SeasonMatch: true, RainMatch: true},
		{Menu: "가라아게", RainMatch: true},
	}}
	l := &fakeLLM{pitch: "어묵탕 드세요"}
	svc := testService(t, g, l, nil)

	rec, err := svc.ByContext(context.Background(), types.Conditions{Season: "winter", Rain: "15mm"})
	if err != nil {
		t.Fatalf("ByContext: %v", err)
	}
	if rec.Mode != types.ModeContextWeighted || rec.Message != msgContextMatch {
		t.Fatalf("mode/message: got=%q/%q", rec.Mode, rec.Message)
	}
	// Conditions are normalized before scoring and echoed back normalized.
	if rec.Conditions.Season != "겨울" || rec.Conditions.Rain != "3~15mm" {
		t.Fatalf("normalized conditions: got=%+v", rec.Conditions)
	}
	if rec.Candidates[0].Menu != "어묵탕" || rec.Candidates[0].Score != 5 {
		t.Fatalf("top candidate: got=%+v", rec.Candidates[0])
	}
	if g.popularityCalls != 0 {
		t.Fatalf("fallback ran despite candidates")
	}
}

func TestByContextPopularityFallback(t *testing.T) {
	g := &fakeGraph{
		contextRows:    nil,
		popularityRows: []graph.PopularityRow{{Menu: "가라아게", Score: 12}, {Menu: "하이볼", Score: 8}},
	}
	l := &fakeLLM{pitch: "요즘 인기 메뉴!"}
	svc := testService(t, g, l, nil)

	rec, err := svc.ByContext(context.Background(), types.Conditions{Season: "summer"})
	if err != nil {
		t.Fatalf("ByContext: %v", err)
	}
	if rec.Mode != types.ModePopularity {
		t.Fatalf("mode: want=%q got=%q", types.ModePopularity, rec.Mode)
	}
	if rec.Message != msgPopularityFallback {
		t.Fatalf("message: want=%q got=%q", msgPopularityFallback, rec.Message)
	}
	if g.popularityCalls != 1 {
		t.Fatalf("popularity calls: want=1 got=%d", g.popularityCalls)
	}
	if len(rec.Candidates) != 2 || rec.Candidates[0].Menu != "가라아게" {
		t.Fatalf("fallback candidates: got=%+v", rec.Candidates)
	}
}

func TestByContextGenerationFailureDegrades(t *testing.T) {
	g := &fakeGraph{contextRows: []graph.ContextMatchRow{
		{Menu: "어묵탕", SeasonMatch: true},
	}}
	l := &fakeLLM{err: errors.New("model server down")}
	svc := testService(t, g, l, nil)

	rec, err := svc.ByContext(context.Background(), types.Conditions{Season: "winter"})
	if err != nil {
		t.Fatalf("ByContext must not fail on generation error: %v", err)
	}
	if len(rec.Candidates) != 1 {
		t.Fatalf("candidates dropped on generation failure: got=%+v", rec.Candidates)
	}
	if rec.Pitch != "" || rec.PitchError != apierr.CodeGenerationUnavailable {
		t.Fatalf("degraded pitch: pitch=%q err=%q", rec.Pitch, rec.PitchError)
	}
}

func TestPitchCacheHitSkipsGeneration(t *testing.T) {
	g := &fakeGraph{tagRows: []graph.TagCandidateRow{{Menu: "가라아게", Score: 3}}}
	l := &fakeLLM{pitch: "새 피치"}
	cache := &fakeCache{}
	svc := testService(t, g, l, cache)

	// First call generates and stores.
	first, err := svc.ByTags(context.Background(), 1, "kim")
	if err != nil {
		t.Fatalf("ByTags: %v", err)
	}
	if l.calls != 1 || cache.sets != 1 {
		t.Fatalf("first call: llm=%d sets=%d", l.calls, cache.sets)
	}

	// Second call serves from cache.
	second, err := svc.ByTags(context.Background(), 1, "kim")
	if err != nil {
		t.Fatalf("ByTags: %v", err)
	}
	if l.calls != 1 {
		t.Fatalf("cache miss on identical request, llm calls=%d", l.calls)
	}
	if first.Pitch != second.Pitch {
		t.Fatalf("pitch mismatch: %q vs %q", first.Pitch, second.Pitch)
	}
}
