package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/team-izakaya/menugraph-backend/internal/clients/llm"
	redisclient "github.com/team-izakaya/menugraph-backend/internal/clients/redis"
	"github.com/team-izakaya/menugraph-backend/internal/data/graph"
	"github.com/team-izakaya/menugraph-backend/internal/normalization"
	"github.com/team-izakaya/menugraph-backend/internal/platform/apierr"
	"github.com/team-izakaya/menugraph-backend/internal/platform/logger"
	"github.com/team-izakaya/menugraph-backend/internal/recommend"
	"github.com/team-izakaya/menugraph-backend/internal/types"
)

// GraphReader is the traversal surface the strategies run against. All four
// queries are read-only; failures propagate immediately with no retry.
type GraphReader interface {
	TagSimilar(ctx context.Context, userID uint) ([]graph.TagCandidateRow, error)
	CoOrdered(ctx context.Context, username string) ([]graph.CoOrderRow, error)
	ContextMatches(ctx context.Context, season, rain, timeOfDay, people, alcohol string) ([]graph.ContextMatchRow, error)
	Popularity(ctx context.Context) ([]graph.PopularityRow, error)
}

// PitchCache is the optional memoization layer in front of the generation
// service. A nil cache disables it.
type PitchCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, pitch string)
}

type RecommendationService interface {
	ByTags(ctx context.Context, userID uint, username string) (*types.Recommendation, error)
	BySimilarUsers(ctx context.Context, username string) (*types.Recommendation, error)
	ByContext(ctx context.Context, cond types.Conditions) (*types.Recommendation, error)
}

// Terminal and degraded-mode messages, verbatim from the product copy.
const (
	msgInsufficientData    = "데이터가 부족해서 RAG 추론이 어렵습니다. 주문을 더 해주세요!"
	msgInsufficientHistory = "데이터 부족"
	adviceOrderMore        = "주문 이력이 쌓이면 비슷한 입맛의 유저를 찾아드릴게요!"
	msgSimilarUsers        = "비슷한 유저 추천 결과"
	msgContextMatch        = "선택하신 조건에 딱 맞는 메뉴입니다!"
	msgPopularityFallback  = "조건에 완벽히 맞는 메뉴가 없어서, 요즘 인기 있는 메뉴를 추천해 드려요!"
)

type recommendationService struct {
	log   *logger.Logger
	graph GraphReader
	llm   llm.Client
	cache PitchCache
	cfg   recommend.Config
}

func NewRecommendationService(
	log *logger.Logger,
	graphReader GraphReader,
	llmClient llm.Client,
	cache PitchCache,
	cfg recommend.Config,
) RecommendationService {
	return &recommendationService{
		log:   log.With("service", "RecommendationService"),
		graph: graphReader,
		llm:   llmClient,
		cache: cache,
		cfg:   cfg,
	}
}

// ByTags recommends menus sharing tags with what the user already ordered.
// No fallback: too little history yields the explicit insufficient-data
// response.
func (rs *recommendationService) ByTags(ctx context.Context, userID uint, username string) (*types.Recommendation, error) {
	rows, err := rs.graph.TagSimilar(ctx, userID)
	if err != nil {
		return nil, apierr.New(http.StatusServiceUnavailable, apierr.CodeGraphUnavailable, err)
	}

	ranked := recommend.Rank(recommend.TagCandidates(rows), rs.cfg.Limits.Tag)
	if len(ranked) == 0 {
		return &types.Recommendation{
			Mode:    types.ModeTagSimilarity,
			Message: msgInsufficientData,
		}, nil
	}

	rec := &types.Recommendation{
		Mode:       types.ModeTagSimilarity,
		Message:    fmt.Sprintf("%s님의 취향 그래프 분석 결과", username),
		Candidates: ranked,
		Knowledge:  KnowledgeLines(types.ModeTagSimilarity, ranked),
	}
	rs.attachPitch(ctx, rec, BuildGenerationRequest(types.ModeTagSimilarity, ranked, types.Conditions{}, nil))
	return rec, nil
}

// BySimilarUsers recommends menus ordered by users sharing order history
// with the requester. Provenance is the requester's own history taken from
// the top-scoring row.
func (rs *recommendationService) BySimilarUsers(ctx context.Context, username string) (*types.Recommendation, error) {
	rows, err := rs.graph.CoOrdered(ctx, username)
	if err != nil {
		return nil, apierr.New(http.StatusServiceUnavailable, apierr.CodeGraphUnavailable, err)
	}

	candidates, history := recommend.CoOrderCandidates(rows)
	ranked := recommend.Rank(candidates, rs.cfg.Limits.Collaborative)
	if len(ranked) == 0 {
		return &types.Recommendation{
			Mode:    types.ModeUserSimilarity,
			Message: msgInsufficientHistory,
			Pitch:   adviceOrderMore,
		}, nil
	}

	rec := &types.Recommendation{
		Mode:       types.ModeUserSimilarity,
		Message:    msgSimilarUsers,
		Candidates: ranked,
		History:    history,
	}
	rs.attachPitch(ctx, rec, BuildGenerationRequest(types.ModeUserSimilarity, ranked, types.Conditions{}, history))
	return rec, nil
}

// ByContext scores every menu against the weighted situational factors and
// falls back to popularity when nothing scores. This is the only strategy
// with a fallback, and the fallback runs only when the primary candidate set
// is empty.
func (rs *recommendationService) ByContext(ctx context.Context, cond types.Conditions) (*types.Recommendation, error) {
	cond = normalization.NormalizeConditions(cond)

	rows, err := rs.graph.ContextMatches(ctx, cond.Season, cond.Rain, cond.Time, cond.People, cond.Alcohol)
	if err != nil {
		return nil, apierr.New(http.StatusServiceUnavailable, apierr.CodeGraphUnavailable, err)
	}

	candidates := recommend.ContextCandidates(rows, cond, rs.cfg.Weights, rs.cfg.LegacyPresenceScoring)
	ranked := recommend.Rank(candidates, rs.cfg.Limits.Contextual)

	mode := types.ModeContextWeighted
	message := msgContextMatch
	if len(ranked) == 0 {
		fallbackRows, err := rs.graph.Popularity(ctx)
		if err != nil {
			return nil, apierr.New(http.StatusServiceUnavailable, apierr.CodeGraphUnavailable, err)
		}
		ranked = recommend.Rank(recommend.PopularityCandidates(fallbackRows), rs.cfg.Limits.Popularity)
		mode = types.ModePopularity
		message = msgPopularityFallback
		rs.log.Info("Contextual strategy empty, serving popularity fallback", "conditions", cond.Map())
	}

	rec := &types.Recommendation{
		Mode:       mode,
		Message:    message,
		Candidates: ranked,
		Conditions: cond,
		Knowledge:  KnowledgeLines(mode, ranked),
	}
	rs.attachPitch(ctx, rec, BuildGenerationRequest(mode, ranked, cond, nil))
	return rec, nil
}

// attachPitch runs the generation step, consulting the cache first. A
// generation failure degrades the response (ranked menus without a pitch,
// PitchError set) instead of discarding the retrieval work.
func (rs *recommendationService) attachPitch(ctx context.Context, rec *types.Recommendation, req llm.Request) {
	key := redisclient.CacheKey(rec.Mode, rec.MenuNames(), req.Conditions)
	if rs.cache != nil {
		if pitch, ok := rs.cache.Get(ctx, key); ok {
			rec.Pitch = pitch
			return
		}
	}

	pitch, err := rs.llm.Pitch(ctx, req)
	if err != nil {
		rs.log.Error("Generation service unavailable", "mode", rec.Mode, "error", err)
		rec.PitchError = apierr.CodeGenerationUnavailable
		return
	}
	rec.Pitch = pitch

	if rs.cache != nil {
		rs.cache.Set(ctx, key, pitch)
	}
}
