package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/team-izakaya/menugraph-backend/internal/middleware"
	"github.com/team-izakaya/menugraph-backend/internal/services"
	"github.com/team-izakaya/menugraph-backend/internal/types"
)

type RecommendationHandler struct {
	recommendationService services.RecommendationService
}

func NewRecommendationHandler(recommendationService services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService}
}

// ByTags serves the content-tag strategy for the authenticated user.
func (rh *RecommendationHandler) ByTags(c *gin.Context) {
	userID, username, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	rec, err := rh.recommendationService.ByTags(c.Request.Context(), userID, username)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if len(rec.Candidates) == 0 {
		RespondOK(c, gin.H{"type": rec.Mode, "message": rec.Message, "menus": []string{}})
		return
	}
	RespondOK(c, gin.H{
		"type":                rec.Mode,
		"user_context":        rec.Message,
		"menus":               rec.MenuNames(),
		"candidates":          rec.Candidates,
		"retrieved_knowledge": rec.Knowledge,
		"llm_advice":          rec.Pitch,
		"pitch_error":         rec.PitchError,
	})
}

// BySimilarUsers serves the collaborative strategy for the authenticated
// user.
func (rh *RecommendationHandler) BySimilarUsers(c *gin.Context) {
	_, username, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	rec, err := rh.recommendationService.BySimilarUsers(c.Request.Context(), username)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if len(rec.Candidates) == 0 {
		RespondOK(c, gin.H{
			"type":       "fallback",
			"message":    rec.Message,
			"menus":      []string{},
			"llm_advice": rec.Pitch,
		})
		return
	}
	RespondOK(c, gin.H{
		"type":        "personalized",
		"message":     rec.Message,
		"menus":       rec.MenuNames(),
		"candidates":  rec.Candidates,
		"history":     rec.History,
		"llm_advice":  rec.Pitch,
		"pitch_error": rec.PitchError,
	})
}

// ByContext serves the contextual-weighted strategy. The situational fields
// are optional and free-form; malformed values score as no-match instead of
// rejecting the request.
func (rh *RecommendationHandler) ByContext(c *gin.Context) {
	var req types.Conditions
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := rh.recommendationService.ByContext(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"type":                rec.Mode,
		"message":             rec.Message,
		"menus":               rec.MenuNames(),
		"candidates":          rec.Candidates,
		"conditions":          rec.Conditions.Map(),
		"retrieved_knowledge": rec.Knowledge,
		"llm_advice":          rec.Pitch,
		"pitch_error":         rec.PitchError,
	})
}
