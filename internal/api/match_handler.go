package api

import (
	"net/http"
	"strconv"

	"PdlLeague/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MatchHandler team draws, match projection and direct settlement
type MatchHandler struct {
	matchService *service.MatchService
	logger       *logrus.Logger
}

// NewMatchHandler creates a MatchHandler
func NewMatchHandler(db *gorm.DB, logger *logrus.Logger, shuffler service.Shuffler) *MatchHandler {
	return &MatchHandler{
		matchService: service.NewMatchService(db, logger, shuffler),
		logger:       logger,
	}
}

// createMatchRequest POST body
type createMatchRequest struct {
	PlayerIDs []uint64 `json:"player_ids" binding:"required"`
}

// CreateMatch POST /api/matches, draws two teams of five from exactly ten
// distinct players
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	draw, err := h.matchService.CreateMatch(c.Request.Context(), req.PlayerIDs)
	if err != nil {
		h.logger.WithError(err).Error("CreateMatch failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draw)
}

// GetMatch GET /api/matches/:id, match-with-teams projection
func (h *MatchHandler) GetMatch(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}
	match, err := h.matchService.GetMatch(c.Request.Context(), matchID)
	if err != nil {
		h.logger.WithError(err).Error("GetMatch failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// RecentMatches GET /api/matches/recent?limit=5
func (h *MatchHandler) RecentMatches(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	matches, err := h.matchService.RecentMatches(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("RecentMatches failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// completeMatchRequest POST body
type completeMatchRequest struct {
	WinnerTeam  int    `json:"winner_team" binding:"required"`
	MvpPlayerID uint64 `json:"mvp_player_id" binding:"required"`
	DudPlayerID uint64 `json:"dud_player_id" binding:"required"`
}

// CompleteMatch POST /api/matches/:id/complete, operator-picked settlement
func (h *MatchHandler) CompleteMatch(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}
	var req completeMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := h.matchService.CompleteMatch(c.Request.Context(), matchID, req.WinnerTeam, req.MvpPlayerID, req.DudPlayerID); err != nil {
		h.logger.WithError(err).Error("CompleteMatch failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "match settled"})
}

// ReplayMatch POST /api/matches/:id/replay, redraws teams from the same roster
func (h *MatchHandler) ReplayMatch(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}
	draw, err := h.matchService.ReplayMatch(c.Request.Context(), matchID)
	if err != nil {
		h.logger.WithError(err).Error("ReplayMatch failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draw)
}
