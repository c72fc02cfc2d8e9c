package api

import (
	"net/http"
	"strconv"

	"PdlLeague/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// VotingHandler crowd-vote decision path
type VotingHandler struct {
	votingService *service.VotingService
	logger        *logrus.Logger
}

// NewVotingHandler creates a VotingHandler
func NewVotingHandler(db *gorm.DB, logger *logrus.Logger) *VotingHandler {
	return &VotingHandler{
		votingService: service.NewVotingService(db, logger),
		logger:        logger,
	}
}

// openSessionRequest POST body
type openSessionRequest struct {
	WinnerTeam int `json:"winner_team" binding:"required"`
}

// OpenSession POST /api/matches/:id/voting-session
func (h *VotingHandler) OpenSession(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	session, err := h.votingService.OpenSession(c.Request.Context(), matchID, req.WinnerTeam)
	if err != nil {
		h.logger.WithError(err).Error("OpenSession failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// submitVoteRequest POST body. VoterToken is a client-held opaque uuid, not
// a verified identity.
type submitVoteRequest struct {
	VoterToken  string `json:"voter_token" binding:"required"`
	MvpPlayerID uint64 `json:"mvp_player_id" binding:"required"`
	DudPlayerID uint64 `json:"dud_player_id" binding:"required"`
}

// SubmitVote POST /api/voting-sessions/:session_id/votes. Last write per
// voter token wins
func (h *VotingHandler) SubmitVote(c *gin.Context) {
	sessionID := c.Param("session_id")
	var req submitVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := h.votingService.SubmitBallot(c.Request.Context(), sessionID, req.VoterToken, req.MvpPlayerID, req.DudPlayerID); err != nil {
		h.logger.WithError(err).Error("SubmitVote failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ballot recorded"})
}

// Finalize POST /api/voting-sessions/:session_id/finalize
func (h *VotingHandler) Finalize(c *gin.Context) {
	sessionID := c.Param("session_id")
	result, err := h.votingService.Finalize(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.WithError(err).Error("Finalize failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSnapshot GET /api/voting-sessions/:session_id, live standings for
// poll/refresh rendering
func (h *VotingHandler) GetSnapshot(c *gin.Context) {
	sessionID := c.Param("session_id")
	snap, err := h.votingService.Snapshot(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.WithError(err).Error("GetSnapshot failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
