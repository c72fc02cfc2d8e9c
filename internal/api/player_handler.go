package api

import (
	"net/http"
	"strconv"

	"PdlLeague/internal/service"
	"PdlLeague/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PlayerHandler player registration, listing, ranking and score override
type PlayerHandler struct {
	playerService *service.PlayerService
	photos        storage.PhotoStore
	logger        *logrus.Logger
}

// NewPlayerHandler creates a PlayerHandler. photos may be nil, in which
// case uploads are ignored and players are created without a photo.
func NewPlayerHandler(db *gorm.DB, logger *logrus.Logger, photos storage.PhotoStore) *PlayerHandler {
	return &PlayerHandler{
		playerService: service.NewPlayerService(db, logger),
		photos:        photos,
		logger:        logger,
	}
}

// ListPlayers GET /api/players, all players sorted by name ascending
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	players, err := h.playerService.ListPlayers(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListPlayers failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, players)
}

// Ranking GET /api/ranking, score descending with name ascending tie-break
func (h *PlayerHandler) Ranking(c *gin.Context) {
	players, err := h.playerService.Ranking(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Ranking failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, players)
}

// CreatePlayer POST /api/players, multipart form: name, score (optional),
// photo file (optional)
func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	name := c.PostForm("name")
	score, _ := strconv.Atoi(c.DefaultPostForm("score", "0"))

	var photoURL *string
	if file, err := c.FormFile("photo"); err == nil && h.photos != nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo upload: " + err.Error()})
			return
		}
		defer src.Close()
		url, err := h.photos.Save(file.Filename, src)
		if err != nil {
			h.logger.WithError(err).Error("photo upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "photo upload failed"})
			return
		}
		photoURL = &url
	}

	player, err := h.playerService.CreatePlayer(c.Request.Context(), name, score, photoURL)
	if err != nil {
		h.logger.WithError(err).Error("CreatePlayer failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, player)
}

// overrideScoreRequest PATCH body
type overrideScoreRequest struct {
	Score int `json:"score"`
}

// OverrideScore PATCH /api/players/:id/score, manual absolute score set
func (h *PlayerHandler) OverrideScore(c *gin.Context) {
	playerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}
	var req overrideScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	player, err := h.playerService.OverrideScore(c.Request.Context(), playerID, req.Score)
	if err != nil {
		h.logger.WithError(err).Error("OverrideScore failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}
