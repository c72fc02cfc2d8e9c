package api

import (
	"errors"
	"net/http"

	"PdlLeague/internal/service"

	"github.com/gin-gonic/gin"
)

// writeError maps service failures onto HTTP statuses: unknown entities to
// 404, state conflicts to 409, bad input to 400, anything else to 500.
// The body always carries the specific cause.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, service.ErrMatchNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrMatchAlreadySettled),
		errors.Is(err, service.ErrSessionCompleted),
		errors.Is(err, service.ErrSessionAlreadyOpen),
		errors.Is(err, service.ErrNoBallots):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidPlayerName),
		errors.Is(err, service.ErrRosterSize),
		errors.Is(err, service.ErrUnknownPlayer),
		errors.Is(err, service.ErrInvalidTeam),
		errors.Is(err, service.ErrSameAwardPlayer),
		errors.Is(err, service.ErrRosterIntegrity),
		errors.Is(err, service.ErrTeamSplitIntegrity),
		errors.Is(err, service.ErrMvpNotOnWinningTeam),
		errors.Is(err, service.ErrDudNotOnLosingTeam),
		errors.Is(err, service.ErrMissingVoterToken):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
