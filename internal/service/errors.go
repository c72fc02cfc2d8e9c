package service

import "errors"

// Every rejection a caller can hit maps to one of these, so the API layer
// can surface the precise cause instead of a generic failure.
var (
	// player ledger
	ErrInvalidPlayerName = errors.New("player name must have between 2 and 60 characters")
	ErrPlayerNotFound    = errors.New("player not found")

	// match assignment
	ErrRosterSize    = errors.New("a match needs exactly 10 distinct players")
	ErrUnknownPlayer = errors.New("one or more selected players do not exist")
	ErrInvalidTeam   = errors.New("team must be 1 or 2")

	// result settlement
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchAlreadySettled = errors.New("match has already been settled")
	ErrSameAwardPlayer     = errors.New("mvp and dud cannot be the same player")
	ErrRosterIntegrity     = errors.New("match roster does not have exactly 10 players")
	ErrTeamSplitIntegrity  = errors.New("each team must have exactly 5 players")
	ErrMvpNotOnWinningTeam = errors.New("mvp must belong to the winning team")
	ErrDudNotOnLosingTeam  = errors.New("dud must belong to the losing team")

	// voting sessions
	ErrSessionNotFound    = errors.New("voting session not found")
	ErrSessionCompleted   = errors.New("voting session has already been completed")
	ErrSessionAlreadyOpen = errors.New("match already has an active voting session")
	ErrMissingVoterToken  = errors.New("voter token is required")
	ErrNoBallots          = errors.New("voting session has no ballots to finalize")
)
