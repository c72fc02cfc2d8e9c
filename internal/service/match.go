package service

import (
	"context"
	"errors"
	"time"

	"PdlLeague/internal/model"
	"PdlLeague/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MatchService match creation and direct settlement
type MatchService struct {
	db       *gorm.DB
	players  repository.PlayerRepository
	matches  repository.MatchRepository
	shuffler Shuffler
	logger   *logrus.Logger
}

// NewMatchService creates a MatchService
func NewMatchService(db *gorm.DB, logger *logrus.Logger, shuffler Shuffler) *MatchService {
	return &MatchService{
		db:       db,
		players:  repository.NewPlayerRepository(db),
		matches:  repository.NewMatchRepository(db),
		shuffler: shuffler,
		logger:   logger,
	}
}

// MatchDraw result of a team draw, returned so the caller can render the
// split without a re-read
type MatchDraw struct {
	MatchID uint64   `json:"match_id"`
	TeamOne []uint64 `json:"team_one"`
	TeamTwo []uint64 `json:"team_two"`
}

// CreateMatch draws two teams of five at random from exactly ten distinct
// existing players and persists the match with its full roster in one
// transaction.
func (s *MatchService) CreateMatch(ctx context.Context, playerIDs []uint64) (*MatchDraw, error) {
	if len(playerIDs) != 10 {
		return nil, ErrRosterSize
	}
	seen := make(map[uint64]struct{}, 10)
	for _, id := range playerIDs {
		if id == 0 {
			return nil, ErrRosterSize
		}
		if _, dup := seen[id]; dup {
			return nil, ErrRosterSize
		}
		seen[id] = struct{}{}
	}
	total, err := s.players.CountByIDs(ctx, playerIDs)
	if err != nil {
		return nil, err
	}
	if total != 10 {
		return nil, ErrUnknownPlayer
	}

	perm := s.shuffler.Perm(10)
	shuffled := make([]uint64, 10)
	for i, j := range perm {
		shuffled[i] = playerIDs[j]
	}
	teamOne := shuffled[:5]
	teamTwo := shuffled[5:]

	match := &model.Match{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(match).Error; err != nil {
			return err
		}
		roster := make([]*model.MatchPlayer, 0, 10)
		for i, playerID := range shuffled {
			team := model.TeamOne
			if i >= 5 {
				team = model.TeamTwo
			}
			roster = append(roster, &model.MatchPlayer{
				MatchID:  match.ID,
				PlayerID: playerID,
				Team:     team,
			})
		}
		return tx.Create(&roster).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("match_id", match.ID).Info("match created")
	return &MatchDraw{MatchID: match.ID, TeamOne: teamOne, TeamTwo: teamTwo}, nil
}

// ReplayMatch draws a brand-new match from the same ten players of an
// existing match. The old match is left untouched.
func (s *MatchService) ReplayMatch(ctx context.Context, matchID uint64) (*MatchDraw, error) {
	if _, err := s.matches.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	roster, err := s.matches.GetRoster(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if len(roster) != 10 {
		return nil, ErrRosterIntegrity
	}
	playerIDs := make([]uint64, 0, 10)
	for _, mp := range roster {
		playerIDs = append(playerIDs, mp.PlayerID)
	}
	return s.CreateMatch(ctx, playerIDs)
}

// CompleteMatch settles an open match with an operator-picked decision:
// winner team marked, awards replaced, PDL deltas applied, all atomically.
// A settled match is always rejected.
func (s *MatchService) CompleteMatch(ctx context.Context, matchID uint64, winnerTeam int, mvpPlayerID, dudPlayerID uint64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return settleMatch(tx, matchID, settlementDecision{
			winnerTeam:  winnerTeam,
			mvpPlayerID: mvpPlayerID,
			dudPlayerID: dudPlayerID,
		}, model.AuditSourceMatch, nil)
	})
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"match_id":    matchID,
		"winner_team": winnerTeam,
	}).Info("match settled")
	return nil
}

// MatchTeamPlayer one roster member in the match projection
type MatchTeamPlayer struct {
	PlayerID uint64  `json:"player_id"`
	Name     string  `json:"name"`
	PhotoURL *string `json:"photo_url"`
	Score    int     `json:"score"`
	Team     int     `json:"team"`
	IsWinner bool    `json:"is_winner"`
	IsMvp    bool    `json:"is_mvp"`
	IsDud    bool    `json:"is_dud"`
}

// MatchAwards award recipients of a settled match (null while open)
type MatchAwards struct {
	MvpPlayerID *uint64 `json:"mvp_player_id"`
	DudPlayerID *uint64 `json:"dud_player_id"`
}

// MatchWithTeams read-only projection of a match with its roster split by team
type MatchWithTeams struct {
	ID              uint64            `json:"id"`
	CreatedAt       time.Time         `json:"created_at"`
	CompletedAt     *time.Time        `json:"completed_at"`
	WinnerTeam      *int              `json:"winner_team"`
	VotingSessionID *string           `json:"voting_session_id"`
	Awards          MatchAwards       `json:"awards"`
	TeamOne         []MatchTeamPlayer `json:"team_one"`
	TeamTwo         []MatchTeamPlayer `json:"team_two"`
}

// GetMatch builds the match-with-teams projection
func (s *MatchService) GetMatch(ctx context.Context, matchID uint64) (*MatchWithTeams, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	roster, err := s.matches.GetRosterWithPlayers(ctx, matchID)
	if err != nil {
		return nil, err
	}
	awards, err := s.matches.GetAwards(ctx, matchID)
	if err != nil {
		return nil, err
	}

	out := &MatchWithTeams{
		ID:              match.ID,
		CreatedAt:       match.CreatedAt,
		CompletedAt:     match.CompletedAt,
		WinnerTeam:      match.WinnerTeam,
		VotingSessionID: match.VotingSessionID,
		TeamOne:         []MatchTeamPlayer{},
		TeamTwo:         []MatchTeamPlayer{},
	}
	for _, a := range awards {
		playerID := a.PlayerID
		switch a.AwardType {
		case model.AwardMvp:
			out.Awards.MvpPlayerID = &playerID
		case model.AwardDud:
			out.Awards.DudPlayerID = &playerID
		}
	}
	for _, entry := range roster {
		p := MatchTeamPlayer{
			PlayerID: entry.PlayerID,
			Name:     entry.Name,
			PhotoURL: entry.PhotoURL,
			Score:    entry.Score,
			Team:     entry.Team,
			IsWinner: match.WinnerTeam != nil && entry.Team == *match.WinnerTeam,
			IsMvp:    out.Awards.MvpPlayerID != nil && entry.PlayerID == *out.Awards.MvpPlayerID,
			IsDud:    out.Awards.DudPlayerID != nil && entry.PlayerID == *out.Awards.DudPlayerID,
		}
		if entry.Team == model.TeamOne {
			out.TeamOne = append(out.TeamOne, p)
		} else {
			out.TeamTwo = append(out.TeamTwo, p)
		}
	}
	return out, nil
}

// RecentMatches latest matches by creation time
func (s *MatchService) RecentMatches(ctx context.Context, limit int) ([]*model.Match, error) {
	return s.matches.ListRecent(ctx, limit)
}
