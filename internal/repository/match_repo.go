package repository

import (
	"context"

	"PdlLeague/internal/model"

	"gorm.io/gorm"
)

// RosterEntry is a roster row joined with its player, the read shape used
// by match/voting projections.
type RosterEntry struct {
	PlayerID uint64  `json:"player_id"`
	Name     string  `json:"name"`
	PhotoURL *string `json:"photo_url"`
	Score    int     `json:"score"`
	Team     int     `json:"team"`
}

// MatchRepository match read side
type MatchRepository interface {
	GetByID(ctx context.Context, matchID uint64) (*model.Match, error)
	// ListRecent latest matches by creation time
	ListRecent(ctx context.Context, limit int) ([]*model.Match, error)
	// GetRoster roster rows for a match (no player join)
	GetRoster(ctx context.Context, matchID uint64) ([]*model.MatchPlayer, error)
	// GetRosterWithPlayers roster rows joined with player details, insertion order
	GetRosterWithPlayers(ctx context.Context, matchID uint64) ([]*RosterEntry, error)
	// GetAwards awards recorded for a match
	GetAwards(ctx context.Context, matchID uint64) ([]*model.MatchAward, error)
}

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a MatchRepository
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) GetByID(ctx context.Context, matchID uint64) (*model.Match, error) {
	var m model.Match
	if err := r.db.WithContext(ctx).Where("id = ?", matchID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *matchRepository) ListRecent(ctx context.Context, limit int) ([]*model.Match, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	var matches []*model.Match
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *matchRepository) GetRoster(ctx context.Context, matchID uint64) ([]*model.MatchPlayer, error) {
	var roster []*model.MatchPlayer
	if err := r.db.WithContext(ctx).Where("match_id = ?", matchID).
		Order("id ASC").Find(&roster).Error; err != nil {
		return nil, err
	}
	return roster, nil
}

func (r *matchRepository) GetRosterWithPlayers(ctx context.Context, matchID uint64) ([]*RosterEntry, error) {
	var entries []*RosterEntry
	if err := r.db.WithContext(ctx).Model(&model.MatchPlayer{}).
		Select("match_players.player_id, players.name, players.photo_url, players.score, match_players.team").
		Joins("JOIN players ON players.id = match_players.player_id").
		Where("match_players.match_id = ?", matchID).
		Order("match_players.id ASC").
		Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *matchRepository) GetAwards(ctx context.Context, matchID uint64) ([]*model.MatchAward, error) {
	var awards []*model.MatchAward
	if err := r.db.WithContext(ctx).Where("match_id = ?", matchID).Find(&awards).Error; err != nil {
		return nil, err
	}
	return awards, nil
}
