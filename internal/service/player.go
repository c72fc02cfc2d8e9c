package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"PdlLeague/internal/model"
	"PdlLeague/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlayerService player ledger: registration, projections, manual overrides
type PlayerService struct {
	db      *gorm.DB
	players repository.PlayerRepository
	logger  *logrus.Logger
}

// NewPlayerService creates a PlayerService
func NewPlayerService(db *gorm.DB, logger *logrus.Logger) *PlayerService {
	return &PlayerService{
		db:      db,
		players: repository.NewPlayerRepository(db),
		logger:  logger,
	}
}

// CreatePlayer registers a player. PhotoURL is an opaque reference produced
// by the blob store; its content is never inspected here.
func (s *PlayerService) CreatePlayer(ctx context.Context, name string, score int, photoURL *string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 60 {
		return nil, ErrInvalidPlayerName
	}
	player := &model.Player{
		Name:     name,
		Score:    score,
		PhotoURL: photoURL,
	}
	if err := s.players.Create(ctx, player); err != nil {
		return nil, err
	}
	s.logger.WithField("player_id", player.ID).Info("player created")
	return player, nil
}

// ListPlayers all players, name ascending
func (s *PlayerService) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	return s.players.ListByName(ctx)
}

// Ranking all players, score descending with name ascending as tie-break
func (s *PlayerService) Ranking(ctx context.Context) ([]*model.Player, error) {
	return s.players.ListRanking(ctx)
}

// OverrideScore sets a player's score to an absolute value, with an audit
// row recording old and new inside the same transaction.
func (s *PlayerService) OverrideScore(ctx context.Context, playerID uint64, score int) (*model.Player, error) {
	var player model.Player
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", playerID).First(&player).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}
		oldScore := player.Score
		if err := tx.Model(&model.Player{}).
			Where("id = ?", playerID).
			Update("score", score).Error; err != nil {
			return err
		}
		player.Score = score

		payload, err := json.Marshal(map[string]interface{}{
			"player_id": playerID,
			"from":      oldScore,
			"to":        score,
		})
		if err != nil {
			return err
		}
		return tx.Create(&model.ScoreAudit{
			Source: model.AuditSourceManual,
			Deltas: datatypes.JSON(payload),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"player_id": playerID,
		"score":     score,
	}).Info("player score overridden")
	return &player, nil
}
