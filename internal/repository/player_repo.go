package repository

import (
	"context"

	"PdlLeague/internal/model"

	"gorm.io/gorm"
)

// PlayerRepository player persistence and projections
type PlayerRepository interface {
	Create(ctx context.Context, player *model.Player) error
	GetByID(ctx context.Context, playerID uint64) (*model.Player, error)
	// ListByName all players sorted by name ascending
	ListByName(ctx context.Context) ([]*model.Player, error)
	// ListRanking all players sorted by score descending, name ascending as tie-break
	ListRanking(ctx context.Context) ([]*model.Player, error)
	// CountByIDs how many of the given ids exist
	CountByIDs(ctx context.Context, playerIDs []uint64) (int64, error)
}

type playerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository creates a PlayerRepository
func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(ctx context.Context, player *model.Player) error {
	return r.db.WithContext(ctx).Create(player).Error
}

func (r *playerRepository) GetByID(ctx context.Context, playerID uint64) (*model.Player, error) {
	var p model.Player
	if err := r.db.WithContext(ctx).Where("id = ?", playerID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *playerRepository) ListByName(ctx context.Context) ([]*model.Player, error) {
	var players []*model.Player
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepository) ListRanking(ctx context.Context) ([]*model.Player, error) {
	var players []*model.Player
	if err := r.db.WithContext(ctx).Order("score DESC, name ASC").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepository) CountByIDs(ctx context.Context, playerIDs []uint64) (int64, error) {
	if len(playerIDs) == 0 {
		return 0, nil
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Player{}).
		Where("id IN ?", playerIDs).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
