package repository

import (
	"context"

	"PdlLeague/internal/model"

	"gorm.io/gorm"
)

// VotingRepository voting session read side
type VotingRepository interface {
	GetSession(ctx context.Context, sessionID string) (*model.VotingSession, error)
	// ListVotes all ballots of a session, insertion order
	ListVotes(ctx context.Context, sessionID string) ([]*model.Vote, error)
	CountVotes(ctx context.Context, sessionID string) (int64, error)
}

type votingRepository struct {
	db *gorm.DB
}

// NewVotingRepository creates a VotingRepository
func NewVotingRepository(db *gorm.DB) VotingRepository {
	return &votingRepository{db: db}
}

func (r *votingRepository) GetSession(ctx context.Context, sessionID string) (*model.VotingSession, error) {
	var s model.VotingSession
	if err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *votingRepository) ListVotes(ctx context.Context, sessionID string) ([]*model.Vote, error) {
	var votes []*model.Vote
	if err := r.db.WithContext(ctx).Where("voting_session_id = ?", sessionID).
		Order("id ASC").Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *votingRepository) CountVotes(ctx context.Context, sessionID string) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Vote{}).
		Where("voting_session_id = ?", sessionID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
