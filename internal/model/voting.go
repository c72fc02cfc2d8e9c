package model

import (
	"time"
)

// SessionStatus voting session lifecycle, active → completed only
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// VotingSession is the optional crowd-vote decision path for a match. The
// winning team is fixed at open time; only mvp/dud are voted on. Once
// completed no further ballots are accepted and it cannot reopen.
type VotingSession struct {
	ID          string        `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	MatchID     uint64        `gorm:"column:match_id;index;not null" json:"match_id"`
	WinnerTeam  int           `gorm:"column:winner_team;not null" json:"winner_team"`
	Status      SessionStatus `gorm:"column:status;type:varchar(16);not null;default:active" json:"status"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	CompletedAt *time.Time    `gorm:"column:completed_at" json:"completed_at"`

	Match Match `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"-"`
}

func (VotingSession) TableName() string { return "voting_sessions" }

// Vote is one ballot. Unique per (session, voter token); a re-submission
// from the same token overwrites the previous choices.
type Vote struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	VotingSessionID string    `gorm:"column:voting_session_id;type:varchar(36);index;not null;uniqueIndex:uk_session_voter" json:"voting_session_id"`
	VoterToken      string    `gorm:"column:voter_token;type:varchar(36);not null;uniqueIndex:uk_session_voter" json:"voter_token"`
	MvpPlayerID     uint64    `gorm:"column:mvp_player_id;not null" json:"mvp_player_id"`
	DudPlayerID     uint64    `gorm:"column:dud_player_id;not null" json:"dud_player_id"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	VotingSession VotingSession `gorm:"foreignKey:VotingSessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Vote) TableName() string { return "votes" }
