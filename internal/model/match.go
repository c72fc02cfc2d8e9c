package model

import (
	"time"
)

// AwardType per-match award kind
type AwardType string

const (
	AwardMvp AwardType = "mvp" // best player, must be on the winning team
	AwardDud AwardType = "dud" // worst player, must be on the losing team
)

// Team numbers are always 1 or 2.
const (
	TeamOne = 1
	TeamTwo = 2
)

// Match is one 5v5 game. WinnerTeam is null while the match is open;
// setting it marks the match settled and immutable.
type Match struct {
	ID              uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at"`
	WinnerTeam      *int       `gorm:"column:winner_team" json:"winner_team"`
	VotingSessionID *string    `gorm:"column:voting_session_id;type:varchar(36)" json:"voting_session_id"`
}

func (Match) TableName() string { return "matches" }

// Settled reports whether the match already has a recorded winner.
func (m *Match) Settled() bool { return m.WinnerTeam != nil }

// MatchPlayer is one roster entry: exactly ten per match, five per team,
// a player at most once per match.
type MatchPlayer struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MatchID  uint64 `gorm:"column:match_id;index;not null;uniqueIndex:uk_match_player" json:"match_id"`
	PlayerID uint64 `gorm:"column:player_id;not null;uniqueIndex:uk_match_player" json:"player_id"`
	Team     int    `gorm:"column:team;not null" json:"team"`

	Match  Match  `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"-"`
	Player Player `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MatchPlayer) TableName() string { return "match_players" }

// MatchAward links a settled match to its mvp/dud recipient. At most one
// row per (match, kind).
type MatchAward struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MatchID   uint64    `gorm:"column:match_id;not null;uniqueIndex:uk_match_award" json:"match_id"`
	PlayerID  uint64    `gorm:"column:player_id;not null" json:"player_id"`
	AwardType AwardType `gorm:"column:award_type;type:varchar(8);not null;uniqueIndex:uk_match_award" json:"award_type"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Match  Match  `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"-"`
	Player Player `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MatchAward) TableName() string { return "match_awards" }
