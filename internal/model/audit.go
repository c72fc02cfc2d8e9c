package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditSource which flow mutated the scores
type AuditSource string

const (
	AuditSourceMatch  AuditSource = "match"  // direct settlement
	AuditSourceVote   AuditSource = "vote"   // vote-derived settlement
	AuditSourceManual AuditSource = "manual" // operator score override
)

// ScoreAudit is an append-only record of every score-mutating event.
// Deltas holds a JSON map of player id → applied delta (for overrides, the
// old and new absolute values). There is no reversal operation; the trail
// exists so one could be built later without guessing.
type ScoreAudit struct {
	ID              uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Source          AuditSource    `gorm:"column:source;type:varchar(16);not null" json:"source"`
	MatchID         *uint64        `gorm:"column:match_id;index" json:"match_id"`
	VotingSessionID *string        `gorm:"column:voting_session_id;type:varchar(36)" json:"voting_session_id"`
	Deltas          datatypes.JSON `gorm:"column:deltas;not null" json:"deltas"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ScoreAudit) TableName() string { return "score_audits" }
