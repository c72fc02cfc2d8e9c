package model

import (
	"time"
)

// Player is a registered roster member. Score is the running PDL total and
// may go negative. Players are only referenced by matches/votes, never
// deleted in normal flow.
type Player struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(80);index;not null" json:"name"`
	PhotoURL  *string   `gorm:"column:photo_url;type:text" json:"photo_url"`
	Score     int       `gorm:"column:score;not null;default:0" json:"score"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Player) TableName() string { return "players" }
