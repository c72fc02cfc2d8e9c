package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"PdlLeague/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PDL deltas applied on settlement. The mvp/dud adjustments stack on top of
// the team outcome, so the mvp nets +35 and the dud nets -35.
const (
	teamWinDelta  = 25
	teamLossDelta = -25
	mvpBonus      = 10
	dudPenalty    = -10
)

// settlementDecision is the settled outcome of a match, whether picked by
// an operator or tallied from ballots.
type settlementDecision struct {
	winnerTeam  int
	mvpPlayerID uint64
	dudPlayerID uint64
}

// settleMatch applies the full settlement effect inside tx: marks the match
// completed, replaces its awards and applies score deltas as relative SQL
// increments, plus one audit row. All preconditions are re-checked here so
// the caller's earlier reads cannot go stale between check and write; the
// `winner_team IS NULL` guard on the completion update makes concurrent
// settlements of the same match lose with ErrMatchAlreadySettled.
func settleMatch(tx *gorm.DB, matchID uint64, dec settlementDecision, source model.AuditSource, sessionID *string) error {
	if dec.mvpPlayerID == dec.dudPlayerID {
		return ErrSameAwardPlayer
	}
	if dec.winnerTeam != model.TeamOne && dec.winnerTeam != model.TeamTwo {
		return ErrInvalidTeam
	}

	var match model.Match
	if err := tx.Where("id = ?", matchID).First(&match).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	if match.Settled() {
		return ErrMatchAlreadySettled
	}

	var roster []*model.MatchPlayer
	if err := tx.Where("match_id = ?", matchID).Find(&roster).Error; err != nil {
		return err
	}
	if len(roster) != 10 {
		return ErrRosterIntegrity
	}

	winners := make([]uint64, 0, 5)
	losers := make([]uint64, 0, 5)
	for _, mp := range roster {
		if mp.Team == dec.winnerTeam {
			winners = append(winners, mp.PlayerID)
		} else {
			losers = append(losers, mp.PlayerID)
		}
	}
	if len(winners) != 5 || len(losers) != 5 {
		return ErrTeamSplitIntegrity
	}
	if !containsID(winners, dec.mvpPlayerID) {
		return ErrMvpNotOnWinningTeam
	}
	if !containsID(losers, dec.dudPlayerID) {
		return ErrDudNotOnLosingTeam
	}

	// guarded completion: only one settlement can flip winner_team
	now := time.Now()
	res := tx.Model(&model.Match{}).
		Where("id = ? AND winner_team IS NULL", matchID).
		Updates(map[string]interface{}{
			"winner_team":  dec.winnerTeam,
			"completed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrMatchAlreadySettled
	}

	if err := tx.Where("match_id = ?", matchID).Delete(&model.MatchAward{}).Error; err != nil {
		return err
	}
	awards := []*model.MatchAward{
		{MatchID: matchID, PlayerID: dec.mvpPlayerID, AwardType: model.AwardMvp},
		{MatchID: matchID, PlayerID: dec.dudPlayerID, AwardType: model.AwardDud},
	}
	if err := tx.Create(&awards).Error; err != nil {
		return err
	}

	// relative increments evaluated at write time, never read-modify-write
	for _, adj := range []struct {
		ids   []uint64
		delta int
	}{
		{winners, teamWinDelta},
		{losers, teamLossDelta},
		{[]uint64{dec.mvpPlayerID}, mvpBonus},
		{[]uint64{dec.dudPlayerID}, dudPenalty},
	} {
		if err := tx.Model(&model.Player{}).
			Where("id IN ?", adj.ids).
			UpdateColumn("score", gorm.Expr("score + ?", adj.delta)).Error; err != nil {
			return err
		}
	}

	deltas := make(map[string]int, 10)
	for _, id := range winners {
		deltas[strconv.FormatUint(id, 10)] += teamWinDelta
	}
	for _, id := range losers {
		deltas[strconv.FormatUint(id, 10)] += teamLossDelta
	}
	deltas[strconv.FormatUint(dec.mvpPlayerID, 10)] += mvpBonus
	deltas[strconv.FormatUint(dec.dudPlayerID, 10)] += dudPenalty
	payload, err := json.Marshal(deltas)
	if err != nil {
		return err
	}
	audit := model.ScoreAudit{
		Source:          source,
		MatchID:         &matchID,
		VotingSessionID: sessionID,
		Deltas:          datatypes.JSON(payload),
	}
	return tx.Create(&audit).Error
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
