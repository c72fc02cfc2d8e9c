package service

import (
	"context"
	"errors"
	"time"

	"PdlLeague/internal/model"
	"PdlLeague/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VotingService crowd-vote decision path: open session, collect ballots,
// finalize into the same settlement as a direct completion
type VotingService struct {
	db      *gorm.DB
	voting  repository.VotingRepository
	matches repository.MatchRepository
	logger  *logrus.Logger
}

// NewVotingService creates a VotingService
func NewVotingService(db *gorm.DB, logger *logrus.Logger) *VotingService {
	return &VotingService{
		db:      db,
		voting:  repository.NewVotingRepository(db),
		matches: repository.NewMatchRepository(db),
		logger:  logger,
	}
}

// OpenSession opens an active voting session for an open match. The winner
// team is committed now; ballots only decide mvp/dud. A match can hold at
// most one active session at a time.
func (s *VotingService) OpenSession(ctx context.Context, matchID uint64, winnerTeam int) (*model.VotingSession, error) {
	if winnerTeam != model.TeamOne && winnerTeam != model.TeamTwo {
		return nil, ErrInvalidTeam
	}

	session := &model.VotingSession{
		ID:         uuid.NewString(),
		MatchID:    matchID,
		WinnerTeam: winnerTeam,
		Status:     model.SessionActive,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
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
		if match.VotingSessionID != nil {
			var prev model.VotingSession
			err := tx.Where("id = ?", *match.VotingSessionID).First(&prev).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err == nil && prev.Status == model.SessionActive {
				return ErrSessionAlreadyOpen
			}
		}
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		// guarded back-link: the match row must still look exactly like the
		// check above saw it, so two concurrent opens cannot both win
		backlink := tx.Model(&model.Match{}).
			Where("id = ? AND winner_team IS NULL", matchID)
		if match.VotingSessionID == nil {
			backlink = backlink.Where("voting_session_id IS NULL")
		} else {
			backlink = backlink.Where("voting_session_id = ?", *match.VotingSessionID)
		}
		res := backlink.Update("voting_session_id", session.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			var current model.Match
			if err := tx.Where("id = ?", matchID).First(&current).Error; err != nil {
				return err
			}
			if current.Settled() {
				return ErrMatchAlreadySettled
			}
			return ErrSessionAlreadyOpen
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"match_id":   matchID,
		"session_id": session.ID,
	}).Info("voting session opened")
	return session, nil
}

// SubmitBallot records one voter's mvp/dud choices. One ballot per voter
// token per session; a repeat submission overwrites the previous one.
// Choices are deliberately NOT validated against team membership here;
// ballots are accepted liberally and validated strictly at finalize.
func (s *VotingService) SubmitBallot(ctx context.Context, sessionID, voterToken string, mvpPlayerID, dudPlayerID uint64) error {
	if voterToken == "" {
		return ErrMissingVoterToken
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// guarded touch: takes the session row lock and re-checks the
		// status, so a finalize committed after our snapshot is observed
		// before the insert
		res := tx.Model(&model.VotingSession{}).
			Where("id = ? AND status = ?", sessionID, model.SessionActive).
			UpdateColumn("status", model.SessionActive)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			var session model.VotingSession
			if err := tx.Where("id = ?", sessionID).First(&session).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSessionNotFound
				}
				return err
			}
			return ErrSessionCompleted
		}

		vote := &model.Vote{
			VotingSessionID: sessionID,
			VoterToken:      voterToken,
			MvpPlayerID:     mvpPlayerID,
			DudPlayerID:     dudPlayerID,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "voting_session_id"}, {Name: "voter_token"}},
			DoUpdates: clause.AssignmentColumns([]string{"mvp_player_id", "dud_player_id", "updated_at"}),
		}).Create(vote).Error
	})
}

// FinalizeResult outcome of a finalized session
type FinalizeResult struct {
	MatchID     uint64 `json:"match_id"`
	MvpPlayerID uint64 `json:"mvp_player_id"`
	DudPlayerID uint64 `json:"dud_player_id"`
}

// Finalize tallies the ballots and settles the match. Plurality wins for
// mvp and dud separately; ties break to the lowest player id. The status
// flip and the settlement share one transaction, so a tallied winner on
// the wrong team side rolls everything back and the session stays active.
// Two concurrent finalizes cannot both win the guarded status flip.
func (s *VotingService) Finalize(ctx context.Context, sessionID string) (*FinalizeResult, error) {
	var result *FinalizeResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.VotingSession
		if err := tx.Where("id = ?", sessionID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if session.Status != model.SessionActive {
			return ErrSessionCompleted
		}

		var votes []*model.Vote
		if err := tx.Where("voting_session_id = ?", sessionID).Find(&votes).Error; err != nil {
			return err
		}
		if len(votes) == 0 {
			return ErrNoBallots
		}

		mvpCounts := make(map[uint64]int, len(votes))
		dudCounts := make(map[uint64]int, len(votes))
		for _, v := range votes {
			mvpCounts[v.MvpPlayerID]++
			dudCounts[v.DudPlayerID]++
		}
		mvpPlayerID := plurality(mvpCounts)
		dudPlayerID := plurality(dudCounts)

		// guarded flip: at most one finalize wins
		now := time.Now()
		res := tx.Model(&model.VotingSession{}).
			Where("id = ? AND status = ?", sessionID, model.SessionActive).
			Updates(map[string]interface{}{
				"status":       model.SessionCompleted,
				"completed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrSessionCompleted
		}

		if err := settleMatch(tx, session.MatchID, settlementDecision{
			winnerTeam:  session.WinnerTeam,
			mvpPlayerID: mvpPlayerID,
			dudPlayerID: dudPlayerID,
		}, model.AuditSourceVote, &session.ID); err != nil {
			return err
		}

		result = &FinalizeResult{
			MatchID:     session.MatchID,
			MvpPlayerID: mvpPlayerID,
			DudPlayerID: dudPlayerID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"match_id":   result.MatchID,
		"mvp":        result.MvpPlayerID,
		"dud":        result.DudPlayerID,
	}).Info("voting session finalized")
	return result, nil
}

// plurality picks the candidate with the strictly highest count, breaking
// ties to the lowest player id.
func plurality(counts map[uint64]int) uint64 {
	var winner uint64
	best := -1
	for id, n := range counts {
		if n > best || (n == best && id < winner) {
			winner = id
			best = n
		}
	}
	return winner
}

// SessionRosterPlayer roster member in the voting snapshot
type SessionRosterPlayer struct {
	PlayerID uint64  `json:"player_id"`
	Name     string  `json:"name"`
	PhotoURL *string `json:"photo_url"`
	Score    int     `json:"score"`
	Team     int     `json:"team"`
}

// SessionSnapshot read-only projection used to render live standings via
// plain poll/refresh
type SessionSnapshot struct {
	Session     *model.VotingSession  `json:"session"`
	Match       *model.Match          `json:"match"`
	WinnerSide  []SessionRosterPlayer `json:"winner_side"`
	LoserSide   []SessionRosterPlayer `json:"loser_side"`
	BallotCount int64                 `json:"ballot_count"`
	MvpTallies  map[uint64]int        `json:"mvp_tallies"`
	DudTallies  map[uint64]int        `json:"dud_tallies"`
}

// Snapshot combines session, roster split by winner/loser side and live
// tallies. Performs no mutation.
func (s *VotingService) Snapshot(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	session, err := s.voting.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	match, err := s.matches.GetByID(ctx, session.MatchID)
	if err != nil {
		return nil, err
	}
	roster, err := s.matches.GetRosterWithPlayers(ctx, session.MatchID)
	if err != nil {
		return nil, err
	}
	votes, err := s.voting.ListVotes(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ballots, err := s.voting.CountVotes(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	snap := &SessionSnapshot{
		Session:     session,
		Match:       match,
		WinnerSide:  []SessionRosterPlayer{},
		LoserSide:   []SessionRosterPlayer{},
		BallotCount: ballots,
		MvpTallies:  make(map[uint64]int),
		DudTallies:  make(map[uint64]int),
	}
	for _, entry := range roster {
		p := SessionRosterPlayer{
			PlayerID: entry.PlayerID,
			Name:     entry.Name,
			PhotoURL: entry.PhotoURL,
			Score:    entry.Score,
			Team:     entry.Team,
		}
		if entry.Team == session.WinnerTeam {
			snap.WinnerSide = append(snap.WinnerSide, p)
		} else {
			snap.LoserSide = append(snap.LoserSide, p)
		}
	}
	for _, v := range votes {
		snap.MvpTallies[v.MvpPlayerID]++
		snap.DudTallies[v.DudPlayerID]++
	}
	return snap, nil
}
