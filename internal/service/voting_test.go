package service

import (
	"context"
	"testing"

	"PdlLeague/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openMatchWithSession draws a match and opens a session with team 1 as winner
func openMatchWithSession(t *testing.T, db *gorm.DB) (*MatchDraw, *model.VotingSession, *VotingService) {
	t.Helper()
	ids := seedPlayers(t, db, 10)
	matchSvc := NewMatchService(db, newTestLogger(), identityShuffler())
	draw, err := matchSvc.CreateMatch(context.Background(), ids)
	require.NoError(t, err)

	votingSvc := NewVotingService(db, newTestLogger())
	session, err := votingSvc.OpenSession(context.Background(), draw.MatchID, model.TeamOne)
	require.NoError(t, err)
	return draw, session, votingSvc
}

func TestOpenSessionBacklinksMatch(t *testing.T) {
	db := newTestDB(t)
	draw, session, _ := openMatchWithSession(t, db)

	assert.Equal(t, model.SessionActive, session.Status)
	assert.Equal(t, model.TeamOne, session.WinnerTeam)

	var match model.Match
	require.NoError(t, db.Where("id = ?", draw.MatchID).First(&match).Error)
	require.NotNil(t, match.VotingSessionID)
	assert.Equal(t, session.ID, *match.VotingSessionID)
}

func TestOpenSessionRejectsSecondActive(t *testing.T) {
	db := newTestDB(t)
	draw, _, votingSvc := openMatchWithSession(t, db)

	_, err := votingSvc.OpenSession(context.Background(), draw.MatchID, model.TeamTwo)
	assert.ErrorIs(t, err, ErrSessionAlreadyOpen)
}

func TestOpenSessionReplacesCompletedSession(t *testing.T) {
	db := newTestDB(t)
	draw, session, votingSvc := openMatchWithSession(t, db)

	require.NoError(t, db.Model(&model.VotingSession{}).
		Where("id = ?", session.ID).
		Update("status", model.SessionCompleted).Error)

	next, err := votingSvc.OpenSession(context.Background(), draw.MatchID, model.TeamTwo)
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, next.ID)

	var match model.Match
	require.NoError(t, db.Where("id = ?", draw.MatchID).First(&match).Error)
	require.NotNil(t, match.VotingSessionID)
	assert.Equal(t, next.ID, *match.VotingSessionID)
}

func TestOpenSessionRejectsSettledMatch(t *testing.T) {
	db := newTestDB(t)
	ids := seedPlayers(t, db, 10)
	matchSvc := NewMatchService(db, newTestLogger(), identityShuffler())
	ctx := context.Background()

	draw, err := matchSvc.CreateMatch(ctx, ids)
	require.NoError(t, err)
	require.NoError(t, matchSvc.CompleteMatch(ctx, draw.MatchID, model.TeamOne, draw.TeamOne[0], draw.TeamTwo[0]))

	votingSvc := NewVotingService(db, newTestLogger())
	_, err = votingSvc.OpenSession(ctx, draw.MatchID, model.TeamOne)
	assert.ErrorIs(t, err, ErrMatchAlreadySettled)

	_, err = votingSvc.OpenSession(ctx, 9999, model.TeamOne)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestSubmitBallotUpsert(t *testing.T) {
	db := newTestDB(t)
	draw, session, votingSvc := openMatchWithSession(t, db)
	ctx := context.Background()
	voter := uuid.NewString()

	require.NoError(t, votingSvc.SubmitBallot(ctx, session.ID, voter, draw.TeamOne[0], draw.TeamTwo[0]))
	require.NoError(t, votingSvc.SubmitBallot(ctx, session.ID, voter, draw.TeamOne[1], draw.TeamTwo[1]))

	var votes []model.Vote
	require.NoError(t, db.Where("voting_session_id = ?", session.ID).Find(&votes).Error)
	require.Len(t, votes, 1, "same voter token must keep a single ballot")
	assert.Equal(t, draw.TeamOne[1], votes[0].MvpPlayerID)
	assert.Equal(t, draw.TeamTwo[1], votes[0].DudPlayerID)
}

func TestSubmitBallotRejections(t *testing.T) {
	db := newTestDB(t)
	draw, session, votingSvc := openMatchWithSession(t, db)
	ctx := context.Background()

	err := votingSvc.SubmitBallot(ctx, session.ID, "", draw.TeamOne[0], draw.TeamTwo[0])
	assert.ErrorIs(t, err, ErrMissingVoterToken)

	err = votingSvc.SubmitBallot(ctx, uuid.NewString(), uuid.NewString(), draw.TeamOne[0], draw.TeamTwo[0])
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, db.Model(&model.VotingSession{}).
		Where("id = ?", session.ID).
		Update("status", model.SessionCompleted).Error)
	err = votingSvc.SubmitBallot(ctx, session.ID, uuid.NewString(), draw.TeamOne[0], draw.TeamTwo[0])
	assert.ErrorIs(t, err, ErrSessionCompleted)

	var total int64
	require.NoError(t, db.Model(&model.Vote{}).
		Where("voting_session_id = ?", session.ID).Count(&total).Error)
	assert.Zero(t, total, "rejected ballots must not leave rows behind")
}

func TestSubmitBallotAfterFinalize(t *testing.T) {
	db := newTestDB(t)
	draw, session, votingSvc := openMatchWithSession(t, db)
	ctx := context.Background()

	require.NoError(t, votingSvc.SubmitBallot(ctx, session.ID, uuid.NewString(), draw.TeamOne[0], draw.TeamTwo[0]))
	_, err := votingSvc.Finalize(ctx, session.ID)
	require.NoError(t, err)

	err = votingSvc.SubmitBallot(ctx, session.ID, uuid.NewString(), draw.TeamOne[1], draw.TeamTwo[1])
	assert.ErrorIs(t, err, ErrSessionCompleted)

	var total int64
	require.NoError(t, db.Model(&model.Vote{}).
		Where("voting_session_id = ?", session.ID).Count(&total).Error)
	assert.Equal(t, int64(1), total, "a finalized session must accept no further ballots")
}

func TestFinalizeWithoutBallots(t *testing.T) {
	db := newTestDB(t)
	_, session, votingSvc := openMatchWithSession(t, db)

	_, err := votingSvc.Finalize(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrNoBallots)

	var s model.VotingSession
	require.NoError(t, db.Where("id = ?", session.ID).First(&s).Error)
	assert.Equal(t, model.SessionActive, s.Status, "failed finalize must leave the session active")
}

func TestFinalizePluralityAndSettlement(t *testing.T) {
	db := newTestDB(t)
	draw, session, votingSvc := openMatchWithSession(t, db)
	ctx := context.Background()

	// 2 ballots for TeamOne[0] as mvp, 1 for TeamOne[1]
	require.NoError(t, votingSvc.SubmitBallot(ctx, session.ID, uuid.NewString(), draw.TeamOne[0], draw.TeamTwo[0]))
	require.NoError(t, votingSvc.SubmitBallot(ctx, session.ID, uuid.NewString(), draw.TeamOne[0], draw.TeamTwo[0]))
	require.NoError(t, votingSvc.SubmitBallot(ctx, session.ID, uuid.NewString(), draw.TeamOne[1], draw.TeamTwo[1]))

	result, err := votingSvc.Finalize(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, draw.TeamOne[0], result.MvpPlayerID)
	assert.Equal(t, draw.TeamTwo[0], result.DudPlayerID)

	assert.Equal(t, 35, playerScore(t, db, result.MvpPlayerID))
	assert.Equal(t, -35, playerScore(t, db, result.DudPlayerID))

	var s model.VotingSession
	require.NoError(t, db.Where("id = ?", session.ID).First(&s).Error)
	assert.Equal(t, model.SessionCompleted, s.Status)
	assert.NotNil(t, s.CompletedAt)

	var match model.Match
	require.NoError(t, db.Where("id = ?", draw.MatchID).First(&match).Error)
	require.NotNil(t, match.WinnerTeam)
	assert.Equal(t, session.WinnerTeam, *match.WinnerTeam)

	var audits []model.ScoreAudit
	require.NoError(t, db.Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Equal(t, model.AuditSourceVote, audits[0].Source)
}

func TestFinalizeTieBreaksToLowestID(t *testing.T) {
	db := newTestDB(t)
	draw, session, votingSvc := openMatchWithSession(t, db)
	ctx := context.Background()

	// one ballot each for two mvp candidates, submitted higher id first
	require.NoError(t, votingSvc.SubmitBallot(ctx, session.ID, uuid.NewString(), draw.TeamOne[3], draw.TeamTwo[3]))
	require.NoError(t, votingSvc.SubmitBallot(ctx, session.ID, uuid.NewString(), draw.TeamOne[0], draw.TeamTwo[0]))

	result, err := votingSvc.Finalize(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, draw.TeamOne[0], result.MvpPlayerID)
	assert.Equal(t, draw.TeamTwo[0], result.DudPlayerID)
}

func TestFinalizeTwiceRejected(t *testing.T) {
	db := newTestDB(t)
	draw, session, votingSvc := openMatchWithSession(t, db)
	ctx := context.Background()

	require.NoError(t, votingSvc.SubmitBallot(ctx, session.ID, uuid.NewString(), draw.TeamOne[0], draw.TeamTwo[0]))
	_, err := votingSvc.Finalize(ctx, session.ID)
	require.NoError(t, err)

	_, err = votingSvc.Finalize(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestFinalizeRejectsWrongSideWinner(t *testing.T) {
	db := newTestDB(t)
	draw, session, votingSvc := openMatchWithSession(t, db)
	ctx := context.Background()

	// ballots are accepted liberally, so a losing-side mvp can win the
	// tally; finalize must then fail and roll everything back
	require.NoError(t, votingSvc.SubmitBallot(ctx, session.ID, uuid.NewString(), draw.TeamTwo[0], draw.TeamTwo[1]))

	_, err := votingSvc.Finalize(ctx, session.ID)
	assert.ErrorIs(t, err, ErrMvpNotOnWinningTeam)

	var s model.VotingSession
	require.NoError(t, db.Where("id = ?", session.ID).First(&s).Error)
	assert.Equal(t, model.SessionActive, s.Status)

	var match model.Match
	require.NoError(t, db.Where("id = ?", draw.MatchID).First(&match).Error)
	assert.Nil(t, match.WinnerTeam)
	for _, id := range append(append([]uint64{}, draw.TeamOne...), draw.TeamTwo...) {
		assert.Equal(t, 0, playerScore(t, db, id))
	}
}

func TestSnapshotTallies(t *testing.T) {
	db := newTestDB(t)
	draw, session, votingSvc := openMatchWithSession(t, db)
	ctx := context.Background()

	require.NoError(t, votingSvc.SubmitBallot(ctx, session.ID, uuid.NewString(), draw.TeamOne[0], draw.TeamTwo[0]))
	require.NoError(t, votingSvc.SubmitBallot(ctx, session.ID, uuid.NewString(), draw.TeamOne[0], draw.TeamTwo[1]))

	snap, err := votingSvc.Snapshot(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.BallotCount)
	assert.Len(t, snap.WinnerSide, 5)
	assert.Len(t, snap.LoserSide, 5)
	assert.Equal(t, 2, snap.MvpTallies[draw.TeamOne[0]])
	assert.Equal(t, 1, snap.DudTallies[draw.TeamTwo[0]])
	assert.Equal(t, 1, snap.DudTallies[draw.TeamTwo[1]])

	_, err = votingSvc.Snapshot(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
