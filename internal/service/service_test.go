package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	"PdlLeague/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory sqlite database with the full
// schema migrated. Pool capped at one connection so the shared-cache
// memory db survives for the whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Player{},
		&model.Match{},
		&model.MatchPlayer{},
		&model.MatchAward{},
		&model.VotingSession{},
		&model.Vote{},
		&model.ScoreAudit{},
	))
	return db
}

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fixedShuffler returns the same permutation every time
type fixedShuffler struct {
	perm []int
}

func (f fixedShuffler) Perm(n int) []int {
	return append([]int(nil), f.perm...)
}

// identityShuffler keeps the input order: first five ids become team 1
func identityShuffler() Shuffler {
	return fixedShuffler{perm: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}}
}

// seedPlayers creates players named p1..pN and returns their ids
func seedPlayers(t *testing.T, db *gorm.DB, n int) []uint64 {
	t.Helper()
	svc := NewPlayerService(db, newTestLogger())
	ids := make([]uint64, 0, n)
	for i := 1; i <= n; i++ {
		p, err := svc.CreatePlayer(context.Background(), fmt.Sprintf("p%02d", i), 0, nil)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	return ids
}

func playerScore(t *testing.T, db *gorm.DB, playerID uint64) int {
	t.Helper()
	var p model.Player
	require.NoError(t, db.Where("id = ?", playerID).First(&p).Error)
	return p.Score
}
