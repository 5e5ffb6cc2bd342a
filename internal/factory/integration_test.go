package factory

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pinochle-score/internal/model"
	redisstorage "github.com/mcoot/pinochle-score/internal/storage/redis"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

// playHand runs one hand from bid to tricks
func (s *IntegrationSuite) playHand(id model.GameID, bidder model.Player, bid int, trump model.Suit, usMeld, themMeld, usTricks, themTricks int) model.Game {
	ctrl := s.app.GameController

	_, err := ctrl.RecordBid(s.ctx, id, bidder, bid)
	s.Require().NoError(err)
	_, err = ctrl.DeclareTrump(s.ctx, id, trump)
	s.Require().NoError(err)
	update, err := ctrl.RecordMeld(s.ctx, id, usMeld, themMeld)
	s.Require().NoError(err)

	hand, _ := update.Game.CurrentHand()
	if hand.Phase() != model.PhaseWaitingForTricks {
		return update.Game
	}

	update, err = ctrl.RecordTricks(s.ctx, id, usTricks, themTricks)
	s.Require().NoError(err)
	return update.Game
}

// Test: Complete game from creation until one team passes the winning score
func (s *IntegrationSuite) TestCompleteGameFlow() {
	s.app.MockRandom.QueueID("GAME01")
	ctrl := s.app.GameController

	created, err := ctrl.StartNewGame(s.ctx, model.North)
	s.Require().NoError(err)
	id := created.Game.ID()
	s.Equal(model.GameID("GAME01"), id)

	_, err = ctrl.StartNewHand(s.ctx, id)
	s.Require().NoError(err)

	// Hand 1: West bids 51 in spades and makes it
	g := s.playHand(id, model.West, 51, model.Spades, 24, 32, 26, 24)
	us, them := g.RunningTotals()
	s.Equal(50, us)
	s.Equal(56, them)
	s.Equal(model.East, g.CurrentDealer())

	// Hand 2: North is set
	g = s.playHand(id, model.North, 70, model.Hearts, 40, 20, 20, 30)
	us, them = g.RunningTotals()
	s.Equal(-20, us)
	s.Equal(106, them)

	// Hand 3: East cannot declare trump
	g = s.playHand(id, model.East, 50, model.SuitNoMarriage, 30, 10, 0, 0)
	last, ok := g.LastCompletedHand()
	s.Require().True(ok)
	outcome, _ := last.Outcome()
	s.Equal(model.OutcomeNoMarriage, outcome)

	// Big hands to us until the game is decided
	for !g.IsGameComplete() {
		g = s.playHand(id, model.South, 60, model.Clubs, 200, 0, 50, 0)
	}

	winner, ok := g.Winner()
	s.Require().True(ok)
	s.Equal(model.TeamUs, winner)

	totals, err := ctrl.GetRunningTotal(s.ctx, id)
	s.Require().NoError(err)
	s.True(totals.Complete)
	s.Equal(model.TeamUs, totals.Winner)

	hands, err := ctrl.GetCompletedHands(s.ctx, id)
	s.Require().NoError(err)
	s.Len(hands, len(g.CompletedHands()))

	s.NoError(promtest.GatherAndCompare(s.app.Registry, strings.NewReader(`
# HELP pinochle_games_won_total Finished games by winning team.
# TYPE pinochle_games_won_total counter
pinochle_games_won_total{team="us"} 1
`), "pinochle_games_won_total"))
	count, err := promtest.GatherAndCount(s.app.Registry, "pinochle_hands_completed_total")
	s.Require().NoError(err)
	s.Equal(3, count) // made, set and no_marriage
}

// Test: Each game gets a single event hub
func (s *IntegrationSuite) TestHubManagerIsShared() {
	s.app.MockRandom.QueueID("GAME02")
	created, err := s.app.GameController.StartNewGame(s.ctx, model.East)
	s.Require().NoError(err)

	hub, release := s.app.HubManager.Watch(created.Game.ID())
	s.Same(hub, s.app.HubManager.GetHub(created.Game.ID()))

	release()
	s.Zero(s.app.HubManager.HubCount())
}

func TestNewRejectsBadStorageConfig(t *testing.T) {
	_, err := New(Config{StorageType: "postgres"})
	require.Error(t, err)

	_, err = New(Config{StorageType: StorageTypeRedis})
	require.Error(t, err)
}

func TestNewWithRedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)

	rc := redisstorage.DefaultConfig()
	rc.URL = "redis://" + mr.Addr()

	app, err := New(Config{StorageType: StorageTypeRedis, RedisConfig: &rc})
	require.NoError(t, err)

	ctx := context.Background()
	created, err := app.GameController.StartNewGame(ctx, model.South)
	require.NoError(t, err)
	id := created.Game.ID()

	_, err = app.GameController.StartNewHand(ctx, id)
	require.NoError(t, err)
	_, err = app.GameController.RecordBid(ctx, id, model.East, 55)
	require.NoError(t, err)

	hand, err := app.GameController.GetCurrentHand(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.PhaseWaitingForTrump, hand.Phase())
	require.True(t, mr.Exists("pinochle:game:"+string(id)))

	require.NoError(t, app.Close())
}

func TestNewDefaultsToMemoryStorage(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	games, err := app.GameController.ListGames(context.Background())
	require.NoError(t, err)
	require.Empty(t, games)
	require.NotNil(t, app.Registry)
}
